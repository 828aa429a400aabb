package kernel

// ============================================================================
// Identifiers
// ============================================================================

type UserID string

func NewUserID(id string) UserID { return UserID(id) }
func (id UserID) String() string { return string(id) }
func (id UserID) IsEmpty() bool  { return id == "" }

type JobID string

func NewJobID(id string) JobID  { return JobID(id) }
func (id JobID) String() string { return string(id) }
func (id JobID) IsEmpty() bool  { return id == "" }

type EventID string

func NewEventID(id string) EventID { return EventID(id) }
func (id EventID) String() string  { return string(id) }
func (id EventID) IsEmpty() bool   { return id == "" }

type ApplicantID string

func NewApplicantID(id string) ApplicantID { return ApplicantID(id) }
func (id ApplicantID) String() string      { return string(id) }
func (id ApplicantID) IsEmpty() bool       { return id == "" }
