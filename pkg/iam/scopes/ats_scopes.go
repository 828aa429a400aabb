package scopes

import "github.com/Abraxas-365/talentgate/pkg/iam/access"

// ============================================================================
// ATS SCOPES
// ============================================================================

// Scopes gate routes. Which rows a route returns is decided by the access
// resolver, not by these strings.
const (
	ScopeAll = "*"

	ScopeJobsRead = "jobs:read"

	ScopeEventsRead = "events:read"

	ScopeApplicantsAll   = "applicants:*"
	ScopeApplicantsRead  = "applicants:read"
	ScopeApplicantsWrite = "applicants:write"
	ScopeApplicantsStage = "applicants:stage"

	ScopeSubscriptionsAll   = "subscriptions:*"
	ScopeSubscriptionsRead  = "subscriptions:read"
	ScopeSubscriptionsWrite = "subscriptions:write"
)

var ScopeCategories = map[string][]string{
	"Jobs": {
		ScopeJobsRead,
	},
	"Events": {
		ScopeEventsRead,
	},
	"Applicants": {
		ScopeApplicantsAll,
		ScopeApplicantsRead,
		ScopeApplicantsWrite,
		ScopeApplicantsStage,
	},
	"Subscriptions": {
		ScopeSubscriptionsAll,
		ScopeSubscriptionsRead,
		ScopeSubscriptionsWrite,
	},
}

var ScopeDescriptions = map[string]string{
	ScopeAll:                "Full access to everything",
	ScopeJobsRead:           "View job postings",
	ScopeEventsRead:         "View recruiting events",
	ScopeApplicantsAll:      "Full access to applicants",
	ScopeApplicantsRead:     "View applicants",
	ScopeApplicantsWrite:    "Create applicants",
	ScopeApplicantsStage:    "Move applicants between stages and manage interviews",
	ScopeSubscriptionsAll:   "Full access to notification subscriptions",
	ScopeSubscriptionsRead:  "View notification subscribers",
	ScopeSubscriptionsWrite: "Set notification subscribers",
}

// ScopeGroups maps each role to the scopes carried in its tokens.
var ScopeGroups = map[access.RoleKind][]string{
	access.RoleKindAdmin: {
		ScopeAll,
	},
	access.RoleKindHiringManager: {
		ScopeJobsRead,
		ScopeEventsRead,
		ScopeApplicantsAll,
		ScopeSubscriptionsRead,
	},
	access.RoleKindReviewer: {
		ScopeJobsRead,
		ScopeEventsRead,
		ScopeApplicantsRead,
		ScopeApplicantsStage,
	},
}
