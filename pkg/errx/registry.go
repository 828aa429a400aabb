package errx

import (
	"fmt"
	"sync"
)

type registration struct {
	errType    Type
	httpStatus int
	message    string
}

// Registry holds the error codes owned by one domain package.
// Codes are prefixed with the registry name: NewRegistry("USER") + "NOT_FOUND" -> "USER_NOT_FOUND".
type Registry struct {
	prefix string
	mu     sync.RWMutex
	codes  map[Code]registration
}

func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		codes:  make(map[Code]registration),
	}
}

// Register declares a code. Registering the same code twice panics.
func (r *Registry) Register(code string, t Type, httpStatus int, message string) Code {
	full := Code(fmt.Sprintf("%s_%s", r.prefix, code))

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.codes[full]; exists {
		panic(fmt.Sprintf("errx: duplicate error code %s", full))
	}
	r.codes[full] = registration{errType: t, httpStatus: httpStatus, message: message}
	return full
}

// New returns a fresh *Error for a registered code.
func (r *Registry) New(code Code) *Error {
	r.mu.RLock()
	reg, ok := r.codes[code]
	r.mu.RUnlock()

	if !ok {
		return &Error{
			Code:       code,
			Type:       TypeInternal,
			Message:    "unregistered error code",
			HTTPStatus: statusForType(TypeInternal),
		}
	}

	return &Error{
		Code:       code,
		Type:       reg.errType,
		Message:    reg.message,
		HTTPStatus: reg.httpStatus,
	}
}
