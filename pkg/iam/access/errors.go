package access

import (
	"net/http"

	"github.com/Abraxas-365/talentgate/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("ACCESS")

var (
	// Denials surface as not found so callers cannot probe for existence.
	CodeAccessDenied = ErrRegistry.Register("DENIED", errx.TypeNotFound, http.StatusNotFound, "Resource not found")
	CodeUnknownRole  = ErrRegistry.Register("UNKNOWN_ROLE", errx.TypeAuthorization, http.StatusForbidden, "User role is not recognised")
	CodeLookupFailed = ErrRegistry.Register("LOOKUP_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Access could not be resolved")
)

func ErrAccessDenied() *errx.Error {
	return ErrRegistry.New(CodeAccessDenied)
}

func ErrUnknownRole() *errx.Error {
	return ErrRegistry.New(CodeUnknownRole)
}

func ErrLookupFailed(err error) *errx.Error {
	return ErrRegistry.New(CodeLookupFailed).WithCause(err)
}
