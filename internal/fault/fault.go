// Package fault sorts every error an operation can return into the four
// caller-facing categories and picks the HTTP status and envelope code for each.
package fault

import (
	"errors"
	"net/http"

	"github.com/marcus-qen/hragent/internal/hr"
	"github.com/marcus-qen/hragent/internal/workday"
)

// Kind is a caller-facing fault category.
type Kind int

const (
	Unexpected Kind = iota
	Unauthorized
	Validation
	Backend
)

func (k Kind) String() string {
	switch k {
	case Unauthorized:
		return "unauthorized"
	case Validation:
		return "validation"
	case Backend:
		return "backend"
	default:
		return "unexpected"
	}
}

// Envelope error codes.
const (
	CodeUnauthorized = "Unauthorized"
	CodeBadRequest   = "BadRequest"
	CodeBackend      = "WorkdayError"
	CodeInternal     = "InternalServerError"
)

// UnexpectedMessage replaces the detail of unexpected faults.
const UnexpectedMessage = "An unexpected error occurred."

// ErrUnauthorized is returned when the caller supplied no usable bearer credential.
var ErrUnauthorized = errors.New("Missing or invalid bearer token")

// Fault is a classified error ready to be rendered to the caller.
type Fault struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	// Details is the backend payload for Backend faults, nil otherwise.
	Details any
	// Err is the original error, kept for server-side logging.
	Err error
}

// Classify maps err onto a Fault. Backend statuses outside 400..599, including
// transport failures with no status, become 502.
func Classify(err error) Fault {
	var (
		backendErr    *workday.BackendError
		validationErr *hr.ValidationError
	)
	switch {
	case errors.Is(err, ErrUnauthorized):
		return Fault{Kind: Unauthorized, Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: ErrUnauthorized.Error(), Err: err}
	case errors.As(err, &validationErr):
		return Fault{Kind: Validation, Status: http.StatusBadRequest, Code: CodeBadRequest, Message: validationErr.Error(), Err: err}
	case errors.As(err, &backendErr):
		status := backendErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		return Fault{
			Kind:    Backend,
			Status:  status,
			Code:    CodeBackend,
			Message: backendErr.Error(),
			Details: backendErr.Payload,
			Err:     err,
		}
	default:
		return Fault{Kind: Unexpected, Status: http.StatusInternalServerError, Code: CodeInternal, Message: UnexpectedMessage, Err: err}
	}
}
