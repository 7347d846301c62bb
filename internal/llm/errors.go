package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sony/gobreaker"
)

// FallbackMessage is shown when a failure carries no usable description.
const FallbackMessage = "failed to generate memory card"

var (
	ErrNoAPIKey          = errors.New("API key not configured")
	ErrMalformedResponse = errors.New("malformed response")
	ErrUnknownProvider   = errors.New("unknown provider")
)

// ServiceError is a failure described by the generation service itself.
type ServiceError struct {
	Message string
	Code    string
	Status  int
}

func (e *ServiceError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = FallbackMessage
	}
	if e.Status != 0 {
		return fmt.Sprintf("API error (%d): %s", e.Status, msg)
	}
	return fmt.Sprintf("API error: %s", msg)
}

// Describe turns a generation failure into the text shown to the user: the
// service's own message when there is one, otherwise the error text, and
// FallbackMessage when neither says anything.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "generation service temporarily unavailable"
	}

	var se *ServiceError
	if errors.As(err, &se) {
		if msg := strings.TrimSpace(se.Message); msg != "" {
			return msg
		}
		return FallbackMessage
	}

	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return FallbackMessage
}
