package cardgen

import (
	"encoding/json"
	"fmt"
)

// ErrGenerationFailed is a non-2xx answer from the generation service.
type ErrGenerationFailed struct {
	Status int
	Body   string
}

func (e *ErrGenerationFailed) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("generation failed: status %d", e.Status)
	}
	return fmt.Sprintf("generation failed: status %d: %s", e.Status, e.Body)
}

// Transient reports whether the failure is worth retrying.
func (e *ErrGenerationFailed) Transient() bool {
	return e.Status >= 500 || e.Status == 429
}

// ErrInvalidResponse indicates the service answered 2xx with content that
// does not match the response contract.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid generation response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrUnavailable indicates the generator could not be reached.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generator unavailable: %v", e.Err)
	}
	return "generator unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }
