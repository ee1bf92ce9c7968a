package polar

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrNotFound indicates the API answered 404 for the requested resource.
	ErrNotFound = errors.New("polar: not found")

	// ErrCustomerNotFound indicates Polar has no customer record for the
	// external id yet. This is the normal state for first-time buyers, not a
	// fault.
	ErrCustomerNotFound = errors.New("polar: customer not found")
)

// APIError is a non-2xx response from the Polar API.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("polar: api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("polar: api returned status %d: %s", e.StatusCode, e.Detail)
}

func newAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	// The error body is {"detail": ...} where detail is a string or a list of
	// validation problems; keep whatever it was as text.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(raw) > 0 {
		var envelope struct {
			Detail json.RawMessage `json:"detail"`
		}
		if json.Unmarshal(raw, &envelope) == nil && len(envelope.Detail) > 0 {
			var detail string
			if json.Unmarshal(envelope.Detail, &detail) == nil {
				apiErr.Detail = detail
			} else {
				apiErr.Detail = string(envelope.Detail)
			}
		}
	}

	if resp.StatusCode == http.StatusNotFound {
		return errors.Join(ErrNotFound, apiErr)
	}
	return apiErr
}
