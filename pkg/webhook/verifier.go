// Package webhook verifies inbound billing-provider events. Polar signs
// deliveries with the Standard Webhooks scheme: an HMAC-SHA256 over
// "{id}.{timestamp}.{body}" carried in the webhook-signature header. The
// verification must run over the raw request body; a re-serialized body does
// not round-trip byte-for-byte and would never match.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Header names of the Standard Webhooks scheme.
const (
	HeaderID        = "webhook-id"
	HeaderTimestamp = "webhook-timestamp"
	HeaderSignature = "webhook-signature"
)

const secretPrefix = "whsec_"

// DefaultTolerance is the accepted clock skew between the provider's
// timestamp and the server clock.
const DefaultTolerance = 5 * time.Minute

var (
	// ErrMissingHeaders indicates required signature headers are absent.
	ErrMissingHeaders = errors.New("webhook: missing signature headers")
	// ErrInvalidTimestamp indicates the timestamp header is malformed or
	// outside the tolerance window.
	ErrInvalidTimestamp = errors.New("webhook: invalid timestamp")
	// ErrSignatureMismatch indicates no signature candidate matched the body.
	ErrSignatureMismatch = errors.New("webhook: signature mismatch")
	// ErrInvalidSecret indicates the shared secret cannot be decoded.
	ErrInvalidSecret = errors.New("webhook: invalid secret")
)

// Event is a verified provider event. Payload is the raw body; no
// event-type-specific handling happens here, the endpoint only gates and
// acknowledges.
type Event struct {
	ID        string
	Timestamp time.Time
	Type      string
	Payload   json.RawMessage
}

// Verifier checks event signatures against the shared endpoint secret.
type Verifier struct {
	key       []byte
	tolerance time.Duration
}

// NewVerifier builds a verifier from the shared secret as configured at the
// provider ("whsec_" prefixed base64 key, or a raw secret string).
func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: secret is required", ErrInvalidSecret)
	}

	key := []byte(secret)
	if rest, ok := strings.CutPrefix(secret, secretPrefix); ok {
		decoded, err := base64.StdEncoding.DecodeString(rest)
		if err != nil {
			return nil, errors.Join(ErrInvalidSecret, err)
		}
		key = decoded
	}

	return &Verifier{key: key, tolerance: DefaultTolerance}, nil
}

// Verify validates the signature headers against the raw body and returns the
// parsed event. Verification is stateless; replays of a valid delivery verify
// again.
func (v *Verifier) Verify(body []byte, headers http.Header) (*Event, error) {
	id := headers.Get(HeaderID)
	tsRaw := headers.Get(HeaderTimestamp)
	sigRaw := headers.Get(HeaderSignature)
	if id == "" || tsRaw == "" || sigRaw == "" {
		return nil, ErrMissingHeaders
	}

	tsUnix, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		return nil, errors.Join(ErrInvalidTimestamp, err)
	}
	ts := time.Unix(tsUnix, 0)
	if skew := time.Since(ts); skew > v.tolerance || skew < -v.tolerance {
		return nil, fmt.Errorf("%w: outside tolerance window", ErrInvalidTimestamp)
	}

	expected := v.sign(id, tsRaw, body)

	// The header may carry several space-separated candidates, one per active
	// endpoint key. Any v1 match accepts the delivery.
	for candidate := range strings.FieldsSeq(sigRaw) {
		sig, ok := strings.CutPrefix(candidate, "v1,")
		if !ok {
			continue
		}
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return parseEvent(id, ts, body), nil
		}
	}

	return nil, ErrSignatureMismatch
}

func (v *Verifier) sign(id, timestamp string, body []byte) string {
	h := hmac.New(sha256.New, v.key)
	fmt.Fprintf(h, "%s.%s.", id, timestamp)
	h.Write(body)
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func parseEvent(id string, ts time.Time, body []byte) *Event {
	event := &Event{
		ID:        id,
		Timestamp: ts,
		Payload:   json.RawMessage(append([]byte(nil), body...)),
	}

	// Best effort: the event type is informational only.
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		event.Type = envelope.Type
	}

	return event
}
