package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/filmhaus/payment-service/internal/application"
)

var (
	// ErrInvalidPayload means the body could not be parsed as a processor event.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrInvalidSignature means the signature header failed verification.
	ErrInvalidSignature = errors.New("invalid signature")
)

// DefaultTolerance bounds how old a signed timestamp may be before the
// delivery is rejected as a replay.
const DefaultTolerance = 5 * time.Minute

// WebhookVerifier checks the processor's signature header, computed as
// HMAC-SHA256 over "<timestamp>.<raw payload>". Verification always runs on
// the exact bytes received; re-serialized JSON would not match.
type WebhookVerifier struct {
	secret    []byte
	tolerance time.Duration

	// now is swapped in tests to pin the clock.
	now func() time.Time
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{
		secret:    []byte(secret),
		tolerance: DefaultTolerance,
		now:       time.Now,
	}
}

type webhookEventPayload struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// VerifyAndParse validates the signature header against the raw payload and
// returns the parsed event. Signature problems (malformed header, stale
// timestamp, digest mismatch) and payload problems (unparseable JSON) are
// reported as distinct errors.
func (v *WebhookVerifier) VerifyAndParse(payload []byte, signatureHeader string) (*application.WebhookEvent, error) {
	timestamp, signatures, err := parseSignatureHeader(signatureHeader)
	if err != nil {
		return nil, err
	}

	age := v.now().Sub(time.Unix(timestamp, 0))
	if age > v.tolerance || age < -v.tolerance {
		return nil, fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
	}

	expected := computeSignature(v.secret, timestamp, payload)
	matched := false
	for _, sig := range signatures {
		if hmac.Equal(expected, sig) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, ErrInvalidSignature
	}

	var event webhookEventPayload
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if event.Type == "" {
		return nil, fmt.Errorf("%w: missing event type", ErrInvalidPayload)
	}

	return &application.WebhookEvent{
		ID:       event.ID,
		Type:     event.Type,
		IntentID: event.Data.Object.ID,
	}, nil
}

// parseSignatureHeader splits a "t=<unix>,v1=<hex>[,v1=<hex>...]" header.
func parseSignatureHeader(header string) (int64, [][]byte, error) {
	if header == "" {
		return 0, nil, fmt.Errorf("%w: missing signature header", ErrInvalidSignature)
	}

	var timestamp int64 = -1
	var signatures [][]byte

	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			return 0, nil, fmt.Errorf("%w: malformed signature header", ErrInvalidSignature)
		}

		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("%w: malformed timestamp", ErrInvalidSignature)
			}
			timestamp = ts
		case "v1":
			sig, err := hex.DecodeString(value)
			if err != nil {
				return 0, nil, fmt.Errorf("%w: malformed signature", ErrInvalidSignature)
			}
			signatures = append(signatures, sig)
		}
	}

	if timestamp < 0 || len(signatures) == 0 {
		return 0, nil, fmt.Errorf("%w: incomplete signature header", ErrInvalidSignature)
	}

	return timestamp, signatures, nil
}

func computeSignature(secret []byte, timestamp int64, payload []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return mac.Sum(nil)
}

var _ application.WebhookVerifier = (*WebhookVerifier)(nil)
