package slack

import (
	"errors"
	"strconv"
	"testing"
	"time"

	sharederrors "github.com/slackstats/workstats/internal/shared/errors"
)

func newTestVerifier(secret string, now time.Time) *SignatureVerifier {
	v := NewSignatureVerifier(secret)
	v.now = func() time.Time { return now }
	return v
}

func TestVerifyValidSignature(t *testing.T) {
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	v := newTestVerifier("secret", now)

	body := []byte(`{"type":"event_callback"}`)
	timestamp := strconv.FormatInt(now.Unix(), 10)

	if err := v.Verify(timestamp, v.Sign(timestamp, body), body); err != nil {
		t.Errorf("Verify() unexpected error: %v", err)
	}
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	v := newTestVerifier("secret", now)

	body := []byte(`{"type":"event_callback"}`)
	timestamp := strconv.FormatInt(now.Unix(), 10)
	signature := v.Sign(timestamp, body)

	err := v.Verify(timestamp, signature, []byte(`{"type":"tampered"}`))
	if !errors.Is(err, sharederrors.ErrInvalidSignature) {
		t.Errorf("Verify() error = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	signer := newTestVerifier("other-secret", now)
	v := newTestVerifier("secret", now)

	body := []byte("payload")
	timestamp := strconv.FormatInt(now.Unix(), 10)

	err := v.Verify(timestamp, signer.Sign(timestamp, body), body)
	if !errors.Is(err, sharederrors.ErrInvalidSignature) {
		t.Errorf("Verify() error = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyRejectsStaleTimestamp(t *testing.T) {
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	v := newTestVerifier("secret", now)

	body := []byte("payload")
	stale := strconv.FormatInt(now.Add(-10*time.Minute).Unix(), 10)

	err := v.Verify(stale, v.Sign(stale, body), body)
	if !errors.Is(err, sharederrors.ErrInvalidSignature) {
		t.Errorf("Verify() error = %v, want ErrInvalidSignature for stale timestamp", err)
	}
}

func TestVerifyRejectsBadTimestamp(t *testing.T) {
	v := newTestVerifier("secret", time.Now())
	err := v.Verify("not-a-number", "v0=whatever", []byte("payload"))
	if !errors.Is(err, sharederrors.ErrInvalidSignature) {
		t.Errorf("Verify() error = %v, want ErrInvalidSignature", err)
	}
}
