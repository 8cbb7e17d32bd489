package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestStripCodeBlock(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "hello", "hello"},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\ntext\n```", "text"},
		{"surrounding whitespace", "  \n```json\n{}\n```\n  ", "{}"},
		{"fence not at edges", "prefix ```json\n{}\n```", "prefix ```json\n{}\n```"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripCodeBlock(tc.in); got != tc.want {
				t.Errorf("StripCodeBlock(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	retryable := &RetryableError{StatusCode: 429, Message: "rate limited"}
	if !IsRetryable(retryable) {
		t.Error("RetryableError should be retryable")
	}
	if !IsRetryable(fmt.Errorf("call failed: %w", retryable)) {
		t.Error("wrapped RetryableError should be retryable")
	}
	if IsRetryable(errors.New("bad request")) {
		t.Error("plain error should not be retryable")
	}
	if IsRetryable(nil) {
		t.Error("nil should not be retryable")
	}
}

func TestRetryableErrorTruncatesMessage(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	err := &RetryableError{StatusCode: 503, Message: string(long)}
	if len(err.Error()) > 300 {
		t.Errorf("error message should be truncated, got %d chars", len(err.Error()))
	}
}

func TestBackoffBounds(t *testing.T) {
	for attempt := 0; attempt < 10; attempt++ {
		d := Backoff(attempt)
		if d < time.Second {
			t.Errorf("attempt %d: backoff %v below base", attempt, d)
		}
		if d > 45*time.Second {
			t.Errorf("attempt %d: backoff %v exceeds cap plus jitter", attempt, d)
		}
	}
}

type fakeProvider struct {
	calls int
	// failures is the number of leading calls that return a retryable
	// error before success.
	failures int
}

func (f *fakeProvider) Model() string { return "fake-model" }

func (f *fakeProvider) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", &RetryableError{StatusCode: 429, Message: "rate limited"}
	}
	return "ok", nil
}

// retryNoWait builds a retry wrapper whose backoff returns immediately.
func retryNoWait(p Provider) Provider {
	return &retrying{inner: p, backoff: func(int) time.Duration { return 0 }}
}

func TestWithRetry_RecoversFromTransientFailure(t *testing.T) {
	fake := &fakeProvider{failures: 1}
	p := retryNoWait(fake)
	out, err := p.GenerateContent(context.Background(), "hi")
	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if out != "ok" {
		t.Errorf("got %q", out)
	}
	if fake.calls != 2 {
		t.Errorf("expected 2 calls, got %d", fake.calls)
	}
}

func TestWithRetry_GivesUpAfterMaxRetries(t *testing.T) {
	fake := &fakeProvider{failures: 100}
	p := retryNoWait(fake)
	_, err := p.GenerateContent(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !IsRetryable(err) {
		t.Errorf("final error should still be the retryable cause, got %v", err)
	}
	if fake.calls != MaxRetries {
		t.Errorf("expected %d calls, got %d", MaxRetries, fake.calls)
	}
}

type permanentProvider struct{ calls int }

func (p *permanentProvider) Model() string { return "fake-model" }

func (p *permanentProvider) GenerateContent(ctx context.Context, prompt string) (string, error) {
	p.calls++
	return "", errors.New("invalid request")
}

func TestWithRetry_DoesNotRetryPermanentErrors(t *testing.T) {
	fake := &permanentProvider{}
	p := retryNoWait(fake)
	_, err := p.GenerateContent(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected error")
	}
	if fake.calls != 1 {
		t.Errorf("permanent errors must not be retried, got %d calls", fake.calls)
	}
}

func TestWithRetry_PreservesModelName(t *testing.T) {
	p := WithRetry(&fakeProvider{})
	if p.Model() != "fake-model" {
		t.Errorf("got %q", p.Model())
	}
}
