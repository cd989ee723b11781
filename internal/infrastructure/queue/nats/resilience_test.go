package nats

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
)

func TestClassifyNATSError(t *testing.T) {
	if class := classifyNATSError(context.Canceled); class.Retryable || class.RecordFailure {
		t.Fatalf("canceled must be neither retryable nor recorded: %+v", class)
	}
	if class := classifyNATSError(fmt.Errorf("publish: %w", nats.ErrNoServers)); !class.Retryable {
		t.Fatalf("no servers must be retryable: %+v", class)
	}
	if class := classifyNATSError(errors.New("bad subject")); class.Retryable {
		t.Fatalf("unknown errors must not be retryable: %+v", class)
	}
}

func TestWrapTemporaryIfNeeded(t *testing.T) {
	err := wrapTemporaryIfNeeded(nats.ErrTimeout)
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary, got %v", err)
	}
	plain := errors.New("bad subject")
	if got := wrapTemporaryIfNeeded(plain); got != plain {
		t.Fatalf("expected error unchanged, got %v", got)
	}
	if wrapTemporaryIfNeeded(nil) != nil {
		t.Fatalf("expected nil")
	}
}
