package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusAndCodeThroughWrapping(t *testing.T) {
	base := New(http.StatusBadGateway, CodeUnparseable, errors.New("no stage matched"))
	wrapped := fmt.Errorf("roadmap: %w", base)

	if got := StatusOf(wrapped); got != http.StatusBadGateway {
		t.Fatalf("StatusOf=%d", got)
	}
	if got := CodeOf(wrapped); got != CodeUnparseable {
		t.Fatalf("CodeOf=%q", got)
	}
	if got := StatusOf(errors.New("plain")); got != http.StatusInternalServerError {
		t.Fatalf("plain StatusOf=%d", got)
	}
	if got := CodeOf(errors.New("plain")); got != CodeInternal {
		t.Fatalf("plain CodeOf=%q", got)
	}
}
