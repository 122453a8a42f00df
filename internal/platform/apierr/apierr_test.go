package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAs(t *testing.T) {
	base := errors.New("subject not found")
	wrapped := fmt.Errorf("load: %w", NotFound("subject_not_found", base))

	got := As(wrapped, "internal")
	if got.Status != http.StatusNotFound || got.Code != "subject_not_found" {
		t.Fatalf("unexpected api error: %+v", got)
	}
	if !errors.Is(got, base) {
		t.Fatalf("expected unwrap to reach the base error")
	}

	plain := As(errors.New("boom"), "internal")
	if plain.Status != http.StatusInternalServerError || plain.Code != "internal" {
		t.Fatalf("unexpected fallback: %+v", plain)
	}
}
