package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *RegError
		want []string
	}{
		{"code and message", Consistency("bracket mismatch"), []string{"CONSISTENCY", "bracket mismatch"}},
		{"with name", CurrentlyInCreation("db"), []string{"CURRENTLY_IN_CREATION", "'db'"}},
		{"with cause", CreationFailed("db", fmt.Errorf("dial tcp: refused")), []string{"CREATION_FAILED", "'db'", "refused"}},
		{"already bound", AlreadyBound("cfg", "old"), []string{"ALREADY_BOUND", "[old]", "'cfg'"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := tc.err.Error()
			for _, want := range tc.want {
				if !strings.Contains(msg, want) {
					t.Errorf("error %q missing %q", msg, want)
				}
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := CreationFailed("svc", cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestWithCause(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Consistency("bad state").WithCause(cause)
	if err.Unwrap() != cause {
		t.Errorf("expected cause %v, got %v", cause, err.Unwrap())
	}
}

func TestRelatedCauses(t *testing.T) {
	err := CreationFailed("svc", fmt.Errorf("top"))
	if len(err.RelatedCauses()) != 0 {
		t.Fatal("expected no related causes initially")
	}

	first := fmt.Errorf("first suppressed")
	second := fmt.Errorf("second suppressed")
	err.AddRelated(first)
	err.AddRelated(second)

	related := err.RelatedCauses()
	if len(related) != 2 {
		t.Fatalf("expected 2 related causes, got %d", len(related))
	}
	if related[0] != first || related[1] != second {
		t.Error("related causes out of order")
	}

	// Related causes must not leak into the unwrap chain.
	if stderrors.Is(err, first) {
		t.Error("related cause should not be reachable via errors.Is")
	}
}

func TestCodeOf(t *testing.T) {
	err := CreationNotAllowed("svc")
	if CodeOf(err) != ErrCodeCreationNotAllowed {
		t.Errorf("expected %s, got %s", ErrCodeCreationNotAllowed, CodeOf(err))
	}

	wrapped := fmt.Errorf("context: %w", err)
	if !HasCode(wrapped, ErrCodeCreationNotAllowed) {
		t.Error("expected HasCode to see through wrapping")
	}

	if CodeOf(fmt.Errorf("plain")) != "" {
		t.Error("expected empty code for non-registry error")
	}
}

func TestRelatedHelper(t *testing.T) {
	err := CreationFailed("svc", fmt.Errorf("top"))
	err.AddRelated(fmt.Errorf("suppressed"))

	wrapped := fmt.Errorf("outer: %w", err)
	if got := Related(wrapped); len(got) != 1 {
		t.Fatalf("expected 1 related cause through wrapping, got %d", len(got))
	}
	if Related(fmt.Errorf("plain")) != nil {
		t.Error("expected nil related for non-registry error")
	}
}
