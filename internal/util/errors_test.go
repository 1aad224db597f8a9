package util

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestClusterError(t *testing.T) {
	baseErr := errors.New("connection failed")
	clusterErr := WrapClusterError("test-cluster", baseErr)

	if clusterErr == nil {
		t.Fatal("expected error, got nil")
	}

	expectedMsg := `cluster "test-cluster": connection failed`
	if clusterErr.Error() != expectedMsg {
		t.Errorf("expected %q, got %q", expectedMsg, clusterErr.Error())
	}

	if !errors.Is(clusterErr, baseErr) {
		t.Error("expected cluster error to wrap base error")
	}

	if nilErr := WrapClusterError("test", nil); nilErr != nil {
		t.Errorf("expected nil, got %v", nilErr)
	}
}

func TestMultiError(t *testing.T) {
	t.Run("empty multi-error", func(t *testing.T) {
		m := &MultiError{}
		if m.ErrorOrNil() != nil {
			t.Error("expected nil for empty multi-error")
		}
	})

	t.Run("single error", func(t *testing.T) {
		err := errors.New("test error")
		m := NewMultiError([]error{err})

		if m.Error() != "test error" {
			t.Errorf("expected %q, got %q", "test error", m.Error())
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		m := NewMultiError([]error{
			errors.New("error 1"),
			nil,
			errors.New("error 2"),
			errors.New("error 3"),
		})

		if len(m.Errors) != 3 {
			t.Errorf("expected 3 errors, got %d", len(m.Errors))
		}
		msg := m.Error()
		if !strings.Contains(msg, "3 errors occurred") {
			t.Errorf("expected message to contain '3 errors occurred', got %q", msg)
		}
	})

	t.Run("truncates long lists", func(t *testing.T) {
		m := &MultiError{}
		for i := 0; i < 12; i++ {
			m.Add(fmt.Errorf("error %d", i))
		}
		if !strings.Contains(m.Error(), "and 2 more errors") {
			t.Errorf("expected truncation note, got %q", m.Error())
		}
	})
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      *NotFoundError
		sentinel error
		wantMsg  string
	}{
		{
			name:     "context",
			err:      NewContextNotFound("prod"),
			sentinel: ErrClusterNotFound,
			wantMsg:  `context "prod" not found`,
		},
		{
			name:     "namespaced resource",
			err:      &NotFoundError{Kind: "pod", Name: "web-0", Namespace: "shop"},
			sentinel: ErrResourceNotFound,
			wantMsg:  `pod "web-0" not found in namespace "shop"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.wantMsg {
				t.Errorf("got %q, want %q", tt.err.Error(), tt.wantMsg)
			}
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("expected errors.Is(%v)", tt.sentinel)
			}
			if !IsNotFound(fmt.Errorf("wrapped: %w", tt.err)) {
				t.Error("expected IsNotFound through wrapping")
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")

	if NewTransportError("list pods", "prod", nil) != nil {
		t.Error("expected nil for nil cause")
	}

	err := NewTransportError("list pods", "prod", cause)
	if !errors.Is(err, cause) {
		t.Error("expected transport error to wrap cause")
	}
	if !IsTransport(fmt.Errorf("outer: %w", err)) {
		t.Error("expected IsTransport to match wrapped error")
	}
	if !strings.Contains(err.Error(), `context "prod"`) {
		t.Errorf("expected context in message, got %q", err.Error())
	}
}

func TestPartialFailureError(t *testing.T) {
	nodesErr := errors.New("nodes forbidden")
	err := &PartialFailureError{
		Failed: []string{"nodes"},
		Err:    NewMultiError([]error{nodesErr}),
	}

	if !errors.Is(err, nodesErr) {
		t.Error("expected partial failure to expose sub-fetch errors")
	}
	if !strings.Contains(err.Error(), "nodes") {
		t.Errorf("expected failed source in message, got %q", err.Error())
	}
}

func TestErrorPredicates(t *testing.T) {
	busy := fmt.Errorf("sweep: %w", &BusyError{Operation: "sweep", Holder: "switch"})
	if !IsBusy(busy) {
		t.Error("expected IsBusy")
	}
	if IsBusy(errors.New("other")) {
		t.Error("unexpected IsBusy for plain error")
	}

	conflict := &ConflictError{Kind: "deployment", Name: "web", Namespace: "shop", Err: errors.New("stale")}
	if !IsConflict(conflict) {
		t.Error("expected IsConflict")
	}
}

func TestFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"nil", nil, ""},
		{"busy", &BusyError{Operation: "sweep"}, "in progress"},
		{"in use", &InUseError{Context: "prod"}, `"prod" is active`},
		{"unsupported", &UnsupportedKindError{Kind: "Widget"}, `"Widget"`},
		{"revision", &RevisionNotFoundError{Workload: "web", Revision: 7}, "Revision 7"},
		{"conflict", &ConflictError{Err: errors.New("x")}, "changed by someone else"},
		{"partial", &PartialFailureError{Failed: []string{"pods", "nodes"}, Err: &MultiError{}}, "pods, nodes"},
		{"transport", NewTransportError("list", "", errors.New("refused")), "Failed to reach"},
		{"unknown", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FriendlyError(tt.err)
			if tt.contains == "" {
				if got != "" {
					t.Errorf("expected empty message, got %q", got)
				}
				return
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("expected %q to contain %q", got, tt.contains)
			}
		})
	}
}
