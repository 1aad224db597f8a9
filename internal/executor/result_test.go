package executor

import (
	"errors"
	"testing"
)

func sampleResults() []Result {
	return []Result{
		{Name: "nodes", Data: 3},
		{Name: "pods", Error: errors.New("pods: timeout")},
		{Name: "namespaces", Data: 4},
		{Name: "metrics", Error: errors.New("metrics: not served")},
	}
}

func TestCountFailed(t *testing.T) {
	tests := []struct {
		name    string
		results []Result
		want    int
	}{
		{"empty", nil, 0},
		{"all successful", []Result{{Name: "a"}, {Name: "b"}}, 0},
		{"mixed", sampleResults(), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountFailed(tt.results); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
			if HasErrors(tt.results) != (tt.want > 0) {
				t.Errorf("HasErrors disagrees with CountFailed")
			}
		})
	}
}

func TestFilterFailed(t *testing.T) {
	failed := FilterFailed(sampleResults())
	if len(failed) != 2 {
		t.Fatalf("expected 2 failed results, got %d", len(failed))
	}
	if failed[0].Name != "pods" || failed[1].Name != "metrics" {
		t.Errorf("unexpected order: %s, %s", failed[0].Name, failed[1].Name)
	}
}

func TestFailedNames(t *testing.T) {
	got := FailedNames(sampleResults())
	want := []string{"pods", "metrics"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGetErrors(t *testing.T) {
	errs := GetErrors(sampleResults())
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(errs))
	}
	if errs[0].Error() != "pods: timeout" {
		t.Errorf("unexpected first error %v", errs[0])
	}
}

func TestByName(t *testing.T) {
	indexed := ByName(sampleResults())
	if len(indexed) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(indexed))
	}
	if indexed["namespaces"].Data.(int) != 4 {
		t.Errorf("unexpected namespaces data %v", indexed["namespaces"].Data)
	}
}
