package cluster

import (
	"errors"
	"testing"

	"github.com/aryankumar/fleetdeck/internal/util"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"pod", KindPod, false},
		{"Pods", KindPod, false},
		{"po", KindPod, false},
		{"Deployment", KindDeployment, false},
		{"deploy", KindDeployment, false},
		{"svc", KindService, false},
		{"ConfigMap", KindConfigMap, false},
		{"cm", KindConfigMap, false},
		{" secret ", KindSecret, false},
		{"Widget", 0, true},
		{"", 0, true},
		{"statefulset", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if tt.wantErr {
				var unsupported *util.UnsupportedKindError
				if !errors.As(err, &unsupported) {
					t.Fatalf("got %v, want UnsupportedKindError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKind_TextRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		text, err := k.MarshalText()
		if err != nil {
			t.Fatalf("marshal %v: %v", k, err)
		}

		var parsed Kind
		if err := parsed.UnmarshalText(text); err != nil {
			t.Fatalf("unmarshal %q: %v", text, err)
		}
		if parsed != k {
			t.Errorf("round trip of %v gave %v", k, parsed)
		}
	}

	if Kind(0).Valid() {
		t.Error("zero kind must be invalid")
	}
	if got := Kind(99).String(); got != "Kind(99)" {
		t.Errorf("got %q", got)
	}
}
