package version

import (
	"encoding/json"
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" {
		t.Error("Version should not be empty")
	}

	if info.Commit == "" {
		t.Error("Commit should not be empty")
	}

	if info.GoVersion == "" {
		t.Error("GoVersion should not be empty")
	}

	expectedPlatform := runtime.GOOS + "/" + runtime.GOARCH
	if info.Platform != expectedPlatform {
		t.Errorf("Platform = %s, want %s", info.Platform, expectedPlatform)
	}
}

func TestString(t *testing.T) {
	info := Get()
	output := info.String()

	if !strings.Contains(output, "fleetdeck") {
		t.Error("String output should contain 'fleetdeck'")
	}

	if !strings.Contains(output, info.Version) {
		t.Errorf("String output should contain version %s", info.Version)
	}

	if !strings.Contains(output, info.Commit) {
		t.Errorf("String output should contain commit %s", info.Commit)
	}
}

func TestInfoJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(Get())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var result map[string]string
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"version", "commit", "buildTime", "goVersion", "platform"} {
		if _, ok := result[key]; !ok {
			t.Errorf("JSON output missing %q", key)
		}
	}
}

func TestUserAgent(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	defer func() { Version = old }()

	want := "fleetdeck/v1.2.3 (" + runtime.GOOS + "/" + runtime.GOARCH + ")"
	if got := UserAgent(); got != want {
		t.Errorf("UserAgent() = %q, want %q", got, want)
	}
}
