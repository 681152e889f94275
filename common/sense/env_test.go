package sense

import (
	"os"
	"testing"
)

func TestFeatureEnabledFlag(t *testing.T) {
	old := mainArgv
	defer func() { mainArgv = old }()
	os.Unsetenv("JSONLOG")

	tests := []struct {
		argv []string
		want bool
	}{
		{[]string{"etchash", "-jsonlog"}, true},
		{[]string{"etchash", "--jsonlog", "context", "1"}, true},
		{[]string{"etchash", "-jsonlog=false"}, false},
		{[]string{"etchash", "-jsonlog", "off"}, false},
		{[]string{"etchash", "context", "jsonlog"}, false},
		{[]string{"etchash", "-jsonlogs"}, false},
	}
	for _, tt := range tests {
		mainArgv = tt.argv
		if got := FeatureEnabled("JSONLOG", "jsonlog"); got != tt.want {
			t.Errorf("%q: got %v, want %v", tt.argv, got, tt.want)
		}
	}
}

func TestFeatureEnabledEnv(t *testing.T) {
	old := mainArgv
	defer func() { mainArgv = old }()
	mainArgv = []string{"etchash"}

	t.Setenv("COLOR", "yes")
	if !FeatureEnabled("COLOR", "color") {
		t.Fatal("env was not honoured")
	}
	t.Setenv("COLOR", "off")
	if FeatureEnabled("COLOR", "color") {
		t.Fatal("falsy env enabled the feature")
	}
	if !EnvBoolDisabled("COLOR") {
		t.Fatal("expected disabled")
	}
	os.Unsetenv("COLOR")
	if EnvBool("COLOR") || EnvBoolDisabled("COLOR") {
		t.Fatal("unset env is neither enabled nor disabled")
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("ETCHASH_CACHEDIR", " /tmp/x ")
	if got := EnvOr("ETCHASH_CACHEDIR", "def"); got != "/tmp/x" {
		t.Fatalf("got %q", got)
	}
	t.Setenv("ETCHASH_CACHEDIR", "  ")
	if got := EnvOr("ETCHASH_CACHEDIR", "def"); got != "def" {
		t.Fatalf("blank env: got %q", got)
	}
	os.Unsetenv("ETCHASH_NOPE")
	if got := EnvOr("ETCHASH_NOPE", "def"); got != "def" {
		t.Fatalf("got %q", got)
	}
}
