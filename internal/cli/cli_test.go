package cli

import (
	"strings"
	"testing"
)

func TestRunNoArgs(t *testing.T) {
	err := Run(nil)
	if err == nil {
		t.Fatal("expected error with no args")
	}
	if !strings.Contains(err.Error(), "usage") {
		t.Errorf("expected usage message, got: %v", err)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	err := Run([]string{"frobnicate"})
	if err == nil {
		t.Fatal("expected error with unknown command")
	}
	if !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("expected 'unknown command' error, got: %v", err)
	}
}

func TestRunMissingConfig(t *testing.T) {
	err := Run([]string{"run", "--config", "/nonexistent/config.yaml"})
	if err == nil {
		t.Fatal("expected error with missing config file")
	}
	if !strings.Contains(err.Error(), "read config") {
		t.Errorf("expected 'read config' error, got: %v", err)
	}
}

func TestRunBadFlag(t *testing.T) {
	if err := Run([]string{"run", "--no-such-flag"}); err == nil {
		t.Fatal("expected flag parse error")
	}
}
