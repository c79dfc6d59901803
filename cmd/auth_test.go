package cmd

import (
	"strings"
	"testing"

	"github.com/mark3labs/dillma/internal/credentials"
)

func TestAuthLogin_FromPipe(t *testing.T) {
	resetCommandState(t)

	out, _, err := execute(t, "sk-piped-key-1234\n", "auth", "login")
	if err != nil {
		t.Fatalf("auth login failed: %v", err)
	}
	if !strings.Contains(out, "API key stored") {
		t.Errorf("unexpected output %q", out)
	}

	key, err := credentials.GetAPIKey()
	if err != nil {
		t.Fatalf("GetAPIKey failed: %v", err)
	}
	if key != "sk-piped-key-1234" {
		t.Errorf("expected stored key, got %q", key)
	}
}

func TestAuthLogin_FromTerminalPrompt(t *testing.T) {
	resetCommandState(t)
	stdinIsTerminal = func() bool { return true }
	readPassword = func() (string, error) { return "sk-typed-key-5678", nil }

	_, stderr, err := execute(t, "", "auth", "login")
	if err != nil {
		t.Fatalf("auth login failed: %v", err)
	}
	if !strings.Contains(stderr, "Enter API key") {
		t.Errorf("expected prompt on stderr, got %q", stderr)
	}
	if key, _ := credentials.GetAPIKey(); key != "sk-typed-key-5678" {
		t.Errorf("expected typed key to be stored, got %q", key)
	}
}

func TestAuthLogin_Empty(t *testing.T) {
	resetCommandState(t)

	if _, _, err := execute(t, "  \n", "auth", "login"); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestAuthStatusAndLogout(t *testing.T) {
	resetCommandState(t)

	out, _, err := execute(t, "", "auth", "status")
	if err != nil {
		t.Fatalf("auth status failed: %v", err)
	}
	if !strings.Contains(out, "no API key configured") {
		t.Errorf("expected missing key report, got %q", out)
	}

	if err := credentials.SetAPIKey("sk-abcdefghijklmnop"); err != nil {
		t.Fatalf("SetAPIKey failed: %v", err)
	}
	out, _, err = execute(t, "", "auth", "status")
	if err != nil {
		t.Fatalf("auth status failed: %v", err)
	}
	if !strings.Contains(out, "sk-...mnop") || !strings.Contains(out, "keyring") {
		t.Errorf("expected masked keyring key, got %q", out)
	}
	if strings.Contains(out, "sk-abcdefghijklmnop") {
		t.Errorf("status must not print the full key, got %q", out)
	}

	out, _, err = execute(t, "", "auth", "logout")
	if err != nil {
		t.Fatalf("auth logout failed: %v", err)
	}
	if !strings.Contains(out, "removed") {
		t.Errorf("unexpected logout output %q", out)
	}

	out, _, err = execute(t, "", "auth", "logout")
	if err != nil {
		t.Fatalf("second logout failed: %v", err)
	}
	if !strings.Contains(out, "No API key stored") {
		t.Errorf("unexpected second logout output %q", out)
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"short", "*****"},
		{"sk-1234567890abcd", "sk-...abcd"},
	}
	for _, tt := range tests {
		if got := maskKey(tt.in); got != tt.want {
			t.Errorf("maskKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAuthStatus_EnvKeyWithStoredKey(t *testing.T) {
	resetCommandState(t)
	t.Setenv("OPENAI_API_KEY", "sk-from-environment")

	out, _, err := execute(t, "", "auth", "status")
	if err != nil {
		t.Fatalf("auth status failed: %v", err)
	}
	if !strings.Contains(out, "environment") {
		t.Errorf("expected environment source, got %q", out)
	}
	if strings.Contains(out, "also stored") {
		t.Errorf("expected no keyring note without a stored key, got %q", out)
	}

	if err := credentials.SetAPIKey("sk-stored-in-keyring"); err != nil {
		t.Fatalf("SetAPIKey failed: %v", err)
	}
	out, _, err = execute(t, "", "auth", "status")
	if err != nil {
		t.Fatalf("auth status failed: %v", err)
	}
	if !strings.Contains(out, "also stored in the system keyring") {
		t.Errorf("expected keyring note, got %q", out)
	}
}
