package credentials

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func setupKeyring(t *testing.T) {
	t.Helper()
	keyring.MockInit()
	t.Setenv(APIKeyName, "")
}

func TestSetGetDeleteAPIKey(t *testing.T) {
	setupKeyring(t)

	if has, err := HasAPIKey(); err != nil || has {
		t.Fatalf("Expected empty keyring, got has=%v err=%v", has, err)
	}

	if err := SetAPIKey("  sk-stored \n"); err != nil {
		t.Fatalf("SetAPIKey failed: %v", err)
	}

	key, err := GetAPIKey()
	if err != nil {
		t.Fatalf("GetAPIKey failed: %v", err)
	}
	if key != "sk-stored" {
		t.Errorf("Expected trimmed key sk-stored, got %q", key)
	}

	if has, err := HasAPIKey(); err != nil || !has {
		t.Errorf("Expected stored key, got has=%v err=%v", has, err)
	}

	if err := DeleteAPIKey(); err != nil {
		t.Fatalf("DeleteAPIKey failed: %v", err)
	}
	if _, err := GetAPIKey(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := DeleteAPIKey(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestSetSecret_RejectsEmpty(t *testing.T) {
	setupKeyring(t)

	if err := SetSecret(APIKeyName, "   "); err == nil {
		t.Fatal("Expected error for blank secret")
	}
}

func TestResolveAPIKey(t *testing.T) {
	tests := []struct {
		name       string
		explicit   string
		env        string
		stored     string
		wantKey    string
		wantSource string
		wantErr    error
	}{
		{
			name:       "explicit wins",
			explicit:   "sk-flag",
			env:        "sk-env",
			stored:     "sk-keyring",
			wantKey:    "sk-flag",
			wantSource: SourceExplicit,
		},
		{
			name:       "environment before keyring",
			env:        "sk-env",
			stored:     "sk-keyring",
			wantKey:    "sk-env",
			wantSource: SourceEnv,
		},
		{
			name:       "keyring fallback",
			stored:     "sk-keyring",
			wantKey:    "sk-keyring",
			wantSource: SourceKeyring,
		},
		{
			name:     "nothing configured",
			explicit: "   ",
			wantErr:  ErrNoAPIKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupKeyring(t)
			t.Setenv(APIKeyName, tt.env)
			if tt.stored != "" {
				if err := SetAPIKey(tt.stored); err != nil {
					t.Fatalf("SetAPIKey failed: %v", err)
				}
			}

			key, source, err := ResolveAPIKey(tt.explicit)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if key != tt.wantKey {
				t.Errorf("Expected key %q, got %q", tt.wantKey, key)
			}
			if source != tt.wantSource {
				t.Errorf("Expected source %q, got %q", tt.wantSource, source)
			}
		})
	}
}

func TestResolveAPIKey_KeyringError(t *testing.T) {
	keyring.MockInitWithError(errors.New("dbus unavailable"))
	t.Setenv(APIKeyName, "")

	_, _, err := ResolveAPIKey("")
	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("Expected ErrNoAPIKey, got %v", err)
	}
}
