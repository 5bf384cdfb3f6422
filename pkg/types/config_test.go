package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "unknown packed alignment policy",
			config:  Config{Backend: "memory", PackedAlignment: "max"},
			wantErr: ErrPackedAlignmentUnknown,
		},
		{
			name:   "valid sqlite config",
			config: Config{Backend: "sqlite", DataDir: "/tmp/data"},
		},
		{
			name:   "memory backend with unit policy",
			config: Config{Backend: "memory", PackedAlignment: PackedUnit},
		},
		{
			name:   "sqlite with empty DataDir is valid at config level",
			config: Config{Backend: "sqlite", DataDir: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigPolicyDefaultsToFirstMember(t *testing.T) {
	if got := (Config{}).Policy(); got != PackedFirstMember {
		t.Fatalf("expected %q, got %q", PackedFirstMember, got)
	}
	if got := (Config{PackedAlignment: PackedUnit}).Policy(); got != PackedUnit {
		t.Fatalf("expected %q, got %q", PackedUnit, got)
	}
}
