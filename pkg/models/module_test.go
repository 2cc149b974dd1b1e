package models

import "testing"

func TestModuleTypeValid(t *testing.T) {
	tests := []struct {
		typ  ModuleType
		want bool
	}{
		{ModuleTypeBackend, true},
		{ModuleTypeFrontend, true},
		{ModuleTypeFullstack, true},
		{ModuleTypeMobile, true},
		{ModuleTypeQA, true},
		{ModuleTypeDeploy, true},
		{ModuleType("database"), false},
		{ModuleType(""), false},
	}

	for _, tt := range tests {
		if got := tt.typ.Valid(); got != tt.want {
			t.Errorf("ModuleType(%q).Valid() = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestModuleStatusValid(t *testing.T) {
	valid := []ModuleStatus{
		ModuleStatusPlanned, ModuleStatusReady, ModuleStatusInProgress,
		ModuleStatusWaitingDependency, ModuleStatusPaused,
		ModuleStatusCompleted, ModuleStatusFailed, ModuleStatusCancelled,
	}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("expected status %q to be valid", s)
		}
	}

	if ModuleStatus("testing").Valid() {
		t.Error("expected unknown status to be invalid")
	}
}

func TestModuleStatusTerminal(t *testing.T) {
	tests := []struct {
		status ModuleStatus
		want   bool
	}{
		{ModuleStatusCompleted, true},
		{ModuleStatusFailed, true},
		{ModuleStatusCancelled, true},
		{ModuleStatusPlanned, false},
		{ModuleStatusReady, false},
		{ModuleStatusInProgress, false},
		{ModuleStatusPaused, false},
		{ModuleStatusWaitingDependency, false},
	}

	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.want {
			t.Errorf("ModuleStatus(%q).Terminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestModuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		module  Module
		wantErr bool
	}{
		{
			name:   "valid backend module",
			module: Module{Name: "auth", Type: ModuleTypeBackend, Complexity: 5},
		},
		{
			name:   "type is optional",
			module: Module{Name: "misc", Complexity: 3},
		},
		{
			name:    "missing name",
			module:  Module{Type: ModuleTypeBackend, Complexity: 5},
			wantErr: true,
		},
		{
			name:    "unknown type",
			module:  Module{Name: "auth", Type: "database", Complexity: 5},
			wantErr: true,
		},
		{
			name:   "zero complexity means unrated",
			module: Module{Name: "auth", Type: ModuleTypeBackend},
		},
		{
			name:    "complexity above range",
			module:  Module{Name: "auth", Type: ModuleTypeBackend, Complexity: 11},
			wantErr: true,
		},
		{
			name:    "negative complexity",
			module:  Module{Name: "auth", Type: ModuleTypeBackend, Complexity: -1},
			wantErr: true,
		},
		{
			name:    "self dependency",
			module:  Module{Name: "auth", Type: ModuleTypeBackend, Complexity: 5, DependsOn: []string{"auth"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.module.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
