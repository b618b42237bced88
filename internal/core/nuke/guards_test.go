package nuke

import "testing"

func TestCanStart(t *testing.T) {
	tests := []struct {
		name          string
		ctx           StartContext
		wantAllowed   bool
		wantViolation Violation
		wantReason    string
	}{
		{
			name:        "enabled and running",
			ctx:         StartContext{Enabled: true, EnableVariable: "DEVKIT_NUKE_ENABLED", Container: "web", ContainerRunning: true},
			wantAllowed: true,
		},
		{
			name:          "disabled wins over container state",
			ctx:           StartContext{Enabled: false, EnableVariable: "DEVKIT_NUKE_ENABLED", Container: "web", ContainerRunning: false},
			wantViolation: ViolationDisabled,
			wantReason:    "nuke is disabled - set DEVKIT_NUKE_ENABLED=1 to enable it",
		},
		{
			name:          "container not running",
			ctx:           StartContext{Enabled: true, Container: "web"},
			wantViolation: ViolationNotRunning,
			wantReason:    `container "web" is not running`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanStart(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if result.Violation != tt.wantViolation {
				t.Errorf("Violation = %q, want %q", result.Violation, tt.wantViolation)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCheckEnabled(t *testing.T) {
	if r := CheckEnabled(StartContext{Enabled: true}); !r.Allowed || r.Error() != nil {
		t.Errorf("expected enabled to pass, got %+v", r)
	}

	// no container information is needed to refuse
	r := CheckEnabled(StartContext{EnableVariable: "DEVKIT_NUKE_ENABLED"})
	if r.Allowed || r.Violation != ViolationDisabled {
		t.Fatalf("expected disabled violation, got %+v", r)
	}
	if r.Error() == nil || r.Error().Error() != "nuke is disabled - set DEVKIT_NUKE_ENABLED=1 to enable it" {
		t.Errorf("unexpected error %v", r.Error())
	}
}

func TestCanTarget(t *testing.T) {
	candidates := []string{"acme", "beta"}

	tests := []struct {
		name          string
		ctx           TargetContext
		wantAllowed   bool
		wantViolation Violation
	}{
		{
			name:        "known candidate",
			ctx:         TargetContext{Client: "acme", Candidates: candidates},
			wantAllowed: true,
		},
		{
			name:          "blocked name",
			ctx:           TargetContext{Client: "prod", Candidates: candidates},
			wantViolation: ViolationBlocked,
		},
		{
			name:          "blocked even when listed",
			ctx:           TargetContext{Client: "prod", Candidates: []string{"prod"}},
			wantViolation: ViolationBlocked,
		},
		{
			name:          "unknown name",
			ctx:           TargetContext{Client: "gamma", Candidates: candidates},
			wantViolation: ViolationUnknown,
		},
		{
			name:          "no candidates",
			ctx:           TargetContext{Client: "acme"},
			wantViolation: ViolationUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanTarget(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if result.Violation != tt.wantViolation {
				t.Errorf("Violation = %q, want %q", result.Violation, tt.wantViolation)
			}
		})
	}
}

func TestGuardResult_Error(t *testing.T) {
	if err := (GuardResult{Allowed: true}).Error(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	err := (GuardResult{Allowed: false, Reason: "nope"}).Error()
	if err == nil || err.Error() != "nope" {
		t.Errorf("expected error 'nope', got %v", err)
	}
}
