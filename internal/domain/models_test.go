package domain

import "testing"

func TestStatusValid(t *testing.T) {
	valid := []Status{StatusPendingScript, StatusPendingAssets, StatusPendingEdit, StatusFailed}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("Expected %s to be valid", s)
		}
	}

	invalid := []Status{"", "pending_script", "DONE", "PENDING_UPLOAD"}
	for _, s := range invalid {
		if s.Valid() {
			t.Errorf("Expected %q to be invalid", s)
		}
	}
}

func TestStatusScriptEligible(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPendingScript, true},
		{StatusFailed, true},
		{StatusPendingAssets, false},
		{StatusPendingEdit, false},
	}

	for _, tt := range tests {
		if got := tt.status.ScriptEligible(); got != tt.want {
			t.Errorf("ScriptEligible(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestStatusAssetEligible(t *testing.T) {
	if !StatusPendingAssets.AssetEligible() {
		t.Error("Expected PENDING_ASSETS to be asset eligible")
	}
	for _, s := range []Status{StatusPendingScript, StatusPendingEdit, StatusFailed} {
		if s.AssetEligible() {
			t.Errorf("Expected %s to not be asset eligible", s)
		}
	}
}
