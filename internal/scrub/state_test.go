package scrub

import "testing"

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{IdleState(), "idle"},
		{StartedState(), "scrub-started"},
		{EndedState(45.5), "scrub-ended(45.50)"},
		{State{Kind: Kind(99)}, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestState_PendingSeek(t *testing.T) {
	if _, ok := IdleState().PendingSeek(); ok {
		t.Error("Idle should have no pending seek")
	}
	if _, ok := StartedState().PendingSeek(); ok {
		t.Error("ScrubStarted should have no pending seek")
	}
	got, ok := EndedState(12.5).PendingSeek()
	if !ok || got != 12.5 {
		t.Errorf("PendingSeek() = %v, %v, want 12.5, true", got, ok)
	}
}
