package playback

import "testing"

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateEmpty, "Empty"},
		{StateStopped, "Stopped"},
		{StatePlaying, "Playing"},
		{StatePaused, "Paused"},
		{State(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("State.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestState_IsActive(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateEmpty, false},
		{StateStopped, false},
		{StatePlaying, true},
		{StatePaused, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := tt.state.IsActive(); got != tt.want {
				t.Errorf("State.IsActive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestState_HasTrack(t *testing.T) {
	if StateEmpty.HasTrack() {
		t.Error("Empty.HasTrack() = true, want false")
	}
	for _, s := range []State{StateStopped, StatePlaying, StatePaused} {
		if !s.HasTrack() {
			t.Errorf("%v.HasTrack() = false, want true", s)
		}
	}
}
