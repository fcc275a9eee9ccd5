package compare

import "testing"

func TestClock_PlayPause(t *testing.T) {
	c := NewClock(0, 99, 30)

	if c.State() != StateStopped {
		t.Fatalf("expected initial state stopped, got %s", c.State())
	}

	c.Play()
	if c.State() != StatePlaying {
		t.Errorf("expected playing after Play, got %s", c.State())
	}

	c.Pause()
	if c.State() != StatePaused {
		t.Errorf("expected paused after Pause, got %s", c.State())
	}

	// Pause when not playing is a no-op.
	c.Pause()
	if c.State() != StatePaused {
		t.Errorf("expected paused to stay paused, got %s", c.State())
	}
}

func TestClock_PlayAtEndRestartsFromStart(t *testing.T) {
	c := NewClock(10, 50, 30)
	c.Seek(50)
	c.Play()
	if c.MasterIndex() != 10 {
		t.Errorf("expected restart from 10, got %d", c.MasterIndex())
	}
	if c.State() != StatePlaying {
		t.Errorf("expected playing, got %s", c.State())
	}
}

func TestClock_TickAdvancesAndPausesAtEnd(t *testing.T) {
	c := NewClock(0, 2, 30)
	c.Play()

	if !c.Tick() {
		t.Fatal("expected first tick to advance")
	}
	if c.MasterIndex() != 1 {
		t.Errorf("expected index 1, got %d", c.MasterIndex())
	}

	if !c.Tick() {
		t.Fatal("expected second tick to advance")
	}
	if c.MasterIndex() != 2 {
		t.Errorf("expected index 2, got %d", c.MasterIndex())
	}
	if c.State() != StatePaused {
		t.Errorf("expected paused on reaching last frame, got %s", c.State())
	}

	// Paused clock does not advance.
	if c.Tick() {
		t.Error("expected no advance while paused")
	}
	if c.MasterIndex() != 2 {
		t.Errorf("expected index to stay 2, got %d", c.MasterIndex())
	}
}

func TestClock_TickWhenStopped(t *testing.T) {
	c := NewClock(0, 99, 30)
	if c.Tick() {
		t.Error("expected no advance while stopped")
	}
	if c.MasterIndex() != 0 {
		t.Errorf("expected index 0, got %d", c.MasterIndex())
	}
}

func TestClock_StepSaturates(t *testing.T) {
	c := NewClock(0, 9, 30)

	c.Step(-1)
	if c.MasterIndex() != 0 {
		t.Errorf("expected step below start to stay at 0, got %d", c.MasterIndex())
	}
	if c.State() != StatePaused {
		t.Errorf("expected step from stopped to pause, got %s", c.State())
	}

	c.Seek(9)
	c.Step(1)
	if c.MasterIndex() != 9 {
		t.Errorf("expected step past end to stay at 9, got %d", c.MasterIndex())
	}

	c.Step(-3)
	if c.MasterIndex() != 6 {
		t.Errorf("expected 6 after stepping back 3, got %d", c.MasterIndex())
	}
}

func TestClock_StepPausesPlayback(t *testing.T) {
	c := NewClock(0, 99, 30)
	c.Play()
	c.Step(1)
	if c.State() != StatePaused {
		t.Errorf("expected step to pause playback, got %s", c.State())
	}
	if c.MasterIndex() != 1 {
		t.Errorf("expected index 1, got %d", c.MasterIndex())
	}
}

func TestClock_SeekClampsAndPreservesState(t *testing.T) {
	c := NewClock(5, 50, 30)
	c.Play()

	c.Seek(1000)
	if c.MasterIndex() != 50 {
		t.Errorf("expected seek clamped to 50, got %d", c.MasterIndex())
	}
	if c.State() != StatePlaying {
		t.Errorf("expected seek to preserve playing state, got %s", c.State())
	}

	c.Seek(-1000)
	if c.MasterIndex() != 5 {
		t.Errorf("expected seek clamped to 5, got %d", c.MasterIndex())
	}

	c.SeekToEnd()
	if c.MasterIndex() != 50 {
		t.Errorf("expected end 50, got %d", c.MasterIndex())
	}
	c.SeekToStart()
	if c.MasterIndex() != 5 {
		t.Errorf("expected start 5, got %d", c.MasterIndex())
	}
}

func TestClock_SetRangeClampsIndex(t *testing.T) {
	c := NewClock(0, 99, 30)
	c.Seek(80)

	c.SetRange(0, 40)
	if c.MasterIndex() != 40 {
		t.Errorf("expected index clamped to 40, got %d", c.MasterIndex())
	}

	// Collapsed range pins to lo.
	c.SetRange(10, 0)
	if c.MasterIndex() != 10 {
		t.Errorf("expected collapsed range to pin index to 10, got %d", c.MasterIndex())
	}
}

func TestClock_DefaultRate(t *testing.T) {
	c := NewClock(0, 10, 0)
	if c.Rate() != 30.0 {
		t.Errorf("expected default rate 30, got %f", c.Rate())
	}
}
