package mapview

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestPacer(t *testing.T) {
	t0 := time.Unix(0, 0)
	p := newPacer(10, t0) // 100ms frames

	if p.tick(t0.Add(50 * time.Millisecond)) {
		t.Error("frame due at 50ms, want not yet")
	}
	if !p.tick(t0.Add(100 * time.Millisecond)) {
		t.Error("frame not due at 100ms")
	}
	if p.tick(t0.Add(150 * time.Millisecond)) {
		t.Error("frame due again at 150ms")
	}
}

// After a stall the pacer renders one frame and realigns to the most
// recent frame boundary instead of replaying every missed frame.
func TestPacerCatchUp(t *testing.T) {
	t0 := time.Unix(0, 0)
	p := newPacer(10, t0)

	if !p.tick(t0.Add(250 * time.Millisecond)) {
		t.Fatal("frame not due after stall")
	}
	if want := t0.Add(200 * time.Millisecond); !p.last.Equal(want) {
		t.Errorf("last = %v, want aligned to %v", p.last, want)
	}
	// The next frame lands one interval after the boundary, not after
	// the stalled frame.
	if p.tick(t0.Add(290 * time.Millisecond)) {
		t.Error("frame due at 290ms")
	}
	if !p.tick(t0.Add(300 * time.Millisecond)) {
		t.Error("frame not due at 300ms")
	}
}

func TestRenderLoopPaints(t *testing.T) {
	var frames atomic.Int64
	l := NewRenderLoop(100, func() { frames.Add(1) })

	l.Start()
	defer l.Stop()

	deadline := time.After(2 * time.Second)
	for frames.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("no frame painted within 2s")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

// Stop must be callable from inside the paint callback without
// deadlocking, and the loop goroutine must still exit afterwards.
func TestRenderLoopStopFromPaintCallback(t *testing.T) {
	completed := make(chan struct{})
	var l *RenderLoop
	l = NewRenderLoop(200, func() {
		l.Stop()
		close(completed)
	})
	l.Start()

	select {
	case <-completed:
	case <-time.After(2 * time.Second):
		t.Fatal("paint callback never completed")
	}
	if l.Running() {
		t.Error("loop still marked running")
	}

	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop goroutine did not exit")
	}

	// A later Stop from another goroutine must return promptly too.
	finished := make(chan struct{})
	go func() {
		l.Stop()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("second Stop hung")
	}
}

func TestRenderLoopStartIdempotent(t *testing.T) {
	l := NewRenderLoop(100, func() {})
	l.Start()
	l.Start()
	if !l.Running() {
		t.Fatal("loop not running")
	}
	l.Stop()
	l.Stop()
	if l.Running() {
		t.Fatal("loop still running after stop")
	}
}

func TestRenderLoopDisabled(t *testing.T) {
	l := NewRenderLoop(0, func() { t.Error("paint called with fps 0") })
	l.Start()
	if l.Running() {
		t.Error("loop running with fps 0")
	}
	l.Stop()
}

func TestRenderLoopSetFPS(t *testing.T) {
	l := NewRenderLoop(30, func() {})
	l.SetFPS(60)
	if l.FPS() != 60 {
		t.Errorf("FPS = %v, want 60", l.FPS())
	}

	// Retargeting a running loop restarts it at the new rate.
	l.Start()
	l.SetFPS(120)
	if !l.Running() {
		t.Error("loop stopped by SetFPS")
	}
	if l.FPS() != 120 {
		t.Errorf("FPS = %v, want 120", l.FPS())
	}
	l.Stop()

	// Zero stops a running loop.
	l.SetFPS(60)
	l.Start()
	l.SetFPS(0)
	if l.Running() {
		t.Error("loop running after SetFPS(0)")
	}
}
