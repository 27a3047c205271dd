package mapview

import (
	"sync"
	"sync/atomic"
	"time"
)

// Clock abstracts time for the render loop so pacing is testable with a
// simulated clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// pacer decides whether a frame is due. After a stall it catches up to
// the most recent frame boundary instead of replaying missed frames.
type pacer struct {
	interval time.Duration
	last     time.Time
}

func newPacer(fps float64, now time.Time) pacer {
	return pacer{
		interval: time.Duration(float64(time.Second) / fps),
		last:     now,
	}
}

// tick reports whether a frame is due at now and advances the schedule.
func (p *pacer) tick(now time.Time) bool {
	elapsed := now.Sub(p.last)
	if elapsed < p.interval {
		return false
	}
	p.last = now.Add(-(elapsed % p.interval))
	return true
}

// RenderLoop invokes a paint callback at a fixed frame rate on its own
// goroutine. A non-positive fps disables the loop entirely.
type RenderLoop struct {
	mu       sync.Mutex
	fps      float64
	paint    func()
	clock    Clock
	stop     chan struct{}
	done     chan struct{}
	running  bool
	painting atomic.Bool
}

// NewRenderLoop creates a stopped loop. The paint callback runs on the
// loop goroutine.
func NewRenderLoop(fps float64, paint func()) *RenderLoop {
	return &RenderLoop{fps: fps, paint: paint, clock: systemClock{}}
}

// SetClock replaces the time source. Only effective before Start.
func (l *RenderLoop) SetClock(c Clock) {
	l.mu.Lock()
	l.clock = c
	l.mu.Unlock()
}

// Start launches the loop goroutine. Starting a running loop is a no-op;
// starting with fps <= 0 is a no-op as well.
func (l *RenderLoop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running || l.fps <= 0 {
		return
	}
	l.running = true
	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	go l.run(l.fps, l.clock, l.stop, l.done)
	Logger().Info("render loop started", "fps", l.fps)
}

func (l *RenderLoop) run(fps float64, clock Clock, stop, done chan struct{}) {
	defer close(done)
	p := newPacer(fps, clock.Now())
	// Poll at a quarter of the frame interval so frame jitter stays well
	// under the frame duration.
	poll := p.interval / 4
	if poll <= 0 {
		poll = time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// Recheck before painting: when stop and the ticker are both
			// ready the select picks randomly, and a frame must never be
			// painted after a stop request.
			select {
			case <-stop:
				return
			default:
			}
			if p.tick(clock.Now()) {
				l.painting.Store(true)
				l.paint()
				l.painting.Store(false)
			}
		}
	}
}

// Stop halts the loop. Stopping a stopped loop is a no-op. Stop is safe
// to call from anywhere, including from inside the paint callback: it
// waits for the goroutine to exit unless a frame is currently painting,
// in which case it signals shutdown and returns so a callback calling
// Stop cannot deadlock on itself. The in-flight frame still completes
// and no further frame is painted.
func (l *RenderLoop) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	stop, done := l.stop, l.done
	l.mu.Unlock()

	close(stop)
	Logger().Info("render loop stopped")
	if l.painting.Load() {
		return
	}
	<-done
}

// Running reports whether the loop goroutine is active.
func (l *RenderLoop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// SetFPS changes the frame rate. A running loop is restarted at the new
// rate; fps <= 0 stops it.
func (l *RenderLoop) SetFPS(fps float64) {
	l.mu.Lock()
	wasRunning := l.running
	l.fps = fps
	l.mu.Unlock()

	if wasRunning {
		l.Stop()
		l.Start()
	}
}

// FPS returns the configured frame rate.
func (l *RenderLoop) FPS() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fps
}
