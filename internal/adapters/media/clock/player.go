// Package clock simulates clip playback against a wall clock. The CLI
// has no audio output; what matters for gameplay is an accurate,
// seekable position within the unlocked clip, which this provides.
package clock

import (
	"sync"
	"time"

	"github.com/humdle/humdle-cli/internal/ports"
)

const updateInterval = 100 * time.Millisecond

// Player is a ports.Media implementation whose position advances in
// real time while playing. Reaching the end pauses it there.
type Player struct {
	clock    ports.Clock
	duration time.Duration

	mu sync.Mutex
	// base is the position at the last play, pause or seek; while
	// playing, the elapsed wall time since playedAt is added on top.
	base      time.Duration
	playedAt  time.Time
	playing   bool
	listeners map[int]func()
	nextID    int
}

var _ ports.Media = (*Player)(nil)

type Option func(*Player)

func WithClock(clock ports.Clock) Option {
	return func(p *Player) {
		if clock != nil {
			p.clock = clock
		}
	}
}

func NewPlayer(duration time.Duration, opts ...Option) *Player {
	p := &Player{
		clock:     ports.SystemClock{},
		duration:  duration,
		listeners: map[int]func(){},
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Player) CurrentTime() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.positionLocked()
}

func (p *Player) Seek(position time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.base = clamp(position, p.duration)
	p.playedAt = p.clock.Now()
}

func (p *Player) Duration() time.Duration {
	return p.duration
}

func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.settleLocked()
	return !p.playing
}

func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.playing {
		return
	}
	p.playing = true
	p.playedAt = p.clock.Now()
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.base = p.positionLocked()
	p.playing = false
}

// OnTimeUpdate polls the position on a short interval and notifies the
// listener while playback is active.
func (p *Player) OnTimeUpdate(fn func(position time.Duration)) (cancel func()) {
	stop := make(chan struct{})
	var once sync.Once

	p.mu.Lock()
	id := p.nextID
	p.nextID++
	cancel = func() {
		once.Do(func() {
			close(stop)
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
	p.listeners[id] = cancel
	p.mu.Unlock()

	go func() {
		ticker := time.NewTicker(updateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				p.mu.Lock()
				playing := p.playing
				position := p.positionLocked()
				p.mu.Unlock()
				if playing {
					fn(position)
				}
			}
		}
	}()

	return cancel
}

// Close detaches every listener. It goes through each listener's own
// cancel func, so a cancel held by a caller stays safe to invoke after
// Close.
func (p *Player) Close() {
	p.mu.Lock()
	cancels := make([]func(), 0, len(p.listeners))
	for _, cancel := range p.listeners {
		cancels = append(cancels, cancel)
	}
	p.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

func (p *Player) positionLocked() time.Duration {
	p.settleLocked()
	if !p.playing {
		return p.base
	}

	return clamp(p.base+p.clock.Now().Sub(p.playedAt), p.duration)
}

// settleLocked pauses playback once the end is reached, folding the
// elapsed time into base so the position freezes at the duration.
func (p *Player) settleLocked() {
	if !p.playing {
		return
	}

	position := clamp(p.base+p.clock.Now().Sub(p.playedAt), p.duration)
	if position >= p.duration {
		p.base = p.duration
		p.playing = false
	}
}

func clamp(position, duration time.Duration) time.Duration {
	if position < 0 {
		return 0
	}
	if position > duration {
		return duration
	}

	return position
}
