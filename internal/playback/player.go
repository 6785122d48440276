package playback

import (
	"sync"
	"time"

	"github.com/humdle/humdle-cli/internal/domain"
	"github.com/humdle/humdle-cli/internal/ports"
)

// Player drives a media primitive according to the game's unlocked
// segments. It holds no playback state of its own beyond the next seek
// target: every read recomputes from the media position, so time-update
// notifications at any frequency are safe.
type Player struct {
	media ports.Media

	mu         sync.Mutex
	game       domain.Game
	seekTarget time.Duration
}

func NewPlayer(media ports.Media, game domain.Game) *Player {
	return &Player{media: media, game: game}
}

// SetGame swaps in an updated game, e.g. after a guess unlocked another
// segment. The media resource and position are left alone.
func (p *Player) SetGame(game domain.Game) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.game = game
}

// Toggle plays or pauses. Pausing captures the exact position as the
// next seek target so resuming does not jump; playing from the end of
// the unlocked region restarts at zero.
func (p *Player) Toggle() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.media.Paused() {
		p.media.Pause()
		p.seekTarget = p.media.CurrentTime()
		return
	}

	target := p.seekTarget
	if p.media.CurrentTime() >= p.unlockedEndLocked() {
		target = 0
	}
	p.media.Seek(p.clampLocked(target))
	p.media.Play()
}

// Back jumps to the greatest seek point before the current position.
// Returns false (a no-op) when there is none.
func (p *Player) Back() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	target, ok := SeekBack(SeekPoints(p.game), p.positionMillisLocked())
	if !ok {
		return false
	}
	p.seekLocked(target)

	return true
}

// Forward jumps to the smallest seek point after the current position.
// Returns false (a no-op) when there is none.
func (p *Player) Forward() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	target, ok := SeekForward(SeekPoints(p.game), p.positionMillisLocked())
	if !ok {
		return false
	}
	p.seekLocked(target)

	return true
}

// PositionMillis is the current playback position.
func (p *Player) PositionMillis() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.positionMillisLocked()
}

// Segments is the segment view at the current position.
func (p *Player) Segments() []Segment {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Segments(p.game, p.positionMillisLocked())
}

func (p *Player) seekLocked(targetMillis int64) {
	target := time.Duration(targetMillis) * time.Millisecond
	p.seekTarget = target
	p.media.Seek(p.clampLocked(target))
}

func (p *Player) positionMillisLocked() int64 {
	return p.media.CurrentTime().Milliseconds()
}

func (p *Player) unlockedEndLocked() time.Duration {
	return time.Duration(UnlockedEndMillis(p.game)) * time.Millisecond
}

// clampLocked keeps seeks inside the unlocked region; locked segments
// are not seekable.
func (p *Player) clampLocked(target time.Duration) time.Duration {
	if target < 0 {
		return 0
	}
	if end := p.unlockedEndLocked(); target > end {
		return end
	}

	return target
}
