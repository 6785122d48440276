package ports

import "time"

// Media is the opaque playback primitive: one instance per fetched audio
// clip. Implementations deliver time updates at an uncontrolled frequency;
// consumers must recompute from the reported position rather than
// accumulate state across notifications.
type Media interface {
	CurrentTime() time.Duration
	Seek(position time.Duration)
	Duration() time.Duration
	Paused() bool
	Play()
	Pause()
	// OnTimeUpdate registers a position listener and returns a detach
	// function. Detached listeners receive no further notifications.
	OnTimeUpdate(fn func(position time.Duration)) (cancel func())
}
