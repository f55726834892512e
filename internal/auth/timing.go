package auth

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// TimingConfig sets the floor and jitter for failed-login padding.
type TimingConfig struct {
	BaseDelayMs   int
	RandomDelayMs int // Upper bound of the added jitter
}

// TimingDelay pads failed authentication attempts to a minimum duration
// so "no such account" and "wrong password" are not distinguishable by
// response time.
type TimingDelay struct {
	config TimingConfig
}

func NewTimingDelay(config TimingConfig) *TimingDelay {
	return &TimingDelay{config: config}
}

// WaitFrom sleeps until at least base+jitter has elapsed since start.
// Work already done on the request counts toward the target, so a slow
// bcrypt compare does not stack a full extra delay on top.
func (td *TimingDelay) WaitFrom(start time.Time) {
	target := time.Duration(td.config.BaseDelayMs)*time.Millisecond + td.jitter()

	if elapsed := time.Since(start); elapsed < target {
		time.Sleep(target - elapsed)
	}
}

// jitter draws from crypto/rand; math/rand would let an observer model
// the delay distribution from a seed.
func (td *TimingDelay) jitter() time.Duration {
	if td.config.RandomDelayMs <= 0 {
		return 0
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}

	n := binary.BigEndian.Uint64(buf[:]) % uint64(td.config.RandomDelayMs)
	return time.Duration(n) * time.Millisecond
}
