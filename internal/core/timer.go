package core

import "time"

// FixedStep paces externally driven ticks at a steady rate. It never blocks;
// callers poll ShouldStep from their own loop.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
// The first poll always reports a tick.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. Non-positive rates fall back to 60.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// Interval reports the duration of a single tick.
func (f *FixedStep) Interval() time.Duration { return f.step }

// ShouldStep reports whether the caller should advance by one tick.
func (f *FixedStep) ShouldStep() bool {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}
