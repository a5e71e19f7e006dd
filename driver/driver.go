// Package driver feeds wall-clock time into a process model at the display
// frame rate.
package driver

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Clock is the time source; tests substitute a manual one.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Stepper is the part of the process model the driver needs.
type Stepper interface {
	AdvanceBy(total, maxStep float64) error
}

type Config struct {
	FrameRate  int     // ticks per second
	MaxStep    float64 // longest single integration step, s
	MaxElapsed float64 // longest interval integrated by one tick, s
}

func DefaultConfig() Config {
	return Config{
		FrameRate:  60,
		MaxStep:    0.05,
		MaxElapsed: 0.25,
	}
}

// Stats are the counters of a driver.
type Stats struct {
	Ticks       uint64  `json:"ticks"`
	Clamped     uint64  `json:"clamped"`
	LastElapsed float64 `json:"last_elapsed"`
}

type Option func(*Driver)

func WithClock(c Clock) Option {
	return func(d *Driver) { d.clock = c }
}

type Driver struct {
	model Stepper
	clock Clock
	cfg   Config

	mu    sync.Mutex
	last  time.Time
	stats Stats

	frames   chan uint64
	stop     chan struct{}
	stopOnce sync.Once
}

// New builds a driver; non-positive config values fall back to the defaults.
func New(m Stepper, cfg Config, opts ...Option) *Driver {
	def := DefaultConfig()
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = def.FrameRate
	}
	if !(cfg.MaxStep > 0) {
		cfg.MaxStep = def.MaxStep
	}
	if !(cfg.MaxElapsed > 0) {
		cfg.MaxElapsed = def.MaxElapsed
	}
	d := &Driver{
		model:  m,
		clock:  systemClock{},
		cfg:    cfg,
		frames: make(chan uint64, 1),
		stop:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.last = d.clock.Now()
	return d
}

func (d *Driver) Interval() time.Duration {
	return time.Second / time.Duration(d.cfg.FrameRate)
}

// Frames delivers the tick number after every tick that advanced the model.
// A frame is dropped when the previous one has not been consumed yet.
func (d *Driver) Frames() <-chan uint64 {
	return d.frames
}

// Rebase forgets the time elapsed since the last tick.
func (d *Driver) Rebase() {
	d.mu.Lock()
	d.last = d.clock.Now()
	d.mu.Unlock()
}

// Tick integrates the model over the time elapsed since the previous tick,
// clamped to MaxElapsed. A clock that has not moved produces no tick.
func (d *Driver) Tick() error {
	now := d.clock.Now()

	d.mu.Lock()
	elapsed := now.Sub(d.last).Seconds()
	d.last = now
	if elapsed <= 0 {
		d.mu.Unlock()
		return nil
	}
	if elapsed > d.cfg.MaxElapsed {
		log.WithFields(log.Fields{
			"elapsed": elapsed,
			"limit":   d.cfg.MaxElapsed,
		}).Debug("frame interval clamped")
		elapsed = d.cfg.MaxElapsed
		d.stats.Clamped++
	}
	d.stats.Ticks++
	d.stats.LastElapsed = elapsed
	tick := d.stats.Ticks
	d.mu.Unlock()

	if err := d.model.AdvanceBy(elapsed, d.cfg.MaxStep); err != nil {
		return err
	}

	select {
	case d.frames <- tick:
	default:
	}
	return nil
}

func (d *Driver) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// Run ticks at the frame rate until ctx is done or Stop is called.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.Interval())
	defer ticker.Stop()
	d.Rebase()

	var err error
LOOP:
	for {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break LOOP
		case <-d.stop:
			break LOOP
		case <-ticker.C:
			if terr := d.Tick(); terr != nil {
				log.WithError(terr).Error("tick failed")
			}
		}
	}
	log.WithField("ticks", d.Stats().Ticks).Debug("driver stopped")
	return err
}

// Stop ends Run. It is safe to call more than once.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
}
