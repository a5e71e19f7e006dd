// Package tour holds the guided walkthrough of the plant: which step the
// visitor is on, what the camera should look at, and which piece of
// equipment is hovered or selected.
package tour

import (
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidStep      = errors.New("tour: invalid step")
	ErrUnknownSubsystem = errors.New("tour: unknown subsystem")
)

// Progress is the position within the tour as shown on the step bar.
type Progress struct {
	Index   int     `json:"index"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
	First   bool    `json:"first"`
	Last    bool    `json:"last"`
}

// Focus is the equipment currently under the pointer and the one whose
// detail panel is open.
type Focus struct {
	Hovered  Subsystem `json:"hovered"`
	Selected Subsystem `json:"selected"`
}

type Controller struct {
	mu      sync.RWMutex
	current Step
	focus   Focus
}

func NewController() *Controller {
	return &Controller{current: Idle}
}

// SetStep jumps to any step; ids outside the tour are rejected.
func (c *Controller) SetStep(s Step) error {
	if !s.Valid() {
		return fmt.Errorf("set step %d: %w", int(s), ErrInvalidStep)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moveTo(s)
	return nil
}

// Next advances one step, staying on the last one.
func (c *Controller) Next() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current < stepCount-1 {
		c.moveTo(c.current + 1)
	}
	return c.current
}

// Prev goes back one step, staying on the first one.
func (c *Controller) Prev() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current > Idle {
		c.moveTo(c.current - 1)
	}
	return c.current
}

func (c *Controller) moveTo(s Step) {
	if s == c.current {
		return
	}
	log.WithFields(log.Fields{
		"from": c.current,
		"to":   s,
	}).Debug("tour step changed")
	c.current = s
}

func (c *Controller) Current() Step {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// CurrentView returns the descriptor of the current step.
func (c *Controller) CurrentView() View {
	v, _ := ViewOf(c.Current())
	return v
}

func (c *Controller) Progress() Progress {
	cur := c.Current()
	last := int(stepCount) - 1
	return Progress{
		Index:   int(cur),
		Count:   int(stepCount),
		Percent: float64(cur) / float64(last) * 100,
		First:   cur == Idle,
		Last:    int(cur) == last,
	}
}

// Hover marks the subsystem under the pointer; SubsystemNone clears it.
func (c *Controller) Hover(s Subsystem) error {
	if !s.Valid() {
		return fmt.Errorf("hover %d: %w", int(s), ErrUnknownSubsystem)
	}
	c.mu.Lock()
	c.focus.Hovered = s
	c.mu.Unlock()
	return nil
}

// Select opens the detail panel of a subsystem; SubsystemNone closes it.
func (c *Controller) Select(s Subsystem) error {
	if !s.Valid() {
		return fmt.Errorf("select %d: %w", int(s), ErrUnknownSubsystem)
	}
	c.mu.Lock()
	c.focus.Selected = s
	c.mu.Unlock()
	return nil
}

func (c *Controller) Focus() Focus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.focus
}

// Reset returns to the first step and clears the focus.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = Idle
	c.focus = Focus{}
}
