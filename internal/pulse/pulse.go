// Package pulse tracks the short-lived "just completed" signal per habit.
package pulse

import (
	"sync"
	"time"
)

// DefaultDuration is how long a pulse stays active.
const DefaultDuration = time.Second

// ExpireFunc is called once a pulse clears on its own.
type ExpireFunc func(habitID int)

type pending struct {
	timer *time.Timer
	gen   uint64
}

// Pulser keeps one cancellable timer per habit id. Re-triggering an id
// replaces its timer, so an older timer can never clear a newer pulse.
type Pulser struct {
	duration time.Duration
	onExpire ExpireFunc

	mu      sync.Mutex
	gen     uint64
	active  map[int]pending
	stopped bool
}

// New creates a Pulser. A non-positive duration falls back to DefaultDuration.
func New(d time.Duration, onExpire ExpireFunc) *Pulser {
	if d <= 0 {
		d = DefaultDuration
	}
	return &Pulser{
		duration: d,
		onExpire: onExpire,
		active:   make(map[int]pending),
	}
}

// Trigger (re)arms the pulse for habitID.
func (p *Pulser) Trigger(habitID int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	if prev, ok := p.active[habitID]; ok {
		prev.timer.Stop()
	}
	p.gen++
	gen := p.gen
	p.active[habitID] = pending{
		timer: time.AfterFunc(p.duration, func() { p.expire(habitID, gen) }),
		gen:   gen,
	}
}

// Cancel clears the pulse for habitID without invoking the expire callback.
func (p *Pulser) Cancel(habitID int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if prev, ok := p.active[habitID]; ok {
		prev.timer.Stop()
		delete(p.active, habitID)
	}
}

// Active reports whether habitID currently has a live pulse.
func (p *Pulser) Active(habitID int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.active[habitID]
	return ok
}

// Stop cancels every pending pulse. Later triggers are ignored.
func (p *Pulser) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	for id, pd := range p.active {
		pd.timer.Stop()
		delete(p.active, id)
	}
}

func (p *Pulser) expire(habitID int, gen uint64) {
	p.mu.Lock()
	pd, ok := p.active[habitID]
	if !ok || pd.gen != gen {
		p.mu.Unlock()
		return
	}
	delete(p.active, habitID)
	p.mu.Unlock()

	if p.onExpire != nil {
		p.onExpire(habitID)
	}
}
