package tracker

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrStarted is returned by Init on a tracker that is already running.
	ErrStarted = errors.New("tracker: already started")
	// ErrClosed is returned by Init after Teardown.
	ErrClosed = errors.New("tracker: torn down")
)

// Options tunes the tracker.
type Options struct {
	// ScrollOffset is added to the scroll position to get the activation threshold.
	ScrollOffset float64
	// ClickOffset keeps a clicked heading clear of the fixed page header.
	ClickOffset float64
	// Delay is the trailing debounce applied to scroll events.
	Delay time.Duration
	// InitialDelay is how long after Init the first update runs.
	InitialDelay time.Duration
}

// DefaultOptions returns the offsets and delays used by generated pages.
func DefaultOptions() Options {
	return Options{
		ScrollOffset: 150,
		ClickOffset:  100,
		Delay:        100 * time.Millisecond,
		InitialDelay: 100 * time.Millisecond,
	}
}

type state int

const (
	stateIdle state = iota
	stateRunning
	stateClosed
)

// Tracker keeps the highlighted TOC entry in step with the reader's scroll
// position for one page view. Its lifetime is bounded by Init and Teardown.
type Tracker struct {
	sink Sink
	opts Options
	log  *zap.Logger

	mu       sync.Mutex
	state    state
	anchors  []Anchor
	y        float64
	active   int
	debounce *time.Timer
	initial  *time.Timer

	// emitMu keeps sink calls in the order their state changes happened.
	emitMu sync.Mutex
}

// New returns an idle tracker writing to sink.
func New(sink Sink, opts Options, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		sink:   sink,
		opts:   opts,
		log:    log,
		active: -1,
	}
}

// ActiveIndex returns the index of the last anchor whose top is at or above
// threshold, or -1 when every anchor lies below it.
func ActiveIndex(anchors []Anchor, threshold float64) int {
	idx := -1
	for i, a := range anchors {
		if a.Top <= threshold {
			idx = i
		}
	}
	return idx
}

// Init starts the tracker with the page's measured layout and schedules the
// first update after InitialDelay.
func (t *Tracker) Init(layout LayoutEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case stateRunning:
		return ErrStarted
	case stateClosed:
		return ErrClosed
	}
	t.state = stateRunning
	t.anchors = append([]Anchor(nil), layout.Anchors...)
	t.y = layout.Y
	t.initial = time.AfterFunc(t.opts.InitialDelay, t.update)

	t.log.Debug("Tracker started", zap.Int("anchors", len(t.anchors)), zap.Float64("y", t.y))
	return nil
}

// Teardown stops pending timers and waits for a sink call already in
// progress. Events arriving afterwards are ignored.
func (t *Tracker) Teardown() {
	t.mu.Lock()
	if t.state == stateClosed {
		t.mu.Unlock()
		return
	}
	t.state = stateClosed
	if t.initial != nil {
		t.initial.Stop()
	}
	if t.debounce != nil {
		t.debounce.Stop()
	}
	t.mu.Unlock()

	// An update past its state check holds emitMu until the sink returns.
	t.emitMu.Lock()
	t.emitMu.Unlock()
	t.log.Debug("Tracker stopped")
}

// HandleScroll records the scroll position and re-arms the debounce timer,
// so only the last event of a burst triggers an update.
func (t *Tracker) HandleScroll(ev ScrollEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != stateRunning {
		return
	}
	t.y = ev.Y
	t.rearm()
}

// HandleLayout replaces the measured anchor positions after a reflow.
func (t *Tracker) HandleLayout(ev LayoutEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != stateRunning {
		return
	}
	t.anchors = append([]Anchor(nil), ev.Anchors...)
	t.y = ev.Y
	if t.active >= len(t.anchors) {
		t.active = -1
	}
	t.rearm()
}

// HandleClick handles a click on a TOC link. It returns true when the click
// belongs to a TOC link, meaning the page must not follow the link itself.
// When the target heading exists the tracker requests a smooth scroll to it
// and marks the clicked entry active right away.
func (t *Tracker) HandleClick(ev ClickEvent) bool {
	t.mu.Lock()
	if t.state != stateRunning || ev.Index < 0 || ev.Index >= len(t.anchors) {
		t.mu.Unlock()
		return false
	}

	id := t.anchors[ev.Index].ID
	target, ok := t.lookup(id)
	if !ok {
		t.mu.Unlock()
		return true
	}
	t.active = ev.Index
	req := ScrollRequest{Top: target.Top - t.opts.ClickOffset, Smooth: true}
	active := Active{Index: ev.Index, ID: id}

	t.emitMu.Lock()
	t.mu.Unlock()
	defer t.emitMu.Unlock()

	t.sink.ScrollTo(req)
	t.sink.SetActive(active)
	return true
}

// Active returns the currently highlighted entry.
func (t *Tracker) Active() Active {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active < 0 {
		return Active{Index: -1}
	}
	return Active{Index: t.active, ID: t.anchors[t.active].ID}
}

// lookup finds the first anchor carrying id, the way the page resolves a
// fragment to the first element with that id.
func (t *Tracker) lookup(id string) (Anchor, bool) {
	if id == "" {
		return Anchor{}, false
	}
	for _, a := range t.anchors {
		if a.ID == id {
			return a, true
		}
	}
	return Anchor{}, false
}

// rearm must be called with mu held.
func (t *Tracker) rearm() {
	if t.debounce != nil {
		t.debounce.Stop()
	}
	t.debounce = time.AfterFunc(t.opts.Delay, t.update)
}

func (t *Tracker) update() {
	t.mu.Lock()
	if t.state != stateRunning {
		t.mu.Unlock()
		return
	}
	idx := ActiveIndex(t.anchors, t.y+t.opts.ScrollOffset)
	if idx < 0 || idx == t.active {
		t.mu.Unlock()
		return
	}
	t.active = idx
	active := Active{Index: idx, ID: t.anchors[idx].ID}

	t.emitMu.Lock()
	t.mu.Unlock()
	defer t.emitMu.Unlock()

	t.log.Debug("Active section changed", zap.Int("index", idx), zap.String("id", active.ID))
	t.sink.SetActive(active)
}
