// Package registry tracks live editor sessions, the single focused session
// and the screen region each session occupies, and routes host events to
// them.
//
// A Registry is not safe for concurrent use; drive it from the host's update
// loop.
package registry

import (
	"errors"
	"fmt"
	"time"

	"github.com/iw2rmb/quill"
	"github.com/iw2rmb/quill/editor"
	"github.com/iw2rmb/quill/shaping"
)

var (
	// ErrInvalidSession is returned for ids that name no live session.
	ErrInvalidSession = errors.New("registry: invalid session")
	// ErrNoFocus is returned when a keyboard, IME or clipboard event arrives
	// while no session is focused.
	ErrNoFocus = errors.New("registry: no focused session")
)

// SessionID identifies a session. The zero value never names a session.
type SessionID uint64

// Rect is a screen region in host coordinates.
type Rect = shaping.Rect

type entry struct {
	session   *editor.Session
	region    Rect
	hasRegion bool
}

// Registry owns sessions created through it.
type Registry struct {
	entries map[SessionID]*entry
	// order lists live ids in creation order; later ids are on top.
	order   []SessionID
	next    SessionID
	focused SessionID
	// capture is the session receiving pointer moves until release.
	capture SessionID
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[SessionID]*entry)}
}

// Create builds a session from cfg and returns its id. The session has no
// region until SetRegion is called and is not focused.
func (r *Registry) Create(cfg editor.Config) SessionID {
	r.next++
	id := r.next
	r.entries[id] = &entry{session: editor.New(cfg)}
	r.order = append(r.order, id)
	quill.Logger().Debug("registry: session created", "session", uint64(id))
	return id
}

// Destroy releases a session. Destroying the focused session clears focus.
func (r *Registry) Destroy(id SessionID) error {
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	if r.focused == id {
		r.focused = 0
	}
	if r.capture == id {
		r.capture = 0
	}
	e.session.Release()
	delete(r.entries, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	quill.Logger().Debug("registry: session destroyed", "session", uint64(id))
	return nil
}

// Session returns the session for id.
func (r *Registry) Session(id SessionID) (*editor.Session, error) {
	e, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return e.session, nil
}

// IDs returns the live session ids in creation order.
func (r *Registry) IDs() []SessionID {
	return append([]SessionID(nil), r.order...)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int { return len(r.order) }

// Focus moves keyboard focus to id, blurring every other session. Sessions
// focused directly through editor.Session.Focus lose focus here too.
func (r *Registry) Focus(id SessionID) error {
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	r.blurExcept(id)
	if r.focused == id && e.session.Focused() {
		return nil
	}
	r.focused = id
	e.session.Focus()
	quill.Logger().Debug("registry: focus", "session", uint64(id))
	return nil
}

func (r *Registry) blurExcept(keep SessionID) {
	for _, id := range r.order {
		if s := r.entries[id].session; id != keep && s.Focused() {
			s.Blur()
			quill.Logger().Debug("registry: blur", "session", uint64(id))
		}
	}
}

// Blur clears focus.
func (r *Registry) Blur() {
	r.blurExcept(0)
	r.focused = 0
}

// Focused returns the focused session id, if any.
func (r *Registry) Focused() (SessionID, bool) {
	return r.focused, r.focused != 0
}

// SetRegion places a session on screen. Pointer events are hit-tested
// against regions and translated into session coordinates.
func (r *Registry) SetRegion(id SessionID, region Rect) error {
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	e.region = region
	e.hasRegion = true
	return nil
}

// Region returns the region set for id.
func (r *Registry) Region(id SessionID) (Rect, bool, error) {
	e, err := r.lookup(id)
	if err != nil {
		return Rect{}, false, err
	}
	return e.region, e.hasRegion, nil
}

// RenderSnapshot returns the render description of a session.
func (r *Registry) RenderSnapshot(id SessionID) (editor.Snapshot, error) {
	e, err := r.lookup(id)
	if err != nil {
		return editor.Snapshot{}, err
	}
	return e.session.RenderSnapshot(), nil
}

// Tick advances every session's caret blink to now and reports whether any
// session needs a redraw.
func (r *Registry) Tick(now time.Time) bool {
	changed := false
	for _, id := range r.order {
		if r.entries[id].session.Tick(now) {
			changed = true
		}
	}
	return changed
}

// Dispatch routes ev. Pointer events are hit-tested against regions; every
// other event goes to the focused session. Errors from the session are
// returned unchanged.
func (r *Registry) Dispatch(ev editor.Event) error {
	if pe, ok := ev.(editor.PointerEvent); ok {
		return r.dispatchPointer(pe)
	}
	if r.focused == 0 {
		quill.Logger().Debug("registry: event dropped without focus", "event", fmt.Sprintf("%T", ev))
		return ErrNoFocus
	}
	return r.entries[r.focused].session.Handle(ev)
}

func (r *Registry) dispatchPointer(ev editor.PointerEvent) error {
	if r.capture != 0 && ev.Kind != editor.PointerPress {
		id := r.capture
		if ev.Kind == editor.PointerRelease {
			r.capture = 0
		}
		return r.deliver(id, ev)
	}
	if ev.Kind != editor.PointerPress {
		return nil
	}

	id, ok := r.hitTest(ev.X, ev.Y)
	if !ok {
		r.Blur()
		return nil
	}
	if err := r.Focus(id); err != nil {
		return err
	}
	if ev.Button == editor.ButtonLeft {
		r.capture = id
	}
	return r.deliver(id, ev)
}

// hitTest returns the topmost session whose region contains (x, y).
func (r *Registry) hitTest(x, y float64) (SessionID, bool) {
	for i := len(r.order) - 1; i >= 0; i-- {
		id := r.order[i]
		e := r.entries[id]
		if e.hasRegion && e.region.Contains(x, y) {
			return id, true
		}
	}
	return 0, false
}

func (r *Registry) deliver(id SessionID, ev editor.PointerEvent) error {
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	ev.X -= e.region.X
	ev.Y -= e.region.Y
	return e.session.Handle(ev)
}

func (r *Registry) lookup(id SessionID) (*entry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSession, id)
	}
	return e, nil
}
