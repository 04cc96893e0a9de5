package testing

import (
	"fmt"

	"github.com/go-drift/xilem/pkg/event"
	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/semantics"
)

// Tap queues a left click at the center of the first node matched by
// finder.
func (t *Tester) Tap(finder Finder) error {
	result := t.Find(finder)
	if !result.Exists() {
		return fmt.Errorf("Tap: finder matched no nodes: %s", finder.Description())
	}
	bounds, ok := t.Tree().Bounds(result.First().Path())
	if !ok {
		return fmt.Errorf("Tap: node has no bounds: %s", finder.Description())
	}
	return t.TapAt(bounds.Center())
}

// TapAt queues a left click at the given window position.
func (t *Tester) TapAt(pos graphics.Offset) error {
	p := event.Pointer{WindowPosition: pos, Button: event.ButtonLeft, Count: 1}
	p.Buttons = p.Buttons.With(event.ButtonLeft)
	if err := t.SendEvent(event.PointerDown{Pointer: p}); err != nil {
		return err
	}
	p.Buttons = 0
	return t.SendEvent(event.PointerUp{Pointer: p})
}

// Hover queues a pointer move to pos.
func (t *Tester) Hover(pos graphics.Offset) error {
	return t.SendEvent(event.PointerMove{Pointer: event.Pointer{WindowPosition: pos}})
}

// Leave queues the pointer leaving the window.
func (t *Tester) Leave() error {
	return t.SendEvent(event.PointerLeave{})
}

// PressKey queues a key press and release.
func (t *Tester) PressKey(key event.Key, mods ...event.Modifiers) error {
	var m event.Modifiers
	for _, mod := range mods {
		m |= mod
	}
	if err := t.SendEvent(event.KeyDown{Key: key, Mods: m}); err != nil {
		return err
	}
	return t.SendEvent(event.KeyUp{Key: key, Mods: m})
}

// Activate queues an accessibility click on the first node matched by
// finder, as assistive technology would send it.
func (t *Tester) Activate(finder Finder) error {
	return t.action(finder, semantics.ActionClick)
}

// Focus queues an accessibility focus request on the first node matched
// by finder.
func (t *Tester) Focus(finder Finder) error {
	return t.action(finder, semantics.ActionFocus)
}

func (t *Tester) action(finder Finder, action semantics.Action) error {
	n := t.Find(finder).FirstOrNil()
	if n == nil {
		return fmt.Errorf("%s: finder matched no nodes: %s", action, finder.Description())
	}
	return t.SendEvent(event.AccessibilityAction{Target: n.ID(), Action: action})
}
