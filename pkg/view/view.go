// Package view defines the declarative description of the UI and the diff
// that turns two descriptions into an edit script.
//
// A View is an immutable value produced fresh on every render pass. The set
// of view kinds is closed: every View is one of the structs in this package,
// and every operation over views (Children, Equal, Diff, Handle) switches
// exhaustively over them.
//
//	func build() view.View {
//	    return view.Row(
//	        view.Label{Text: "Count: " + strconv.Itoa(count)},
//	        view.Button{Label: "+1", OnClick: func() { count++ }},
//	    )
//	}
package view

import (
	"fmt"

	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/id"
)

// Kind is the type discriminant of a view.
type Kind uint8

const (
	KindFlex Kind = iota + 1
	KindButton
	KindLabel
	KindSwitch
	KindSizedBox
	KindPadding
)

func (k Kind) String() string {
	switch k {
	case KindFlex:
		return "Flex"
	case KindButton:
		return "Button"
	case KindLabel:
		return "Label"
	case KindSwitch:
		return "Switch"
	case KindSizedBox:
		return "SizedBox"
	case KindPadding:
		return "Padding"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// View is an immutable description of one UI element.
// It is implemented only by the view structs of this package.
type View interface {
	// Kind returns the type discriminant.
	Kind() Kind
	// Key returns the explicit key, or the zero Key for positional identity.
	Key() id.Key
	isView()
}

// Axis is the main axis of a Flex.
type Axis uint8

const (
	AxisHorizontal Axis = iota
	AxisVertical
)

func (a Axis) String() string {
	if a == AxisVertical {
		return "vertical"
	}
	return "horizontal"
}

// Flex lays its children out in a line along Axis.
type Flex struct {
	Axis     Axis
	Spacing  float64
	Children []View
	ID       id.Key
}

// Row returns a horizontal Flex.
func Row(children ...View) Flex {
	return Flex{Axis: AxisHorizontal, Children: children}
}

// Column returns a vertical Flex.
func Column(children ...View) Flex {
	return Flex{Axis: AxisVertical, Children: children}
}

func (Flex) Kind() Kind    { return KindFlex }
func (v Flex) Key() id.Key { return v.ID }
func (Flex) isView()       {}

// Button is a clickable, focusable text button.
type Button struct {
	Label    string
	Disabled bool
	// OnClick runs on the owner thread when the button is activated.
	OnClick func()
	ID      id.Key
}

func (Button) Kind() Kind    { return KindButton }
func (v Button) Key() id.Key { return v.ID }
func (Button) isView()       {}

// Label displays text, wrapping at the available width when Wrap is set.
type Label struct {
	Text  string
	Wrap  bool
	Color graphics.Color
	ID    id.Key
}

func (Label) Kind() Kind    { return KindLabel }
func (v Label) Key() id.Key { return v.ID }
func (Label) isView()       {}

// Switch is a two-state toggle.
type Switch struct {
	On bool
	// OnChange receives the requested new value.
	OnChange func(on bool)
	ID       id.Key
}

func (Switch) Kind() Kind    { return KindSwitch }
func (v Switch) Key() id.Key { return v.ID }
func (Switch) isView()       {}

// SizedBox forces its child to a fixed width and/or height. A zero dimension
// leaves that axis to the child (or zero when there is no child).
type SizedBox struct {
	Width  float64
	Height float64
	Child  View
	ID     id.Key
}

func (SizedBox) Kind() Kind    { return KindSizedBox }
func (v SizedBox) Key() id.Key { return v.ID }
func (SizedBox) isView()       {}

// Padding insets its child.
type Padding struct {
	Insets graphics.Insets
	Child  View
	ID     id.Key
}

func (Padding) Kind() Kind    { return KindPadding }
func (v Padding) Key() id.Key { return v.ID }
func (Padding) isView()       {}
