// Package semantics defines the accessibility projection of the retained tree
// and tracks what has already been sent to the accessibility collaborator, so
// each frame carries only a delta.
package semantics

import (
	"fmt"
	"slices"

	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/id"
)

// Role is the accessibility role of a node.
type Role uint8

const (
	RoleGeneric Role = iota
	RoleGroup
	RoleButton
	RoleLabel
	RoleSwitch
)

func (r Role) String() string {
	switch r {
	case RoleGroup:
		return "group"
	case RoleButton:
		return "button"
	case RoleLabel:
		return "label"
	case RoleSwitch:
		return "switch"
	default:
		return "generic"
	}
}

// Action is a bit set of actions a node supports.
type Action uint32

const (
	ActionClick Action = 1 << iota
	ActionFocus
)

// Has reports whether all actions in other are set.
func (a Action) Has(other Action) bool {
	return a&other == other
}

func (a Action) String() string {
	switch a {
	case 0:
		return "none"
	case ActionClick:
		return "click"
	case ActionFocus:
		return "focus"
	case ActionClick | ActionFocus:
		return "click|focus"
	default:
		return fmt.Sprintf("Action(%#x)", uint32(a))
	}
}

// Toggle is the checked state of a node.
type Toggle uint8

const (
	ToggleNone Toggle = iota
	ToggleOff
	ToggleOn
)

// Node is one accessibility node. Bounds are in window coordinates.
type Node struct {
	ID       id.ID
	Role     Role
	Name     string
	Bounds   graphics.Rect
	Actions  Action
	Toggled  Toggle
	Disabled bool
	Children []id.ID
}

// Equal reports whether two nodes carry the same information.
func (n Node) Equal(other Node) bool {
	return n.ID == other.ID &&
		n.Role == other.Role &&
		n.Name == other.Name &&
		n.Bounds.ApproxEqual(other.Bounds) &&
		n.Actions == other.Actions &&
		n.Toggled == other.Toggled &&
		n.Disabled == other.Disabled &&
		slices.Equal(n.Children, other.Children)
}

// Delta is what changed in the accessibility tree since the previous frame.
// Root and Focus always carry the current values.
type Delta struct {
	Updated      []Node
	Removed      []id.ID
	Root         id.ID
	Focus        id.ID
	FocusChanged bool
}

// IsEmpty reports whether the delta carries no changes.
func (d Delta) IsEmpty() bool {
	return len(d.Updated) == 0 && len(d.Removed) == 0 && !d.FocusChanged
}
