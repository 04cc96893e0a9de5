package view

import "fmt"

// Message is a notification raised by a retained widget and routed back to
// the view at the widget's path.
type Message interface {
	isMessage()
}

// Clicked is raised when a Button is activated.
type Clicked struct{}

// Toggled is raised when a Switch is activated.
type Toggled struct{}

func (Clicked) isMessage() {}
func (Toggled) isMessage() {}

// MessageResult tells the runtime what a handled message requires.
type MessageResult uint8

const (
	// ResultNop means nothing changed.
	ResultNop MessageResult = iota
	// ResultRebuild means application state may have changed; a new view
	// tree must be built.
	ResultRebuild
	// ResultStale means the message targets a view that no longer exists or
	// does not accept it.
	ResultStale
)

func (r MessageResult) String() string {
	switch r {
	case ResultNop:
		return "nop"
	case ResultRebuild:
		return "rebuild"
	case ResultStale:
		return "stale"
	default:
		return fmt.Sprintf("MessageResult(%d)", uint8(r))
	}
}

// Handle delivers msg to v's callbacks.
func Handle(v View, msg Message) MessageResult {
	switch v := v.(type) {
	case Button:
		if _, ok := msg.(Clicked); !ok || v.Disabled {
			return ResultStale
		}
		if v.OnClick != nil {
			v.OnClick()
		}
		return ResultRebuild
	case Switch:
		if _, ok := msg.(Toggled); !ok {
			return ResultStale
		}
		if v.OnChange != nil {
			v.OnChange(!v.On)
		}
		return ResultRebuild
	case Flex, Label, SizedBox, Padding:
		return ResultStale
	default:
		panic(fmt.Sprintf("view: unknown view type %T", v))
	}
}
