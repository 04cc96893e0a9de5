package paint

import "github.com/go-drift/xilem/pkg/graphics"

// Recorder is a Canvas that records commands.
type Recorder struct {
	cmds []Command
}

// Reset discards recorded commands, keeping capacity.
func (r *Recorder) Reset() {
	r.cmds = r.cmds[:0]
}

// Len returns the number of recorded commands.
func (r *Recorder) Len() int {
	return len(r.cmds)
}

// Commands returns a copy of the recorded commands.
func (r *Recorder) Commands() []Command {
	out := make([]Command, len(r.cmds))
	copy(out, r.cmds)
	return out
}

// Append records already-built commands.
func (r *Recorder) Append(cmds ...Command) {
	r.cmds = append(r.cmds, cmds...)
}

func (r *Recorder) PushTransform(offset graphics.Offset) {
	r.cmds = append(r.cmds, Command{Op: OpPushTransform, Offset: offset})
}

func (r *Recorder) PopTransform() {
	r.cmds = append(r.cmds, Command{Op: OpPopTransform})
}

func (r *Recorder) PushClip(rect graphics.Rect) {
	r.cmds = append(r.cmds, Command{Op: OpPushClip, Rect: rect})
}

func (r *Recorder) PopClip() {
	r.cmds = append(r.cmds, Command{Op: OpPopClip})
}

func (r *Recorder) FillRect(rect graphics.Rect, color graphics.Color) {
	r.cmds = append(r.cmds, Command{Op: OpFillRect, Rect: rect, Color: color})
}

func (r *Recorder) StrokeRect(rect graphics.Rect, color graphics.Color, width float64) {
	r.cmds = append(r.cmds, Command{Op: OpStrokeRect, Rect: rect, Color: color, StrokeWidth: width})
}

func (r *Recorder) DrawText(origin graphics.Offset, text string, color graphics.Color) {
	r.cmds = append(r.cmds, Command{Op: OpDrawText, Offset: origin, Text: text, Color: color})
}
