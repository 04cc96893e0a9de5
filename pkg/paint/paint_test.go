package paint

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/xilem/pkg/graphics"
)

func TestRecorder_ReplayRoundTrip(t *testing.T) {
	var src Recorder
	src.PushTransform(graphics.Offset{X: 4, Y: 2})
	src.PushClip(graphics.RectFromLTWH(0, 0, 10, 10))
	src.FillRect(graphics.RectFromLTWH(1, 1, 5, 5), graphics.ColorBlack)
	src.StrokeRect(graphics.RectFromLTWH(0, 0, 10, 10), graphics.ColorWhite, 1)
	src.DrawText(graphics.Offset{X: 2, Y: 3}, "hi", graphics.ColorBlack)
	src.PopClip()
	src.PopTransform()

	var dst Recorder
	Replay(src.Commands(), &dst)

	if diff := cmp.Diff(src.Commands(), dst.Commands()); diff != "" {
		t.Errorf("replay mismatch (-want +got):\n%s", diff)
	}
	if !Balanced(dst.Commands()) {
		t.Error("expected balanced command list")
	}
}

func TestRecorder_CommandsIsACopy(t *testing.T) {
	var r Recorder
	r.FillRect(graphics.RectFromLTWH(0, 0, 1, 1), graphics.ColorBlack)
	cmds := r.Commands()
	cmds[0].Color = graphics.ColorWhite
	if r.Commands()[0].Color != graphics.ColorBlack {
		t.Error("mutating the returned slice must not affect the recorder")
	}
	r.Reset()
	if r.Len() != 0 {
		t.Errorf("Len after Reset = %d", r.Len())
	}
}

func TestBalanced(t *testing.T) {
	tests := []struct {
		name string
		ops  []Op
		want bool
	}{
		{"empty", nil, true},
		{"nested", []Op{OpPushTransform, OpPushClip, OpPopClip, OpPopTransform}, true},
		{"crossed", []Op{OpPushTransform, OpPushClip, OpPopTransform, OpPopClip}, false},
		{"unclosed", []Op{OpPushClip}, false},
		{"extra pop", []Op{OpPopTransform}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := make([]Command, len(tt.ops))
			for i, op := range tt.ops {
				cmds[i] = Command{Op: op}
			}
			if got := Balanced(cmds); got != tt.want {
				t.Errorf("Balanced = %v, want %v", got, tt.want)
			}
		})
	}
}
