// Package layout defines the box constraint model used by the retained tree.
//
// A parent offers each child a Constraints box; the child picks a size within
// it. A child whose natural size does not fit is clamped to the box and the
// excess is recorded as Overflow instead of being reported as an error.
package layout

import (
	"fmt"
	"math"

	"github.com/go-drift/xilem/pkg/graphics"
)

// Unbounded is the max extent of an axis with no limit.
var Unbounded = math.Inf(1)

// Constraints bounds the size a node may choose.
type Constraints struct {
	MinWidth  float64
	MaxWidth  float64
	MinHeight float64
	MaxHeight float64
}

// Tight returns constraints that admit exactly size.
func Tight(size graphics.Size) Constraints {
	return Constraints{
		MinWidth:  size.Width,
		MaxWidth:  size.Width,
		MinHeight: size.Height,
		MaxHeight: size.Height,
	}
}

// Loose returns constraints from zero up to size.
func Loose(size graphics.Size) Constraints {
	return Constraints{MaxWidth: size.Width, MaxHeight: size.Height}
}

// Smallest returns the smallest size allowed.
func (c Constraints) Smallest() graphics.Size {
	return graphics.Size{Width: c.MinWidth, Height: c.MinHeight}
}

// Loosen drops the minimums.
func (c Constraints) Loosen() Constraints {
	return Constraints{MaxWidth: c.MaxWidth, MaxHeight: c.MaxHeight}
}

// Deflate shrinks the box by insets on every edge, never below zero.
func (c Constraints) Deflate(insets graphics.Insets) Constraints {
	h := insets.Horizontal()
	v := insets.Vertical()
	return Constraints{
		MinWidth:  math.Max(0, c.MinWidth-h),
		MaxWidth:  math.Max(0, c.MaxWidth-h),
		MinHeight: math.Max(0, c.MinHeight-v),
		MaxHeight: math.Max(0, c.MaxHeight-v),
	}
}

// Tighten fixes the width and/or height where a positive value is given,
// keeping them inside the current box.
func (c Constraints) Tighten(width, height float64) Constraints {
	if width > 0 {
		w := clamp(width, c.MinWidth, c.MaxWidth)
		c.MinWidth, c.MaxWidth = w, w
	}
	if height > 0 {
		h := clamp(height, c.MinHeight, c.MaxHeight)
		c.MinHeight, c.MaxHeight = h, h
	}
	return c
}

// Satisfies reports whether size lies inside the box.
func (c Constraints) Satisfies(size graphics.Size) bool {
	return size.Width >= c.MinWidth && size.Width <= c.MaxWidth &&
		size.Height >= c.MinHeight && size.Height <= c.MaxHeight
}

// Constrain clamps size into the box. Excess beyond the max on either axis is
// returned as overflow so the paint phase can clip it.
func (c Constraints) Constrain(size graphics.Size) (graphics.Size, Overflow) {
	var overflow Overflow
	if size.Width > c.MaxWidth {
		overflow.Width = size.Width - c.MaxWidth
	}
	if size.Height > c.MaxHeight {
		overflow.Height = size.Height - c.MaxHeight
	}
	return graphics.Size{
		Width:  clamp(size.Width, c.MinWidth, c.MaxWidth),
		Height: clamp(size.Height, c.MinHeight, c.MaxHeight),
	}, overflow
}

// Sanitize repairs malformed constraints: negative or NaN bounds become zero,
// a NaN max becomes unbounded, and a min above its max is lowered to the max.
// Each correction is described in the returned problems list; an empty list
// means the constraints were already valid.
func (c Constraints) Sanitize() (Constraints, []string) {
	var problems []string
	fix := func(name string, v float64, nanValue float64) float64 {
		switch {
		case math.IsNaN(v):
			problems = append(problems, fmt.Sprintf("%s is NaN", name))
			return nanValue
		case v < 0:
			problems = append(problems, fmt.Sprintf("%s %.2f is negative, clamped to zero", name, v))
			return 0
		}
		return v
	}
	c.MinWidth = fix("min width", c.MinWidth, 0)
	c.MaxWidth = fix("max width", c.MaxWidth, Unbounded)
	c.MinHeight = fix("min height", c.MinHeight, 0)
	c.MaxHeight = fix("max height", c.MaxHeight, Unbounded)
	if math.IsInf(c.MinWidth, 1) {
		problems = append(problems, "min width is infinite")
		c.MinWidth = 0
	}
	if math.IsInf(c.MinHeight, 1) {
		problems = append(problems, "min height is infinite")
		c.MinHeight = 0
	}
	if c.MinWidth > c.MaxWidth {
		problems = append(problems, "min width exceeds max width")
		c.MinWidth = c.MaxWidth
	}
	if c.MinHeight > c.MaxHeight {
		problems = append(problems, "min height exceeds max height")
		c.MinHeight = c.MaxHeight
	}
	return c, problems
}

// SanitizeSize replaces negative, NaN, or infinite dimensions with zero.
func SanitizeSize(size graphics.Size) (graphics.Size, []string) {
	var problems []string
	fix := func(name string, v float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			problems = append(problems, fmt.Sprintf("%s %v is invalid, clamped to zero", name, v))
			return 0
		}
		return v
	}
	size.Width = fix("width", size.Width)
	size.Height = fix("height", size.Height)
	return size, problems
}

func (c Constraints) String() string {
	return fmt.Sprintf("Constraints(w: %g..%g, h: %g..%g)", c.MinWidth, c.MaxWidth, c.MinHeight, c.MaxHeight)
}

// Overflow records how far a node's natural size exceeded its max constraint.
type Overflow struct {
	Width  float64
	Height float64
}

// Any reports whether there was overflow on either axis.
func (o Overflow) Any() bool {
	return o.Width > 0 || o.Height > 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
