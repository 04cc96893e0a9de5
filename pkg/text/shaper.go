// Package text is the text-layout collaborator: it breaks text into lines
// and measures them for layout and paint of text-bearing widgets.
//
// Shaping internals are out of scope. FaceShaper measures with any
// golang.org/x/image/font.Face and defaults to the fixed 7x13 face, which is
// enough for deterministic layout in tests and headless runs. A renderer with
// real font support supplies its own Shaper.
package text

import (
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/go-drift/xilem/pkg/graphics"
)

// Direction is the resolved writing direction of a line.
type Direction uint8

const (
	DirectionLTR Direction = iota
	DirectionRTL
)

func (d Direction) String() string {
	if d == DirectionRTL {
		return "rtl"
	}
	return "ltr"
}

// Line is one laid-out line. Top is relative to the layout's origin.
type Line struct {
	Text      string
	Width     float64
	Top       float64
	Baseline  float64
	Direction Direction
}

// Layout is the result of laying out a string.
type Layout struct {
	Text       string
	Lines      []Line
	Size       graphics.Size
	LineHeight float64
	Ascent     float64
	Descent    float64
}

// Shaper lays out text. maxWidth may be infinite; it only matters when wrap
// is set.
type Shaper interface {
	Layout(text string, maxWidth float64, wrap bool) Layout
}

// FaceShaper is a Shaper backed by a font.Face.
// font.Face is not safe for concurrent use, so calls are serialized.
type FaceShaper struct {
	mu   sync.Mutex
	face font.Face
}

// NewFaceShaper returns a shaper using face, or the built-in 7x13 face when
// face is nil.
func NewFaceShaper(face font.Face) *FaceShaper {
	if face == nil {
		face = basicfont.Face7x13
	}
	return &FaceShaper{face: face}
}

var (
	defaultShaper     *FaceShaper
	defaultShaperOnce sync.Once
)

// Default returns a shared shaper using the built-in face.
func Default() *FaceShaper {
	defaultShaperOnce.Do(func() {
		defaultShaper = NewFaceShaper(nil)
	})
	return defaultShaper
}

// Layout implements Shaper.
func (s *FaceShaper) Layout(text string, maxWidth float64, wrap bool) Layout {
	s.mu.Lock()
	defer s.mu.Unlock()

	metrics := s.face.Metrics()
	ascent := fixedToFloat(metrics.Ascent)
	descent := fixedToFloat(metrics.Descent)
	lineHeight := fixedToFloat(metrics.Height)
	if lineHeight <= 0 {
		lineHeight = ascent + descent
	}

	wrapAt := math.Inf(1)
	if wrap && maxWidth >= 0 && !math.IsNaN(maxWidth) {
		wrapAt = maxWidth
	}

	out := Layout{Text: text, LineHeight: lineHeight, Ascent: ascent, Descent: descent}
	for _, paragraph := range strings.Split(text, "\n") {
		for _, line := range s.breakParagraph(paragraph, wrapAt) {
			top := float64(len(out.Lines)) * lineHeight
			out.Lines = append(out.Lines, Line{
				Text:      line,
				Width:     s.measure(line),
				Top:       top,
				Baseline:  top + ascent,
				Direction: lineDirection(line),
			})
		}
	}
	for _, l := range out.Lines {
		out.Size.Width = math.Max(out.Size.Width, l.Width)
	}
	out.Size.Height = float64(len(out.Lines)) * lineHeight
	return out
}

// breakParagraph wraps greedily at spaces. A word wider than the limit gets
// a line of its own and overflows it.
func (s *FaceShaper) breakParagraph(paragraph string, limit float64) []string {
	if math.IsInf(limit, 1) || s.measure(paragraph) <= limit {
		return []string{paragraph}
	}
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if s.measure(candidate) <= limit {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = w
	}
	return append(lines, current)
}

func (s *FaceShaper) measure(str string) float64 {
	return fixedToFloat(font.MeasureString(s.face, str))
}

// lineDirection resolves the dominant direction of a line from its bidi runs.
func lineDirection(line string) Direction {
	if line == "" {
		return DirectionLTR
	}
	p := bidi.Paragraph{}
	if _, err := p.SetString(line, bidi.DefaultDirection(bidi.LeftToRight)); err != nil {
		return DirectionLTR
	}
	ordering, err := p.Order()
	if err != nil {
		return DirectionLTR
	}
	var rtl, total int
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		start, end := run.Pos()
		n := end - start + 1
		total += n
		if run.Direction() == bidi.RightToLeft {
			rtl += n
		}
	}
	if total > 0 && rtl*2 > total {
		return DirectionRTL
	}
	return DirectionLTR
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
