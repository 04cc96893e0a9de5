package engine

import (
	"slices"
	"sync"
	"time"
)

const (
	frameTraceSamplesDefault   = 240
	defaultFrameTraceThreshold = 16667 * time.Microsecond
)

// FramePhaseTimings captures time spent in each cycle phase (ms).
type FramePhaseTimings struct {
	DispatchMs      float64 `json:"dispatchMs"`
	AnimateMs       float64 `json:"animateMs"`
	BuildMs         float64 `json:"buildMs"`
	ApplyMs         float64 `json:"applyMs"`
	LayoutMs        float64 `json:"layoutMs"`
	PaintMs         float64 `json:"paintMs"`
	AccessibilityMs float64 `json:"accessibilityMs"`
	PresentMs       float64 `json:"presentMs"`
}

// FrameCounts captures per-frame workload indicators.
type FrameCounts struct {
	Events        int `json:"events"`
	Messages      int `json:"messages"`
	EditOps       int `json:"editOps"`
	Collected     int `json:"collected"`
	Layouts       int `json:"layouts"`
	Paints        int `json:"paints"`
	Accessibility int `json:"accessibility"`
	Nodes         int `json:"nodes"`
}

// FrameSample is a single frame trace sample.
type FrameSample struct {
	Seq       uint64            `json:"seq"`
	Timestamp int64             `json:"ts"`
	FrameMs   float64           `json:"frameMs"`
	Phases    FramePhaseTimings `json:"phases"`
	Counts    FrameCounts       `json:"counts"`
	Rebuilt   bool              `json:"rebuilt"`
	Failed    bool              `json:"failed,omitempty"`
}

// FrameTimeline is the /frames response shape.
type FrameTimeline struct {
	Samples       []FrameSample `json:"samples"`
	DroppedFrames int           `json:"droppedFrames"`
	ThresholdMs   float64       `json:"thresholdMs"`
}

// frameTrace keeps the most recent frame samples in a ring.
type frameTrace struct {
	mu        sync.RWMutex
	ring      []FrameSample
	next      int
	full      bool
	dropped   int
	threshold time.Duration
}

func newFrameTrace(capacity int, threshold time.Duration) *frameTrace {
	if capacity <= 0 {
		capacity = frameTraceSamplesDefault
	}
	if threshold <= 0 {
		threshold = defaultFrameTraceThreshold
	}
	return &frameTrace{ring: make([]FrameSample, capacity), threshold: threshold}
}

// add records a sample. Frames slower than the threshold count as dropped.
func (b *frameTrace) add(sample FrameSample, took time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ring[b.next] = sample
	b.next++
	if b.next == len(b.ring) {
		b.next, b.full = 0, true
	}
	if took > b.threshold {
		b.dropped++
	}
}

// timeline returns the samples oldest first.
func (b *frameTrace) timeline() FrameTimeline {
	b.mu.RLock()
	defer b.mu.RUnlock()
	tl := FrameTimeline{DroppedFrames: b.dropped, ThresholdMs: durationToMillis(b.threshold)}
	if b.full {
		tl.Samples = slices.Concat(b.ring[b.next:], b.ring[:b.next])
	} else if b.next > 0 {
		tl.Samples = slices.Clone(b.ring[:b.next])
	}
	return tl
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
