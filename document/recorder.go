package document

import (
	"github.com/google/uuid"
)

// Recorder turns a pointer-drag gesture into a sealed stroke. The driving
// event loop calls Begin when the pointer goes down, Extend for every
// sampled position, and End when the pointer lifts. Until End the stroke is
// owned by the recorder; afterwards it is immutable and owned by the
// document.
type Recorder struct {
	doc    *Document
	points []Point
	width  float64
	color  Color
	active bool
}

// NewRecorder creates a recorder appending into doc.
func NewRecorder(doc *Document) *Recorder {
	return &Recorder{doc: doc}
}

// Begin starts a gesture with the given brush settings. The width is forced
// into the interactive brush bounds rather than rejected: at this boundary
// the value comes from a slider, not from a file, and the gesture must go
// on. A gesture already in progress is sealed first.
func (r *Recorder) Begin(width float64, col Color) {
	if r.active {
		r.End()
	}
	r.width = ClampBrushWidth(width)
	r.color = col
	r.points = nil
	r.active = true
}

// Extend appends a sampled pointer position. A position equal to the
// previous one is dropped, so holding the pointer still does not grow the
// stroke. Reports whether the point was taken.
func (r *Recorder) Extend(p Point) bool {
	if !r.active {
		return false
	}
	if n := len(r.points); n > 0 && r.points[n-1] == p {
		return false
	}
	r.points = append(r.points, p)
	return true
}

// Active reports whether a gesture is in progress.
func (r *Recorder) Active() bool { return r.active }

// End seals the current gesture and appends it to the document. A gesture
// that never produced a point is discarded. Returns the sealed stroke and
// whether one was produced.
func (r *Recorder) End() (Stroke, bool) {
	if !r.active {
		return Stroke{}, false
	}
	r.active = false
	if len(r.points) == 0 {
		return Stroke{}, false
	}
	s := Stroke{
		ID:     uuid.NewString(),
		Points: r.points,
		Width:  r.width,
		Color:  r.color,
	}
	r.points = nil
	if err := r.doc.Append(s); err != nil {
		// Begin clamped the width and the point list is non-empty, so
		// Append cannot refuse; keep the signature simple.
		return Stroke{}, false
	}
	return s, true
}
