package automation

import (
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/interact"
	"github.com/san-kum/clothsim/internal/sim"
)

func dynamoPoint(p Point) dynamo.Vec2 { return dynamo.V(p.X, p.Y) }

func scriptPoint(v dynamo.Vec2) Point { return Point{X: v.X, Y: v.Y} }

// Recorder builds a Script from live frames. Consecutive frames with the
// same input and dt collapse into one repeated frame. The first frame holds
// every numeric parameter; later changes are stored as overrides against the
// previous frame.
type Recorder struct {
	script Script
	prev   sim.Params
	begun  bool
}

func NewRecorder(name string, dt float64) *Recorder {
	return &Recorder{script: Script{Name: name, Dt: dt}}
}

// Base is the parameter set the first frame was recorded against.
func (r *Recorder) Base() sim.Params { return r.prev }

// Record appends one frame. A zero dt replays as the script dt, so paused
// frames should not be recorded.
func (r *Recorder) Record(in interact.Input, dt float64, p sim.Params) {
	var overrides map[string]float64
	if r.begun {
		overrides = diff(r.prev, p)
	} else {
		overrides = all(p)
		r.begun = true
	}
	r.prev = p

	f := Frame{Pointer: scriptPoint(in.Pointer), Left: in.Left, Right: in.Right}
	if dt != r.script.Dt {
		f.Dt = dt
	}
	f.Params = overrides

	if n := len(r.script.Frames); n > 0 && overrides == nil {
		last := &r.script.Frames[n-1]
		if last.Pointer == f.Pointer && last.Left == f.Left && last.Right == f.Right && last.Dt == f.Dt {
			last.Repeat = max(last.Repeat, 1) + 1
			return
		}
	}
	r.script.Frames = append(r.script.Frames, f)
}

// Script returns the recording so far.
func (r *Recorder) Script() *Script {
	s := r.script
	s.Frames = append([]Frame(nil), r.script.Frames...)
	return &s
}

func all(p sim.Params) map[string]float64 {
	out := make(map[string]float64)
	for _, name := range p.Names() {
		out[name], _ = p.Get(name)
	}
	return out
}

func diff(a, b sim.Params) map[string]float64 {
	var out map[string]float64
	for _, name := range a.Names() {
		va, _ := a.Get(name)
		vb, _ := b.Get(name)
		if va != vb {
			if out == nil {
				out = make(map[string]float64)
			}
			out[name] = vb
		}
	}
	return out
}
