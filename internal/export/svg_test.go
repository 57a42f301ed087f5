package export

import (
	"strings"
	"testing"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/sim"
)

func TestFrameToSVG(t *testing.T) {
	f := &sim.Frame{
		Particles: []sim.ParticleView{
			{Pos: dynamo.V(0, 0), Pinned: true},
			{Pos: dynamo.V(10, 0)},
			{Pos: dynamo.V(0, 10)},
		},
		Springs: []sim.SpringView{
			{A: dynamo.V(0, 0), B: dynamo.V(10, 0), Kind: cloth.Structural},
			{A: dynamo.V(10, 0), B: dynamo.V(0, 10), Kind: cloth.Shear},
		},
	}

	svg := FrameToSVG(f, 400, 300)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatal("not a complete svg document")
	}
	if n := strings.Count(svg, "<line"); n != 2 {
		t.Errorf("expected 2 lines, got %d", n)
	}
	if n := strings.Count(svg, "<circle"); n != 3 {
		t.Errorf("expected 3 circles, got %d", n)
	}
	if n := strings.Count(svg, pinnedColor); n != 1 {
		t.Errorf("expected 1 pinned particle, got %d", n)
	}
	if !strings.Contains(svg, `viewBox="-10.00 -10.00 30.00 30.00"`) {
		t.Errorf("unexpected view box in %s", svg[:200])
	}
}

func TestFrameToSVG_Nil(t *testing.T) {
	if FrameToSVG(nil, 10, 10) != "" {
		t.Error("expected empty output for nil frame")
	}
}

func TestBounds_Empty(t *testing.T) {
	if _, _, maxX, maxY := Bounds(&sim.Frame{}, 5); maxX != 1 || maxY != 1 {
		t.Errorf("expected unit box, got %v %v", maxX, maxY)
	}
}
