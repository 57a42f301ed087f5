// Package export renders simulation frames to static formats.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/sim"
)

var springColors = map[cloth.Kind]string{
	cloth.Structural: "#ffffff",
	cloth.Shear:      "#6c6c6c",
	cloth.Bend:       "#3a3a3a",
}

const (
	particleColor = "#00d7ff"
	pinnedColor   = "#ff3b3b"
	background    = "#0a0a0a"
)

// Bounds returns the smallest box holding every particle of f, grown by
// margin on each side.
func Bounds(f *sim.Frame, margin float64) (minX, minY, maxX, maxY float64) {
	if len(f.Particles) == 0 {
		return 0, 0, 1, 1
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range f.Particles {
		if !p.Pos.IsValid() {
			continue
		}
		minX, maxX = math.Min(minX, p.Pos.X), math.Max(maxX, p.Pos.X)
		minY, maxY = math.Min(minY, p.Pos.Y), math.Max(maxY, p.Pos.Y)
	}
	if math.IsInf(minX, 1) {
		return 0, 0, 1, 1
	}
	return minX - margin, minY - margin, maxX + margin, maxY + margin
}

// FrameToSVG draws f as an SVG document of the given pixel size. Springs
// are lines shaded by kind, pinned particles are red.
func FrameToSVG(f *sim.Frame, width, height int) string {
	if f == nil {
		return ""
	}

	minX, minY, maxX, maxY := Bounds(f, 10)
	vw, vh := maxX-minX, maxY-minY

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="%.2f %.2f %.2f %.2f">
<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>
`, width, height, minX, minY, vw, vh, minX, minY, vw, vh, background)

	stroke := math.Max(vw, vh) / 1000
	for _, kind := range []cloth.Kind{cloth.Bend, cloth.Shear, cloth.Structural} {
		fmt.Fprintf(&sb, "<g stroke=\"%s\" stroke-width=\"%.3f\">\n", springColors[kind], stroke)
		for _, s := range f.Springs {
			if s.Kind != kind {
				continue
			}
			fmt.Fprintf(&sb, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", s.A.X, s.A.Y, s.B.X, s.B.Y)
		}
		sb.WriteString("</g>\n")
	}

	r := stroke * 1.5
	for _, p := range f.Particles {
		color := particleColor
		if p.Pinned {
			color = pinnedColor
		}
		fmt.Fprintf(&sb, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n", p.Pos.X, p.Pos.Y, r, color)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func WriteSVG(w io.Writer, f *sim.Frame, width, height int) error {
	_, err := io.WriteString(w, FrameToSVG(f, width, height))
	return err
}
