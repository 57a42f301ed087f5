package cloth

import (
	"math"

	"github.com/san-kum/clothsim/internal/dynamo"
)

func orient(a, b, c dynamo.Vec2) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func onSegment(a, b, p dynamo.Vec2) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}

// SegmentsIntersect reports whether segments p1p2 and q1q2 share a point,
// touching and collinear overlap included.
func SegmentsIntersect(p1, p2, q1, q2 dynamo.Vec2) bool {
	d1 := sign(orient(q1, q2, p1))
	d2 := sign(orient(q1, q2, p2))
	d3 := sign(orient(p1, p2, q1))
	d4 := sign(orient(p1, p2, q2))

	if d1*d2 < 0 && d3*d4 < 0 {
		return true
	}
	switch {
	case d1 == 0 && onSegment(q1, q2, p1):
		return true
	case d2 == 0 && onSegment(q1, q2, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, q1):
		return true
	case d4 == 0 && onSegment(p1, p2, q2):
		return true
	}
	return false
}

// PointSegmentDistance is the distance from p to the closest point of ab.
func PointSegmentDistance(p, a, b dynamo.Vec2) float64 {
	ab := b.Sub(a)
	lenSq := ab.LenSq()
	if lenSq == 0 {
		return p.Dist(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.Dist(a.Add(ab.Scale(t)))
}

// SegmentDistance is the minimum distance between segments p1p2 and q1q2;
// zero when they intersect.
func SegmentDistance(p1, p2, q1, q2 dynamo.Vec2) float64 {
	if SegmentsIntersect(p1, p2, q1, q2) {
		return 0
	}
	return math.Min(
		math.Min(PointSegmentDistance(p1, q1, q2), PointSegmentDistance(p2, q1, q2)),
		math.Min(PointSegmentDistance(q1, p1, p2), PointSegmentDistance(q2, p1, p2)),
	)
}
