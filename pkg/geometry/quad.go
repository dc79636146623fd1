package geometry

import "math"

// Quad is a simple quadrilateral with corners in a fixed order:
// top-left, top-right, bottom-right, bottom-left.
type Quad [4]Point2D

// TopLeft returns the top-left corner.
func (q Quad) TopLeft() Point2D { return q[0] }

// TopRight returns the top-right corner.
func (q Quad) TopRight() Point2D { return q[1] }

// BottomRight returns the bottom-right corner.
func (q Quad) BottomRight() Point2D { return q[2] }

// BottomLeft returns the bottom-left corner.
func (q Quad) BottomLeft() Point2D { return q[3] }

// OrderCorners reduces a set of at least four points to a Quad by picking
// the extreme point for each corner role: the top-left corner minimizes x+y,
// the bottom-right maximizes x+y, the top-right maximizes x-y, and the
// bottom-left minimizes x-y.
func OrderCorners(points []Point2D) Quad {
	var q Quad
	if len(points) < 4 {
		return q
	}

	minSum, maxSum := math.Inf(1), math.Inf(-1)
	minDiff, maxDiff := math.Inf(1), math.Inf(-1)

	for _, p := range points {
		sum := p.X + p.Y
		diff := p.X - p.Y
		if sum < minSum {
			minSum = sum
			q[0] = p
		}
		if sum > maxSum {
			maxSum = sum
			q[2] = p
		}
		if diff > maxDiff {
			maxDiff = diff
			q[1] = p
		}
		if diff < minDiff {
			minDiff = diff
			q[3] = p
		}
	}

	return q
}

// Area returns the polygon area of the quad using the shoelace formula.
func (q Quad) Area() float64 {
	return PolygonArea(q[:])
}

// IsDegenerate reports whether any two corners coincide or all corners
// are (near) collinear, i.e. the quad has no usable interior.
func (q Quad) IsDegenerate() bool {
	const eps = 1e-6
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if q[i].Distance(q[j]) < eps {
				return true
			}
		}
	}
	return q.Area() < eps
}

// IsConvex returns true if the quad corners form a convex polygon.
func (q Quad) IsConvex() bool {
	return IsConvex(q[:])
}

// PolygonArea computes the area of a simple polygon via the shoelace formula.
func PolygonArea(polygon []Point2D) float64 {
	n := len(polygon)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += polygon[i].X*polygon[j].Y - polygon[j].X*polygon[i].Y
	}
	return math.Abs(sum) / 2
}

// IsConvex returns true if the polygon vertices form a convex polygon.
// The polygon is assumed to be simple (non-self-intersecting).
func IsConvex(polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	n := len(polygon)
	var sign int

	for i := 0; i < n; i++ {
		cross := crossProduct(
			polygon[i],
			polygon[(i+1)%n],
			polygon[(i+2)%n],
		)

		if cross != 0 {
			currentSign := 1
			if cross < 0 {
				currentSign = -1
			}

			if sign == 0 {
				sign = currentSign
			} else if currentSign != sign {
				return false
			}
		}
	}

	return true
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
