package geom

// Enclose returns the smallest circle containing every point in pts,
// using the incremental minidisk construction. Points are processed in the
// given order so the result is deterministic. It returns false for an empty
// slice.
func Enclose(pts []Point) (Circle, bool) {
	if len(pts) == 0 {
		return Circle{}, false
	}
	c := Circle{X: pts[0].X, Y: pts[0].Y}
	for i := 1; i < len(pts); i++ {
		if c.Contains(pts[i]) {
			continue
		}
		c = encloseWith1(pts[:i], pts[i])
	}
	return c, true
}

// encloseWith1 returns the smallest circle containing pts with p on its
// boundary.
func encloseWith1(pts []Point, p Point) Circle {
	c := Circle{X: p.X, Y: p.Y}
	for i, q := range pts {
		if c.Contains(q) {
			continue
		}
		c = encloseWith2(pts[:i], p, q)
	}
	return c
}

// encloseWith2 returns the smallest circle containing pts with p and q on
// its boundary.
func encloseWith2(pts []Point, p, q Point) Circle {
	c := circleFrom2(p, q)
	for _, r := range pts {
		if c.Contains(r) {
			continue
		}
		c = circleFrom3(p, q, r)
	}
	return c
}

func circleFrom2(a, b Point) Circle {
	x, y := (a.X+b.X)/2, (a.Y+b.Y)/2
	return Circle{X: x, Y: y, R: Segment{a.X, a.Y, b.X, b.Y}.Length() / 2}
}

// circleFrom3 returns the circumcircle of a, b and c. Collinear points fall
// back to the circle spanning the farthest pair.
func circleFrom3(a, b, c Point) Circle {
	bx, by := b.X-a.X, b.Y-a.Y
	cx, cy := c.X-a.X, c.Y-a.Y
	d := 2 * (bx*cy - by*cx)
	if d == 0 {
		best := circleFrom2(a, b)
		if alt := circleFrom2(a, c); alt.R > best.R {
			best = alt
		}
		if alt := circleFrom2(b, c); alt.R > best.R {
			best = alt
		}
		return best
	}
	b2 := bx*bx + by*by
	c2 := cx*cx + cy*cy
	ux := (cy*b2 - by*c2) / d
	uy := (bx*c2 - cx*b2) / d
	center := Point{a.X + ux, a.Y + uy}
	return Circle{X: center.X, Y: center.Y, R: Segment{center.X, center.Y, a.X, a.Y}.Length()}
}
