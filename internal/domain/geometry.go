package domain

// Point is a pair of model-space coordinates.
type Point struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the vector from o to p.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Scale multiplies both coordinates by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// IsZero reports whether p is the origin.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Size is a width and height pair.
type Size struct {
	Width  float64 `json:"width" yaml:"width" toml:"width"`
	Height float64 `json:"height" yaml:"height" toml:"height"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x" yaml:"x" toml:"x"`
	Y      float64 `json:"y" yaml:"y" toml:"y"`
	Width  float64 `json:"width" yaml:"width" toml:"width"`
	Height float64 `json:"height" yaml:"height" toml:"height"`
}

// NewRect builds a rectangle from a position and a size.
func NewRect(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, Width: s.Width, Height: s.Height}
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	x := min(r.X, o.X)
	y := min(r.Y, o.Y)
	return Rect{
		X:      x,
		Y:      y,
		Width:  max(r.Right(), o.Right()) - x,
		Height: max(r.Bottom(), o.Bottom()) - y,
	}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Padding is the inner spacing of a Group.
type Padding struct {
	Top    float64 `json:"top" yaml:"top" toml:"top"`
	Right  float64 `json:"right" yaml:"right" toml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom" toml:"bottom"`
	Left   float64 `json:"left" yaml:"left" toml:"left"`
}

// UniformPadding returns the same padding on every side.
func UniformPadding(v float64) Padding {
	return Padding{Top: v, Right: v, Bottom: v, Left: v}
}
