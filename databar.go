package databar

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// RGBA converts the color to a premultiplied color.RGBA for drawing.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// WithAlpha returns a copy of c with A replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D point in pixels.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Margin is the space around the plot frame reserved for axes.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Frame describes the plot area: the inner frame size in pixels and the
// margins around it. Pointer positions arrive in outer (screen) coordinates
// and are converted to frame-local coordinates with Local.
type Frame struct {
	Width, Height float64
	Margin        Margin
}

// Local converts screen coordinates to frame-local coordinates.
func (f Frame) Local(sx, sy float64) (float64, float64) {
	return sx - f.Margin.Left, sy - f.Margin.Top
}

// Screen converts frame-local coordinates to screen coordinates.
func (f Frame) Screen(lx, ly float64) (float64, float64) {
	return lx + f.Margin.Left, ly + f.Margin.Top
}

// OuterWidth is the frame width plus left and right margins.
func (f Frame) OuterWidth() float64 { return f.Width + f.Margin.Left + f.Margin.Right }

// OuterHeight is the frame height plus top and bottom margins.
func (f Frame) OuterHeight() float64 { return f.Height + f.Margin.Top + f.Margin.Bottom }

// Region classifies a frame-local point by precedence:
// y-axis, margin-top, margin-right, x-axis, then frame.
func (f Frame) Region(x, y float64) Region {
	switch {
	case x < 0:
		return RegionYAxis
	case y < 0:
		return RegionMarginTop
	case x > f.Width:
		return RegionMarginRight
	case y > f.Height:
		return RegionXAxis
	default:
		return RegionFrame
	}
}

// Region names the part of the plot a pointer is over.
type Region uint8

const (
	RegionFrame       Region = iota // inside the plot frame
	RegionYAxis                     // left of the frame
	RegionMarginTop                 // above the frame
	RegionMarginRight               // right of the frame
	RegionXAxis                     // below the frame
)

var regionNames = [...]string{"frame", "y-axis", "margin-top", "margin-right", "x-axis"}

func (r Region) String() string {
	if int(r) < len(regionNames) {
		return regionNames[r]
	}
	return "unknown"
}

// Side selects the left or right edge of a label.
type Side uint8

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// Buttons is a bitmask of pressed pointer buttons using the DOM
// MouseEvent.buttons layout.
type Buttons uint8

const (
	ButtonLeft    Buttons = 1 << iota // primary button
	ButtonRight                       // secondary button
	ButtonMiddle                      // wheel click
	ButtonBack                        // "browser back" extra button
	ButtonForward                     // "browser forward" extra button
)

// Has reports whether every bit in b is set.
func (bs Buttons) Has(b Buttons) bool { return bs&b == b }

// Cursor is the custom pointer glyph the renderer should draw.
type Cursor uint8

const (
	CursorNone    Cursor = iota // platform cursor
	CursorPointer               // click-to-create
	CursorBrush                 // click-to-relabel
	CursorWater                 // pour
)

var cursorNames = [...]string{"none", "pointer", "brush", "water"}

func (c Cursor) String() string {
	if int(c) < len(cursorNames) {
		return cursorNames[c]
	}
	return "unknown"
}
