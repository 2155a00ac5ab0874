package databar

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const defaultDragDeadZone = 4.0 // pixels

// PointerInput is one frame's raw pointer state in screen coordinates.
type PointerInput struct {
	X, Y    float64
	Buttons Buttons
	// WheelY is the vertical wheel offset this frame; positive zooms in.
	WheelY float64
	// Inside is false when the pointer has left the window.
	Inside bool
}

// InputSource supplies pointer state once per frame.
type InputSource interface {
	Poll() PointerInput
}

// ebitenInput reads the pointer from ebiten. Must only be polled from the
// game loop.
type ebitenInput struct{}

func (ebitenInput) Poll() PointerInput {
	mx, my := ebiten.CursorPosition()
	var bs Buttons
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		bs |= ButtonLeft
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		bs |= ButtonRight
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		bs |= ButtonMiddle
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButton3) {
		bs |= ButtonBack
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButton4) {
		bs |= ButtonForward
	}
	_, wy := ebiten.Wheel()
	w, h := ebiten.WindowSize()
	inside := ebiten.IsFocused() && mx >= 0 && my >= 0 && (w == 0 || mx < w) && (h == 0 || my < h)
	return PointerInput{X: float64(mx), Y: float64(my), Buttons: bs, WheelY: wy, Inside: inside}
}

// idleInput never reports any activity.
type idleInput struct{}

func (idleInput) Poll() PointerInput { return PointerInput{Inside: true} }

// gestureHandler receives the gestures recognized by pointerState. All
// coordinates are frame-local.
type gestureHandler interface {
	onPointerDown(x, y float64, pressed Buttons)
	onPointerUp(x, y float64, released Buttons)
	onPointerMove(x, y float64)
	onPointerLeave()
	onClick(x, y float64)
	onDragStart(x, y, startX, startY float64)
	onDrag(x, y, dx, dy float64)
	onDragEnd(x, y float64)
	onWheel(x, y, delta float64)
}

// pointerState turns per-frame PointerInput snapshots into gestures. The
// left button drives press, drag and click recognition; the other buttons
// only produce down/up.
type pointerState struct {
	frame    Frame
	deadZone float64

	buttons  Buttons
	down     bool
	dragging bool
	inside   bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	seen     bool
}

func newPointerState(frame Frame, deadZone float64) *pointerState {
	if deadZone <= 0 {
		deadZone = defaultDragDeadZone
	}
	return &pointerState{frame: frame, deadZone: deadZone, inside: true}
}

// process diffs in against the previous frame and fires gestures on h.
func (ps *pointerState) process(in PointerInput, h gestureHandler) {
	x, y := ps.frame.Local(in.X, in.Y)
	moved := !ps.seen || x != ps.lastX || y != ps.lastY
	ps.seen = true

	if !in.Inside {
		if ps.inside {
			ps.inside = false
			h.onPointerLeave()
		}
	} else {
		ps.inside = true
	}

	pressed := in.Buttons &^ ps.buttons
	released := ps.buttons &^ in.Buttons
	ps.buttons = in.Buttons

	if pressed != 0 {
		h.onPointerDown(x, y, pressed)
	}

	if in.WheelY != 0 {
		h.onWheel(x, y, in.WheelY)
	}

	switch {
	case pressed.Has(ButtonLeft):
		ps.down = true
		ps.dragging = false
		ps.startX, ps.startY = x, y
	case ps.down && !released.Has(ButtonLeft):
		if moved {
			if !ps.dragging {
				dx := x - ps.startX
				dy := y - ps.startY
				if math.Sqrt(dx*dx+dy*dy) > ps.deadZone {
					ps.dragging = true
					h.onDragStart(x, y, ps.startX, ps.startY)
					h.onDrag(x, y, x-ps.startX, y-ps.startY)
				}
			} else {
				h.onDrag(x, y, x-ps.lastX, y-ps.lastY)
			}
		}
	case ps.down && released.Has(ButtonLeft):
		if ps.dragging {
			if moved {
				h.onDrag(x, y, x-ps.lastX, y-ps.lastY)
			}
			h.onDragEnd(x, y)
		} else {
			h.onClick(x, y)
		}
		ps.down = false
		ps.dragging = false
	default:
		if moved && ps.inside {
			h.onPointerMove(x, y)
		}
	}

	if released != 0 {
		h.onPointerUp(x, y, released)
	}
	ps.lastX, ps.lastY = x, y
}
