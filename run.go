package databar

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title string
	// Width and Height are the window size. Zero uses the session's outer
	// frame size.
	Width, Height int
	// ShowStatus draws the mode, type and FPS overlay.
	ShowStatus bool
	// Resizable allows the user to resize the window.
	Resizable bool
}

// Run opens a window and drives session until the window closes. A Plot is
// attached when the session has no drawing renderer.
//
// Keys: Tab cycles the tool mode, Up/Down cycle the label type, R resets
// the zoom, Delete removes the selected label, F12 saves a screenshot.
func Run(session *Session, cfg RunConfig) error {
	if _, ok := session.renderer.(screenDrawer); !ok {
		plot, err := NewPlot()
		if err != nil {
			return err
		}
		session.SetRenderer(plot)
	}
	if p, ok := session.renderer.(*Plot); ok {
		p.ShowStatus = cfg.ShowStatus
	}

	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		w, h = int(session.frame.OuterWidth()), int(session.frame.OuterHeight())
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(w, h)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	return ebiten.RunGame(&game{session: session})
}

// game adapts a Session to ebiten.Game.
type game struct {
	session *Session
}

func (g *game) Update() error {
	g.handleKeys()
	return g.session.Update(1 / float64(ebiten.TPS()))
}

func (g *game) Draw(screen *ebiten.Image) {
	g.session.Draw(screen)
}

func (g *game) Layout(_, _ int) (int, int) {
	f := g.session.frame
	return int(f.OuterWidth()), int(f.OuterHeight())
}

func (g *game) handleKeys() {
	s := g.session
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		s.mode.Cycle()
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		s.stream.Cycle()
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		s.stream.CycleDown()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		s.ResetZoom()
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete), inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		if sel := s.stream.Selected(); sel != nil {
			s.labeller.Delete(sel)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF12):
		s.Screenshot("capture")
	}
}
