// Package databar is an interactive timeline-labeling engine for
// [Ebitengine].
//
// A [Session] shows one or more numeric signal channels against a shared
// sample axis and lets the user annotate intervals of that axis with typed
// labels. The engine owns the parts that need real care: the zoomable
// coordinate scales, the label collection and its overlap-avoiding editor,
// the tool-mode state machine, and the pour simulation that paints a label
// by dropping particles onto a depth profile.
//
// # Quick start
//
// The simplest way to get a window is [Run]:
//
//	scheme, err := databar.LoadScheme("scheme.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	s := databar.NewSession(scheme, nil, databar.SessionConfig{})
//	s.SetSignals(channels)
//	if err := databar.Run(s, databar.RunConfig{Title: "labels"}); err != nil {
//		log.Fatal(err)
//	}
//
// For full control, implement [ebiten.Game] yourself and call
// [Session.Update] and [Session.Draw] directly.
//
// # Labels
//
// A [Label] is a typed interval [Start, End] in sample coordinates. Labels
// live in a [LabelStream], which assigns ids, tracks the dirty flag and
// notifies subscribers of every mutation with a [StreamEvent]. All geometry
// edits go through the [Labeller], which clamps edges against neighboring
// labels instead of letting them overlap.
//
// # Tool modes
//
// The [ModeTracker] holds one of [ModeSelection], [ModeClick] or [ModePour].
// The middle button cycles it. Selection mode selects and drags labels and
// pans the plot. Click mode creates and relabels labels. Pour mode grows a
// label from particles while the left button is held.
//
// # Zoom
//
// The wheel zooms around the pointer between 1x and 50x. Dragging on the
// x-axis, or on the frame in Selection mode, pans. [Session.ResetZoom]
// animates back to the full view.
//
// # Rendering
//
// The engine never draws directly. It tells a [Renderer] which [Layer]s are
// stale. [Plot] is the ebiten implementation used by [Run]; tests use the
// default renderer that discards everything.
//
// # Testing
//
// Pointer input can be injected programmatically with [Session.InjectClick],
// [Session.InjectDrag] and friends, or replayed from a JSON script through
// [LoadTestScript]. Injected events bypass the real mouse, so sessions can
// be driven headlessly.
//
// [Ebitengine]: https://ebitengine.org
package databar
