// Package mapview provides an interactive 2D world-map viewport engine
// for live-telemetry dashboards, drawing through github.com/gogpu/gg.
//
// # Overview
//
// mapview renders a bounded rectangular world (checkerboard tiling, grid
// lines, coordinate axes, rounded border) onto a gg drawing context, lets
// the user pan and zoom the view, and composites a dynamic set of typed
// map objects (markers, agents, vision cones, groups) pushed in from an
// external real-time feed.
//
// # Quick Start
//
//	m, err := mapview.New("arena")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m.Add("", mapview.NewMarker("robot"))
//
//	dc := gg.NewContext(800, 600)
//	if err := m.Draw(dc); err != nil {
//	    log.Fatal(err)
//	}
//	dc.SavePNG("frame.png")
//
// # Coordinate Systems
//
// World coordinates are continuous, y-up, expressed in world units
// (typically meters). Screen coordinates are y-down pixels on the drawing
// surface. The Transform type maps between the two for the current
// pan/zoom/rotation state; rotation is restricted to multiples of 90
// degrees.
//
// # Concurrency
//
// All exported Map methods are safe for concurrent use: a feed client
// goroutine can mutate the scene while the render loop paints. The
// render loop itself only schedules a host-provided callback; the host
// calls Draw from it.
package mapview

// Version is the current version of the library.
const Version = "0.3.0"
