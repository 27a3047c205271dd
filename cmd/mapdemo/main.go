// Command mapdemo renders a sample map scene to PNG frames. It can also
// attach to a live websocket feed and render whatever the feed builds.
//
// Configuration comes from mapdemo.yaml in the working directory and
// MAPDEMO_* environment variables:
//
//	width, height  surface size in pixels (default 800x600)
//	frames         number of frames to render (default 60)
//	out            output directory (default "frames")
//	feed           optional ws:// feed URL
//	map            partial map configuration, merged over the defaults
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/gogpu/gg"
	"github.com/spf13/viper"

	"github.com/gogpu/mapview"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "mapdemo:", err)
		os.Exit(1)
	}
}

func run() error {
	v := viper.New()
	v.SetConfigName("mapdemo")
	v.AddConfigPath(".")
	v.SetEnvPrefix("MAPDEMO")
	v.AutomaticEnv()
	v.SetDefault("width", 800)
	v.SetDefault("height", 600)
	v.SetDefault("frames", 60)
	v.SetDefault("out", "frames")
	v.SetDefault("feed", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	mapview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	m, err := mapview.New("demo")
	if err != nil {
		return err
	}
	if partial := v.GetStringMap("map"); len(partial) > 0 {
		if err := m.Configure(partial); err != nil {
			return err
		}
	}

	if feed := v.GetString("feed"); feed != "" {
		return runFeed(m, v, feed)
	}

	rover, scout := buildScene(m)

	out := v.GetString("out")
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}

	frames := v.GetInt("frames")
	dc := gg.NewContext(v.GetInt("width"), v.GetInt("height"))
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(frames)
		animate(rover, scout, t)
		if err := m.Draw(dc); err != nil {
			return err
		}
		path := filepath.Join(out, fmt.Sprintf("frame_%03d.png", i))
		if err := dc.SavePNG(path); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	}
	fmt.Printf("rendered %d frames to %s\n", frames, out)
	return nil
}

// buildScene populates the demo objects: static geometry plus the two
// animated agents.
func buildScene(m *mapview.Map) (rover *mapview.Agent, scout *mapview.VisionAgent) {
	zone := mapview.NewRect("zone")
	zone.X, zone.Y = 0.25, 0.25
	zone.Width, zone.Height = 1, 0.75
	m.Add("", zone)

	beacon := mapview.NewCircle("beacon")
	beacon.X, beacon.Y = 2.25, 2.25
	beacon.Radius = 0.35
	m.Add("", beacon)

	track := mapview.NewLine("track")
	track.X1, track.Y1 = 0.25, 2.5
	track.X2, track.Y2 = 2.75, 2.5
	track.Style = mapview.LineDashed
	m.Add("", track)

	home := mapview.NewMarker("home")
	home.X, home.Y = 1.5, 1.5
	home.Shape = "triangle"
	m.Add("", home)

	dock := mapview.NewCoordinateSystem("dock")
	dock.X, dock.Y = 2.5, 0.5
	dock.Psi = math.Pi / 4
	m.Add("", dock)

	m.Add("", mapview.NewGroup("fleet"))
	rover = mapview.NewAgent("rover")
	m.Add("fleet", rover)
	scout = mapview.NewVisionAgent("scout")
	m.Add("fleet", scout)
	return rover, scout
}

// animate moves the agents along circular paths; t runs 0..1 over the
// rendered sequence.
func animate(rover *mapview.Agent, scout *mapview.VisionAgent, t float64) {
	a := 2 * math.Pi * t
	rover.X = 1.5 + math.Cos(a)
	rover.Y = 1.5 + math.Sin(a)
	rover.Psi = a + math.Pi/2

	scout.X = 1.5 + 0.5*math.Cos(-a)
	scout.Y = 1.5 + 0.5*math.Sin(-a)
	scout.Psi = -a - math.Pi/2
}

// runFeed attaches to a live feed and renders one frame per loop tick
// until interrupted, then writes the final frame.
func runFeed(m *mapview.Map, v *viper.Viper, url string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dc := gg.NewContext(v.GetInt("width"), v.GetInt("height"))
	final := filepath.Join(v.GetString("out"), "final.png")

	client := mapview.NewFeedClient(url, m)
	errCh := make(chan error, 1)
	go func() { errCh <- client.Run(ctx) }()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, ctx.Err()) {
			return err
		}
	}

	if err := m.Draw(dc); err != nil {
		return err
	}
	if err := os.MkdirAll(v.GetString("out"), 0o755); err != nil {
		return err
	}
	return dc.SavePNG(final)
}
