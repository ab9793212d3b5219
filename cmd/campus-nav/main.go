package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/ritzau/campus-nav/pkg/campus"
	"github.com/ritzau/campus-nav/pkg/campus/source"
	"github.com/ritzau/campus-nav/pkg/config"
	"github.com/ritzau/campus-nav/pkg/logging"
	"github.com/ritzau/campus-nav/pkg/output"
	"github.com/ritzau/campus-nav/pkg/render"
	"github.com/ritzau/campus-nav/pkg/search"
	"github.com/ritzau/campus-nav/pkg/watcher"
	"github.com/ritzau/campus-nav/pkg/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("campus-nav", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	config.RegisterFlags(flags)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	level, err := logging.ParseLevel(cfg.Log.Verbosity, cfg.Log.VerboseCnt)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	logging.Configure(stderr, level, cfg.Log.Format)

	src, closeSource, err := source.Open(ctx, source.Options{
		Kind: cfg.Map.Source,
		File: cfg.Map.File,
		Neo4j: source.Neo4jOptions{
			URI:      cfg.Neo4j.URI,
			Database: cfg.Neo4j.Database,
			Username: cfg.Neo4j.Username,
			Password: cfg.Neo4j.Password,
		},
	})
	if err != nil {
		logging.Error("failed to open map source", "source", cfg.Map.Source, "error", err)
		return 1
	}
	defer func() {
		if err := closeSource(context.Background()); err != nil {
			logging.Warn("failed to close map source", "error", err)
		}
	}()

	m, err := src.Load(ctx)
	if err != nil {
		logging.Error("failed to load map", "source", src.Describe(), "error", err)
		return 1
	}
	logging.Debug("map loaded", "source", src.Describe(), "name", m.Name(), "locations", len(m.Locations()), "paths", len(m.Edges()))

	navigator := search.NewNavigator(search.WithStrictAOStar(cfg.Search.StrictAOStar))

	switch {
	case cfg.List:
		output.PrintLocations(stdout, m)
		return 0
	case cfg.Web.Enabled:
		return serve(ctx, cfg, src, m, navigator)
	default:
		return route(ctx, cfg, m, navigator, stdout, stderr)
	}
}

// route computes a single route and writes it in the configured format
func route(ctx context.Context, cfg *config.Config, m *campus.Map, navigator *search.Navigator, stdout, stderr io.Writer) int {
	req := search.Request{From: cfg.Route.From, To: cfg.Route.To, Algorithm: cfg.Route.Algorithm}
	res, err := navigator.Route(ctx, m, req)
	if err != nil {
		logging.Debug("route failed", "from", req.From, "to", req.To, "algorithm", req.Algorithm, "error", err)
		output.PrintFailure(stderr, render.NoticeFor(err, req.Algorithm))
		return 1
	}

	w := stdout
	if cfg.Route.Out != "" {
		f, err := os.Create(cfg.Route.Out)
		if err != nil {
			logging.Error("failed to create output file", "path", cfg.Route.Out, "error", err)
			return 1
		}
		defer f.Close()
		w = f
	}

	switch cfg.Route.Format {
	case "dot":
		out, err := render.DOT(m, render.HighlightFor(res))
		if err == nil {
			_, err = fmt.Fprintf(w, "%s\n", out)
		}
		if err != nil {
			logging.Error("failed to write dot output", "error", err)
			return 1
		}
	case "svg":
		if err := render.SVG(w, m, render.HighlightFor(res)); err != nil {
			logging.Error("failed to write svg output", "error", err)
			return 1
		}
	default:
		if w == stdout {
			output.PrintRoute(w, m, res)
		} else if _, err := fmt.Fprintln(w, render.Summary(res)); err != nil {
			logging.Error("failed to write output", "error", err)
			return 1
		}
	}

	if cfg.Route.Out != "" {
		logging.Info("wrote route", "path", cfg.Route.Out, "format", cfg.Route.Format)
	}
	return 0
}

// serve runs the web UI until ctx is done
func serve(ctx context.Context, cfg *config.Config, src source.Source, m *campus.Map, navigator *search.Navigator) int {
	server := web.NewServer(m, src.Describe(), navigator)

	if cfg.Map.Watch {
		fileSrc, ok := src.(*source.File)
		if !ok {
			logging.Warn("watching is only supported for map files", "source", src.Describe())
		} else if err := watcher.WatchFile(ctx, fileSrc, server.Reloaded); err != nil {
			logging.Error("failed to watch map file", "error", err)
			return 1
		}
	}

	if cfg.Web.OpenBrowser {
		go func() {
			// Give the listener a moment to come up
			time.Sleep(500 * time.Millisecond)
			openBrowser(fmt.Sprintf("http://localhost:%d", cfg.Web.Port))
		}()
	}

	if err := server.Start(ctx, cfg.Web.Port); err != nil {
		logging.Error("web server failed", "error", err)
		return 1
	}
	return 0
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "linux":
		cmd = "xdg-open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		logging.Warn("cannot open browser on this platform", "os", runtime.GOOS)
		return
	}

	if err := exec.Command(cmd, args...).Start(); err != nil {
		logging.Warn("failed to open browser", "error", err)
	}
}
