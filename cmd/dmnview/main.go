// Package main is the entry point for the dmnview document viewer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dmnkit/dmnview/internal/manager"
	"github.com/dmnkit/dmnview/internal/script"
	"github.com/dmnkit/dmnview/internal/surface"
	"github.com/dmnkit/dmnview/internal/view"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	ConfigPath string
	ScriptPath string
	LogLevel   string
	ViewID     string
	Width      int

	ListViews bool
	JSON      bool
	Render    bool
	Export    bool
	TUI       bool

	File string
}

func run() int {
	opts := parseFlags()

	if opts.ConfigPath != "" {
		if err := applyConfig(&opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to read config: %v\n", err)
			return 1
		}
	}

	logger := manager.NewLogger(os.Stderr, logLevel(opts.LogLevel))

	m, err := manager.NewDefault(manager.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer m.Destroy()

	if opts.ScriptPath != "" {
		host, err := script.NewHost(m.Bus())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to start script host: %v\n", err)
			return 1
		}
		defer host.Close()
		if err := host.Load(opts.ScriptPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: script %s: %v\n", opts.ScriptPath, err)
			return 1
		}
	}

	data, err := os.ReadFile(opts.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx := context.Background()
	res, err := m.ImportXML(ctx, string(data), manager.ImportOptions{ParseOnly: !opts.TUI})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	switch {
	case opts.Export:
		return runExport(ctx, m)
	case opts.Render:
		return runRender(ctx, m, opts)
	case opts.TUI:
		return runTUI(ctx, m)
	default:
		return runListViews(m, opts.JSON)
	}
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to JSON configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to JSON configuration file (shorthand)")
	flag.StringVar(&opts.ScriptPath, "script", "", "Lua hook script to load")
	flag.StringVar(&opts.LogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.ViewID, "view", "", "View id to render (default: active view)")
	flag.IntVar(&opts.Width, "width", 100, "Render width in characters")
	flag.BoolVar(&opts.ListViews, "views", false, "List the document's displayable views")
	flag.BoolVar(&opts.JSON, "json", false, "Emit the view list as JSON")
	flag.BoolVar(&opts.Render, "render", false, "Render a view as text to stdout")
	flag.BoolVar(&opts.Export, "export", false, "Re-export the document as DMN 1.3 XML")
	flag.BoolVar(&opts.TUI, "tui", false, "Open the document interactively")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "dmnview - multi-view DMN document viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: dmnview [options] file.dmn\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  dmnview -views model.dmn            List displayable views\n")
		fmt.Fprintf(os.Stderr, "  dmnview -render -view d1 model.dmn  Render one decision as text\n")
		fmt.Fprintf(os.Stderr, "  dmnview -export model.dmn           Round-trip to DMN 1.3 XML\n")
		fmt.Fprintf(os.Stderr, "  dmnview -tui model.dmn              Browse views interactively\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("dmnview %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	opts.File = flag.Arg(0)
	return opts
}

// applyConfig overlays settings from a JSON config file. Flags given on
// the command line keep their values; the config only fills defaults.
func applyConfig(opts *options) error {
	data, err := os.ReadFile(opts.ConfigPath)
	if err != nil {
		return err
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%s: not valid JSON", opts.ConfigPath)
	}

	cfg := gjson.ParseBytes(data)
	if v := cfg.Get("log.level"); v.Exists() && opts.LogLevel == "warn" {
		opts.LogLevel = v.String()
	}
	if v := cfg.Get("render.width"); v.Exists() && opts.Width == 100 {
		opts.Width = int(v.Int())
	}
	if v := cfg.Get("script"); v.Exists() && opts.ScriptPath == "" {
		opts.ScriptPath = v.String()
	}
	if v := cfg.Get("view"); v.Exists() && opts.ViewID == "" {
		opts.ViewID = v.String()
	}
	return nil
}

func logLevel(s string) manager.LogLevel {
	switch s {
	case "debug":
		return manager.LogLevelDebug
	case "info":
		return manager.LogLevelInfo
	case "error":
		return manager.LogLevelError
	default:
		return manager.LogLevelWarn
	}
}

func runListViews(m *manager.Manager, asJSON bool) int {
	views := m.Views()
	active := m.ActiveView()

	if asJSON {
		out := "{}"
		for i, v := range views {
			prefix := fmt.Sprintf("views.%d.", i)
			out, _ = sjson.Set(out, prefix+"id", v.ID)
			out, _ = sjson.Set(out, prefix+"name", v.Name)
			out, _ = sjson.Set(out, prefix+"type", v.Type)
			out, _ = sjson.Set(out, prefix+"active", view.Same(&views[i], active))
		}
		fmt.Println(out)
		return 0
	}

	for i := range views {
		marker := " "
		if view.Same(&views[i], active) {
			marker = "*"
		}
		fmt.Printf("%s %-20s %-18s %s\n", marker, views[i].ID, views[i].Type, views[i].Name)
	}
	return 0
}

func runRender(ctx context.Context, m *manager.Manager, opts options) int {
	target, err := pickView(m, opts.ViewID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	buf := surface.NewBuffer(opts.Width)
	m.AttachTo(buf)

	res, err := m.OpenView(ctx, target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	fmt.Println(buf.String())
	return 0
}

func runExport(ctx context.Context, m *manager.Manager) int {
	out, err := m.SaveXML(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Print(out)
	return 0
}

func runTUI(ctx context.Context, m *manager.Manager) int {
	term, err := surface.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open terminal: %v\n", err)
		return 1
	}
	defer term.Fini()

	m.AttachTo(term)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		term.Fini()
		os.Exit(0)
	}()

	for {
		ev := term.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
				return 0
			case ev.Key() == tcell.KeyTab:
				if err := cycleView(ctx, m); err != nil {
					term.Fini()
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
					return 1
				}
			}
		case *tcell.EventResize:
			term.Flush()
		case nil:
			return 0
		}
	}
}

// cycleView switches to the view after the active one, wrapping around.
func cycleView(ctx context.Context, m *manager.Manager) error {
	views := m.Views()
	if len(views) == 0 {
		return nil
	}
	active := m.ActiveView()

	next := 0
	for i := range views {
		if view.Same(&views[i], active) {
			next = (i + 1) % len(views)
			break
		}
	}
	_, err := m.OpenView(ctx, &views[next])
	return err
}

// pickView resolves the view to render: by id when given, otherwise the
// active view.
func pickView(m *manager.Manager, id string) (*view.Descriptor, error) {
	views := m.Views()
	if id == "" {
		if active := m.ActiveView(); active != nil {
			return active, nil
		}
		if len(views) == 0 {
			return nil, errors.New("document has no displayable views")
		}
		return &views[0], nil
	}
	for i := range views {
		if views[i].ID == id {
			return &views[i], nil
		}
	}
	return nil, fmt.Errorf("no view with id %q", id)
}
