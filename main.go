// main.go
package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/petervdpas/presentation/internal/bridge"
	"github.com/petervdpas/presentation/internal/config"
	"github.com/petervdpas/presentation/internal/notes"
	"github.com/petervdpas/presentation/internal/tui"
	"github.com/petervdpas/presentation/internal/util"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

var (
	showHelp = flag.Bool("h", false, "Show help")
	version  = flag.Bool("version", false, "Show version")
	cfgFlag  = flag.String("config", "presentation.json", "Config file (created with defaults if missing)")
)

// appVersion is set at build time via -ldflags "-X main.appVersion=x.y.z"
var appVersion = "dev"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("presentation v%s\n", appVersion)
		return
	}

	if *showHelp {
		showUsage()
		return
	}

	cfgPath, err := filepath.Abs(*cfgFlag)
	if err != nil {
		log.Fatalf("Invalid config path: %v", err)
	}
	cfg, created, err := config.Ensure(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if created {
		log.Printf("CONFIG: wrote defaults to %s", cfgPath)
	}

	args := flag.Args()

	// No command - run desktop UI
	if len(args) == 0 {
		runDesktopApp(cfg, cfgPath, "")
		return
	}

	command := args[0]
	file := ""
	if len(args) > 1 {
		file = args[1]
	}

	switch command {
	case "open":
		if file == "" {
			usageError("open command requires a file path", "presentation open <file>")
		}
		runDesktopApp(cfg, cfgPath, file)

	case "tui":
		ctx, cancel := signalContext()
		defer cancel()
		if err := tui.Run(ctx, file, cfg); err != nil {
			log.Fatalf("TUI failed: %v", err)
		}

	case "bridge":
		if file == "" {
			usageError("bridge command requires a file path", "presentation bridge <file>")
		}
		runCLIBridge(cfg, file)

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n", command)
		fmt.Fprintln(os.Stderr)
		showUsage()
		os.Exit(1)
	}
}

func usageError(msg, usage string) {
	fmt.Fprintln(os.Stderr, "Error: "+msg)
	fmt.Fprintln(os.Stderr, "Usage: "+usage)
	os.Exit(1)
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Println("\nShutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func runDesktopApp(cfg config.Config, cfgPath, file string) {
	app := NewApp(cfg, cfgPath, file)

	err := wails.Run(&options.App{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,

		AssetServer: &assetserver.Options{
			Assets: assets,
		},

		OnStartup:  app.startup,
		OnShutdown: app.shutdown,
		Bind:       []any{app},
	})
	if err != nil {
		log.Fatal(err)
	}
}

// runCLIBridge serves a note to browser views without a desktop window.
// Native dialogs are unavailable here; commands that need them report
// through the exception log.
func runCLIBridge(cfg config.Config, file string) {
	ctx, cancel := signalContext()
	defer cancel()

	ui := util.NewSerial()
	go ui.Run(ctx)

	vm := notes.New(notes.Options{
		FileFilter: cfg.Dialogs.FileFilter,
		CodeStyle:  cfg.Notes.CodeStyle,
		Dispatch:   ui.Post,
	})
	vm.OnException(func(err error) {
		log.Printf("NOTES: %v", err)
	})

	var err error
	ui.Do(func() { err = vm.Load(file) })
	if err != nil {
		log.Fatalf("Failed to open %s: %v", file, err)
	}

	if cfg.Notes.WatchFile {
		go func() {
			if err := vm.Watch(ctx); err != nil {
				log.Printf("NOTES: watch: %v", err)
			}
		}()
	}

	srv := bridge.New(vm, bridge.Options{Dispatch: ui.Do, History: cfg.Bridge.History})
	if err := srv.Start(ctx, cfg.Bridge.Addr); err != nil {
		log.Fatalf("Bridge failed: %v", err)
	}

	printBridgeBanner(file, srv.URL())
	<-ctx.Done()
}

func showUsage() {
	fmt.Println("presentation - MVVM notes editor")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  presentation [options]               Run desktop application (default)")
	fmt.Println("  presentation [options] open <file>   Run desktop application on a note")
	fmt.Println("  presentation [options] tui [file]    Run the terminal editor")
	fmt.Println("  presentation [options] bridge <file> Serve a note to browser views")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -config   Config file (default presentation.json)")
	fmt.Println("  -h        Show this help message")
	fmt.Println("  -version  Show version information")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  presentation tui ./notes/today.md")
	fmt.Println("  presentation -config ~/.presentation.json bridge ./README.md")
}

func printBridgeBanner(file, url string) {
	fmt.Println("╔════════════════════════════════════════════════════════╗")
	fmt.Println("║                 presentation bridge                    ║")
	fmt.Println("╚════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("Note:    %s\n", file)
	fmt.Printf("State:   %s/state\n", url)
	fmt.Printf("Events:  %s/ws\n", url)
	fmt.Println()
	fmt.Println("Serving... (Press Ctrl+C to stop)")
	fmt.Println("────────────────────────────────────────────────────────")
	fmt.Println()
}
