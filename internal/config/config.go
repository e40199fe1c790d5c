package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/petervdpas/presentation/dialog"
	"github.com/petervdpas/presentation/internal/util"
)

type Config struct {
	Window  Window  `json:"window"`
	UI      UI      `json:"ui"`
	Dialogs Dialogs `json:"dialogs"`
	Bridge  Bridge  `json:"bridge"`
	Notes   Notes   `json:"notes"`
}

type Window struct {
	Title  string `json:"title"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type UI struct {
	Theme string `json:"theme"` // "dark" or "light"
}

type Dialogs struct {
	// Filter in "Description|glob;glob|..." form used by open/save pickers.
	FileFilter string `json:"file_filter"`

	// Directory the file pickers start in. Relative to the config file.
	// Empty means the platform default.
	StartDir string `json:"start_dir"`

	FolderTitle string `json:"folder_title"`
	OpenTitle   string `json:"open_title"`
	SaveTitle   string `json:"save_title"`
}

type Bridge struct {
	// Listen address for the browser bridge. Port 0 picks a free port.
	Addr string `json:"addr"`

	// Number of recent change events kept for /events.
	History int `json:"history"`
}

type Notes struct {
	// Watch the open file and flag changes made by other programs.
	WatchFile bool `json:"watch_file"`

	// Highlighting style for fenced code in the preview (chroma style name).
	CodeStyle string `json:"code_style"`
}

func Default() Config {
	return Config{
		Window: Window{
			Title:  "Presentation · notes",
			Width:  1100,
			Height: 760,
		},
		UI: UI{
			Theme: "dark",
		},
		Dialogs: Dialogs{
			FileFilter:  "Markdown|*.md;*.markdown|Text|*.txt|" + dialog.AllFiles,
			FolderTitle: dialog.DefaultTitles.Folder,
			OpenTitle:   dialog.DefaultTitles.OpenFile,
			SaveTitle:   dialog.DefaultTitles.SaveFile,
		},
		Bridge: Bridge{
			Addr:    "127.0.0.1:0",
			History: 256,
		},
		Notes: Notes{
			WatchFile: true,
			CodeStyle: "monokai",
		},
	}
}

func (c *Config) Validate() error {
	// Window
	if strings.TrimSpace(c.Window.Title) == "" {
		return errors.New("window.title is required")
	}
	if c.Window.Width < 320 || c.Window.Height < 240 {
		return errors.New("window.width/height must be at least 320x240")
	}

	// UI
	if c.UI.Theme != "dark" && c.UI.Theme != "light" {
		return errors.New(`ui.theme must be "dark" or "light"`)
	}

	// Dialogs
	if _, err := dialog.ParseFilter(c.Dialogs.FileFilter); err != nil {
		return fmt.Errorf("dialogs.file_filter: %w", err)
	}

	// Bridge
	if _, port, err := net.SplitHostPort(c.Bridge.Addr); err != nil || port == "" {
		return errors.New("bridge.addr must be host:port")
	}
	if c.Bridge.History < 0 || c.Bridge.History > 10000 {
		return errors.New("bridge.history must be 0..10000")
	}

	// Notes
	if strings.TrimSpace(c.Notes.CodeStyle) == "" {
		return errors.New("notes.code_style is required")
	}

	return nil
}

// DialogOptions converts the dialogs section into provider options.
// baseDir resolves a relative start_dir.
func (c *Config) DialogOptions(baseDir string) []dialog.Option {
	opts := []dialog.Option{
		dialog.WithTitles(dialog.Titles{
			Folder:   c.Dialogs.FolderTitle,
			OpenFile: c.Dialogs.OpenTitle,
			SaveFile: c.Dialogs.SaveTitle,
		}),
	}
	if c.Dialogs.StartDir != "" {
		opts = append(opts, dialog.WithStartDirectory(util.ResolvePath(baseDir, c.Dialogs.StartDir)))
	}
	return opts
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	// Strip UTF-8 BOM if present (common when editing JSON on Windows).
	b = stripBOM(b)

	// Start from defaults so missing JSON fields remain initialized.
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func stripBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}

func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	return util.WriteJSONFile(path, cfg)
}

// Ensure loads config if it exists; otherwise creates a default config file.
// Returns (cfg, createdNew, err).
func Ensure(path string) (Config, bool, error) {
	if _, err := os.Stat(path); err == nil {
		cfg, err := Load(path)
		return cfg, false, err
	} else if !os.IsNotExist(err) {
		return Config{}, false, err
	}

	cfg := Default()
	if err := Save(path, cfg); err != nil {
		return Config{}, false, fmt.Errorf("create default config: %w", err)
	}
	return cfg, true, nil
}
