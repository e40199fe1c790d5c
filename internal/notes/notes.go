// Package notes is a Markdown notes editor view-model. The desktop, terminal
// and browser hosts all drive the same ViewModel.
package notes

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/petervdpas/presentation/command"
	"github.com/petervdpas/presentation/dialog"
	"github.com/petervdpas/presentation/internal/util"
	"github.com/petervdpas/presentation/observable"
	"github.com/petervdpas/presentation/viewmodel"
)

// Property identifiers.
const (
	PathProperty          = "Path"
	TextProperty          = "Text"
	PreviewProperty       = "Preview"
	DirtyProperty         = "Dirty"
	TitleProperty         = "Title"
	FolderProperty        = "Folder"
	ChangedOnDiskProperty = "ChangedOnDisk"
)

// Properties lists every property identifier in display order.
var Properties = []string{
	TitleProperty, PathProperty, FolderProperty, DirtyProperty,
	ChangedOnDiskProperty, TextProperty, PreviewProperty,
}

// Custom dialog keys hosts may register.
const (
	// KeepChangesDialog is asked before unsaved text is replaced. A true
	// result keeps the current text. Unregistered means discard.
	KeepChangesDialog = "notes.keep-changes"
	// HelpDialog is shown by the Help command.
	HelpDialog = "notes.help"
)

const untitled = "untitled.md"

// Options configures a ViewModel.
type Options struct {
	// FileFilter is passed to the open and save pickers.
	FileFilter string
	// CodeStyle is the chroma style for fenced code in the preview.
	CodeStyle string
	// Dispatch runs f on the view-model's UI goroutine. Nil runs f inline.
	Dispatch func(f func())
}

// ViewModel holds one open note.
type ViewModel struct {
	*viewmodel.Base

	opts Options
	md   goldmark.Markdown

	path          string
	text          string
	saved         string
	dirty         bool
	folder        string
	changedOnDisk bool

	rendered     string
	renderedFrom string
	renderedOnce bool

	OpenCommand         *command.Delegate
	SaveCommand         *command.Delegate
	SaveAsCommand       *command.Delegate
	ReloadCommand       *command.Delegate
	ChooseFolderCommand *command.Delegate
	AboutCommand        *command.Delegate
	HelpCommand         *command.Delegate
	InsertCommand       *command.Delegate
}

// New returns an empty, untitled note.
func New(opts Options, vmOpts ...viewmodel.Option) *ViewModel {
	if opts.FileFilter == "" {
		opts.FileFilter = dialog.AllFiles
	}
	if opts.CodeStyle == "" {
		opts.CodeStyle = "monokai"
	}
	if opts.Dispatch == nil {
		opts.Dispatch = func(f func()) { f() }
	}

	v := &ViewModel{opts: opts}
	v.Base = viewmodel.New(v, vmOpts...)
	v.md = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(highlighting.WithStyle(opts.CodeStyle)),
		),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	v.OpenCommand = v.CreateCommand(v.open)
	v.SaveCommand = v.CreateCommandWhen(v.save, v.canSave)
	v.SaveAsCommand = v.CreateCommand(v.saveAs)
	v.ReloadCommand = v.CreateCommandWhen(v.reload, func() bool { return v.path != "" })
	v.ChooseFolderCommand = v.CreateCommand(v.chooseFolder)
	v.AboutCommand = v.CreateCommand(v.about)
	v.HelpCommand = v.CreateCommand(v.help)
	v.InsertCommand = viewmodel.CreateCommandWithParamWhen(v.insert, func(s string) bool { return s != "" })
	return v
}

// Commands returns the commands by name for hosts that bind by string.
func (v *ViewModel) Commands() map[string]command.Command {
	return map[string]command.Command{
		"open":         v.OpenCommand,
		"save":         v.SaveCommand,
		"saveAs":       v.SaveAsCommand,
		"reload":       v.ReloadCommand,
		"chooseFolder": v.ChooseFolderCommand,
		"about":        v.AboutCommand,
		"help":         v.HelpCommand,
		"insert":       v.InsertCommand,
	}
}

func (v *ViewModel) Path() string { return v.path }
func (v *ViewModel) Text() string { return v.text }
func (v *ViewModel) Dirty() bool { return v.dirty }
func (v *ViewModel) Folder() string { return v.folder }
func (v *ViewModel) ChangedOnDisk() bool { return v.changedOnDisk }

// Title is the window title: file name plus a marker for unsaved text.
func (v *ViewModel) Title() string {
	name := untitled
	if v.path != "" {
		name = filepath.Base(v.path)
	}
	if v.dirty {
		name += " *"
	}
	return name
}

// Preview is the text rendered as HTML. It is rendered on first read after
// the text changes.
func (v *ViewModel) Preview() string {
	if v.renderedOnce && v.renderedFrom == v.text {
		return v.rendered
	}
	var buf bytes.Buffer
	if err := v.md.Convert([]byte(v.text), &buf); err != nil {
		log.Printf("NOTES: render preview: %v", err)
		buf.Reset()
	}
	v.rendered, v.renderedFrom, v.renderedOnce = buf.String(), v.text, true
	return v.rendered
}

// Value returns the current value of a property by identifier.
func (v *ViewModel) Value(name string) (any, bool) {
	switch name {
	case PathProperty:
		return v.Path(), true
	case TextProperty:
		return v.Text(), true
	case PreviewProperty:
		return v.Preview(), true
	case DirtyProperty:
		return v.Dirty(), true
	case TitleProperty:
		return v.Title(), true
	case FolderProperty:
		return v.Folder(), true
	case ChangedOnDiskProperty:
		return v.ChangedOnDisk(), true
	}
	return nil, false
}

// Snapshot returns every property value keyed by identifier.
func (v *ViewModel) Snapshot() map[string]any {
	out := make(map[string]any, len(Properties))
	for _, name := range Properties {
		out[name], _ = v.Value(name)
	}
	return out
}

// SetText replaces the text as a user edit.
func (v *ViewModel) SetText(text string) {
	if changed, _ := observable.SetProperty(&v.Object, &v.text, text, TextProperty, PreviewProperty); changed {
		v.setDirty(v.text != v.saved)
	}
}

// SetFolder sets the working folder.
func (v *ViewModel) SetFolder(folder string) {
	observable.SetProperty(&v.Object, &v.folder, folder, FolderProperty)
}

func (v *ViewModel) setPath(path string) {
	if changed, _ := observable.SetProperty(&v.Object, &v.path, path, PathProperty, TitleProperty); changed {
		v.ReloadCommand.RaiseCanExecuteChanged()
		v.SaveCommand.RaiseCanExecuteChanged()
	}
}

func (v *ViewModel) setDirty(dirty bool) {
	if changed, _ := observable.SetProperty(&v.Object, &v.dirty, dirty, DirtyProperty, TitleProperty); changed {
		v.SaveCommand.RaiseCanExecuteChanged()
	}
}

func (v *ViewModel) setChangedOnDisk(changed bool) {
	observable.SetProperty(&v.Object, &v.changedOnDisk, changed, ChangedOnDiskProperty)
}

// Load reads path into the view-model, replacing the current text.
func (v *ViewModel) Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	v.saved = string(b)
	v.SetText(v.saved)
	v.setPath(abs)
	v.setDirty(false)
	v.setChangedOnDisk(false)
	if v.folder == "" {
		v.SetFolder(filepath.Dir(abs))
	}
	return nil
}

func (v *ViewModel) canSave() bool {
	return v.path != "" && v.dirty
}

func (v *ViewModel) open() {
	dp := v.DialogProvider()
	if v.dirty {
		keep, err := dialog.OpenCustom[bool](dp, KeepChangesDialog, v.path)
		if err != nil {
			v.RaiseException(err)
			return
		}
		if keep {
			return
		}
	}
	path, err := dp.BrowseForOpenFile(v.opts.FileFilter)
	if err != nil {
		v.RaiseException(err)
		return
	}
	if path == "" {
		return
	}
	if err := v.Load(path); err != nil {
		v.RaiseException(fmt.Errorf("open %s: %w", path, err))
	}
}

func (v *ViewModel) save() {
	if v.path == "" {
		v.saveAs()
		return
	}
	v.writeTo(v.path)
}

func (v *ViewModel) saveAs() {
	suggested := untitled
	if v.path != "" {
		suggested = v.path
	} else if v.folder != "" {
		suggested = filepath.Join(v.folder, untitled)
	}
	path, err := v.DialogProvider().BrowseForSaveFile(v.opts.FileFilter, suggested)
	if err != nil {
		v.RaiseException(err)
		return
	}
	if path == "" {
		return
	}
	v.writeTo(path)
}

func (v *ViewModel) writeTo(path string) {
	if err := util.WriteFileAtomic(path, []byte(v.text), 0o644); err != nil {
		v.RaiseException(fmt.Errorf("save %s: %w", path, err))
		return
	}
	v.saved = v.text
	v.setPath(path)
	v.setDirty(false)
	v.setChangedOnDisk(false)
}

func (v *ViewModel) reload() {
	if v.path == "" {
		return
	}
	if err := v.Load(v.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%s no longer exists", v.path)
		}
		v.RaiseException(err)
	}
}

func (v *ViewModel) chooseFolder() {
	folder, err := v.DialogProvider().BrowseForFolder(v.folder)
	if err != nil {
		v.RaiseException(err)
		return
	}
	if folder != "" {
		v.SetFolder(folder)
	}
}

func (v *ViewModel) about() {
	msg := fmt.Sprintf("%s\n%d characters, %d lines", v.Title(), len(v.text), strings.Count(v.text, "\n")+1)
	if err := v.DialogProvider().ShowMessageDialog("About this note", msg); err != nil {
		v.RaiseException(err)
	}
}

func (v *ViewModel) help() {
	if err := v.DialogProvider().ShowCustomDialog(HelpDialog, Properties); err != nil {
		v.RaiseException(err)
	}
}

func (v *ViewModel) insert(s string) {
	text := v.text
	if text != "" && !strings.HasSuffix(text, "\n") && strings.HasPrefix(s, "#") {
		text += "\n"
	}
	v.SetText(text + s)
}
