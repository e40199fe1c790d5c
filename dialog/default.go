package dialog

import (
	"os"
	"path/filepath"
)

// Titles are the window titles used for the standard pickers.
type Titles struct {
	Folder   string
	OpenFile string
	SaveFile string
}

// DefaultTitles are used when no Titles option is given.
var DefaultTitles = Titles{
	Folder:   "Choose folder",
	OpenFile: "Open file",
	SaveFile: "Save file",
}

// Default is the standard Provider. It forwards to a Native backend and
// resolves custom dialogs through a Registry.
type Default struct {
	native   Native
	titles   Titles
	startDir string
	custom   *Registry
}

var _ Provider = (*Default)(nil)

// Option configures a Default provider.
type Option func(*Default)

// WithTitles overrides picker titles. Empty fields keep the default.
func WithTitles(t Titles) Option {
	return func(d *Default) {
		if t.Folder != "" {
			d.titles.Folder = t.Folder
		}
		if t.OpenFile != "" {
			d.titles.OpenFile = t.OpenFile
		}
		if t.SaveFile != "" {
			d.titles.SaveFile = t.SaveFile
		}
	}
}

// WithStartDirectory sets the directory file pickers open in.
func WithStartDirectory(dir string) Option {
	return func(d *Default) { d.startDir = dir }
}

// WithRegistry shares an existing custom dialog registry. Dialogs added
// by earlier WithCustom options are registered in r as well.
func WithRegistry(r *Registry) Option {
	return func(d *Default) {
		if r == nil || r == d.custom {
			return
		}
		d.custom.copyTo(r)
		d.custom = r
	}
}

// WithCustom registers one custom dialog.
func WithCustom(key string, cd CustomDialog) Option {
	return func(d *Default) { d.custom.Register(key, cd) }
}

// New returns a Default provider backed by native.
func New(native Native, opts ...Option) *Default {
	d := &Default{
		native: native,
		titles: DefaultTitles,
		custom: &Registry{},
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Registry returns the custom dialog registry.
func (d *Default) Registry() *Registry {
	return d.custom
}

// BrowseForFolder shows a folder picker. If the backend hands back a file
// path, the file's directory is returned.
func (d *Default) BrowseForFolder(startingFolder string) (string, error) {
	path, err := d.native.OpenDirectory(DirectoryRequest{
		Title:            d.titles.Folder,
		DefaultDirectory: startingFolder,
	})
	if err != nil {
		return "", err
	}
	if path == "" {
		log.Debugf("browse folder: cancelled")
		return "", nil
	}
	if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
		path = filepath.Dir(path)
	}
	return path, nil
}

// BrowseForOpenFile shows an open-file picker.
func (d *Default) BrowseForOpenFile(filePattern string) (string, error) {
	filters, err := ParseFilter(filePattern)
	if err != nil {
		return "", err
	}
	return d.native.OpenFile(FileRequest{
		Title:            d.titles.OpenFile,
		DefaultDirectory: d.startDir,
		Filters:          filters,
	})
}

// BrowseForSaveFile shows a save-file picker.
func (d *Default) BrowseForSaveFile(filePattern, suggestedName string) (string, error) {
	filters, err := ParseFilter(filePattern)
	if err != nil {
		return "", err
	}
	dir := d.startDir
	if filepath.IsAbs(suggestedName) {
		dir, suggestedName = filepath.Split(suggestedName)
	}
	return d.native.SaveFile(FileRequest{
		Title:            d.titles.SaveFile,
		DefaultDirectory: dir,
		DefaultFilename:  suggestedName,
		Filters:          filters,
	})
}

// ShowMessageDialog shows a modal message box.
func (d *Default) ShowMessageDialog(title, message string) error {
	return d.native.Message(MessageRequest{Title: title, Message: message})
}

// ShowCustomDialog runs the custom dialog for key, ignoring its result.
func (d *Default) ShowCustomDialog(key string, args ...any) error {
	_, err := d.OpenCustomDialog(key, args...)
	return err
}

// OpenCustomDialog runs the custom dialog for key. Without a registered
// dialog it returns nil, nil.
func (d *Default) OpenCustomDialog(key string, args ...any) (any, error) {
	cd, ok := d.custom.Lookup(key)
	if !ok {
		log.Debugf("custom dialog %q: not registered", key)
		return nil, nil
	}
	return cd(args...)
}
