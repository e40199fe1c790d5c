// Package dialog lets view-models ask the user for folders, files and
// confirmations without importing the UI framework.
//
// View-models depend on Provider only. The Default provider turns each
// call into a request on a Native backend; NewWails supplies the backend
// for Wails desktop apps and dialogtest supplies scripted ones for tests.
//
// All browse operations return the empty string with a nil error when the
// user cancels.
package dialog

import (
	"errors"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("presentation/dialog")

// AllFiles is the filter used when a browse call passes an empty pattern.
const AllFiles = "All Files|*.*"

var (
	// ErrInvalidFilter is returned for a malformed file pattern.
	ErrInvalidFilter = errors.New("invalid file filter")
	// ErrResultType is returned by OpenCustom when a custom dialog
	// produced a value of another type than requested.
	ErrResultType = errors.New("custom dialog result has wrong type")
	// ErrNoRuntime is returned by the Wails backend before the
	// application context is available.
	ErrNoRuntime = errors.New("dialog runtime not available")
)

// Provider is what a view-model uses to talk to the user.
type Provider interface {
	// BrowseForFolder shows a folder picker starting at startingFolder.
	BrowseForFolder(startingFolder string) (string, error)
	// BrowseForOpenFile shows an open-file picker filtered by filePattern.
	BrowseForOpenFile(filePattern string) (string, error)
	// BrowseForSaveFile shows a save-file picker filtered by filePattern
	// with suggestedName prefilled.
	BrowseForSaveFile(filePattern, suggestedName string) (string, error)
	// ShowMessageDialog shows a modal message and returns once it is closed.
	ShowMessageDialog(title, message string) error
	// ShowCustomDialog runs the custom dialog registered under key and
	// discards its result. Unknown keys do nothing.
	ShowCustomDialog(key string, args ...any) error
	// OpenCustomDialog runs the custom dialog registered under key and
	// returns its result, or nil for unknown keys.
	OpenCustomDialog(key string, args ...any) (any, error)
}

// OpenCustom runs a custom dialog and returns its result as a T. Unknown
// keys and nil results give the zero T.
func OpenCustom[T any](p Provider, key string, args ...any) (T, error) {
	var zero T
	res, err := p.OpenCustomDialog(key, args...)
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	v, ok := res.(T)
	if !ok {
		return zero, &ResultTypeError{Key: key, Got: res, Want: zero}
	}
	return v, nil
}
