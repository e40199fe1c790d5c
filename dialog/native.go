package dialog

// Native is the operating environment's dialog implementation. Each
// method blocks until the user answers and returns "" on cancel.
type Native interface {
	OpenDirectory(req DirectoryRequest) (string, error)
	OpenFile(req FileRequest) (string, error)
	SaveFile(req FileRequest) (string, error)
	Message(req MessageRequest) error
}

// DirectoryRequest describes a folder picker.
type DirectoryRequest struct {
	Title            string
	DefaultDirectory string
}

// FileRequest describes an open or save file picker.
type FileRequest struct {
	Title            string
	DefaultDirectory string
	DefaultFilename  string
	Filters          []Filter
}

// MessageRequest describes a message box.
type MessageRequest struct {
	Title   string
	Message string
}
