package dialog

import "sync"

// CustomDialog is an application-specific dialog registered by key.
type CustomDialog func(args ...any) (any, error)

// Registry maps keys to custom dialogs. The zero value is ready to use.
type Registry struct {
	mu      sync.RWMutex
	dialogs map[string]CustomDialog
}

// Register adds or replaces the dialog for key.
func (r *Registry) Register(key string, d CustomDialog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dialogs == nil {
		r.dialogs = make(map[string]CustomDialog)
	}
	r.dialogs[key] = d
}

// Unregister removes the dialog for key.
func (r *Registry) Unregister(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.dialogs, key)
}

// Lookup returns the dialog for key.
func (r *Registry) Lookup(key string) (CustomDialog, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.dialogs[key]
	return d, ok
}

// copyTo registers every dialog of r in dst, replacing entries with the
// same key.
func (r *Registry) copyTo(dst *Registry) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for k, d := range r.dialogs {
		dst.Register(k, d)
	}
}
