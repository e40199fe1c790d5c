package dialog

import (
	"fmt"
	"strings"
)

// Filter is one entry of a file picker's type list.
type Filter struct {
	Description string
	Patterns    []string
}

// ParseFilter parses "Description|glob[;glob]|Description|glob...". An empty
// pattern parses as AllFiles.
func ParseFilter(pattern string) ([]Filter, error) {
	if strings.TrimSpace(pattern) == "" {
		pattern = AllFiles
	}
	parts := strings.Split(pattern, "|")
	if len(parts)%2 != 0 {
		return nil, fmt.Errorf("%w: %q has an odd number of segments", ErrInvalidFilter, pattern)
	}

	filters := make([]Filter, 0, len(parts)/2)
	for i := 0; i < len(parts); i += 2 {
		desc := strings.TrimSpace(parts[i])
		var globs []string
		for _, g := range strings.Split(parts[i+1], ";") {
			if g = strings.TrimSpace(g); g != "" {
				globs = append(globs, g)
			}
		}
		if len(globs) == 0 {
			return nil, fmt.Errorf("%w: %q has no pattern for %q", ErrInvalidFilter, pattern, desc)
		}
		if desc == "" {
			desc = strings.Join(globs, ";")
		}
		filters = append(filters, Filter{Description: desc, Patterns: globs})
	}
	return filters, nil
}

// String formats f back into the "Description|glob;glob" form.
func (f Filter) String() string {
	return f.Description + "|" + strings.Join(f.Patterns, ";")
}
