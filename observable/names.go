package observable

import (
	"fmt"
	"reflect"
)

// CheckNames reports an error for every name that is neither an exported
// method nor an exported field of v. View-models keep their property
// identifiers as string constants and assert them in tests with
// CheckNames, so a rename cannot leave a stale identifier behind.
func CheckNames(v any, names ...string) error {
	if v == nil {
		return fmt.Errorf("%w: nil value", ErrInvalidProperty)
	}
	t := reflect.TypeOf(v)
	var missing []string
	for _, n := range names {
		if err := validName(n); err != nil {
			return err
		}
		if !hasMember(t, n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s has no property %v", ErrInvalidProperty, t, missing)
	}
	return nil
}

func hasMember(t reflect.Type, name string) bool {
	if _, ok := t.MethodByName(name); ok {
		return true
	}
	if t.Kind() == reflect.Pointer {
		if _, ok := t.Elem().MethodByName(name); ok {
			return true
		}
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	f, ok := t.FieldByName(name)
	return ok && f.IsExported()
}
