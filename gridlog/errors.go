package gridlog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnreadable is returned when an input cannot be parsed in its
	// declared format.
	ErrUnreadable = errors.New("input unreadable")

	// ErrMissingColumn matches any *MissingColumnsError.
	ErrMissingColumn = errors.New("missing required column")
)

// MissingColumnsError names the required columns an input lacks.
type MissingColumnsError struct {
	Input   string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	quoted := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		quoted[i] = fmt.Sprintf("'%s'", c)
	}
	return fmt.Sprintf("%s must contain %s column(s)", e.Input, strings.Join(quoted, ", "))
}

func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumn
}

func unreadable(input, name string, err error) error {
	return fmt.Errorf("%w: failed to read %s %q: %w", ErrUnreadable, input, name, err)
}
