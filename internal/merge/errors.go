package merge

import "fmt"

// PreconditionError is returned when a table cannot be merged in its current
// state. It is raised before the table is mutated.
type PreconditionError struct {
	Table   string
	Mode    Mode
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot merge table %q in %s mode: %s", e.Table, e.Mode, e.Message)
}

// ConfigurationError is returned when the schemas or options of a merge do
// not fit together, such as a key column the incoming table lacks.
type ConfigurationError struct {
	Table   string
	Column  string
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("table %q", e.Table)
	if e.Column != "" {
		msg += fmt.Sprintf(", column %q", e.Column)
	}
	msg += ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
