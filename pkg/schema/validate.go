package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Schema maps setting keys to their expected types.
type Schema map[string]Type

// ValidationError reports a single setting that failed validation.
type ValidationError struct {
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("setting %q: %s", e.Key, e.Message)
}

// AggregateError collects every validation failure in one settings bag.
type AggregateError struct {
	Errors []*ValidationError
}

func (e *AggregateError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d validation error(s): %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Validate checks a settings bag against the schema. Keys absent from the
// bag are not errors: node settings are optional and merged incrementally.
// Keys absent from the schema are rejected, catching typos in topology
// files. Returns nil or an *AggregateError with every failure.
func Validate(s Schema, settings map[string]any) error {
	var errs []*ValidationError

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		t, ok := s[key]
		if !ok {
			errs = append(errs, &ValidationError{Key: key, Message: "not declared in settings schema"})
			continue
		}
		if err := t.Validate(settings[key]); err != nil {
			errs = append(errs, &ValidationError{Key: key, Message: err.Error()})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
