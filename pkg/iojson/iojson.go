// iojson are utilities for reading and writing JSON IO from a
// command line interface perspective
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// Error is the standard error format type that is returned when errors
// happen.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func jsonError(msg string, jsonErr error) string {
	bits, _ := json.Marshal(Error{
		Message: msg,
		Data:    map[string]any{"json_error": jsonErr.Error()},
	})
	return string(bits)
}

// Marshal indents obj the way every JSON output of the CLI is formatted.
func Marshal(obj any) ([]byte, error) {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return bits, nil
}

// WriteWith writes obj to w as indented JSON followed by a newline. A value
// that cannot be marshaled is reported to ew as an Error object and the
// error is returned.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := Marshal(obj)
	if err != nil {
		_, _ = fmt.Fprintln(ew, jsonError("error marshaling output", err))
		return err
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}
