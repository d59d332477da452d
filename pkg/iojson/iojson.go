// Package iojson reads and writes the JSON forms of command input and
// output: --json listings, -f input files, and error objects.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// Error is the object written in place of a value that failed to encode.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// MarshalError renders an Error as indented JSON. If data itself cannot be
// encoded the result still is valid JSON, carrying the encoder error
// under data.json_error.
func MarshalError(msg string, data map[string]any) string {
	bits, err := json.MarshalIndent(Error{Message: msg, Data: data}, "", "  ")
	if err == nil {
		return string(bits)
	}

	fallback, _ := json.Marshal(Error{
		Message: msg,
		Data:    map[string]any{"json_error": err.Error()},
	})
	return string(fallback)
}

// WriteWith writes obj as indented JSON to w. When obj cannot be encoded an
// Error object goes to ew instead.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		_, werr := fmt.Fprintln(ew, MarshalError("encode output", map[string]any{"json_error": err.Error()}))
		return werr
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteLine writes obj as a single line of JSON, for JSON Lines output.
func WriteLine(w io.Writer, obj any) error {
	bits, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	_, err = fmt.Fprintln(w, string(bits))
	return err
}
