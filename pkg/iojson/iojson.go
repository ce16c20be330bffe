// Package iojson writes command results as indented JSON for the
// machine-readable output modes of the CLI.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// Error is the JSON shape of a failed command.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// fallback builds the error document by hand when marshaling itself failed,
// which indicates a bug rather than bad input.
func fallback(msg string, err error) string {
	msgBytes, _ := json.Marshal(msg)
	errBytes, _ := json.Marshal(err.Error())
	return fmt.Sprintf(`{"message":%s,"data":{"json_error":%s}}`, msgBytes, errBytes)
}

// Write encodes v to w, indented, without HTML escaping so rendered lines
// keep characters like '<' and '&' as written.
func Write(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		_, werr := fmt.Fprintln(w, fallback("encode output", err))
		if werr != nil {
			return werr
		}
		return err
	}
	return nil
}

// WriteError writes msg and data as an Error document.
func WriteError(w io.Writer, msg string, data map[string]any) error {
	return Write(w, Error{Message: msg, Data: data})
}
