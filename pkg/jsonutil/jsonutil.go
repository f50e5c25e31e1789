// Package jsonutil wraps github.com/go-json-experiment/json for the JSON
// sidecar files.
//
// Usage:
//
//	data, err := jsonutil.MarshalIndent(v, "", "  ")
//	err = jsonutil.WriteFile("report.json", v)
package jsonutil

import (
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/raudyagdel/veracli/pkg/iohelper"
)

// Unmarshal parses the JSON-encoded data and stores the result in v.
func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Marshal returns the JSON encoding of v. Map keys are sorted.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v, json.Deterministic(true))
}

// MarshalIndent returns the indented JSON encoding of v.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	// go-json-experiment uses jsontext options for indentation
	return json.Marshal(v, json.Deterministic(true), jsontext.WithIndentPrefix(prefix), jsontext.WithIndent(indent))
}

// Encode writes the indented JSON encoding of v to w, followed by a newline.
func Encode(w io.Writer, v any) error {
	if err := json.MarshalWrite(w, v, json.Deterministic(true), jsontext.WithIndent("  ")); err != nil {
		return err
	}
	_, err := w.Write([]byte{'\n'})
	return err
}

// WriteFile atomically writes the indented JSON encoding of v to path.
func WriteFile(path string, v any) error {
	return iohelper.WriteAtomic(path, func(w io.Writer) error {
		return Encode(w, v)
	})
}

// Valid reports whether data is a valid JSON encoding.
func Valid(data []byte) bool {
	return jsontext.Value(data).IsValid()
}
