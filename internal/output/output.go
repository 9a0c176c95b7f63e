// Package output serializes HAR documents.
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/usestring/trace-har/pkg/har"
)

// ErrOutputExists is returned by WriteFile when the target exists and
// overwriting was not requested.
var ErrOutputExists = errors.New("output already exists")

// Options controls serialization.
type Options struct {
	Pretty    bool // two-space indentation
	ASCII     bool // escape every non-ASCII rune as \uXXXX
	Overwrite bool // WriteFile only
}

// Marshal encodes doc according to opts. The result always ends in a newline.
func Marshal(doc *har.Document, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if opts.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding HAR: %w", err)
	}
	if !opts.ASCII {
		return buf.Bytes(), nil
	}
	return escapeNonASCII(buf.Bytes()), nil
}

// Write encodes doc to w.
func Write(w io.Writer, doc *har.Document, opts Options) error {
	data, err := Marshal(doc, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile encodes doc to path. Unless opts.Overwrite is set, an existing
// file is left untouched and ErrOutputExists is returned.
func WriteFile(path string, doc *har.Document, opts Options) error {
	data, err := Marshal(doc, opts)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !opts.Overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrOutputExists, path)
		}
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// escapeNonASCII rewrites runes outside ASCII as JSON \u escapes, using
// surrogate pairs above the BMP. Encoded JSON only carries such runes inside
// string literals, so the rewrite is always valid.
func escapeNonASCII(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r < utf8.RuneSelf {
			out = append(out, byte(r))
			continue
		}
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			out = fmt.Appendf(out, `\u%04x\u%04x`, hi, lo)
			continue
		}
		out = fmt.Appendf(out, `\u%04x`, r)
	}
	return out
}
