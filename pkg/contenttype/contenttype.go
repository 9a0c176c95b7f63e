// Package contenttype decides how HAR bodies are represented: as decoded text
// or as base64, based on the declared MIME type and its charset parameter.
package contenttype

import (
	"bytes"
	"encoding/base64"
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// EncodingBase64 is the HAR content.encoding value for binary bodies.
const EncodingBase64 = "base64"

// DefaultCharset is assumed when a text MIME type carries no charset.
const DefaultCharset = "utf-8"

// textSubstrings mark a non text/* media type as textual.
var textSubstrings = []string{
	"json",
	"javascript",
	"xml",
	"html",
	"x-www-form-urlencoded",
	"svg",
	"css",
}

// MediaType returns the lower-cased base type with parameters stripped.
// Uses mime.ParseMediaType and falls back to splitting on ';' for malformed values.
func MediaType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType, _, _ = strings.Cut(contentType, ";")
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// IsText reports whether bodies of this MIME type should be decoded as text.
// Returns false for empty content types.
func IsText(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return false
	}

	base := MediaType(contentType)
	if strings.HasPrefix(base, "text/") {
		return true
	}
	for _, s := range textSubstrings {
		if strings.Contains(base, s) {
			return true
		}
	}
	return false
}

// Charset returns the charset parameter of contentType, or "" if there is none.
func Charset(contentType string) string {
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		return strings.TrimSpace(params["charset"])
	}

	parts := strings.Split(contentType, ";")
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if len(part) > len("charset=") && strings.EqualFold(part[:len("charset=")], "charset=") {
			return strings.Trim(strings.TrimSpace(part[len("charset="):]), `"`)
		}
	}
	return ""
}

// Decode converts a body into its HAR representation. Text-like bodies that
// decode cleanly under their charset are returned as-is with an empty
// encoding; everything else is returned base64-encoded with EncodingBase64.
func Decode(data []byte, contentType string) (text, bodyEncoding string) {
	if IsText(contentType) {
		charset := Charset(contentType)
		if charset == "" {
			charset = DefaultCharset
		}
		if s, ok := decodeCharset(data, charset); ok {
			return s, ""
		}
	}
	return base64.StdEncoding.EncodeToString(data), EncodingBase64
}

// decodeCharset decodes data strictly. Unknown labels are treated as UTF-8.
func decodeCharset(data []byte, charset string) (string, bool) {
	label := normalizeLabel(charset)
	switch label {
	case "utf8":
		return string(data), utf8.Valid(data)
	case "ascii", "usascii":
		for _, b := range data {
			if b >= utf8.RuneSelf {
				return "", false
			}
		}
		return string(data), true
	case "utf16", "utf32":
		enc, body := bomEncoding(label, data)
		return decodeStrict(enc, body)
	}

	enc := lookupEncoding(charset, label)
	if enc == nil {
		return string(data), utf8.Valid(data)
	}
	return decodeStrict(enc, data)
}

// lookupEncoding resolves a charset label. ISO-8859-1 is kept distinct from
// windows-1252, which the WHATWG index aliases it to.
func lookupEncoding(charset, label string) encoding.Encoding {
	switch label {
	case "iso88591", "latin1", "l1", "iso885911987", "cp819", "ibm819":
		return charmap.ISO8859_1
	}
	if enc, err := ianaindex.IANA.Encoding(charset); err == nil && enc != nil {
		return enc
	}
	if enc, err := htmlindex.Get(charset); err == nil {
		return enc
	}
	return nil
}

// bomEncoding picks the byte order for the BOM-sniffing utf-16 and utf-32
// labels and strips the BOM. Without one, little-endian is assumed.
func bomEncoding(label string, data []byte) (encoding.Encoding, []byte) {
	if label == "utf32" {
		switch {
		case bytes.HasPrefix(data, []byte{0xFF, 0xFE, 0x00, 0x00}):
			return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), data[4:]
		case bytes.HasPrefix(data, []byte{0x00, 0x00, 0xFE, 0xFF}):
			return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), data[4:]
		}
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), data
	}

	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), data[2:]
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), data[2:]
	}
	return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), data
}

// decodeStrict decodes data with enc and fails on invalid input.
// x/text decoders substitute U+FFFD instead of failing, so output holding
// U+FFFD is accepted only when it encodes back to the original bytes.
func decodeStrict(enc encoding.Encoding, data []byte) (string, bool) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		back, err := enc.NewEncoder().Bytes(out)
		if err != nil || !bytes.Equal(back, data) {
			return "", false
		}
	}
	return string(out), true
}

func normalizeLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	return strings.NewReplacer("-", "", "_", "", ":", "").Replace(label)
}
