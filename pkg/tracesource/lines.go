package tracesource

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

// ErrInvalidText is returned by ReadText for members that are not valid UTF-8.
var ErrInvalidText = errors.New("member is not valid UTF-8")

func decodeText(name string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", &MemberError{Member: name, Err: ErrInvalidText}
	}
	return string(data), nil
}

// scanLines feeds yield one line at a time. Lines have no length limit.
func scanLines(name string, r io.Reader, yield func(string, error) bool) {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			if !yield(line, nil) {
				return
			}
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			yield("", &MemberError{Member: name, Err: err})
			return
		}
	}
}
