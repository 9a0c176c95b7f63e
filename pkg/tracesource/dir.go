package tracesource

import (
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

type dirSource struct {
	root string
}

func newDirSource(root string) *dirSource {
	return &dirSource{root: root}
}

func (d *dirSource) Kind() Kind { return KindDir }

func (d *dirSource) path(name string) string {
	return filepath.Join(d.root, filepath.FromSlash(name))
}

func (d *dirSource) Has(name string) bool {
	if !validMember(name) {
		return false
	}
	_, err := os.Stat(d.path(name))
	return err == nil
}

func (d *dirSource) ReadBytes(name string) ([]byte, error) {
	if !validMember(name) {
		return nil, missing(name)
	}
	data, err := os.ReadFile(d.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, missing(name)
		}
		return nil, &MemberError{Member: name, Err: err}
	}
	return data, nil
}

func (d *dirSource) ReadText(name string) (string, error) {
	data, err := d.ReadBytes(name)
	if err != nil {
		return "", err
	}
	return decodeText(name, data)
}

func (d *dirSource) Lines(name string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if !validMember(name) {
			yield("", missing(name))
			return
		}
		f, err := os.Open(d.path(name))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				err = missing(name)
			} else {
				err = &MemberError{Member: name, Err: err}
			}
			yield("", err)
			return
		}
		defer f.Close()

		scanLines(name, f, yield)
	}
}

func (d *dirSource) Close() error { return nil }
