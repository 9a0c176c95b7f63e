package tracesource

import (
	"archive/zip"
	"fmt"
	"io"
	"iter"
	"sync"
)

type zipSource struct {
	mu      sync.Mutex
	rc      *zip.ReadCloser
	members map[string]*zip.File
}

func openZipSource(p string) (*zipSource, error) {
	rc, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, p, err)
	}

	// Index by exact stored name; first occurrence wins for duplicates.
	members := make(map[string]*zip.File, len(rc.File))
	for _, f := range rc.File {
		if _, dup := members[f.Name]; !dup {
			members[f.Name] = f
		}
	}

	return &zipSource{rc: rc, members: members}, nil
}

func (z *zipSource) Kind() Kind { return KindZip }

func (z *zipSource) lookup(name string) (*zip.File, bool) {
	if !validMember(name) {
		return nil, false
	}
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.rc == nil {
		return nil, false
	}
	f, ok := z.members[name]
	return f, ok
}

func (z *zipSource) Has(name string) bool {
	_, ok := z.lookup(name)
	return ok
}

func (z *zipSource) open(name string) (io.ReadCloser, error) {
	f, ok := z.lookup(name)
	if !ok {
		return nil, missing(name)
	}
	r, err := f.Open()
	if err != nil {
		return nil, &MemberError{Member: name, Err: err}
	}
	return r, nil
}

func (z *zipSource) ReadBytes(name string) ([]byte, error) {
	r, err := z.open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &MemberError{Member: name, Err: err}
	}
	return data, nil
}

func (z *zipSource) ReadText(name string) (string, error) {
	data, err := z.ReadBytes(name)
	if err != nil {
		return "", err
	}
	return decodeText(name, data)
}

func (z *zipSource) Lines(name string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		r, err := z.open(name)
		if err != nil {
			yield("", err)
			return
		}
		defer r.Close()

		scanLines(name, r, yield)
	}
}

func (z *zipSource) Close() error {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.rc == nil {
		return nil
	}
	err := z.rc.Close()
	z.rc = nil
	z.members = nil
	return err
}
