package vfs

import (
	"bytes"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
)

// MemoryDirectory keeps whole tree in memory. Used to stage output and in tests.
type MemoryDirectory struct {
	name     string
	elements map[string]Element
}

func NewMemoryDirectory(name string) *MemoryDirectory {
	return &MemoryDirectory{name: name, elements: make(map[string]Element)}
}

func (md *MemoryDirectory) Init(parent Directory) {}
func (md *MemoryDirectory) Name() string          { return md.name }
func (md *MemoryDirectory) IsDirectory() bool     { return true }

func (md *MemoryDirectory) List() ([]string, error) {
	result := make([]string, 0, len(md.elements))
	for name := range md.elements {
		result = append(result, name)
	}
	sort.Strings(result)
	return result, nil
}

func (md *MemoryDirectory) GetElement(name string) (Element, error) {
	if e, ok := md.elements[name]; ok {
		return e, nil
	}
	return nil, os.ErrNotExist
}

func (md *MemoryDirectory) Add(e Element) error {
	if _, ok := md.elements[e.Name()]; ok {
		return errors.Errorf("Element '%s' already exists", e.Name())
	}
	if e.IsDirectory() {
		if _, ok := e.(*MemoryDirectory); !ok {
			e = NewMemoryDirectory(e.Name())
		}
	} else if _, ok := e.(*MemoryFile); !ok {
		e = NewMemoryFile(e.Name(), nil)
	}
	e.Init(md)
	md.elements[e.Name()] = e
	return nil
}

func (md *MemoryDirectory) Remove(name string) error {
	if _, ok := md.elements[name]; !ok {
		return os.ErrNotExist
	}
	delete(md.elements, name)
	return nil
}

type MemoryFile struct {
	name string
	data []byte
}

func NewMemoryFile(name string, data []byte) *MemoryFile {
	return &MemoryFile{name: name, data: data}
}

func (mf *MemoryFile) Init(parent Directory)    {}
func (mf *MemoryFile) Name() string             { return mf.name }
func (mf *MemoryFile) IsDirectory() bool        { return false }
func (mf *MemoryFile) Size() int64              { return int64(len(mf.data)) }
func (mf *MemoryFile) Open(readonly bool) error { return nil }
func (mf *MemoryFile) Close() error             { return nil }
func (mf *MemoryFile) Bytes() []byte            { return mf.data }

func (mf *MemoryFile) Reader() (*io.SectionReader, error) {
	return io.NewSectionReader(bytes.NewReader(mf.data), 0, int64(len(mf.data))), nil
}

func (mf *MemoryFile) ReadAt(b []byte, off int64) (n int, err error) {
	return bytes.NewReader(mf.data).ReadAt(b, off)
}

func (mf *MemoryFile) Copy(src io.Reader) error {
	var b bytes.Buffer
	if _, err := io.Copy(&b, src); err != nil {
		return err
	}
	mf.data = b.Bytes()
	return nil
}

func (mf *MemoryFile) WriteAt(b []byte, off int64) (n int, err error) {
	if end := int(off) + len(b); end > len(mf.data) {
		grown := make([]byte, end)
		copy(grown, mf.data)
		mf.data = grown
	}
	return copy(mf.data[off:], b), nil
}
