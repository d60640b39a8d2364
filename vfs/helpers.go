package vfs

import (
	"bytes"
	"io"
	"io/ioutil"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

func OpenFileAndGetReader(f File, readonly bool) (*io.SectionReader, error) {
	if err := f.Open(readonly); err != nil {
		return nil, errors.Wrapf(err, "Cannot open file '%s'", f.Name())
	} else {
		if r, err := f.Reader(); err != nil {
			defer f.Close()
			return nil, errors.Wrapf(err, "Cannot get file '%s' reader", f.Name())
		} else {
			return r, err
		}
	}
}

func OpenFileAndCopy(f File, src io.Reader) error {
	if err := f.Open(false); err != nil {
		return errors.Wrapf(err, "Cannot open file '%s'", f.Name())
	} else {
		defer f.Close()
		if err := f.Copy(src); err != nil {
			return errors.Wrapf(err, "Cannot copy data to file '%s'", f.Name())
		} else {
			return nil
		}
	}
}

func DirectoryGetFile(d Directory, name string) (File, error) {
	if f, err := d.GetElement(name); err != nil {
		return nil, errors.Wrapf(err, "Cannot open file '%s'", name)
	} else if f.IsDirectory() {
		return nil, errors.Errorf("File '%s' is directory, not a file!", name)
	} else {
		return f.(File), nil
	}
}

// Lookup resolves slash separated path relative to d
func Lookup(d Directory, p string) (Element, error) {
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "" {
		return d, nil
	}
	parts := strings.Split(p, "/")
	var cur Element = d
	for i, part := range parts {
		dir, ok := cur.(Directory)
		if !ok {
			return nil, errors.Errorf("'%s' is not a directory", strings.Join(parts[:i], "/"))
		}
		e, err := dir.GetElement(part)
		if err != nil {
			return nil, errors.Wrapf(err, "Cannot get '%s'", strings.Join(parts[:i+1], "/"))
		}
		cur = e
	}
	return cur, nil
}

func ReadFile(d Directory, p string) ([]byte, error) {
	e, err := Lookup(d, p)
	if err != nil {
		return nil, err
	}
	f, ok := e.(File)
	if !ok || e.IsDirectory() {
		return nil, errors.Errorf("File '%s' is directory, not a file!", p)
	}
	r, err := OpenFileAndGetReader(f, true)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read '%s'", p)
	}
	return data, nil
}

// MkdirAll returns directory at p, creating missing parts
func MkdirAll(d Directory, p string) (Directory, error) {
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "" {
		return d, nil
	}
	cur := d
	for _, part := range strings.Split(p, "/") {
		e, err := cur.GetElement(part)
		if err != nil {
			if err := cur.Add(newDirectoryLike(cur, part)); err != nil {
				return nil, errors.Wrapf(err, "Cannot create directory '%s'", part)
			}
			if e, err = cur.GetElement(part); err != nil {
				return nil, errors.Wrapf(err, "Cannot get created directory '%s'", part)
			}
		}
		next, ok := e.(Directory)
		if !ok {
			return nil, errors.Errorf("'%s' is not a directory", part)
		}
		cur = next
	}
	return cur, nil
}

// WriteFile creates or truncates file at p with data
func WriteFile(d Directory, p string, data []byte) error {
	dir, err := MkdirAll(d, path.Dir(strings.Trim(path.Clean("/"+p), "/")))
	if err != nil {
		return err
	}
	name := path.Base(p)
	if _, err := dir.GetElement(name); err != nil {
		if err := dir.Add(newFileLike(dir, name)); err != nil {
			return errors.Wrapf(err, "Cannot create file '%s'", p)
		}
	}
	f, err := DirectoryGetFile(dir, name)
	if err != nil {
		return err
	}
	return OpenFileAndCopy(f, bytes.NewReader(data))
}

// Walk lists every file below d as slash separated path, sorted
func Walk(d Directory) ([]string, error) {
	result := make([]string, 0, 64)
	var walk func(d Directory, prefix string) error
	walk = func(d Directory, prefix string) error {
		names, err := d.List()
		if err != nil {
			return err
		}
		for _, name := range names {
			e, err := d.GetElement(name)
			if err != nil {
				return err
			}
			if sub, ok := e.(Directory); ok && e.IsDirectory() {
				if err := walk(sub, prefix+name+"/"); err != nil {
					return err
				}
			} else {
				result = append(result, prefix+name)
			}
		}
		return nil
	}
	if err := walk(d, ""); err != nil {
		return nil, err
	}
	sort.Strings(result)
	return result, nil
}

func newDirectoryLike(parent Directory, name string) Element {
	switch p := parent.(type) {
	case *DirectoryDriver:
		return NewDirectoryDriver(path.Join(p.Path(), name))
	default:
		return NewMemoryDirectory(name)
	}
}

func newFileLike(parent Directory, name string) Element {
	switch p := parent.(type) {
	case *DirectoryDriver:
		return NewDirectoryDriverFile(path.Join(p.Path(), name))
	default:
		return NewMemoryFile(name, nil)
	}
}
