package patcher

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/mogaika/disc_patcher/pack"
	"github.com/mogaika/disc_patcher/vfs"
)

// DiscFile is whole disc file loaded to memory for patching
type DiscFile struct {
	Path string
	Data []byte
}

// Disc caches archives and files touched by patches. Every cached
// entry is written to output, everything else is copied as is.
type Disc struct {
	Root vfs.Directory

	archives map[string]*pack.Archive
	files    map[string]*DiscFile
}

func NewDisc(root vfs.Directory) *Disc {
	return &Disc{
		Root:     root,
		archives: make(map[string]*pack.Archive),
		files:    make(map[string]*DiscFile),
	}
}

// Archive parses archive once, later calls return same instance
func (d *Disc) Archive(name string) (*pack.Archive, error) {
	if a, ok := d.archives[name]; ok {
		return a, nil
	}
	inst, err := pack.GetInstanceHandler(d.Root, name)
	if err != nil {
		return nil, errors.Wrapf(err, "[patcher] Cannot load archive '%s'", name)
	}
	a, ok := inst.(*pack.Archive)
	if !ok {
		return nil, errors.Errorf("[patcher] '%s' is not an archive", name)
	}
	a.Name = name
	d.archives[name] = a
	return a, nil
}

func (d *Disc) File(name string) (*DiscFile, error) {
	if f, ok := d.files[name]; ok {
		return f, nil
	}
	data, err := vfs.ReadFile(d.Root, name)
	if err != nil {
		return nil, errors.Wrapf(err, "[patcher] Cannot load '%s'", name)
	}
	f := &DiscFile{Path: name, Data: data}
	d.files[name] = f
	return f, nil
}

// AddFile places new file on disc or replaces cached one
func (d *Disc) AddFile(name string, data []byte) *DiscFile {
	f := &DiscFile{Path: name, Data: data}
	d.files[name] = f
	return f
}

func (d *Disc) ArchiveNames() []string {
	names := make([]string, 0, len(d.archives))
	for name := range d.archives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Disc) FileNames() []string {
	names := make([]string, 0, len(d.files))
	for name := range d.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Serialize encodes every cached archive and file. Disc is not
// touched, result is written by caller only if everything succeeded.
func (d *Disc) Serialize() (map[string][]byte, error) {
	result := make(map[string][]byte, len(d.archives)+len(d.files))
	for _, name := range d.ArchiveNames() {
		data, err := d.archives[name].Marshal()
		if err != nil {
			return nil, errors.Wrapf(err, "[patcher] Cannot serialize '%s'", name)
		}
		result[name] = data
	}
	for _, name := range d.FileNames() {
		if _, ok := result[name]; ok {
			return nil, errors.Errorf("[patcher] '%s' patched both as archive and as file", name)
		}
		result[name] = d.files[name].Data
	}
	return result, nil
}
