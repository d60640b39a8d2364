package vfs

import (
	"bytes"
	"encoding/binary"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mogaika/udf"
	"github.com/pkg/errors"

	"github.com/mogaika/disc_patcher/utils"
)

// IsoDriver is read only view of udf disc image.
// Writes are allowed only when file size stays same.
type IsoDriver struct {
	f                File
	layers           [2]*udf.Udf
	secondLayerStart int64
}

func (iso *IsoDriver) Init(parent Directory) {}
func (iso *IsoDriver) Name() string          { return iso.f.Name() }
func (iso *IsoDriver) IsDirectory() bool     { return true }

func (iso *IsoDriver) List() ([]string, error) {
	result := make([]string, 0, 48)
	for _, layer := range iso.layers {
		if layer != nil {
			for _, f := range layer.ReadDir(nil) {
				result = append(result, f.Name())
			}
		}
	}
	return result, nil
}

func (iso *IsoDriver) GetElement(name string) (Element, error) {
	for _, layer := range iso.layers {
		if layer != nil {
			if e := iso.findIn(layer.ReadDir(nil), name); e != nil {
				return e, nil
			}
		}
	}
	return nil, os.ErrNotExist
}

func (iso *IsoDriver) findIn(dir []udf.File, name string) Element {
	for i := range dir {
		if strings.EqualFold(dir[i].Name(), name) {
			if dir[i].IsDir() {
				return &IsoDriverDirectory{iso: iso, f: dir[i]}
			}
			return &IsoDriverFile{iso: iso, f: dir[i]}
		}
	}
	return nil
}

func (iso *IsoDriver) Add(e Element) error {
	return errors.Errorf("[vfs] [iso] Cannot add '%s': image is read only", e.Name())
}
func (iso *IsoDriver) Remove(name string) error {
	return errors.Errorf("[vfs] [iso] Cannot remove '%s': image is read only", name)
}
func (iso *IsoDriver) Sync() error {
	if s, ok := iso.f.(Syncer); ok {
		return s.Sync()
	}
	return nil
}

func (iso *IsoDriver) OpenStreams() error {
	iso.layers[0] = udf.NewUdfFromReader(iso.f)

	var volSizeBuf [4]byte
	// primary volume description sector + offset of volume space size
	if _, err := iso.f.ReadAt(volSizeBuf[:], 0x10*2048+80); err != nil {
		log.Printf("[vfs] [iso] Error when detecting second layer: Read vol size buf error: %v", err)
	} else {
		// minus 16 boot sectors, because they do not replicated over layers (volumes)
		volumeSize := int64(binary.LittleEndian.Uint32(volSizeBuf[:])-16) * utils.SECTOR_SIZE
		if volumeSize+32*utils.SECTOR_SIZE < iso.f.Size() {
			iso.layers[1] = udf.NewUdfFromReader(io.NewSectionReader(iso.f, volumeSize, iso.f.Size()-volumeSize))
			log.Printf("[vfs] [iso] Detected second layer of disk. Start: %x (%x)", volumeSize+16*utils.SECTOR_SIZE, volumeSize)
			iso.secondLayerStart = volumeSize
		}
	}
	return nil
}

func NewIsoDriver(f File) (*IsoDriver, error) {
	iso := &IsoDriver{f: f}
	return iso, iso.OpenStreams()
}

// OpenIso opens image file at path as directory
func OpenIso(path string) (*IsoDriver, error) {
	f := NewDirectoryDriverFile(path)
	if err := f.Open(true); err != nil {
		return nil, errors.Wrapf(err, "[vfs] [iso] Cannot open image")
	}
	return NewIsoDriver(f)
}

type IsoDriverDirectory struct {
	iso *IsoDriver
	f   udf.File
}

func (d *IsoDriverDirectory) Init(parent Directory) {}
func (d *IsoDriverDirectory) Name() string          { return d.f.Name() }
func (d *IsoDriverDirectory) IsDirectory() bool     { return true }

func (d *IsoDriverDirectory) List() ([]string, error) {
	entries := d.f.ReadDir()
	result := make([]string, 0, len(entries))
	for _, f := range entries {
		result = append(result, f.Name())
	}
	return result, nil
}

func (d *IsoDriverDirectory) GetElement(name string) (Element, error) {
	if e := d.iso.findIn(d.f.ReadDir(), name); e != nil {
		return e, nil
	}
	return nil, os.ErrNotExist
}

func (d *IsoDriverDirectory) Add(e Element) error      { return d.iso.Add(e) }
func (d *IsoDriverDirectory) Remove(name string) error { return d.iso.Remove(name) }

type IsoDriverFile struct {
	iso *IsoDriver
	f   udf.File
}

func (f *IsoDriverFile) Init(parent Directory)    {}
func (f *IsoDriverFile) Name() string             { return f.f.Name() }
func (f *IsoDriverFile) IsDirectory() bool        { return f.f.IsDir() }
func (f *IsoDriverFile) Size() int64              { return f.f.Size() }
func (f *IsoDriverFile) Open(readonly bool) error { return nil }
func (f *IsoDriverFile) Close() error             { return nil }
func (f *IsoDriverFile) Reader() (*io.SectionReader, error) {
	return f.f.NewReader(), nil
}
func (f *IsoDriverFile) ReadAt(b []byte, off int64) (n int, err error) {
	return f.f.NewReader().ReadAt(b, off)
}
func (f *IsoDriverFile) Copy(src io.Reader) error {
	var b bytes.Buffer
	if _, err := io.Copy(&b, src); err != nil {
		return err
	}
	if int64(b.Len()) != f.Size() {
		return errors.Errorf("[vfs] [iso] Do not support file size changing")
	}
	_, err := f.iso.f.WriteAt(b.Bytes(), f.f.GetFileOffset())
	return err
}
func (f *IsoDriverFile) WriteAt(b []byte, off int64) (n int, err error) {
	if off+int64(len(b)) > f.Size() {
		return 0, errors.Errorf("[vfs] [iso] Do not support file size increasing")
	}
	return f.iso.f.WriteAt(b, f.f.GetFileOffset()+off)
}

// Udf exposes underlying entry for in-place replacement tools
func (f *IsoDriverFile) Udf() *udf.File {
	return &f.f
}
