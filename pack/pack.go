package pack

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/disc_patcher/utils"
	"github.com/mogaika/disc_patcher/vfs"
)

type FileLoader func(src utils.ResourceSource, r *io.SectionReader) (interface{}, error)

var gHandlers map[string]FileLoader = make(map[string]FileLoader, 0)

func SetHandler(format string, ldr FileLoader) {
	gHandlers[strings.ToUpper(format)] = ldr
}

func CallHandler(s utils.ResourceSource, r *io.SectionReader) (interface{}, error) {
	ext := strings.ToUpper(filepath.Ext(s.Name()))

	if h, found := gHandlers[ext]; found {
		return h(s, r)
	} else {
		return nil, errors.Errorf("[pack] Cannot find handler for '%s' extension", ext)
	}
}

type PackResSrc struct {
	pf vfs.File
}

func (s *PackResSrc) Name() string {
	return s.pf.Name()
}

func GetInstanceHandler(d vfs.Directory, fileName string) (interface{}, error) {
	e, err := vfs.Lookup(d, fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "[pack] Cannot get file '%s'", fileName)
	}
	f, ok := e.(vfs.File)
	if !ok || e.IsDirectory() {
		return nil, errors.Errorf("[pack] '%s' is not a file", fileName)
	}

	r, err := vfs.OpenFileAndGetReader(f, true)
	if err != nil {
		return nil, errors.Wrapf(err, "[pack] Cannot get instance of '%s'", fileName)
	}
	defer f.Close()

	inst, err := CallHandler(&PackResSrc{pf: f}, r)
	if err != nil {
		return nil, errors.Wrapf(err, "[pack] Handler error")
	}

	return inst, nil
}
