package main

import (
	"encoding/binary"
	"io/ioutil"
	"log"
	"path/filepath"
	"strings"

	"github.com/mogaika/udf"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mogaika/disc_patcher/utils"
	"github.com/mogaika/disc_patcher/vfs"
)

const (
	FILE_ENTRY_INFO_LENGTH_OFFSET  = 56
	FILE_ENTRY_ALLOC_DESCS_OFFSET  = 176
	ALLOC_DESC_EXTENT_LENGTH_FIELD = 0
)

func NewReplaceCmd() *cobra.Command {
	var isoPath string

	cmd := &cobra.Command{
		Use:   "replace [image/path=]local/file...",
		Short: "Replace files inside disc image in place",
		Long: `Overwrites files inside disc image. Target path defaults to base
name of local file in image root. New content must fit into sectors
already allocated for file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplace(isoPath, args)
		},
	}
	cmd.Flags().StringVar(&isoPath, "iso", "", "disc image file")
	_ = cmd.MarkFlagRequired("iso")
	return cmd
}

func runReplace(isoPath string, args []string) error {
	f := vfs.NewDirectoryDriverFile(isoPath)
	if err := f.Open(false); err != nil {
		return err
	}
	defer f.Close()

	iso, err := vfs.NewIsoDriver(f)
	if err != nil {
		return err
	}

	for _, arg := range args {
		target, local := filepath.Base(arg), arg
		if i := strings.IndexByte(arg, '='); i >= 0 {
			target, local = arg[:i], arg[i+1:]
		}
		data, err := ioutil.ReadFile(local)
		if err != nil {
			return errors.Wrapf(err, "Cannot read '%s'", local)
		}
		if err := replaceFile(f, iso, target, data); err != nil {
			return err
		}
	}
	return f.Sync()
}

func replaceFile(image vfs.File, iso *vfs.IsoDriver, target string, data []byte) error {
	e, err := vfs.Lookup(iso, target)
	if err != nil {
		return errors.Wrapf(err, "Cannot find '%s' in image", target)
	}
	isoFile, ok := e.(*vfs.IsoDriverFile)
	if !ok || e.IsDirectory() {
		return errors.Errorf("'%s' is not a file", target)
	}
	uf := isoFile.Udf()

	oldSize := uf.Size()
	newSize := int64(len(data))
	if utils.GetRequiredSectorsCount(newSize) > utils.GetRequiredSectorsCount(oldSize) {
		return errors.Errorf("'%s' grows from %d to %d sectors, image layout cannot hold it",
			target, utils.GetRequiredSectorsCount(oldSize), utils.GetRequiredSectorsCount(newSize))
	}

	filePos := fileStart(uf)
	log.Printf("[replace] File '%s' located at pos %v", target, filePos)
	if _, err := image.WriteAt(data, filePos); err != nil {
		return errors.Wrapf(err, "Cannot write '%s'", target)
	}

	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], uint32(newSize))
	for _, pos := range fileSizePositions(uf) {
		log.Printf("[replace] Updating file size in %v pos. From %v => %v", pos, oldSize, newSize)
		if _, err := image.WriteAt(size[:], pos); err != nil {
			return errors.Wrapf(err, "Cannot update size of '%s'", target)
		}
	}
	return nil
}

func fileStart(f *udf.File) int64 {
	return udf.SECTOR_SIZE * (int64(f.FileEntry().AllocationDescriptors[0].Location) + int64(f.Udf.PartitionStart()))
}

// fileSizePositions returns offsets of information length field of file entry
// and extent length of first allocation descriptor
func fileSizePositions(f *udf.File) []int64 {
	fePos := udf.SECTOR_SIZE * (int64(f.GetFileEntryPosition()) + int64(f.Udf.PartitionStart()))
	allocDescStart := fePos + FILE_ENTRY_ALLOC_DESCS_OFFSET + int64(f.FileEntry().LengthOfExtendedAttributes)
	return []int64{fePos + FILE_ENTRY_INFO_LENGTH_OFFSET, allocDescStart + ALLOC_DESC_EXTENT_LENGTH_FIELD}
}
