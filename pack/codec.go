package pack

import (
	"bytes"
	"encoding/binary"
	"io"
	"io/ioutil"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

// Compressed body is u32 decompressed size followed by zlib stream

// largest resource in retail discs is below 2 MiB
const MAX_DECOMPRESSED_SIZE = 64 << 20

func Decompress(body []byte) ([]byte, error) {
	if len(body) < 4 {
		return nil, errors.Errorf("[pack] Compressed body too small: %d", len(body))
	}
	size := binary.BigEndian.Uint32(body)
	if size > MAX_DECOMPRESSED_SIZE {
		return nil, errors.Errorf("[pack] Decompressed size 0x%x exceeds limit 0x%x", size, MAX_DECOMPRESSED_SIZE)
	}

	zr, err := zlib.NewReader(bytes.NewReader(body[4:]))
	if err != nil {
		return nil, errors.Wrapf(err, "[pack] zlib header")
	}
	defer zr.Close()

	// header size is not trusted for allocation, buffer grows with real stream
	result, err := ioutil.ReadAll(io.LimitReader(zr, int64(size)+1))
	if err != nil {
		return nil, errors.Wrapf(err, "[pack] zlib stream, want 0x%x bytes", size)
	}
	if len(result) != int(size) {
		return nil, errors.Errorf("[pack] zlib stream has 0x%x bytes, want 0x%x", len(result), size)
	}
	return result, nil
}

func Compress(data []byte) ([]byte, error) {
	var b bytes.Buffer
	var sizeBuf [4]byte
	binary.BigEndian.PutUint32(sizeBuf[:], uint32(len(data)))
	b.Write(sizeBuf[:])

	zw, err := zlib.NewWriterLevel(&b, zlib.BestCompression)
	if err != nil {
		return nil, errors.Wrapf(err, "[pack] zlib writer")
	}
	if _, err := zw.Write(data); err != nil {
		return nil, errors.Wrapf(err, "[pack] zlib write")
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrapf(err, "[pack] zlib close")
	}
	return b.Bytes(), nil
}
