package utils

import (
	"bytes"

	"github.com/mogaika/disc_patcher/config"

	"golang.org/x/text/transform"
)

const SECTOR_SIZE = 0x800

func GetRequiredSectorsCount(size int64) int64 {
	return (size + SECTOR_SIZE - 1) / SECTOR_SIZE
}

func BytesToString(bs []byte) string {
	n := bytes.IndexByte(bs, 0)
	if n < 0 {
		n = len(bs)
	}

	s, _, err := transform.Bytes(config.GetEncoding().NewDecoder(), bs[0:n])
	if err != nil {
		panic(err)
	}

	return string(s)
}

func BytesStringLength(bs []byte) int {
	if l := bytes.IndexByte(bs, 0); l == -1 {
		return len(bs)
	} else {
		return l
	}
}

// StringToFixedBytes encodes string into buffer of bufSize,
// string is truncated if it do not fit, and always padded with zeroes
func StringToFixedBytes(s string, bufSize int) []byte {
	bs := StringToBytes(s, false)
	r := make([]byte, bufSize)
	copy(r, bs)
	return r
}

func StringToBytes(s string, nilTerminate bool) []byte {
	bs, _, err := transform.Bytes(config.GetEncoding().NewEncoder(), []byte(s))
	if err != nil {
		panic(err)
	}

	if nilTerminate {
		bs = append(bs, 0)
	}
	return bs
}
