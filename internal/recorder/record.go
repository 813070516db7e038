package recorder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
)

const (
	recordVersion    uint16 = 1
	recordHeaderSize        = 12
	checksumSize            = 4
)

var (
	recordMagic = [4]byte{'T', 'K', 'J', '1'}
	crcTable    = crc32.MakeTable(crc32.Castagnoli)
)

var (
	ErrInvalidMagic      = errors.New("tick journal: invalid magic")
	ErrUnsupportedRecord = errors.New("tick journal: unsupported record version")
	ErrChecksumMismatch  = errors.New("tick journal: checksum mismatch")
	ErrTruncatedRecord   = errors.New("tick journal: truncated record")
)

func encodeHeader(dst []byte, payloadLen int) {
	_ = dst[recordHeaderSize-1]
	copy(dst[0:4], recordMagic[:])
	binary.LittleEndian.PutUint16(dst[4:6], recordVersion)
	binary.LittleEndian.PutUint16(dst[6:8], uint16(recordHeaderSize))
	binary.LittleEndian.PutUint32(dst[8:12], uint32(payloadLen))
}

func decodeHeader(src []byte) (payloadLen int, err error) {
	if len(src) < recordHeaderSize {
		return 0, ErrTruncatedRecord
	}
	if !bytes.Equal(src[0:4], recordMagic[:]) {
		return 0, ErrInvalidMagic
	}
	if binary.LittleEndian.Uint16(src[4:6]) != recordVersion {
		return 0, ErrUnsupportedRecord
	}
	if binary.LittleEndian.Uint16(src[6:8]) != recordHeaderSize {
		return 0, ErrTruncatedRecord
	}
	return int(binary.LittleEndian.Uint32(src[8:12])), nil
}

func checksum(header, payload []byte) uint32 {
	crc := crc32.Update(0, crcTable, header)
	return crc32.Update(crc, crcTable, payload)
}
