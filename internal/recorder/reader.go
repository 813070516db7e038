package recorder

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"main/internal/codec"
	"main/internal/model"
)

// Reader iterates the tick records of a journal file.
type Reader struct {
	file *os.File
	r    *bufio.Reader
}

// NewReader opens the journal at path.
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{file: file, r: bufio.NewReader(file)}, nil
}

// Next returns the next tick. io.EOF signals a clean end of journal; a torn
// trailing record surfaces as ErrTruncatedRecord.
func (r *Reader) Next() (model.Tick, error) {
	header := make([]byte, recordHeaderSize)
	if _, err := io.ReadFull(r.r, header); err != nil {
		if err == io.EOF {
			return model.Tick{}, io.EOF
		}
		return model.Tick{}, ErrTruncatedRecord
	}

	payloadLen, err := decodeHeader(header)
	if err != nil {
		return model.Tick{}, err
	}
	if payloadLen < codec.TickPayloadSize || payloadLen > codec.MaxPacketSize {
		return model.Tick{}, ErrTruncatedRecord
	}

	body := make([]byte, payloadLen+checksumSize)
	if _, err := io.ReadFull(r.r, body); err != nil {
		return model.Tick{}, ErrTruncatedRecord
	}

	payload := body[:payloadLen]
	want := binary.LittleEndian.Uint32(body[payloadLen:])
	if checksum(header, payload) != want {
		return model.Tick{}, ErrChecksumMismatch
	}

	tick, ok := codec.DecodeTick(payload)
	if !ok {
		return model.Tick{}, ErrTruncatedRecord
	}
	return tick, nil
}

// Close releases the file.
func (r *Reader) Close() error {
	return r.file.Close()
}
