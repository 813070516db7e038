package recorder

import (
	"bufio"
	"encoding/binary"
	"os"
	"sync"

	"main/internal/codec"
	"main/internal/model"
)

// Writer journals canonical ticks to an append-only file. Records are
// crc32-framed so a torn tail is detectable on replay.
type Writer struct {
	mu     sync.Mutex
	file   *os.File
	w      *bufio.Writer
	buf    []byte
	closed bool
}

// NewWriter opens (or creates) the journal at path for appending.
func NewWriter(path string) (*Writer, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &Writer{
		file: file,
		w:    bufio.NewWriter(file),
		buf:  make([]byte, recordHeaderSize+codec.TickPayloadSize+checksumSize),
	}, nil
}

// Append writes one tick record.
func (w *Writer) Append(tick model.Tick) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return os.ErrClosed
	}

	payload := codec.EncodeTick(w.buf[recordHeaderSize:recordHeaderSize], tick)
	header := w.buf[:recordHeaderSize]
	encodeHeader(header, len(payload))

	crc := checksum(header, payload)
	record := w.buf[:recordHeaderSize+len(payload)+checksumSize]
	binary.LittleEndian.PutUint32(record[recordHeaderSize+len(payload):], crc)

	_, err := w.w.Write(record)
	return err
}

// Close flushes and releases the file. Idempotent.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.w.Flush(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}
