// If you are AI: This file implements length-delimited framing around wire payloads.
// Frames carry a 4-byte big-endian length followed by that many payload bytes.

package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxFrameSize bounds a single frame. Anything larger means the byte stream
// is desynchronized and the connection cannot be recovered.
const MaxFrameSize = 16 << 20

// Reader reads framed messages from a byte stream.
//
// Transport errors (short reads, oversized frames, peer close) are terminal
// and returned as-is. A frame whose payload fails to decode returns
// ErrMalformedPayload; the stream stays aligned and the caller may read on.
type Reader struct {
	r      io.Reader
	header [4]byte
}

// NewReader creates a framed message reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadMessage reads and decodes the next frame.
func (r *Reader) ReadMessage() (Message, error) {
	if _, err := io.ReadFull(r.r, r.header[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(r.header[:])
	if length > MaxFrameSize {
		return nil, fmt.Errorf("frame length %d exceeds limit %d", length, MaxFrameSize)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r.r, payload); err != nil {
		return nil, fmt.Errorf("read frame payload: %w", err)
	}

	return Decode(payload)
}

// Writer writes framed messages to a byte stream.
type Writer struct {
	w      io.Writer
	header [4]byte
}

// NewWriter creates a framed message writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteMessage encodes and writes one frame.
func (w *Writer) WriteMessage(msg Message) error {
	payload := Encode(msg)
	binary.BigEndian.PutUint32(w.header[:], uint32(len(payload)))
	if _, err := w.w.Write(w.header[:]); err != nil {
		return err
	}
	_, err := w.w.Write(payload)
	return err
}
