// If you are AI: This file implements a streaming parser for MJPEG multipart bodies.
// Used by the pull relay, the HTTP publish endpoint and the round-trip tests.

package mjpeg

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// delimiter separates a part's payload from the next part's boundary line.
var delimiter = append(append([]byte{}, partTrailer...), []byte("--"+Boundary)...)

// ErrBadPart marks a body chunk that does not follow the part framing.
var ErrBadPart = errors.New("malformed multipart part")

// StreamReader incrementally parses JPEG payloads out of a
// multipart/x-mixed-replace body.
type StreamReader struct {
	r   io.Reader
	buf bytes.Buffer
	eof bool
}

// NewStreamReader creates a parser over a multipart body.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{r: r}
}

// ReadPart returns the next JPEG payload.
// Returns io.EOF after the final part has been consumed.
func (s *StreamReader) ReadPart() ([]byte, error) {
	header, err := s.readThrough(partHeader)
	if err != nil {
		return nil, err
	}
	// Anything before the part header is stray bytes between parts.
	if trimmed := bytes.TrimLeft(header[:len(header)-len(partHeader)], "\r\n"); len(trimmed) != 0 {
		return nil, fmt.Errorf("%w: %d stray bytes before part header", ErrBadPart, len(trimmed))
	}

	for {
		if idx := bytes.Index(s.buf.Bytes(), delimiter); idx >= 0 {
			payload := make([]byte, idx)
			copy(payload, s.buf.Bytes()[:idx])
			// Consume the payload and the trailer, keep the boundary of the
			// next part in the buffer.
			s.buf.Next(idx + len(partTrailer))
			return payload, nil
		}
		if s.eof {
			// Final part: terminated by the trailer at the end of the stream.
			data := s.buf.Bytes()
			if bytes.HasSuffix(data, partTrailer) {
				payload := make([]byte, len(data)-len(partTrailer))
				copy(payload, data[:len(payload)])
				s.buf.Reset()
				return payload, nil
			}
			return nil, fmt.Errorf("%w: stream ended inside a part", ErrBadPart)
		}
		if err := s.fill(); err != nil {
			return nil, err
		}
	}
}

// readThrough fills the buffer until marker is present and consumes
// everything up to and including it.
func (s *StreamReader) readThrough(marker []byte) ([]byte, error) {
	for {
		if idx := bytes.Index(s.buf.Bytes(), marker); idx >= 0 {
			consumed := make([]byte, idx+len(marker))
			copy(consumed, s.buf.Bytes()[:idx+len(marker)])
			s.buf.Next(idx + len(marker))
			return consumed, nil
		}
		if s.eof {
			if s.buf.Len() == 0 {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("%w: stream ended before part header", ErrBadPart)
		}
		if err := s.fill(); err != nil {
			return nil, err
		}
	}
}

func (s *StreamReader) fill() error {
	chunk := make([]byte, 32*1024)
	n, err := s.r.Read(chunk)
	if n > 0 {
		s.buf.Write(chunk[:n])
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		s.eof = true
		return nil
	default:
		return err
	}
}
