// If you are AI: This file implements the binary codec for publisher payloads.
// The layout is fixed by the wire contract: u32 little-endian union tag,
// u64 little-endian length prefixes for strings and byte buffers.

package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrMalformedPayload marks a payload that could not be decoded.
// Malformed payloads are recoverable: the session drops them and reads on.
var ErrMalformedPayload = errors.New("malformed wire payload")

// Decode parses a payload into a message.
// Trailing bytes after a complete message are rejected as malformed.
func Decode(payload []byte) (Message, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("%w: payload shorter than tag", ErrMalformedPayload)
	}
	tag := binary.LittleEndian.Uint32(payload)
	rest := payload[4:]

	switch tag {
	case TagConnectRequest:
		name, rest, err := decodeString(rest)
		if err != nil {
			return nil, err
		}
		if len(rest) != 0 {
			return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedPayload, len(rest))
		}
		return &ConnectRequest{Name: name}, nil

	case TagFrameMessage:
		id, rest, err := decodeString(rest)
		if err != nil {
			return nil, err
		}
		data, rest, err := decodeBytes(rest)
		if err != nil {
			return nil, err
		}
		if len(rest) != 0 {
			return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedPayload, len(rest))
		}
		return &FrameMessage{ID: id, Data: data}, nil

	default:
		return nil, fmt.Errorf("%w: unknown tag %d", ErrMalformedPayload, tag)
	}
}

// Encode serializes a message into a payload (without the frame length prefix).
func Encode(msg Message) []byte {
	switch m := msg.(type) {
	case *ConnectRequest:
		buf := make([]byte, 0, 4+8+len(m.Name))
		buf = binary.LittleEndian.AppendUint32(buf, TagConnectRequest)
		buf = appendString(buf, m.Name)
		return buf
	case *FrameMessage:
		buf := make([]byte, 0, 4+8+len(m.ID)+8+len(m.Data))
		buf = binary.LittleEndian.AppendUint32(buf, TagFrameMessage)
		buf = appendString(buf, m.ID)
		buf = appendBytes(buf, m.Data)
		return buf
	default:
		// The union is closed; new cases must extend the codec.
		panic(fmt.Sprintf("wire: cannot encode %T", msg))
	}
}

func decodeBytes(buf []byte) (data []byte, rest []byte, err error) {
	if len(buf) < 8 {
		return nil, nil, fmt.Errorf("%w: truncated length prefix", ErrMalformedPayload)
	}
	length := binary.LittleEndian.Uint64(buf)
	buf = buf[8:]
	if length > uint64(len(buf)) {
		return nil, nil, fmt.Errorf("%w: length %d exceeds remaining %d bytes", ErrMalformedPayload, length, len(buf))
	}
	data = make([]byte, length)
	copy(data, buf[:length])
	return data, buf[length:], nil
}

func decodeString(buf []byte) (s string, rest []byte, err error) {
	data, rest, err := decodeBytes(buf)
	if err != nil {
		return "", nil, err
	}
	if !utf8.Valid(data) {
		return "", nil, fmt.Errorf("%w: string is not valid UTF-8", ErrMalformedPayload)
	}
	return string(data), rest, nil
}

func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(s)))
	return append(buf, s...)
}

func appendBytes(buf []byte, data []byte) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(data)))
	return append(buf, data...)
}
