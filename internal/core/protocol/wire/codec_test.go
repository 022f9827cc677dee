// If you are AI: This file contains unit tests for the wire codec and framing.
// Golden byte layouts pin the cross-language wire contract.

package wire

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestConnectRequestGoldenBytes(t *testing.T) {
	got := Encode(&ConnectRequest{Name: "bla"})

	want := []byte{
		0x00, 0x00, 0x00, 0x00, // tag 0
		0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // name length
		'b', 'l', 'a',
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Expected payload %v, got %v", want, got)
	}

	msg, err := Decode(got)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	connect, ok := msg.(*ConnectRequest)
	if !ok || connect.Name != "bla" {
		t.Errorf("Expected ConnectRequest{bla}, got %#v", msg)
	}
}

func TestFrameMessageGoldenBytes(t *testing.T) {
	got := Encode(&FrameMessage{ID: "bla", Data: []byte{1, 2, 3}})

	want := []byte{
		0x01, 0x00, 0x00, 0x00, // tag 1
		0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // id length
		'b', 'l', 'a',
		0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // data length
		1, 2, 3,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Expected payload %v, got %v", want, got)
	}

	msg, err := Decode(got)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	frame, ok := msg.(*FrameMessage)
	if !ok || frame.ID != "bla" || !bytes.Equal(frame.Data, []byte{1, 2, 3}) {
		t.Errorf("Expected FrameMessage{bla, [1 2 3]}, got %#v", msg)
	}
}

func TestDecodeMalformedPayloads(t *testing.T) {
	cases := []struct {
		name    string
		payload []byte
	}{
		{"empty", nil},
		{"short tag", []byte{0x01}},
		{"unknown tag", []byte{0xff, 0x00, 0x00, 0x00}},
		{"truncated length", []byte{0x00, 0x00, 0x00, 0x00, 0x03}},
		{"length beyond payload", []byte{
			0x00, 0x00, 0x00, 0x00,
			0xff, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			'x',
		}},
		{"invalid utf8 name", []byte{
			0x00, 0x00, 0x00, 0x00,
			0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0xff,
		}},
		{"trailing bytes", append(
			Encode(&ConnectRequest{Name: "a"}), 0x00)},
	}

	for _, tc := range cases {
		if _, err := Decode(tc.payload); !errors.Is(err, ErrMalformedPayload) {
			t.Errorf("%s: expected ErrMalformedPayload, got %v", tc.name, err)
		}
	}
}

func TestFramingRoundTrip(t *testing.T) {
	var stream bytes.Buffer
	w := NewWriter(&stream)

	if err := w.WriteMessage(&ConnectRequest{Name: "cam"}); err != nil {
		t.Fatalf("Write connect: %v", err)
	}
	if err := w.WriteMessage(&FrameMessage{ID: "cam", Data: []byte{0xde, 0xad}}); err != nil {
		t.Fatalf("Write frame: %v", err)
	}

	r := NewReader(&stream)
	first, err := r.ReadMessage()
	if err != nil {
		t.Fatalf("Read connect: %v", err)
	}
	if connect, ok := first.(*ConnectRequest); !ok || connect.Name != "cam" {
		t.Errorf("Expected ConnectRequest{cam}, got %#v", first)
	}

	second, err := r.ReadMessage()
	if err != nil {
		t.Fatalf("Read frame: %v", err)
	}
	if frame, ok := second.(*FrameMessage); !ok || !bytes.Equal(frame.Data, []byte{0xde, 0xad}) {
		t.Errorf("Expected FrameMessage data [222 173], got %#v", second)
	}

	if _, err := r.ReadMessage(); err != io.EOF {
		t.Errorf("Expected EOF on drained stream, got %v", err)
	}
}

func TestFramingKeepsAlignmentAfterMalformedPayload(t *testing.T) {
	var stream bytes.Buffer
	w := NewWriter(&stream)

	// A length-correct frame with garbage payload, then a valid frame.
	stream.Write([]byte{0x00, 0x00, 0x00, 0x02, 0xff, 0xff})
	if err := w.WriteMessage(&FrameMessage{ID: "x", Data: []byte{7}}); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&stream)
	if _, err := r.ReadMessage(); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("Expected ErrMalformedPayload, got %v", err)
	}

	msg, err := r.ReadMessage()
	if err != nil {
		t.Fatalf("Expected aligned read after malformed payload, got %v", err)
	}
	if frame, ok := msg.(*FrameMessage); !ok || frame.ID != "x" {
		t.Errorf("Expected FrameMessage{x}, got %#v", msg)
	}
}

func TestReaderRejectsOversizedFrame(t *testing.T) {
	var stream bytes.Buffer
	stream.Write([]byte{0xff, 0xff, 0xff, 0xff})

	r := NewReader(&stream)
	_, err := r.ReadMessage()
	if err == nil || errors.Is(err, ErrMalformedPayload) {
		t.Errorf("Expected terminal framing error, got %v", err)
	}
}
