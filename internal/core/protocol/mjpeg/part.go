// If you are AI: This file implements multipart part framing for MJPEG streams.
// Frames are wrapped exactly once, at router entry or at inference completion.

package mjpeg

import "bytes"

// Boundary is the multipart boundary token used on the viewer surface.
const Boundary = "frame"

// ContentType is the response content type for MJPEG streams.
const ContentType = "multipart/x-mixed-replace; boundary=" + Boundary

var (
	partHeader  = []byte("--" + Boundary + "\r\nContent-Type: image/jpeg\r\n\r\n")
	partTrailer = []byte("\r\n\r\n")
)

// WrapPart wraps a JPEG buffer as one multipart part.
// Subscribers write the returned buffer verbatim.
func WrapPart(jpeg []byte) []byte {
	buf := make([]byte, 0, len(partHeader)+len(jpeg)+len(partTrailer))
	buf = append(buf, partHeader...)
	buf = append(buf, jpeg...)
	return append(buf, partTrailer...)
}

// UnwrapPart strips the multipart framing from a wrapped part.
// Returns false if the buffer does not carry the expected framing.
func UnwrapPart(part []byte) ([]byte, bool) {
	if !bytes.HasPrefix(part, partHeader) || !bytes.HasSuffix(part, partTrailer) {
		return nil, false
	}
	if len(part) < len(partHeader)+len(partTrailer) {
		return nil, false
	}
	return part[len(partHeader) : len(part)-len(partTrailer)], true
}
