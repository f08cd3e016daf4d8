// Package frame holds the NV12 frame layout, a preallocated buffer pool and
// the bounded drop-newest queue that carries frames from the decoder
// goroutine to the render loop.
package frame

import "fmt"

// Frame is one decoded picture: a W*H luma plane followed by a W*H/2
// interleaved CbCr plane.
type Frame []byte

// Size returns the byte length of one NV12 frame.
func Size(width, height int) int {
	return width * height * 3 / 2
}

// Planes splits f into its luma and chroma planes. The slices alias f.
// A frame of the wrong length is a caller bug and panics.
func Planes(f Frame, width, height int) (luma, chroma []byte) {
	if len(f) != Size(width, height) {
		panic(fmt.Sprintf("frame: %d bytes, want %d for %dx%d", len(f), Size(width, height), width, height))
	}
	n := width * height
	return f[:n:n], f[n:]
}
