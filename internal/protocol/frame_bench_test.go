package protocol

import (
	"bytes"
	"fmt"
	"testing"
)

// BenchmarkReadFrame measures a full frame read for different body sizes.
func BenchmarkReadFrame(b *testing.B) {
	sizes := []int{16, 64, 256, 1024, 4096}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ReportAllocs()

			body := make([]byte, size)
			body[0] = uint8(PacketRoom)
			for i := 1; i < size; i++ {
				body[i] = byte(i)
			}
			frame, err := EncodeFrame(nil, 7, body)
			if err != nil {
				b.Fatal(err)
			}

			buf := make([]byte, MaxBodyLen)
			r := bytes.NewReader(frame)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				r.Reset(frame)
				if _, _, err := ReadFrame(r, buf); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkEncodeFrame measures framing into a reused buffer.
func BenchmarkEncodeFrame(b *testing.B) {
	body := make([]byte, 256)
	body[0] = uint8(PacketRoomList)
	buf := make([]byte, HeaderSize+len(body))

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := EncodeFrame(buf, uint8(i), body); err != nil {
			b.Fatal(err)
		}
	}
}
