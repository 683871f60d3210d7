package stdio

import (
	"bufio"
	"bytes"
	"io"
)

// DefaultMaxFrameSize bounds a single newline-delimited frame.
const DefaultMaxFrameSize = 4 << 20 // 4 MiB

// frameDecoder splits a raw byte stream into newline-delimited frames.
// It buffers partial frames across arbitrary read chunk boundaries, so the
// decoded sequence is independent of how the bytes were delivered.
type frameDecoder struct {
	r   *bufio.Reader
	max int
}

func newFrameDecoder(r io.Reader, max int) *frameDecoder {
	if max <= 0 {
		max = DefaultMaxFrameSize
	}
	return &frameDecoder{
		r:   bufio.NewReader(r),
		max: max,
	}
}

// next returns the next complete frame without its trailing delimiter.
// Blank lines are skipped. A frame larger than the size bound, or a stream
// that ends mid-frame, yields a FramingError. A clean end of stream yields
// io.EOF.
func (d *frameDecoder) next() ([]byte, error) {
	var frame []byte
	for {
		chunk, err := d.r.ReadSlice('\n')
		frame = append(frame, chunk...)
		if len(frame) > d.max {
			return nil, &FramingError{
				Reason: "frame exceeds size bound",
				Err:    ErrFrameTooLarge,
			}
		}
		switch err {
		case nil:
			line := bytes.TrimRight(frame, "\r\n")
			if len(bytes.TrimSpace(line)) == 0 {
				frame = frame[:0]
				continue
			}
			return line, nil
		case bufio.ErrBufferFull:
			// Partial frame, keep accumulating.
			continue
		case io.EOF:
			if len(bytes.TrimSpace(frame)) > 0 {
				return nil, &FramingError{
					Reason: "stream ended mid-frame",
					Err:    io.ErrUnexpectedEOF,
				}
			}
			return nil, io.EOF
		default:
			return nil, err
		}
	}
}
