package stdio

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkReader delivers its contents n bytes at a time, to exercise frame
// reassembly across arbitrary read boundaries.
type chunkReader struct {
	data []byte
	n    int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := r.n
	if n > len(r.data) {
		n = len(r.data)
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}

func TestFrameDecoderBasic(t *testing.T) {
	input := "{\"a\":1}\n{\"b\":2}\n"
	dec := newFrameDecoder(strings.NewReader(input), 0)

	frame, err := dec.next()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(frame))

	frame, err = dec.next()
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(frame))

	_, err = dec.next()
	assert.Equal(t, io.EOF, err)
}

func TestFrameDecoderChunkingInvariance(t *testing.T) {
	// The decoded frame sequence must not depend on how the bytes arrive.
	big := strings.Repeat("x", 10000)
	input := "{\"first\":\"" + big + "\"}\n{\"second\":2}\n"

	for _, chunk := range []int{1, 3, 7, 4096, len(input)} {
		dec := newFrameDecoder(&chunkReader{data: []byte(input), n: chunk}, 0)

		frame, err := dec.next()
		require.NoError(t, err, "chunk size %d", chunk)
		assert.Contains(t, string(frame), big)

		frame, err = dec.next()
		require.NoError(t, err, "chunk size %d", chunk)
		assert.Equal(t, `{"second":2}`, string(frame))

		_, err = dec.next()
		assert.Equal(t, io.EOF, err, "chunk size %d", chunk)
	}
}

func TestFrameDecoderSkipsBlankLines(t *testing.T) {
	input := "\n\r\n{\"a\":1}\n\n{\"b\":2}\n"
	dec := newFrameDecoder(strings.NewReader(input), 0)

	frame, err := dec.next()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(frame))

	frame, err = dec.next()
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(frame))
}

func TestFrameDecoderStripsCarriageReturn(t *testing.T) {
	dec := newFrameDecoder(strings.NewReader("{\"a\":1}\r\n"), 0)
	frame, err := dec.next()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(frame))
}

func TestFrameDecoderOversizeFrame(t *testing.T) {
	payload := bytes.Repeat([]byte("y"), 256)
	dec := newFrameDecoder(bytes.NewReader(append(payload, '\n')), 64)

	_, err := dec.next()
	require.Error(t, err)
	assert.True(t, IsFramingError(err))
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestFrameDecoderTruncatedStream(t *testing.T) {
	// Data ends without a delimiter: not a clean EOF.
	dec := newFrameDecoder(strings.NewReader(`{"partial":`), 0)

	_, err := dec.next()
	require.Error(t, err)
	assert.True(t, IsFramingError(err))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
