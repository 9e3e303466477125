package bgzf

import (
	"bytes"
	"io/ioutil"
	"math/rand"
	"os"
	"testing"

	"github.com/grailbio/base/grail"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	// Create random bytes.
	for _, length := range []int{0, 1, 100, 65279, 65280, 65281, 500000} {
		t.Logf("length: %d", length)
		for _, useParams := range []bool{false, true} {
			input := make([]byte, length)
			n, err := rand.Read(input)
			require.Nil(t, err)
			assert.Equal(t, length, n)

			// Write bgzf
			var buf bytes.Buffer
			var w *Writer
			if useParams {
				w, err = NewWriterParams(&buf, 1, 0x0ff05, 3)
			} else {
				w, err = NewWriter(&buf, 1)
			}
			require.Nil(t, err)
			n, err = w.Write(input)
			assert.Nil(t, err)
			assert.Equal(t, length, n)
			err = w.Close()
			assert.Nil(t, err)

			// Verify output
			if useParams && length > 0 {
				// The XFL field is set in all gzip headers, except
				// for the bgzf footer (which is a legal gzip block
				// containing zero compressed bytes).
				bufBytes := buf.Bytes()
				assert.Equal(t, byte(3), bufBytes[8], "length %d", len(bufBytes))
			}
			r, err := gzip.NewReader(&buf)
			require.Nil(t, err)
			actual, err := ioutil.ReadAll(r)
			require.Nil(t, err)
			assert.Equal(t, length, len(actual))
			assert.Equal(t, 0, bytes.Compare(input, actual))
		}
	}
}

func TestCloseWithoutTerminator(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, gzip.DefaultCompression)
	require.NoError(t, err)
	_, err = w.Write([]byte("header"))
	require.NoError(t, err)
	require.NoError(t, w.CloseWithoutTerminator())
	headerEnd := buf.Len()
	assert.True(t, headerEnd > 0)
	assert.False(t, bytes.HasSuffix(buf.Bytes(), terminator))

	// The writer stays usable after CloseWithoutTerminator.
	_, err = w.Write([]byte("body"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.True(t, bytes.HasSuffix(buf.Bytes(), terminator))

	r, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	actual, err := ioutil.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "headerbody", string(actual))
}

func TestBlockHeader(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, gzip.BestSpeed)
	require.NoError(t, err)
	_, err = w.Write([]byte("ACGTACGTACGT"))
	require.NoError(t, err)
	require.NoError(t, w.CloseWithoutTerminator())
	b := buf.Bytes()
	require.True(t, len(b) > 18)
	assert.Equal(t, bgzfExtraPrefix[:], b[12:16])
	bsize := int(b[16]) | int(b[17])<<8
	assert.Equal(t, len(b)-1, bsize)
	assert.Equal(t, byte(0xff), b[9])
}

func TestInvalidParams(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewWriterParams(&buf, 1, MaxUncompressedBlockSize+1, -1)
	assert.Error(t, err)
	_, err = NewWriterParams(&buf, 1, DefaultUncompressedBlockSize, 256)
	assert.Error(t, err)
	_, err = NewWriterParams(&buf, 10, DefaultUncompressedBlockSize, -1)
	assert.Error(t, err)
}

func TestMain(m *testing.M) {
	shutdown := grail.Init()
	defer shutdown()
	os.Exit(m.Run())
}
