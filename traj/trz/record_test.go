package trz

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizes(t *testing.T) {
	assert.Equal(t, 100, headerSize)
	assert.Equal(t, 280, FrameSize(0))
	assert.Equal(t, 280+24*1000, FrameSize(1000))
	data := encodeTRZ(binary.BigEndian, "", sampleFrames(7, 3))
	assert.Len(t, data, headerSize+3*FrameSize(7))
}

func TestReadHeader(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		data := encodeTRZ(order, "a title", nil)
		h, err := readHeader(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, "a title", h.Title)
		assert.Equal(t, order, h.ByteOrder)
		assert.Zero(t, h.NRec)
	}
	data := encodeTRZ(binary.LittleEndian, "", nil)
	binary.LittleEndian.PutUint32(data[headerSize-markerSize:], 8)
	_, err := readHeader(bytes.NewReader(data))
	var c corruptError
	require.True(t, errors.As(err, &c))
	assert.Equal(t, "nrec record marker says 8 bytes, expected 4", c.Error())

	_, err = readHeader(bytes.NewReader(data[:99]))
	assert.Equal(t, errShortRead, err)
}

func TestRecordReader(t *testing.T) {
	var b bytes.Buffer
	putRecord(&b, binary.LittleEndian, []float32{1, 2, 3})
	putRecord(&b, binary.LittleEndian, int32(5), 2.5)
	R := newRecordReader(bytes.NewReader(b.Bytes()), binary.LittleEndian)
	block := make([]float32, 3)
	require.NoError(t, R.float32Block(block, "x"))
	assert.Equal(t, []float32{1, 2, 3}, block)
	rec, err := R.record(12, "pair")
	require.NoError(t, err)
	assert.Equal(t, int32(5), R.int32At(rec, 0))
	assert.Equal(t, 2.5, R.float64At(rec, 4))
	_, err = R.record(4, "empty")
	assert.Equal(t, errShortRead, err)

	// a record that is cut in the middle
	R = newRecordReader(bytes.NewReader(b.Bytes()[:10]), binary.LittleEndian)
	assert.Equal(t, errShortRead, R.float32Block(block, "x"))

	// a record of the wrong size
	R = newRecordReader(bytes.NewReader(b.Bytes()), binary.LittleEndian)
	err = R.float32Block(make([]float32, 4), "x")
	var c corruptError
	require.True(t, errors.As(err, &c))
	assert.Contains(t, c.Error(), "x record marker says 12 bytes, expected 16")
}
