/*
 * record.go, part of gotrz.
 *
 * Copyright 2021 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package trz

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

// Sizes, in bytes, of the content of each record.
const (
	markerSize    = 4
	titleSize     = 80
	headerSize    = 2*markerSize + titleSize + 2*markerSize + 4 //title and nrec records
	frameHeadSize = 3*4 + 8                                     //nframe, ntrj*nframe, natoms, treal
	cellSize      = 9 * 8
	pressureSize  = 7 * 8
	energySize    = 4 + 6*8 //a meaningless int (6) and 6 reals, the last 2 unused
	fixedFrame    = 4*2*markerSize + frameHeadSize + cellSize + pressureSize + energySize
	atomBlocks    = 6
)

// FrameSize returns the size in bytes of one frame of natoms atoms, including
// the record markers.
func FrameSize(natoms int) int {
	return fixedFrame + atomBlocks*(2*markerSize+4*natoms)
}

// errShortRead means the stream ended before a record was complete.
var errShortRead = errors.New("short read")

// corruptError means the file doesn't have the structure of a TRZ file.
type corruptError struct {
	msg string
}

func (E corruptError) Error() string { return E.msg }

func markerError(want, got int64, record string) error {
	return corruptError{fmt.Sprintf("%s record marker says %d bytes, expected %d", record, got, want)}
}

// Header contains the information in the header of a TRZ file.
type Header struct {
	Title     string
	NRec      int32
	ByteOrder binary.ByteOrder
}

// readHeader reads the 100-byte header of a TRZ file. The byte
// order of the file is deduced from the first marker, which must be 80.
func readHeader(r io.Reader) (Header, error) {
	var h Header
	b := make([]byte, headerSize)
	if _, err := io.ReadFull(r, b); err != nil {
		return h, shortOr(err)
	}
	switch {
	case binary.LittleEndian.Uint32(b) == titleSize:
		h.ByteOrder = binary.LittleEndian
	case binary.BigEndian.Uint32(b) == titleSize:
		h.ByteOrder = binary.BigEndian
	default:
		return h, markerError(titleSize, int64(int32(binary.LittleEndian.Uint32(b))), "title")
	}
	o := h.ByteOrder
	checks := []struct {
		off, want int
		name      string
	}{{markerSize + titleSize, titleSize, "title"}, {2*markerSize + titleSize, 4, "nrec"}, {headerSize - markerSize, 4, "nrec"}}
	for _, c := range checks {
		if got := int(o.Uint32(b[c.off:])); got != c.want {
			return h, markerError(int64(c.want), int64(got), c.name)
		}
	}
	h.Title = strings.TrimRight(string(b[markerSize:markerSize+titleSize]), " \x00")
	h.NRec = int32(o.Uint32(b[3*markerSize+titleSize:]))
	return h, nil
}

// shortOr returns errShortRead if err signals that the stream ended, err otherwise.
func shortOr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errShortRead
	}
	return err
}

// recordReader reads Fortran unformatted sequential records.
type recordReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   []byte
}

func newRecordReader(r io.Reader, order binary.ByteOrder) *recordReader {
	return &recordReader{r: r, order: order}
}

// record reads a record whose content must be n bytes long, and returns the content.
// The returned slice is only valid until the next call.
func (R *recordReader) record(n int, name string) ([]byte, error) {
	if cap(R.buf) < n+2*markerSize {
		R.buf = make([]byte, n+2*markerSize)
	}
	b := R.buf[:n+2*markerSize]
	if _, err := io.ReadFull(R.r, b[:markerSize]); err != nil {
		return nil, shortOr(err)
	}
	if got := int64(int32(R.order.Uint32(b))); got != int64(n) {
		return nil, markerError(int64(n), got, name)
	}
	if _, err := io.ReadFull(R.r, b[markerSize:]); err != nil {
		return nil, shortOr(err)
	}
	if got := int64(int32(R.order.Uint32(b[markerSize+n:]))); got != int64(n) {
		return nil, markerError(int64(n), got, name)
	}
	return b[markerSize : markerSize+n], nil
}

func (R *recordReader) float64At(b []byte, i int) float64 {
	return math.Float64frombits(R.order.Uint64(b[i:]))
}

func (R *recordReader) int32At(b []byte, i int) int32 {
	return int32(R.order.Uint32(b[i:]))
}

// frameHead contains the values of the first record of a frame.
type frameHead struct {
	step    int32
	trjStep int32
	natoms  int32
	time    float64
}

func (R *recordReader) frameHead() (frameHead, error) {
	var h frameHead
	b, err := R.record(frameHeadSize, "frame header")
	if err != nil {
		return h, err
	}
	h.step = R.int32At(b, 0)
	h.trjStep = R.int32At(b, 4)
	h.natoms = R.int32At(b, 8)
	h.time = R.float64At(b, 12)
	return h, nil
}

// frame reads the next frame into F, whose length must be natoms.
// If an error is returned, F may have been partially overwritten.
func (R *recordReader) frame(F *Frame, natoms int) error {
	h, err := R.frameHead()
	if err != nil {
		return err
	}
	if int(h.natoms) != natoms {
		return corruptError{fmt.Sprintf("%s: %d atoms declared in frame, %d expected", WrongNumAtoms, h.natoms, natoms)}
	}
	F.Step = int(h.step)
	F.Time = h.time

	b, err := R.record(cellSize, "box")
	if err != nil {
		return err
	}
	for i := range F.UnitCell {
		F.UnitCell[i] = R.float64At(b, 8*i)
	}

	b, err = R.record(pressureSize, "pressure")
	if err != nil {
		return err
	}
	F.Pressure = R.float64At(b, 0)
	for i := range F.PressureTensor {
		F.PressureTensor[i] = R.float64At(b, 8*(i+1))
	}

	b, err = R.record(energySize, "energy")
	if err != nil {
		return err
	}
	// The first int is the number of reals in the record. We don't use it.
	F.TotalEnergy = R.float64At(b, 4)
	F.PotentialEnergy = R.float64At(b, 12)
	F.KineticEnergy = R.float64At(b, 20)
	F.Temperature = R.float64At(b, 28)

	names := [3]string{"x", "y", "z"}
	for k := 0; k < 3; k++ {
		if err := R.float32Block(F.pos[k], "position "+names[k]); err != nil {
			return err
		}
	}
	for k := 0; k < 3; k++ {
		if err := R.float32Block(F.vel[k], "velocity "+names[k]); err != nil {
			return err
		}
	}
	return nil
}

// float32Block reads a record of len(block) reals into block.
func (R *recordReader) float32Block(block []float32, name string) error {
	b, err := R.record(4*len(block), name)
	if err != nil {
		return err
	}
	for i := range block {
		block[i] = math.Float32frombits(R.order.Uint32(b[4*i:]))
	}
	return nil
}
