/*
 * stf.go, part of gotrz.
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

package stf

import (
	"bufio"
	"compress/lzw"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"

	chem "github.com/rmera/gotrz"
	v3 "github.com/rmera/gotrz/v3"
)

// Logger is used to report recoverable problems in STF files. It discards everything
// unless replaced.
var Logger = zerolog.Nop()

const (
	lzwLitwidth int = 8
	// DefaultPrec is the precision used when none is given.
	DefaultPrec = 2
	precKey     = "prec"
)

// compression returns the compression format for the STF file name.
func compression(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".stl":
		return "lzw"
	case ".stz":
		return "gzip"
	case ".str":
		return "flate"
	}
	return "zstd"
}

func coordsEncode(buf []byte, f [3]float64, mult float64) []byte {
	for i, v := range f {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendInt(buf, int64(math.RoundToEven(v*mult)), 10)
	}
	return append(buf, '\n')
}

func coordsDecode(str string, temp *[3]float64, mult float64) error {
	s := strings.Fields(str)
	if len(s) != 3 {
		return fmt.Errorf("ill formated coordinates line: %d fields in %q", len(s), str)
	}
	for i, v := range s {
		f, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("can't parse coordinate %d (%s): %w", i, v, err)
		}
		temp[i] = float64(f) / mult
	}
	return nil
}

// Writer writes STF trajectories.
type Writer struct {
	f         *os.File
	h         io.WriteCloser
	w         *bufio.Writer
	natoms    int
	filename  string
	prec      int
	mult      float64
	buf       []byte
	writeable bool
}

// NewWriter creates the STF file name for frames of natoms atoms, and writes its header.
// The header lines are taken from header, sorted by key. If header contains a valid
// "prec" key, it is used as the precision of the file. Otherwise, DefaultPrec is used.
func NewWriter(name string, natoms int, header map[string]string) (*Writer, error) {
	if natoms <= 0 {
		return nil, Error{fmt.Sprintf("Can't write frames of %d atoms", natoms), name, []string{"NewWriter"}, true}
	}
	S := &Writer{natoms: natoms, filename: name, prec: DefaultPrec}
	keys := make([]string, 0, len(header))
	for k, v := range header {
		if k == "" || strings.ContainsAny(k, "=\n") || strings.HasPrefix(k, "*") || strings.Contains(v, "\n") {
			return nil, Error{fmt.Sprintf("Invalid header entry %q=%q", k, v), name, []string{"NewWriter"}, true}
		}
		if k == precKey {
			prec, err := strconv.Atoi(v)
			if err != nil || prec <= 0 {
				Logger.Warn().Str("file", name).Str("prec", v).Int("default", DefaultPrec).Msg("Invalid precision, will use the default")
			} else {
				S.prec = prec
			}
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	S.mult = math.Pow10(S.prec)

	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	switch compression(name) {
	case "lzw":
		S.h = lzw.NewWriter(S.f, lzw.MSB, lzwLitwidth)
	case "gzip":
		S.h, err = gzip.NewWriterLevel(S.f, gzip.BestCompression)
	case "flate":
		S.h, err = flate.NewWriter(S.f, flate.BestCompression)
	default:
		S.h, err = zstd.NewWriter(S.f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	}
	if err != nil {
		S.f.Close()
		return nil, Error{"Can't set up the compressor: " + err.Error(), name, []string{"NewWriter"}, true}
	}
	S.w = bufio.NewWriter(S.h)
	fmt.Fprintf(S.w, "%s=%d\n", precKey, S.prec)
	for _, k := range keys {
		fmt.Fprintf(S.w, "%s=%s\n", k, header[k])
	}
	if _, err := fmt.Fprintf(S.w, "** %d\n", natoms); err != nil {
		S.h.Close()
		S.f.Close()
		return nil, Error{"Can't write header: " + err.Error(), name, []string{"NewWriter"}, true}
	}
	S.writeable = true
	return S, nil
}

// Len returns the number of atoms per frame.
func (S *Writer) Len() int {
	return S.natoms
}

// Prec returns the precision of the file.
func (S *Writer) Prec() int {
	return S.prec
}

// WNext writes a frame with the coordinates in coord, in Angstrom. If a box with at
// least 9 elements is given, its first 9 elements are written as the box vectors.
func (S *Writer) WNext(coord *v3.Matrix, box ...[]float64) error {
	if !S.writeable {
		return Error{TrajUnIniWrite, S.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return Error{NilCoordinates, S.filename, []string{"WNext"}, true}
	}
	if v := coord.NVecs(); v != S.natoms {
		return Error{fmt.Sprintf("%d coordinates given, but %d expected", v, S.natoms), S.filename, []string{"WNext"}, true}
	}
	var floats [3]float64
	for i := 0; i < S.natoms; i++ {
		floats[0], floats[1], floats[2] = coord.At(i, 0), coord.At(i, 1), coord.At(i, 2)
		S.buf = coordsEncode(S.buf[:0], floats, S.mult)
		S.w.Write(S.buf)
	}
	S.buf = append(S.buf[:0], '*')
	if len(box) > 0 && len(box[0]) >= 9 {
		for _, b := range box[0][:9] {
			S.buf = append(S.buf, ' ')
			S.buf = strconv.AppendFloat(S.buf, b, 'f', 4, 64)
		}
	}
	S.buf = append(S.buf, '\n')
	if _, err := S.w.Write(S.buf); err != nil {
		return Error{"Can't write frame: " + err.Error(), S.filename, []string{"WNext"}, true}
	}
	return nil
}

// Close flushes and closes the file. The object can't be used after this call.
func (S *Writer) Close() error {
	if S == nil || !S.writeable {
		return nil
	}
	S.writeable = false
	err := S.w.Flush()
	if err2 := S.h.Close(); err == nil {
		err = err2
	}
	if err2 := S.f.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return Error{err.Error(), S.filename, []string{"Close"}, true}
	}
	return nil
}

// Write reads every remaining frame from src and writes it to S, with its lengths,
// box included, multiplied by factor. It returns the number of frames written.
func Write(S *Writer, src chem.Traj, factor float64) (int, error) {
	if src.Len() != S.natoms {
		return 0, Error{fmt.Sprintf("Source has %d atoms, but %d expected", src.Len(), S.natoms), S.filename, []string{"Write"}, true}
	}
	coord := v3.Zeros(S.natoms)
	box := make([]float64, 9)
	var i int
	for ; ; i++ {
		err := src.Next(coord, box)
		if err != nil {
			if _, ok := err.(chem.LastFrameError); ok {
				return i, nil
			}
			return i, errDecorate(err, "Write")
		}
		if factor != 1 {
			coord.Scale(factor, coord.Dense)
			for j := range box {
				box[j] *= factor
			}
		}
		if err := S.WNext(coord, box); err != nil {
			return i, errDecorate(err, "Write")
		}
	}
}

// zstdCloser lets a *zstd.Decoder be used as an io.ReadCloser.
type zstdCloser struct {
	*zstd.Decoder
}

// Close Closes the decoder. It can not be used after this call
func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// Reader reads STF trajectories.
type Reader struct {
	f        *os.File
	dc       io.ReadCloser
	h        *bufio.Reader
	natoms   int
	filename string
	prec     int
	div      float64
	header   map[string]string
	readable bool
}

// New opens an STF trajectory for reading, and returns the handle and the
// header entries other than the precision.
func New(name string) (*Reader, map[string]string, error) {
	S := &Reader{filename: name, prec: DefaultPrec, header: map[string]string{}}
	var err error
	S.f, err = os.Open(name)
	if err != nil {
		return nil, nil, Error{err.Error(), name, []string{"New"}, true}
	}
	intermediate := bufio.NewReader(S.f)
	switch compression(name) {
	case "lzw":
		S.dc = lzw.NewReader(intermediate, lzw.MSB, lzwLitwidth)
	case "gzip":
		S.dc, err = gzip.NewReader(intermediate)
	case "flate":
		S.dc = flate.NewReader(intermediate)
	default:
		var d *zstd.Decoder
		d, err = zstd.NewReader(intermediate)
		if err == nil {
			S.dc = zstdCloser{d}
		}
	}
	if err != nil {
		S.f.Close()
		return nil, nil, Error{"Can't set up the decompressor: " + err.Error(), name, []string{"New"}, true}
	}
	S.h = bufio.NewReader(S.dc)
	if err := S.readHeader(); err != nil {
		S.dc.Close()
		S.f.Close()
		return nil, nil, errDecorate(err, "New")
	}
	S.div = math.Pow10(S.prec)
	S.readable = true
	return S, S.header, nil
}

func (S *Reader) readHeader() error {
	prec := ""
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			return Error{"Can't read header: " + err.Error(), S.filename, []string{"readHeader"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			nat := strings.Fields(str)
			if len(nat) < 2 {
				return Error{fmt.Sprintf("Can't read atom number from '%s'", str), S.filename, []string{"readHeader"}, true}
			}
			S.natoms, err = strconv.Atoi(nat[1])
			if err != nil || S.natoms <= 0 {
				return Error{fmt.Sprintf("Can't read atom number from '%s'", str), S.filename, []string{"readHeader"}, true}
			}
			break
		}
		k, v, ok := strings.Cut(str, "=")
		if !ok {
			return Error{fmt.Sprintf("%s: malformed header line '%s'", WrongFormat, str), S.filename, []string{"readHeader"}, true}
		}
		if k == precKey {
			prec = v
			continue
		}
		S.header[k] = v
	}
	p, err := strconv.Atoi(prec)
	if err != nil || p <= 0 {
		Logger.Warn().Str("file", S.filename).Str("prec", prec).Int("default", DefaultPrec).Msg("Missing or invalid precision, will assume the default")
		return nil
	}
	S.prec = p
	return nil
}

// Readable returns true if the handle is readable (if it is possible to call Next on it)
func (S *Reader) Readable() bool {
	return S.readable
}

// Len returns the number of atoms in each frame of the trajectory.
func (S *Reader) Len() int {
	return S.natoms
}

// Prec returns the precision of the file.
func (S *Reader) Prec() int {
	return S.prec
}

// Next puts in c the coordinates for the next frame of the trajectory, or discards them
// if c is nil. If a box with at least 9 elements is given, it receives the box vectors
// of the frame, or zeros if the frame has none. At the end of the trajectory, the
// handle is closed and an error implementing chem.LastFrameError is returned.
func (S *Reader) Next(c *v3.Matrix, box ...[]float64) error {
	if !S.readable {
		return Error{TrajUnIniRead, S.filename, []string{"Next"}, true}
	}
	if c != nil && c.NVecs() != S.natoms {
		return Error{fmt.Sprintf("%d vectors in matrix, but %d atoms in frame", c.NVecs(), S.natoms), S.filename, []string{"Next"}, true}
	}
	var temp [3]float64
	for i := 0; i < S.natoms; i++ {
		str, err := S.h.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && i == 0 && str == "" {
				S.Close()
				return newlastFrameError(S.filename, "Next")
			}
			return Error{fmt.Sprintf("Can't read atom %d: %s", i, err.Error()), S.filename, []string{"Next"}, true}
		}
		if strings.HasPrefix(str, "*") {
			return Error{fmt.Sprintf("%s: frame has %d atoms, %d expected", WrongFormat, i, S.natoms), S.filename, []string{"Next"}, true}
		}
		if err := coordsDecode(str, &temp, S.div); err != nil {
			return Error{err.Error(), S.filename, []string{"Next"}, true}
		}
		if c != nil {
			c.SetVec(i, temp[0], temp[1], temp[2])
		}
	}
	s, err := S.h.ReadString('\n')
	if err != nil {
		return Error{"Can't read the frame termination mark: " + err.Error(), S.filename, []string{"Next"}, true}
	}
	if !strings.HasPrefix(s, "*") || strings.HasPrefix(s, "**") {
		return Error{fmt.Sprintf("%s: frame has more than %d atoms", WrongFormat, S.natoms), S.filename, []string{"Next"}, true}
	}
	if len(box) == 0 || len(box[0]) < 9 {
		return nil
	}
	b := box[0]
	fields := strings.Fields(s)
	if len(fields) < 10 {
		Logger.Debug().Str("file", S.filename).Msg("Frame without box information")
		clear(b[:9])
		return nil
	}
	for j, v := range fields[1:10] {
		if b[j], err = strconv.ParseFloat(v, 64); err != nil {
			Logger.Warn().Str("file", S.filename).Err(err).Msg("Failed to read box in a frame")
			clear(b[:9])
			break
		}
	}
	return nil
}

// Close closes the object, and marks it as unreadable
func (S *Reader) Close() error {
	if !S.readable {
		return nil
	}
	S.readable = false
	err := S.dc.Close()
	if err2 := S.f.Close(); err == nil {
		err = err2
	}
	return err
}

var _ chem.Traj = (*Reader)(nil)
