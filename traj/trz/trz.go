/*
 * trz.go, part of gotrz.
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
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"runtime"

	chem "github.com/rmera/gotrz"
	"github.com/rmera/gotrz/flags"
	"github.com/rmera/gotrz/units"
	v3 "github.com/rmera/gotrz/v3"
	"github.com/rs/zerolog"
)

// Logger is used by the package to report non-fatal events. It discards
// everything unless replaced.
var Logger = zerolog.Nop()

// Native units of TRZ files.
const (
	NativeLength   = units.Nanometer
	NativeVelocity = units.NmPs
	NativeTime     = units.Picosecond
)

// State is the position of a TRZObj in its stream.
type State int

const (
	Closed      State = iota //no stream
	HeaderRead               //at the first frame
	FrameReady               //at least one frame read
	EndOfStream              //needs a Rewind
)

func (s State) String() string {
	switch s {
	case Closed:
		return "Closed"
	case HeaderRead:
		return "HeaderRead"
	case FrameReady:
		return "FrameReady"
	case EndOfStream:
		return "EndOfStream"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// TRZObj reads IBIsCO/YASP TRZ trajectories, one frame at a time.
// It implements chem.Traj. A TRZObj is not safe for concurrent use.
type TRZObj struct {
	filename string
	natoms   int
	src      *source
	rr       *recordReader
	header   Header
	state    State
	index    int //frames read since the last open.

	frame   *Frame //the current frame, mutated by Next.
	scratch *Frame //used by the metadata scans.

	convert bool
	units   units.Converter

	nframes    int //-1 if unknown
	delta      float64
	deltaKnown bool

	err error //the error that stopped the last Frames iteration, if any.
}

// New returns a TRZObj reading filename, which must contain frames of natoms atoms.
// TRZ files don't carry a topology, so natoms has to come from elsewhere (a GRO file, for
// instance). If convertUnits is given, it decides whether lengths, velocities and times are
// converted from the native units of the file (nm, nm/ps, ps) to those set in the flags package.
// Otherwise, flags.ConvertLengths() decides.
func New(filename string, natoms int, convertUnits ...bool) (*TRZObj, error) {
	if natoms <= 0 {
		return nil, Error{NoAtoms, filename, []string{"New"}, true, ErrInvalidArgument}
	}
	T := &TRZObj{natoms: natoms, nframes: -1, convert: flags.ConvertLengths()}
	if len(convertUnits) > 0 {
		T.convert = convertUnits[0]
	}
	if T.convert {
		T.units = flags.Converter()
		if err := T.units.Validate(); err != nil {
			return nil, Error{err.Error(), filename, []string{"New"}, true, ErrInvalidArgument}
		}
	}
	T.frame, _ = NewFrame(natoms)
	if err := T.Open(filename); err != nil {
		return nil, errDecorate(err, "New")
	}
	runtime.SetFinalizer(T, func(T *TRZObj) {
		T.close()
	})
	return T, nil
}

// ProbeNumAtoms returns the number of atoms declared in the first frame of the TRZ file filename.
func ProbeNumAtoms(filename string) (int, error) {
	src, err := openSource(filename, "ProbeNumAtoms")
	if err != nil {
		return 0, err
	}
	defer src.Close()
	h, err := readHeader(src)
	if err != nil {
		return 0, classify(err, filename, "ProbeNumAtoms")
	}
	fh, err := newRecordReader(src, h.ByteOrder).frameHead()
	if err != nil {
		return 0, classify(err, filename, "ProbeNumAtoms")
	}
	return int(fh.natoms), nil
}

// Open opens path and reads its header, leaving the object ready to read the first frame.
// It fails if the object already holds an open stream. The cached frame count and
// time step are discarded.
func (T *TRZObj) Open(path string) error {
	if T.src != nil {
		return Error{fmt.Sprintf("%s is open, close it first", T.filename), path, []string{"Open"}, true, ErrAlreadyOpen}
	}
	T.filename = path
	T.nframes = -1
	T.deltaKnown = false
	return errDecorate(T.reopen(), "Open")
}

func openSource(path, caller string) (*source, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Error{UnableToOpen, path, []string{caller}, true, ErrNotFound}
		}
		return nil, Error{UnableToOpen + ": " + err.Error(), path, []string{caller}, true, err}
	}
	src, err := prepSource(path)
	if err != nil {
		return nil, Error{UnableToOpen + ": " + err.Error(), path, []string{caller}, true, err}
	}
	return src, nil
}

// reopen opens T.filename and reads the header. The caches are kept.
func (T *TRZObj) reopen() error {
	src, err := openSource(T.filename, "reopen")
	if err != nil {
		return err
	}
	h, err := readHeader(src)
	if err != nil {
		src.Close()
		return classify(err, T.filename, "reopen")
	}
	T.src = src
	T.header = h
	T.rr = newRecordReader(src, h.ByteOrder)
	T.state = HeaderRead
	T.index = 0
	T.frame.Index = 0
	T.frame.Time = 0
	Logger.Debug().Str("file", T.filename).Str("title", h.Title).Int32("nrec", h.NRec).Msg("Opened TRZ file")
	return nil
}

// classify turns the errors from the record reader into errors of this package.
func classify(err error, filename, caller string) error {
	var c corruptError
	switch {
	case errors.Is(err, errShortRead):
		return Error{"file too short for a TRZ header", filename, []string{caller}, true, ErrCorruptRecord}
	case errors.As(err, &c):
		return Error{c.msg, filename, []string{caller}, true, ErrCorruptRecord}
	}
	return Error{ReadError + ": " + err.Error(), filename, []string{caller}, true, err}
}

func (T *TRZObj) close() error {
	T.state = Closed
	if T.src == nil {
		return nil
	}
	err := T.src.Close()
	T.src = nil
	T.rr = nil
	return err
}

// Close closes the underlying file. The object can be opened again with Open.
func (T *TRZObj) Close() error {
	if err := T.close(); err != nil {
		return Error{err.Error(), T.filename, []string{"Close"}, true, err}
	}
	return nil
}

// ReadFrame reads the next frame into F, which must have as many atoms as the trajectory.
// On success F.Index is the number of frames read since the last Open or Rewind.
// At the end of the trajectory, it returns an error matching ErrEndOfStream (and implementing
// chem.LastFrameError), and every further call does the same until Rewind is called.
// If an error is returned, F may have been partially overwritten.
func (T *TRZObj) ReadFrame(F *Frame) error {
	if F == nil {
		return Error{NilFrame, T.filename, []string{"ReadFrame"}, true, ErrInvalidArgument}
	}
	if F.Len() != T.natoms {
		return Error{fmt.Sprintf("%s: frame has %d atoms, trajectory %d", WrongNumAtoms, F.Len(), T.natoms), T.filename, []string{"ReadFrame"}, true, ErrInvalidArgument}
	}
	switch T.state {
	case Closed:
		return Error{TrajUnIniRead, T.filename, []string{"ReadFrame"}, true, ErrNotReadable}
	case EndOfStream:
		return newlastFrameError(T.filename, "ReadFrame")
	}
	if err := T.rr.frame(F, T.natoms); err != nil {
		T.state = EndOfStream
		if errors.Is(err, errShortRead) {
			return newlastFrameError(T.filename, "ReadFrame")
		}
		var c corruptError
		if errors.As(err, &c) {
			return Error{fmt.Sprintf("frame %d: %s", T.index+1, c.msg), T.filename, []string{"ReadFrame"}, true, ErrCorruptRecord}
		}
		return Error{ReadError + ": " + err.Error(), T.filename, []string{"ReadFrame"}, true, err}
	}
	if T.convert {
		if err := T.fromNative(F); err != nil {
			return Error{err.Error(), T.filename, []string{"ReadFrame"}, true, ErrInvalidArgument}
		}
	}
	T.index++
	F.Index = T.index
	T.state = FrameReady
	return nil
}

// fromNative converts the lengths, velocities and time in F from the TRZ units.
func (T *TRZObj) fromNative(F *Frame) error {
	if err := units.PositionsFromNative(T.units, NativeLength, F.pos[0], F.pos[1], F.pos[2]); err != nil {
		return err
	}
	if err := units.PositionsFromNative(T.units, NativeLength, F.UnitCell[:]); err != nil {
		return err
	}
	if err := units.VelocitiesFromNative(T.units, NativeVelocity, F.vel[0], F.vel[1], F.vel[2]); err != nil {
		return err
	}
	t, err := T.units.TimeFromNative(F.Time, NativeTime)
	if err != nil {
		return err
	}
	F.Time = t
	return nil
}

// Next reads the next frame into the current frame (see Frame) and puts its
// coordinates in output, unless output is nil. If a box slice is given, the 9 elements
// of the unit cell are copied into it.
func (T *TRZObj) Next(output *v3.Matrix, box ...[]float64) error {
	if err := T.ReadFrame(T.frame); err != nil {
		return errDecorate(err, "Next")
	}
	if output != nil {
		if err := T.frame.Coords(output); err != nil {
			return errDecorate(err, "Next")
		}
	}
	if len(box) > 0 && box[0] != nil {
		if len(box[0]) < len(T.frame.UnitCell) {
			return Error{fmt.Sprintf("box needs %d elements, got %d", len(T.frame.UnitCell), len(box[0])), T.filename, []string{"Next"}, true, ErrInvalidArgument}
		}
		copy(box[0], T.frame.UnitCell[:])
	}
	return nil
}

// Frame returns the current frame. The same frame is overwritten by every call to Next,
// use its Copy method to keep it.
func (T *TRZObj) Frame() *Frame {
	return T.frame
}

// Rewind reopens the file and reads the header again. After it, the object is ready to
// read the first frame, and the current frame has Index 0.
func (T *TRZObj) Rewind() error {
	if T.filename == "" {
		return Error{TrajUnIniRead, "", []string{"Rewind"}, true, ErrNotReadable}
	}
	if err := T.close(); err != nil {
		Logger.Debug().Err(err).Str("file", T.filename).Msg("Error closing TRZ file for rewind")
	}
	return errDecorate(T.reopen(), "Rewind")
}

// Frames returns an iterator over the frames of the trajectory, starting from the first one.
// The yielded frame is the current frame (see Frame). The iteration stops at the end of the
// trajectory, or at the first error, which is then returned by Err. When it finishes,
// the object is rewound.
func (T *TRZObj) Frames() iter.Seq[*Frame] {
	return func(yield func(*Frame) bool) {
		T.err = nil
		if err := T.Rewind(); err != nil {
			T.err = errDecorate(err, "Frames")
			return
		}
		defer func() {
			if err := T.Rewind(); err != nil && T.err == nil {
				T.err = errDecorate(err, "Frames")
			}
		}()
		for {
			if err := T.ReadFrame(T.frame); err != nil {
				if !errors.Is(err, ErrEndOfStream) {
					T.err = errDecorate(err, "Frames")
				}
				return
			}
			if !yield(T.frame) {
				return
			}
		}
	}
}

// Err returns the error that stopped the last iteration over Frames, or nil if
// it reached the end of the trajectory.
func (T *TRZObj) Err() error {
	return T.err
}

// scan reads the file from its first frame on a stream of its own, and calls f with every
// frame until it returns false or the trajectory ends. The stream of T, its state and its
// current frame are not touched.
func (T *TRZObj) scan(caller string, f func(*Frame) bool) error {
	if T.scratch == nil {
		T.scratch, _ = NewFrame(T.natoms)
	}
	src, err := openSource(T.filename, caller)
	if err != nil {
		return err
	}
	defer src.Close()
	h, err := readHeader(src)
	if err != nil {
		return classify(err, T.filename, caller)
	}
	rr := newRecordReader(src, h.ByteOrder)
	for i := 1; ; i++ {
		err := rr.frame(T.scratch, T.natoms)
		if errors.Is(err, errShortRead) {
			return nil
		}
		if err != nil {
			return classify(err, T.filename, caller)
		}
		if T.convert {
			if err := T.fromNative(T.scratch); err != nil {
				return Error{err.Error(), T.filename, []string{caller}, true, ErrInvalidArgument}
			}
		}
		T.scratch.Index = i
		if !f(T.scratch) {
			return nil
		}
	}
}

// NumAtoms returns the number of atoms per frame.
func (T *TRZObj) NumAtoms() int {
	return T.natoms
}

// DeclaredNumAtoms returns the number of atoms the first frame of the file declares.
// The object is not affected.
func (T *TRZObj) DeclaredNumAtoms() (int, error) {
	n, err := ProbeNumAtoms(T.filename)
	return n, errDecorate(err, "DeclaredNumAtoms")
}

// NumFrames returns the number of frames in the trajectory, which is read completely
// the first time NumFrames is called, on a separate stream, so it can be called while
// iterating. NumFrames returns 0 if the trajectory can't be read.
func (T *TRZObj) NumFrames() int {
	if T.nframes >= 0 {
		return T.nframes
	}
	n := 0
	err := T.scan("NumFrames", func(*Frame) bool {
		n++
		return true
	})
	if err != nil {
		Logger.Debug().Err(err).Str("file", T.filename).Msg("Couldn't count frames")
		return 0
	}
	T.nframes = n
	return n
}

// Delta returns the time between the first two frames, which are read to obtain it, on a
// separate stream, the first time Delta is called. Delta returns 0 if the trajectory has
// less than 2 frames or can't be read.
func (T *TRZObj) Delta() float64 {
	if T.deltaKnown {
		return T.delta
	}
	times := make([]float64, 0, 2)
	err := T.scan("Delta", func(F *Frame) bool {
		times = append(times, F.Time)
		return len(times) < 2
	})
	if err != nil || len(times) < 2 {
		Logger.Debug().Err(err).Str("file", T.filename).Int("frames", len(times)).Msg("Couldn't obtain time step")
		return 0
	}
	T.delta = times[1] - times[0]
	T.deltaKnown = true
	return T.delta
}

// Len returns the number of atoms per frame.
func (T *TRZObj) Len() int {
	return T.natoms
}

// Readable returns true if the object is ready to read a frame. It doesn't guarantee
// that there is something to read.
func (T *TRZObj) Readable() bool {
	return T.state == HeaderRead || T.state == FrameReady
}

func (T *TRZObj) State() State { return T.state }

func (T *TRZObj) Filename() string { return T.filename }

// Header returns the contents of the file header.
func (T *TRZObj) Header() Header { return T.header }

// ConvertUnits returns true if the values read are converted from the native TRZ units.
func (T *TRZObj) ConvertUnits() bool { return T.convert }

var _ chem.Traj = (*TRZObj)(nil)
