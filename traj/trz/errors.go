/*
 * errors.go, part of gotrz.
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

	chem "github.com/rmera/gotrz"
)

// Error kinds. Every error returned by this package matches one of these with errors.Is.
var (
	ErrNotFound        = errors.New("TRZ file not found")
	ErrAlreadyOpen     = errors.New("TRZ file already opened")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrEndOfStream     = errors.New("end of TRZ stream")
	ErrCorruptRecord   = errors.New("corrupt TRZ record")
	ErrNotReadable     = errors.New("TRZ trajectory not readable")
)

// errDecorate adds the caller's name to the decorations of err,
// if err is one of the errors of this package. Other errors are returned unchanged.
func errDecorate(err error, caller string) error {
	switch e := err.(type) {
	case Error:
		e.deco = append(e.deco, caller)
		return e
	case *lastFrameError:
		e.deco = append(e.deco, caller)
		return e
	}
	return err
}

// Error is the general structure for TRZ trajectory errors. It fullfills chem.Error and chem.TrajError
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
	kind     error
}

func (err Error) Error() string {
	return fmt.Sprintf("trz file %s error: %s", err.filename, err.message)
}

// Decorate Adds new information to the error
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the file to which the failing trajectory was associated
func (err Error) FileName() string { return err.filename }

// Format returns the format of the file (always "trz") associated to the error
func (err Error) Format() string { return "trz" }

// Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

// Unwrap returns the kind of the error, one of the Err* variables.
func (err Error) Unwrap() error { return err.kind }

const (
	TrajUnIniRead   = "Traj object uninitialized to read"
	ReadError       = "Error reading frame"
	UnableToOpen    = "Unable to open file"
	WrongNumAtoms   = "Number of atoms in frame doesn't match the trajectory's"
	NoAtoms         = "A TRZ trajectory needs the number of atoms, which must be taken from a topology"
	NilFrame        = "Given nil frame"
	NotEnoughSpace  = "Not enough space in passed blocks"
	EndOfStreamRead = "End of stream reached, rewind before reading again"
)

// lastFrameError implements chem.LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

// lastFrameError does nothing
func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) FileName() string { return E.fileName }

func (E *lastFrameError) Error() string { return "EOF" }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) Format() string { return "trz" }

func (E *lastFrameError) Unwrap() error { return ErrEndOfStream }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}

var (
	_ chem.TrajError      = Error{}
	_ chem.LastFrameError = (*lastFrameError)(nil)
)
