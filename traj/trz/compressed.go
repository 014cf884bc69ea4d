/*
 * compressed.go, part of gotrz
 *
 * Copyright 2012 Raul Mera Adasme <rmera_changeforat_chem-dot-helsinki-dot-fi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License  as published by
 * the Free Software Foundation; either version 2.1 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston,
 * MA 02110-1301, USA.
 */

package trz

import (
	"bufio"
	"compress/lzw"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	lzwOrder        = lzw.MSB
	lzwLitwidth int = 8
)

// source is an open trajectory file, possibly behind a decompressor.
type source struct {
	f  *os.File
	dc io.ReadCloser //the decompressor, nil for plain files
	r  *bufio.Reader
}

func (s *source) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

// Close closes the decompressor, if any, and the file.
func (s *source) Close() error {
	var err error
	if s.dc != nil {
		err = s.dc.Close()
	}
	if err2 := s.f.Close(); err == nil {
		err = err2
	}
	return err
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

// Compression returns the compression format that will be assumed for fname,
// from its extension: "zstd", "gzip", "flate", "lzw" or "" (not compressed).
func Compression(fname string) string {
	switch strings.ToLower(filepath.Ext(fname)) {
	case ".zst", ".zstd":
		return "zstd"
	case ".gz":
		return "gzip"
	case ".flate", ".z":
		return "flate"
	case ".lzw":
		return "lzw"
	}
	return ""
}

// prepSource opens fname and returns an object that will read data from the file,
// either 'as is' or decompressing first, depending on the file extension (see Compression).
// If the extension is not a TRZ one, a message is logged and a plain TRZ file is assumed.
// prepSource only returns an error if the file can't be opened or the decompressor can't
// be set up.
func prepSource(fname string) (*source, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	s := &source{f: f}
	reader := bufio.NewReader(f)
	switch Compression(fname) {
	case "zstd":
		d, err := zstd.NewReader(reader)
		if err != nil {
			f.Close()
			return nil, err
		}
		s.dc = zstdCloser{d}
	case "gzip":
		g, err := gzip.NewReader(reader)
		if err != nil {
			f.Close()
			return nil, err
		}
		s.dc = g
	case "flate":
		s.dc = flate.NewReader(reader)
	case "lzw":
		s.dc = lzw.NewReader(reader, lzwOrder, lzwLitwidth)
	default:
		if ext := strings.ToLower(filepath.Ext(fname)); ext != ".trz" {
			Logger.Warn().Str("file", fname).Str("extension", ext).Msg("Extension not supported, will assume a plain TRZ file")
		}
		s.r = reader
		return s, nil
	}
	s.r = bufio.NewReader(s.dc)
	return s, nil
}
