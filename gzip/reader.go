// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package gzip

import (
	"hash/crc32"
	"io"

	"github.com/dsnet/gzip/flate"
)

// Reader is an io.Reader that decompresses a sequence of one or more
// concatenated GZIP members into their original uncompressed byte stream.
//
// The zero value of Reader is not usable until Reset is called.
type Reader struct {
	Header // Metadata of the most recently parsed member

	InputOffset  int64 // Total number of bytes read from the underlying io.Reader
	OutputOffset int64 // Total number of bytes emitted from Read

	r           io.Reader
	rd          byteReader
	multistream bool

	fr       *flate.Reader // DEFLATE decoder for the current member
	crc      uint32        // Running CRC-32 of the current member's output
	size     uint32        // Running ISIZE (mod 2^32) of the current member
	rdHdr    bool          // Have we parsed the current member's header?
	combined combinedDigest

	err error
}

// NewReader creates a new Reader reading the given reader, which is
// expected to hold a sequence of one or more concatenated GZIP members,
// per RFC 1952. NewReader returns an error if the first member's header
// cannot be validated; subsequent members are validated lazily as they
// are reached.
func NewReader(r io.Reader) (*Reader, error) {
	zr := new(Reader)
	if err := zr.Reset(r); err != nil {
		return nil, err
	}
	return zr, nil
}

// Multistream controls whether the Reader supports multiple concatenated
// GZIP members, as produced by tools like `cat a.gz b.gz`. It is enabled
// by default. Disabling it causes Read to return io.EOF after the first
// member's trailer, leaving any trailing bytes unconsumed.
func (zr *Reader) Multistream(ok bool) { zr.multistream = ok }

// Reset discards the Reader's state and makes it equivalent to the result
// of its original state from NewReader, but reading from r instead. This
// permits reusing a Reader rather than allocating a new one.
func (zr *Reader) Reset(r io.Reader) error {
	*zr = Reader{r: r, rd: byteReader{r: r}, fr: zr.fr, multistream: true}
	return zr.nextHeader()
}

// nextHeader parses the next member's header and arms the DEFLATE decoder.
// It returns io.EOF if the input is exhausted at a member boundary.
func (zr *Reader) nextHeader() (err error) {
	defer errRecover(&err)

	zr.Header = Header{}
	zr.crc, zr.size = 0, 0
	zr.readHeader()
	if zr.fr == nil {
		zr.fr = flate.NewReader(&zr.rd)
	} else {
		zr.fr.Reset(&zr.rd)
	}
	zr.rdHdr = true
	return nil
}

// Read implements io.Reader, decompressing the current member's DEFLATE
// payload and, upon reaching its end, validating the 8-byte trailer
// (CRC32 and ISIZE) before optionally advancing to the next member.
func (zr *Reader) Read(buf []byte) (int, error) {
	for {
		if zr.err != nil {
			return 0, zr.err
		}

		cnt, err := zr.fr.Read(buf)
		if cnt > 0 {
			zr.crc = crc32.Update(zr.crc, crc32.IEEETable, buf[:cnt])
			zr.size += uint32(cnt)
			zr.combined.update(buf[:cnt])
			zr.OutputOffset += int64(cnt)
			zr.InputOffset = zr.rd.total
			return cnt, nil
		}
		if err == nil {
			continue
		}
		if err != io.EOF {
			zr.err = err
			return 0, zr.err
		}

		// End of the current member's DEFLATE stream: validate the trailer.
		if verr := zr.readTrailer(); verr != nil {
			zr.err = verr
			return 0, zr.err
		}
		zr.combined.finishMember()
		zr.InputOffset = zr.rd.total

		if !zr.multistream {
			zr.err = io.EOF
			return 0, zr.err
		}

		// Peek for the next member. Per RFC 1952, a concatenation of
		// members simply continues; anything else (including a clean EOF
		// or a short, non-magic trailing byte) marks the end of the
		// stream, not an error.
		id1, e1 := zr.rd.TryReadByte()
		if e1 != nil {
			zr.err = io.EOF
			return 0, zr.err
		}
		id2, e2 := zr.rd.TryReadByte()
		if e2 != nil || id1 != gzipID1 || id2 != gzipID2 {
			zr.err = io.EOF
			return 0, zr.err
		}
		zr.rd.unread(id1, id2)

		if nerr := zr.nextHeader(); nerr != nil {
			zr.err = nerr
			return 0, zr.err
		}
	}
}

// readTrailer reads and validates the 8-byte GZIP trailer (CRC32, ISIZE),
// per RFC 1952 section 2.3.1.
func (zr *Reader) readTrailer() (err error) {
	defer errRecover(&err)

	var gotCRC, gotSize uint32
	gotCRC |= uint32(zr.rd.mustByte()) << 0
	gotCRC |= uint32(zr.rd.mustByte()) << 8
	gotCRC |= uint32(zr.rd.mustByte()) << 16
	gotCRC |= uint32(zr.rd.mustByte()) << 24
	gotSize |= uint32(zr.rd.mustByte()) << 0
	gotSize |= uint32(zr.rd.mustByte()) << 8
	gotSize |= uint32(zr.rd.mustByte()) << 16
	gotSize |= uint32(zr.rd.mustByte()) << 24

	if gotCRC != zr.crc {
		return ErrChecksumMismatch
	}
	if gotSize != zr.size {
		return ErrSizeMismatch
	}
	return nil
}

// Close terminates decompression. Calling Close does not close the
// underlying io.Reader.
func (zr *Reader) Close() error {
	if zr.err == io.EOF {
		zr.err = io.ErrClosedPipe
		return nil
	}
	return zr.err
}
