// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package gzip

import (
	"hash/crc32"
	"time"
)

// Header contains the metadata fields stored in the GZIP file header, as
// described in RFC 1952 section 2.3.1.
type Header struct {
	Name    string    // Original file name, empty if absent (FLG.FNAME)
	Comment string    // Free-form comment, empty if absent (FLG.FCOMMENT)
	Extra   []byte    // FEXTRA subfield payload, nil if absent (FLG.FEXTRA)
	ModTime time.Time // MTIME as a modification time; zero if MTIME == 0
	OS      byte      // OS identifier that produced the stream
	Text    bool      // FLG.FTEXT: hint that the payload is ASCII text
	Extra16 uint16    // XLEN as read from the FEXTRA subfield, for debugging

	hdrCRCValid bool // Set only if FLG.FHCRC was present; not fatal if false
}

// readHeader parses the fixed and variable-length GZIP header fields
// according to RFC 1952 section 2.3.1, leaving the bit reader aligned at
// the start of the DEFLATE payload.
func (zr *Reader) readHeader() {
	id1, err := zr.rd.TryReadByte()
	if err != nil {
		panic(err) // io.EOF if the input ends at a member boundary
	}
	if id1 != gzipID1 || zr.rd.mustByte() != gzipID2 {
		panic(ErrBadMagic)
	}
	if cm := zr.rd.mustByte(); cm != gzipDeflate {
		panic(ErrUnsupportedMethod)
	}
	flg := zr.rd.mustByte()
	if flg&flagReserved != 0 {
		panic(ErrReservedFlag)
	}

	var mtime uint32
	mtime |= uint32(zr.rd.mustByte()) << 0
	mtime |= uint32(zr.rd.mustByte()) << 8
	mtime |= uint32(zr.rd.mustByte()) << 16
	mtime |= uint32(zr.rd.mustByte()) << 24
	if mtime > 0 {
		zr.Header.ModTime = time.Unix(int64(mtime), 0)
	} else {
		zr.Header.ModTime = time.Time{}
	}

	xfl := zr.rd.mustByte() // XFL, not surfaced
	zr.Header.OS = zr.rd.mustByte()
	zr.Header.Text = flg&flagText != 0

	var hdr []byte
	hdr = append(hdr, gzipID1, gzipID2, gzipDeflate, flg)
	hdr = append(hdr, byte(mtime), byte(mtime>>8), byte(mtime>>16), byte(mtime>>24))
	hdr = append(hdr, xfl, zr.Header.OS)

	if flg&flagExtra != 0 {
		xlen := uint16(zr.rd.mustByte()) | uint16(zr.rd.mustByte())<<8
		zr.Header.Extra16 = xlen
		extra := make([]byte, xlen)
		for i := range extra {
			extra[i] = zr.rd.mustByte()
		}
		zr.Header.Extra = extra
	}
	if flg&flagName != 0 {
		zr.Header.Name = zr.readCString()
	}
	if flg&flagComment != 0 {
		zr.Header.Comment = zr.readCString()
	}
	if flg&flagHdrCRC != 0 {
		if flg&flagExtra != 0 {
			hdr = append(hdr, byte(zr.Header.Extra16), byte(zr.Header.Extra16>>8))
			hdr = append(hdr, zr.Header.Extra...)
		}
		if flg&flagName != 0 {
			hdr = append(append(hdr, zr.Header.Name...), 0)
		}
		if flg&flagComment != 0 {
			hdr = append(append(hdr, zr.Header.Comment...), 0)
		}
		wantCRC := uint16(zr.rd.mustByte()) | uint16(zr.rd.mustByte())<<8
		gotCRC := uint16(crc32.ChecksumIEEE(hdr))
		// FHCRC verification is explicitly optional per RFC 1952 section
		// 2.3.1; record the mismatch but do not treat it as fatal.
		zr.Header.hdrCRCValid = wantCRC == gotCRC
	}
}

// readCString reads a NUL-terminated string, as used for FNAME and FCOMMENT.
func (zr *Reader) readCString() string {
	var buf []byte
	for {
		c := zr.rd.mustByte()
		if c == 0 {
			break
		}
		buf = append(buf, c)
	}
	return string(buf)
}
