// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package gzip

import "io"

// byteReader adapts an io.Reader to the byte-at-a-time access that header
// and trailer parsing need, while still satisfying io.Reader so the same
// value can be handed to flate.NewReader for the DEFLATE payload in between.
//
// It supports pushing back up to two bytes, which Reader.Read uses to peek
// at the next member's magic number without consuming it if it turns out
// not to start a new member. It also tracks the total number of bytes
// consumed from the underlying reader, across every member, for Reader's
// InputOffset field.
type byteReader struct {
	r         io.Reader
	unread2   [2]byte
	unreadLen int
	total     int64 // Bytes read from r; pushed-back bytes are not counted again when re-read
}

// mustByte reads a single byte, panicking with io.ErrUnexpectedEOF if the
// underlying reader is exhausted. This is meant to be called from within a
// function protected by errRecover.
func (br *byteReader) mustByte() byte {
	c, err := br.TryReadByte()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		panic(err)
	}
	return c
}

// ReadByte implements io.ByteReader, so that byteReader itself can be
// handed directly to flate.NewReader without an extra bufio wrapper: it
// lets the DEFLATE bit reader pull exactly as many bytes as it needs,
// keeping byteReader.total byte-exact instead of inflated by read-ahead
// buffering.
func (br *byteReader) ReadByte() (byte, error) { return br.TryReadByte() }

// TryReadByte reads a single byte without panicking, reporting io.EOF if
// the underlying reader is exhausted.
func (br *byteReader) TryReadByte() (byte, error) {
	if br.unreadLen > 0 {
		c := br.unread2[0]
		br.unread2[0] = br.unread2[1]
		br.unreadLen--
		return c, nil
	}
	var buf [1]byte
	n, err := io.ReadFull(br.r, buf[:])
	br.total += int64(n)
	return buf[0], err
}

// unread pushes back exactly two bytes, previously obtained from
// TryReadByte, to be returned again by the next calls to ReadByte, Read.
func (br *byteReader) unread(b1, b2 byte) {
	br.unread2[0], br.unread2[1] = b1, b2
	br.unreadLen = 2
}

// Read implements io.Reader, first draining any pushed-back bytes.
func (br *byteReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) && br.unreadLen > 0 {
		p[n] = br.unread2[0]
		br.unread2[0] = br.unread2[1]
		br.unreadLen--
		n++
	}
	if n > 0 {
		return n, nil
	}
	cnt, err := br.r.Read(p)
	br.total += int64(cnt)
	return cnt, err
}
