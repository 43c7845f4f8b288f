// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import (
	"bytes"
	"io"
	"os"
	"strings"
)

// peekDiscarder is the subset of *bufio.Reader that bitReader relies on to
// fill its bit buffer in bulk. Wrapping the common in-memory Reader types
// with an implementation of this interface lets FeedBits avoid the
// byte-at-a-time ReadByte path even when the caller did not wrap its input
// in a bufio.Reader itself.
type peekDiscarder interface {
	Buffered() int
	Peek(n int) ([]byte, error)
	Discard(n int) (int, error)
}

// bufBuffer adapts a *bytes.Buffer to peekDiscarder.
type bufBuffer struct {
	*bytes.Buffer
}

func (r *bufBuffer) Buffered() int { return r.Len() }

func (r *bufBuffer) Peek(n int) ([]byte, error) {
	b := r.Bytes()
	if len(b) < n {
		return b, io.EOF
	}
	return b[:n], nil
}

func (r *bufBuffer) Discard(n int) (int, error) {
	b := r.Next(n)
	if len(b) < n {
		return len(b), io.EOF
	}
	return n, nil
}

// bytesSource adapts a *bytes.Reader to peekDiscarder.
type bytesSource struct {
	*bytes.Reader
	pos int64
	buf []byte
	arr [512]byte
}

func (r *bytesSource) Buffered() int {
	if n := int(r.Size()) - int(r.pos); n < len(r.buf) {
		if n < 0 {
			n = 0
		}
		return n
	}
	return len(r.buf)
}

func (r *bytesSource) Peek(n int) ([]byte, error) {
	if n > len(r.arr) {
		return nil, io.ErrShortBuffer
	}
	pos, _ := r.Seek(0, os.SEEK_CUR)
	if off := pos - r.pos; off > 0 && off < int64(len(r.buf)) {
		r.buf, r.pos = r.buf[off:], pos
	}
	if len(r.buf) >= n && r.pos == pos {
		return r.buf[:n], nil
	}
	cnt, err := r.ReadAt(r.arr[:], pos)
	r.buf, r.pos = r.arr[:cnt], pos
	if cnt < n {
		return r.arr[:cnt], err
	}
	return r.arr[:n], nil
}

func (r *bytesSource) Discard(n int) (int, error) {
	var err error
	pos, _ := r.Seek(0, os.SEEK_CUR)
	remaining := r.Size() - pos
	if int64(n) > remaining {
		n, err = int(remaining), io.EOF
	}
	r.Seek(int64(n), os.SEEK_CUR)
	return n, err
}

// stringsSource adapts a *strings.Reader to peekDiscarder.
type stringsSource struct {
	*strings.Reader
	pos int64
	buf []byte
	arr [512]byte
}

func (r *stringsSource) Buffered() int {
	if n := int(r.Size()) - int(r.pos); n < len(r.buf) {
		if n < 0 {
			n = 0
		}
		return n
	}
	return len(r.buf)
}

func (r *stringsSource) Peek(n int) ([]byte, error) {
	if n > len(r.arr) {
		return nil, io.ErrShortBuffer
	}
	pos, _ := r.Seek(0, os.SEEK_CUR)
	if off := pos - r.pos; off > 0 && off < int64(len(r.buf)) {
		r.buf, r.pos = r.buf[off:], pos
	}
	if len(r.buf) >= n && r.pos == pos {
		return r.buf[:n], nil
	}
	cnt, err := r.ReadAt(r.arr[:], pos)
	r.buf, r.pos = r.arr[:cnt], pos
	if cnt < n {
		return r.arr[:cnt], err
	}
	return r.arr[:n], nil
}

func (r *stringsSource) Discard(n int) (int, error) {
	var err error
	pos, _ := r.Seek(0, os.SEEK_CUR)
	remaining := r.Size() - pos
	if int64(n) > remaining {
		n, err = int(remaining), io.EOF
	}
	r.Seek(int64(n), os.SEEK_CUR)
	return n, err
}
