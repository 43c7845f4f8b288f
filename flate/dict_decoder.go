// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

// dictDecoder implements the LZ77 sliding dictionary as used in decompression.
// LZ77 decompresses data through sequences of two forms of commands:
//
//   - Literal insertions: Runs of one or more literals are inserted into
//     the data stream as is. This is accomplished through the WriteByte
//     method for a single literal, or combined with a WriteSlice call
//     for multiple literals. Any valid stream must start with a literal
//     insertion if the stream has any output at all.
//
//   - Backward copies: Runs of one or more literals that are copied from
//     earlier in the decompressed data stream. Copies come as the tuple
//     (dist, length) where dist determines how far back in the stream to
//     copy from and length determines the number of bytes to copy. Note
//     that it is valid for the copy to reference a sequence of bytes that
//     were itself copied from an earlier part of the stream, possibly
//     even referencing a distance that overlaps with the current copy
//     (which WriteCopy handles with the same result as a byte-by-byte copy).
//
// Internally, the dictionary is represented as a ring buffer of
// HistSize() bytes, which is large enough to hold the maximum back
// reference distance used by the format.
type dictDecoder struct {
	hist []byte // Sliding window history

	// Cursor into the history, since the history was last read.
	rdPos int
	wrPos int
	full  bool // Has a full window slid passed through the dict?

	total int64 // Total number of bytes decompressed so far
}

// Init initializes dictDecoder to have a sliding window dictionary of the
// given size. If a preset dict is provided, it is loaded into the dictionary.
func (dd *dictDecoder) Init(size int, dict []byte) {
	*dd = dictDecoder{hist: dd.hist}
	if cap(dd.hist) < size {
		dd.hist = make([]byte, size)
	}
	dd.hist = dd.hist[:size]

	if len(dict) > len(dd.hist) {
		dict = dict[len(dict)-len(dd.hist):]
	}
	dd.wrPos = copy(dd.hist, dict)
	if dd.wrPos == len(dd.hist) {
		dd.wrPos = 0
		dd.full = true
	}
	dd.rdPos = dd.wrPos
}

// HistSize reports the total amount of historical data in the dictionary.
func (dd *dictDecoder) HistSize() int {
	if dd.full {
		return len(dd.hist)
	}
	return dd.wrPos
}

// AvailSize reports the available amount of output buffer space.
func (dd *dictDecoder) AvailSize() int {
	return len(dd.hist) - dd.wrPos
}

// WriteSlice returns a slice of the available buffer to write data to.
//
// This invalidates any previously returned slice from WriteSlice.
func (dd *dictDecoder) WriteSlice() []byte {
	return dd.hist[dd.wrPos:]
}

// WriteMark advances the internal write pointer by cnt, which is used to
// report the number of bytes written by the caller using a slice returned
// by WriteSlice.
func (dd *dictDecoder) WriteMark(cnt int) {
	dd.wrPos += cnt
	dd.total += int64(cnt)
}

// WriteByte writes a single byte to the dictionary.
func (dd *dictDecoder) WriteByte(c byte) {
	dd.hist[dd.wrPos] = c
	dd.wrPos++
	dd.total++
}

// WriteCopy copies a string at a given (dist, length) to the output history.
// This returns the number of bytes copied and may be less than the request
// if the available space in the output buffer is too small.
//
// As a special case, if dist is 1, then this method copies the previous
// byte length times, producing a run of a single repeated byte.
func (dd *dictDecoder) WriteCopy(dist, length int) int {
	dstBase := dd.wrPos
	dstPos := dstBase
	srcPos := dstPos - dist
	endPos := dstPos + length
	if endPos > len(dd.hist) {
		endPos = len(dd.hist)
	}

	// Copy non-overlapping section after the destination position.
	//
	// This only happens when the source wraps around to the end of the ring
	// buffer, so the source lies entirely after the destination and the two
	// regions cannot overlap.
	if srcPos < 0 {
		srcPos += len(dd.hist)
		dstPos += copy(dd.hist[dstPos:endPos], dd.hist[srcPos:])
		srcPos = 0
	}

	// Copy possibly overlapping section before the destination position.
	//
	// Each pass copies at most (dstPos - srcPos) bytes, all of which are
	// already written, so the result equals a byte-by-byte forward copy.
	for dstPos < endPos {
		dstPos += copy(dd.hist[dstPos:endPos], dd.hist[srcPos:dstPos])
	}

	dd.wrPos = dstPos
	dd.total += int64(dstPos - dstBase)
	return dstPos - dstBase
}

// ReadFlush returns a slice of the historical buffer that is ready to be
// emitted to the user. The data returned by ReadFlush must be fully consumed
// before calling any other dictDecoder methods.
func (dd *dictDecoder) ReadFlush() []byte {
	toRead := dd.hist[dd.rdPos:dd.wrPos]
	dd.rdPos = dd.wrPos
	if dd.wrPos == len(dd.hist) {
		dd.wrPos, dd.rdPos, dd.full = 0, 0, true
	}
	return toRead
}

// TotalLen reports the total number of decompressed bytes that have passed
// through the dictionary, used to validate the ISIZE trailer field.
func (dd *dictDecoder) TotalLen() int64 {
	return dd.total
}

// Tail returns up to the last k bytes emitted from the dictionary, counting
// both data already flushed via ReadFlush and data still pending flush.
// It never panics if fewer than k bytes have been produced.
func (dd *dictDecoder) Tail(k int) []byte {
	if k > len(dd.hist) {
		k = len(dd.hist)
	}
	if int64(k) > dd.total {
		k = int(dd.total)
	}
	p := dd.wrPos - k
	if p >= 0 {
		return dd.hist[p:dd.wrPos]
	}
	// Wraps around the ring buffer.
	buf := make([]byte, k)
	n := copy(buf, dd.hist[len(dd.hist)+p:])
	copy(buf[n:], dd.hist[:dd.wrPos])
	return buf
}
