// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package gzip

import (
	"fmt"
	"hash/crc32"

	"github.com/dsnet/golib/hashutil"
	"github.com/dsnet/golib/strconv"
)

// combinedDigest tracks a CRC-32 and byte count across every member decoded
// by a Reader so far, combining each member's independently-computed CRC
// into a single running value using the standard CRC combination identity
// rather than recomputing over the concatenation of all output.
type combinedDigest struct {
	crc        uint32
	size       int64
	memberCRC  uint32
	memberSize int64
	anyMember  bool
}

// update folds newly emitted bytes of the current member into its CRC.
func (d *combinedDigest) update(b []byte) {
	d.memberCRC = crc32.Update(d.memberCRC, crc32.IEEETable, b)
	d.memberSize += int64(len(b))
}

// finishMember combines the just-completed member's CRC into the running
// total and resets the per-member accumulators.
func (d *combinedDigest) finishMember() {
	if !d.anyMember {
		d.crc, d.size, d.anyMember = d.memberCRC, d.memberSize, true
	} else {
		d.crc = hashutil.CombineCRC32(crc32.IEEE, d.crc, d.memberCRC, d.memberSize)
		d.size += d.memberSize
	}
	d.memberCRC, d.memberSize = 0, 0
}

// CombinedCRC32 reports the CRC-32 of all member payloads decoded so far,
// as if they had been concatenated into a single uncompressed stream.
func (zr *Reader) CombinedCRC32() uint32 { return zr.combined.crc }

// CombinedSize reports the total number of uncompressed bytes produced
// across every member decoded so far.
func (zr *Reader) CombinedSize() int64 { return zr.combined.size }

// Stats returns a short human-readable summary of the reader's progress,
// suitable for a debug log line, with the byte count rendered using
// IEC binary prefixes (e.g. "128.0Ki").
func (zr *Reader) Stats() string {
	sz := strconv.FormatPrefix(float64(zr.combined.size), strconv.Base1024, 1)
	return fmt.Sprintf("gzip: decoded %sB (crc32=%08x) across this stream", sz, zr.combined.crc)
}
