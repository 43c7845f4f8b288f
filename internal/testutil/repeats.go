// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

// GenerateRepeats returns deterministic pseudo-random data that heavily
// favors LZ77 style back-references: most of the output is a copy from
// some earlier offset, with occasional runs of fresh random bytes. This
// is adapted from the repeats.bin generator, producing the data in memory
// instead of requiring a pre-built fixture file so that back-reference
// boundary cases (short and long distances, long matches, overlap runs)
// are exercised without checking binary blobs into the tree.
func GenerateRepeats(seed, size int) []byte {
	r := NewRand(seed)

	randLen := func() (l int) {
		p := r.Int() % 100
		switch {
		case p <= 15: // 4..8
			l = 4 + r.Int()%4
		case p <= 30: // 8..16
			l = 8 + r.Int()%8
		case p <= 45: // 16..32
			l = 16 + r.Int()%16
		case p <= 60: // 32..64
			l = 32 + r.Int()%32
		case p <= 75: // 64..128
			l = 64 + r.Int()%64
		case p <= 90: // 128..256
			l = 128 + r.Int()%128
		default: // 256..512
			l = 256 + r.Int()%256
		}
		return l
	}

	var b []byte

	randDist := func() (d int) {
		for d == 0 || d > len(b) {
			p := r.Int() % 100
			switch {
			case p <= 10:
				d = 1
			case p <= 20:
				d = 2 + r.Int()%2
			case p <= 30:
				d = 4 + r.Int()%4
			case p <= 40:
				d = 8 + r.Int()%8
			case p <= 50:
				d = 16 + r.Int()%16
			case p <= 60:
				d = 32 + r.Int()%32
			case p <= 70:
				d = 64 + r.Int()%64
			case p <= 80:
				d = 256 + r.Int()%256
			case p <= 90:
				d = 1024 + r.Int()%1024
			default:
				d = 4096 + r.Int()%4096
			}
		}
		return d
	}

	writeRand := func(l int) {
		for i := 0; i < l; i++ {
			b = append(b, byte(r.Int()))
		}
	}
	writeCopy := func(d, l int) {
		for i := 0; i < l; i++ {
			b = append(b, b[len(b)-d])
		}
	}

	writeRand(randLen())
	for len(b) < size {
		p := r.Int() % 100
		switch {
		case p <= 10:
			writeRand(randLen())
		case p <= 90 && len(b) > 4: // A copy with d > l needs more than 4 bytes of history
			d, l := randDist(), randLen()
			for d <= l {
				d, l = randDist(), randLen()
			}
			writeCopy(d, l)
		default:
			writeCopy(randDist(), randLen())
		}
	}
	return b[:size]
}
