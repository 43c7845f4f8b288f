// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import (
	"bufio"
	"bytes"
	"io"
	"io/ioutil"
	"testing"

	// We rely on the standard library as the reference encoder for the
	// round-trip test since this package only implements a decoder.
	"compress/flate"

	"github.com/dsnet/gzip/internal/testutil"
)

func TestRoundTrip(t *testing.T) {
	var vectors = []struct {
		desc  string
		input []byte
	}{
		{desc: "empty", input: nil},
		{desc: "small random", input: testutil.NewRand(0).Bytes(37)},
		{desc: "large random", input: testutil.NewRand(1).Bytes(1 << 16)},
		{desc: "repeats", input: testutil.GenerateRepeats(2, 1<<17)},
		{desc: "zeros", input: make([]byte, 1<<15)},
		{desc: "all literals", input: []byte("the quick brown fox jumps over the lazy dog")},
	}

	for _, v := range vectors {
		var buf bytes.Buffer
		wr, err := flate.NewWriter(&buf, flate.DefaultCompression)
		if err != nil {
			t.Errorf("test %s, NewWriter error: got %v", v.desc, err)
			continue
		}
		cnt, err := io.Copy(wr, bytes.NewReader(v.input))
		if err != nil {
			t.Errorf("test %s, write error: got %v", v.desc, err)
		}
		if cnt != int64(len(v.input)) {
			t.Errorf("test %s, write count mismatch: got %d, want %d", v.desc, cnt, len(v.input))
		}
		if err := wr.Close(); err != nil {
			t.Errorf("test %s, close error: got %v", v.desc, err)
		}

		// Write a canary byte to ensure this does not get read.
		buf.WriteByte(0x7a)

		rd := NewReader(&buf)
		output, err := ioutil.ReadAll(rd)
		if err != nil {
			t.Errorf("test %s, read error: got %v", v.desc, err)
		}
		if !bytes.Equal(output, v.input) {
			t.Errorf("test %s, output data mismatch", v.desc)
		}

		// Read back the canary byte.
		if c, _ := buf.ReadByte(); c != 0x7a {
			t.Errorf("test %s, read consumed more data than necessary", v.desc)
		}
	}
}

// TestRoundTripBufio exercises the bufio.Reader fast path for FeedBits by
// forcing the bit buffer to be refilled through Peek/Discard rather than
// one byte at a time.
func TestRoundTripBufio(t *testing.T) {
	input := testutil.GenerateRepeats(3, 1<<16)

	var buf bytes.Buffer
	wr, _ := flate.NewWriter(&buf, flate.BestCompression)
	if _, err := wr.Write(input); err != nil {
		t.Fatalf("write error: %v", err)
	}
	if err := wr.Close(); err != nil {
		t.Fatalf("close error: %v", err)
	}

	rd := NewReader(bufio.NewReader(bytes.NewReader(buf.Bytes())))
	output, err := ioutil.ReadAll(rd)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if !bytes.Equal(output, input) {
		t.Fatalf("output data mismatch")
	}
}
