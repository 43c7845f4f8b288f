// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package gzip

import (
	"bytes"
	stdgzip "compress/gzip"
	"encoding/binary"
	"encoding/hex"
	"hash/crc32"
	"io"
	"io/ioutil"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/dsnet/gzip/internal/testutil"
)

// wrapMember assembles a minimal single-member GZIP stream from a raw
// DEFLATE payload and its expected decompressed output, computing the
// trailer fields (CRC32, ISIZE) from the output so tests never need to
// hand-compute a checksum.
func wrapMember(deflate []byte, output []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{gzipID1, gzipID2, gzipDeflate, 0, 0, 0, 0, 0, 0, 0xff})
	buf.Write(deflate)
	var trailer [8]byte
	binary.LittleEndian.PutUint32(trailer[0:4], crc32.ChecksumIEEE(output))
	binary.LittleEndian.PutUint32(trailer[4:8], uint32(len(output)))
	buf.Write(trailer[:])
	return buf.Bytes()
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// TestScenarios exercises the concrete DEFLATE payloads named in the
// testable-properties section: a stored block and a fixed-Huffman block.
func TestScenarios(t *testing.T) {
	var vectors = []struct {
		desc    string
		deflate string
		output  string
	}{
		{
			desc:    "stored block ABC",
			deflate: "0103" + "00fcff" + "414243",
			output:  "ABC",
		},
		{
			desc:    "fixed block AABBBBCCCCCCCC\\n",
			deflate: "73747402026728e00200",
			output:  "AABBBBCCCCCCCC\n",
		},
	}

	for _, v := range vectors {
		member := wrapMember(mustHex(v.deflate), []byte(v.output))
		zr, err := NewReader(bytes.NewReader(member))
		if err != nil {
			t.Errorf("%s: NewReader error: %v", v.desc, err)
			continue
		}
		got, err := ioutil.ReadAll(zr)
		if err != nil {
			t.Errorf("%s: read error: %v", v.desc, err)
			continue
		}
		if string(got) != v.output {
			t.Errorf("%s: output mismatch: got %q, want %q", v.desc, got, v.output)
		}
	}
}

// TestOverlapCopy exercises the mandatory overlap semantics of a
// back-reference whose distance is less than its length: a single literal
// followed by a distance=1, length=5 copy must produce six repetitions of
// that literal. The DEFLATE bits are assembled with the BitGen DSL instead
// of hand-computed hex, since fixed-Huffman codes are easy to get backwards.
func TestOverlapCopy(t *testing.T) {
	prog := "<<<\n" +
		"< 1 01    # BFINAL=1, BTYPE=01 (fixed)\n" +
		"> 10010001 # literal 'a' (0x61): fixed code 0x30+97\n" +
		"> 0000011  # length symbol 259 -> length 5, 0 extra bits\n" +
		"> 00000    # distance symbol 0 -> distance 1, 0 extra bits\n" +
		"> 0000000  # end-of-block symbol 256\n"
	deflate, err := testutil.DecodeBitGen(prog)
	if err != nil {
		t.Fatalf("DecodeBitGen error: %v", err)
	}

	want := "aaaaaa"
	member := wrapMember(deflate, []byte(want))
	zr, err := NewReader(bytes.NewReader(member))
	if err != nil {
		t.Fatalf("NewReader error: %v", err)
	}
	got, err := ioutil.ReadAll(zr)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if string(got) != want {
		t.Fatalf("output mismatch: got %q, want %q", got, want)
	}
}

// TestEmptyMember verifies that a member whose payload is a single fixed
// block containing only the end-of-block symbol decodes to zero bytes
// with CRC32 == 0 and ISIZE == 0.
func TestEmptyMember(t *testing.T) {
	// BFINAL=1, BTYPE=01 (fixed), followed by the EOB symbol (256, 7 bits
	// of all zeros under the fixed tree) and byte-aligned padding.
	deflate := mustHex("0300")
	member := wrapMember(deflate, nil)

	zr, err := NewReader(bytes.NewReader(member))
	if err != nil {
		t.Fatalf("NewReader error: %v", err)
	}
	got, err := ioutil.ReadAll(zr)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty output, got %d bytes", len(got))
	}
}

// TestMultiMemberConcat verifies that concatenated GZIP members spliced
// byte-wise decode to the concatenation of each member's output.
func TestMultiMemberConcat(t *testing.T) {
	half1 := testutil.GenerateRepeats(10, 1<<12)
	half2 := testutil.GenerateRepeats(11, 1<<12)

	var concat bytes.Buffer
	for _, half := range [][]byte{half1, half2} {
		var buf bytes.Buffer
		wr := stdgzip.NewWriter(&buf)
		if _, err := wr.Write(half); err != nil {
			t.Fatalf("write error: %v", err)
		}
		if err := wr.Close(); err != nil {
			t.Fatalf("close error: %v", err)
		}
		concat.Write(buf.Bytes())
	}

	zr, err := NewReader(bytes.NewReader(concat.Bytes()))
	if err != nil {
		t.Fatalf("NewReader error: %v", err)
	}
	got, err := ioutil.ReadAll(zr)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	want := append(append([]byte{}, half1...), half2...)
	if !bytes.Equal(got, want) {
		t.Fatalf("output mismatch across multi-member stream")
	}

	wantCRC := crc32.Update(crc32.ChecksumIEEE(half1), crc32.IEEETable, half2)
	if zr.CombinedCRC32() != wantCRC {
		t.Errorf("combined CRC32 mismatch: got %08x, want %08x", zr.CombinedCRC32(), wantCRC)
	}
	if zr.CombinedSize() != int64(len(want)) {
		t.Errorf("combined size mismatch: got %d, want %d", zr.CombinedSize(), len(want))
	}
}

// TestRoundTrip feeds a variety of synthetic inputs through the standard
// library's GZIP encoder and verifies this package's decoder reproduces
// the original bytes exactly, along with header metadata round-tripping.
func TestRoundTrip(t *testing.T) {
	var vectors = []struct {
		desc  string
		input []byte
		name  string
		extra []byte
	}{
		{desc: "empty", input: nil},
		{desc: "small random", input: testutil.NewRand(0).Bytes(53)},
		{desc: "large random", input: testutil.NewRand(1).Bytes(1 << 16)},
		{desc: "repeats", input: testutil.GenerateRepeats(2, 1<<17)},
		{desc: "zeros", input: make([]byte, 1<<15)},
		{desc: "with name", input: []byte("hello, world"), name: "hello.txt"},
		{desc: "with extra", input: []byte("hello, world"), extra: []byte{1, 2, 3, 4}},
	}

	for _, v := range vectors {
		var buf bytes.Buffer
		wr := stdgzip.NewWriter(&buf)
		wr.Name = v.name
		wr.Extra = v.extra
		if _, err := wr.Write(v.input); err != nil {
			t.Errorf("%s: write error: %v", v.desc, err)
			continue
		}
		if err := wr.Close(); err != nil {
			t.Errorf("%s: close error: %v", v.desc, err)
			continue
		}

		zr, err := NewReader(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Errorf("%s: NewReader error: %v", v.desc, err)
			continue
		}
		got, err := ioutil.ReadAll(zr)
		if err != nil {
			t.Errorf("%s: read error: %v", v.desc, err)
			continue
		}
		if !bytes.Equal(got, v.input) {
			t.Errorf("%s: output data mismatch", v.desc)
		}
		if zr.Header.Name != v.name {
			t.Errorf("%s: name mismatch: got %q, want %q", v.desc, zr.Header.Name, v.name)
		}
		if !bytes.Equal(zr.Header.Extra, v.extra) {
			t.Errorf("%s: extra mismatch: got %v, want %v", v.desc, zr.Header.Extra, v.extra)
		}
		if zr.CombinedSize() != int64(len(v.input)) {
			t.Errorf("%s: combined size mismatch: got %d, want %d", v.desc, zr.CombinedSize(), len(v.input))
		}
	}
}

// TestHeaderFields verifies that every exported Header field set by the
// encoder round-trips exactly, comparing the whole struct at once rather
// than field-by-field.
func TestHeaderFields(t *testing.T) {
	mtime := time.Unix(1234567890, 0)

	var buf bytes.Buffer
	wr := stdgzip.NewWriter(&buf)
	wr.Name = "report.txt"
	wr.Comment = "generated by a test"
	wr.Extra = []byte{0xde, 0xad, 0xbe, 0xef}
	wr.ModTime = mtime
	wr.OS = 3 // Unix
	if _, err := wr.Write([]byte("payload")); err != nil {
		t.Fatalf("write error: %v", err)
	}
	if err := wr.Close(); err != nil {
		t.Fatalf("close error: %v", err)
	}

	zr, err := NewReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewReader error: %v", err)
	}
	if _, err := ioutil.ReadAll(zr); err != nil {
		t.Fatalf("read error: %v", err)
	}

	want := Header{Name: "report.txt", Comment: "generated by a test", Extra: []byte{0xde, 0xad, 0xbe, 0xef}, ModTime: mtime, OS: 3}
	opts := cmp.Options{cmpopts.IgnoreUnexported(Header{}), cmpopts.IgnoreFields(Header{}, "Extra16")}
	if diff := cmp.Diff(want, zr.Header, opts); diff != "" {
		t.Errorf("Header mismatch (-want +got):\n%s", diff)
	}
}

// TestBadMagic verifies that a stream not starting with the GZIP magic
// number is rejected.
func TestBadMagic(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte{0x00, 0x00, 0x00, 0x00}))
	if err != ErrBadMagic {
		t.Errorf("got %v, want %v", err, ErrBadMagic)
	}
}

// TestUnsupportedMethod verifies that a CM value other than 8 is rejected.
func TestUnsupportedMethod(t *testing.T) {
	hdr := []byte{gzipID1, gzipID2, 0x09, 0, 0, 0, 0, 0, 0, 0}
	_, err := NewReader(bytes.NewReader(hdr))
	if err != ErrUnsupportedMethod {
		t.Errorf("got %v, want %v", err, ErrUnsupportedMethod)
	}
}

// TestReservedFlag verifies that reserved FLG bits 5-7 are rejected.
func TestReservedFlag(t *testing.T) {
	hdr := []byte{gzipID1, gzipID2, gzipDeflate, 0x20, 0, 0, 0, 0, 0, 0}
	_, err := NewReader(bytes.NewReader(hdr))
	if err != ErrReservedFlag {
		t.Errorf("got %v, want %v", err, ErrReservedFlag)
	}
}

// TestChecksumMismatch verifies that a corrupted trailer CRC32 is detected.
func TestChecksumMismatch(t *testing.T) {
	member := wrapMember(mustHex("0103"+"00fcff"+"414243"), []byte("ABC"))
	member[len(member)-8] ^= 0xff // Flip a bit in the stored CRC32

	zr, err := NewReader(bytes.NewReader(member))
	if err != nil {
		t.Fatalf("NewReader error: %v", err)
	}
	if _, err := ioutil.ReadAll(zr); err != ErrChecksumMismatch {
		t.Errorf("got %v, want %v", err, ErrChecksumMismatch)
	}
}

// TestSizeMismatch verifies that a corrupted trailer ISIZE is detected.
func TestSizeMismatch(t *testing.T) {
	member := wrapMember(mustHex("0103"+"00fcff"+"414243"), []byte("ABC"))
	member[len(member)-1] ^= 0xff // Flip a bit in the stored ISIZE

	zr, err := NewReader(bytes.NewReader(member))
	if err != nil {
		t.Fatalf("NewReader error: %v", err)
	}
	if _, err := ioutil.ReadAll(zr); err != ErrSizeMismatch {
		t.Errorf("got %v, want %v", err, ErrSizeMismatch)
	}
}

// TestMultistreamDisabled verifies that disabling Multistream stops
// decoding after the first member, leaving the remainder unread.
func TestMultistreamDisabled(t *testing.T) {
	var buf bytes.Buffer
	var firstLen int64
	for i := 0; i < 2; i++ {
		wr := stdgzip.NewWriter(&buf)
		wr.Write([]byte("part"))
		wr.Close()
		if i == 0 {
			firstLen = int64(buf.Len())
		}
	}

	zr, err := NewReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewReader error: %v", err)
	}
	zr.Multistream(false)
	got, err := ioutil.ReadAll(zr)
	if err != nil && err != io.EOF {
		t.Fatalf("read error: %v", err)
	}
	if string(got) != "part" {
		t.Fatalf("got %q, want %q", got, "part")
	}
	if zr.InputOffset != firstLen {
		t.Fatalf("InputOffset leaked into next member: got %d, want %d (first member length)", zr.InputOffset, firstLen)
	}
}
