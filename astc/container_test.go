package astc_test

import (
	"bytes"
	"testing"

	"github.com/texturetools/astc/astc"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := astc.Header{
		BlockX: 4,
		BlockY: 4,
		BlockZ: 1,
		SizeX:  1024,
		SizeY:  768,
		SizeZ:  1,
	}

	enc, err := astc.MarshalHeader(h)
	if err != nil {
		t.Fatalf("MarshalHeader: %v", err)
	}
	got, err := astc.ParseHeader(enc[:])
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}

	if got != h {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", got, h)
	}

	// Sanity check magic.
	if !bytes.Equal(enc[0:4], []byte{0x13, 0xAB, 0xA1, 0x5C}) {
		t.Fatalf("unexpected magic: %x", enc[0:4])
	}
}

func TestParseHeader_Failures(t *testing.T) {
	h := astc.Header{BlockX: 4, BlockY: 4, BlockZ: 1, SizeX: 12, SizeY: 8, SizeZ: 1}
	enc, err := astc.MarshalHeader(h)
	if err != nil {
		t.Fatalf("MarshalHeader: %v", err)
	}

	if _, err := astc.ParseHeader(enc[:15]); astc.ErrorCodeOf(err) != astc.ErrTruncated {
		t.Fatalf("short header: got %v want ErrTruncated", err)
	}

	bad := enc
	bad[0] ^= 0xFF
	if _, err := astc.ParseHeader(bad[:]); astc.ErrorCodeOf(err) != astc.ErrBadMagic {
		t.Fatalf("bad magic: got %v want ErrBadMagic", err)
	}

	zero := enc
	zero[7], zero[8], zero[9] = 0, 0, 0 // SizeX = 0
	if _, err := astc.ParseHeader(zero[:]); astc.ErrorCodeOf(err) != astc.ErrInvalidArgument {
		t.Fatalf("zero dimension: got %v want ErrInvalidArgument", err)
	}
}

func TestHeader_TotalFileSize(t *testing.T) {
	// 12x8 at 4x4 blocks: 3x2 grid, 6 blocks.
	h := astc.Header{BlockX: 4, BlockY: 4, BlockZ: 1, SizeX: 12, SizeY: 8, SizeZ: 1}
	got, err := h.TotalFileSize()
	if err != nil {
		t.Fatalf("TotalFileSize: %v", err)
	}
	want := astc.HeaderSize + 6*astc.BlockBytes
	if got != want {
		t.Fatalf("TotalFileSize: got %d want %d", got, want)
	}
}

func TestParseFile_TruncatedPayload(t *testing.T) {
	h := astc.Header{BlockX: 4, BlockY: 4, BlockZ: 1, SizeX: 8, SizeY: 8, SizeZ: 1}
	enc, err := astc.MarshalHeader(h)
	if err != nil {
		t.Fatalf("MarshalHeader: %v", err)
	}

	file := append([]byte{}, enc[:]...)
	blk := astc.EncodeConstBlockRGBA8(1, 2, 3, 4)
	file = append(file, blk[:]...) // one of four blocks

	if _, _, err := astc.ParseFile(file); astc.ErrorCodeOf(err) != astc.ErrTruncated {
		t.Fatalf("truncated payload: got %v want ErrTruncated", err)
	}

	for i := 0; i < 3; i++ {
		file = append(file, blk[:]...)
	}
	if _, _, err := astc.ParseFile(file); err != nil {
		t.Fatalf("complete payload: %v", err)
	}

	// Zero padding after the payload is tolerated, garbage is not.
	if _, _, err := astc.ParseFile(append(file, 0, 0, 0)); err != nil {
		t.Fatalf("zero padding: %v", err)
	}
	if _, _, err := astc.ParseFile(append(file, 0xAA)); err == nil {
		t.Fatalf("trailing garbage: got nil error, want error")
	}
}
