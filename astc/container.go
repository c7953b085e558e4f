package astc

import "fmt"

var astcMagic = [4]byte{0x13, 0xAB, 0xA1, 0x5C}

// HeaderSize is the size in bytes of a container file header.
const HeaderSize = 16

// Header is the 16-byte container header stored at the start of .astc files.
//
// It records the compressed block footprint and the uncompressed image size.
// Block dimensions occupy one byte each; image dimensions are stored as
// 3-byte little-endian integers, so each must fit in 24 bits.
type Header struct {
	BlockX uint8
	BlockY uint8
	BlockZ uint8

	SizeX uint32
	SizeY uint32
	SizeZ uint32
}

func (h Header) String() string {
	return fmt.Sprintf("ASTC %dx%dx%d blocks, %dx%dx%d texels",
		h.BlockX, h.BlockY, h.BlockZ,
		h.SizeX, h.SizeY, h.SizeZ)
}

func (h Header) validate() error {
	if h.BlockX == 0 || h.BlockY == 0 || h.BlockZ == 0 {
		return newError(ErrInvalidArgument, "astc: header: zero block dimension")
	}
	if h.SizeX == 0 || h.SizeY == 0 || h.SizeZ == 0 {
		return newError(ErrInvalidArgument, "astc: header: zero image dimension")
	}
	if h.SizeX > 0xFFFFFF || h.SizeY > 0xFFFFFF || h.SizeZ > 0xFFFFFF {
		return newError(ErrInvalidArgument, "astc: header: image dimension exceeds 2^24-1")
	}
	return nil
}

// BlockCount returns the per-axis and total compressed block counts for this
// image, each axis a ceiling division of size by block footprint.
func (h Header) BlockCount() (blocksX, blocksY, blocksZ, total int, err error) {
	if err := h.validate(); err != nil {
		return 0, 0, 0, 0, err
	}

	blocksX = int((h.SizeX + uint32(h.BlockX) - 1) / uint32(h.BlockX))
	blocksY = int((h.SizeY + uint32(h.BlockY) - 1) / uint32(h.BlockY))
	blocksZ = int((h.SizeZ + uint32(h.BlockZ) - 1) / uint32(h.BlockZ))

	total = blocksX * blocksY * blocksZ
	if total/blocksX/blocksY != blocksZ { // overflow check
		return 0, 0, 0, 0, newError(ErrInvalidArgument, "astc: header: block count overflow")
	}
	return blocksX, blocksY, blocksZ, total, nil
}

// TotalFileSize returns the exact byte length of a container holding this
// header and its block payload.
func (h Header) TotalFileSize() (int, error) {
	_, _, _, total, err := h.BlockCount()
	if err != nil {
		return 0, err
	}
	return HeaderSize + total*BlockBytes, nil
}

// ParseHeader parses the 16-byte container header.
//
// It fails with ErrTruncated when fewer than 16 bytes are supplied, with
// ErrBadMagic when the magic constant mismatches, and with
// ErrInvalidArgument when any decoded dimension is zero.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, truncated("astc header", HeaderSize, len(data))
	}
	if data[0] != astcMagic[0] || data[1] != astcMagic[1] || data[2] != astcMagic[2] || data[3] != astcMagic[3] {
		return Header{}, newError(ErrBadMagic, "astc: invalid magic")
	}

	h := Header{
		BlockX: data[4],
		BlockY: data[5],
		BlockZ: data[6],
		SizeX:  decodeU24LE(data[7:10]),
		SizeY:  decodeU24LE(data[10:13]),
		SizeZ:  decodeU24LE(data[13:16]),
	}
	if err := h.validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}

// MarshalHeader returns the 16-byte encoding for h.
//
// It fails with ErrInvalidArgument when any dimension is zero or exceeds its
// field's representable range.
func MarshalHeader(h Header) ([HeaderSize]byte, error) {
	if err := h.validate(); err != nil {
		return [HeaderSize]byte{}, err
	}

	var out [HeaderSize]byte
	copy(out[0:4], astcMagic[:])
	out[4] = h.BlockX
	out[5] = h.BlockY
	out[6] = h.BlockZ
	encodeU24LE(out[7:10], h.SizeX)
	encodeU24LE(out[10:13], h.SizeY)
	encodeU24LE(out[13:16], h.SizeZ)
	return out, nil
}

// ParseFile parses a full container file.
//
// It returns the header and the block payload (the slice aliases data).
// Trailing zero padding after the payload is tolerated; non-zero trailing
// bytes are rejected to catch accidental concatenation.
func ParseFile(data []byte) (Header, []byte, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return Header{}, nil, err
	}

	_, _, _, total, err := h.BlockCount()
	if err != nil {
		return Header{}, nil, err
	}

	need := HeaderSize + total*BlockBytes
	if len(data) < need {
		return Header{}, nil, truncated("astc file", need, len(data))
	}
	for _, b := range data[need:] {
		if b != 0 {
			return Header{}, nil, newError(ErrInvalidArgument, "astc: trailing non-zero data")
		}
	}

	return h, data[HeaderSize:need], nil
}

func decodeU24LE(b []byte) uint32 {
	_ = b[2]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

func encodeU24LE(dst []byte, v uint32) {
	_ = dst[2]
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
}

func truncated(what string, want, got int) error {
	return newError(ErrTruncated, fmt.Sprintf("astc: %s: want %d bytes, got %d", what, want, got))
}
