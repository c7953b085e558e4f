package astc

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Images at or below this block count are not worth fanning out.
const smallImageBlocks = 32

// EncodeOptions configure the one-call container helpers. The zero value
// selects the LDR profile at the fastest quality stop; pass nil for the
// medium-quality defaults.
type EncodeOptions struct {
	Profile Profile
	Quality float32
	Flags   Flags
	Swizzle *Swizzle

	// Threads caps the encoder fan-out. Zero or negative selects
	// runtime.GOMAXPROCS(0).
	Threads int
}

// DecodeOptions configure Decode. The zero value selects the LDR profile.
type DecodeOptions struct {
	Profile Profile
	Swizzle *Swizzle
	Threads int
}

// Encode compresses img into a .astc container with the given block
// footprint. blockZ may be 0 for 2D footprints.
func Encode(img *Image, blockX, blockY, blockZ int, opts *EncodeOptions) ([]byte, error) {
	o := EncodeOptions{Profile: ProfileLDR, Quality: QualityMedium}
	if opts != nil {
		o = *opts
	}
	if img == nil || img.DimX <= 0 || img.DimY <= 0 || img.DimZ <= 0 {
		return nil, newError(ErrInvalidArgument, "astc: invalid image")
	}

	cfg, err := ConfigInit(o.Profile, blockX, blockY, blockZ, o.Quality, o.Flags)
	if err != nil {
		return nil, err
	}

	h := Header{
		BlockX: uint8(cfg.BlockX),
		BlockY: uint8(cfg.BlockY),
		BlockZ: uint8(cfg.BlockZ),
		SizeX:  uint32(img.DimX),
		SizeY:  uint32(img.DimY),
		SizeZ:  uint32(img.DimZ),
	}
	hdr, err := MarshalHeader(h)
	if err != nil {
		return nil, err
	}
	_, _, _, total, err := h.BlockCount()
	if err != nil {
		return nil, err
	}

	threads := o.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	if total <= smallImageBlocks {
		threads = 1
	}

	ctx, err := ContextAlloc(&cfg, threads)
	if err != nil {
		return nil, err
	}
	defer ctx.Close()

	out := make([]byte, HeaderSize+total*BlockBytes)
	copy(out, hdr[:])
	payload := out[HeaderSize:]

	if threads == 1 {
		if err := ctx.CompressImage(img, o.Swizzle, payload, 0, 0); err != nil {
			return nil, err
		}
		return out, nil
	}

	var g errgroup.Group
	for i := 0; i < threads; i++ {
		i := i
		g.Go(func() error {
			return ctx.CompressImage(img, o.Swizzle, payload, i, 0)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Decode decompresses a .astc container into a freshly allocated Image of
// the requested element kind.
func Decode(data []byte, dataType DataType, opts *DecodeOptions) (*Image, error) {
	o := DecodeOptions{Profile: ProfileLDR}
	if opts != nil {
		o = *opts
	}

	h, payload, err := ParseFile(data)
	if err != nil {
		return nil, err
	}
	_, _, _, total, err := h.BlockCount()
	if err != nil {
		return nil, err
	}

	cfg, err := ConfigInit(o.Profile, int(h.BlockX), int(h.BlockY), int(h.BlockZ), QualityMedium, FlagDecompressOnly)
	if err != nil {
		return nil, err
	}

	threads := o.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	if total <= smallImageBlocks {
		threads = 1
	}

	ctx, err := ContextAlloc(&cfg, threads)
	if err != nil {
		return nil, err
	}
	defer ctx.Close()

	img := &Image{
		DimX:     int(h.SizeX),
		DimY:     int(h.SizeY),
		DimZ:     int(h.SizeZ),
		DataType: dataType,
	}
	texels := img.DimX * img.DimY * img.DimZ * 4
	switch dataType {
	case TypeU8:
		img.DataU8 = make([]byte, texels)
	case TypeF16:
		img.DataF16 = make([]uint16, texels)
	case TypeF32:
		img.DataF32 = make([]float32, texels)
	default:
		return nil, newError(ErrInvalidArgument, "astc: invalid image data type")
	}

	if threads == 1 {
		if err := ctx.DecompressImage(payload, img, o.Swizzle, 0); err != nil {
			return nil, err
		}
		return img, nil
	}

	var g errgroup.Group
	for i := 0; i < threads; i++ {
		i := i
		g.Go(func() error {
			return ctx.DecompressImage(payload, img, o.Swizzle, i)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return img, nil
}

// EncodeRGBA8 compresses a tightly packed RGBA8 pixel buffer into a .astc
// container using the LDR profile at medium quality.
func EncodeRGBA8(pix []byte, width, height, blockX, blockY int) ([]byte, error) {
	return EncodeRGBA8WithOptions(pix, width, height, blockX, blockY, nil)
}

// EncodeRGBA8WithOptions is EncodeRGBA8 with explicit codec options.
func EncodeRGBA8WithOptions(pix []byte, width, height, blockX, blockY int, opts *EncodeOptions) ([]byte, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return nil, newError(ErrInvalidArgument, "astc: invalid RGBA8 buffer")
	}
	img := Image{DimX: width, DimY: height, DimZ: 1, DataType: TypeU8, DataU8: pix}
	return Encode(&img, blockX, blockY, 1, opts)
}

// EncodeRGBAF16 compresses a tightly packed RGBA half-float pixel buffer
// into a .astc container.
func EncodeRGBAF16(pix []uint16, width, height, blockX, blockY int, opts *EncodeOptions) ([]byte, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return nil, newError(ErrInvalidArgument, "astc: invalid RGBA F16 buffer")
	}
	img := Image{DimX: width, DimY: height, DimZ: 1, DataType: TypeF16, DataF16: pix}
	return Encode(&img, blockX, blockY, 1, opts)
}

// EncodeRGBAF32 compresses a tightly packed RGBA float32 pixel buffer into
// a .astc container.
func EncodeRGBAF32(pix []float32, width, height, blockX, blockY int, opts *EncodeOptions) ([]byte, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return nil, newError(ErrInvalidArgument, "astc: invalid RGBA F32 buffer")
	}
	img := Image{DimX: width, DimY: height, DimZ: 1, DataType: TypeF32, DataF32: pix}
	return Encode(&img, blockX, blockY, 1, opts)
}

// DecodeRGBA8 decodes a 2D .astc container into an RGBA8 pixel buffer.
func DecodeRGBA8(data []byte) (pix []byte, width, height int, err error) {
	return DecodeRGBA8WithProfile(data, ProfileLDR)
}

// DecodeRGBA8WithProfile is DecodeRGBA8 with an explicit decode profile.
func DecodeRGBA8WithProfile(data []byte, profile Profile) (pix []byte, width, height int, err error) {
	img, err := Decode(data, TypeU8, &DecodeOptions{Profile: profile})
	if err != nil {
		return nil, 0, 0, err
	}
	if img.DimZ != 1 {
		return nil, 0, 0, newError(ErrNotSupported, "astc: DecodeRGBA8 only supports 2D images; use Decode")
	}
	return img.DataU8, img.DimX, img.DimY, nil
}
