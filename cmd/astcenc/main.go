package main

import (
	"bytes"
	"encoding/hex"
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/texturetools/astc/astc"

	_ "image/jpeg"
	_ "image/png"
)

func main() {
	var (
		inPath    string
		outPath   string
		block     string
		profile   string
		quality   string
		threads   int
		useZstd   bool
		encode    bool
		decode    bool
		dumpInfo  bool
		dumpBlock bool
	)
	flag.StringVar(&inPath, "in", "", "input file")
	flag.StringVar(&outPath, "out", "", "output file")
	flag.StringVar(&block, "block", "4x4", "ASTC block footprint (e.g. 4x4 or 4x4x4)")
	flag.StringVar(&profile, "profile", "ldr", "decode/encode profile: ldr|srgb|hdr|hdr-rgb-ldr-a")
	flag.StringVar(&quality, "quality", "medium", "encode quality: fastest|fast|medium|thorough|verythorough|exhaustive or 0..100")
	flag.IntVar(&threads, "threads", 0, "worker goroutines (0 = all CPUs)")
	flag.BoolVar(&useZstd, "z", false, "read/write zstd-compressed .astc.zst containers")
	flag.BoolVar(&encode, "encode", false, "encode input image -> .astc")
	flag.BoolVar(&decode, "decode", false, "decode input .astc -> .png")
	flag.BoolVar(&dumpInfo, "info", false, "print .astc header info and exit")
	flag.BoolVar(&dumpBlock, "dump-first-block", false, "dump the first ASTC block payload as hex and exit")
	flag.Parse()

	if inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: astcenc -in <input> [-out <output>] [-encode|-decode] [-block 4x4] [-z]")
		os.Exit(2)
	}

	inData, err := os.ReadFile(inPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if dumpInfo || dumpBlock {
		container := inData
		if useZstd || strings.HasSuffix(inPath, ".zst") {
			container, err = zstdDecompress(inData)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}
		h, blocks, err := astc.ParseFile(container)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(h.String())
		if dumpInfo {
			_, _, _, total, err := h.BlockCount()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			size, _ := h.TotalFileSize()
			fmt.Printf("blocks=%d container-bytes=%d\n", total, size)
		}
		if dumpBlock {
			if len(blocks) < astc.BlockBytes {
				fmt.Fprintln(os.Stderr, "astc: missing first block")
				os.Exit(1)
			}
			fmt.Println(hex.EncodeToString(blocks[:astc.BlockBytes]))
			dumpFirstBlockInfo(container, blocks)
		}
		return
	}

	if encode == decode {
		fmt.Fprintln(os.Stderr, "specify exactly one of -encode or -decode")
		os.Exit(2)
	}
	if outPath == "" {
		fmt.Fprintln(os.Stderr, "missing -out")
		os.Exit(2)
	}

	profileVal, err := parseProfile(profile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	qualityVal, err := parseQuality(quality)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if encode {
		bx, by, bz, err := parseBlock(block)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		if bz != 1 {
			fmt.Fprintln(os.Stderr, "astcenc: 3D block footprints need raw volume input; PNG/JPEG input is 2D only")
			os.Exit(2)
		}

		img, _, err := image.Decode(bytes.NewReader(inData))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		rgba := image.NewRGBA(img.Bounds())
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)

		opts := &astc.EncodeOptions{Profile: profileVal, Quality: qualityVal, Threads: threads}
		astcData, err := astc.EncodeRGBA8WithOptions(rgba.Pix, rgba.Rect.Dx(), rgba.Rect.Dy(), bx, by, opts)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if useZstd {
			astcData, err = zstdCompress(astcData)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}
		if err := os.WriteFile(outPath, astcData, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	// decode
	container := inData
	if useZstd || strings.HasSuffix(inPath, ".zst") {
		container, err = zstdDecompress(inData)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	var img *image.RGBA
	if profileVal == astc.ProfileLDR || profileVal == astc.ProfileLDRSRGB {
		pix, w, h, err := astc.DecodeRGBA8WithProfile(container, profileVal)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		img = &image.RGBA{
			Pix:    pix,
			Stride: w * 4,
			Rect:   image.Rect(0, 0, w, h),
		}
	} else {
		dec, err := astc.Decode(container, astc.TypeF32, &astc.DecodeOptions{Profile: profileVal, Threads: threads})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if dec.DimZ != 1 {
			fmt.Fprintf(os.Stderr, "astcenc: 3D images are not supported by PNG output (z=%d)\n", dec.DimZ)
			os.Exit(1)
		}
		w, h := dec.DimX, dec.DimY
		pix8 := make([]byte, w*h*4)
		for i := 0; i < len(pix8); i++ {
			v := dec.DataF32[i]
			if !(v >= 0) {
				v = 0
			} else if v > 1 {
				v = 1
			}
			pix8[i] = uint8(v*255 + 0.5)
		}
		img = &image.RGBA{
			Pix:    pix8,
			Stride: w * 4,
			Rect:   image.Rect(0, 0, w, h),
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dumpFirstBlockInfo(container, blocks []byte) {
	h, err := astc.ParseHeader(container)
	if err != nil {
		return
	}
	cfg, err := astc.ConfigInit(astc.ProfileLDR, int(h.BlockX), int(h.BlockY), int(h.BlockZ), astc.QualityMedium, astc.FlagDecompressOnly)
	if err != nil {
		return
	}
	ctx, err := astc.ContextAlloc(&cfg, 1)
	if err != nil {
		return
	}
	defer ctx.Close()

	var blk [astc.BlockBytes]byte
	copy(blk[:], blocks)
	info, err := ctx.GetBlockInfo(blk)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	switch {
	case info.IsErrorBlock:
		fmt.Println("first-block: error")
	case info.IsConstantBlock:
		fmt.Println("first-block: constant-color")
	default:
		fmt.Printf("first-block: partitions=%d dual-plane=%v weights=%dx%dx%d levels=%d\n",
			info.PartitionCount, info.IsDualPlaneBlock,
			info.WeightX, info.WeightY, info.WeightZ, info.WeightLevelCount)
	}
}

func zstdCompress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func zstdDecompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

func parseBlock(s string) (x, y, z int, err error) {
	parts := strings.Split(s, "x")
	z = 1
	switch len(parts) {
	case 2:
		_, err = fmt.Sscanf(s, "%dx%d", &x, &y)
	case 3:
		_, err = fmt.Sscanf(s, "%dx%dx%d", &x, &y, &z)
	default:
		return 0, 0, 0, fmt.Errorf("invalid -block %q (want like 4x4 or 4x4x4)", s)
	}
	if err != nil || x <= 0 || y <= 0 || z <= 0 || x > 255 || y > 255 || z > 255 {
		return 0, 0, 0, fmt.Errorf("invalid -block %q (want like 4x4 or 4x4x4)", s)
	}
	return x, y, z, nil
}

func parseProfile(s string) (astc.Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ldr":
		return astc.ProfileLDR, nil
	case "srgb", "ldr-srgb":
		return astc.ProfileLDRSRGB, nil
	case "hdr", "hdr-rgba":
		return astc.ProfileHDR, nil
	case "hdr-rgb-ldr-a", "hdr-rgb-ldr-alpha":
		return astc.ProfileHDRRGBLDRAlpha, nil
	default:
		return 0, fmt.Errorf("invalid -profile %q (want ldr|srgb|hdr|hdr-rgb-ldr-a)", s)
	}
}

func parseQuality(s string) (float32, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fastest":
		return astc.QualityFastest, nil
	case "fast":
		return astc.QualityFast, nil
	case "medium":
		return astc.QualityMedium, nil
	case "thorough":
		return astc.QualityThorough, nil
	case "verythorough", "very-thorough":
		return astc.QualityVeryThorough, nil
	case "exhaustive":
		return astc.QualityExhaustive, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil || v < 0 || v > 100 {
		return 0, fmt.Errorf("invalid -quality %q (want a preset name or 0..100)", s)
	}
	return float32(v), nil
}
