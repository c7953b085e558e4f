package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/texturetools/astc/astc"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "decode":
		decodeCmd(os.Args[2:])
	case "encode":
		encodeCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  astcbench encode -w W -h H [-d D] [-block 4x4[xZ]] [-profile ldr|srgb|hdr|hdr-rgb-ldr-a] [-quality 0..100] [-threads N] [-iters N]")
	fmt.Fprintln(os.Stderr, "  astcbench decode -in <file.astc> [-profile ldr|srgb|hdr|hdr-rgb-ldr-a] [-out u8|f32] [-threads N] [-iters N]")
}

func encodeCmd(args []string) {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	var (
		w, h, d    int
		block      string
		profile    string
		quality    float64
		threads    int
		iters      int
		outPath    string
		cpuprofile string
	)
	fs.IntVar(&w, "w", 256, "image width")
	fs.IntVar(&h, "h", 256, "image height")
	fs.IntVar(&d, "d", 1, "image depth")
	fs.StringVar(&block, "block", "4x4", "block footprint")
	fs.StringVar(&profile, "profile", "ldr", "profile: ldr|srgb|hdr|hdr-rgb-ldr-a")
	fs.Float64Var(&quality, "quality", float64(astc.QualityMedium), "quality 0..100")
	fs.IntVar(&threads, "threads", 0, "worker goroutines (0 = all CPUs)")
	fs.IntVar(&iters, "iters", 10, "iterations")
	fs.StringVar(&outPath, "out", "", "optional .astc output path for the last iteration")
	fs.StringVar(&cpuprofile, "cpuprofile", "", "optional CPU profile output path")
	_ = fs.Parse(args)

	prof, err := parseProfile(profile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	bx, by, bz, err := parseBlock(block)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if w <= 0 || h <= 0 || d <= 0 || iters <= 0 {
		fmt.Fprintln(os.Stderr, "dimensions and iters must be > 0")
		os.Exit(2)
	}

	img := astc.Image{DimX: w, DimY: h, DimZ: d, DataType: astc.TypeU8, DataU8: syntheticRGBA8(w, h, d)}
	opts := &astc.EncodeOptions{Profile: prof, Quality: float32(quality), Threads: threads}

	stopProfile := maybeStartCPUProfile(cpuprofile)
	defer stopProfile()

	var out []byte
	var sum uint64
	start := time.Now()
	for i := 0; i < iters; i++ {
		out, err = astc.Encode(&img, bx, by, bz, opts)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		sum = xxhash.Sum64(out)
	}
	elapsed := time.Since(start)

	inputBytes := int64(len(img.DataU8)) * int64(iters)
	report("encode", w, h, d, inputBytes, elapsed, sum, threads)

	if outPath != "" {
		if err := os.WriteFile(outPath, out, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func decodeCmd(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	var (
		inPath     string
		profile    string
		outKind    string
		threads    int
		iters      int
		cpuprofile string
	)
	fs.StringVar(&inPath, "in", "", "input .astc file")
	fs.StringVar(&profile, "profile", "ldr", "profile: ldr|srgb|hdr|hdr-rgb-ldr-a")
	fs.StringVar(&outKind, "out", "u8", "output kind: u8|f32")
	fs.IntVar(&threads, "threads", 0, "worker goroutines (0 = all CPUs)")
	fs.IntVar(&iters, "iters", 200, "iterations")
	fs.StringVar(&cpuprofile, "cpuprofile", "", "optional CPU profile output path")
	_ = fs.Parse(args)

	if inPath == "" {
		fmt.Fprintln(os.Stderr, "missing -in")
		os.Exit(2)
	}
	prof, err := parseProfile(profile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if iters <= 0 {
		fmt.Fprintln(os.Stderr, "iters must be > 0")
		os.Exit(2)
	}

	dataType := astc.TypeU8
	switch strings.ToLower(strings.TrimSpace(outKind)) {
	case "u8", "rgba8":
	case "f32", "rgbaf32":
		dataType = astc.TypeF32
	default:
		fmt.Fprintf(os.Stderr, "invalid -out %q (want u8|f32)\n", outKind)
		os.Exit(2)
	}

	data, err := os.ReadFile(inPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	stopProfile := maybeStartCPUProfile(cpuprofile)
	defer stopProfile()

	dopts := &astc.DecodeOptions{Profile: prof, Threads: threads}
	var sum uint64
	var outputBytes int64
	start := time.Now()
	for i := 0; i < iters; i++ {
		img, err := astc.Decode(data, dataType, dopts)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if dataType == astc.TypeU8 {
			sum = xxhash.Sum64(img.DataU8)
			outputBytes += int64(len(img.DataU8))
		} else {
			sum = xxhash.Sum64(f32Bytes(img.DataF32))
			outputBytes += int64(len(img.DataF32)) * 4
		}
	}
	elapsed := time.Since(start)

	h, _, err := astc.ParseFile(data)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	report("decode", int(h.SizeX), int(h.SizeY), int(h.SizeZ), outputBytes, elapsed, sum, threads)
}

func report(op string, w, h, d int, totalBytes int64, elapsed time.Duration, sum uint64, threads int) {
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	mbps := float64(totalBytes) / elapsed.Seconds() / (1 << 20)
	fmt.Printf("%s %dx%dx%d threads=%d elapsed=%s throughput=%.1f MB/s xxhash=%016x\n",
		op, w, h, d, threads, elapsed.Round(time.Millisecond), mbps, sum)
}

func maybeStartCPUProfile(path string) func() {
	if path == "" {
		return func() {}
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return func() {
		pprof.StopCPUProfile()
		_ = f.Close()
	}
}

// syntheticRGBA8 fills a volume with a deterministic gradient-plus-noise
// pattern so runs are comparable across machines.
func syntheticRGBA8(w, h, d int) []byte {
	pix := make([]byte, w*h*d*4)
	seed := uint32(0x9E3779B9)
	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				off := ((z*h+y)*w + x) * 4
				seed = seed*1664525 + 1013904223
				pix[off+0] = uint8(x*7 + z*3)
				pix[off+1] = uint8(y * 5)
				pix[off+2] = uint8((x ^ y) * 3)
				pix[off+3] = uint8(200 + (seed>>24)%56)
			}
		}
	}
	return pix
}

func f32Bytes(f []float32) []byte {
	out := make([]byte, len(f)*4)
	for i, v := range f {
		u := math.Float32bits(v)
		out[i*4+0] = byte(u)
		out[i*4+1] = byte(u >> 8)
		out[i*4+2] = byte(u >> 16)
		out[i*4+3] = byte(u >> 24)
	}
	return out
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
		return 0, 0, 0, fmt.Errorf("invalid -block %q", s)
	}
	if err != nil || x <= 0 || y <= 0 || z <= 0 {
		return 0, 0, 0, fmt.Errorf("invalid -block %q", s)
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
