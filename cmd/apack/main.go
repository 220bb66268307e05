// Command apack compresses files into aPLib streams.
//
// Usage:
//
//	apack [-safe] [-window n] [-o dir] [-text] [-compare] [-v] file...
//
// Each file is written next to the original (or into -o) with an ".ap"
// extension.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/apack/pack"
	"github.com/apack/pack/aplib"
	"github.com/apack/pack/internal/compare"
	pb "github.com/cheggaaa/pb/v3"
	"github.com/hashicorp/go-multierror"
	"github.com/pierrec/xxHash/xxHash32"
)

var (
	safe      = flag.Bool("safe", false, "prefix the output with an AP32 header")
	window    = flag.Int("window", 0, "only look back this many bytes for matches (0 = unlimited)")
	outDir    = flag.String("o", "", "directory for output files (default: next to the input)")
	textDump  = flag.Bool("text", false, "write a readable <length,distance> dump instead of compressing")
	compareTo = flag.Bool("compare", false, "print how other codecs do on each file instead of compressing")
	verbose   = flag.Bool("v", false, "print sizes and xxh32 digests")
	quiet     = flag.Bool("q", false, "no progress bar")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("apack: ")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: apack [flags] file...\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if *window < 0 {
		log.Fatalf("invalid -window %d", *window)
	}

	var total int64
	for _, name := range flag.Args() {
		if fi, err := os.Stat(name); err == nil {
			total += fi.Size()
		}
	}

	var bar *pb.ProgressBar
	if !*quiet && !*compareTo {
		bar = pb.New64(total)
		bar.Set(pb.Bytes, true)
		bar.SetWriter(os.Stderr)
		bar.Start()
	}

	var result *multierror.Error
	for _, name := range flag.Args() {
		n, err := process(name)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", name, err))
		}
		if bar != nil {
			bar.Add64(n)
		}
	}
	if bar != nil {
		bar.Finish()
	}

	if err := result.ErrorOrNil(); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}

// process handles one input file and returns its size.
func process(name string) (int64, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return 0, err
	}
	size := int64(len(data))

	if *compareTo {
		return size, printComparison(name, data)
	}

	var out []byte
	ext := ".ap"
	switch {
	case *textDump:
		var mf aplib.MatchFinder
		mf.MaxDistance = *window
		out = pack.TextEncoder{}.Encode(nil, data, mf.FindMatches(nil, data), true)
		ext = ".ap.txt"
	case *safe && len(data) == 0:
		out = aplib.WithHeader(nil, data)
	default:
		out, err = aplib.CompressWindow(data, *window)
		if err != nil {
			return size, err
		}
		if *safe {
			out = aplib.WithHeader(out, data)
		}
	}

	dest := name + ext
	if *outDir != "" {
		dest = filepath.Join(*outDir, filepath.Base(name)+ext)
	}
	if err := os.WriteFile(dest, out, 0o644); err != nil {
		return size, err
	}

	if *verbose {
		log.Printf("%s: %d -> %d bytes, xxh32 %08x -> %08x", name, len(data), len(out), digest(data), digest(out))
	}
	return size, nil
}

func digest(b []byte) uint32 {
	h := xxHash32.New(0)
	h.Write(b)
	return h.Sum32()
}

func printComparison(name string, data []byte) error {
	if len(data) == 0 {
		return aplib.ErrEmptyInput
	}
	results, err := compare.Run(data)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%d bytes)\n", name, len(data))
	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', tabwriter.AlignRight)
	for _, r := range results {
		fmt.Fprintf(tw, "\t%s\t%d\t%.3f\t\n", r.Codec, r.Size, r.Ratio)
	}
	return tw.Flush()
}
