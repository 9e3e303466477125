package main

// See doc.go for documentation

import (
	"flag"
	"os"
	"runtime"

	"github.com/grailbio/bamfix/fixname"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
)

var (
	suffixLenFlag      = flag.Int("suffix-len", fixname.DefaultOpts.SuffixLen, "Number of bytes to remove from the end of each read name")
	keepShortNamesFlag = flag.Bool("keep-short-names", false, "Write reads whose name is not longer than the suffix unchanged, instead of failing")
	verifyFlag         = flag.Bool("verify", false, "Check that no field other than the read name is modified")
	parallelismFlag    = flag.Int("parallelism", runtime.NumCPU(), "Number of bgzf blocks to decompress concurrently")
	levelFlag          = flag.Int("level", fixname.DefaultOpts.CompressionLevel, "gzip compression level of the output, -1 for the default")
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	flag.Usage = func() {
		os.Stderr.WriteString(`Usage: bio-bam-fixname [flags] <input.bam> <output.bam>

Removes the mate suffix (e.g., "/1", "/2") from the name of every read in
<input.bam> and writes the result to <output.bam>.
`)
		flag.PrintDefaults()
	}
	shutdown := grail.Init()
	defer shutdown()

	args := flag.Args()
	if len(args) != 2 {
		flag.Usage()
		os.Exit(1)
	}
	opts := fixname.DefaultOpts
	opts.SuffixLen = *suffixLenFlag
	opts.KeepShortNames = *keepShortNamesFlag
	opts.Verify = *verifyFlag
	opts.Parallelism = *parallelismFlag
	opts.CompressionLevel = *levelFlag
	opts.Progress = os.Stdout

	stats, err := fixname.FixFile(vcontext.Background(), args[0], args[1], opts)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("%s: %d records, %d renamed, %d unchanged, checksum %016x",
		args[1], stats.Records, stats.Renamed, stats.Skipped, stats.Checksum)
}
