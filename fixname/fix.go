// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package fixname

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/bamfix/encoding/bam"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/klauspost/compress/gzip"
)

// maxShortNameWarnings bounds the number of records logged individually when
// Opts.KeepShortNames is set.
const maxShortNameWarnings = 10

// Opts controls Fix and FixFile.
type Opts struct {
	// SuffixLen is the number of bytes removed from the end of each name.
	SuffixLen int
	// ProgressInterval is the number of records between two progress lines.
	// Progress reporting is disabled if ProgressInterval <= 0 or Progress is
	// nil.
	ProgressInterval int
	// Progress receives the progress lines.
	Progress io.Writer
	// KeepShortNames causes records whose name is not longer than SuffixLen
	// to be written unmodified. If false, such a record fails the run.
	KeepShortNames bool
	// Verify checks, for every record, that nothing but the name has changed.
	Verify bool
	// Parallelism is the number of bgzf blocks decompressed concurrently by
	// FixFile.
	Parallelism int
	// CompressionLevel is the gzip level of the output.
	CompressionLevel int
}

// DefaultOpts strips a two-byte suffix and reports progress every million
// records.
var DefaultOpts = Opts{
	SuffixLen:        2,
	ProgressInterval: 1000000,
	Parallelism:      1,
	CompressionLevel: gzip.DefaultCompression,
}

// Stats summarizes a run.
type Stats struct {
	// Records is the number of records read.
	Records int64
	// Renamed is the number of records whose name was stripped.
	Renamed int64
	// Skipped is the number of records written with their name unchanged.
	Skipped int64
	// Checksum is the sum of the digests of all records, excluding their
	// names. It does not depend on record order, and it is identical for the
	// input and the output of a successful run.
	Checksum uint64
}

// RecordReader is implemented by bam.Reader.
type RecordReader interface {
	Read() (*bam.Record, error)
}

// RecordWriter is implemented by bam.Writer.
type RecordWriter interface {
	Write(*bam.Record) error
}

// Fix reads every record from in, strips the suffix from its name, and writes
// it to out. Records are processed strictly in order, one at a time.
func Fix(in RecordReader, out RecordWriter, opts Opts) (Stats, error) {
	var (
		stats  Stats
		hasher = newTailHasher()
	)
	for {
		rec, err := in.Read()
		if err != nil {
			if err == io.EOF {
				return stats, nil
			}
			return stats, errors.E(err, fmt.Sprintf("fixname: read record %d", stats.Records))
		}
		stats.Records++
		sum := hasher.sum(rec)
		stats.Checksum += sum

		switch err := StripSuffix(rec, opts.SuffixLen); {
		case err == nil:
			stats.Renamed++
		case err == ErrNameTooShort && opts.KeepShortNames:
			stats.Skipped++
			if stats.Skipped <= maxShortNameWarnings {
				log.Error.Printf("record %d: name %q is too short to strip %d bytes, keeping it",
					stats.Records-1, rec.Name(), opts.SuffixLen)
			}
		default:
			return stats, errors.E(err, fmt.Sprintf("fixname: record %d (%q)", stats.Records-1, rec.Name()))
		}
		if opts.Verify {
			if got := hasher.sum(rec); got != sum {
				return stats, errors.E(errors.Integrity,
					fmt.Sprintf("fixname: record %d: digest changed from %x to %x", stats.Records-1, sum, got))
			}
		}
		if err := out.Write(rec); err != nil {
			return stats, errors.E(err, fmt.Sprintf("fixname: write record %d", stats.Records-1))
		}
		if opts.Progress != nil && opts.ProgressInterval > 0 && stats.Records%int64(opts.ProgressInterval) == 0 {
			fmt.Fprintf(opts.Progress, "Done with %d lines\n", stats.Records) // nolint: errcheck
		}
	}
}

// FixFile runs Fix on the BAM file at inPath and writes the result to
// outPath. Paths may use any scheme registered with
// github.com/grailbio/base/file. On error, the output file is discarded.
func FixFile(ctx context.Context, inPath, outPath string, opts Opts) (stats Stats, err error) {
	in, err := file.Open(ctx, inPath)
	if err != nil {
		return stats, errors.E(err, "open", inPath)
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = errors.E(e, "close", inPath)
		}
	}()
	r, err := bam.NewReader(in.Reader(ctx), opts.Parallelism)
	if err != nil {
		return stats, errors.E(err, "open", inPath)
	}
	defer func() {
		if e := r.Close(); e != nil && err == nil {
			err = errors.E(e, "close", inPath)
		}
	}()

	out, err := file.Create(ctx, outPath)
	if err != nil {
		return stats, errors.E(err, "create", outPath)
	}
	w, err := bam.NewWriter(out.Writer(ctx), r.Header(), opts.CompressionLevel)
	if err == nil {
		log.Debug.Printf("%s: stripping %d-byte name suffix into %s", inPath, opts.SuffixLen, outPath)
		stats, err = Fix(r, w, opts)
		if err == nil {
			err = w.Close()
		}
	}
	if err != nil {
		out.Discard(ctx) // nolint: errcheck
		return stats, errors.E(err, inPath, "->", outPath)
	}
	if err = out.Close(ctx); err != nil {
		return stats, errors.E(err, "close", outPath)
	}
	return stats, nil
}
