// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bam

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/bgzf"
	"github.com/grailbio/hts/sam"
)

// MaxRecordSize bounds the block_size accepted by Reader. Larger values are
// treated as corruption rather than allocated.
const MaxRecordSize = 1 << 28

// Reader reads BAM records without decoding them into sam.Records.
type Reader struct {
	bg     *bgzf.Reader
	header *sam.Header
	nRecs  int
	size   [4]byte
}

// NewReader creates a Reader from a BAM stream. rd is the number of bgzf
// blocks decompressed concurrently. The header is read eagerly.
func NewReader(r io.Reader, rd int) (*Reader, error) {
	if rd <= 0 {
		rd = 1
	}
	bg, err := bgzf.NewReader(r, rd)
	if err != nil {
		return nil, err
	}
	header, err := UnmarshalHeader(bg)
	if err != nil {
		bg.Close() // nolint: errcheck
		return nil, err
	}
	return &Reader{bg: bg, header: header}, nil
}

// Header returns the header of the BAM stream.
func (r *Reader) Header() *sam.Header {
	return r.header
}

// Read returns the next record in the stream. It returns io.EOF after the
// last record. The returned record is newly allocated and owned by the caller.
func (r *Reader) Read() (*Record, error) {
	if _, err := io.ReadFull(r.bg, r.size[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.E(err, fmt.Sprintf("bam: read size of record %d", r.nRecs))
	}
	n := int(int32(binary.LittleEndian.Uint32(r.size[:])))
	if n < FixedSize {
		return nil, errors.E(errors.Integrity,
			fmt.Sprintf("bam: record %d too short: block_size %d", r.nRecs, n))
	}
	if n > MaxRecordSize {
		return nil, errors.E(errors.Integrity,
			fmt.Sprintf("bam: record %d too long: block_size %d > %d", r.nRecs, n, MaxRecordSize))
	}
	rec := &Record{Data: make([]byte, n-FixedSize)}
	if _, err := io.ReadFull(r.bg, rec.Fixed[:]); err != nil {
		return nil, errors.E(truncated(err), fmt.Sprintf("bam: read record %d", r.nRecs))
	}
	if _, err := io.ReadFull(r.bg, rec.Data); err != nil {
		return nil, errors.E(truncated(err), fmt.Sprintf("bam: read record %d", r.nRecs))
	}
	if err := rec.validate(); err != nil {
		return nil, errors.E(err, fmt.Sprintf("bam: record %d", r.nRecs))
	}
	r.nRecs++
	return rec, nil
}

// Close releases the bgzf decompressors. It does not close the underlying
// reader.
func (r *Reader) Close() error {
	return r.bg.Close()
}

func truncated(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
