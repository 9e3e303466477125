// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bam

import (
	"io"

	"github.com/grailbio/bamfix/encoding/bgzf"
	"github.com/grailbio/hts/sam"
)

// Writer writes raw BAM records to a bgzf stream.
type Writer struct {
	bg *bgzf.Writer
}

// NewWriter creates a Writer that compresses at the given gzip level. The
// header is written immediately, in blocks of its own.
func NewWriter(w io.Writer, header *sam.Header, level int) (*Writer, error) {
	bg, err := bgzf.NewWriter(w, level)
	if err != nil {
		return nil, err
	}
	if err := MarshalHeader(header, bg); err != nil {
		return nil, err
	}
	if err := bg.CloseWithoutTerminator(); err != nil {
		return nil, err
	}
	return &Writer{bg: bg}, nil
}

// Write appends a record to the stream.
func (w *Writer) Write(r *Record) error {
	return r.Marshal(w.bg)
}

// Close flushes buffered records and writes the bgzf EOF marker. It does not
// close the underlying writer.
func (w *Writer) Close() error {
	return w.bg.Close()
}
