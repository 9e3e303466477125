// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package bam reads and writes BAM records in their raw, encoded form. A
// Record keeps the fixed-size fields and the variable-length block exactly as
// they appear on disk, so that a field can be edited in place and the record
// written back without a decode/encode round trip through sam.Record.
//
// Header parsing and bgzf decompression are delegated to
// github.com/grailbio/hts.
package bam
