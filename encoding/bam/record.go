// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bam

import (
	"bytes"
	"fmt"
	"math/bits"

	"github.com/grailbio/base/errors"
)

// FixedSize is the size of the fixed part of a BAM alignment record, excluding
// the leading block_size field.
const FixedSize = 32

// MaxNameLen is the largest legal l_read_name value, including the trailing
// NUL. l_read_name is stored in a single byte.
const MaxNameLen = 255

// NameLenOffset is the offset of l_read_name within Record.Fixed.
const NameLenOffset = 8

// Offsets of the other fields within Record.Fixed.
const (
	refIDOffset   = 0
	posOffset     = 4
	mapQOffset    = 9
	binOffset     = 10
	nCigarOffset  = 12
	flagsOffset   = 14
	seqLenOffset  = 16
	mateRefOffset = 20
	matePosOffset = 24
	tempLenOffset = 28
)

// Record is a BAM alignment record in its on-disk encoding, minus the
// block_size prefix. Record is not decoded into sam.Record; code that only
// needs to touch a few bytes of the record (e.g., the read name) can do so
// without a full decode/encode cycle.
type Record struct {
	// Fixed stores the fixed-size fields: refID, pos, l_read_name, mapq, bin,
	// n_cigar_op, flag, l_seq, next_refID, next_pos and tlen, in little-endian.
	Fixed [FixedSize]byte

	// Data is the variable-length block. It stores, in order, the read name
	// (NUL-terminated), cigar, seq, qual, and aux fields. len(Data) is the
	// block's length; cap(Data) is its allocated capacity.
	Data []byte
}

// NameLen returns the l_read_name field, i.e., the length of the name
// including the trailing NUL.
func (r *Record) NameLen() int {
	return int(r.Fixed[NameLenOffset])
}

// Name returns the read name, without the trailing NUL. The result aliases
// r.Data.
func (r *Record) Name() []byte {
	n := r.NameLen()
	if n == 0 || n > len(r.Data) {
		return nil
	}
	return r.Data[:n-1]
}

// Tail returns the part of the variable-length block that follows the name,
// i.e., the cigar, seq, qual and aux fields. The result aliases r.Data.
func (r *Record) Tail() []byte {
	n := r.NameLen()
	if n > len(r.Data) {
		return nil
	}
	return r.Data[n:]
}

// Len returns the value of the block_size field.
func (r *Record) Len() int {
	return FixedSize + len(r.Data)
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	c := &Record{Fixed: r.Fixed}
	c.Data = make([]byte, len(r.Data))
	copy(c.Data, r.Data)
	return c
}

// validate checks that the name field is consistent with the data block.
func (r *Record) validate() error {
	n := r.NameLen()
	if n == 0 || n > len(r.Data) {
		return errors.E(errors.Integrity,
			fmt.Sprintf("bam: l_read_name %d inconsistent with data length %d", n, len(r.Data)))
	}
	if r.Data[n-1] != 0 {
		return errors.E(errors.Integrity, "bam: read name is not NUL-terminated")
	}
	return nil
}

// roundUpPow2 rounds n up to the next power of two.
func roundUpPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << uint(bits.Len(uint(n-1)))
}

// growData makes r.Data exactly n bytes long, preserving its current
// contents. If the backing array is too small, a new one is allocated whose
// capacity is n rounded up to a power of two.
func (r *Record) growData(n int) {
	if n <= cap(r.Data) {
		r.Data = r.Data[:n]
		return
	}
	buf := make([]byte, n, roundUpPow2(n))
	copy(buf, r.Data)
	r.Data = buf
}

// SetName replaces the read name with the given one. The name must not
// contain the trailing NUL; SetName appends it. All the fields that follow the
// name (cigar, seq, qual, aux) are moved by the difference between the new and
// old name lengths and are otherwise left bit-for-bit intact.
//
// name may alias a prefix of r.Name(). On error, r is not modified.
func (r *Record) SetName(name []byte) error {
	if err := r.validate(); err != nil {
		return err
	}
	if len(name) == 0 {
		return errors.E(errors.Invalid, "bam: empty read name")
	}
	if bytes.IndexByte(name, 0) >= 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("bam: read name %q contains NUL", name))
	}
	oldLen := r.NameLen()
	newLen := len(name) + 1
	if newLen > MaxNameLen {
		return errors.E(errors.Invalid,
			fmt.Sprintf("bam: read name too long: %d > %d", newLen-1, MaxNameLen-1))
	}
	if delta := newLen - oldLen; delta != 0 {
		dataLen := len(r.Data)
		r.growData(dataLen + delta)
		// copy has memmove semantics, so the tail can be shifted in either
		// direction in one step.
		copy(r.Data[newLen:], r.Data[oldLen:dataLen])
		r.Fixed[NameLenOffset] = byte(newLen)
	}
	copy(r.Data, name)
	r.Data[newLen-1] = 0
	return nil
}
