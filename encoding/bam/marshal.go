// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bam

import (
	"encoding/binary"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
)

var (
	errNameAbsentOrTooLong           = errors.E(errors.Invalid, "bam: name absent or too long")
	errSequenceQualityLengthMismatch = errors.E(errors.Invalid, "bam: sequence/quality length mismatch")
)

// buildAux appends the encoding of aa to *buf.
func buildAux(aa []sam.Aux, buf *[]byte) {
	for _, a := range aa {
		*buf = append(*buf, []byte(a)...)
		switch a.Type() {
		case 'Z', 'H':
			*buf = append(*buf, 0)
		}
	}
}

// FromSAM encodes a decoded record in BAM format.
func FromSAM(r *sam.Record) (*Record, error) {
	if len(r.Name) == 0 || len(r.Name) > MaxNameLen-1 {
		return nil, errNameAbsentOrTooLong
	}
	if r.Qual != nil && len(r.Qual) != r.Seq.Length {
		return nil, errSequenceQualityLengthMismatch
	}
	rec := &Record{}
	f := rec.Fixed[:]
	binary.LittleEndian.PutUint32(f[refIDOffset:], uint32(int32(r.Ref.ID())))
	binary.LittleEndian.PutUint32(f[posOffset:], uint32(int32(r.Pos)))
	f[NameLenOffset] = byte(len(r.Name) + 1)
	f[mapQOffset] = r.MapQ
	binary.LittleEndian.PutUint16(f[binOffset:], uint16(r.Bin()))
	binary.LittleEndian.PutUint16(f[nCigarOffset:], uint16(len(r.Cigar)))
	binary.LittleEndian.PutUint16(f[flagsOffset:], uint16(r.Flags))
	binary.LittleEndian.PutUint32(f[seqLenOffset:], uint32(int32(r.Seq.Length)))
	binary.LittleEndian.PutUint32(f[mateRefOffset:], uint32(int32(r.MateRef.ID())))
	binary.LittleEndian.PutUint32(f[matePosOffset:], uint32(int32(r.MatePos)))
	binary.LittleEndian.PutUint32(f[tempLenOffset:], uint32(int32(r.TempLen)))

	n := len(r.Name) + 1 + // Null terminated.
		len(r.Cigar)<<2 + // CigarOps are 4 bytes.
		len(r.Seq.Seq) +
		r.Seq.Length
	data := make([]byte, 0, n)
	data = append(data, r.Name...)
	data = append(data, 0)
	var op [4]byte
	for _, o := range r.Cigar {
		binary.LittleEndian.PutUint32(op[:], uint32(o))
		data = append(data, op[:]...)
	}
	for _, d := range r.Seq.Seq {
		data = append(data, byte(d))
	}
	if r.Qual != nil {
		data = append(data, r.Qual...)
	} else {
		for i := 0; i < r.Seq.Length; i++ {
			data = append(data, 0xff)
		}
	}
	buildAux(r.AuxFields, &data)
	rec.Data = data
	return rec, nil
}

// Marshal writes the record, prefixed by its block_size, to w.
func (r *Record) Marshal(w io.Writer) error {
	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], uint32(r.Len()))
	if _, err := w.Write(size[:]); err != nil {
		return err
	}
	if _, err := w.Write(r.Fixed[:]); err != nil {
		return err
	}
	_, err := w.Write(r.Data)
	return err
}

// MarshalHeader encodes header in BAM binary format.
func MarshalHeader(header *sam.Header, w io.Writer) error {
	return header.EncodeBinary(w)
}

// UnmarshalHeader parses a sam.Header encoded in BAM binary format.
func UnmarshalHeader(r io.Reader) (*sam.Header, error) {
	header, err := sam.NewHeader(nil, nil)
	if err != nil {
		return nil, err
	}
	if err := header.DecodeBinary(r); err != nil {
		return nil, err
	}
	return header, nil
}
