// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package fixname

import (
	"hash"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/bamfix/encoding/bam"
)

// tailHasher computes the digest of every part of a record except the read
// name and its length, i.e., the parts that name fixing must not change.
type tailHasher struct {
	h hash.Hash64
}

func newTailHasher() tailHasher {
	return tailHasher{h: seahash.New()}
}

func (t tailHasher) sum(rec *bam.Record) uint64 {
	t.h.Reset()
	t.h.Write(rec.Fixed[:bam.NameLenOffset])   // nolint: errcheck
	t.h.Write(rec.Fixed[bam.NameLenOffset+1:]) // nolint: errcheck
	t.h.Write(rec.Tail())                      // nolint: errcheck
	return t.h.Sum64()
}
