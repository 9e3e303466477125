// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package fixname

import (
	"fmt"

	"github.com/grailbio/bamfix/encoding/bam"
	"github.com/grailbio/base/errors"
)

// ErrNameTooShort is returned by StripSuffix when the read name is not longer
// than the suffix.
var ErrNameTooShort = errors.E(errors.Invalid, "fixname: read name too short to strip suffix")

// StripSuffix removes the last n bytes of the read name of rec. The rest of
// the record is unchanged. On error, rec is not modified.
func StripSuffix(rec *bam.Record, n int) error {
	if n < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("fixname: negative suffix length %d", n))
	}
	name := rec.Name()
	if name == nil {
		return errors.E(errors.Integrity, fmt.Sprintf("fixname: corrupt record, l_read_name=%d", rec.NameLen()))
	}
	if len(name) <= n {
		return ErrNameTooShort
	}
	return rec.SetName(name[:len(name)-n])
}
