// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

/*Package fixname removes the mate suffix ("/1", "/2") that some aligners leave
  at the end of read names in BAM files.

  Records are processed one at a time, without decoding them: the name is the
  first field of the record's variable-length block, so shortening it only
  requires shifting the rest of the block (cigar, seq, qual, aux) to the left.
  The header and all the other fields are copied through unchanged.

  A name that is not longer than the suffix cannot be stripped. By default
  such a record aborts the run with ErrNameTooShort; with
  Opts.KeepShortNames, the record is written unmodified and counted in
  Stats.Skipped instead.
*/
package fixname
