/*Command bio-bam-fixname removes the two-character mate suffix, such as "/1"
  or "/2", from the name of every read in a BAM file. All other fields, and
  the header, are copied unchanged.

  Usage: bio-bam-fixname [flags] input.bam output.bam

  A line reporting the number of records processed so far is printed to
  stdout every million records. A read whose name is not longer than the
  suffix stops the command with an error, unless --keep-short-names is set.
*/
package main
