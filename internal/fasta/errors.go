// Package fasta provides random access to an indexed reference genome
// and the FASTA output formats.
package fasta

import "fmt"

// UnknownChromosomeError reports a lookup for a chromosome the
// reference does not carry.
type UnknownChromosomeError struct {
	Chrom string
}

func (e *UnknownChromosomeError) Error() string {
	return fmt.Sprintf("chromosome %q not present in reference", e.Chrom)
}

// OutOfBoundsError reports a lookup outside the chromosome sequence.
type OutOfBoundsError struct {
	Chrom  string
	Start  int64
	End    int64
	Length int64
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("range %d-%d outside chromosome %q (length %d)",
		e.Start, e.End, e.Chrom, e.Length)
}
