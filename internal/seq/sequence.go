package seq

import (
	"github.com/anergictcell/atg/internal/model"
)

// Provider supplies random-access reference sequence. Coordinates are
// 0-based half-open. Implementations fail with the fasta package's
// UnknownChromosomeError or OutOfBoundsError.
type Provider interface {
	Sequence(chrom string, start, end int64) ([]byte, error)
}

// complement of one nucleotide, preserving case. Ambiguous bases map to N.
func complement(b byte) byte {
	switch b {
	case 'A':
		return 'T'
	case 'T', 'U':
		return 'A'
	case 'C':
		return 'G'
	case 'G':
		return 'C'
	case 'a':
		return 't'
	case 't', 'u':
		return 'a'
	case 'c':
		return 'g'
	case 'g':
		return 'c'
	case 'n':
		return 'n'
	}
	return 'N'
}

// ReverseComplement reverses and complements the sequence in place and
// returns it.
func ReverseComplement(s []byte) []byte {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = complement(s[j]), complement(s[i])
	}
	if len(s)%2 == 1 {
		mid := len(s) / 2
		s[mid] = complement(s[mid])
	}
	return s
}

// segments fetches and concatenates genomic intervals in ascending
// order, then applies the strand once to the whole result. Applying the
// reverse complement per segment would scramble the order across exon
// boundaries.
func segments(p Provider, t *model.Transcript, segs []model.Segment) ([]byte, error) {
	var total int64
	for _, s := range segs {
		total += s.End - s.Start
	}
	out := make([]byte, 0, total)
	for _, s := range segs {
		chunk, err := p.Sequence(t.Chrom, s.Start, s.End)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	if !t.IsForward() {
		out = ReverseComplement(out)
	}
	return out, nil
}

// GenomicSequence returns the full transcript span including introns,
// 5'->3'.
func GenomicSequence(p Provider, t *model.Transcript) ([]byte, error) {
	return segments(p, t, []model.Segment{{Start: t.TxStart(), End: t.TxEnd()}})
}

// ExonSequence returns the spliced exonic sequence, 5'->3'.
func ExonSequence(p Provider, t *model.Transcript) ([]byte, error) {
	segs := make([]model.Segment, t.ExonCount())
	for i, e := range t.Exons {
		segs[i] = model.Segment{Start: e.Start, End: e.End}
	}
	return segments(p, t, segs)
}

// CDSSequence returns the coding sequence, 5'->3'. Non-coding
// transcripts yield an empty sequence.
func CDSSequence(p Provider, t *model.Transcript) ([]byte, error) {
	return segments(p, t, t.CDSSegments())
}

// SegmentSequence returns one genomic interval of a transcript oriented
// along its strand, for per-feature output.
func SegmentSequence(p Provider, t *model.Transcript, s model.Segment) ([]byte, error) {
	return segments(p, t, []model.Segment{s})
}
