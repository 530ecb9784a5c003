// Package model holds the canonical transcript representation shared by
// every reader and writer. All coordinates are 0-based, half-open genomic
// intervals, stored in ascending genomic order regardless of strand.
package model

import (
	"fmt"
	"strings"
)

// Strand is the direction of transcription.
type Strand int8

const (
	StrandUnknown Strand = 0
	StrandPlus    Strand = 1
	StrandMinus   Strand = -1
)

// ParseStrand converts the text form (+, -, .) to a Strand.
func ParseStrand(s string) (Strand, error) {
	switch s {
	case "+":
		return StrandPlus, nil
	case "-":
		return StrandMinus, nil
	case ".":
		return StrandUnknown, nil
	}
	return StrandUnknown, fmt.Errorf("invalid strand %q: must be +, - or .", s)
}

func (s Strand) String() string {
	switch s {
	case StrandPlus:
		return "+"
	case StrandMinus:
		return "-"
	}
	return "."
}

// CdsStat is the annotation status of a CDS edge, using RefGene
// nomenclature (none, unk, incmpl, cmpl).
type CdsStat uint8

const (
	CdsNone CdsStat = iota
	CdsUnknown
	CdsIncomplete
	CdsComplete
)

// ParseCdsStat accepts the RefGene short forms and a few common long forms.
func ParseCdsStat(s string) (CdsStat, error) {
	switch s {
	case "none":
		return CdsNone, nil
	case "unk", "unknown":
		return CdsUnknown, nil
	case "incmpl", "incompl", "incomplete":
		return CdsIncomplete, nil
	case "cmpl", "compl", "complete":
		return CdsComplete, nil
	}
	return CdsNone, fmt.Errorf("invalid cdsStat %q", s)
}

func (c CdsStat) String() string {
	switch c {
	case CdsUnknown:
		return "unk"
	case CdsIncomplete:
		return "incmpl"
	case CdsComplete:
		return "cmpl"
	}
	return "none"
}

// Frame is the reading-frame offset (0, 1 or 2) of the first coding base
// of an exon. FrameNone marks non-coding exons.
type Frame int8

const FrameNone Frame = -1

// ParseFrame accepts the RefGene form (-1, 0, 1, 2) and the GTF
// placeholder ".".
func ParseFrame(s string) (Frame, error) {
	switch s {
	case "-1", ".":
		return FrameNone, nil
	case "0":
		return 0, nil
	case "1":
		return 1, nil
	case "2":
		return 2, nil
	}
	return FrameNone, fmt.Errorf("invalid frame %q", s)
}

func (f Frame) String() string {
	if f == FrameNone {
		return "-1"
	}
	return fmt.Sprintf("%d", int8(f))
}

// Gtf returns the GTF frame column form, where non-coding is ".".
func (f Frame) Gtf() string {
	if f == FrameNone {
		return "."
	}
	return fmt.Sprintf("%d", int8(f))
}

// next returns the frame of the following coding exon, given the coding
// length of the current one.
func (f Frame) next(codingLen int64) Frame {
	if f == FrameNone {
		return FrameNone
	}
	return Frame((int64(f) + (3-codingLen%3)%3) % 3)
}

// Exon is a single exonic interval. Number is assigned 1..N in 5'->3'
// transcript order at finalize time.
type Exon struct {
	Start  int64
	End    int64
	Number int
	Frame  Frame
}

// Len returns the exon length in bases.
func (e Exon) Len() int64 {
	return e.End - e.Start
}

// Segment is a genomic sub-interval of a transcript, used for CDS and
// UTR decomposition.
type Segment struct {
	Start int64
	End   int64
}

// Transcript is a finalized, immutable gene isoform. Build instances
// through Builder; direct construction skips all invariant checks.
type Transcript struct {
	ID    string // transcript id, e.g. NM_000122.1
	Gene  string // gene symbol
	Chrom string
	Strand Strand

	Exons []Exon // ascending genomic order, non-overlapping

	// CDS bounds as absolute genomic coordinates, -1 when non-coding.
	CDSStart int64
	CDSEnd   int64

	// Annotation status of the genomic-left and genomic-right CDS edge.
	// On the minus strand the left edge is the stop codon.
	CDSStartStat CdsStat
	CDSEndStat   CdsStat
}

// IsCoding returns true if the transcript has a coding sequence.
func (t *Transcript) IsCoding() bool {
	return t.CDSStart >= 0 && t.CDSEnd > t.CDSStart
}

// IsForward returns true for plus-strand transcripts. Strand-less
// features are treated as forward, matching genome-browser convention.
func (t *Transcript) IsForward() bool {
	return t.Strand != StrandMinus
}

// TxStart returns the leftmost genomic position of the transcript.
func (t *Transcript) TxStart() int64 {
	return t.Exons[0].Start
}

// TxEnd returns the rightmost genomic position of the transcript.
func (t *Transcript) TxEnd() int64 {
	return t.Exons[len(t.Exons)-1].End
}

// ExonCount returns the number of exons.
func (t *Transcript) ExonCount() int {
	return len(t.Exons)
}

// StartCodonStat returns the status of the actual start codon,
// accounting for strand.
func (t *Transcript) StartCodonStat() CdsStat {
	if t.Strand == StrandMinus {
		return t.CDSEndStat
	}
	return t.CDSStartStat
}

// StopCodonStat returns the status of the actual stop codon,
// accounting for strand.
func (t *Transcript) StopCodonStat() CdsStat {
	if t.Strand == StrandMinus {
		return t.CDSStartStat
	}
	return t.CDSEndStat
}

// ExonCDS returns the coding sub-interval of an exon, or ok=false for
// exons without coding sequence.
func (t *Transcript) ExonCDS(e Exon) (start, end int64, ok bool) {
	if !t.IsCoding() {
		return 0, 0, false
	}
	start = max64(e.Start, t.CDSStart)
	end = min64(e.End, t.CDSEnd)
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}

// CDSLen returns the summed length of all coding exon parts.
func (t *Transcript) CDSLen() int64 {
	var n int64
	for _, e := range t.Exons {
		if s, en, ok := t.ExonCDS(e); ok {
			n += en - s
		}
	}
	return n
}

// CDSSegments returns the coding part of every coding exon in genomic order.
func (t *Transcript) CDSSegments() []Segment {
	var segs []Segment
	for _, e := range t.Exons {
		if s, en, ok := t.ExonCDS(e); ok {
			segs = append(segs, Segment{Start: s, End: en})
		}
	}
	return segs
}

// UTRSegments returns every untranslated exonic interval in genomic
// order: full exons outside the CDS plus the untranslated flanks of
// partially coding exons. For non-coding transcripts this is all exons.
func (t *Transcript) UTRSegments() []Segment {
	var segs []Segment
	for _, e := range t.Exons {
		if !t.IsCoding() {
			segs = append(segs, Segment{Start: e.Start, End: e.End})
			continue
		}
		s, en, ok := t.ExonCDS(e)
		if !ok {
			segs = append(segs, Segment{Start: e.Start, End: e.End})
			continue
		}
		if e.Start < s {
			segs = append(segs, Segment{Start: e.Start, End: s})
		}
		if en < e.End {
			segs = append(segs, Segment{Start: en, End: e.End})
		}
	}
	return segs
}

// UTR5Segments returns the 5' UTR intervals in genomic order.
// For non-coding transcripts every exon counts as untranslated.
func (t *Transcript) UTR5Segments() []Segment {
	segs := t.UTRSegments()
	if !t.IsCoding() {
		return segs
	}
	var res []Segment
	for _, s := range segs {
		if t.IsForward() && s.End <= t.CDSStart {
			res = append(res, s)
		}
		if !t.IsForward() && s.Start >= t.CDSEnd {
			res = append(res, s)
		}
	}
	return res
}

// UTR3Segments returns the 3' UTR intervals in genomic order.
// Non-coding transcripts have no 3' UTR.
func (t *Transcript) UTR3Segments() []Segment {
	if !t.IsCoding() {
		return nil
	}
	var res []Segment
	for _, s := range t.UTRSegments() {
		if t.IsForward() && s.Start >= t.CDSEnd {
			res = append(res, s)
		}
		if !t.IsForward() && s.End <= t.CDSStart {
			res = append(res, s)
		}
	}
	return res
}

// String renders the transcript for the raw debug output.
func (t *Transcript) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s (%s:%d-%d %s)", t.Gene, t.ID, t.Chrom, t.TxStart(), t.TxEnd(), t.Strand)
	for _, e := range t.Exons {
		fmt.Fprintf(&b, "\nExon %d %d-%d [%s]", e.Number, e.Start, e.End, e.Frame)
	}
	return b.String()
}

// NormalizeChrom ensures chromosome names carry the "chr" prefix, so
// that transcripts from mixed sources compare equal ("1" -> "chr1",
// "MT" -> "chrMT").
func NormalizeChrom(s string) string {
	if len(s) >= 3 && strings.EqualFold(s[:3], "chr") {
		return "chr" + s[3:]
	}
	return "chr" + s
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
