package fasta

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/anergictcell/atg/internal/model"
	"github.com/anergictcell/atg/internal/seq"
)

// FeatureWriter writes one row per transcript feature (5UTR, CDS, 3UTR,
// or exon for non-coding transcripts) with its nucleotide sequence.
// Rows appear in ascending genomic order; each sequence is oriented
// along the transcript strand.
type FeatureWriter struct {
	w           *bufio.Writer
	provider    seq.Provider
	wroteHeader bool
}

// NewFeatureWriter returns a feature-sequence writer.
func NewFeatureWriter(w io.Writer, provider seq.Provider) *FeatureWriter {
	return &FeatureWriter{w: bufio.NewWriter(w), provider: provider}
}

// WriteAll writes the rows of every transcript in the collection.
func (w *FeatureWriter) WriteAll(ts *model.Transcripts) error {
	for _, t := range ts.All() {
		if err := w.Write(t); err != nil {
			return err
		}
	}
	return w.Flush()
}

// featureRow pairs a genomic segment with its feature label.
type featureRow struct {
	segment model.Segment
	feature string
}

// Write emits the feature rows of one transcript.
func (w *FeatureWriter) Write(t *model.Transcript) error {
	if !w.wroteHeader {
		if _, err := fmt.Fprintln(w.w,
			"gene\ttranscript\tchrom\tstart\tend\tstrand\tfeature\tsequence"); err != nil {
			return err
		}
		w.wroteHeader = true
	}

	for _, row := range featureRows(t) {
		sequence, err := seq.SegmentSequence(w.provider, t, row.segment)
		if err != nil {
			return fmt.Errorf("sequence of %s: %w", t.ID, err)
		}
		_, err = fmt.Fprintf(w.w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			t.Gene, t.ID, t.Chrom,
			row.segment.Start, row.segment.End,
			t.Strand, row.feature, sequence)
		if err != nil {
			return err
		}
	}
	return nil
}

// Flush writes any buffered output to the underlying writer.
func (w *FeatureWriter) Flush() error {
	return w.w.Flush()
}

// featureRows decomposes a transcript into labeled segments in
// ascending genomic order.
func featureRows(t *model.Transcript) []featureRow {
	if !t.IsCoding() {
		rows := make([]featureRow, 0, t.ExonCount())
		for _, e := range t.Exons {
			rows = append(rows, featureRow{
				segment: model.Segment{Start: e.Start, End: e.End},
				feature: "exon",
			})
		}
		return rows
	}

	var rows []featureRow
	for _, s := range t.UTR5Segments() {
		rows = append(rows, featureRow{segment: s, feature: "5UTR"})
	}
	for _, s := range t.CDSSegments() {
		rows = append(rows, featureRow{segment: s, feature: "CDS"})
	}
	for _, s := range t.UTR3Segments() {
		rows = append(rows, featureRow{segment: s, feature: "3UTR"})
	}
	// Merge the three groups back into genomic order.
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].segment.Start < rows[j].segment.Start
	})
	return rows
}
