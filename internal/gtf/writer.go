package gtf

import (
	"bufio"
	"fmt"
	"io"

	"github.com/anergictcell/atg/internal/model"
)

// DefaultSource is the value of the source column unless overridden.
const DefaultSource = "atg"

// Writer renders transcripts as GTF. Each transcript produces one
// transcript line followed by exon, CDS and UTR lines in ascending
// genomic order. The emitted CDS spans the full coding sequence and no
// start_codon/stop_codon lines are written, so the output reproduces the
// input transcript exactly when read back.
type Writer struct {
	w      *bufio.Writer
	source string
}

// NewWriter returns a GTF writer with the default source column.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w), source: DefaultSource}
}

// SetSource overrides the source column of every emitted line.
func (w *Writer) SetSource(source string) {
	if source != "" {
		w.source = source
	}
}

// WriteAll writes every transcript of the collection.
func (w *Writer) WriteAll(ts *model.Transcripts) error {
	for _, t := range ts.All() {
		if err := w.Write(t); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Write emits all GTF lines of a single transcript.
func (w *Writer) Write(t *model.Transcript) error {
	if err := w.writeLine(t, "transcript", t.TxStart(), t.TxEnd(), model.FrameNone, 0); err != nil {
		return err
	}
	for _, e := range t.Exons {
		if err := w.writeLine(t, "exon", e.Start, e.End, model.FrameNone, e.Number); err != nil {
			return err
		}
		if cs, ce, ok := t.ExonCDS(e); ok {
			if err := w.writeLine(t, "CDS", cs, ce, e.Frame, e.Number); err != nil {
				return err
			}
		}
	}
	for _, s := range t.UTR5Segments() {
		if err := w.writeLine(t, "5UTR", s.Start, s.End, model.FrameNone, exonNumberAt(t, s)); err != nil {
			return err
		}
	}
	for _, s := range t.UTR3Segments() {
		if err := w.writeLine(t, "3UTR", s.Start, s.End, model.FrameNone, exonNumberAt(t, s)); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes any buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// exonNumberAt returns the number of the exon containing a UTR segment.
// Finalized transcripts guarantee every UTR segment lies within one exon.
func exonNumberAt(t *model.Transcript, s model.Segment) int {
	for _, e := range t.Exons {
		if s.Start >= e.Start && s.End <= e.End {
			return e.Number
		}
	}
	return 0
}

func (w *Writer) writeLine(t *model.Transcript, feature string, start, end int64, frame model.Frame, exonNumber int) error {
	attrs := fmt.Sprintf("gene_id %q; transcript_id %q; gene_name %q;", t.Gene, t.ID, t.Gene)
	if exonNumber > 0 {
		attrs += fmt.Sprintf(" exon_number %q; exon_id %q;",
			fmt.Sprintf("%d", exonNumber), fmt.Sprintf("%s.%d", t.ID, exonNumber))
	}
	_, err := fmt.Fprintf(w.w, "%s\t%s\t%s\t%d\t%d\t.\t%s\t%s\t%s\n",
		t.Chrom, w.source, feature, start, end, t.Strand, frame.Gtf(), attrs)
	return err
}
