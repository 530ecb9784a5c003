// Package bed writes transcripts as BED12 rows for genome-browser
// display. BED is write-only; block structure loses the CDS completeness
// and frame annotation, so no reader exists.
package bed

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/anergictcell/atg/internal/model"
)

// itemRGB of every row, a dark red that renders well on the UCSC browser.
const itemRGB = "212,16,48"

// Writer renders transcripts as 12-column BED rows.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a BED writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
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

// Write emits one BED12 row. The thick interval covers the CDS; for
// non-coding transcripts it collapses to the transcript end.
func (w *Writer) Write(t *model.Transcript) error {
	thickStart, thickEnd := t.CDSStart, t.CDSEnd
	if !t.IsCoding() {
		thickStart, thickEnd = t.TxEnd(), t.TxEnd()
	}

	sizes := make([]string, t.ExonCount())
	offsets := make([]string, t.ExonCount())
	for i, e := range t.Exons {
		sizes[i] = strconv.FormatInt(e.Len(), 10)
		offsets[i] = strconv.FormatInt(e.Start-t.TxStart(), 10)
	}

	_, err := fmt.Fprintf(w.w, "%s\t%d\t%d\t%s:%s\t0\t%s\t%d\t%d\t%s\t%d\t%s\t%s\n",
		t.Chrom, t.TxStart(), t.TxEnd(),
		t.Gene, t.ID,
		t.Strand,
		thickStart, thickEnd,
		itemRGB,
		t.ExonCount(),
		strings.Join(sizes, ","),
		strings.Join(offsets, ","))
	return err
}

// Flush writes any buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
