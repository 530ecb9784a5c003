package qc

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/anergictcell/atg/internal/model"
	"github.com/anergictcell/atg/internal/seq"
)

// Writer renders one QC report row per transcript.
type Writer struct {
	w        *bufio.Writer
	provider seq.Provider
	codes    *seq.CodeResolver
}

// NewWriter returns a QC report writer evaluating against the given
// reference and genetic codes.
func NewWriter(w io.Writer, provider seq.Provider, codes *seq.CodeResolver) *Writer {
	if codes == nil {
		codes = seq.NewCodeResolver(nil)
	}
	return &Writer{w: bufio.NewWriter(w), provider: provider, codes: codes}
}

// WriteAll writes the header and one row per transcript.
func (w *Writer) WriteAll(ts *model.Transcripts) error {
	if _, err := fmt.Fprintf(w.w, "Gene\ttranscript\t%s\n", strings.Join(CheckNames, "\t")); err != nil {
		return err
	}
	for _, t := range ts.All() {
		report := Run(t, w.provider, w.codes)
		cells := make([]string, len(CheckNames))
		for i, name := range CheckNames {
			cells[i] = report.Get(name).String()
		}
		if _, err := fmt.Fprintf(w.w, "%s\t%s\t%s\n", t.Gene, t.ID, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return w.w.Flush()
}
