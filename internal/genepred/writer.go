package genepred

import (
	"bufio"
	"io"
	"strings"

	"github.com/anergictcell/atg/internal/model"
)

// Writer renders transcripts as plain 10-column GenePred rows.
type Writer struct {
	w   *bufio.Writer
	ext bool
}

// NewWriter returns a plain GenePred writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// NewExtWriter returns a 15-column GenePredExt writer.
func NewExtWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w), ext: true}
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

// Write emits one row.
func (w *Writer) Write(t *model.Transcript) error {
	cols := CoreColumns(t)
	if w.ext {
		cols = ExtColumns(t)
	}
	if _, err := w.w.WriteString(strings.Join(cols, "\t")); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Flush writes any buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
