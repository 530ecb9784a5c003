// Package refgene reads and writes the UCSC refGene table dump: a
// GenePredExt row prefixed with the bin column, 16 tab-separated columns
// in total. The bin column is ignored on read and written as 0.
package refgene

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/anergictcell/atg/internal/genepred"
	"github.com/anergictcell/atg/internal/model"
)

const columns = 16

// Reader parses refGene content.
type Reader struct {
	r io.Reader
}

// NewReader returns a Reader for refGene content.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Read consumes the whole input and returns the transcripts in file order.
func (r *Reader) Read() (*model.Transcripts, error) {
	scanner := bufio.NewScanner(r.r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	transcripts := model.NewTranscripts()
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Split(line, "\t")
		if len(cols) != columns {
			return nil, &model.ParseError{
				Line: lineNum,
				Msg:  fmt.Sprintf("expected %d columns, got %d", columns, len(cols)),
			}
		}
		t, err := genepred.FromExtColumns(cols[1:], lineNum)
		if err != nil {
			return nil, err
		}
		transcripts.Push(t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan refGene: %w", err)
	}
	return transcripts, nil
}

// Writer renders transcripts as refGene rows.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a refGene writer.
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

// Write emits one row with bin fixed to 0.
func (w *Writer) Write(t *model.Transcript) error {
	cols := append([]string{"0"}, genepred.ExtColumns(t)...)
	if _, err := w.w.WriteString(strings.Join(cols, "\t")); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Flush writes any buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
