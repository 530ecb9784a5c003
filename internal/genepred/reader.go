package genepred

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/anergictcell/atg/internal/model"
)

// Reader parses GenePred content. It accepts the 10-column plain layout,
// the same layout with a leading bin column (11) and the 15-column
// extended layout, detected per line.
type Reader struct {
	r io.Reader
}

// NewReader returns a Reader for GenePred content.
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
		var t *model.Transcript
		var err error
		switch len(cols) {
		case coreColumns:
			t, err = FromCoreColumns(cols, lineNum)
		case coreColumns + 1:
			// bin-prefixed plain layout
			t, err = FromCoreColumns(cols[1:], lineNum)
		case extColumns:
			t, err = FromExtColumns(cols, lineNum)
		default:
			err = &model.ParseError{
				Line: lineNum,
				Msg:  fmt.Sprintf("expected 10, 11 or 15 columns, got %d", len(cols)),
			}
		}
		if err != nil {
			return nil, err
		}
		transcripts.Push(t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan GenePred: %w", err)
	}
	return transcripts, nil
}
