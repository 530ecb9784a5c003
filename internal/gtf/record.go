// Package gtf reads and writes GTF2.2 transcript annotation.
package gtf

import (
	"strconv"
	"strings"

	"github.com/anergictcell/atg/internal/model"
)

// Record is a single parsed GTF line.
type Record struct {
	Chrom      string
	Source     string
	Feature    string
	Start      int64
	End        int64
	Score      string
	Strand     model.Strand
	Frame      model.Frame
	Attributes map[string]string
}

// parseLine splits a GTF line into its nine tab-separated columns.
// lineNum is used for error reporting only.
func parseLine(line string, lineNum int) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		return nil, &model.ParseError{
			Line: lineNum,
			Msg:  "expected 9 tab-separated columns, got " + strconv.Itoa(len(fields)),
		}
	}

	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, &model.ParseError{Line: lineNum, Msg: "invalid start coordinate " + strconv.Quote(fields[3])}
	}
	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, &model.ParseError{Line: lineNum, Msg: "invalid end coordinate " + strconv.Quote(fields[4])}
	}
	if end < start {
		return nil, &model.ParseError{Line: lineNum, Msg: "end coordinate precedes start"}
	}

	strand, err := model.ParseStrand(fields[6])
	if err != nil {
		return nil, &model.ParseError{Line: lineNum, Msg: err.Error()}
	}
	frame, err := model.ParseFrame(fields[7])
	if err != nil {
		return nil, &model.ParseError{Line: lineNum, Msg: err.Error()}
	}

	return &Record{
		Chrom:      model.NormalizeChrom(fields[0]),
		Source:     fields[1],
		Feature:    fields[2],
		Start:      start,
		End:        end,
		Score:      fields[5],
		Strand:     strand,
		Frame:      frame,
		Attributes: parseAttributes(fields[8]),
	}, nil
}

// parseAttributes parses the GTF attribute column.
// Format: key "value"; key "value"; ...
func parseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)

	for _, part := range strings.Split(attrStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idx := strings.Index(part, " ")
		if idx == -1 {
			continue
		}

		key := part[:idx]
		value := strings.TrimSpace(part[idx+1:])
		value = strings.Trim(value, "\"")

		attrs[key] = value
	}

	return attrs
}
