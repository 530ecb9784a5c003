// Package genepred reads and writes the UCSC GenePred table formats.
// The plain format carries 10 columns, the extended format adds score,
// a secondary name and CDS completeness/frame columns for 15. RefGene
// rows are extended rows with a leading bin column; package refgene
// builds on the codec exported here.
package genepred

import (
	"strconv"
	"strings"

	"github.com/anergictcell/atg/internal/model"
)

// column indices of the 10 shared core columns
const (
	colName = iota
	colChrom
	colStrand
	colTxStart
	colTxEnd
	colCdsStart
	colCdsEnd
	colExonCount
	colExonStarts
	colExonEnds
	coreColumns
)

// additional columns of the extended format
const (
	colScore = coreColumns + iota
	colName2
	colCdsStartStat
	colCdsEndStat
	colExonFrames
	extColumns
)

// FromCoreColumns assembles a transcript from the 10 plain GenePred
// columns. The gene symbol falls back to the transcript name because the
// plain format has no name2 column.
func FromCoreColumns(cols []string, lineNum int) (*model.Transcript, error) {
	if len(cols) != coreColumns {
		return nil, &model.ParseError{
			Line: lineNum,
			Msg:  "expected " + strconv.Itoa(coreColumns) + " columns, got " + strconv.Itoa(len(cols)),
		}
	}
	b, err := coreBuilder(cols, lineNum)
	if err != nil {
		return nil, err
	}
	b.SetGene(cols[colName])
	return finalize(b, lineNum)
}

// FromExtColumns assembles a transcript from the 15 GenePredExt columns.
func FromExtColumns(cols []string, lineNum int) (*model.Transcript, error) {
	if len(cols) != extColumns {
		return nil, &model.ParseError{
			Line: lineNum,
			Msg:  "expected " + strconv.Itoa(extColumns) + " columns, got " + strconv.Itoa(len(cols)),
		}
	}
	b, err := coreBuilder(cols, lineNum)
	if err != nil {
		return nil, err
	}
	b.SetGene(cols[colName2])

	startStat, err := model.ParseCdsStat(cols[colCdsStartStat])
	if err != nil {
		return nil, &model.ParseError{Line: lineNum, Msg: err.Error()}
	}
	endStat, err := model.ParseCdsStat(cols[colCdsEndStat])
	if err != nil {
		return nil, &model.ParseError{Line: lineNum, Msg: err.Error()}
	}
	b.SetCDSStats(startStat, endStat)

	frames, err := parseFrameList(cols[colExonFrames], lineNum)
	if err != nil {
		return nil, err
	}
	b.SetFrames(frames)

	return finalize(b, lineNum)
}

// coreBuilder fills a Builder from the 10 core columns shared by both
// layouts.
func coreBuilder(cols []string, lineNum int) (*model.Builder, error) {
	strand, err := model.ParseStrand(cols[colStrand])
	if err != nil {
		return nil, &model.ParseError{Line: lineNum, Msg: err.Error()}
	}

	txStart, err := parseCoord(cols[colTxStart], "txStart", lineNum)
	if err != nil {
		return nil, err
	}
	txEnd, err := parseCoord(cols[colTxEnd], "txEnd", lineNum)
	if err != nil {
		return nil, err
	}
	if txEnd < txStart {
		return nil, &model.ParseError{Line: lineNum, Msg: "txEnd precedes txStart"}
	}
	cdsStart, err := parseCoord(cols[colCdsStart], "cdsStart", lineNum)
	if err != nil {
		return nil, err
	}
	cdsEnd, err := parseCoord(cols[colCdsEnd], "cdsEnd", lineNum)
	if err != nil {
		return nil, err
	}

	exonCount, err := strconv.Atoi(cols[colExonCount])
	if err != nil {
		return nil, &model.ParseError{Line: lineNum, Msg: "invalid exonCount " + strconv.Quote(cols[colExonCount])}
	}
	starts, err := parseCoordList(cols[colExonStarts], "exonStarts", lineNum)
	if err != nil {
		return nil, err
	}
	ends, err := parseCoordList(cols[colExonEnds], "exonEnds", lineNum)
	if err != nil {
		return nil, err
	}
	if len(starts) != exonCount || len(ends) != exonCount {
		return nil, &model.ParseError{Line: lineNum, Msg: "exon list length does not match exonCount"}
	}

	b := model.NewBuilder().
		SetID(cols[colName]).
		SetChrom(model.NormalizeChrom(cols[colChrom])).
		SetStrand(strand)
	for i := range starts {
		b.AddExon(starts[i], ends[i])
	}
	// cdsStart >= cdsEnd marks a non-coding row.
	if cdsStart < cdsEnd {
		b.SetCDS(cdsStart, cdsEnd)
	}
	return b, nil
}

func finalize(b *model.Builder, lineNum int) (*model.Transcript, error) {
	t, err := b.Finalize()
	if err != nil {
		return nil, &model.ParseError{Line: lineNum, Msg: err.Error()}
	}
	return t, nil
}

// CoreColumns renders the 10 plain GenePred columns of a transcript.
func CoreColumns(t *model.Transcript) []string {
	cols := make([]string, coreColumns)
	cols[colName] = t.ID
	cols[colChrom] = t.Chrom
	cols[colStrand] = t.Strand.String()
	cols[colTxStart] = strconv.FormatInt(t.TxStart(), 10)
	cols[colTxEnd] = strconv.FormatInt(t.TxEnd(), 10)

	// Non-coding rows conventionally carry cdsStart == cdsEnd == txEnd.
	cdsStart, cdsEnd := t.CDSStart, t.CDSEnd
	if !t.IsCoding() {
		cdsStart, cdsEnd = t.TxEnd(), t.TxEnd()
	}
	cols[colCdsStart] = strconv.FormatInt(cdsStart, 10)
	cols[colCdsEnd] = strconv.FormatInt(cdsEnd, 10)

	cols[colExonCount] = strconv.Itoa(t.ExonCount())
	starts := make([]string, t.ExonCount())
	ends := make([]string, t.ExonCount())
	for i, e := range t.Exons {
		starts[i] = strconv.FormatInt(e.Start, 10)
		ends[i] = strconv.FormatInt(e.End, 10)
	}
	cols[colExonStarts] = joinList(starts)
	cols[colExonEnds] = joinList(ends)
	return cols
}

// ExtColumns renders the 15 GenePredExt columns of a transcript. The
// score column is always 0.
func ExtColumns(t *model.Transcript) []string {
	cols := make([]string, extColumns)
	copy(cols, CoreColumns(t))
	cols[colScore] = "0"
	cols[colName2] = t.Gene
	cols[colCdsStartStat] = t.CDSStartStat.String()
	cols[colCdsEndStat] = t.CDSEndStat.String()

	frames := make([]string, t.ExonCount())
	for i, e := range t.Exons {
		frames[i] = e.Frame.String()
	}
	cols[colExonFrames] = joinList(frames)
	return cols
}

func parseCoord(s, what string, lineNum int) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &model.ParseError{Line: lineNum, Msg: "invalid " + what + " " + strconv.Quote(s)}
	}
	return v, nil
}

// parseCoordList parses a comma-separated coordinate list. UCSC tables
// end every list with a trailing comma; the empty final element is
// dropped.
func parseCoordList(s, what string, lineNum int) ([]int64, error) {
	parts := splitList(s)
	vals := make([]int64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, &model.ParseError{Line: lineNum, Msg: "invalid " + what + " entry " + strconv.Quote(p)}
		}
		vals[i] = v
	}
	return vals, nil
}

func parseFrameList(s string, lineNum int) ([]model.Frame, error) {
	parts := splitList(s)
	frames := make([]model.Frame, len(parts))
	for i, p := range parts {
		f, err := model.ParseFrame(p)
		if err != nil {
			return nil, &model.ParseError{Line: lineNum, Msg: "invalid exonFrames entry " + strconv.Quote(p)}
		}
		frames[i] = f
	}
	return frames, nil
}

func splitList(s string) []string {
	s = strings.TrimSuffix(s, ",")
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// joinList joins list entries with the UCSC trailing comma.
func joinList(parts []string) string {
	return strings.Join(parts, ",") + ","
}
