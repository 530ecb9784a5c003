// Package qc runs the structural and biological sanity checks over
// transcripts and renders the QC report.
package qc

import (
	"bytes"
	"fmt"

	"github.com/anergictcell/atg/internal/model"
	"github.com/anergictcell/atg/internal/seq"
)

// Result is the outcome of one check.
type Result uint8

const (
	// ResultNA marks a check that does not apply to the transcript or
	// whose required input was unavailable.
	ResultNA Result = iota
	ResultOK
	ResultNOK
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "OK"
	case ResultNOK:
		return "NOK"
	}
	return "N/A"
}

// Check names, used in the report header and the -q filter flags.
const (
	CheckExon          = "exon"
	CheckCdsLength     = "cds-length"
	CheckStart         = "start"
	CheckStop          = "stop"
	CheckUpstreamStart = "upstream-start"
	CheckUpstreamStop  = "upstream-stop"
	CheckCoordinates   = "coordinates"
)

// CheckNames lists every check in report column order.
var CheckNames = []string{
	CheckExon,
	CheckCdsLength,
	CheckStart,
	CheckStop,
	CheckUpstreamStart,
	CheckUpstreamStop,
	CheckCoordinates,
}

// Report holds the outcome of every check for one transcript.
type Report struct {
	Exon          Result
	CdsLength     Result
	Start         Result
	Stop          Result
	UpstreamStart Result
	UpstreamStop  Result
	Coordinates   Result
}

// Get returns the result of a check by name.
func (r *Report) Get(name string) Result {
	switch name {
	case CheckExon:
		return r.Exon
	case CheckCdsLength:
		return r.CdsLength
	case CheckStart:
		return r.Start
	case CheckStop:
		return r.Stop
	case CheckUpstreamStart:
		return r.UpstreamStart
	case CheckUpstreamStop:
		return r.UpstreamStop
	case CheckCoordinates:
		return r.Coordinates
	}
	return ResultNA
}

// KnownCheck reports whether name is a valid check name.
func KnownCheck(name string) bool {
	for _, n := range CheckNames {
		if n == name {
			return true
		}
	}
	return false
}

// Run evaluates every check for one transcript. A failing reference
// lookup marks the coordinates check NOK and all other sequence checks
// N/A instead of propagating the error; a QC failure is a data point,
// not a fault.
func Run(t *model.Transcript, provider seq.Provider, codes *seq.CodeResolver) *Report {
	r := &Report{}

	r.Exon = ResultOK
	if t.ExonCount() == 0 {
		r.Exon = ResultNOK
	}

	if t.IsCoding() {
		r.CdsLength = ResultOK
		if t.CDSLen()%3 != 0 {
			r.CdsLength = ResultNOK
		}
	}

	exonSeq, err := seq.ExonSequence(provider, t)
	if err != nil {
		r.Coordinates = ResultNOK
		return r
	}
	r.Coordinates = ResultOK

	code := codes.For(t.Chrom)
	if !t.IsCoding() {
		r.UpstreamStart = scanForStart(exonSeq, code)
		return r
	}

	cds, err := seq.CDSSequence(provider, t)
	if err != nil {
		r.Coordinates = ResultNOK
		return r
	}

	r.Start = ResultNOK
	if len(cds) >= 3 && code.IsStartCodon(cds[:3]) {
		r.Start = ResultOK
	}
	r.Stop = ResultNOK
	if len(cds) >= 3 && code.IsStopCodon(cds[len(cds)-3:]) {
		r.Stop = ResultOK
	}
	r.UpstreamStop = prematureStop(cds, code)

	return r
}

// scanForStart looks for a start codon anywhere in the untranslated
// exon sequence of a non-coding transcript.
func scanForStart(exonSeq []byte, code *seq.GeneticCode) Result {
	for i := 0; i+3 <= len(exonSeq); i++ {
		if code.IsStartCodon(exonSeq[i : i+3]) {
			return ResultNOK
		}
	}
	return ResultOK
}

// prematureStop reports NOK when an in-frame stop codon appears before
// the final codon of the coding sequence.
func prematureStop(cds []byte, code *seq.GeneticCode) Result {
	peptide, _ := code.Translate(cds)
	if len(peptide) == 0 {
		return ResultOK
	}
	if bytes.ContainsRune(peptide[:len(peptide)-1], '*') {
		return ResultNOK
	}
	return ResultOK
}

// Filter gates transcripts on named checks: a transcript passes unless
// one of the named checks is NOK. N/A never rejects.
type Filter struct {
	checks []string
}

// NewFilter builds a filter from -q flag values.
func NewFilter(names []string) (*Filter, error) {
	for _, n := range names {
		if !KnownCheck(n) {
			return nil, fmt.Errorf("unknown QC check %q", n)
		}
	}
	return &Filter{checks: names}, nil
}

// Empty reports whether the filter gates on any check at all.
func (f *Filter) Empty() bool {
	return len(f.checks) == 0
}

// Passes evaluates a report against the filtered checks.
func (f *Filter) Passes(r *Report) bool {
	for _, name := range f.checks {
		if r.Get(name) == ResultNOK {
			return false
		}
	}
	return true
}
