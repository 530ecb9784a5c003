// Package pipeline wires readers, the optional QC gate and writers into
// one conversion run.
package pipeline

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/anergictcell/atg/internal/bed"
	"github.com/anergictcell/atg/internal/cache"
	"github.com/anergictcell/atg/internal/fasta"
	"github.com/anergictcell/atg/internal/genepred"
	"github.com/anergictcell/atg/internal/gtf"
	"github.com/anergictcell/atg/internal/model"
	"github.com/anergictcell/atg/internal/qc"
	"github.com/anergictcell/atg/internal/refgene"
	"github.com/anergictcell/atg/internal/seq"
	"github.com/anergictcell/atg/internal/spliceai"
)

// Input formats.
const (
	FromGTF         = "gtf"
	FromRefGene     = "refgene"
	FromGenePred    = "genepred"
	FromGenePredExt = "genepredext"
	FromBin         = "bin"
)

// Output formats. The reader formats double as writer formats.
const (
	ToGTF             = "gtf"
	ToRefGene         = "refgene"
	ToGenePred        = "genepred"
	ToGenePredExt     = "genepredext"
	ToBed             = "bed"
	ToFasta           = "fasta"
	ToFastaSplit      = "fasta-split"
	ToFeatureSequence = "feature-sequence"
	ToSpliceAI        = "spliceai"
	ToQC              = "qc"
	ToBin             = "bin"
	ToRaw             = "raw"
	ToNone            = "none"
)

// Options configure one conversion run.
type Options struct {
	From   string
	To     string
	Input  string // path; empty or "-" reads stdin
	Output string // path; empty or "-" writes stdout

	GtfSource    string   // source column of GTF output
	Reference    string   // reference genome FASTA path
	FastaFormat  string   // cds, exons or transcript
	GeneticCodes []string // -c values, "chrom:code" or bare
	QCChecks     []string // -q values
}

// Runner executes conversion runs.
type Runner struct {
	logger *zap.Logger
}

// NewRunner returns a Runner without logging.
func NewRunner() *Runner {
	return &Runner{logger: zap.NewNop()}
}

// SetLogger sets the logger for progress and warning messages.
func (r *Runner) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Run reads, optionally filters and writes transcripts per the options.
func (r *Runner) Run(opts Options) error {
	codes := seq.NewCodeResolver(nil)
	for _, spec := range opts.GeneticCodes {
		if err := codes.Add(spec); err != nil {
			return err
		}
	}
	filter, err := qc.NewFilter(opts.QCChecks)
	if err != nil {
		return err
	}

	transcripts, err := r.read(opts)
	if err != nil {
		return fmt.Errorf("read %s: %w", opts.From, err)
	}
	r.logger.Info("parsed transcripts",
		zap.String("from", opts.From),
		zap.Int("count", transcripts.Len()))

	var provider seq.Provider
	if needsReference(opts, filter) {
		if opts.Reference == "" {
			return fmt.Errorf("output format %s requires a reference genome (-r)", opts.To)
		}
		p, err := fasta.NewFileProvider(opts.Reference)
		if err != nil {
			return err
		}
		defer p.Close()
		provider = p
	}

	if !filter.Empty() {
		transcripts = r.applyFilter(transcripts, filter, provider, codes)
	}

	if err := r.write(opts, transcripts, provider, codes); err != nil {
		return fmt.Errorf("write %s: %w", opts.To, err)
	}
	return nil
}

// needsReference reports whether the run must open the reference genome.
func needsReference(opts Options, filter *qc.Filter) bool {
	switch opts.To {
	case ToFasta, ToFastaSplit, ToFeatureSequence, ToQC:
		return true
	}
	return !filter.Empty()
}

func (r *Runner) read(opts Options) (*model.Transcripts, error) {
	if opts.From == FromBin {
		if opts.Input == "" || opts.Input == "-" {
			return nil, fmt.Errorf("bin input requires a file path")
		}
		store, err := cache.Open(opts.Input)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.ReadAll()
	}

	in, closeIn, err := openInput(opts.Input)
	if err != nil {
		return nil, err
	}
	defer closeIn()

	switch opts.From {
	case FromGTF:
		return gtf.NewReader(in).Read()
	case FromRefGene:
		return refgene.NewReader(in).Read()
	case FromGenePred, FromGenePredExt:
		return genepred.NewReader(in).Read()
	}
	return nil, fmt.Errorf("unknown input format %q", opts.From)
}

// applyFilter drops every transcript failing one of the gated checks.
func (r *Runner) applyFilter(ts *model.Transcripts, filter *qc.Filter, provider seq.Provider, codes *seq.CodeResolver) *model.Transcripts {
	kept := model.NewTranscripts()
	for _, t := range ts.All() {
		if filter.Passes(qc.Run(t, provider, codes)) {
			kept.Push(t)
			continue
		}
		r.logger.Debug("transcript removed by QC filter",
			zap.String("transcript", t.ID),
			zap.String("gene", t.Gene))
	}
	r.logger.Info("applied QC filter",
		zap.Int("in", ts.Len()),
		zap.Int("out", kept.Len()))
	return kept
}

func (r *Runner) write(opts Options, ts *model.Transcripts, provider seq.Provider, codes *seq.CodeResolver) error {
	switch opts.To {
	case ToNone:
		return nil
	case ToBin:
		if opts.Output == "" || opts.Output == "-" {
			return fmt.Errorf("bin output requires a file path")
		}
		store, err := cache.Open(opts.Output)
		if err != nil {
			return err
		}
		defer store.Close()
		return store.WriteAll(ts)
	case ToFastaSplit:
		if opts.Output == "" || opts.Output == "-" {
			return fmt.Errorf("fasta-split output requires a directory path")
		}
		w := fasta.NewSplitWriter(opts.Output, provider)
		format, err := fasta.ParseFormat(fastaFormatOrDefault(opts))
		if err != nil {
			return err
		}
		w.SetFormat(format)
		return w.WriteAll(ts)
	}

	out, closeOut, err := openOutput(opts.Output)
	if err != nil {
		return err
	}
	defer closeOut()

	switch opts.To {
	case ToGTF:
		w := gtf.NewWriter(out)
		w.SetSource(opts.GtfSource)
		return w.WriteAll(ts)
	case ToRefGene:
		return refgene.NewWriter(out).WriteAll(ts)
	case ToGenePred:
		return genepred.NewWriter(out).WriteAll(ts)
	case ToGenePredExt:
		return genepred.NewExtWriter(out).WriteAll(ts)
	case ToBed:
		return bed.NewWriter(out).WriteAll(ts)
	case ToFasta:
		w := fasta.NewWriter(out, provider)
		format, err := fasta.ParseFormat(fastaFormatOrDefault(opts))
		if err != nil {
			return err
		}
		w.SetFormat(format)
		return w.WriteAll(ts)
	case ToFeatureSequence:
		return fasta.NewFeatureWriter(out, provider).WriteAll(ts)
	case ToSpliceAI:
		return spliceai.NewWriter(out).WriteAll(ts)
	case ToQC:
		return qc.NewWriter(out, provider, codes).WriteAll(ts)
	case ToRaw:
		return writeRaw(out, ts)
	}
	return fmt.Errorf("unknown output format %q", opts.To)
}

func fastaFormatOrDefault(opts Options) string {
	if opts.FastaFormat == "" {
		return "cds"
	}
	return opts.FastaFormat
}

// writeRaw dumps the debug representation of every transcript.
func writeRaw(w io.Writer, ts *model.Transcripts) error {
	for _, t := range ts.All() {
		if _, err := fmt.Fprintf(w, "%s\n\n", t); err != nil {
			return err
		}
	}
	return nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, func() { f.Close() }, nil
}
