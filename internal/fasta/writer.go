package fasta

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/anergictcell/atg/internal/model"
	"github.com/anergictcell/atg/internal/seq"
)

// lineWidth is the sequence wrap column of FASTA output.
const lineWidth = 80

// Format selects which sequence of a transcript is written.
type Format int

const (
	// FormatCDS writes the coding sequence.
	FormatCDS Format = iota
	// FormatExons writes the spliced exonic sequence.
	FormatExons
	// FormatTranscript writes the full genomic span including introns.
	FormatTranscript
)

// ParseFormat converts the --fasta-format value.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "cds":
		return FormatCDS, nil
	case "exons":
		return FormatExons, nil
	case "transcript":
		return FormatTranscript, nil
	}
	return FormatCDS, fmt.Errorf("invalid fasta-format %q: must be cds, exons or transcript", s)
}

// Writer renders transcript sequences as FASTA records with
// ">gene:transcript" headers.
type Writer struct {
	w        *bufio.Writer
	provider seq.Provider
	format   Format
}

// NewWriter returns a FASTA writer reading sequence from the provider.
func NewWriter(w io.Writer, provider seq.Provider) *Writer {
	return &Writer{w: bufio.NewWriter(w), provider: provider, format: FormatCDS}
}

// SetFormat selects the sequence variant to write.
func (w *Writer) SetFormat(f Format) {
	w.format = f
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

// Write emits one FASTA record.
func (w *Writer) Write(t *model.Transcript) error {
	sequence, err := w.sequence(t)
	if err != nil {
		return fmt.Errorf("sequence of %s: %w", t.ID, err)
	}
	if _, err := fmt.Fprintf(w.w, ">%s:%s\n", t.Gene, t.ID); err != nil {
		return err
	}
	return w.writeWrapped(sequence)
}

// Flush writes any buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

func (w *Writer) sequence(t *model.Transcript) ([]byte, error) {
	switch w.format {
	case FormatExons:
		return seq.ExonSequence(w.provider, t)
	case FormatTranscript:
		return seq.GenomicSequence(w.provider, t)
	}
	return seq.CDSSequence(w.provider, t)
}

func (w *Writer) writeWrapped(sequence []byte) error {
	for len(sequence) > 0 {
		n := lineWidth
		if len(sequence) < n {
			n = len(sequence)
		}
		if _, err := w.w.Write(sequence[:n]); err != nil {
			return err
		}
		if err := w.w.WriteByte('\n'); err != nil {
			return err
		}
		sequence = sequence[n:]
	}
	return nil
}

// SplitWriter writes one FASTA file per transcript, named
// "<transcript>.fa", into a directory.
type SplitWriter struct {
	dir      string
	provider seq.Provider
	format   Format
}

// NewSplitWriter returns a writer that creates per-transcript files in dir.
func NewSplitWriter(dir string, provider seq.Provider) *SplitWriter {
	return &SplitWriter{dir: dir, provider: provider, format: FormatCDS}
}

// SetFormat selects the sequence variant to write.
func (w *SplitWriter) SetFormat(f Format) {
	w.format = f
}

// WriteAll writes one file per transcript.
func (w *SplitWriter) WriteAll(ts *model.Transcripts) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, t := range ts.All() {
		if err := w.write(t); err != nil {
			return err
		}
	}
	return nil
}

func (w *SplitWriter) write(t *model.Transcript) error {
	path := filepath.Join(w.dir, t.ID+".fa")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	fw := NewWriter(f, w.provider)
	fw.SetFormat(w.format)
	if err := fw.Write(t); err != nil {
		f.Close()
		return err
	}
	if err := fw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
