// Package spliceai merges the transcripts of each gene into one
// consensus exon structure and writes it in the SpliceAI annotation
// layout.
package spliceai

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/anergictcell/atg/internal/model"
)

// Gene is the consensus exon structure of one gene: the union of the
// exon intervals of all its transcripts.
type Gene struct {
	Name   string
	Chrom  string
	Strand model.Strand
	Start  int64
	End    int64
	Exons  []model.Segment
}

// Consensus merges all transcripts sharing a gene symbol. Chromosome
// and strand are taken from the gene's first transcript; the interval
// union makes the result independent of transcript order. Genes are
// returned sorted by chromosome and start position.
func Consensus(ts *model.Transcripts) []*Gene {
	genes := make([]*Gene, 0, len(ts.Genes()))
	for _, name := range ts.Genes() {
		transcripts := ts.ByGene(name)

		var spans []model.Segment
		for _, t := range transcripts {
			for _, e := range t.Exons {
				spans = append(spans, model.Segment{Start: e.Start, End: e.End})
			}
		}
		sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

		merged := spans[:1]
		for _, s := range spans[1:] {
			last := &merged[len(merged)-1]
			if s.Start <= last.End {
				if s.End > last.End {
					last.End = s.End
				}
				continue
			}
			merged = append(merged, s)
		}

		genes = append(genes, &Gene{
			Name:   name,
			Chrom:  transcripts[0].Chrom,
			Strand: transcripts[0].Strand,
			Start:  merged[0].Start,
			End:    merged[len(merged)-1].End,
			Exons:  merged,
		})
	}

	sort.SliceStable(genes, func(i, j int) bool {
		if genes[i].Chrom != genes[j].Chrom {
			return genes[i].Chrom < genes[j].Chrom
		}
		return genes[i].Start < genes[j].Start
	})
	return genes
}

// Writer renders gene consensus rows in the SpliceAI annotation layout.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a SpliceAI annotation writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteAll merges the collection per gene and writes one row per gene.
func (w *Writer) WriteAll(ts *model.Transcripts) error {
	if _, err := fmt.Fprintln(w.w, "#NAME\tCHROM\tSTRAND\tTX_START\tTX_END\tEXON_START\tEXON_END"); err != nil {
		return err
	}
	for _, g := range Consensus(ts) {
		if err := w.write(g); err != nil {
			return err
		}
	}
	return w.w.Flush()
}

func (w *Writer) write(g *Gene) error {
	starts := make([]string, len(g.Exons))
	ends := make([]string, len(g.Exons))
	for i, e := range g.Exons {
		starts[i] = strconv.FormatInt(e.Start, 10)
		ends[i] = strconv.FormatInt(e.End, 10)
	}
	_, err := fmt.Fprintf(w.w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
		g.Name, g.Chrom, g.Strand, g.Start, g.End,
		strings.Join(starts, ","), strings.Join(ends, ","))
	return err
}
