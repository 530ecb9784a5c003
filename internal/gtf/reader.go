package gtf

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/anergictcell/atg/internal/model"
)

// Reader parses GTF content into transcripts. Lines may arrive in any
// order; features of one transcript are accumulated by transcript_id and
// assembled when the input is exhausted.
type Reader struct {
	r io.Reader
}

// NewReader returns a Reader for GTF content.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Read consumes the whole input and returns the assembled transcripts in
// order of first appearance.
func (r *Reader) Read() (*model.Transcripts, error) {
	scanner := bufio.NewScanner(r.r)
	// Increase buffer size for long lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	builders := make(map[string]*model.Builder)
	var order []string

	ensure := func(rec *Record, id string) *model.Builder {
		b, ok := builders[id]
		if !ok {
			b = model.NewBuilder().SetID(id)
			builders[id] = b
			order = append(order, id)
		}
		gene := rec.Attributes["gene_name"]
		if gene == "" {
			gene = rec.Attributes["gene_id"]
		}
		b.SetGene(gene).SetChrom(rec.Chrom).SetStrand(rec.Strand)
		return b
	}

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rec, err := parseLine(line, lineNum)
		if err != nil {
			return nil, err
		}

		id := rec.Attributes["transcript_id"]
		if id == "" {
			// Gene-level lines carry no transcript_id.
			if rec.Feature == "gene" {
				continue
			}
			return nil, &model.ParseError{Line: lineNum, Msg: "missing transcript_id attribute"}
		}
		if rec.Attributes["gene_id"] == "" && rec.Attributes["gene_name"] == "" {
			return nil, &model.ParseError{Line: lineNum, Msg: "missing gene_id attribute"}
		}

		switch rec.Feature {
		case "transcript", "gene":
			ensure(rec, id)
		case "exon":
			ensure(rec, id).AddExon(rec.Start, rec.End)
		case "CDS":
			ensure(rec, id).AddCDS(rec.Start, rec.End)
		case "start_codon":
			ensure(rec, id).AddStartCodon(rec.Start, rec.End)
		case "stop_codon":
			ensure(rec, id).AddStopCodon(rec.Start, rec.End)
		case "5UTR", "five_prime_utr", "3UTR", "three_prime_utr", "UTR":
			ensure(rec, id).AddExon(rec.Start, rec.End)
		default:
			// Unknown feature types (Selenocysteine, inter, ...) are skipped.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan GTF: %w", err)
	}

	transcripts := model.NewTranscripts()
	for _, id := range order {
		t, err := builders[id].Finalize()
		if err != nil {
			return nil, err
		}
		transcripts.Push(t)
	}
	return transcripts, nil
}
