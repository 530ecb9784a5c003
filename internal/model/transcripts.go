package model

// Transcripts is an ordered collection of finalized transcripts with
// by-name and by-gene lookup. Iteration order is insertion order, so a
// conversion run writes transcripts in the order the reader produced
// them.
type Transcripts struct {
	list   []*Transcript
	byName map[string][]int
	byGene map[string][]int
	genes  []string
}

// NewTranscripts returns an empty collection.
func NewTranscripts() *Transcripts {
	return &Transcripts{
		byName: make(map[string][]int),
		byGene: make(map[string][]int),
	}
}

// Push appends a transcript. Duplicate ids are allowed; some transcripts
// (e.g. NM_001370371.1) are annotated on both X and Y.
func (ts *Transcripts) Push(t *Transcript) {
	idx := len(ts.list)
	ts.list = append(ts.list, t)
	ts.byName[t.ID] = append(ts.byName[t.ID], idx)
	if _, seen := ts.byGene[t.Gene]; !seen {
		ts.genes = append(ts.genes, t.Gene)
	}
	ts.byGene[t.Gene] = append(ts.byGene[t.Gene], idx)
}

// Len returns the number of transcripts.
func (ts *Transcripts) Len() int {
	return len(ts.list)
}

// All returns the transcripts in insertion order. The slice is shared;
// callers must not mutate it.
func (ts *Transcripts) All() []*Transcript {
	return ts.list
}

// ByName returns all transcripts with the given id.
func (ts *Transcripts) ByName(name string) []*Transcript {
	return ts.collect(ts.byName[name])
}

// ByGene returns all transcripts of a gene symbol.
func (ts *Transcripts) ByGene(gene string) []*Transcript {
	return ts.collect(ts.byGene[gene])
}

// Genes returns the gene symbols in first-seen order.
func (ts *Transcripts) Genes() []string {
	return ts.genes
}

func (ts *Transcripts) collect(idxs []int) []*Transcript {
	if len(idxs) == 0 {
		return nil
	}
	res := make([]*Transcript, len(idxs))
	for i, idx := range idxs {
		res[i] = ts.list[idx]
	}
	return res
}
