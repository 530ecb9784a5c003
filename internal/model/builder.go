package model

import "sort"

type span struct {
	start int64
	end   int64
}

// Builder assembles a Transcript from feature records that may arrive in
// any order and any number of times (GTF lines are not sorted). No
// invariant is enforced until Finalize, which sorts and merges exon
// intervals, derives CDS bounds and completeness, numbers exons 5'->3'
// and computes reading frames.
type Builder struct {
	id     string
	gene   string
	chrom  string
	strand Strand

	spans      []span
	cdsRecords []span

	cdsStart    int64
	cdsEnd      int64
	explicitCDS bool

	sawStartCodon bool
	sawStopCodon  bool

	startStat CdsStat
	endStat   CdsStat
	statsSet  bool

	frames    []Frame
	framesSet bool
}

// NewBuilder returns an empty Builder for a non-coding transcript with
// no exons.
func NewBuilder() *Builder {
	return &Builder{cdsStart: -1, cdsEnd: -1}
}

func (b *Builder) SetID(id string) *Builder       { b.id = id; return b }
func (b *Builder) SetGene(gene string) *Builder   { b.gene = gene; return b }
func (b *Builder) SetChrom(chrom string) *Builder { b.chrom = chrom; return b }
func (b *Builder) SetStrand(s Strand) *Builder    { b.strand = s; return b }

// AddExon records an exonic interval. Overlapping and book-ended
// intervals are merged during Finalize.
func (b *Builder) AddExon(start, end int64) *Builder {
	b.spans = append(b.spans, span{start, end})
	return b
}

// AddCDS records a coding interval. The interval also counts as exonic;
// the CDS bounds become the min/max over all recorded coding intervals
// unless SetCDS was called.
func (b *Builder) AddCDS(start, end int64) *Builder {
	b.spans = append(b.spans, span{start, end})
	b.cdsRecords = append(b.cdsRecords, span{start, end})
	return b
}

// AddStartCodon records a start_codon feature. It extends the CDS bounds
// and marks the start codon as validated.
func (b *Builder) AddStartCodon(start, end int64) *Builder {
	b.AddCDS(start, end)
	b.sawStartCodon = true
	return b
}

// AddStopCodon records a stop_codon feature. It extends the CDS bounds
// and marks the stop codon as validated.
func (b *Builder) AddStopCodon(start, end int64) *Builder {
	b.AddCDS(start, end)
	b.sawStopCodon = true
	return b
}

// SetCDS fixes the CDS bounds directly, overriding anything accumulated
// through AddCDS. Used by the column formats that carry explicit
// cdsStart/cdsEnd fields.
func (b *Builder) SetCDS(start, end int64) *Builder {
	b.cdsStart = start
	b.cdsEnd = end
	b.explicitCDS = true
	return b
}

// SetCDSStats fixes the completeness flags of the genomic-left and
// genomic-right CDS edge, overriding derivation from codon features.
func (b *Builder) SetCDSStats(start, end CdsStat) *Builder {
	b.startStat = start
	b.endStat = end
	b.statsSet = true
	return b
}

// SetFrames supplies an explicit per-exon frame list (one entry per
// final exon, ascending genomic order). When set, Finalize preserves it
// verbatim instead of recomputing frames.
func (b *Builder) SetFrames(frames []Frame) *Builder {
	b.frames = frames
	b.framesSet = true
	return b
}

// Finalize validates and freezes the accumulated state into an immutable
// Transcript. It fails with MalformedTranscriptError if no exons were
// added or the CDS bounds fall outside the exon union.
func (b *Builder) Finalize() (*Transcript, error) {
	spans := make([]span, 0, len(b.spans))
	for _, s := range b.spans {
		if s.end > s.start {
			spans = append(spans, s)
		}
	}
	if len(spans) == 0 {
		return nil, &MalformedTranscriptError{ID: b.id, Reason: "transcript has no exons"}
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	// Merge overlapping intervals. Book-ended intervals (end == start)
	// are merged too; see the GTF reader notes for the known caveat.
	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.start <= last.end {
			if s.end > last.end {
				last.end = s.end
			}
			continue
		}
		merged = append(merged, s)
	}

	cdsStart, cdsEnd := b.cdsStart, b.cdsEnd
	if !b.explicitCDS && len(b.cdsRecords) > 0 {
		cdsStart, cdsEnd = b.cdsRecords[0].start, b.cdsRecords[0].end
		for _, c := range b.cdsRecords[1:] {
			cdsStart = min64(cdsStart, c.start)
			cdsEnd = max64(cdsEnd, c.end)
		}
	}
	coding := cdsStart >= 0 && cdsEnd > cdsStart
	if !coding {
		cdsStart, cdsEnd = -1, -1
	}

	t := &Transcript{
		ID:       b.id,
		Gene:     b.gene,
		Chrom:    b.chrom,
		Strand:   b.strand,
		CDSStart: cdsStart,
		CDSEnd:   cdsEnd,
	}
	t.Exons = make([]Exon, len(merged))
	for i, s := range merged {
		t.Exons[i] = Exon{Start: s.start, End: s.end, Frame: FrameNone}
	}

	if coding {
		if err := b.validateCDS(t); err != nil {
			return nil, err
		}
	}

	b.assignNumbers(t)
	if err := b.assignFrames(t); err != nil {
		return nil, err
	}
	b.assignStats(t, coding)

	return t, nil
}

// validateCDS checks that both CDS bounds lie within an exon.
func (b *Builder) validateCDS(t *Transcript) error {
	startOK, endOK := false, false
	for _, e := range t.Exons {
		if t.CDSStart >= e.Start && t.CDSStart < e.End {
			startOK = true
		}
		if t.CDSEnd > e.Start && t.CDSEnd <= e.End {
			endOK = true
		}
	}
	if !startOK || !endOK {
		return &MalformedTranscriptError{
			ID:     b.id,
			Reason: "CDS bounds fall outside the exon intervals",
		}
	}
	return nil
}

// assignNumbers numbers exons 1..N in transcript (5'->3') order.
func (b *Builder) assignNumbers(t *Transcript) {
	n := len(t.Exons)
	for i := range t.Exons {
		if t.IsForward() {
			t.Exons[i].Number = i + 1
		} else {
			t.Exons[i].Number = n - i
		}
	}
}

// assignFrames applies the explicit frame list when one was supplied,
// otherwise walks the coding exons in transcript order carrying a
// running modulo-3 offset that starts at 0 on the first coding base.
func (b *Builder) assignFrames(t *Transcript) error {
	if b.framesSet {
		if len(b.frames) != len(t.Exons) {
			return &MalformedTranscriptError{
				ID:     b.id,
				Reason: "exon frame list length does not match exon count",
			}
		}
		for i := range t.Exons {
			t.Exons[i].Frame = b.frames[i]
		}
		return nil
	}
	if !t.IsCoding() {
		return nil
	}

	frame := Frame(0)
	apply := func(i int) {
		s, e, ok := t.ExonCDS(t.Exons[i])
		if !ok {
			return
		}
		t.Exons[i].Frame = frame
		frame = frame.next(e - s)
	}
	if t.IsForward() {
		for i := 0; i < len(t.Exons); i++ {
			apply(i)
		}
	} else {
		for i := len(t.Exons) - 1; i >= 0; i-- {
			apply(i)
		}
	}
	return nil
}

// assignStats derives CDS edge completeness when it was not given
// explicitly: a seen codon feature proves a complete edge, coding
// records without one leave the edge incomplete, and everything else is
// unknown.
func (b *Builder) assignStats(t *Transcript, coding bool) {
	if b.statsSet {
		t.CDSStartStat = b.startStat
		t.CDSEndStat = b.endStat
		return
	}
	if !coding || b.explicitCDS {
		t.CDSStartStat = CdsUnknown
		t.CDSEndStat = CdsUnknown
		return
	}
	startCodon := CdsIncomplete
	if b.sawStartCodon {
		startCodon = CdsComplete
	}
	stopCodon := CdsIncomplete
	if b.sawStopCodon {
		stopCodon = CdsComplete
	}
	if t.Strand == StrandMinus {
		t.CDSStartStat, t.CDSEndStat = stopCodon, startCodon
	} else {
		t.CDSStartStat, t.CDSEndStat = startCodon, stopCodon
	}
}
