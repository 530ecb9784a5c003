package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrand(t *testing.T) {
	tests := []struct {
		in      string
		want    Strand
		wantErr bool
	}{
		{"+", StrandPlus, false},
		{"-", StrandMinus, false},
		{".", StrandUnknown, false},
		{"x", StrandUnknown, true},
		{"", StrandUnknown, true},
	}
	for _, tt := range tests {
		got, err := ParseStrand(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParseCdsStat(t *testing.T) {
	for in, want := range map[string]CdsStat{
		"none":       CdsNone,
		"unk":        CdsUnknown,
		"incmpl":     CdsIncomplete,
		"cmpl":       CdsComplete,
		"complete":   CdsComplete,
		"incomplete": CdsIncomplete,
	} {
		got, err := ParseCdsStat(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
		// Round-trip holds for the short forms only.
	}
	_, err := ParseCdsStat("bogus")
	assert.Error(t, err)

	assert.Equal(t, "cmpl", CdsComplete.String())
	assert.Equal(t, "incmpl", CdsIncomplete.String())
	assert.Equal(t, "unk", CdsUnknown.String())
	assert.Equal(t, "none", CdsNone.String())
}

func TestFrameParsingAndRendering(t *testing.T) {
	for in, want := range map[string]Frame{
		"-1": FrameNone,
		".":  FrameNone,
		"0":  0,
		"1":  1,
		"2":  2,
	} {
		got, err := ParseFrame(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}
	_, err := ParseFrame("3")
	assert.Error(t, err)

	assert.Equal(t, "-1", FrameNone.String())
	assert.Equal(t, ".", FrameNone.Gtf())
	assert.Equal(t, "2", Frame(2).String())
	assert.Equal(t, "2", Frame(2).Gtf())
}

func TestCDSSegments(t *testing.T) {
	tr := standardTranscript(t)

	assert.Equal(t, int64(10), tr.CDSLen())
	assert.Equal(t, []Segment{{23, 25}, {30, 35}, {40, 43}}, tr.CDSSegments())
}

func TestUTRSegments(t *testing.T) {
	tr := standardTranscript(t)

	assert.Equal(t,
		[]Segment{{10, 15}, {20, 23}, {43, 45}, {50, 55}},
		tr.UTRSegments())
	assert.Equal(t, []Segment{{10, 15}, {20, 23}}, tr.UTR5Segments())
	assert.Equal(t, []Segment{{43, 45}, {50, 55}}, tr.UTR3Segments())
}

func TestUTRSegmentsMinusStrand(t *testing.T) {
	tr, err := NewBuilder().
		SetID("NM_MINUS.3").
		SetStrand(StrandMinus).
		AddExon(10, 15).
		AddExon(20, 25).
		AddExon(30, 35).
		AddExon(40, 45).
		AddExon(50, 55).
		SetCDS(23, 43).
		Finalize()
	require.NoError(t, err)

	// On the minus strand the genomic-right UTR is the 5' one.
	assert.Equal(t, []Segment{{43, 45}, {50, 55}}, tr.UTR5Segments())
	assert.Equal(t, []Segment{{10, 15}, {20, 23}}, tr.UTR3Segments())
}

func TestUTRSegmentsNonCoding(t *testing.T) {
	tr, err := NewBuilder().
		SetID("NR_TEST.1").
		AddExon(10, 15).
		AddExon(20, 25).
		Finalize()
	require.NoError(t, err)

	assert.Equal(t, []Segment{{10, 15}, {20, 25}}, tr.UTR5Segments())
	assert.Nil(t, tr.UTR3Segments())
	assert.Nil(t, tr.CDSSegments())
	assert.Equal(t, int64(0), tr.CDSLen())
}

func TestNormalizeChrom(t *testing.T) {
	for in, want := range map[string]string{
		"1":     "chr1",
		"chr1":  "chr1",
		"CHR1":  "chr1",
		"MT":    "chrMT",
		"chrM":  "chrM",
		"X":     "chrX",
		"chrUn": "chrUn",
	} {
		assert.Equal(t, want, NormalizeChrom(in), "input %q", in)
	}
}

func TestTranscriptString(t *testing.T) {
	tr, err := NewBuilder().
		SetID("NM_DEBUG.1").
		SetGene("DBG").
		SetChrom("chr2").
		SetStrand(StrandPlus).
		AddExon(100, 150).
		AddExon(200, 260).
		SetCDS(120, 240).
		Finalize()
	require.NoError(t, err)

	assert.Equal(t,
		"[DBG] NM_DEBUG.1 (chr2:100-260 +)\n"+
			"Exon 1 100-150 [0]\n"+
			"Exon 2 200-260 [0]",
		tr.String())
}

func TestTranscriptsCollection(t *testing.T) {
	ts := NewTranscripts()
	mk := func(id, gene string) *Transcript {
		tr, err := NewBuilder().SetID(id).SetGene(gene).AddExon(0, 10).Finalize()
		require.NoError(t, err)
		return tr
	}
	ts.Push(mk("NM_1.1", "GENEA"))
	ts.Push(mk("NM_2.1", "GENEB"))
	ts.Push(mk("NM_1.1", "GENEA")) // same id on a second chromosome

	assert.Equal(t, 3, ts.Len())
	assert.Len(t, ts.ByName("NM_1.1"), 2)
	assert.Len(t, ts.ByGene("GENEA"), 2)
	assert.Nil(t, ts.ByName("NM_MISSING.1"))
	assert.Equal(t, []string{"GENEA", "GENEB"}, ts.Genes())
}
