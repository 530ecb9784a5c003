package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// standardTranscript builds a 5-exon plus-strand transcript with a CDS
// spanning parts of exons 2-4:
//
//	exons: [10,15) [20,25) [30,35) [40,45) [50,55)
//	CDS:        [23 ............ 43)
func standardTranscript(t *testing.T) *Transcript {
	t.Helper()
	tr, err := NewBuilder().
		SetID("NM_TEST.1").
		SetGene("TEST").
		SetChrom("chr1").
		SetStrand(StrandPlus).
		AddExon(10, 15).
		AddExon(20, 25).
		AddExon(30, 35).
		AddExon(40, 45).
		AddExon(50, 55).
		SetCDS(23, 43).
		Finalize()
	require.NoError(t, err)
	return tr
}

func TestFinalizeRequiresExons(t *testing.T) {
	_, err := NewBuilder().SetID("NM_EMPTY.1").Finalize()
	require.Error(t, err)
	var merr *MalformedTranscriptError
	require.ErrorAs(t, err, &merr)
	assert.Contains(t, merr.Reason, "no exons")
}

func TestFinalizeRejectsCDSOutsideExons(t *testing.T) {
	_, err := NewBuilder().
		SetID("NM_BAD.1").
		AddExon(100, 200).
		SetCDS(150, 300).
		Finalize()
	require.Error(t, err)
	var merr *MalformedTranscriptError
	require.ErrorAs(t, err, &merr)

	// CDS start inside an intron is just as malformed.
	_, err = NewBuilder().
		SetID("NM_BAD.2").
		AddExon(100, 200).
		AddExon(300, 400).
		SetCDS(250, 350).
		Finalize()
	require.Error(t, err)
}

func TestFinalizeSortsAndMerges(t *testing.T) {
	tr, err := NewBuilder().
		SetID("NM_MERGE.1").
		SetStrand(StrandPlus).
		AddExon(300, 400).
		AddExon(100, 200).
		AddExon(200, 250). // book-ended with [100,200)
		AddExon(390, 420). // overlaps [300,400)
		Finalize()
	require.NoError(t, err)

	require.Len(t, tr.Exons, 2)
	assert.Equal(t, int64(100), tr.Exons[0].Start)
	assert.Equal(t, int64(250), tr.Exons[0].End)
	assert.Equal(t, int64(300), tr.Exons[1].Start)
	assert.Equal(t, int64(420), tr.Exons[1].End)
}

func TestMergeIsIdempotent(t *testing.T) {
	tr := standardTranscript(t)

	b := NewBuilder().SetID(tr.ID).SetStrand(tr.Strand).SetCDS(tr.CDSStart, tr.CDSEnd)
	for _, e := range tr.Exons {
		b.AddExon(e.Start, e.End)
	}
	again, err := b.Finalize()
	require.NoError(t, err)
	assert.Equal(t, tr.Exons, again.Exons)
}

func TestExonNumbering(t *testing.T) {
	plus := standardTranscript(t)
	for i, e := range plus.Exons {
		assert.Equal(t, i+1, e.Number)
	}

	minus, err := NewBuilder().
		SetID("NM_MINUS.1").
		SetStrand(StrandMinus).
		AddExon(10, 15).
		AddExon(20, 25).
		AddExon(30, 35).
		Finalize()
	require.NoError(t, err)
	assert.Equal(t, 3, minus.Exons[0].Number)
	assert.Equal(t, 2, minus.Exons[1].Number)
	assert.Equal(t, 1, minus.Exons[2].Number)
}

func TestFrameComputation(t *testing.T) {
	// Coding lengths per exon: 2, 5, 3 -> frames 0, 1, 2 on plus strand.
	tr := standardTranscript(t)
	frames := []Frame{FrameNone, 0, 1, 2, FrameNone}
	for i, e := range tr.Exons {
		assert.Equal(t, frames[i], e.Frame, "exon %d", i)
	}
}

func TestFrameComputationMinusStrand(t *testing.T) {
	// Same structure on the minus strand: the walk starts at the
	// rightmost coding exon (coding length 3 -> next frame 0).
	tr, err := NewBuilder().
		SetID("NM_MINUS.2").
		SetStrand(StrandMinus).
		AddExon(10, 15).
		AddExon(20, 25).
		AddExon(30, 35).
		AddExon(40, 45).
		AddExon(50, 55).
		SetCDS(23, 43).
		Finalize()
	require.NoError(t, err)

	frames := []Frame{FrameNone, 1, 0, 0, FrameNone}
	for i, e := range tr.Exons {
		assert.Equal(t, frames[i], e.Frame, "exon %d", i)
	}
}

func TestFinalizeOrderIndependent(t *testing.T) {
	build := func(order []int) *Transcript {
		exons := [][2]int64{{10, 15}, {20, 25}, {30, 35}, {40, 45}, {50, 55}}
		b := NewBuilder().SetID("NM_SHUF.1").SetStrand(StrandPlus).SetCDS(23, 43)
		for _, i := range order {
			b.AddExon(exons[i][0], exons[i][1])
		}
		tr, err := b.Finalize()
		require.NoError(t, err)
		return tr
	}

	want := build([]int{0, 1, 2, 3, 4})
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 10; trial++ {
		order := rng.Perm(5)
		assert.Equal(t, want.Exons, build(order).Exons, "order %v", order)
	}
}

func TestExplicitFramesPreserved(t *testing.T) {
	tr, err := NewBuilder().
		SetID("NM_FRAMES.1").
		SetStrand(StrandPlus).
		AddExon(10, 15).
		AddExon(20, 25).
		SetCDS(12, 23).
		SetFrames([]Frame{1, 0}).
		Finalize()
	require.NoError(t, err)
	assert.Equal(t, Frame(1), tr.Exons[0].Frame)
	assert.Equal(t, Frame(0), tr.Exons[1].Frame)

	_, err = NewBuilder().
		AddExon(10, 15).
		SetFrames([]Frame{0, 1}).
		Finalize()
	require.Error(t, err)
}

func TestDerivedCDSBoundsAndStats(t *testing.T) {
	// GTF-style accumulation: CDS records plus a stop codon extend the
	// bounds; the seen stop codon marks the 3' edge complete.
	tr, err := NewBuilder().
		SetID("NM_GTF.1").
		SetStrand(StrandPlus).
		AddExon(100, 200).
		AddExon(300, 400).
		AddCDS(150, 200).
		AddCDS(300, 347).
		AddStopCodon(347, 350).
		Finalize()
	require.NoError(t, err)

	assert.Equal(t, int64(150), tr.CDSStart)
	assert.Equal(t, int64(350), tr.CDSEnd)
	assert.Equal(t, CdsIncomplete, tr.StartCodonStat())
	assert.Equal(t, CdsComplete, tr.StopCodonStat())
}

func TestNonCodingTranscript(t *testing.T) {
	tr, err := NewBuilder().
		SetID("NR_046018.2").
		SetGene("DDX11L1").
		SetChrom("chr1").
		SetStrand(StrandPlus).
		AddExon(11873, 12227).
		AddExon(12612, 12721).
		AddExon(13220, 14409).
		Finalize()
	require.NoError(t, err)

	assert.False(t, tr.IsCoding())
	assert.Equal(t, int64(-1), tr.CDSStart)
	assert.Equal(t, CdsUnknown, tr.CDSStartStat)
	for _, e := range tr.Exons {
		assert.Equal(t, FrameNone, e.Frame)
	}
}
