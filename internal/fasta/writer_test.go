package fasta

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anergictcell/atg/internal/model"
)

//                         0         1         2
//                         012345678901234567890123
var testRef = MemProvider{"chr1": "AACCATGGCTGGTTTACTAAGGCC"}

func codingTranscript(t *testing.T, strand model.Strand) *model.Transcript {
	t.Helper()
	tr, err := model.NewBuilder().
		SetID("NM_001.1").
		SetGene("GENEA").
		SetChrom("chr1").
		SetStrand(strand).
		AddExon(2, 10).
		AddExon(14, 22).
		SetCDS(4, 20).
		Finalize()
	require.NoError(t, err)
	return tr
}

func TestWriterFormats(t *testing.T) {
	tr := codingTranscript(t, model.StrandPlus)

	tests := []struct {
		format Format
		want   string
	}{
		{FormatCDS, ">GENEA:NM_001.1\nATGGCTTACTAA\n"},
		{FormatExons, ">GENEA:NM_001.1\nCCATGGCTTACTAAGG\n"},
		{FormatTranscript, ">GENEA:NM_001.1\nCCATGGCTGGTTTACTAAGG\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		w := NewWriter(&buf, testRef)
		w.SetFormat(tt.format)
		require.NoError(t, w.Write(tr))
		require.NoError(t, w.Flush())
		assert.Equal(t, tt.want, buf.String())
	}
}

func TestWriterWrapsLongSequences(t *testing.T) {
	ref := MemProvider{"chr1": strings.Repeat("ACGT", 50)} // 200 bases

	tr, err := model.NewBuilder().
		SetID("NM_LONG.1").
		SetGene("LONG").
		SetChrom("chr1").
		SetStrand(model.StrandPlus).
		AddExon(0, 200).
		Finalize()
	require.NoError(t, err)

	var buf bytes.Buffer
	w := NewWriter(&buf, ref)
	w.SetFormat(FormatExons)
	require.NoError(t, w.Write(tr))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Len(t, lines[1], 80)
	assert.Len(t, lines[2], 80)
	assert.Len(t, lines[3], 40)
}

func TestWriterUnknownChromosome(t *testing.T) {
	tr, err := model.NewBuilder().
		SetID("NM_FAR.1").
		SetChrom("chr9").
		AddExon(0, 4).
		Finalize()
	require.NoError(t, err)

	w := NewWriter(&bytes.Buffer{}, testRef)
	err = w.Write(tr)
	var unknown *UnknownChromosomeError
	assert.ErrorAs(t, err, &unknown)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"cds":        FormatCDS,
		"exons":      FormatExons,
		"transcript": FormatTranscript,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("genome")
	assert.Error(t, err)
}

func TestSplitWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	ts := model.NewTranscripts()
	ts.Push(codingTranscript(t, model.StrandPlus))

	w := NewSplitWriter(dir, testRef)
	w.SetFormat(FormatCDS)
	require.NoError(t, w.WriteAll(ts))

	content, err := os.ReadFile(filepath.Join(dir, "NM_001.1.fa"))
	require.NoError(t, err)
	assert.Equal(t, ">GENEA:NM_001.1\nATGGCTTACTAA\n", string(content))
}

func TestFeatureWriter(t *testing.T) {
	ts := model.NewTranscripts()
	ts.Push(codingTranscript(t, model.StrandMinus))

	var buf bytes.Buffer
	require.NoError(t, NewFeatureWriter(&buf, testRef).WriteAll(ts))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "gene\ttranscript\tchrom\tstart\tend\tstrand\tfeature\tsequence", lines[0])
	// Rows stay in ascending genomic order; on the minus strand the
	// genomic-left UTR is the 3' one and each sequence is strand-oriented.
	assert.Equal(t, "GENEA\tNM_001.1\tchr1\t2\t4\t-\t3UTR\tGG", lines[1])
	assert.Equal(t, "GENEA\tNM_001.1\tchr1\t4\t10\t-\tCDS\tAGCCAT", lines[2])
	assert.Equal(t, "GENEA\tNM_001.1\tchr1\t14\t20\t-\tCDS\tTTAGTA", lines[3])
	assert.Equal(t, "GENEA\tNM_001.1\tchr1\t20\t22\t-\t5UTR\tCC", lines[4])
}

func TestFeatureWriterNonCoding(t *testing.T) {
	tr, err := model.NewBuilder().
		SetID("NR_002.1").
		SetGene("GENEB").
		SetChrom("chr1").
		SetStrand(model.StrandPlus).
		AddExon(2, 6).
		AddExon(10, 14).
		Finalize()
	require.NoError(t, err)

	ts := model.NewTranscripts()
	ts.Push(tr)

	var buf bytes.Buffer
	require.NoError(t, NewFeatureWriter(&buf, testRef).WriteAll(ts))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "GENEB\tNR_002.1\tchr1\t2\t6\t+\texon\tCCAT", lines[1])
	assert.Equal(t, "GENEB\tNR_002.1\tchr1\t10\t14\t+\texon\tGGTT", lines[2])
}
