package fasta

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFasta = ">chr1\n" +
	"ACGTACGTAC\n" +
	"GTACGTACGT\n" +
	"ACGT\n" +
	">chr2\n" +
	"aaaaccccgg\n"

const testFai = "chr1\t24\t6\t10\t11\n" +
	"chr2\t10\t39\t10\t11\n"

func writeTestReference(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ref.fa")
	require.NoError(t, os.WriteFile(path, []byte(testFasta), 0o644))
	require.NoError(t, os.WriteFile(path+".fai", []byte(testFai), 0o644))
	return path
}

func TestFileProviderSequence(t *testing.T) {
	p, err := NewFileProvider(writeTestReference(t))
	require.NoError(t, err)
	defer p.Close()

	// Within one sequence line.
	got, err := p.Sequence("chr1", 0, 4)
	require.NoError(t, err)
	assert.Equal(t, "ACGT", string(got))

	// Across line breaks; the newline bytes must not leak in.
	got, err = p.Sequence("chr1", 8, 14)
	require.NoError(t, err)
	assert.Equal(t, "ACGTAC", string(got))

	got, err = p.Sequence("chr1", 0, 24)
	require.NoError(t, err)
	assert.Equal(t, "ACGTACGTACGTACGTACGTACGT", string(got))

	// Soft-masked regions come back uppercased.
	got, err = p.Sequence("chr2", 2, 8)
	require.NoError(t, err)
	assert.Equal(t, "AACCCC", string(got))

	// Empty range is valid.
	got, err = p.Sequence("chr1", 5, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileProviderChrNormalization(t *testing.T) {
	p, err := NewFileProvider(writeTestReference(t))
	require.NoError(t, err)
	defer p.Close()

	// The reference uses "chr1"; a bare "1" lookup still resolves.
	got, err := p.Sequence("1", 0, 4)
	require.NoError(t, err)
	assert.Equal(t, "ACGT", string(got))
}

func TestFileProviderErrors(t *testing.T) {
	p, err := NewFileProvider(writeTestReference(t))
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Sequence("chr9", 0, 4)
	var unknown *UnknownChromosomeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "chr9", unknown.Chrom)

	_, err = p.Sequence("chr1", 10, 30)
	var oob *OutOfBoundsError
	require.ErrorAs(t, err, &oob)
	assert.Equal(t, int64(24), oob.Length)

	_, err = p.Sequence("chr1", -1, 4)
	assert.ErrorAs(t, err, &oob)
}

func TestFileProviderMissingIndex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ref.fa")
	require.NoError(t, os.WriteFile(path, []byte(testFasta), 0o644))

	_, err := NewFileProvider(path)
	assert.Error(t, err)
}

func TestMemProvider(t *testing.T) {
	p := MemProvider{"chr1": "acgtACGT"}

	got, err := p.Sequence("chr1", 2, 6)
	require.NoError(t, err)
	assert.Equal(t, "GTAC", string(got))

	got, err = p.Sequence("1", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, "AC", string(got))

	_, err = p.Sequence("chr2", 0, 1)
	var unknown *UnknownChromosomeError
	assert.ErrorAs(t, err, &unknown)

	_, err = p.Sequence("chr1", 0, 100)
	var oob *OutOfBoundsError
	assert.ErrorAs(t, err, &oob)
}
