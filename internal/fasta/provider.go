package fasta

import (
	"bytes"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// FileProvider serves reference sequence from a faidx-indexed FASTA
// file. The file is memory mapped; lookups copy only the requested
// range. Not safe for concurrent use with Close.
type FileProvider struct {
	f    *os.File
	data mmap.MMap
	idx  index
}

// NewFileProvider opens path and its .fai companion index.
func NewFileProvider(path string) (*FileProvider, error) {
	fai, err := os.Open(path + ".fai")
	if err != nil {
		return nil, fmt.Errorf("open fasta index: %w", err)
	}
	defer fai.Close()
	idx, err := readIndex(fai)
	if err != nil {
		return nil, fmt.Errorf("read fasta index: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fasta: %w", err)
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap fasta: %w", err)
	}
	return &FileProvider{f: f, data: data, idx: idx}, nil
}

// Sequence returns the uppercased bases of [start, end) on a
// chromosome. Soft-masked (lowercase) reference regions are folded so
// downstream codon checks compare case-free.
func (p *FileProvider) Sequence(chrom string, start, end int64) ([]byte, error) {
	rec, ok := p.idx.lookup(chrom)
	if !ok {
		return nil, &UnknownChromosomeError{Chrom: chrom}
	}
	if start < 0 || start > end || end > rec.length {
		return nil, &OutOfBoundsError{Chrom: chrom, Start: start, End: end, Length: rec.length}
	}

	out := make([]byte, 0, end-start)
	for pos := start; pos < end; {
		col := pos % rec.lineBases
		n := rec.lineBases - col
		if remaining := end - pos; n > remaining {
			n = remaining
		}
		off := rec.offset + pos/rec.lineBases*rec.lineBytes + col
		out = append(out, p.data[off:off+n]...)
		pos += n
	}
	return bytes.ToUpper(out), nil
}

// Close unmaps the reference and closes the file.
func (p *FileProvider) Close() error {
	if err := p.data.Unmap(); err != nil {
		p.f.Close()
		return fmt.Errorf("unmap fasta: %w", err)
	}
	return p.f.Close()
}

// MemProvider serves sequence from in-memory chromosomes, for tests and
// small references.
type MemProvider map[string]string

// Sequence returns the uppercased bases of [start, end) on a chromosome.
func (p MemProvider) Sequence(chrom string, start, end int64) ([]byte, error) {
	s, ok := p[chrom]
	if !ok {
		s, ok = p[flipChr(chrom)]
	}
	if !ok {
		return nil, &UnknownChromosomeError{Chrom: chrom}
	}
	if start < 0 || start > end || end > int64(len(s)) {
		return nil, &OutOfBoundsError{Chrom: chrom, Start: start, End: end, Length: int64(len(s))}
	}
	return bytes.ToUpper([]byte(s[start:end])), nil
}

func flipChr(chrom string) string {
	if len(chrom) > 3 && chrom[:3] == "chr" {
		return chrom[3:]
	}
	return "chr" + chrom
}
