package fasta

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// indexRecord is one .fai line: the samtools faidx layout.
type indexRecord struct {
	length    int64 // sequence length in bases
	offset    int64 // byte offset of the first base
	lineBases int64 // bases per sequence line
	lineBytes int64 // bytes per sequence line, including the newline
}

// index maps chromosome names to their faidx records.
type index map[string]indexRecord

// readIndex parses a .fai file.
func readIndex(r io.Reader) (index, error) {
	idx := make(index)
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 5 {
			return nil, fmt.Errorf("fai line %d: expected 5 columns, got %d", lineNum, len(cols))
		}
		var nums [4]int64
		for i := 0; i < 4; i++ {
			v, err := strconv.ParseInt(cols[i+1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("fai line %d: invalid number %q", lineNum, cols[i+1])
			}
			nums[i] = v
		}
		idx[cols[0]] = indexRecord{
			length:    nums[0],
			offset:    nums[1],
			lineBases: nums[2],
			lineBytes: nums[3],
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan fai: %w", err)
	}
	return idx, nil
}

// lookup finds a record under the given name or its chr-flipped
// spelling, so "chr1" transcripts work against a "1"-keyed reference
// and vice versa.
func (idx index) lookup(chrom string) (indexRecord, bool) {
	if rec, ok := idx[chrom]; ok {
		return rec, true
	}
	if strings.HasPrefix(chrom, "chr") {
		rec, ok := idx[chrom[3:]]
		return rec, ok
	}
	rec, ok := idx["chr"+chrom]
	return rec, ok
}
