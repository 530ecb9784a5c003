// Package seq provides reference sequence assembly, genetic-code lookup
// and codon translation for transcripts.
package seq

import (
	"fmt"
	"strings"

	"github.com/anergictcell/atg/internal/model"
)

// ConfigError reports an invalid genetic-code specification.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "invalid genetic code: " + e.Msg
}

// GeneticCode maps codon triplets to amino acid symbols. The lookup
// table is a 64-entry string in TCAG base order (index 16*b1 + 4*b2 +
// b3 with T=0, C=1, A=2, G=3), the layout used by the NCBI translation
// tables.
type GeneticCode struct {
	name   string
	table  string
	starts map[string]struct{}
}

// NCBI translation tables. Stop codons are the '*' entries; start sets
// follow the NCBI definitions.
var namedCodes = map[string]struct {
	table  string
	starts []string
}{
	"standard": {
		table:  "FFLLSSSSYY**CC*WLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG",
		starts: []string{"TTG", "CTG", "ATG"},
	},
	"vertebrate_mitochondrial": {
		table:  "FFLLSSSSYY**CCWWLLLLPPPPHHQQRRRRIIMMTTTTNNKKSS**VVVVAAAADDEEGGGG",
		starts: []string{"ATT", "ATC", "ATA", "ATG", "GTG"},
	},
	"yeast_mitochondrial": {
		table:  "FFLLSSSSYY**CCWWTTTTPPPPHHQQRRRRIIMMTTTTNNKKSSRRVVVVAAAADDEEGGGG",
		starts: []string{"ATA", "ATG", "GTG"},
	},
	"invertebrate_mitochondrial": {
		table:  "FFLLSSSSYY**CCWWLLLLPPPPHHQQRRRRIIMMTTTTNNKKSSSSVVVVAAAADDEEGGGG",
		starts: []string{"TTG", "ATT", "ATC", "ATA", "ATG", "GTG"},
	},
}

// CodeByName returns one of the named NCBI translation tables. Names
// are case-insensitive; spaces and hyphens count as underscores.
func CodeByName(name string) (*GeneticCode, error) {
	key := strings.ToLower(name)
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	def, ok := namedCodes[key]
	if !ok {
		return nil, &ConfigError{Msg: fmt.Sprintf("unknown genetic code %q", name)}
	}
	return newCode(key, def.table, def.starts)
}

// CodeFromTable builds a genetic code from a raw 64-entry lookup string
// in TCAG order. ATG is the only start codon of a raw table.
func CodeFromTable(table string) (*GeneticCode, error) {
	return newCode("custom", table, []string{"ATG"})
}

// ParseCode resolves a command-line code value: a known table name or a
// raw 64-entry lookup string.
func ParseCode(value string) (*GeneticCode, error) {
	if len(value) == 64 {
		return CodeFromTable(value)
	}
	return CodeByName(value)
}

func newCode(name, table string, starts []string) (*GeneticCode, error) {
	if len(table) != 64 {
		return nil, &ConfigError{Msg: fmt.Sprintf("lookup table must have 64 entries, got %d", len(table))}
	}
	for i := 0; i < len(table); i++ {
		c := table[i]
		if (c < 'A' || c > 'Z') && c != '*' {
			return nil, &ConfigError{Msg: fmt.Sprintf("invalid amino acid symbol %q", string(c))}
		}
	}
	c := &GeneticCode{name: name, table: table, starts: make(map[string]struct{}, len(starts))}
	for _, s := range starts {
		c.starts[s] = struct{}{}
	}
	return c, nil
}

// Name returns the table name, or "custom" for raw tables.
func (c *GeneticCode) Name() string {
	return c.name
}

// baseIndex maps a nucleotide to its TCAG table offset, -1 for
// ambiguous bases.
func baseIndex(b byte) int {
	switch b {
	case 'T', 't', 'U', 'u':
		return 0
	case 'C', 'c':
		return 1
	case 'A', 'a':
		return 2
	case 'G', 'g':
		return 3
	}
	return -1
}

// AminoAcid returns the symbol for one codon, 'X' when the codon
// contains an ambiguous base.
func (c *GeneticCode) AminoAcid(codon []byte) byte {
	if len(codon) != 3 {
		return 'X'
	}
	i1, i2, i3 := baseIndex(codon[0]), baseIndex(codon[1]), baseIndex(codon[2])
	if i1 < 0 || i2 < 0 || i3 < 0 {
		return 'X'
	}
	return c.table[16*i1+4*i2+i3]
}

// IsStartCodon reports whether the codon is in the start set.
func (c *GeneticCode) IsStartCodon(codon []byte) bool {
	if len(codon) != 3 {
		return false
	}
	_, ok := c.starts[strings.ToUpper(string(codon))]
	return ok
}

// IsStopCodon reports whether the codon translates to a stop.
func (c *GeneticCode) IsStopCodon(codon []byte) bool {
	return c.AminoAcid(codon) == '*'
}

// Translate walks the sequence three bases at a time and returns the
// amino acid sequence plus whether the final full codon is a stop. A
// trailing partial codon is truncated; QC reports it separately.
func (c *GeneticCode) Translate(dna []byte) (peptide []byte, endsInStop bool) {
	n := len(dna) / 3
	peptide = make([]byte, 0, n)
	for i := 0; i < n; i++ {
		peptide = append(peptide, c.AminoAcid(dna[3*i:3*i+3]))
	}
	return peptide, n > 0 && peptide[n-1] == '*'
}

// CodeResolver resolves the genetic code of a chromosome: an ordered
// per-chromosome override table in front of one global default.
type CodeResolver struct {
	fallback  *GeneticCode
	overrides map[string]*GeneticCode
}

// NewCodeResolver returns a resolver around the given default code. A
// nil default falls back to the standard table.
func NewCodeResolver(fallback *GeneticCode) *CodeResolver {
	if fallback == nil {
		fallback, _ = CodeByName("standard")
	}
	return &CodeResolver{fallback: fallback, overrides: make(map[string]*GeneticCode)}
}

// Add parses one command-line code specification. A bare value replaces
// the global default; "chromosome:value" binds the code to that
// chromosome only.
func (r *CodeResolver) Add(spec string) error {
	chrom, value, scoped := strings.Cut(spec, ":")
	if !scoped {
		code, err := ParseCode(spec)
		if err != nil {
			return err
		}
		r.fallback = code
		return nil
	}
	if chrom == "" {
		return &ConfigError{Msg: fmt.Sprintf("empty chromosome in %q", spec)}
	}
	code, err := ParseCode(value)
	if err != nil {
		return err
	}
	r.overrides[model.NormalizeChrom(chrom)] = code
	return nil
}

// For returns the code bound to a chromosome, falling back to the
// global default. Override keys are chr-normalized, so "M" and "chrM"
// resolve the same entry.
func (r *CodeResolver) For(chrom string) *GeneticCode {
	if c, ok := r.overrides[model.NormalizeChrom(chrom)]; ok {
		return c
	}
	return r.fallback
}
