package cursor

import "fmt"

// Kind selects the decoder of a Cursor.
type Kind uint8

const (
	// Basic reads one element of a variant-length vector.
	Basic Kind = iota
	// Position reads from the cached position vector.
	Position
	// Chromosome reads labels through the chromosome index. Consecutive
	// records with the same label share one decoded buffer.
	Chromosome
	// Genotype reads ploidy calls for every selected sample.
	Genotype
	// Dosage counts reference alleles per selected sample.
	Dosage
	// Phase reads phasing flags for every selected sample.
	Phase
	// Info reads a ragged or per-variant annotation.
	Info
	// Format reads a ragged annotation with one column per sample.
	Format
	// NumAllele counts the alleles of every variant.
	NumAllele
)

func (k Kind) String() string {
	switch k {
	case Basic:
		return "basic"
	case Position:
		return "position"
	case Chromosome:
		return "chromosome"
	case Genotype:
		return "genotype"
	case Dosage:
		return "dosage"
	case Phase:
		return "phase"
	case Info:
		return "info"
	case Format:
		return "format"
	case NumAllele:
		return "num_allele"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}
