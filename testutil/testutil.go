package testutil

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"

	"github.com/hupe1980/seqgo/arraystore"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Bools returns n flags, each true with probability p.
func (r *RNG) Bools(n int, p float64) []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]bool, n)
	for i := range out {
		out[i] = r.rand.Float64() < p
	}
	return out
}

// Small builds the reference dataset:
//
//	variant  chrom  pos  allele  genotypes (S1 S2 S3)
//	0        1      100  A,G     0/0 0/1 1/1
//	1        1      200  C,T     0/1 ./. 1/0
//	2        2      150  G,A,T   1/1 0/0 0/1
//	3        2      150  T,      0/0 0/0 0/0
//	4        2      300  A       1/2 2/2 0/.
//
// "annotation/info/AF" is ragged with lengths 1,1,2,1,0 and
// "annotation/format/AD" occupies 2,1,1,1,1 rows per variant.
func Small() *arraystore.MemoryRoot {
	root := arraystore.NewMemoryRoot()
	must := func(path string, dims []int32, values any) {
		if err := root.Put(path, dims, values); err != nil {
			panic(fmt.Sprintf("testutil: %s: %v", path, err))
		}
	}

	must("sample.id", nil, []string{"S1", "S2", "S3"})
	must("variant.id", nil, []int32{1, 2, 3, 4, 5})
	must("chromosome", nil, []string{"1", "1", "2", "2", "2"})
	must("position", nil, []int32{100, 200, 150, 150, 300})
	must("allele", nil, []string{"A,G", "C,T", "G,A,T", "T,", "A"})
	must("annotation/id", nil, []string{"rs1", "rs2", "rs3", "rs4", "rs5"})
	must("annotation/qual", nil, []float64{30, 40, 50, 60, 70})
	must("annotation/filter", nil, []string{"PASS", "PASS", "q10", "PASS", "q10"})

	must("genotype/data", []int32{5, 3, 2}, []uint8{
		0, 0, 0, 1, 1, 1,
		0, 1, 3, 3, 1, 0,
		1, 1, 0, 0, 0, 1,
		0, 0, 0, 0, 0, 0,
		1, 2, 2, 2, 0, 3,
	})
	must("genotype/@data", nil, []uint16{1, 1, 1, 1, 1})
	must("phase/data", []int32{5, 3}, []uint8{
		0, 1, 0,
		1, 0, 1,
		0, 0, 0,
		1, 1, 1,
		0, 1, 1,
	})

	must("annotation/info/DP", nil, []int32{10, 20, 30, 40, 50})
	must("annotation/info/AF", nil, []float64{0.1, 0.2, 0.3, 0.35, 0.4})
	must("annotation/info/@AF", nil, []int32{1, 1, 2, 1, 0})
	must("annotation/format/AD/data", []int32{6, 3}, []int32{
		0, 1, 2,
		10, 11, 12,
		20, 21, 22,
		30, 31, 32,
		40, 41, 42,
		50, 51, 52,
	})
	must("annotation/format/AD/@data", nil, []int32{2, 1, 1, 1, 1})
	must("sample.annotation/age", nil, []int32{30, 40, 50})
	return root
}

// Shape sizes a synthetic dataset.
type Shape struct {
	Samples     int
	Variants    int
	Chromosomes int     // defaults to 3
	MissingRate float64 // probability of a missing allele call
}

var alleleChoices = []string{"A,G", "C,T", "G,A,T", "T,C", "A,AT"}

// Synthetic generates a diploid dataset with the node layout of Small.
// Chromosomes occupy contiguous variant blocks and positions increase
// within each chromosome.
func Synthetic(rng *RNG, shape Shape) (*arraystore.MemoryRoot, error) {
	ns, nv := shape.Samples, shape.Variants
	nchr := shape.Chromosomes
	if nchr <= 0 {
		nchr = 3
	}

	sampleID := make([]string, ns)
	for i := range sampleID {
		sampleID[i] = fmt.Sprintf("S%04d", i+1)
	}

	variantID := make([]int32, nv)
	chrom := make([]string, nv)
	pos := make([]int32, nv)
	allele := make([]string, nv)
	dp := make([]int32, nv)
	afLen := make([]int32, nv)
	af := make([]float64, 0, nv)
	last := int32(0)
	for i := range nv {
		variantID[i] = int32(i + 1)
		c := strconv.Itoa(1 + i*nchr/nv)
		if i == 0 || c != chrom[i-1] {
			last = 0
		}
		chrom[i] = c
		last += int32(1 + rng.Intn(1000))
		pos[i] = last
		allele[i] = alleleChoices[rng.Intn(len(alleleChoices))]
		dp[i] = int32(rng.Intn(100))
		afLen[i] = int32(strings.Count(allele[i], ","))
		for range afLen[i] {
			af = append(af, rng.Float64())
		}
	}

	geno := make([]uint8, nv*ns*2)
	for i := range geno {
		if rng.Float64() < shape.MissingRate {
			geno[i] = 3
		} else {
			geno[i] = uint8(rng.Intn(2))
		}
	}
	genoIdx := make([]uint16, nv)
	for i := range genoIdx {
		genoIdx[i] = 1
	}
	phase := make([]uint8, nv*ns)
	fmtDP := make([]int32, nv*ns)
	for i := range phase {
		phase[i] = uint8(rng.Intn(2))
		fmtDP[i] = int32(rng.Intn(60))
	}

	root := arraystore.NewMemoryRoot()
	nodes := []struct {
		path   string
		dims   []int32
		values any
	}{
		{"sample.id", nil, sampleID},
		{"variant.id", nil, variantID},
		{"chromosome", nil, chrom},
		{"position", nil, pos},
		{"allele", nil, allele},
		{"genotype/data", []int32{int32(nv), int32(ns), 2}, geno},
		{"genotype/@data", nil, genoIdx},
		{"phase/data", []int32{int32(nv), int32(ns)}, phase},
		{"annotation/info/DP", nil, dp},
		{"annotation/info/AF", nil, af},
		{"annotation/info/@AF", nil, afLen},
		{"annotation/format/DP/data", []int32{int32(nv), int32(ns)}, fmtDP},
	}
	for _, n := range nodes {
		if err := root.Put(n.path, n.dims, n.values); err != nil {
			return nil, fmt.Errorf("testutil: %s: %w", n.path, err)
		}
	}
	return root, nil
}
