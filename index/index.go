package index

import (
	"math"
	"sort"
)

// Chunk is one indexed text segment and the identifier of its source document.
type Chunk struct {
	Text   string
	Source string
}

type entry struct {
	vec   []float64
	chunk Chunk
}

// Result is a retrieved chunk with its similarity score.
type Result struct {
	Chunk Chunk
	Score float64
}

// Index is an in-memory nearest-neighbour structure over embedded chunks.
// It is owned by exactly one session and is not safe for concurrent mutation.
type Index struct {
	entries []entry
}

func New() *Index {
	return &Index{}
}

// Add inserts one embedded chunk.
func (ix *Index) Add(vec []float64, ch Chunk) {
	ix.entries = append(ix.entries, entry{vec: vec, chunk: ch})
}

// Merge appends all entries of other into ix.
func (ix *Index) Merge(other *Index) {
	if other == nil {
		return
	}
	ix.entries = append(ix.entries, other.entries...)
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Search returns the k entries most similar to query by cosine similarity,
// best first.
func (ix *Index) Search(query []float64, k int) []Result {
	if k <= 0 || len(ix.entries) == 0 {
		return nil
	}

	results := make([]Result, 0, len(ix.entries))
	for _, e := range ix.entries {
		results = append(results, Result{Chunk: e.chunk, Score: cosine(query, e.vec)})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k > len(results) {
		k = len(results)
	}
	return results[:k]
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
