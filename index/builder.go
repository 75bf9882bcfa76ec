package index

import (
	"context"
	"errors"
	"fmt"
	"iter"
)

// ErrIndexBuild is returned when no chunk of the document could be embedded.
var ErrIndexBuild = errors.New("no document chunks could be indexed")

// Embedder produces one vector per input text. Satisfied by ai.Client.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Defaults matching the document agent's chunking contract.
const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 100
	DefaultBatchSize = 20
)

// BatchProgress is one progress event of an index build. Err is set when the
// batch failed to embed and was skipped.
type BatchProgress struct {
	Batch  int // 1-based
	Total  int
	Chunks int // chunks indexed so far
	Err    error
}

// Builder constructs an Index over a document in sequential embedding batches.
// Batches are strictly ordered; each finished batch is merged into the running
// index, so a single oversized document never embeds in one allocation.
type Builder struct {
	embedder  Embedder
	source    string
	ChunkSize int
	Overlap   int
	BatchSize int

	idx *Index
	err error
}

func NewBuilder(embedder Embedder, source string) *Builder {
	return &Builder{
		embedder:  embedder,
		source:    source,
		ChunkSize: DefaultChunkSize,
		Overlap:   DefaultOverlap,
		BatchSize: DefaultBatchSize,
	}
}

// Run splits text and embeds it batch by batch, yielding one progress event
// per batch as a lazy sequence. Building happens while the sequence is
// consumed; after it is drained, Result holds the outcome. A batch that fails
// to embed is reported and skipped; remaining batches still run.
func (b *Builder) Run(ctx context.Context, text string) iter.Seq[BatchProgress] {
	return func(yield func(BatchProgress) bool) {
		b.idx = nil
		b.err = nil

		chunks := Split(text, b.ChunkSize, b.Overlap)
		if len(chunks) == 0 {
			b.err = ErrIndexBuild
			return
		}

		batchSize := b.BatchSize
		if batchSize <= 0 {
			batchSize = DefaultBatchSize
		}
		total := (len(chunks) + batchSize - 1) / batchSize

		idx := New()
		for i := 0; i < len(chunks); i += batchSize {
			end := i + batchSize
			if end > len(chunks) {
				end = len(chunks)
			}
			batch := chunks[i:end]
			batchNo := i/batchSize + 1

			if err := ctx.Err(); err != nil {
				b.err = err
				yield(BatchProgress{Batch: batchNo, Total: total, Chunks: idx.Len(), Err: err})
				return
			}

			vecs, err := b.embedder.Embed(ctx, batch)
			if err == nil && len(vecs) != len(batch) {
				err = fmt.Errorf("embedder returned %d vectors for %d chunks", len(vecs), len(batch))
			}
			if err != nil {
				if !yield(BatchProgress{Batch: batchNo, Total: total, Chunks: idx.Len(), Err: err}) {
					b.finish(idx)
					return
				}
				continue
			}

			part := New()
			for j, vec := range vecs {
				part.Add(vec, Chunk{Text: batch[j], Source: b.source})
			}
			idx.Merge(part)

			if !yield(BatchProgress{Batch: batchNo, Total: total, Chunks: idx.Len()}) {
				b.finish(idx)
				return
			}
		}
		b.finish(idx)
	}
}

func (b *Builder) finish(idx *Index) {
	if idx.Len() == 0 {
		if b.err == nil {
			b.err = ErrIndexBuild
		}
		return
	}
	b.idx = idx
}

// Result returns the built index once Run's sequence has been drained.
func (b *Builder) Result() (*Index, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.idx == nil {
		return nil, ErrIndexBuild
	}
	return b.idx, nil
}
