package chunker

// minCharChunk is the floor for dynamically computed chunk sizes; smaller
// chunks produce summaries too thin to recombine usefully.
const minCharChunk = 20000

// DynamicParams describes a chunking configuration computed to keep each
// chunk under a per-chunk token budget.
type DynamicParams struct {
	ChunkSize   int
	Overlap     int
	IdealChunks int
}

// ComputeDynamic derives chunking parameters for content whose estimated
// token count exceeds the prompt budget. It targets safeTokensPerChunk
// tokens per chunk, never fewer than 2 chunks, clamps the character chunk
// size to a minimum floor, and sets overlap to max(1000, 10% of the
// chunk size).
func ComputeDynamic(estimatedTokens, totalChars, safeTokensPerChunk int) DynamicParams {
	if safeTokensPerChunk <= 0 {
		safeTokensPerChunk = 50000
	}

	ideal := (estimatedTokens + safeTokensPerChunk - 1) / safeTokensPerChunk
	if ideal < 2 {
		ideal = 2
	}

	size := totalChars / ideal
	if size < minCharChunk {
		size = minCharChunk
	}

	overlap := size / 10
	if overlap < 1000 {
		overlap = 1000
	}

	return DynamicParams{ChunkSize: size, Overlap: overlap, IdealChunks: ideal}
}
