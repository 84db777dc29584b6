package chunker

import "testing"

func TestComputeDynamic_TargetsSafeTokensPerChunk(t *testing.T) {
	// 500k tokens at 50k per chunk wants 10 chunks.
	p := ComputeDynamic(500000, 2000000, 50000)
	if p.IdealChunks != 10 {
		t.Errorf("expected 10 ideal chunks, got %d", p.IdealChunks)
	}
	if p.ChunkSize != 200000 {
		t.Errorf("expected chunk size 200000, got %d", p.ChunkSize)
	}
	if p.Overlap != 20000 {
		t.Errorf("expected overlap 20000 (10%% of size), got %d", p.Overlap)
	}
}

func TestComputeDynamic_AtLeastTwoChunks(t *testing.T) {
	p := ComputeDynamic(30000, 100000, 50000)
	if p.IdealChunks != 2 {
		t.Errorf("expected floor of 2 chunks, got %d", p.IdealChunks)
	}
}

func TestComputeDynamic_MinimumChunkSize(t *testing.T) {
	// Tiny content still gets the character floor.
	p := ComputeDynamic(60000, 30000, 50000)
	if p.ChunkSize != minCharChunk {
		t.Errorf("expected chunk size clamped to %d, got %d", minCharChunk, p.ChunkSize)
	}
	if p.Overlap != 2000 {
		t.Errorf("expected overlap 2000, got %d", p.Overlap)
	}
}

func TestComputeDynamic_MinimumOverlap(t *testing.T) {
	// Overlap never drops below 1000 even for a small chunk size, but
	// 10% of the 20000 floor is already 2000, so force the floor path by
	// checking the formula directly.
	p := ComputeDynamic(100000, 40000, 50000)
	if p.Overlap < 1000 {
		t.Errorf("expected overlap >= 1000, got %d", p.Overlap)
	}
}

func TestComputeDynamic_CeilDivision(t *testing.T) {
	// 101k tokens at 50k per chunk rounds up to 3 chunks.
	p := ComputeDynamic(101000, 1000000, 50000)
	if p.IdealChunks != 3 {
		t.Errorf("expected 3 ideal chunks, got %d", p.IdealChunks)
	}
}
