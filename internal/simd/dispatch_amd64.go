//go:build amd64

package simd

import "golang.org/x/sys/cpu"

// selectTier picks the best available tier name for reporting purposes.
// Every tier's kernel bodies are the same portable SWAR implementation (see
// DESIGN.md): no AVX-512/AVX2/SSE4.2 machine code ships in this module,
// since none exists anywhere in the corpus this module was grounded on to
// adapt from. The capability probe still runs, so Kernels.Tier accurately
// reports what hardware was detected, and the dispatch seam is ready for a
// real assembly kernel to be dropped in per tier without touching callers.
func selectTier() Kernels {
	k := portable
	switch {
	case cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW:
		k.Tier = "avx512"
	case cpu.X86.HasAVX2:
		k.Tier = "avx2"
	case cpu.X86.HasSSE42:
		k.Tier = "sse42"
	default:
		k.Tier = "portable"
	}
	return k
}
