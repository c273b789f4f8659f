//go:build !amd64 && !arm64

package simd

// selectTier on platforms without a capability probe worth running.
func selectTier() Kernels {
	return portable
}
