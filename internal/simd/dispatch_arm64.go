//go:build arm64

package simd

import "golang.org/x/sys/cpu"

// selectTier mirrors dispatch_amd64.go's reporting-only capability probe;
// see DESIGN.md for why no real NEON kernel ships here.
func selectTier() Kernels {
	k := portable
	if cpu.ARM64.HasASIMD {
		k.Tier = "neon"
	} else {
		k.Tier = "portable"
	}
	return k
}
