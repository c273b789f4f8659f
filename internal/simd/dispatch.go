package simd

import "os"

// DisableSIMDEnv forces the portable implementation tier (spec §6).
const DisableSIMDEnv = "VROOM_DISABLE_SIMD"

var portable = Kernels{
	Tier:           "portable",
	EqMask:         eqMaskPortable,
	QuoteMask:      quoteMaskPortable,
	EscapeMask:     escapeMaskPortable,
	LineEndingMask: lineEndingMaskPortable,
}

// active is the selected dispatch tier, chosen once in init() (or by the
// platform-specific selectTier in dispatch_amd64.go / dispatch_arm64.go /
// dispatch_generic.go) and never reconsidered, per spec §4.D ("selected
// once at first use") and the DESIGN NOTES' vtable-keyed-by-capability
// guidance.
var active Kernels

func init() {
	if os.Getenv(DisableSIMDEnv) != "" {
		active = portable
		return
	}
	active = selectTier()
}

// Active returns the process-wide selected kernel vtable.
func Active() Kernels { return active }

// EqMask dispatches to the active tier's equality-mask kernel.
func EqMask(block []byte, b byte) uint64 { return active.EqMask(block, b) }

// QuoteMask dispatches to the active tier's quote-parity kernel.
func QuoteMask(quoteBits, carry uint64) (uint64, uint64) { return active.QuoteMask(quoteBits, carry) }

// EscapeMask dispatches to the active tier's escape-carry kernel.
func EscapeMask(escapeBits, carry uint64) (uint64, uint64) {
	return active.EscapeMask(escapeBits, carry)
}

// LineEndingMask dispatches to the active tier's line-ending kernel.
func LineEndingMask(block []byte, valid uint64) uint64 { return active.LineEndingMask(block, valid) }
