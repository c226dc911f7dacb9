//go:build !acknack_reason_flags

package submsg

// applyReasonFlags is a no-op in the default build: the reason nibble is
// never placed on the wire unless built with -tags acknack_reason_flags.
func applyReasonFlags(flags byte, _ Reason) byte {
	return flags
}
