//go:build acknack_reason_flags

package submsg

// applyReasonFlags packs reason into bits 2-5 of the submessage flags byte.
func applyReasonFlags(flags byte, reason Reason) byte {
	return flags | (byte(reason)&reasonFlagsMask)<<reasonFlagsShift
}
