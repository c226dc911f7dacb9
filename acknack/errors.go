package acknack

// Error is a sentinel error type for this package, the same shape as the
// teacher stack's types.Error (a distinct type so these errors are never
// confused with errors from unrelated packages).
type Error struct {
	string
}

// Error implements error.
func (e *Error) Error() string {
	return e.string
}

// Sentinel errors of this subsystem. Assertion violations (spec.md section
// 7) are programming errors: they are always clamped (see clampAssertSeq in
// proxywriter.go and the bitmap size clamps in bitmap.go) and the wrapped
// sentinel is logged through glog; no function returns them to its caller,
// and no build mode aborts on them. ErrNoMessageAvailable is the error
// msgpoolfake wraps and returns on pool exhaustion.
var (
	ErrInvalidNextDelivSeq = &Error{"next_deliv_seq out of [1, next_seq] range"}
	ErrBitmapTooLarge      = &Error{"nack bitmap exceeds MaxSequenceNumberBits"}
	ErrFragBitmapTooLarge  = &Error{"fragment nack bitmap exceeds MaxFragmentNumberBits"}
	ErrNoMessageAvailable  = &Error{"message pool allocation failed"}
)
