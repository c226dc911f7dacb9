package submsg

// Reason is the optional "why this AckNack was sent" nibble from
// SPEC_FULL.md's SUPPLEMENTED FEATURES item 1 (the original's
// ACK_REASON_IN_FLAGS, default off). It is only packed into the wire flags
// byte when this package is built with the acknack_reason_flags tag; the
// default build ignores it entirely, matching the original's default-off
// posture.
type Reason uint8

const (
	ReasonUnspecified Reason = iota
	ReasonRecover
	ReasonBackoff
	ReasonNackDelay
	ReasonDirectedHeartbeat
)
