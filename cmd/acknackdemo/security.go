package main

import "github.com/yzrtps/acknack/external"

// passthroughSecurity never drops a submessage; it stands in for the
// security layer named out of scope (spec.md section 1).
type passthroughSecurity struct{}

func (passthroughSecurity) EncodeDataReaderSubmsg(mb external.MessageBuilder, m external.Marker, pwGUID, rdGUID [16]byte) {
}

// staticEntityIndex answers every LookupReader with the same participant
// GUID, enough to exercise the secure-proxy-participant path in the demo.
type staticEntityIndex struct {
	participant [16]byte
}

func (s staticEntityIndex) LookupReader(rdGUID [16]byte) ([16]byte, bool) {
	return s.participant, true
}
