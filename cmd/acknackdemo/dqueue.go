package main

// staticDeliveryQueue reports a fixed full/non-full state, standing in for
// the in-order delivery queue named out of scope (spec.md section 1).
type staticDeliveryQueue struct {
	full bool
}

func (q *staticDeliveryQueue) IsFull() bool { return q.full }
