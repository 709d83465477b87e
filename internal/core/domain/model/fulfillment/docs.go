// Package fulfillment models the two ways a quoted shipment can be
// fulfilled: recording an externally purchased carrier label (Manual) or
// purchasing a label through the integrated rate-shopping aggregator
// (Aggregator). Exactly one choice is active per finalization session;
// the Choice interface makes the mutual exclusivity and the per-path
// completeness rules explicit.
package fulfillment
