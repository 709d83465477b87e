// Package session implements the finalization session: the aggregate that
// drives a quoted shipment through fulfillment configuration, label
// acquisition and retrieval, and finally commit to the backend.
//
// The lifecycle is a state machine:
//
//	Selecting ──> Configuring ──┬──> ManualReady ─────────────────────────┐
//	     ▲            ▲         │                                         │
//	     │            │         └──> AcquiringRate ──> RateSelected       │
//	     │            │                                    │              │
//	     │   (switch fulfillment kind                      ▼              │
//	     │    from any pre-commit state)            GeneratingLabel       │
//	     │                                                 │              │
//	     │                                                 ▼              │
//	     │                                            LabelReady          │
//	     │                                                 │              │
//	     │                                                 ▼              │
//	     │                                          RetrievingAsset       │
//	     │                                                 │              │
//	     │                                                 ▼              ▼
//	     │                                            AssetReady ──> Committing ──> Committed
//	     │                                                                │
//	     │                                                                ▼
//	     └──────────────────────────────────────────────────────── CommitFailed
//	                                                              (retry allowed)
//
// Every mutation validates the current status first. That check doubles as
// the stale-result barrier: a network result that arrives after the
// session has moved on (the operator switched fulfillment kind, or closed
// the flow) fails the status check and is dropped instead of applied.
package session
