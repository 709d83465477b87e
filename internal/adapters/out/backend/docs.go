// Package backend talks to the company's own shipment API: it commits a
// finished shipment record and reads the postal codes currently bound to
// the customer and destination records.
//
// Commit is the only write in the workflow and the one call that must not
// duplicate. Every logical commit carries an Idempotency-Key header, so
// the rate-limit backoff inside Commit and any caller-level retry after an
// unknown outcome both land on the same backend record.
package backend
