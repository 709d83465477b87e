// Package labelstore downloads purchased label documents from the
// aggregator's storage URLs.
//
// Label URLs live on a separate host from the aggregator API and are
// served unauthenticated, so the retriever carries no auth session. The
// download is retried on a short fixed budget because the document is
// sometimes still being rendered right after purchase. When the budget
// is exhausted the caller falls back to offering a manual download link.
package labelstore
