// Package services contains stateless domain services that coordinate
// rules across aggregates. ZipConsistencyGuard is the commit gate that
// keeps a quoted price from being committed against drifted postal codes.
package services
