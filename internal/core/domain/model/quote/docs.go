// Package quote models the priced shipping option an operator locks in
// before finalization starts. A Quote is immutable: once the customer has
// confirmed a priced service, the route, parcel and total are fixed, and
// any postal-code drift after that point is caught by the consistency
// guard rather than silently re-priced.
package quote
