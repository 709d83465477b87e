// Package kernel contains the shared value objects of the domain model:
// identifiers, postal codes and monetary amounts. Value objects are
// immutable, validate themselves on construction and compare by value.
package kernel
