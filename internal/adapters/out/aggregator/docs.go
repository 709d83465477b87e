// Package aggregator is the HTTP adapter for the carrier rate-shopping
// API: session login, rate queries and label purchases. It implements
// ports.RateShoppingClient and ports.LabelAcquisitionClient.
//
// The auth token is the only state shared between calls. It is obtained
// lazily on first use and refreshed behind a singleflight guard, so
// concurrent calls that hit an expired token trigger exactly one login.
package aggregator
