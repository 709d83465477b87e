// Package errs provides the standardized error types used across the
// shipment finalization service.
//
// Two families of errors live here:
//
//   - Value errors (ValueIsRequiredError, ValueIsInvalidError,
//     ObjectNotFoundError) used by constructors and lookups.
//   - Workflow errors (ValidationError, TransientError, AuthError,
//     RateLimitError) that classify failures of the external
//     collaborators: the carrier aggregator, the label storage and the
//     backend shipment API. The classification decides the retry policy
//     each component applies.
//
// Every type follows the same pattern: a sentinel error variable, a struct
// with the error details, constructors with and without a cause, and
// Error/Unwrap methods so errors.Is works against the sentinel.
package errs
