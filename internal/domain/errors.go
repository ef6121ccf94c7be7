package domain

import "errors"

var (
	// ErrStructureChanged reports that the constituent source returned a
	// success response whose expected table element is missing. This is a
	// parsing-contract break, not a transient outage, and must propagate
	// instead of degrading to the fallback list.
	ErrStructureChanged = errors.New("constituent table structure changed")

	// ErrRateLimited reports a 429 from an upstream API.
	ErrRateLimited = errors.New("rate limited")

	// ErrMissingCredential reports a credential required by the configured
	// mode that was not provided.
	ErrMissingCredential = errors.New("missing credential")
)
