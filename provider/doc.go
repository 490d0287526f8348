// Package provider implements native HTTP adapters for the LLM providers
// papertocode can generate with, behind one provider-agnostic interface.
//
// Each adapter speaks its provider's API directly: it builds the request
// envelope the provider requires (auth scheme, message shape, generation
// parameters), issues a single blocking HTTP request, and extracts the
// generated text from the provider's response envelope. Provider-specific
// failures are mapped onto a shared error taxonomy (AuthError,
// RateLimitError, ServerError, ConnectivityError, EmptyResponseError) so
// retry logic upstream never needs to know which provider it is talking to.
//
// Adapters never retry and never parse structure out of the generated
// text; those are the retry and parse packages' jobs.
package provider
