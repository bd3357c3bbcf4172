// Package analyzer orchestrates large-context analysis: it decides whether
// content fits the caller's own context, splits oversized content into
// chunks, fans the chunks out through the inference gateway concurrently, and
// synthesizes the per-chunk findings into one answer.
//
// Results are memoized by request fingerprint, so repeating an identical
// request returns the cached result without further model calls. Transient
// inference failures degrade to placeholder text; only invalid requests and
// permanent client-side errors surface as errors.
package analyzer
