// Package types provides shared type definitions for the Gemini context bridge.
//
// This package defines the domain types exchanged between components: analysis
// requests and results, content chunks, collected files, and file patterns.
//
// # Core Types
//
// AnalysisRequest identifies one unit of analysis work:
//
//	req := &types.AnalysisRequest{
//	    Query:    "Summarize this codebase",
//	    Content:  combined,
//	    Strategy: types.StrategyCodeAware,
//	}
//
// Its Fingerprint method produces a stable cache key from the query, a hash of
// the content, and the chunking strategy, so identical requests hit the result
// cache instead of re-invoking the model.
//
// ContentChunk is one slice of a larger document produced by the chunker.
// Chunks appear in document order; adjacent chunks may overlap in line range
// to preserve continuity across splits, but every line of the source document
// is covered by at least one chunk.
//
// # Validation
//
// Requests and chunks implement validation methods that return sentinel
// errors from this package:
//
//	if err := req.Validate(); err != nil {
//	    return err
//	}
package types
