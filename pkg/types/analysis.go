package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ChunkingStrategy selects how large content is split before analysis
type ChunkingStrategy string

const (
	// StrategySimple splits content by token budget alone
	StrategySimple ChunkingStrategy = "simple"
	// StrategyCodeAware prefers splitting at function/class/type boundaries
	StrategyCodeAware ChunkingStrategy = "code_aware"
	// StrategySemantic is accepted but currently routed through the simple splitter
	StrategySemantic ChunkingStrategy = "semantic"
)

// ParseChunkingStrategy converts a string into a ChunkingStrategy, defaulting
// to code_aware for empty input
func ParseChunkingStrategy(s string) (ChunkingStrategy, error) {
	switch ChunkingStrategy(s) {
	case StrategySimple, StrategyCodeAware, StrategySemantic:
		return ChunkingStrategy(s), nil
	case "":
		return StrategyCodeAware, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// AnalysisRequest identifies one unit of analysis work. Immutable once created.
type AnalysisRequest struct {
	Query    string
	Content  string
	Strategy ChunkingStrategy
	Metadata map[string]string
}

// Validate checks the request before analysis
func (r *AnalysisRequest) Validate() error {
	if r.Query == "" {
		return ErrEmptyQuery
	}
	if r.Content == "" {
		return ErrEmptyContent
	}
	switch r.Strategy {
	case StrategySimple, StrategyCodeAware, StrategySemantic:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, r.Strategy)
	}
	return nil
}

// Fingerprint returns a stable cache key over the semantically relevant
// fields: the query, a hash of the content, and the chunking strategy.
func (r *AnalysisRequest) Fingerprint() string {
	contentHash := sha256.Sum256([]byte(r.Content))

	h := sha256.New()
	h.Write([]byte(r.Query))
	h.Write([]byte{0})
	h.Write(contentHash[:])
	h.Write([]byte{0})
	h.Write([]byte(r.Strategy))
	return hex.EncodeToString(h.Sum(nil))
}

// AnalysisResult is the outcome of one analysis. Once cached it is returned
// unchanged to every caller with an identical fingerprint.
type AnalysisResult struct {
	Query           string
	Content         string
	TotalTokens     int
	ChunksProcessed int
	UsedLargeModel  bool
	Response        string // empty when the large model was not used
	Metadata        map[string]string
}

// ContentChunk is one slice of a larger document. Chunks are ordered in
// document order; line ranges may overlap but never leave gaps.
type ContentChunk struct {
	Text       string
	StartLine  int // 0-based, inclusive
	EndLine    int // 0-based, inclusive
	TokenCount int
}

// Validate checks chunk invariants
func (c *ContentChunk) Validate() error {
	if c.Text == "" {
		return ErrEmptyChunk
	}
	if c.StartLine < 0 {
		return ErrInvalidLineRange
	}
	if c.EndLine < c.StartLine {
		return ErrInvalidLineRange
	}
	return nil
}
