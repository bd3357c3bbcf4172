package tokenizer

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
	tiktoken "github.com/pkoukk/tiktoken-go"
)

const (
	// Encoding is the tokenizer encoding used for all counts. cl100k_base is
	// a good approximation for both Claude and Gemini token accounting.
	Encoding = "cl100k_base"

	// HeuristicCharsPerToken backs the fallback estimate when the encoding
	// cannot be loaded (offline environments)
	HeuristicCharsPerToken = 4

	// DefaultCacheSize bounds the per-text count memoization
	DefaultCacheSize = 100_000
)

// Counter counts tokens in a text span. Implementations must be deterministic
// within a process run: the chunker's incremental accumulation and the result
// cache's key stability both rely on identical text yielding identical counts.
type Counter interface {
	Count(text string) int
}

// Tokenizer counts tokens using tiktoken's cl100k_base encoding, memoizing
// counts by content hash. When the encoding is unavailable it falls back to a
// chars/4 heuristic, which is still deterministic.
type Tokenizer struct {
	enc   *tiktoken.Tiktoken
	cache *lru.Cache[string, int]
}

// New creates a Tokenizer. The error from loading the encoding is swallowed
// deliberately: counting must always be available, so the heuristic takes
// over when tiktoken cannot initialize.
func New(cacheSize int) *Tokenizer {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, int](cacheSize)
	if err != nil {
		cache, _ = lru.New[string, int](DefaultCacheSize)
	}

	enc, err := tiktoken.GetEncoding(Encoding)
	if err != nil {
		enc = nil
	}

	return &Tokenizer{enc: enc, cache: cache}
}

// Count returns the token count of text. The empty string counts as zero.
func (t *Tokenizer) Count(text string) int {
	if text == "" {
		return 0
	}

	key := hashText(text)
	if n, ok := t.cache.Get(key); ok {
		return n
	}

	var n int
	if t.enc != nil {
		n = len(t.enc.Encode(text, nil, nil))
	} else {
		n = heuristicCount(text)
	}

	t.cache.Add(key, n)
	return n
}

// Exact reports whether counts come from the real encoding rather than the
// heuristic fallback
func (t *Tokenizer) Exact() bool {
	return t.enc != nil
}

func heuristicCount(text string) int {
	n := len(text) / HeuristicCharsPerToken
	if n == 0 {
		n = 1
	}
	return n
}

func hashText(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:16])
}
