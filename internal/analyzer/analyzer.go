package analyzer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zerubeus/gemini-claude-code-mcp/internal/chunker"
	"github.com/zerubeus/gemini-claude-code-mcp/internal/config"
	"github.com/zerubeus/gemini-claude-code-mcp/internal/gemini"
	"github.com/zerubeus/gemini-claude-code-mcp/internal/tokenizer"
	"github.com/zerubeus/gemini-claude-code-mcp/pkg/types"
)

// ResultCache is the analyzer's view of the result cache
type ResultCache interface {
	Get(fingerprint string) (types.AnalysisResult, bool)
	Put(fingerprint string, result types.AnalysisResult)
}

// InferenceGateway is the analyzer's view of the rate-limited, retrying
// gateway. An empty text with a nil error means the call degraded after
// exhausting retries; a non-nil error is a permanent caller error.
type InferenceGateway interface {
	Generate(ctx context.Context, req gemini.GenerateRequest) (string, error)
}

// Analyzer decides whether content needs the large-context model, splits it
// into chunks when it does, fans the chunks out through the gateway, and
// synthesizes a final answer. Whole requests are memoized by fingerprint.
type Analyzer struct {
	gateway    InferenceGateway
	counter    tokenizer.Counter
	chunker    *chunker.Chunker
	cache      ResultCache
	limits     config.LimitsConfig
	processing config.ProcessingConfig
	logger     *slog.Logger
}

// New creates an Analyzer
func New(gw InferenceGateway, counter tokenizer.Counter, cache ResultCache,
	limits config.LimitsConfig, processing config.ProcessingConfig, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		gateway:    gw,
		counter:    counter,
		chunker:    chunker.New(counter),
		cache:      cache,
		limits:     limits,
		processing: processing,
		logger:     logger,
	}
}

// NeedsLargeContext reports whether content exceeds the small-context limit
func (a *Analyzer) NeedsLargeContext(content string) bool {
	return a.counter.Count(content) > a.limits.SmallContextTokens
}

// Analyze runs one analysis request. Ordinary remote-call failures degrade to
// placeholder text and never surface as errors; only invalid requests and
// permanent (client-side) inference errors do. Results of failed requests are
// not cached.
func (a *Analyzer) Analyze(ctx context.Context, req *types.AnalysisRequest) (types.AnalysisResult, error) {
	if err := req.Validate(); err != nil {
		return types.AnalysisResult{}, err
	}

	fingerprint := req.Fingerprint()
	if cached, ok := a.cache.Get(fingerprint); ok {
		a.logger.Info("returning cached analysis result", "fingerprint", fingerprint[:12])
		return cached, nil
	}

	analysisID := uuid.NewString()
	totalTokens := a.counter.Count(req.Content)

	if totalTokens <= a.limits.SmallContextTokens {
		a.logger.Info("content fits in the small context",
			"analysis_id", analysisID, "tokens", totalTokens)
		result := a.buildResult(req, analysisID, totalTokens, 0, false, "")
		a.cache.Put(fingerprint, result)
		return result, nil
	}

	a.logger.Info("processing large context",
		"analysis_id", analysisID,
		"tokens", totalTokens,
		"strategy", req.Strategy)

	chunks := a.split(req)
	response, err := a.processChunks(ctx, chunks, req.Query)
	if err != nil {
		return types.AnalysisResult{}, fmt.Errorf("analyze: %w", err)
	}

	result := a.buildResult(req, analysisID, totalTokens, len(chunks), true, response)
	a.cache.Put(fingerprint, result)
	return result, nil
}

// split selects the chunking path for the request's strategy
func (a *Analyzer) split(req *types.AnalysisRequest) []types.ContentChunk {
	budget := a.processing.ChunkTokens
	if req.Strategy == types.StrategyCodeAware {
		return a.chunker.Chunk(req.Content, a.requestLanguage(req), budget, a.processing.OverlapTokens)
	}
	return a.chunker.SimpleChunk(req.Content, budget)
}

// requestLanguage resolves the language tag for boundary finding from the
// request metadata: an explicit "language" key wins, then a "filename" key.
func (a *Analyzer) requestLanguage(req *types.AnalysisRequest) string {
	if lang, ok := req.Metadata["language"]; ok && lang != "" {
		return lang
	}
	if filename, ok := req.Metadata["filename"]; ok && filename != "" {
		return chunker.LanguageForPath(filename)
	}
	return "text"
}

// chunkOutcome is the tagged result of one chunk's inference call
type chunkOutcome struct {
	text string
	err  error
}

// processChunks runs the map-reduce over chunks: one gateway call per chunk
// concurrently, then a synthesis call over the collected findings. Every
// chunk's outcome is observed before synthesis begins; a failed chunk is
// omitted from the findings rather than aborting the analysis.
func (a *Analyzer) processChunks(ctx context.Context, chunks []types.ContentChunk, query string) (string, error) {
	if len(chunks) == 0 {
		return "No content to analyze", nil
	}

	if len(chunks) == 1 {
		text, err := a.gateway.Generate(ctx, gemini.GenerateRequest{
			Prompt: singleChunkPrompt(query, chunks[0].Text),
		})
		if err != nil {
			return "", err
		}
		if text == "" {
			return NoResponsePlaceholder, nil
		}
		return text, nil
	}

	outcomes := make([]chunkOutcome, len(chunks))

	var g errgroup.Group
	for i, chunk := range chunks {
		g.Go(func() error {
			text, err := a.gateway.Generate(ctx, gemini.GenerateRequest{
				Prompt: chunkPrompt(i, len(chunks), chunk, query),
			})
			outcomes[i] = chunkOutcome{text: text, err: err}
			return nil
		})
	}
	// The goroutines never return errors; the barrier is the point
	_ = g.Wait()

	// Permanent errors abort the whole analysis, but only after every
	// chunk's outcome has been observed
	for i, outcome := range outcomes {
		if outcome.err != nil {
			return "", fmt.Errorf("chunk %d of %d: %w", i+1, len(chunks), outcome.err)
		}
	}

	// Findings keep their part numbers in document order regardless of
	// completion order; absent responses are simply omitted
	var findings []string
	for i, outcome := range outcomes {
		if outcome.text == "" {
			a.logger.Warn("chunk produced no response", "part", i+1, "total", len(chunks))
			continue
		}
		findings = append(findings, fmt.Sprintf("Part %d: %s", i+1, outcome.text))
	}

	final, err := a.gateway.Generate(ctx, gemini.GenerateRequest{
		Prompt: synthesisPrompt(len(chunks), query, findings),
	})
	if err != nil {
		return "", err
	}
	if final == "" {
		return NoResponsePlaceholder, nil
	}
	return final, nil
}

func (a *Analyzer) buildResult(req *types.AnalysisRequest, analysisID string,
	totalTokens, chunksProcessed int, usedLargeModel bool, response string) types.AnalysisResult {

	metadata := make(map[string]string, len(req.Metadata)+1)
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	metadata["analysis_id"] = analysisID

	return types.AnalysisResult{
		Query:           req.Query,
		Content:         req.Content,
		TotalTokens:     totalTokens,
		ChunksProcessed: chunksProcessed,
		UsedLargeModel:  usedLargeModel,
		Response:        response,
		Metadata:        metadata,
	}
}
