package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChunkingStrategy(t *testing.T) {
	tests := []struct {
		input   string
		want    ChunkingStrategy
		wantErr bool
	}{
		{"simple", StrategySimple, false},
		{"code_aware", StrategyCodeAware, false},
		{"semantic", StrategySemantic, false},
		{"", StrategyCodeAware, false},
		{"bogus", "", true},
	}

	for _, tt := range tests {
		got, err := ParseChunkingStrategy(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownStrategy, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestAnalysisRequestValidate(t *testing.T) {
	valid := AnalysisRequest{Query: "q", Content: "c", Strategy: StrategySimple}
	assert.NoError(t, valid.Validate())

	noQuery := AnalysisRequest{Content: "c", Strategy: StrategySimple}
	assert.ErrorIs(t, noQuery.Validate(), ErrEmptyQuery)

	noContent := AnalysisRequest{Query: "q", Strategy: StrategySimple}
	assert.ErrorIs(t, noContent.Validate(), ErrEmptyContent)

	badStrategy := AnalysisRequest{Query: "q", Content: "c", Strategy: "recursive"}
	assert.ErrorIs(t, badStrategy.Validate(), ErrUnknownStrategy)
}

func TestFingerprintStability(t *testing.T) {
	a := AnalysisRequest{Query: "find auth", Content: "code here", Strategy: StrategyCodeAware}
	b := AnalysisRequest{Query: "find auth", Content: "code here", Strategy: StrategyCodeAware}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 64)
}

func TestFingerprintSensitivity(t *testing.T) {
	base := AnalysisRequest{Query: "find auth", Content: "code here", Strategy: StrategyCodeAware}

	differentQuery := base
	differentQuery.Query = "find bugs"
	assert.NotEqual(t, base.Fingerprint(), differentQuery.Fingerprint())

	differentContent := base
	differentContent.Content = "other code"
	assert.NotEqual(t, base.Fingerprint(), differentContent.Fingerprint())

	differentStrategy := base
	differentStrategy.Strategy = StrategySimple
	assert.NotEqual(t, base.Fingerprint(), differentStrategy.Fingerprint())
}

func TestFingerprintIgnoresMetadata(t *testing.T) {
	a := AnalysisRequest{Query: "q", Content: "c", Strategy: StrategySimple}
	b := AnalysisRequest{Query: "q", Content: "c", Strategy: StrategySimple,
		Metadata: map[string]string{"filename": "main.py"}}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestContentChunkValidate(t *testing.T) {
	valid := ContentChunk{Text: "x", StartLine: 0, EndLine: 4}
	assert.NoError(t, valid.Validate())

	empty := ContentChunk{StartLine: 0, EndLine: 1}
	assert.ErrorIs(t, empty.Validate(), ErrEmptyChunk)

	negative := ContentChunk{Text: "x", StartLine: -1, EndLine: 1}
	assert.ErrorIs(t, negative.Validate(), ErrInvalidLineRange)

	inverted := ContentChunk{Text: "x", StartLine: 5, EndLine: 2}
	assert.ErrorIs(t, inverted.Validate(), ErrInvalidLineRange)
}
