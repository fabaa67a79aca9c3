package pipeline

import (
	"testing"

	"cordex/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeTitlesDefaults(t *testing.T) {
	freq, err := TokenizeTitles(derivedSample(t), DefaultTokenizerOptions())
	require.NoError(t, err)

	want := []string{"covid-19", "transmission", "households", "coronavirus", "review", "sars-cov-2", "vaccine", "trial"}
	got := make([]string, len(freq.Tokens))
	for i, tc := range freq.Tokens {
		got[i] = tc.Token
	}
	assert.Equal(t, want, got)
	assert.Equal(t, 2, freq.Tokens[0].Count)
	assert.Equal(t, 2, freq.Tokens[1].Count)
	assert.Equal(t, 10, freq.TotalTokens)
	assert.Equal(t, 8, freq.Distinct)
}

func TestTokenizeTitlesRaw(t *testing.T) {
	freq, err := TokenizeTitles(testkit.Table(testkit.SamplePapers()), TokenizerOptions{})
	require.NoError(t, err)

	counts := make(map[string]int)
	for _, tc := range freq.Tokens {
		counts[tc.Token] = tc.Count
	}
	assert.Equal(t, 1, counts["COVID-19"], "no case folding without Lowercase")
	assert.Equal(t, 1, counts["covid-19"])
	assert.Equal(t, 1, counts["Coronavirus:"])
	assert.Equal(t, 1, counts["a"])
	assert.Equal(t, 13, freq.TotalTokens)
}

func TestTokenizerNormalize(t *testing.T) {
	tk := NewTokenizer(DefaultTokenizerOptions())

	tok, ok := tk.Normalize("(COVID-19).")
	require.True(t, ok)
	assert.Equal(t, "covid-19", tok)

	for _, dropped := range []string{"the", "2020", "...", "x", "--"} {
		_, ok := tk.Normalize(dropped)
		assert.False(t, ok, dropped)
	}
}

func TestTokenizerMaxWords(t *testing.T) {
	opts := DefaultTokenizerOptions()
	opts.MaxWords = 2
	freq := NewTokenizer(opts).Count([]string{"alpha beta gamma", "beta gamma", "gamma"})

	require.Len(t, freq.Tokens, 2)
	assert.Equal(t, "gamma", freq.Tokens[0].Token)
	assert.Equal(t, "beta", freq.Tokens[1].Token)
	assert.Equal(t, 3, freq.Distinct)
	assert.Equal(t, 6, freq.TotalTokens)
}
