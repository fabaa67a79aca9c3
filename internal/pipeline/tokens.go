package pipeline

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"cordex/domain/stats"
	"cordex/domain/table"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultMaxWords caps the word-prominence vocabulary
const DefaultMaxWords = 200

// TokenizerOptions controls title token normalization. The zero value counts raw
// whitespace tokens with no normalization and no cap.
type TokenizerOptions struct {
	StripPunctuation bool
	Lowercase        bool
	DropNumbers      bool
	MinLength        int
	StopWords        map[string]struct{}
	MaxWords         int
}

// DefaultTokenizerOptions strips edge punctuation, lowercases, drops English stop words,
// pure numbers and single characters, and keeps the 200 most frequent tokens.
func DefaultTokenizerOptions() TokenizerOptions {
	return TokenizerOptions{
		StripPunctuation: true,
		Lowercase:        true,
		DropNumbers:      true,
		MinLength:        2,
		StopWords:        EnglishStopWords(),
		MaxWords:         DefaultMaxWords,
	}
}

var englishStopWords = []string{
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an", "and",
	"any", "are", "as", "at", "be", "because", "been", "before", "being", "below", "between",
	"both", "but", "by", "can", "could", "did", "do", "does", "doing", "down", "during",
	"each", "else", "ever", "few", "for", "from", "further", "get", "had", "has", "have",
	"having", "he", "her", "here", "hers", "herself", "him", "himself", "his", "how",
	"however", "i", "if", "in", "into", "is", "it", "its", "itself", "just", "me", "more",
	"most", "my", "myself", "no", "nor", "not", "of", "off", "on", "once", "only", "or",
	"other", "otherwise", "ought", "our", "ours", "ourselves", "out", "over", "own", "same",
	"shall", "she", "should", "since", "so", "some", "such", "than", "that", "the", "their",
	"theirs", "them", "themselves", "then", "there", "these", "they", "this", "those",
	"through", "to", "too", "under", "until", "up", "very", "via", "was", "we", "were",
	"what", "when", "where", "which", "while", "who", "whom", "why", "with", "would", "you",
	"your", "yours", "yourself", "yourselves",
}

// EnglishStopWords returns a fresh copy of the default stop word set
func EnglishStopWords() map[string]struct{} {
	set := make(map[string]struct{}, len(englishStopWords))
	for _, w := range englishStopWords {
		set[w] = struct{}{}
	}
	return set
}

// Tokenizer normalizes title tokens
type Tokenizer struct {
	opts  TokenizerOptions
	lower cases.Caser
}

// NewTokenizer creates a tokenizer with the given options
func NewTokenizer(opts TokenizerOptions) *Tokenizer {
	return &Tokenizer{opts: opts, lower: cases.Lower(language.English)}
}

// Normalize returns the counted form of a raw token, or false if the token is dropped
func (tk *Tokenizer) Normalize(raw string) (string, bool) {
	tok := raw
	if tk.opts.StripPunctuation {
		tok = strings.TrimFunc(tok, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
	}
	if tk.opts.Lowercase {
		tok = tk.lower.String(tok)
	}
	if tok == "" {
		return "", false
	}
	if tk.opts.MinLength > 0 && len([]rune(tok)) < tk.opts.MinLength {
		return "", false
	}
	if tk.opts.DropNumbers {
		if _, err := strconv.ParseFloat(tok, 64); err == nil {
			return "", false
		}
	}
	if _, stop := tk.opts.StopWords[tok]; stop {
		return "", false
	}
	return tok, true
}

// Count tallies normalized tokens across the given texts
func (tk *Tokenizer) Count(texts []string) stats.TokenFrequency {
	joined := strings.Join(texts, " ")

	index := make(map[string]int)
	var counts []stats.TokenCount
	total := 0
	for _, raw := range strings.Fields(joined) {
		tok, ok := tk.Normalize(raw)
		if !ok {
			continue
		}
		total++
		if i, seen := index[tok]; seen {
			counts[i].Count++
			continue
		}
		index[tok] = len(counts)
		counts = append(counts, stats.TokenCount{Token: tok, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	freq := stats.TokenFrequency{TotalTokens: total, Distinct: len(counts)}
	if tk.opts.MaxWords > 0 && len(counts) > tk.opts.MaxWords {
		counts = counts[:tk.opts.MaxWords]
	}
	if counts == nil {
		counts = []stats.TokenCount{}
	}
	freq.Tokens = counts
	return freq
}

// TokenizeTitles counts title tokens over every non-missing title
func TokenizeTitles(t *table.Table, opts TokenizerOptions) (stats.TokenFrequency, error) {
	col, err := t.Column(ColumnTitle)
	if err != nil {
		return stats.TokenFrequency{}, err
	}
	titles := make([]string, 0, len(col.Values))
	for _, v := range col.Values {
		if v.Missing() {
			continue
		}
		titles = append(titles, v.String())
	}
	return NewTokenizer(opts).Count(titles), nil
}
