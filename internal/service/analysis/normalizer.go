package analysis

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kljensen/snowball"
)

const minTokenLength = 3

var (
	urlPattern     = regexp.MustCompile(`http\S+|www\S+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
	hashtagPattern = regexp.MustCompile(`#\w+`)
	symbolPattern  = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	digitPattern   = regexp.MustCompile(`\p{N}+`)
)

// Normalizer turns raw chat text into a stream of lowercased, cleaned,
// stop-word-filtered, stemmed tokens. It holds no mutable state and the
// same input always produces the same output.
type Normalizer struct {
	language  string
	stopWords map[string]struct{}
}

// NewNormalizer creates a normalizer for the given stemming language.
// A nil stopWords set selects the default Uzbek list. Languages the
// snowball stemmer does not know leave tokens unstemmed rather than
// failing.
func NewNormalizer(language string, stopWords map[string]struct{}) *Normalizer {
	if stopWords == nil {
		stopWords = uzbekStopWords
	}
	return &Normalizer{
		language:  language,
		stopWords: stopWords,
	}
}

// Clean lowercases text and strips URLs, mentions, hashtags, punctuation
// and digits, collapsing runs of whitespace to single spaces.
func (n *Normalizer) Clean(text string) string {
	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = mentionPattern.ReplaceAllString(text, "")
	text = hashtagPattern.ReplaceAllString(text, "")
	text = symbolPattern.ReplaceAllString(text, "")
	text = digitPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// Tokenize cleans text and returns its stemmed tokens with stop words and
// tokens shorter than three characters removed. Malformed input (empty
// string, pure punctuation) yields an empty slice.
func (n *Normalizer) Tokenize(text string) []string {
	fields := strings.Fields(n.Clean(text))
	tokens := make([]string, 0, len(fields))
	for _, word := range fields {
		if _, stop := n.stopWords[word]; stop {
			continue
		}
		if utf8.RuneCountInString(word) < minTokenLength {
			continue
		}
		tokens = append(tokens, n.Stem(word))
	}
	return tokens
}

// Stem reduces a word to its stem form. Words the stemmer cannot handle
// pass through unchanged.
func (n *Normalizer) Stem(word string) string {
	stemmed, err := snowball.Stem(word, n.language, false)
	if err != nil || stemmed == "" {
		return word
	}
	return stemmed
}
