package sentiment

import (
	"strings"
	"unicode"
)

// Result is the outcome of scoring one piece of text.
type Result struct {
	Score int    `json:"score"`
	Label string `json:"label"` // "positive", "negative" or "neutral"
}

// Lexicon polarity word lists. Matching is per-token and case-insensitive.
var positiveWords = map[string]struct{}{
	"good": {}, "great": {}, "excellent": {}, "love": {}, "loved": {},
	"awesome": {}, "fantastic": {}, "amazing": {}, "happy": {}, "helpful": {},
	"works": {}, "solved": {}, "success": {}, "successful": {}, "perfect": {},
	"best": {}, "brilliant": {}, "enjoy": {}, "enjoyed": {}, "impressive": {},
	"recommend": {}, "recommended": {}, "reliable": {}, "smooth": {},
	"useful": {}, "win": {}, "wonderful": {}, "delight": {}, "delightful": {},
	"favorite": {}, "favourite": {}, "glad": {}, "like": {}, "liked": {},
	"nice": {}, "outstanding": {}, "superb": {}, "thanks": {}, "thank": {},
}

var negativeWords = map[string]struct{}{
	"bad": {}, "terrible": {}, "awful": {}, "hate": {}, "hated": {},
	"poor": {}, "worst": {}, "sad": {}, "broken": {}, "error": {},
	"errors": {}, "fail": {}, "failed": {}, "failure": {}, "problem": {},
	"problems": {}, "issue": {}, "issues": {}, "bug": {}, "buggy": {},
	"annoying": {}, "crash": {}, "crashed": {}, "disappointed": {},
	"disappointing": {}, "garbage": {}, "horrible": {}, "scam": {},
	"slow": {}, "useless": {}, "ugly": {}, "unreliable": {}, "waste": {},
	"worse": {}, "wrong": {}, "angry": {}, "avoid": {}, "complaint": {},
}

// Score runs the lexicon over the text and returns the signed polarity
// count with its label. Empty or unmatched text is neutral with score 0;
// Score never fails.
func Score(text string) Result {
	score := 0
	for _, token := range tokenize(text) {
		if _, ok := positiveWords[token]; ok {
			score++
		}
		if _, ok := negativeWords[token]; ok {
			score--
		}
	}
	return Result{Score: score, Label: Label(score)}
}

// Label maps a signed score to its sentiment label.
func Label(score int) string {
	switch {
	case score > 0:
		return "positive"
	case score < 0:
		return "negative"
	default:
		return "neutral"
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
