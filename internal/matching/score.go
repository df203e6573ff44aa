package matching

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"subsearch/internal/textutil"
)

const (
	// MaxScore is the score of a candidate whose token bag equals the target's.
	MaxScore = 100

	cosineWeight = 0.6
	sortedWeight = 0.4
)

// Score rates how well candidate matches target on a 0..100 scale.
// Matching is case-insensitive and ignores separator style and token order.
// Either side producing no tokens scores 0.
func Score(candidate, target string) int {
	candTokens := textutil.Tokenize(candidate)
	targetTokens := textutil.Tokenize(target)
	if len(candTokens) == 0 || len(targetTokens) == 0 {
		return 0
	}

	cosine := textutil.CosineSimilarity(
		textutil.FingerprintTokens(candTokens),
		textutil.FingerprintTokens(targetTokens),
	)
	sorted := ratio(
		strings.Join(textutil.SortedUnique(candTokens), " "),
		strings.Join(textutil.SortedUnique(targetTokens), " "),
	)

	return clamp(int(math.Round(MaxScore * (cosineWeight*cosine + sortedWeight*sorted))))
}

// ratio returns the normalized Levenshtein similarity of a and b in [0,1].
func ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1 - float64(distance)/float64(longest)
}

func clamp(score int) int {
	switch {
	case score < 0:
		return 0
	case score > MaxScore:
		return MaxScore
	default:
		return score
	}
}
