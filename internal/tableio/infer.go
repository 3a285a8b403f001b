package tableio

import (
	"math"
	"strconv"
	"strings"

	"github.com/riskibarqy/football-features/internal/featureexpand"
)

// missingTokens are read as missing numbers. The en dash is how scraped rating
// columns mark players without a rating.
var missingTokens = map[string]struct{}{
	"":     {},
	"–":    {},
	"null": {},
	"NaN":  {},
	"nan":  {},
}

func isMissing(token string) bool {
	_, ok := missingTokens[strings.TrimSpace(token)]
	return ok
}

// cells collects the raw tokens of one column before its kind is known.
type cells struct {
	name   string
	tokens []string
}

// inferColumn picks the narrowest kind that holds every token: int when all
// present tokens are integers and none is missing, float when all present tokens
// are numbers, string otherwise. A column whose tokens are all missing is float.
func inferColumn(c cells) featureexpand.Column {
	allInt, allFloat, anyMissing := true, true, false
	for _, tok := range c.tokens {
		if isMissing(tok) {
			anyMissing = true
			continue
		}
		tok = strings.TrimSpace(tok)
		if allInt {
			if _, err := strconv.ParseInt(tok, 10, 64); err != nil {
				allInt = false
			}
		}
		if !allInt {
			if _, err := strconv.ParseFloat(tok, 64); err != nil {
				allFloat = false
				break
			}
		}
	}

	switch {
	case allInt && !anyMissing:
		ints := make([]int64, len(c.tokens))
		for i, tok := range c.tokens {
			ints[i], _ = strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
		}
		return featureexpand.IntColumn(c.name, ints)
	case allFloat:
		floats := make([]float64, len(c.tokens))
		for i, tok := range c.tokens {
			if isMissing(tok) {
				floats[i] = math.NaN()
				continue
			}
			floats[i], _ = strconv.ParseFloat(strings.TrimSpace(tok), 64)
		}
		return featureexpand.FloatColumn(c.name, floats)
	default:
		return featureexpand.StringColumn(c.name, c.tokens)
	}
}
