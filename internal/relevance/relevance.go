// Package relevance estimates how closely a news article relates to the
// Pi Network project, as a 0-100 score over a fixed weighted keyword
// table. The scorer is pure: no I/O, no hidden state.
package relevance

import (
	"strings"

	"github.com/painori/painori/internal/feed"
)

// Keyword pairs a phrase with its base weight. A title hit contributes
// weight*2, a description hit contributes weight, and a phrase counts at
// most once per article.
type Keyword struct {
	Phrase string
	Weight int
}

// MaxScore caps the accumulated score.
const MaxScore = 100

// Keywords is the scoring table, ordered by semantic tier: brand terms
// first, founders and ecosystem terms in the middle, generic category
// terms last. Values are tuned against live CryptoCompare output; treat
// them as configuration.
var Keywords = []Keyword{
	{"pi network", 10},
	{"pi coin", 10},
	{"pi cryptocurrency", 10},
	{"pi crypto", 9},
	{"pi blockchain", 9},
	{"pi token", 9},

	{"pioneers", 8},
	{"pi mainnet", 8},
	{"pi testnet", 8},
	{"pi kyc", 8},
	{"pi wallet", 8},
	{"pi browser", 8},
	{"pi ecosystem", 8},
	{"pi app", 8},

	{"nicolas kokkalis", 9},
	{"chengdiao fan", 9},
	{"stanford pi", 8},
	{"stanford blockchain", 7},

	{"mobile mining", 7},
	{"social mining", 7},
	{"mining on phone", 7},
	{"phone mining", 7},
	{"consensus algorithm", 6},
	{"stellar consensus protocol", 6},
	{"federated byzantine agreement", 6},

	{"pi nodes", 6},
	{"pi contributors", 6},
	{"pi ambassadors", 6},

	{"pi marketplace", 7},
	{"pi hackathon", 7},
	{"pi developer", 6},
	{"pi partnerships", 6},
	{"pi utilities", 6},
	{"pi payments", 6},
	{"pi commerce", 6},

	{"decentralized currency", 5},
	{"accessible cryptocurrency", 5},
	{"everyday crypto", 5},
	{"sustainable mining", 5},
	{"energy efficient mining", 5},
	{"green cryptocurrency", 5},
}

// Score rates an article against the keyword table. Headline mentions
// are a stronger signal than body mentions, so a title match counts
// double and shadows a description match for the same phrase.
func Score(a feed.Article) int {
	title := strings.ToLower(a.Title)
	description := strings.ToLower(a.Description)

	score := 0
	for _, kw := range Keywords {
		switch {
		case strings.Contains(title, kw.Phrase):
			score += kw.Weight * 2
		case description != "" && strings.Contains(description, kw.Phrase):
			score += kw.Weight
		}
	}

	if score > MaxScore {
		return MaxScore
	}
	return score
}
