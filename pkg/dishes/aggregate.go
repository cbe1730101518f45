package dishes

import (
	"sort"
	"strings"

	"dishradar/internal/util"
	"dishradar/pkg/common"
)

// maxSampleQuotes caps the supporting quotes carried per popular item.
const maxSampleQuotes = 3

// CanonicalKey folds a raw item name to the key used for deduplication:
// lowercase, trimmed, internal whitespace collapsed. Two raw names with the
// same canonical key are the same item.
func CanonicalKey(raw string) string {
	return strings.ToLower(util.CollapseWhitespace(raw))
}

type itemGroup struct {
	key        string
	display    string
	sentiments []float64
	avg        float64
	quotes     []string
	quoteSeen  map[string]struct{}
}

// meanSorted sums the values in ascending order before dividing, so groups
// holding the same sentiment multiset get bitwise-identical means no matter
// what order their mentions arrived in. Accumulating in arrival order would
// let float rounding produce unequal means for equal multisets, and the
// ranking tie-break would then depend on input order.
func meanSorted(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return sum / float64(len(sorted))
}

// Aggregate merges item mentions into a deduplicated, ranked popular-items
// list. Mentions sharing a canonical key fold into one item whose display
// name is the first raw spelling in the input sequence and whose sample
// quotes are the first distinct quotes in input order.
//
// The ranking (mention count desc, mean sentiment desc, canonical key asc)
// is a total order over groups, so the ranked list does not depend on how
// extraction work was batched or interleaved. An empty input yields an empty
// output.
func Aggregate(mentions []common.Mention) []common.PopularItem {
	groups := make(map[string]*itemGroup)

	for _, m := range mentions {
		key := CanonicalKey(m.ItemName)
		if key == "" {
			continue
		}

		g, ok := groups[key]
		if !ok {
			g = &itemGroup{
				key:       key,
				display:   m.ItemName,
				quoteSeen: make(map[string]struct{}),
			}
			groups[key] = g
		}

		g.sentiments = append(g.sentiments, m.Sentiment)

		quote := strings.TrimSpace(m.Quote)
		if quote == "" || len(g.quotes) >= maxSampleQuotes {
			continue
		}
		if _, dup := g.quoteSeen[quote]; dup {
			continue
		}
		g.quoteSeen[quote] = struct{}{}
		g.quotes = append(g.quotes, quote)
	}

	ranked := make([]*itemGroup, 0, len(groups))
	for _, g := range groups {
		g.avg = meanSorted(g.sentiments)
		ranked = append(ranked, g)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if len(a.sentiments) != len(b.sentiments) {
			return len(a.sentiments) > len(b.sentiments)
		}
		if a.avg != b.avg {
			return a.avg > b.avg
		}
		return a.key < b.key
	})

	items := make([]common.PopularItem, 0, len(ranked))
	for _, g := range ranked {
		items = append(items, common.PopularItem{
			Name:         g.display,
			MentionCount: len(g.sentiments),
			AvgSentiment: g.avg,
			SampleQuotes: g.quotes,
		})
	}
	return items
}
