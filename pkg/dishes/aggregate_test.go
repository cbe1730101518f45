package dishes

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"dishradar/pkg/common"
)

const floatTolerance = 1e-9

func mention(name string, sentiment float64, quote string) common.Mention {
	return common.Mention{ItemName: name, Sentiment: sentiment, ReviewID: "r1", Quote: quote}
}

func TestAggregate_EmptyInput(t *testing.T) {
	items := Aggregate(nil)
	if len(items) != 0 {
		t.Fatalf("expected empty output, got %+v", items)
	}
}

func TestAggregate_CanonicalizationFoldsCaseAndWhitespace(t *testing.T) {
	items := Aggregate([]common.Mention{
		mention("Pho", 0.9, "the pho was great"),
		mention("pho ", 0.8, "solid pho"),
		mention("PHO", 0.7, "PHO!"),
	})

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].MentionCount != 3 {
		t.Fatalf("expected mention_count 3, got %d", items[0].MentionCount)
	}
	if items[0].Name != "Pho" {
		t.Fatalf("expected first spelling as display name, got %q", items[0].Name)
	}
}

func TestAggregate_InternalWhitespaceFoldsForGrouping(t *testing.T) {
	items := Aggregate([]common.Mention{
		mention("soon  dubu", 0.9, "q1"),
		mention("Soon Dubu", 0.5, "q2"),
	})

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	// Grouping folds whitespace runs but the display name stays the raw
	// first spelling.
	if items[0].Name != "soon  dubu" {
		t.Fatalf("expected raw first spelling, got %q", items[0].Name)
	}
}

func TestAggregate_SentimentMean(t *testing.T) {
	items := Aggregate([]common.Mention{
		mention("Tonkatsu", 0.9, "q1"),
		mention("Tonkatsu", 0.8, "q2"),
		mention("Tonkatsu", 0.3, "q3"),
	})

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	want := (0.9 + 0.8 + 0.3) / 3
	if math.Abs(items[0].AvgSentiment-want) > floatTolerance {
		t.Fatalf("expected avg %f, got %f", want, items[0].AvgSentiment)
	}
}

func TestAggregate_RankByCountThenSentimentThenKey(t *testing.T) {
	items := Aggregate([]common.Mention{
		mention("noodles", 0.5, "q1"),
		mention("noodles", 0.5, "q2"),
		mention("dumplings", 0.5, "q3"),
		mention("dumplings", 0.5, "q4"),
		mention("kimchi", 0.9, "q5"),
		mention("bibimbap", 0.9, "q6"),
		mention("bibimbap", 0.9, "q7"),
		mention("bibimbap", 0.9, "q8"),
	})

	wantOrder := []string{"bibimbap", "dumplings", "noodles", "kimchi"}
	if len(items) != len(wantOrder) {
		t.Fatalf("expected %d items, got %d", len(wantOrder), len(items))
	}
	for i, want := range wantOrder {
		if items[i].Name != want {
			t.Fatalf("rank %d: expected %q, got %q", i, want, items[i].Name)
		}
	}
}

func TestAggregate_SampleQuotesFirstThreeDistinct(t *testing.T) {
	items := Aggregate([]common.Mention{
		mention("Pho", 0.9, "quote one"),
		mention("Pho", 0.8, "quote one"),
		mention("Pho", 0.7, "quote two"),
		mention("Pho", 0.6, ""),
		mention("Pho", 0.5, "quote three"),
		mention("Pho", 0.4, "quote four"),
	})

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	want := []string{"quote one", "quote two", "quote three"}
	if len(items[0].SampleQuotes) != len(want) {
		t.Fatalf("expected %d quotes, got %v", len(want), items[0].SampleQuotes)
	}
	for i, q := range want {
		if items[0].SampleQuotes[i] != q {
			t.Fatalf("quote %d: expected %q, got %q", i, q, items[0].SampleQuotes[i])
		}
	}
}

func TestAggregate_SkipsEmptyItemNames(t *testing.T) {
	items := Aggregate([]common.Mention{
		mention("  ", 0.9, "q1"),
		mention("Pho", 0.8, "q2"),
	})

	if len(items) != 1 || items[0].Name != "Pho" {
		t.Fatalf("expected only the named item, got %+v", items)
	}
}

// The merge must be commutative and associative in its effect on the ranked
// list: canonical key, mention count, mean sentiment, and rank order may not
// depend on the order mentions arrive in.
func TestAggregate_RankingIsOrderIndependent(t *testing.T) {
	base := []common.Mention{
		mention("Soondubu", 0.9, "q1"),
		mention("soondubu", 0.7, "q2"),
		mention("Kimchi", 0.4, "q3"),
		mention("Galbi", 0.4, "q4"),
		mention("galbi ", 0.6, "q5"),
		mention("Bibimbap", 0.95, "q6"),
	}

	type rankedRow struct {
		key   string
		count int
		avg   float64
	}
	project := func(items []common.PopularItem) []rankedRow {
		rows := make([]rankedRow, 0, len(items))
		for _, item := range items {
			rows = append(rows, rankedRow{
				key:   CanonicalKey(item.Name),
				count: item.MentionCount,
				avg:   item.AvgSentiment,
			})
		}
		return rows
	}

	want := project(Aggregate(base))

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		t.Run(fmt.Sprintf("permutation_%d", trial), func(t *testing.T) {
			shuffled := make([]common.Mention, len(base))
			copy(shuffled, base)
			rng.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})

			got := project(Aggregate(shuffled))
			if len(got) != len(want) {
				t.Fatalf("expected %d items, got %d", len(want), len(got))
			}
			for i := range want {
				if got[i].key != want[i].key || got[i].count != want[i].count {
					t.Fatalf("rank %d: expected %+v, got %+v", i, want[i], got[i])
				}
				if math.Abs(got[i].avg-want[i].avg) > floatTolerance {
					t.Fatalf("rank %d: expected avg %f, got %f", i, want[i].avg, got[i].avg)
				}
			}
		})
	}
}

// Two items carrying the same sentiment multiset must compute bitwise-equal
// means regardless of arrival order, so the rank tie falls through to the
// canonical-key comparison instead of depending on float accumulation order.
func TestAggregate_EqualMultisetsTieBreakByKey(t *testing.T) {
	forward := []common.Mention{
		mention("miso", 0.1, "q1"),
		mention("miso", 0.2, "q2"),
		mention("miso", 0.3, "q3"),
		mention("udon", 0.3, "q4"),
		mention("udon", 0.2, "q5"),
		mention("udon", 0.1, "q6"),
	}
	reversed := make([]common.Mention, len(forward))
	for i, m := range forward {
		reversed[len(forward)-1-i] = m
	}

	for _, input := range [][]common.Mention{forward, reversed} {
		items := Aggregate(input)
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		if items[0].AvgSentiment != items[1].AvgSentiment {
			t.Fatalf("expected identical means, got %v and %v",
				items[0].AvgSentiment, items[1].AvgSentiment)
		}
		if items[0].Name != "miso" || items[1].Name != "udon" {
			t.Fatalf("expected key-ascending tie break, got %q then %q",
				items[0].Name, items[1].Name)
		}
	}
}

func TestCanonicalKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercases", input: "PHO", want: "pho"},
		{name: "trims", input: "  pho ", want: "pho"},
		{name: "collapses internal runs", input: "soon\t dubu", want: "soon dubu"},
		{name: "empty", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalKey(tt.input); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
