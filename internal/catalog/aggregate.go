package catalog

import (
	"math"

	"github.com/samber/lo"
)

// AverageRating computes the mean review rating rounded to one decimal
// place. The empty set yields exactly 0.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := lo.SumBy(reviews, func(r Review) int { return r.Rating })
	avg := float64(sum) / float64(len(reviews))
	return math.Round(avg*10) / 10
}

// GroupByCategory partitions books into the fixed category set. Every
// category appears as a key even when its slice is empty, so the result
// always has exactly len(Categories()) entries.
func GroupByCategory(books []BookSummary) map[Category][]BookSummary {
	grouped := lo.GroupBy(books, func(b BookSummary) Category { return b.Category })
	out := make(map[Category][]BookSummary, len(Categories()))
	for _, c := range Categories() {
		if g, ok := grouped[c]; ok {
			out[c] = g
		} else {
			out[c] = []BookSummary{}
		}
	}
	return out
}

// Summarize projects a detail-loaded book onto its list representation.
func Summarize(b Book, reviewCount int) BookSummary {
	return BookSummary{
		ID:            b.ID,
		Title:         b.Title,
		AuthorID:      b.AuthorID,
		AuthorName:    b.AuthorName,
		ISBN:          b.ISBN,
		PublishedDate: b.PublishedDate,
		Category:      b.Category,
		Rating:        b.Rating,
		ReviewCount:   reviewCount,
	}
}
