package catalog

import (
	"context"
)

// topRatedThreshold is applied to the stored book rating, not the
// derived review average.
const topRatedThreshold = 4.0

// recentReviewsLimit is the size of the recent-reviews view.
const recentReviewsLimit = 10

// byCategoryLimit bounds the per-category grouping read.
const byCategoryLimit = 1000

// bookReviewsLimit bounds the nested reviews loaded for a detail view.
const bookReviewsLimit = 1000

// Service exposes catalog reads and writes over a Repository. Derived
// views recompute from committed state on every call.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ---- authors ----

func (s *Service) ListAuthors(ctx context.Context, q AuthorQuery) ([]Author, int, error) {
	return s.repo.ListAuthors(ctx, q)
}

func (s *Service) GetAuthor(ctx context.Context, id string) (Author, error) {
	return s.repo.GetAuthor(ctx, id)
}

func (s *Service) CreateAuthor(ctx context.Context, a *Author) error {
	return s.repo.CreateAuthor(ctx, a)
}

func (s *Service) UpdateAuthor(ctx context.Context, a *Author) error {
	return s.repo.UpdateAuthor(ctx, a)
}

func (s *Service) DeleteAuthor(ctx context.Context, id string) error {
	return s.repo.DeleteAuthor(ctx, id)
}

// BooksByAuthor lists an author's books in the summary representation.
// The author must exist; a dangling id surfaces ErrAuthorNotFound
// rather than an empty list.
func (s *Service) BooksByAuthor(ctx context.Context, authorID string, limit, offset int) ([]BookSummary, int, error) {
	if _, err := s.repo.GetAuthor(ctx, authorID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListBooks(ctx, BookQuery{
		AuthorID: authorID,
		Desc:     true,
		Limit:    limit,
		Offset:   offset,
	})
}

// ---- books ----

func (s *Service) ListBooks(ctx context.Context, q BookQuery) ([]BookSummary, int, error) {
	return s.repo.ListBooks(ctx, q)
}

// GetBookDetail loads a book with its nested reviews and computes
// review_count and average_rating at call time.
func (s *Service) GetBookDetail(ctx context.Context, id string) (BookDetail, error) {
	b, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return BookDetail{}, err
	}
	reviews, _, err := s.repo.ListReviews(ctx, ReviewQuery{
		BookID: id,
		Desc:   true,
		Limit:  bookReviewsLimit,
	})
	if err != nil {
		return BookDetail{}, err
	}
	if reviews == nil {
		reviews = []Review{}
	}
	return BookDetail{
		Book:          b,
		Reviews:       reviews,
		ReviewCount:   len(reviews),
		AverageRating: AverageRating(reviews),
	}, nil
}

func (s *Service) CreateBook(ctx context.Context, b *Book) error {
	if b.Category == "" {
		b.Category = CategoryOther
	}
	if err := s.repo.CreateBook(ctx, b); err != nil {
		return err
	}
	// RETURNING does not carry the joined author name.
	a, err := s.repo.GetAuthor(ctx, b.AuthorID)
	if err == nil {
		b.AuthorName = a.Name
	}
	return nil
}

func (s *Service) UpdateBook(ctx context.Context, b *Book) error {
	if b.Category == "" {
		b.Category = CategoryOther
	}
	if err := s.repo.UpdateBook(ctx, b); err != nil {
		return err
	}
	a, err := s.repo.GetAuthor(ctx, b.AuthorID)
	if err == nil {
		b.AuthorName = a.Name
	}
	return nil
}

func (s *Service) DeleteBook(ctx context.Context, id string) error {
	return s.repo.DeleteBook(ctx, id)
}

// TopRated returns books whose stored rating is at least 4.0, best
// first. A book at exactly 4.0 is included.
func (s *Service) TopRated(ctx context.Context, limit, offset int) ([]BookSummary, int, error) {
	threshold := topRatedThreshold
	return s.repo.ListBooks(ctx, BookQuery{
		MinRating: &threshold,
		Sort:      "rating",
		Desc:      true,
		Limit:     limit,
		Offset:    offset,
	})
}

// ByCategory groups books under every fixed category. Categories with
// no books map to an empty list, never a missing key.
func (s *Service) ByCategory(ctx context.Context) (map[Category][]BookSummary, error) {
	books, _, err := s.repo.ListBooks(ctx, BookQuery{
		Desc:  true,
		Limit: byCategoryLimit,
	})
	if err != nil {
		return nil, err
	}
	return GroupByCategory(books), nil
}

func (s *Service) MarkTopRated(ctx context.Context, ids []string) (int, error) {
	return s.repo.MarkTopRated(ctx, ids)
}

// ---- reviews ----

func (s *Service) ListReviews(ctx context.Context, q ReviewQuery) ([]Review, int, error) {
	return s.repo.ListReviews(ctx, q)
}

func (s *Service) GetReview(ctx context.Context, id string) (Review, error) {
	return s.repo.GetReview(ctx, id)
}

// AddReview attaches a review to a book. The book id comes from the
// calling context (URL path), never from the submitted body, and the
// creation timestamp is assigned by the store.
func (s *Service) AddReview(ctx context.Context, bookID string, rv *Review) error {
	if _, err := s.repo.GetBook(ctx, bookID); err != nil {
		return err
	}
	rv.BookID = bookID
	return s.repo.CreateReview(ctx, rv)
}

func (s *Service) CreateReview(ctx context.Context, rv *Review) error {
	return s.repo.CreateReview(ctx, rv)
}

func (s *Service) UpdateReview(ctx context.Context, rv *Review) error {
	return s.repo.UpdateReview(ctx, rv)
}

func (s *Service) DeleteReview(ctx context.Context, id string) error {
	return s.repo.DeleteReview(ctx, id)
}

// RecentReviews returns the newest reviews, truncated to
// recentReviewsLimit.
func (s *Service) RecentReviews(ctx context.Context) ([]Review, error) {
	reviews, _, err := s.repo.ListReviews(ctx, ReviewQuery{
		Desc:  true,
		Limit: recentReviewsLimit,
	})
	return reviews, err
}
