package catalog

import "context"

// Repository is the persistence port for the catalog. Every read
// reflects committed state at call time; derived values are never
// stored.
type Repository interface {
	ListAuthors(ctx context.Context, q AuthorQuery) ([]Author, int, error)
	GetAuthor(ctx context.Context, id string) (Author, error)
	CreateAuthor(ctx context.Context, a *Author) error
	UpdateAuthor(ctx context.Context, a *Author) error
	DeleteAuthor(ctx context.Context, id string) error

	ListBooks(ctx context.Context, q BookQuery) ([]BookSummary, int, error)
	GetBook(ctx context.Context, id string) (Book, error)
	CreateBook(ctx context.Context, b *Book) error
	UpdateBook(ctx context.Context, b *Book) error
	DeleteBook(ctx context.Context, id string) error
	MarkTopRated(ctx context.Context, ids []string) (int, error)

	ListReviews(ctx context.Context, q ReviewQuery) ([]Review, int, error)
	GetReview(ctx context.Context, id string) (Review, error)
	CreateReview(ctx context.Context, r *Review) error
	UpdateReview(ctx context.Context, r *Review) error
	DeleteReview(ctx context.Context, id string) error
}
