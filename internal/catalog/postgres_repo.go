package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// mapPgError translates Postgres constraint violations into catalog
// sentinel errors so handlers never see driver-level codes.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505": // unique_violation
		if strings.Contains(pgErr.ConstraintName, "isbn") {
			return ErrDuplicateISBN
		}
	case "23503": // foreign_key_violation
		if strings.Contains(pgErr.ConstraintName, "author") {
			return ErrAuthorNotFound
		}
		if strings.Contains(pgErr.ConstraintName, "book") {
			return ErrBookNotFound
		}
	}
	return err
}

// ---- authors ----

func (r *PostgresRepo) ListAuthors(ctx context.Context, q AuthorQuery) ([]Author, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Search != "" {
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR bio ILIKE $%d)", argn, argn+1))
		pattern := "%" + q.Search + "%"
		args = append(args, pattern, pattern)
		argn += 2
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	sortCol := "a.name"
	if q.Sort == "birth_date" {
		sortCol = "a.birth_date"
	}
	order := "ASC"
	if q.Desc {
		order = "DESC"
	}

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM authors a %s", where)
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`
		SELECT a.id, a.name, a.bio, a.birth_date,
		       (SELECT COUNT(*) FROM books b WHERE b.author_id = a.id) AS book_count,
		       a.created_at, a.updated_at
		FROM authors a
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`,
		where, sortCol, order, argn, argn+1)

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, q.Limit, q.Offset)
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Author
	for rows.Next() {
		var a Author
		var bio *string
		if err := rows.Scan(&a.ID, &a.Name, &bio, &a.BirthDate, &a.BookCount, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		if bio != nil {
			a.Bio = *bio
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) GetAuthor(ctx context.Context, id string) (Author, error) {
	const query = `
		SELECT a.id, a.name, a.bio, a.birth_date,
		       (SELECT COUNT(*) FROM books b WHERE b.author_id = a.id) AS book_count,
		       a.created_at, a.updated_at
		FROM authors a
		WHERE a.id = $1`
	var a Author
	var bio *string
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&a.ID, &a.Name, &bio, &a.BirthDate, &a.BookCount, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Author{}, ErrAuthorNotFound
		}
		return Author{}, err
	}
	if bio != nil {
		a.Bio = *bio
	}
	return a, nil
}

func (r *PostgresRepo) CreateAuthor(ctx context.Context, a *Author) error {
	const sql = `
		INSERT INTO authors (name, bio, birth_date)
		VALUES ($1, NULLIF($2, ''), $3)
		RETURNING id, created_at, updated_at`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql, a.Name, a.Bio, a.BirthDate).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return mapPgError(err)
}

func (r *PostgresRepo) UpdateAuthor(ctx context.Context, a *Author) error {
	const sql = `
		UPDATE authors
		SET name = $2, bio = NULLIF($3, ''), birth_date = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql, a.ID, a.Name, a.Bio, a.BirthDate).Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAuthorNotFound
	}
	return mapPgError(err)
}

// DeleteAuthor removes an author and, explicitly and in one
// transaction, every book by that author and every review on those
// books. Nothing is left orphaned and nothing is soft-deleted.
func (r *PostgresRepo) DeleteAuthor(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	if _, err := tx.Exec(timeoutCtx,
		`DELETE FROM reviews WHERE book_id IN (SELECT id FROM books WHERE author_id = $1)`, id); err != nil {
		return fmt.Errorf("delete author reviews: %w", err)
	}
	if _, err := tx.Exec(timeoutCtx, `DELETE FROM books WHERE author_id = $1`, id); err != nil {
		return fmt.Errorf("delete author books: %w", err)
	}
	tag, err := tx.Exec(timeoutCtx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete author: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAuthorNotFound
	}
	return tx.Commit(timeoutCtx)
}

// ---- books ----

func (r *PostgresRepo) ListBooks(ctx context.Context, q BookQuery) ([]BookSummary, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Category != "" {
		clauses = append(clauses, fmt.Sprintf("b.category = $%d", argn))
		args = append(args, string(q.Category))
		argn++
	}

	if q.AuthorID != "" {
		clauses = append(clauses, fmt.Sprintf("b.author_id = $%d", argn))
		args = append(args, q.AuthorID)
		argn++
	}

	if q.Search != "" {
		clauses = append(clauses, fmt.Sprintf("(b.title ILIKE $%d OR b.isbn ILIKE $%d)", argn, argn+1))
		pattern := "%" + q.Search + "%"
		args = append(args, pattern, pattern)
		argn += 2
	}

	switch q.Year {
	case YearBucketThisYear:
		clauses = append(clauses, "EXTRACT(YEAR FROM b.published_date) = EXTRACT(YEAR FROM now())")
	case YearBucketLastYear:
		clauses = append(clauses, "EXTRACT(YEAR FROM b.published_date) = EXTRACT(YEAR FROM now()) - 1")
	}

	if q.MinRating != nil {
		clauses = append(clauses, fmt.Sprintf("b.rating >= $%d", argn))
		args = append(args, *q.MinRating)
		argn++
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	sortCol := "b.published_date"
	switch q.Sort {
	case "title":
		sortCol = "b.title"
	case "rating":
		sortCol = "b.rating"
	case "published_date", "":
		sortCol = "b.published_date"
	}
	order := "ASC"
	if q.Desc {
		order = "DESC"
	}

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM books b %s", where)
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`
		SELECT b.id, b.title, b.author_id, a.name, b.isbn, b.published_date, b.category, b.rating,
		       (SELECT COUNT(*) FROM reviews rv WHERE rv.book_id = b.id) AS review_count
		FROM books b
		JOIN authors a ON a.id = b.author_id
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`,
		where, sortCol, order, argn, argn+1)

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, q.Limit, q.Offset)
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []BookSummary
	for rows.Next() {
		var b BookSummary
		if err := rows.Scan(
			&b.ID, &b.Title, &b.AuthorID, &b.AuthorName, &b.ISBN,
			&b.PublishedDate, &b.Category, &b.Rating, &b.ReviewCount,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) GetBook(ctx context.Context, id string) (Book, error) {
	const query = `
		SELECT b.id, b.title, b.author_id, a.name, b.isbn, b.published_date,
		       b.category, b.rating, b.created_at, b.updated_at
		FROM books b
		JOIN authors a ON a.id = b.author_id
		WHERE b.id = $1`
	var b Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&b.ID, &b.Title, &b.AuthorID, &b.AuthorName, &b.ISBN,
		&b.PublishedDate, &b.Category, &b.Rating, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrBookNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) CreateBook(ctx context.Context, b *Book) error {
	const sql = `
		INSERT INTO books (title, author_id, isbn, published_date, category, rating)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql,
		b.Title, b.AuthorID, b.ISBN, b.PublishedDate, string(b.Category), b.Rating,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return mapPgError(err)
}

func (r *PostgresRepo) UpdateBook(ctx context.Context, b *Book) error {
	const sql = `
		UPDATE books
		SET title = $2, author_id = $3, isbn = $4, published_date = $5,
		    category = $6, rating = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql,
		b.ID, b.Title, b.AuthorID, b.ISBN, b.PublishedDate, string(b.Category), b.Rating,
	).Scan(&b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrBookNotFound
	}
	return mapPgError(err)
}

// DeleteBook removes a book and its reviews in one transaction.
func (r *PostgresRepo) DeleteBook(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	if _, err := tx.Exec(timeoutCtx, `DELETE FROM reviews WHERE book_id = $1`, id); err != nil {
		return fmt.Errorf("delete book reviews: %w", err)
	}
	tag, err := tx.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBookNotFound
	}
	return tx.Commit(timeoutCtx)
}

// MarkTopRated sets rating to exactly 5.0 for every selected book in
// one statement and reports how many rows changed.
func (r *PostgresRepo) MarkTopRated(ctx context.Context, ids []string) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx,
		`UPDATE books SET rating = 5.0, updated_at = now() WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// ---- reviews ----

func (r *PostgresRepo) ListReviews(ctx context.Context, q ReviewQuery) ([]Review, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.BookID != "" {
		clauses = append(clauses, fmt.Sprintf("book_id = $%d", argn))
		args = append(args, q.BookID)
		argn++
	}

	if q.Rating != 0 {
		clauses = append(clauses, fmt.Sprintf("rating = $%d", argn))
		args = append(args, q.Rating)
		argn++
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	sortCol := "created_at"
	if q.Sort == "rating" {
		sortCol = "rating"
	}
	order := "ASC"
	if q.Desc {
		order = "DESC"
	}

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM reviews %s", where)
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`
		SELECT id, book_id, reviewer_name, rating, comment, created_at
		FROM reviews
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`,
		where, sortCol, order, argn, argn+1)

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, q.Limit, q.Offset)
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.BookID, &rv.ReviewerName, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, rv)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) GetReview(ctx context.Context, id string) (Review, error) {
	const query = `
		SELECT id, book_id, reviewer_name, rating, comment, created_at
		FROM reviews
		WHERE id = $1`
	var rv Review
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&rv.ID, &rv.BookID, &rv.ReviewerName, &rv.Rating, &rv.Comment, &rv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, ErrReviewNotFound
		}
		return Review{}, err
	}
	return rv, nil
}

func (r *PostgresRepo) CreateReview(ctx context.Context, rv *Review) error {
	const sql = `
		INSERT INTO reviews (book_id, reviewer_name, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql, rv.BookID, rv.ReviewerName, rv.Rating, rv.Comment).
		Scan(&rv.ID, &rv.CreatedAt)
	return mapPgError(err)
}

// UpdateReview never touches created_at; it is assigned on insert and
// immutable from then on.
func (r *PostgresRepo) UpdateReview(ctx context.Context, rv *Review) error {
	const sql = `
		UPDATE reviews
		SET reviewer_name = $2, rating = $3, comment = $4
		WHERE id = $1
		RETURNING created_at`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql, rv.ID, rv.ReviewerName, rv.Rating, rv.Comment).
		Scan(&rv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrReviewNotFound
	}
	return mapPgError(err)
}

func (r *PostgresRepo) DeleteReview(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrReviewNotFound
	}
	return nil
}
