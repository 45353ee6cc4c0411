package catalog

import (
	"errors"
	"time"
)

var (
	// ErrAuthorNotFound is returned when an author lookup or referent fails.
	ErrAuthorNotFound = errors.New("author not found")
	// ErrBookNotFound is returned when a book lookup or referent fails.
	ErrBookNotFound = errors.New("book not found")
	// ErrReviewNotFound is returned when a review lookup fails.
	ErrReviewNotFound = errors.New("review not found")
	// ErrDuplicateISBN is returned when a book write collides with an existing ISBN.
	ErrDuplicateISBN = errors.New("duplicate isbn")
)

// Category is the fixed book category enumeration.
type Category string

const (
	CategoryFiction    Category = "Fiction"
	CategoryNonFiction Category = "Non-fiction"
	CategorySciFi      Category = "Sci-fi"
	CategoryFantasy    Category = "Fantasy"
	CategoryOther      Category = "Other"
)

// Categories returns every category in display order. GroupByCategory
// and the web/admin surfaces rely on this being the complete set.
func Categories() []Category {
	return []Category{
		CategoryFiction,
		CategoryNonFiction,
		CategorySciFi,
		CategoryFantasy,
		CategoryOther,
	}
}

// ValidCategory reports whether c is one of the fixed categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryFiction, CategoryNonFiction, CategorySciFi, CategoryFantasy, CategoryOther:
		return true
	}
	return false
}

// RatingLabels maps review ratings to their display labels.
var RatingLabels = map[int]string{
	1: "Poor",
	2: "Fair",
	3: "Good",
	4: "Very Good",
	5: "Excellent",
}

// Author represents a book author.
type Author struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Bio       string     `json:"bio,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	BookCount int        `json:"book_count"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Book represents a stored book row. Rating is the stored, manually
// editable value; the derived review average lives on BookDetail only.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	AuthorID      string    `json:"author"`
	AuthorName    string    `json:"author_name"`
	ISBN          string    `json:"isbn"`
	PublishedDate time.Time `json:"published_date"`
	Category      Category  `json:"category"`
	Rating        float64   `json:"rating"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BookSummary is the lightweight list representation: review count
// only, no nested reviews.
type BookSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	AuthorID      string    `json:"author"`
	AuthorName    string    `json:"author_name"`
	ISBN          string    `json:"isbn"`
	PublishedDate time.Time `json:"published_date"`
	Category      Category  `json:"category"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"review_count"`
}

// BookDetail is the full single-item representation with nested
// reviews and derived fields computed at read time.
type BookDetail struct {
	Book
	Reviews       []Review `json:"reviews"`
	ReviewCount   int      `json:"review_count"`
	AverageRating float64  `json:"average_rating"`
}

// Review represents a reader review. CreatedAt is assigned once by the
// database and never updated afterward.
type Review struct {
	ID           string    `json:"id"`
	BookID       string    `json:"book"`
	ReviewerName string    `json:"reviewer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}
