package catalog

// YearBucket selects books by publication year relative to now.
type YearBucket string

const (
	YearBucketNone     YearBucket = ""
	YearBucketThisYear YearBucket = "this_year"
	YearBucketLastYear YearBucket = "last_year"
)

// AuthorQuery defines filters and pagination for listing authors.
type AuthorQuery struct {
	Search string // case-insensitive substring over name and bio
	Sort   string // name, birth_date
	Desc   bool
	Limit  int
	Offset int
}

// BookQuery defines filters and pagination for listing books.
type BookQuery struct {
	Category  Category
	AuthorID  string
	Search    string // case-insensitive substring over title and isbn
	Year      YearBucket
	MinRating *float64
	Sort      string // title, published_date, rating
	Desc      bool
	Limit     int
	Offset    int
}

// ReviewQuery defines filters and pagination for listing reviews.
type ReviewQuery struct {
	BookID string
	Rating int // 0 means any
	Sort   string // created_at, rating
	Desc   bool
	Limit  int
	Offset int
}
