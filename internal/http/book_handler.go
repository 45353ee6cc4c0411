package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookreview/internal/catalog"
	"bookreview/internal/httpx"
)

type BookHandler struct {
	svc *catalog.Service
}

func NewBookHandler(svc *catalog.Service) *BookHandler {
	return &BookHandler{svc: svc}
}

type bookRequest struct {
	Title         string  `json:"title" validate:"required,max=200"`
	AuthorID      string  `json:"author" validate:"required,uuid"`
	ISBN          string  `json:"isbn" validate:"required,isbn"`
	PublishedDate string  `json:"published_date" validate:"required,datetime=2006-01-02"`
	Category      string  `json:"category" validate:"omitempty,bookcategory"`
	Rating        float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

func (req bookRequest) toBook() (catalog.Book, error) {
	published, err := parseDate(req.PublishedDate)
	if err != nil {
		return catalog.Book{}, err
	}
	return catalog.Book{
		Title:         req.Title,
		AuthorID:      req.AuthorID,
		ISBN:          req.ISBN,
		PublishedDate: published,
		Category:      catalog.Category(req.Category),
		Rating:        req.Rating,
	}, nil
}

// @Summary List books
// @Description Filter by category/author, search title/isbn, order by title/published_date/rating
// @Tags books
// @Produce json
// @Param category query string false "Category equality filter"
// @Param author query string false "Author id filter"
// @Param search query string false "Substring match over title and isbn"
// @Param published_year query string false "this_year or last_year"
// @Param ordering query string false "title, published_date, rating; prefix with - for descending (default -published_date)"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /books [get]
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parsePageParams(r)
	sort, desc := parseOrdering(r, "published_date", true)
	limit, offset := p.limitOffset()

	books, total, err := h.svc.ListBooks(r.Context(), catalog.BookQuery{
		Category: catalog.Category(r.URL.Query().Get("category")),
		AuthorID: r.URL.Query().Get("author"),
		Search:   r.URL.Query().Get("search"),
		Year:     catalog.YearBucket(r.URL.Query().Get("published_year")),
		Sort:     sort,
		Desc:     desc,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Server error", nil)
		return
	}
	if books == nil {
		books = []catalog.BookSummary{}
	}
	httpx.JSONSuccess(w, r, books, pageMeta(p, total))
}

// Get returns the full representation: nested reviews, review_count and
// average_rating computed at read time.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.GetBookDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, detail, nil)
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid JSON body", nil)
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Validation failed", details)
		return
	}

	book, err := req.toBook()
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Validation failed",
			[]httpx.ErrorDetail{{Field: "published_date", Message: "must be a date in YYYY-MM-DD format"}})
		return
	}
	if err := h.svc.CreateBook(r.Context(), &book); err != nil {
		writeWriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, book)
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid JSON body", nil)
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Validation failed", details)
		return
	}

	book, err := req.toBook()
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Validation failed",
			[]httpx.ErrorDetail{{Field: "published_date", Message: "must be a date in YYYY-MM-DD format"}})
		return
	}
	book.ID = r.PathValue("id")
	if err := h.svc.UpdateBook(r.Context(), &book); err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			writeLookupError(w, r, err)
			return
		}
		writeWriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, book, nil)
}

// Delete removes the book and cascades to its reviews.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteBook(r.Context(), r.PathValue("id")); err != nil {
		writeLookupError(w, r, err)
		return
	}
	httpx.JSONNoContent(w)
}

// @Summary List reviews for a book
// @Tags books
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /books/{id}/reviews [get]
func (h *BookHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("id")
	if _, err := h.svc.GetBookDetail(r.Context(), bookID); err != nil {
		writeLookupError(w, r, err)
		return
	}

	p := parsePageParams(r)
	limit, offset := p.limitOffset()
	reviews, total, err := h.svc.ListReviews(r.Context(), catalog.ReviewQuery{
		BookID: bookID,
		Desc:   true,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Server error", nil)
		return
	}
	if reviews == nil {
		reviews = []catalog.Review{}
	}
	httpx.JSONSuccess(w, r, reviews, pageMeta(p, total))
}

type addReviewRequest struct {
	ReviewerName string `json:"reviewer_name" validate:"required,max=100"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Comment      string `json:"comment" validate:"required"`
}

// @Summary Add a review to a book
// @Description The book comes from the path; created_at is assigned by the system
// @Tags books
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /books/{id}/add_review [post]
func (h *BookHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	var req addReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid JSON body", nil)
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Validation failed", details)
		return
	}

	review := catalog.Review{
		ReviewerName: req.ReviewerName,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}
	if err := h.svc.AddReview(r.Context(), r.PathValue("id"), &review); err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			writeLookupError(w, r, err)
			return
		}
		writeWriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, review)
}

// @Summary Top rated books
// @Description Books with stored rating >= 4.0, best first
// @Tags books
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /books/top_rated [get]
func (h *BookHandler) TopRated(w http.ResponseWriter, r *http.Request) {
	p := parsePageParams(r)
	limit, offset := p.limitOffset()

	books, total, err := h.svc.TopRated(r.Context(), limit, offset)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Server error", nil)
		return
	}
	if books == nil {
		books = []catalog.BookSummary{}
	}
	httpx.JSONSuccess(w, r, books, pageMeta(p, total))
}

// @Summary Books grouped by category
// @Description Every category appears as a key, empty categories included
// @Tags books
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /books/by_category [get]
func (h *BookHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.svc.ByCategory(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, grouped, nil)
}
