package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bookreview/internal/catalog"
	"bookreview/internal/httpx"
)

type ReviewHandler struct {
	svc *catalog.Service
}

func NewReviewHandler(svc *catalog.Service) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

type reviewRequest struct {
	BookID       string `json:"book" validate:"required,uuid"`
	ReviewerName string `json:"reviewer_name" validate:"required,max=100"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Comment      string `json:"comment" validate:"required"`
}

// @Summary List reviews
// @Description Filter by book/rating, order by created_at/rating (default -created_at)
// @Tags reviews
// @Produce json
// @Param book query string false "Book id filter"
// @Param rating query int false "Exact rating filter"
// @Param ordering query string false "created_at, rating; prefix with - for descending"
// @Success 200 {object} map[string]interface{}
// @Router /reviews [get]
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parsePageParams(r)
	sort, desc := parseOrdering(r, "created_at", true)
	limit, offset := p.limitOffset()

	rating, _ := strconv.Atoi(r.URL.Query().Get("rating"))

	reviews, total, err := h.svc.ListReviews(r.Context(), catalog.ReviewQuery{
		BookID: r.URL.Query().Get("book"),
		Rating: rating,
		Sort:   sort,
		Desc:   desc,
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

func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	review, err := h.svc.GetReview(r.Context(), r.PathValue("id"))
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, review, nil)
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
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
	if err := h.svc.AddReview(r.Context(), req.BookID, &review); err != nil {
		writeWriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, review)
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid JSON body", nil)
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Validation failed", details)
		return
	}

	review := catalog.Review{
		ID:           r.PathValue("id"),
		BookID:       req.BookID,
		ReviewerName: req.ReviewerName,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}
	if err := h.svc.UpdateReview(r.Context(), &review); err != nil {
		if errors.Is(err, catalog.ErrReviewNotFound) {
			writeLookupError(w, r, err)
			return
		}
		writeWriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, review, nil)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteReview(r.Context(), r.PathValue("id")); err != nil {
		writeLookupError(w, r, err)
		return
	}
	httpx.JSONNoContent(w)
}

// @Summary Recent reviews
// @Description The 10 most recent reviews, newest first
// @Tags reviews
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /reviews/recent [get]
func (h *ReviewHandler) Recent(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.svc.RecentReviews(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Server error", nil)
		return
	}
	if reviews == nil {
		reviews = []catalog.Review{}
	}
	httpx.JSONSuccess(w, r, reviews, nil)
}
