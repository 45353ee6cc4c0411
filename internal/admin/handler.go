package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"bookreview/internal/auth"
	"bookreview/internal/catalog"
	"bookreview/internal/httpx"

	"github.com/jackc/pgx/v5"
)

// Site branding surfaced on the admin index.
const (
	siteHeader = "Book Review Management Admin"
	siteTitle  = "Book Review Portal"
	indexTitle = "Manage Books, Authors, and Reviews"
)

const tokenTTL = 12 * time.Hour

// rowQuerier is the slice of pgxpool.Pool the change lists need.
type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Handler struct {
	db           rowQuerier
	svc          *catalog.Service
	registry     *Registry
	jwtSecret    string
	passwordHash string
}

func NewHandler(db rowQuerier, svc *catalog.Service, registry *Registry, jwtSecret, passwordHash string) *Handler {
	return &Handler{
		db:           db,
		svc:          svc,
		registry:     registry,
		jwtSecret:    jwtSecret,
		passwordHash: passwordHash,
	}
}

// Index lists the registered entities and site branding.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, map[string]interface{}{
		"site_header": siteHeader,
		"site_title":  siteTitle,
		"index_title": indexTitle,
		"entities":    h.registry.Names(),
	}, nil)
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login verifies the operator password and issues a bearer token for
// the rest of the admin surface.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Password is required", nil)
		return
	}
	if !auth.VerifyPassword(h.passwordHash, req.Password) {
		httpx.JSONError(w, r, http.StatusUnauthorized, httpx.CodeUnauthorized, "Invalid credentials", nil)
		return
	}

	token, err := auth.GenerateToken(h.jwtSecret, "admin", tokenTTL)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, map[string]string{"token": token}, nil)
}

// List renders the change list for any registered entity, honoring its
// configured search columns, filters, orderings, and the
// published_year buckets.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.registry.Lookup(r.PathValue("entity"))
	if !ok {
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Unknown entity", nil)
		return
	}

	params := r.URL.Query()
	page, pageSize := parsePage(params.Get("page"), params.Get("page_size"))

	countSQL, countArgs, err := BuildCountQuery(cfg, params)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, err.Error(), nil)
		return
	}
	var total int
	if err := h.db.QueryRow(r.Context(), countSQL, countArgs...).Scan(&total); err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Server error", nil)
		return
	}

	listSQL, listArgs, err := BuildListQuery(cfg, params, pageSize, (page-1)*pageSize)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, err.Error(), nil)
		return
	}
	rows, err := h.db.Query(r.Context(), listSQL, listArgs...)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Server error", nil)
		return
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := []map[string]interface{}{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Server error", nil)
			return
		}
		row := make(map[string]interface{}, len(fields))
		for i, f := range fields {
			row[f.Name] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, out, map[string]interface{}{
		"page":      page,
		"page_size": pageSize,
		"total":     total,
	})
}

type reviewEditRequest struct {
	ReviewerName string `json:"reviewer_name"`
	Comment      string `json:"comment"`
	Rating       *int   `json:"rating"`
}

// UpdateReview edits reviewer_name and comment. The rating is
// immutable once a review exists: submitting a different value is
// rejected rather than silently ignored.
func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	existing, err := h.svc.GetReview(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrReviewNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Server error", nil)
		return
	}

	var req reviewEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid JSON body", nil)
		return
	}
	if req.ReviewerName == "" || req.Comment == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Validation failed",
			[]httpx.ErrorDetail{
				{Field: "reviewer_name", Message: "is required"},
				{Field: "comment", Message: "is required"},
			})
		return
	}
	if req.Rating != nil && *req.Rating != existing.Rating {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation,
			"Rating is immutable once a review is created", []httpx.ErrorDetail{
				{Field: "rating", Message: "cannot be changed after creation"},
			})
		return
	}

	existing.ReviewerName = req.ReviewerName
	existing.Comment = req.Comment
	if err := h.svc.UpdateReview(r.Context(), &existing); err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, existing, nil)
}

type makeTopRatedRequest struct {
	IDs []string `json:"ids"`
}

// MakeTopRated applies the bulk action: every selected book gets
// rating 5.0 in one statement, and the response reports the count.
func (h *Handler) MakeTopRated(w http.ResponseWriter, r *http.Request) {
	var req makeTopRatedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "ids must be a non-empty list", nil)
		return
	}

	updated, err := h.svc.MarkTopRated(r.Context(), req.IDs)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, map[string]interface{}{
		"updated": updated,
		"message": "book(s) marked as Top Rated (5.0 stars)",
	}, nil)
}

func parsePage(pageStr, sizeStr string) (int, int) {
	page, size := 1, 50
	if n, err := strconv.Atoi(pageStr); err == nil && n > 0 {
		page = n
	}
	if n, err := strconv.Atoi(sizeStr); err == nil && n > 0 && n <= 200 {
		size = n
	}
	return page, size
}
