package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookreview/internal/catalog"
	"bookreview/internal/httpx"
)

type AuthorHandler struct {
	svc *catalog.Service
}

func NewAuthorHandler(svc *catalog.Service) *AuthorHandler {
	return &AuthorHandler{svc: svc}
}

type authorRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Bio       string `json:"bio"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
}

func (req authorRequest) toAuthor() catalog.Author {
	a := catalog.Author{
		Name: req.Name,
		Bio:  req.Bio,
	}
	if req.BirthDate != "" {
		if d, err := parseDate(req.BirthDate); err == nil {
			a.BirthDate = &d
		}
	}
	return a
}

// @Summary List authors
// @Description Search authors by name or bio, order by name or birth_date
// @Tags authors
// @Produce json
// @Param search query string false "Substring match over name and bio"
// @Param ordering query string false "name, -name, birth_date, -birth_date"
// @Success 200 {object} map[string]interface{}
// @Router /authors [get]
func (h *AuthorHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parsePageParams(r)
	sort, desc := parseOrdering(r, "name", false)
	limit, offset := p.limitOffset()

	authors, total, err := h.svc.ListAuthors(r.Context(), catalog.AuthorQuery{
		Search: r.URL.Query().Get("search"),
		Sort:   sort,
		Desc:   desc,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Server error", nil)
		return
	}
	if authors == nil {
		authors = []catalog.Author{}
	}
	httpx.JSONSuccess(w, r, authors, pageMeta(p, total))
}

func (h *AuthorHandler) Get(w http.ResponseWriter, r *http.Request) {
	author, err := h.svc.GetAuthor(r.Context(), r.PathValue("id"))
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, author, nil)
}

func (h *AuthorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req authorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid JSON body", nil)
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Validation failed", details)
		return
	}

	author := req.toAuthor()
	if err := h.svc.CreateAuthor(r.Context(), &author); err != nil {
		writeWriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, author)
}

func (h *AuthorHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req authorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid JSON body", nil)
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Validation failed", details)
		return
	}

	author := req.toAuthor()
	author.ID = r.PathValue("id")
	if err := h.svc.UpdateAuthor(r.Context(), &author); err != nil {
		if errors.Is(err, catalog.ErrAuthorNotFound) {
			writeLookupError(w, r, err)
			return
		}
		writeWriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, author, nil)
}

// Delete removes the author and cascades to its books and their
// reviews.
func (h *AuthorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAuthor(r.Context(), r.PathValue("id")); err != nil {
		writeLookupError(w, r, err)
		return
	}
	httpx.JSONNoContent(w)
}

// @Summary List an author's books
// @Tags authors
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /authors/{id}/books [get]
func (h *AuthorHandler) Books(w http.ResponseWriter, r *http.Request) {
	p := parsePageParams(r)
	limit, offset := p.limitOffset()

	books, total, err := h.svc.BooksByAuthor(r.Context(), r.PathValue("id"), limit, offset)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	if books == nil {
		books = []catalog.BookSummary{}
	}
	httpx.JSONSuccess(w, r, books, pageMeta(p, total))
}
