package web

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"bookreview/internal/catalog"
)

const listPageSize = 50

type Handler struct {
	svc *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

type basePage struct {
	Title    string
	Flash    string
	FlashErr bool
}

type listPage struct {
	basePage
	Books      []catalog.BookSummary
	Categories []catalog.Category
	Category   string
	Search     string
}

type detailPage struct {
	basePage
	Book         catalog.BookDetail
	RatingLabels map[int]string
}

type bookForm struct {
	Title         string
	AuthorID      string
	ISBN          string
	PublishedDate string
	Category      string
}

type formPage struct {
	basePage
	Form       bookForm
	Authors    []catalog.Author
	Categories []catalog.Category
}

// BookList renders the browsable catalog with category filter and
// title/ISBN search.
func (h *Handler) BookList(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	search := r.URL.Query().Get("search")

	books, _, err := h.svc.ListBooks(r.Context(), catalog.BookQuery{
		Category: catalog.Category(category),
		Search:   search,
		Sort:     "published_date",
		Desc:     true,
		Limit:    listPageSize,
	})
	if err != nil {
		h.renderError(w, err)
		return
	}

	h.render(w, "book_list", listPage{
		basePage:   basePage{Title: "Books", Flash: flashFromQuery(r)},
		Books:      books,
		Categories: catalog.Categories(),
		Category:   category,
		Search:     search,
	})
}

// BookDetail renders a single book with its reviews and the review form.
func (h *Handler) BookDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.GetBookDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			http.NotFound(w, r)
			return
		}
		h.renderError(w, err)
		return
	}

	page := detailPage{
		basePage:     basePage{Title: detail.Title, Flash: flashFromQuery(r)},
		Book:         detail,
		RatingLabels: catalog.RatingLabels,
	}
	if r.URL.Query().Get("err") != "" {
		page.Flash = r.URL.Query().Get("err")
		page.FlashErr = true
	}
	h.render(w, "book_detail", page)
}

// SubmitReview handles the review form post and redirects back to the
// detail page with a status message.
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/web/books/"+bookID+"?err=Invalid+form+submission", http.StatusSeeOther)
		return
	}

	rating, err := strconv.Atoi(r.PostFormValue("rating"))
	review := catalog.Review{
		ReviewerName: r.PostFormValue("reviewer_name"),
		Rating:       rating,
		Comment:      r.PostFormValue("comment"),
	}
	if err != nil || review.ReviewerName == "" || review.Comment == "" || rating < 1 || rating > 5 {
		http.Redirect(w, r, "/web/books/"+bookID+"?err=All+review+fields+are+required", http.StatusSeeOther)
		return
	}

	if err := h.svc.AddReview(r.Context(), bookID, &review); err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			http.NotFound(w, r)
			return
		}
		h.renderError(w, err)
		return
	}
	http.Redirect(w, r, "/web/books/"+bookID+"?flash=Thanks+for+your+review", http.StatusSeeOther)
}

// NewBookForm renders the create-book form with the author dropdown.
func (h *Handler) NewBookForm(w http.ResponseWriter, r *http.Request) {
	h.renderBookForm(w, r, bookForm{}, "")
}

// CreateBook handles the create form post. On success it redirects to
// the book list; on validation failure it re-renders the form with the
// submitted values and a message.
func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderBookForm(w, r, bookForm{}, "Invalid form submission")
		return
	}

	form := bookForm{
		Title:         r.PostFormValue("title"),
		AuthorID:      r.PostFormValue("author"),
		ISBN:          r.PostFormValue("isbn"),
		PublishedDate: r.PostFormValue("published_date"),
		Category:      r.PostFormValue("category"),
	}
	if form.Title == "" || form.AuthorID == "" || form.ISBN == "" || form.PublishedDate == "" {
		h.renderBookForm(w, r, form, "Title, author, ISBN and published date are required")
		return
	}
	published, err := time.Parse("2006-01-02", form.PublishedDate)
	if err != nil {
		h.renderBookForm(w, r, form, "Published date must be YYYY-MM-DD")
		return
	}

	book := catalog.Book{
		Title:         form.Title,
		AuthorID:      form.AuthorID,
		ISBN:          form.ISBN,
		PublishedDate: published,
		Category:      catalog.Category(form.Category),
	}
	if err := h.svc.CreateBook(r.Context(), &book); err != nil {
		switch {
		case errors.Is(err, catalog.ErrDuplicateISBN):
			h.renderBookForm(w, r, form, "A book with this ISBN already exists")
		case errors.Is(err, catalog.ErrAuthorNotFound):
			h.renderBookForm(w, r, form, "Unknown author")
		default:
			h.renderError(w, err)
		}
		return
	}
	http.Redirect(w, r, "/web/books?flash=Book+created", http.StatusSeeOther)
}

func (h *Handler) renderBookForm(w http.ResponseWriter, r *http.Request, form bookForm, flash string) {
	authors, _, err := h.svc.ListAuthors(r.Context(), catalog.AuthorQuery{Sort: "name", Limit: 1000})
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.render(w, "book_form", formPage{
		basePage:   basePage{Title: "Add a book", Flash: flash, FlashErr: flash != ""},
		Form:       form,
		Authors:    authors,
		Categories: catalog.Categories(),
	})
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("level=error msg=\"template render failed\" template=%s error=%q", name, err)
	}
}

func (h *Handler) renderError(w http.ResponseWriter, err error) {
	log.Printf("level=error msg=\"web handler failed\" error=%q", err)
	http.Error(w, "Something went wrong", http.StatusInternalServerError)
}

func flashFromQuery(r *http.Request) string {
	return r.URL.Query().Get("flash")
}
