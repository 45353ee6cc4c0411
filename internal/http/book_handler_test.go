package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bookreview/internal/catalog"
	"bookreview/internal/catalog/mocks"
	apphttp "bookreview/internal/http"
	"bookreview/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookHandler(t *testing.T) (*apphttp.BookHandler, *mocks.MockRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockRepository(ctrl)
	return apphttp.NewBookHandler(catalog.NewService(repo)), repo
}

func TestBookList(t *testing.T) {
	h, repo := newBookHandler(t)

	summary := catalog.Summarize(testutil.TestBook, 3)
	repo.EXPECT().ListBooks(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, q catalog.BookQuery) ([]catalog.BookSummary, int, error) {
			assert.Equal(t, catalog.CategorySciFi, q.Category)
			assert.Equal(t, "published_date", q.Sort)
			assert.True(t, q.Desc)
			assert.Equal(t, 20, q.Limit)
			return []catalog.BookSummary{summary}, 1, nil
		})

	req := testutil.NewRequest(http.MethodGet, "/books?category=Sci-fi", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	resp := testutil.RecordHTTPResponse(rec)
	testutil.AssertResponseCode(t, resp.Code, http.StatusOK)
	testutil.AssertResponseBody(t, resp.Body, "success", true)

	data := resp.Body["data"].([]interface{})
	require.Len(t, data, 1)
	item := data[0].(map[string]interface{})
	assert.Equal(t, "The Dispossessed", item["title"])
	assert.Equal(t, float64(3), item["review_count"])
	// list items carry no nested reviews
	_, hasReviews := item["reviews"]
	assert.False(t, hasReviews)

	meta := resp.Body["meta"].(map[string]interface{})
	assert.Equal(t, float64(1), meta["total"])
}

func TestBookGet_Detail(t *testing.T) {
	h, repo := newBookHandler(t)

	repo.EXPECT().GetBook(gomock.Any(), testutil.TestBook.ID).Return(testutil.TestBook, nil)
	repo.EXPECT().ListReviews(gomock.Any(), gomock.Any()).Return([]catalog.Review{
		{ID: "r1", BookID: testutil.TestBook.ID, ReviewerName: "A", Rating: 4, Comment: "good"},
		{ID: "r2", BookID: testutil.TestBook.ID, ReviewerName: "B", Rating: 5, Comment: "great"},
	}, 2, nil)

	req := testutil.NewRequest(http.MethodGet, "/books/"+testutil.TestBook.ID, nil)
	req.SetPathValue("id", testutil.TestBook.ID)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	resp := testutil.RecordHTTPResponse(rec)
	testutil.AssertResponseCode(t, resp.Code, http.StatusOK)

	data := resp.Body["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["review_count"])
	assert.Equal(t, 4.5, data["average_rating"])
	assert.Len(t, data["reviews"], 2)
}

func TestBookGet_NotFound(t *testing.T) {
	h, repo := newBookHandler(t)
	repo.EXPECT().GetBook(gomock.Any(), "missing").Return(catalog.Book{}, catalog.ErrBookNotFound)

	req := testutil.NewRequest(http.MethodGet, "/books/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	resp := testutil.RecordHTTPResponse(rec)
	testutil.AssertResponseCode(t, resp.Code, http.StatusNotFound)
	testutil.AssertResponseBody(t, resp.Body, "success", false)
}

func TestBookCreate(t *testing.T) {
	validBody := map[string]interface{}{
		"title":          "Always Coming Home",
		"author":         testutil.TestAuthor.ID,
		"isbn":           "9780060157456",
		"published_date": "1985-10-01",
	}

	t.Run("defaults category to Other", func(t *testing.T) {
		h, repo := newBookHandler(t)
		repo.EXPECT().CreateBook(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, b *catalog.Book) error {
				assert.Equal(t, catalog.CategoryOther, b.Category)
				b.ID = "new-id"
				return nil
			})
		repo.EXPECT().GetAuthor(gomock.Any(), testutil.TestAuthor.ID).Return(testutil.TestAuthor, nil)

		req := testutil.NewRequest(http.MethodPost, "/books", validBody)
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		resp := testutil.RecordHTTPResponse(rec)
		testutil.AssertResponseCode(t, resp.Code, http.StatusCreated)
		data := resp.Body["data"].(map[string]interface{})
		assert.Equal(t, "Ursula K. Le Guin", data["author_name"])
	})

	t.Run("duplicate isbn conflicts", func(t *testing.T) {
		h, repo := newBookHandler(t)
		repo.EXPECT().CreateBook(gomock.Any(), gomock.Any()).Return(catalog.ErrDuplicateISBN)

		req := testutil.NewRequest(http.MethodPost, "/books", validBody)
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		resp := testutil.RecordHTTPResponse(rec)
		testutil.AssertResponseCode(t, resp.Code, http.StatusConflict)
	})

	t.Run("unknown author is a client error", func(t *testing.T) {
		h, repo := newBookHandler(t)
		repo.EXPECT().CreateBook(gomock.Any(), gomock.Any()).Return(catalog.ErrAuthorNotFound)

		req := testutil.NewRequest(http.MethodPost, "/books", validBody)
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		resp := testutil.RecordHTTPResponse(rec)
		testutil.AssertResponseCode(t, resp.Code, http.StatusBadRequest)
		errObj := resp.Body["error"].(map[string]interface{})
		assert.Equal(t, "referent_not_found", errObj["code"])
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name string
			body map[string]interface{}
		}{
			{"missing title", map[string]interface{}{
				"author": testutil.TestAuthor.ID, "isbn": "9780060157456", "published_date": "1985-10-01"}},
			{"bad isbn", map[string]interface{}{
				"title": "T", "author": testutil.TestAuthor.ID, "isbn": "nope", "published_date": "1985-10-01"}},
			{"bad category", map[string]interface{}{
				"title": "T", "author": testutil.TestAuthor.ID, "isbn": "9780060157456",
				"published_date": "1985-10-01", "category": "Horror"}},
			{"bad date", map[string]interface{}{
				"title": "T", "author": testutil.TestAuthor.ID, "isbn": "9780060157456",
				"published_date": "Oct 1985"}},
			{"author not a uuid", map[string]interface{}{
				"title": "T", "author": "42", "isbn": "9780060157456", "published_date": "1985-10-01"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h, _ := newBookHandler(t)

				req := testutil.NewRequest(http.MethodPost, "/books", tt.body)
				rec := httptest.NewRecorder()
				h.Create(rec, req)

				resp := testutil.RecordHTTPResponse(rec)
				testutil.AssertResponseCode(t, resp.Code, http.StatusBadRequest)
			})
		}
	})
}

func TestBookAddReview(t *testing.T) {
	t.Run("book id comes from the path", func(t *testing.T) {
		h, repo := newBookHandler(t)
		repo.EXPECT().GetBook(gomock.Any(), testutil.TestBook.ID).Return(testutil.TestBook, nil)
		repo.EXPECT().CreateReview(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, rv *catalog.Review) error {
				assert.Equal(t, testutil.TestBook.ID, rv.BookID)
				return nil
			})

		req := testutil.NewRequest(http.MethodPost, "/books/"+testutil.TestBook.ID+"/add_review",
			map[string]interface{}{"reviewer_name": "Sam", "rating": 4, "comment": "solid"})
		req.SetPathValue("id", testutil.TestBook.ID)
		rec := httptest.NewRecorder()
		h.AddReview(rec, req)

		resp := testutil.RecordHTTPResponse(rec)
		testutil.AssertResponseCode(t, resp.Code, http.StatusCreated)
	})

	t.Run("missing book 404s", func(t *testing.T) {
		h, repo := newBookHandler(t)
		repo.EXPECT().GetBook(gomock.Any(), "missing").Return(catalog.Book{}, catalog.ErrBookNotFound)

		req := testutil.NewRequest(http.MethodPost, "/books/missing/add_review",
			map[string]interface{}{"reviewer_name": "Sam", "rating": 4, "comment": "solid"})
		req.SetPathValue("id", "missing")
		rec := httptest.NewRecorder()
		h.AddReview(rec, req)

		resp := testutil.RecordHTTPResponse(rec)
		testutil.AssertResponseCode(t, resp.Code, http.StatusNotFound)
	})

	t.Run("rating bounds", func(t *testing.T) {
		for _, rating := range []int{0, 6} {
			h, _ := newBookHandler(t)

			req := testutil.NewRequest(http.MethodPost, "/books/x/add_review",
				map[string]interface{}{"reviewer_name": "Sam", "rating": rating, "comment": "c"})
			req.SetPathValue("id", "x")
			rec := httptest.NewRecorder()
			h.AddReview(rec, req)

			resp := testutil.RecordHTTPResponse(rec)
			testutil.AssertResponseCode(t, resp.Code, http.StatusBadRequest)
		}
	})
}

func TestBookTopRated(t *testing.T) {
	h, repo := newBookHandler(t)

	repo.EXPECT().ListBooks(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, q catalog.BookQuery) ([]catalog.BookSummary, int, error) {
			require.NotNil(t, q.MinRating)
			assert.Equal(t, 4.0, *q.MinRating)
			assert.Equal(t, "rating", q.Sort)
			assert.True(t, q.Desc)
			return []catalog.BookSummary{catalog.Summarize(testutil.TestBook, 0)}, 1, nil
		})

	req := testutil.NewRequest(http.MethodGet, "/books/top_rated", nil)
	rec := httptest.NewRecorder()
	h.TopRated(rec, req)

	resp := testutil.RecordHTTPResponse(rec)
	testutil.AssertResponseCode(t, resp.Code, http.StatusOK)
}

func TestBookByCategory(t *testing.T) {
	h, repo := newBookHandler(t)
	repo.EXPECT().ListBooks(gomock.Any(), gomock.Any()).
		Return([]catalog.BookSummary{catalog.Summarize(testutil.TestBook, 0)}, 1, nil)

	req := testutil.NewRequest(http.MethodGet, "/books/by_category", nil)
	rec := httptest.NewRecorder()
	h.ByCategory(rec, req)

	resp := testutil.RecordHTTPResponse(rec)
	testutil.AssertResponseCode(t, resp.Code, http.StatusOK)

	data := resp.Body["data"].(map[string]interface{})
	// all five categories present, empty ones included
	for _, c := range catalog.Categories() {
		assert.Contains(t, data, string(c))
	}
	assert.Len(t, data["Sci-fi"], 1)
	assert.Empty(t, data["Fantasy"])
}

func TestBookDelete(t *testing.T) {
	h, repo := newBookHandler(t)
	repo.EXPECT().DeleteBook(gomock.Any(), testutil.TestBook.ID).Return(nil)

	req := testutil.NewRequest(http.MethodDelete, "/books/"+testutil.TestBook.ID, nil)
	req.SetPathValue("id", testutil.TestBook.ID)
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
