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

func newAuthorHandler(t *testing.T) (*apphttp.AuthorHandler, *mocks.MockRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockRepository(ctrl)
	return apphttp.NewAuthorHandler(catalog.NewService(repo)), repo
}

func TestAuthorList(t *testing.T) {
	h, repo := newAuthorHandler(t)

	author := testutil.TestAuthor
	author.BookCount = 4
	repo.EXPECT().ListAuthors(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, q catalog.AuthorQuery) ([]catalog.Author, int, error) {
			assert.Equal(t, "guin", q.Search)
			assert.Equal(t, "birth_date", q.Sort)
			assert.True(t, q.Desc)
			return []catalog.Author{author}, 1, nil
		})

	req := testutil.NewRequest(http.MethodGet, "/authors?search=guin&ordering=-birth_date", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	resp := testutil.RecordHTTPResponse(rec)
	testutil.AssertResponseCode(t, resp.Code, http.StatusOK)

	data := resp.Body["data"].([]interface{})
	require.Len(t, data, 1)
	item := data[0].(map[string]interface{})
	assert.Equal(t, "Ursula K. Le Guin", item["name"])
	assert.Equal(t, float64(4), item["book_count"])
}

func TestAuthorCreate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		h, repo := newAuthorHandler(t)
		repo.EXPECT().CreateAuthor(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, a *catalog.Author) error {
				assert.Equal(t, "Octavia Butler", a.Name)
				require.NotNil(t, a.BirthDate)
				assert.Equal(t, 1947, a.BirthDate.Year())
				a.ID = "new-id"
				return nil
			})

		req := testutil.NewRequest(http.MethodPost, "/authors", map[string]interface{}{
			"name":       "Octavia Butler",
			"bio":        "American science fiction author",
			"birth_date": "1947-06-22",
		})
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		resp := testutil.RecordHTTPResponse(rec)
		testutil.AssertResponseCode(t, resp.Code, http.StatusCreated)
	})

	t.Run("birth date optional", func(t *testing.T) {
		h, repo := newAuthorHandler(t)
		repo.EXPECT().CreateAuthor(gomock.Any(), gomock.Any()).Return(nil)

		req := testutil.NewRequest(http.MethodPost, "/authors", map[string]interface{}{
			"name": "Anon",
		})
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		resp := testutil.RecordHTTPResponse(rec)
		testutil.AssertResponseCode(t, resp.Code, http.StatusCreated)
	})

	t.Run("missing name", func(t *testing.T) {
		h, _ := newAuthorHandler(t)

		req := testutil.NewRequest(http.MethodPost, "/authors", map[string]interface{}{
			"bio": "No name given",
		})
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		resp := testutil.RecordHTTPResponse(rec)
		testutil.AssertResponseCode(t, resp.Code, http.StatusBadRequest)
	})

	t.Run("malformed birth date", func(t *testing.T) {
		h, _ := newAuthorHandler(t)

		req := testutil.NewRequest(http.MethodPost, "/authors", map[string]interface{}{
			"name":       "Anon",
			"birth_date": "June 1947",
		})
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		resp := testutil.RecordHTTPResponse(rec)
		testutil.AssertResponseCode(t, resp.Code, http.StatusBadRequest)
	})
}

func TestAuthorUpdate_NotFound(t *testing.T) {
	h, repo := newAuthorHandler(t)
	repo.EXPECT().UpdateAuthor(gomock.Any(), gomock.Any()).Return(catalog.ErrAuthorNotFound)

	req := testutil.NewRequest(http.MethodPut, "/authors/missing", map[string]interface{}{
		"name": "Whoever",
	})
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	resp := testutil.RecordHTTPResponse(rec)
	testutil.AssertResponseCode(t, resp.Code, http.StatusNotFound)
}

func TestAuthorDelete(t *testing.T) {
	t.Run("cascades and returns no content", func(t *testing.T) {
		h, repo := newAuthorHandler(t)
		repo.EXPECT().DeleteAuthor(gomock.Any(), testutil.TestAuthor.ID).Return(nil)

		req := testutil.NewRequest(http.MethodDelete, "/authors/"+testutil.TestAuthor.ID, nil)
		req.SetPathValue("id", testutil.TestAuthor.ID)
		rec := httptest.NewRecorder()
		h.Delete(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("missing author", func(t *testing.T) {
		h, repo := newAuthorHandler(t)
		repo.EXPECT().DeleteAuthor(gomock.Any(), "missing").Return(catalog.ErrAuthorNotFound)

		req := testutil.NewRequest(http.MethodDelete, "/authors/missing", nil)
		req.SetPathValue("id", "missing")
		rec := httptest.NewRecorder()
		h.Delete(rec, req)

		resp := testutil.RecordHTTPResponse(rec)
		testutil.AssertResponseCode(t, resp.Code, http.StatusNotFound)
	})
}

func TestAuthorBooks(t *testing.T) {
	t.Run("lists the author's books", func(t *testing.T) {
		h, repo := newAuthorHandler(t)
		repo.EXPECT().GetAuthor(gomock.Any(), testutil.TestAuthor.ID).Return(testutil.TestAuthor, nil)
		repo.EXPECT().ListBooks(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, q catalog.BookQuery) ([]catalog.BookSummary, int, error) {
				assert.Equal(t, testutil.TestAuthor.ID, q.AuthorID)
				return []catalog.BookSummary{catalog.Summarize(testutil.TestBook, 1)}, 1, nil
			})

		req := testutil.NewRequest(http.MethodGet, "/authors/"+testutil.TestAuthor.ID+"/books", nil)
		req.SetPathValue("id", testutil.TestAuthor.ID)
		rec := httptest.NewRecorder()
		h.Books(rec, req)

		resp := testutil.RecordHTTPResponse(rec)
		testutil.AssertResponseCode(t, resp.Code, http.StatusOK)
	})

	t.Run("missing author 404s", func(t *testing.T) {
		h, repo := newAuthorHandler(t)
		repo.EXPECT().GetAuthor(gomock.Any(), "missing").Return(catalog.Author{}, catalog.ErrAuthorNotFound)

		req := testutil.NewRequest(http.MethodGet, "/authors/missing/books", nil)
		req.SetPathValue("id", "missing")
		rec := httptest.NewRecorder()
		h.Books(rec, req)

		resp := testutil.RecordHTTPResponse(rec)
		testutil.AssertResponseCode(t, resp.Code, http.StatusNotFound)
	})
}
