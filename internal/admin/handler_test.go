package admin_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookreview/internal/admin"
	"bookreview/internal/auth"
	"bookreview/internal/catalog"
	"bookreview/internal/catalog/mocks"
	"bookreview/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newHandler(t *testing.T) (*admin.Handler, *mocks.MockRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockRepository(ctrl)
	svc := catalog.NewService(repo)

	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)

	return admin.NewHandler(nil, svc, admin.NewRegistry(), testSecret, hash), repo
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{"valid password", map[string]string{"password": "correct horse"}, http.StatusOK},
		{"wrong password", map[string]string{"password": "battery staple"}, http.StatusUnauthorized},
		{"missing password", map[string]string{}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newHandler(t)

			req := testutil.NewRequest(http.MethodPost, "/admin/login", tt.body)
			rec := httptest.NewRecorder()
			h.Login(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				var resp struct {
					Data struct {
						Token string `json:"token"`
					} `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

				claims, err := auth.ParseToken(testSecret, resp.Data.Token)
				require.NoError(t, err)
				assert.Equal(t, "admin", claims.Sub)
			}
		})
	}
}

func TestIndex(t *testing.T) {
	h, _ := newHandler(t)

	req := testutil.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	h.Index(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			SiteHeader string   `json:"site_header"`
			Entities   []string `json:"entities"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Book Review Management Admin", resp.Data.SiteHeader)
	assert.Equal(t, []string{"authors", "books", "reviews"}, resp.Data.Entities)
}

func TestList_UnknownEntity(t *testing.T) {
	h, _ := newHandler(t)

	req := testutil.NewRequest(http.MethodGet, "/admin/users", nil)
	req.SetPathValue("entity", "users")
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateReview(t *testing.T) {
	existing := catalog.Review{
		ID:           "6e3c7f0a-0000-0000-0000-000000000001",
		BookID:       "6e3c7f0a-0000-0000-0000-000000000002",
		ReviewerName: "Ana",
		Rating:       3,
		Comment:      "fine",
		CreatedAt:    time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC),
	}

	t.Run("edits name and comment", func(t *testing.T) {
		h, repo := newHandler(t)
		repo.EXPECT().GetReview(gomock.Any(), existing.ID).Return(existing, nil)
		repo.EXPECT().UpdateReview(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, rv *catalog.Review) error {
				assert.Equal(t, "Ana B.", rv.ReviewerName)
				assert.Equal(t, "fine, on reread", rv.Comment)
				assert.Equal(t, 3, rv.Rating)
				return nil
			})

		req := testutil.NewRequest(http.MethodPut, "/admin/reviews/"+existing.ID, map[string]interface{}{
			"reviewer_name": "Ana B.",
			"comment":       "fine, on reread",
		})
		req.SetPathValue("id", existing.ID)
		rec := httptest.NewRecorder()
		h.UpdateReview(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects rating change", func(t *testing.T) {
		h, repo := newHandler(t)
		repo.EXPECT().GetReview(gomock.Any(), existing.ID).Return(existing, nil)

		req := testutil.NewRequest(http.MethodPut, "/admin/reviews/"+existing.ID, map[string]interface{}{
			"reviewer_name": "Ana",
			"comment":       "fine",
			"rating":        5,
		})
		req.SetPathValue("id", existing.ID)
		rec := httptest.NewRecorder()
		h.UpdateReview(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "immutable")
	})

	t.Run("accepts unchanged rating", func(t *testing.T) {
		h, repo := newHandler(t)
		repo.EXPECT().GetReview(gomock.Any(), existing.ID).Return(existing, nil)
		repo.EXPECT().UpdateReview(gomock.Any(), gomock.Any()).Return(nil)

		req := testutil.NewRequest(http.MethodPut, "/admin/reviews/"+existing.ID, map[string]interface{}{
			"reviewer_name": "Ana",
			"comment":       "fine",
			"rating":        3,
		})
		req.SetPathValue("id", existing.ID)
		rec := httptest.NewRecorder()
		h.UpdateReview(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing review", func(t *testing.T) {
		h, repo := newHandler(t)
		repo.EXPECT().GetReview(gomock.Any(), "nope").Return(catalog.Review{}, catalog.ErrReviewNotFound)

		req := testutil.NewRequest(http.MethodPut, "/admin/reviews/nope", map[string]interface{}{
			"reviewer_name": "Ana",
			"comment":       "fine",
		})
		req.SetPathValue("id", "nope")
		rec := httptest.NewRecorder()
		h.UpdateReview(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestMakeTopRated(t *testing.T) {
	t.Run("reports the updated count", func(t *testing.T) {
		h, repo := newHandler(t)
		ids := []string{"a", "b", "c"}
		repo.EXPECT().MarkTopRated(gomock.Any(), ids).Return(3, nil)

		req := testutil.NewRequest(http.MethodPost, "/admin/books/make_top_rated",
			map[string]interface{}{"ids": ids})
		rec := httptest.NewRecorder()
		h.MakeTopRated(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Data struct {
				Updated int    `json:"updated"`
				Message string `json:"message"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.Data.Updated)
		assert.Contains(t, resp.Data.Message, "Top Rated")
	})

	t.Run("rejects empty id list", func(t *testing.T) {
		h, _ := newHandler(t)

		req := testutil.NewRequest(http.MethodPost, "/admin/books/make_top_rated",
			map[string]interface{}{"ids": []string{}})
		rec := httptest.NewRecorder()
		h.MakeTopRated(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
