package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bookreview/internal/admin"
	"bookreview/internal/catalog"

	"github.com/stretchr/testify/assert"
)

// Pattern resolution only; handlers are never invoked, so nil
// dependencies are fine here.
func TestRouting(t *testing.T) {
	svc := catalog.NewService(nil)
	adminHandler := admin.NewHandler(nil, svc, admin.NewRegistry(), "secret", "hash")
	router := newRouter(nil, svc, adminHandler, "secret")

	tests := []struct {
		method      string
		path        string
		wantPattern string
	}{
		{http.MethodGet, "/healthz", "GET /healthz"},
		{http.MethodGet, "/authors", "GET /authors"},
		{http.MethodGet, "/authors/abc/books", "GET /authors/{id}/books"},
		{http.MethodGet, "/books/top_rated", "GET /books/top_rated"},
		{http.MethodGet, "/books/by_category", "GET /books/by_category"},
		{http.MethodGet, "/books/abc", "GET /books/{id}"},
		{http.MethodPost, "/books/abc/add_review", "POST /books/{id}/add_review"},
		{http.MethodGet, "/reviews/recent", "GET /reviews/recent"},
		{http.MethodGet, "/reviews/abc", "GET /reviews/{id}"},
		{http.MethodGet, "/web/books", "GET /web/books"},
		{http.MethodGet, "/web/books/new", "GET /web/books/new"},
		{http.MethodPost, "/web/books/abc", "POST /web/books/{id}"},
		{http.MethodPost, "/admin/login", "POST /admin/login"},
		{http.MethodGet, "/admin/books", "GET /admin/{entity}"},
		{http.MethodPut, "/admin/reviews/abc", "PUT /admin/reviews/{id}"},
		{http.MethodPost, "/admin/books/make_top_rated", "POST /admin/books/make_top_rated"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			_, pattern := router.Handler(req)
			assert.Equal(t, tt.wantPattern, pattern)
		})
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	svc := catalog.NewService(nil)
	adminHandler := admin.NewHandler(nil, svc, admin.NewRegistry(), "secret", "hash")
	router := newRouter(nil, svc, adminHandler, "secret")

	req := httptest.NewRequest(http.MethodGet, "/admin/books", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
