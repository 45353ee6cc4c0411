package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"bookreview/internal/auth"
	"bookreview/internal/catalog"

	"github.com/golang-jwt/jwt/v5"
)

// TestAuthor is a canned author fixture
var TestAuthor = catalog.Author{
	ID:        "11111111-1111-1111-1111-111111111111",
	Name:      "Ursula K. Le Guin",
	Bio:       "American author of speculative fiction",
	CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	UpdatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
}

// TestBook is a canned book fixture belonging to TestAuthor
var TestBook = catalog.Book{
	ID:            "22222222-2222-2222-2222-222222222222",
	Title:         "The Dispossessed",
	AuthorID:      TestAuthor.ID,
	AuthorName:    TestAuthor.Name,
	ISBN:          "9780060512750",
	PublishedDate: time.Date(1974, 5, 1, 0, 0, 0, 0, time.UTC),
	Category:      catalog.CategorySciFi,
	Rating:        4.5,
	CreatedAt:     time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	UpdatedAt:     time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
}

// TestReview is a canned review fixture for TestBook
var TestReview = catalog.Review{
	ID:           "33333333-3333-3333-3333-333333333333",
	BookID:       TestBook.ID,
	ReviewerName: "Sam",
	Rating:       5,
	Comment:      "An ambiguous utopia, still sharp.",
	CreatedAt:    time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
}

// GenerateAdminToken issues a valid admin bearer token for testing
func GenerateAdminToken(secret string) string {
	token, _ := auth.GenerateToken(secret, "admin", time.Hour)
	return token
}

// GenerateExpiredToken issues an already-expired token for testing
func GenerateExpiredToken(secret string) string {
	c := auth.Claims{
		Sub: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token, _ := t.SignedString([]byte(secret))
	return token
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewRequestWithAuth creates a new HTTP request with a bearer token
func NewRequestWithAuth(method, path string, body interface{}, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}

// AssertResponseCode checks if the response code matches expected
func AssertResponseCode(t interface {
	Errorf(format string, args ...any)
}, got, want int) {
	if got != want {
		t.Errorf("got status code %d, want %d", got, want)
	}
}

// AssertResponseBody checks if the response body contains expected field
func AssertResponseBody(t interface {
	Errorf(format string, args ...any)
}, body map[string]interface{}, key string, expectedValue interface{}) {
	value, ok := body[key]
	if !ok {
		t.Errorf("response body missing key %q", key)
		return
	}
	if value != expectedValue {
		t.Errorf("got %q for key %q, want %q", value, key, expectedValue)
	}
}
