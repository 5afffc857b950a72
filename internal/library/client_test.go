package library

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/folio/internal/apperr"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(Options{BaseURL: server.URL + "/api/v1/", Tokens: staticToken(token)})
	require.NoError(t, err)
	return c
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, u.String())

	u, err = parseBaseURL("example.com:3000/api/v1/?x=1#frag")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com:3000/api/v1", u.String())

	_, err = parseBaseURL("http://")
	assert.Error(t, err)
}

func TestClient_AttachesHeaders(t *testing.T) {
	var got http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		assert.Equal(t, "/api/v1/borrowings", r.URL.Path)
		_, _ = io.WriteString(w, `[]`)
	}, "tok-123")

	_, err := c.FetchBorrowings(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", got.Get("Authorization"))
	assert.Equal(t, "folio/0.1", got.Get("User-Agent"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
}

func TestClient_OmitsAuthorizationWithoutToken(t *testing.T) {
	var auth string
	var sawHeader bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, sawHeader = r.Header["Authorization"]
		_, _ = io.WriteString(w, `{"books":[]}`)
	}, "")

	_, err := c.FetchBooks(testContext(t), BookQuery{})
	require.NoError(t, err)
	assert.Empty(t, auth)
	assert.False(t, sawHeader)
}

func TestFetchBorrowings_AcceptsWrappedAndBareLists(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"wrapped", `{"borrowings":[{"id":1,"due_at":"2024-01-01"},{"id":2,"due_date":"2024-05-01"}]}`},
		{"bare", `[{"id":1,"due_at":"2024-01-01"},{"id":2,"due_date":"2024-05-01"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			}, "tok")

			records, err := c.FetchBorrowings(testContext(t))
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, "2024-01-01", records[0].DueRaw())
			assert.Equal(t, "2024-05-01", records[1].DueRaw())
		})
	}
}

func TestFetchBooks_EncodesQueryAndReadsMeta(t *testing.T) {
	var query map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		_, _ = io.WriteString(w, `{"books":[{"id":7,"title":"Dune","author":"Herbert"}],"meta":{"current_page":2,"total_pages":5,"total_entries":41}}`)
	}, "")

	page, err := c.FetchBooks(testContext(t), BookQuery{Title: " dune ", Genre: "sf", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"title": "dune", "genre": "sf", "page": "2"}, query)
	require.Len(t, page.Books, 1)
	assert.Equal(t, "Dune", page.Books[0].Title)
	assert.Equal(t, PageMeta{CurrentPage: 2, TotalPages: 5, TotalEntries: 41}, page.Meta)
}

func TestFetchBooks_BareListGetsSinglePageMeta(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1},{"id":2}]`)
	}, "")

	page, err := c.FetchBooks(testContext(t), BookQuery{})
	require.NoError(t, err)
	assert.Equal(t, PageMeta{CurrentPage: 1, TotalPages: 1, TotalEntries: 2}, page.Meta)
}

func TestFetchBook_EmptyPayloadIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	}, "")

	_, err := c.FetchBook(testContext(t), 9)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestCreateBook_SendsWrappedPayload(t *testing.T) {
	var body map[string]map[string]any
	var method string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"id":12,"title":"Dune","author":"Herbert"}`)
	}, "tok")

	book, err := c.CreateBook(testContext(t), BookInput{Title: " Dune ", Author: "Herbert"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, int64(12), book.ID)

	inner := body["book"]
	assert.Equal(t, "Dune", inner["title"])
	assert.Equal(t, "Herbert", inner["author"])
	assert.Equal(t, "Book", inner["type"])
	assert.Nil(t, inner["genre"])
	assert.Nil(t, inner["isbn"])
	assert.Contains(t, inner, "item_type_id")
}

func TestCopyEndpoints(t *testing.T) {
	var calls []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/books/3/copies":
			_, _ = io.WriteString(w, `{"copies":[{"id":1,"status":"available"},{"id":2,"status":""}]}`)
		case r.Method == http.MethodPatch && r.URL.Path == "/api/v1/copies/2":
			var body map[string]CopyInput
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, CopyInput{Condition: "worn", Status: "maintenance"}, body["copy"])
			_, _ = io.WriteString(w, `{"id":2,"status":"maintenance"}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/v1/copies/2":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}, "tok")

	ctx := testContext(t)
	copies, err := c.FetchCopies(ctx, 3)
	require.NoError(t, err)
	require.Len(t, copies, 2)
	assert.True(t, copies[1].Available())

	_, err = c.UpdateCopy(ctx, 2, CopyInput{Condition: " worn ", Status: "Maintenance"})
	require.NoError(t, err)
	require.NoError(t, c.DeleteCopy(ctx, 2))

	assert.Equal(t, []string{
		"GET /api/v1/books/3/copies",
		"PATCH /api/v1/copies/2",
		"DELETE /api/v1/copies/2",
	}, calls)
}

func TestMutations_SurfaceServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/borrowings/5/renew", r.URL.Path)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"error":"Renewal limit reached"}`)
	}, "tok")

	err := c.Renew(testContext(t), 5)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, StatusCode(err))
	assert.Equal(t, "Renewal limit reached", apperr.UserMessage(err, "Failed to renew borrowing"))
}

func TestMutations_UnauthorizedMapsToAuthRequired(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, "expired")

	err := c.Return(testContext(t), 5)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeAuthRequired))
	assert.Equal(t, "Failed to return book", apperr.UserMessage(err, "Failed to return book"))
}

func TestErrorMessage(t *testing.T) {
	tests := map[string]string{
		``:                                        "",
		`not json`:                                "",
		`{"error":"Copy unavailable"}`:            "Copy unavailable",
		`{"message":"Nope"}`:                      "Nope",
		`{"errors":["Title can't be blank","x"]}`: "Title can't be blank, x",
		`{"errors":{"title":["can't be blank"]}}`: "title can't be blank",
		`{"error":{"code":1},"message":"fallback"}`: "fallback",
	}
	for body, want := range tests {
		assert.Equal(t, want, errorMessage([]byte(body)), "body %q", body)
	}
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body["email"])
		assert.Equal(t, "secret", body["password"])
		_, _ = io.WriteString(w, `{"token":"abc","user":{"name":"Ana","roles":[{"name":"Librarian"}]}}`)
	}, "")

	resp, err := c.Login(testContext(t), " ana@example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, RoleList{"Librarian"}, resp.User.Roles)
}

func TestLogin_MissingTokenFails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"role":"Member"}`)
	}, "")

	_, err := c.Login(testContext(t), "a@b.c", "pw")
	assert.Error(t, err)
}

func TestRegister_WrapsUser(t *testing.T) {
	var body map[string]Registration
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"token":"new"}`)
	}, "")

	resp, err := c.Register(testContext(t), Registration{Email: "x@y.z", Password: "pw", PasswordConfirmation: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "new", resp.Token)
	assert.Equal(t, "x@y.z", body["user"].Email)
	assert.Equal(t, "pw", body["user"].PasswordConfirmation)
}

func TestFetchDashboard(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"borrowed_books":[{"borrowing_id":4,"title":"Emma","due_date":"2024-05-01","overdue":true}],"total_overdue":1}`)
	}, "tok")

	d, err := c.FetchDashboard(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, 1, d.TotalOverdue)
	require.Len(t, d.BorrowedBooks, 1)
	assert.Equal(t, int64(4), d.BorrowedBooks[0].BorrowingID)
	assert.True(t, d.BorrowedBooks[0].Overdue)
}
