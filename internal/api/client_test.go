package api_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack/internal/api"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/session"
)

func newSession(t *testing.T) *session.Manager {
	t.Helper()

	sess, err := session.New(t.TempDir())
	require.NoError(t, err)

	return sess
}

func loggedIn(t *testing.T) *session.Manager {
	t.Helper()

	sess := newSession(t)
	require.NoError(t, sess.Login("tok-abc", nil))

	return sess
}

func TestClient_BearerHeader(t *testing.T) {
	headers := make(map[string]string)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers[r.URL.Path] = r.Header.Get("Authorization")

		switch r.URL.Path {
		case "/login":
			w.Write([]byte(`{"token":"fresh","user":{"email":"ana@example.com"}}`))
		default:
			w.Write([]byte(`[]`))
		}
	}))
	defer ts.Close()

	client := api.New(ts.URL, time.Second, loggedIn(t))

	_, err := client.Incomes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", headers["/incomes"])

	// Public endpoints never carry the credential, even while logged in.
	_, err = client.Login(context.Background(), model.Credentials{Email: "ana@example.com", Password: "x"})
	require.NoError(t, err)
	assert.Empty(t, headers["/login"])
}

func TestClient_UnauthorizedInvalidatesSession(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	sess := loggedIn(t)

	notified := 0
	sess.OnInvalidate(func() { notified++ })

	client := api.New(ts.URL, time.Second, sess)

	_, err := client.Expenses(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.False(t, sess.Authenticated())
	assert.Equal(t, 1, notified)

	// A second 401 from another in-flight request must not notify again.
	_, err = client.Categories(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, 1, notified)
}

func TestClient_Forbidden(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	sess := loggedIn(t)
	client := api.New(ts.URL, time.Second, sess)

	_, err := client.Incomes(context.Background())
	assert.ErrorIs(t, err, api.ErrForbidden)

	// Forbidden is not an invalidation: the credential survives.
	assert.True(t, sess.Authenticated())
}

func TestClient_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	client := api.New(ts.URL, 20*time.Millisecond, loggedIn(t))

	_, err := client.Incomes(context.Background())
	assert.ErrorIs(t, err, api.ErrTimeout)
}

func TestClient_ServerMessagePassthrough(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"category already exists"}`))
	}))
	defer ts.Close()

	client := api.New(ts.URL, time.Second, loggedIn(t))

	_, err := client.AddCategory(context.Background(), model.AddCategoryParams{Name: "Rent", Type: model.TypeExpense})
	require.Error(t, err)

	assert.Equal(t, "category already exists", api.UserMessage(err, "fallback"))
}

func TestClient_UserMessageFallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := api.New(ts.URL, time.Second, loggedIn(t))

	_, err := client.Incomes(context.Background())
	require.Error(t, err)
	assert.Equal(t, "something went wrong", api.UserMessage(err, "something went wrong"))
}

func TestClient_DecodesAmountsAsDecimals(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"name":"Salary","amount":1234.56,"date":"2024-03-01","categoryId":2}]`))
	}))
	defer ts.Close()

	client := api.New(ts.URL, time.Second, loggedIn(t))

	txs, err := client.Incomes(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, int64(1), txs[0].ID)
	assert.True(t, txs[0].Amount.Equal(decimal.NewFromFloat(1234.56)))
	assert.Equal(t, "2024-03-01", txs[0].Date.String())
}

func TestClient_FilterRequest(t *testing.T) {
	var gotPath, gotBody string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path

		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	client := api.New(ts.URL, time.Second, loggedIn(t))

	start := model.NewDate(2024, time.January, 1)
	query := model.FilterQuery{
		Type:      model.TypeExpense,
		StartDate: &start,
		Keyword:   "rent",
		SortField: model.SortByAmount,
		SortOrder: model.SortDesc,
	}

	_, err := client.Filter(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, "POST /filter", gotPath)
	assert.JSONEq(t, `{
		"type": "expense",
		"startDate": "2024-01-01",
		"endDate": null,
		"keyword": "rent",
		"sortField": "amount",
		"sortOrder": "desc"
	}`, gotBody)
}
