package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Chat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "library hours?", r.PostFormValue("message"))
		assert.Equal(t, "true", r.PostFormValue("include_search"))

		json.NewEncoder(w).Encode(map[string]string{"reply": "The library opens at 8am."})
	}))
	defer srv.Close()

	client := NewClient(DefaultClientConfig(srv.URL))
	reply, err := client.Chat(context.Background(), "library hours?", true)
	require.NoError(t, err)
	assert.Equal(t, "The library opens at 8am.", reply)
}

func TestClient_Chat_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(DefaultClientConfig(srv.URL))
	_, err := client.Chat(context.Background(), "hello", false)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "library hours", r.PostFormValue("query"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "success",
			"results": []string{"🔗 [Link](http://x.test/a)", "plain line"},
		})
	}))
	defer srv.Close()

	client := NewClient(DefaultClientConfig(srv.URL))
	results, err := client.Search(context.Background(), "library hours")
	require.NoError(t, err)
	assert.Equal(t, []string{"🔗 [Link](http://x.test/a)", "plain line"}, results)
}

func TestClient_Search_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "error"})
	}))
	defer srv.Close()

	client := NewClient(DefaultClientConfig(srv.URL))
	_, err := client.Search(context.Background(), "anything")

	var nonSuccess *ErrNonSuccess
	require.ErrorAs(t, err, &nonSuccess)
	assert.Equal(t, "error", nonSuccess.Status)
}

func TestClient_SubmitFeedback(t *testing.T) {
	var got FeedbackRequestDTO
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feedback", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(map[string]string{"status": "success", "message": "Feedback saved successfully"})
	}))
	defer srv.Close()

	client := NewClient(DefaultClientConfig(srv.URL))
	err := client.SubmitFeedback(context.Background(), FeedbackRequestDTO{
		UserQuery:    "when is the fest?",
		AIResponse:   "Next month.",
		UserFeedback: "too vague",
	})
	require.NoError(t, err)
	assert.Equal(t, "when is the fest?", got.UserQuery)
	assert.Equal(t, "too vague", got.UserFeedback)
}

func TestClient_Notifications(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/notifications", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"notifications": []map[string]string{
				{"date": "2025-01-10", "title": "Exam schedule released"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(DefaultClientConfig(srv.URL))
	bulletins, err := client.Notifications(context.Background())
	require.NoError(t, err)
	require.Len(t, bulletins, 1)
	assert.Equal(t, "Exam schedule released", bulletins[0].Title)
}
