package campus

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/campus-student-hub/internal/domain/session"
)

var testCreds = session.Credentials{Mobile: "9876543210", Password: "pw"}

func TestClient_Login_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "9876543210", r.PostFormValue("mobile"))
		assert.Equal(t, "pw", r.PostFormValue("password"))

		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	defer srv.Close()

	client := NewClient(DefaultClientConfig(srv.URL))
	assert.NoError(t, client.Login(context.Background(), testCreds))
}

func TestClient_Login_RejectedWithDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
	}))
	defer srv.Close()

	client := NewClient(DefaultClientConfig(srv.URL))
	err := client.Login(context.Background(), testCreds)

	var rejected *AuthRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Invalid credentials", rejected.Reason)
}

func TestClient_Login_SuccessFalseIsRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"success": false})
	}))
	defer srv.Close()

	client := NewClient(DefaultClientConfig(srv.URL))
	err := client.Login(context.Background(), testCreds)

	var rejected *AuthRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, FallbackAuthReason, rejected.Reason)
}

func TestClient_Login_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	client := NewClient(DefaultClientConfig(srv.URL))
	err := client.Login(context.Background(), testCreds)

	require.Error(t, err)
	var rejected *AuthRejectedError
	assert.False(t, errors.As(err, &rejected))
}

func TestClient_FetchResource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/attendance", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"overall": 81.5},
		})
	}))
	defer srv.Close()

	client := NewClient(DefaultClientConfig(srv.URL))
	payload, err := client.Attendance(context.Background(), testCreds)
	require.NoError(t, err)
	assert.JSONEq(t, `{"overall":81.5}`, string(payload))
}

func TestClient_FetchResource_PayloadIsOpaque(t *testing.T) {
	// The portal owns the payload shape; anything inside "data" passes through.
	raw := `{"data":[{"weird":["nested",1]},null,42]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(raw))
	}))
	defer srv.Close()

	client := NewClient(DefaultClientConfig(srv.URL))
	payload, err := client.FetchResource(context.Background(), session.ResourceTimetable, testCreds)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"weird":["nested",1]},null,42]`, string(payload))
}

func TestClient_FetchResource_UnknownKind(t *testing.T) {
	client := NewClient(DefaultClientConfig("http://unused.test"))
	_, err := client.FetchResource(context.Background(), "grades", testCreds)
	assert.Error(t, err)
}
