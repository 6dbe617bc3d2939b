package matchdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesPassThrough(t *testing.T) {
	payload := `[{"id":"m1","home":"Real Madrid","away":"Barcelona"}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/matches", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	got, err := client.Matches(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(got))
}

func TestMatchPredictionPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/matches/m42/prediction", r.URL.Path)
		w.Write([]byte(`{"homeGoals":1.7,"awayGoals":1.1}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	got, err := client.MatchPrediction(context.Background(), "m42")
	require.NoError(t, err)
	assert.JSONEq(t, `{"homeGoals":1.7,"awayGoals":1.1}`, string(got))
}

func TestNonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.Matches(context.Background())
	assert.Error(t, err)
}

func TestInvalidJSONIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.Matches(context.Background())
	assert.Error(t, err)
}
