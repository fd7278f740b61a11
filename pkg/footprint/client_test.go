package footprint

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/grovetools/carbon/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL + "/v1/", Username: "asbarn", APIKey: "k3y"})
}

func TestCountries(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/countries", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		want := "Basic " + base64.StdEncoding.EncodeToString([]byte("asbarn:k3y"))
		assert.Equal(t, want, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"countryCode":"231","countryName":"United States of America","shortName":"United States","isoa2":"US","score":"3A","version":null},
			{"countryCode":"68","countryName":"France","shortName":"France","isoa2":"FR","score":"3A"}
		]`))
	})

	entities, err := client.Countries(context.Background())
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, "231", entities[0].Identifier())
	assert.Equal(t, "United States", entities[0].DisplayName())
	assert.Equal(t, "France", entities[1].DisplayName())
}

func TestCountry(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/data/68/all/EFCpc", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"year":2001,"countryCode":68,"shortName":"France","record":"EFConsPerCap","carbon":2.5,"value":4.9},
			{"year":2000,"countryCode":68,"shortName":"France","record":"EFConsPerCap","carbon":null}
		]`))
	})

	series, err := client.Country(context.Background(), "68")
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 2001, series[0].Year)
	assert.Equal(t, 2.5, *series[0].Carbon)
	assert.Nil(t, series[1].Carbon)
}

func TestCountryEmptyBody(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})

	series, err := client.Country(context.Background(), "1")
	require.NoError(t, err)
	assert.NotNil(t, series)
	assert.Empty(t, series)
}

func TestNonSuccessStatus(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Countries(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeUpstreamStatus))

	carbonErr := err.(*errors.CarbonError)
	assert.Equal(t, http.StatusTooManyRequests, carbonErr.Details["status"])
}

func TestMalformedBody(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"`))
	})

	_, err := client.Country(context.Background(), "1")
	assert.Error(t, err)
}

func TestSingleRequestNoRetry(t *testing.T) {
	var calls int32
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Country(context.Background(), "5")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestContextCancellation(t *testing.T) {
	release := make(chan struct{})
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Countries(ctx)
	assert.Error(t, err)
}

func TestRateLimiterPacesRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, RequestsPerSecond: 20})

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.Country(context.Background(), "1")
		require.NoError(t, err)
	}
	// Burst of one: the second and third requests each wait ~50ms.
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}
