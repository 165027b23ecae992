package repository

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"rently-backend/client/api"
	"rently-backend/client/store"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// backend is a fake rently server speaking the response envelope.
type backend struct {
	mux   *http.ServeMux
	srv   *httptest.Server
	calls int32
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{mux: http.NewServeMux()}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&b.calls, 1)
		b.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) URL() string {
	return b.srv.URL
}

func (b *backend) Calls() int {
	return int(atomic.LoadInt32(&b.calls))
}

func (b *backend) Close() {
	b.srv.Close()
}

func (b *backend) handle(pattern string, fn http.HandlerFunc) {
	b.mux.HandleFunc(pattern, fn)
}

func writeSuccess(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "ok",
		"data":    data,
	})
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "error",
		"message": message,
	})
}

func propertyPage(props ...api.Property) map[string]interface{} {
	totalPages := 0
	if len(props) > 0 {
		totalPages = 1
	}
	return map[string]interface{}{
		"properties": props,
		"pagination": map[string]interface{}{
			"current_page": 1,
			"per_page":     100,
			"total":        len(props),
			"total_pages":  totalPages,
		},
	}
}

// deadBackend returns a client pointed at a server that is already gone, so
// every call fails at the transport level.
func deadClient(t *testing.T) *api.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()
	return api.NewClient(url)
}

func sampleProperty(id, landlordID uint, title string, price float64) api.Property {
	return api.Property{
		ID:            id,
		LandlordID:    landlordID,
		Title:         title,
		Description:   "A place",
		Address:       "12 Main St",
		Price:         price,
		BedroomCount:  2,
		BathroomCount: 1,
		FurnitureType: "furnished",
		ImageURLs:     []string{},
		CreatedAt:     "2026-01-01 10:00:00",
		UpdatedAt:     "2026-01-01 10:00:00",
	}
}
