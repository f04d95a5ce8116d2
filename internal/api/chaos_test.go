package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientConcurrentSubmissions(t *testing.T) {
	var count atomic.Int32
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/set-tags" {
			var body SetTagsInput
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, []string{"stress"}, body.Tags)
			count.Add(1)
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	const workers = 50
	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errCh <- client.SetTags(context.Background(), []string{"stress"})
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(workers), count.Load())
}

func TestClientServerDown(t *testing.T) {
	srv, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := client.GenerateTags(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}
