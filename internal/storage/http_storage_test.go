package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// tinyPNG is a valid 1x1 transparent PNG.
var tinyPNG = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
	0x89, 0x00, 0x00, 0x00, 0x0A, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9C, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44, 0xAE,
	0x42, 0x60, 0x82,
}

func TestHTTPImageFetcher_RetryLogic(t *testing.T) {
	tests := []struct {
		name          string
		responses     []int
		expectedCalls int
		expectError   bool
		errorContains string
	}{
		{
			name:          "success on first attempt",
			responses:     []int{200},
			expectedCalls: 1,
		},
		{
			name:          "success on second attempt after server error",
			responses:     []int{500, 200},
			expectedCalls: 2,
		},
		{
			name:          "client error is not retried",
			responses:     []int{404},
			expectedCalls: 1,
			expectError:   true,
			errorContains: "client error: status code 404",
		},
		{
			name:          "client error after server error stops retrying",
			responses:     []int{500, 404},
			expectedCalls: 2,
			expectError:   true,
			errorContains: "client error: status code 404",
		},
		{
			name:          "persistent server errors exhaust all attempts",
			responses:     []int{500, 502, 503},
			expectedCalls: 3,
			expectError:   true,
			errorContains: "server error: status code 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requestCount := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if requestCount >= len(tt.responses) {
					t.Errorf("unexpected request %d", requestCount+1)
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				status := tt.responses[requestCount]
				requestCount++

				if status == http.StatusOK {
					w.Header().Set("Content-Type", "image/png")
					w.Write(tinyPNG)
					return
				}
				w.WriteHeader(status)
				fmt.Fprintf(w, "error %d", status)
			}))
			defer server.Close()

			fetcher := NewHTTPImageFetcher(30 * time.Second)
			_, err := fetcher.FetchImage(context.Background(), server.URL)

			if requestCount != tt.expectedCalls {
				t.Errorf("expected %d requests, got %d", tt.expectedCalls, requestCount)
			}
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				if tt.errorContains != "" && !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("expected error to contain %q, got: %s", tt.errorContains, err)
				}
			} else if err != nil {
				t.Errorf("expected no error, got: %s", err)
			}
		})
	}
}

func TestHTTPImageFetcher_NetworkErrorRetry(t *testing.T) {
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		if requestCount < 3 {
			// Drop the connection to simulate a network failure
			if hj, ok := w.(http.Hijacker); ok {
				conn, _, _ := hj.Hijack()
				conn.Close()
			}
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(tinyPNG)
	}))
	defer server.Close()

	fetcher := NewHTTPImageFetcher(30 * time.Second)

	start := time.Now()
	_, err := fetcher.FetchImage(context.Background(), server.URL)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("expected success after retries, got: %s", err)
	}
	if requestCount != 3 {
		t.Errorf("expected 3 requests, got %d", requestCount)
	}
	// Linear backoff sleeps 1s then 2s between the three attempts
	if elapsed < 3*time.Second {
		t.Errorf("expected at least 3s of backoff, took %v", elapsed)
	}
}
