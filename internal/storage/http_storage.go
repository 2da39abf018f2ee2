package storage

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ImageFetcher retrieves a remote document image for analysis.
type ImageFetcher interface {
	FetchImage(ctx context.Context, imageURL string) (image.Image, error)
}

const fetchAttempts = 3

// HTTPImageFetcher downloads images over plain HTTP(S) with bounded
// retries. Client errors are final; server errors and network failures are
// retried with linear backoff.
type HTTPImageFetcher struct {
	client *http.Client
}

// NewHTTPImageFetcher creates an HTTP image fetcher. The timeout bounds
// one complete download.
func NewHTTPImageFetcher(timeout time.Duration) *HTTPImageFetcher {
	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
	}
}

// FetchImage downloads and decodes one image.
func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "image/jpeg, image/png, image/tiff, image/bmp, */*")
	req.Header.Set("User-Agent", "TraceFinder/1.0")

	resp, err := h.fetchWithRetry(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// fetchWithRetry performs the request up to fetchAttempts times. The
// caller owns the body of a returned response.
func (h *HTTPImageFetcher) fetchWithRetry(req *http.Request) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt < fetchAttempts; attempt++ {
		resp, err := h.client.Do(req)
		if err != nil {
			lastErr = err
		} else {
			switch {
			case resp.StatusCode == http.StatusOK:
				return resp, nil
			case resp.StatusCode >= 400 && resp.StatusCode < 500:
				resp.Body.Close()
				return nil, fmt.Errorf("client error: status code %d", resp.StatusCode)
			default:
				resp.Body.Close()
				lastErr = fmt.Errorf("server error: status code %d", resp.StatusCode)
			}
		}

		if attempt < fetchAttempts-1 {
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}
	}

	return nil, fmt.Errorf("failed to fetch image after %d attempts: %w", fetchAttempts, lastErr)
}
