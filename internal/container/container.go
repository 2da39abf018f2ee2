package container

import (
	"net/http"
	"os"

	"go-tracefinder/internal/classifier"
	"go-tracefinder/internal/comparator"
	"go-tracefinder/internal/config"
	"go-tracefinder/internal/storage"
	"go-tracefinder/internal/tampering"
	"go-tracefinder/internal/transport"
)

// Container holds the application dependency graph.
type Container struct {
	config     *config.Config
	fetcher    storage.ImageFetcher
	detector   *classifier.Detector
	comparator *comparator.Comparator
	tampering  *tampering.Detector
	handler    http.Handler
}

// NewContainer wires every component from configuration. When Azure
// credentials are present the remote fetcher uses blob storage, plain
// HTTPS otherwise.
func NewContainer(cfg *config.Config) (*Container, error) {
	fetcher, err := newFetcher(cfg)
	if err != nil {
		return nil, err
	}

	detector := classifier.NewDetector(cfg)
	cmp := comparator.NewComparator()
	tamper := tampering.NewDetector()
	handler := transport.NewHandler(detector, cmp, tamper, fetcher, cfg)

	return &Container{
		config:     cfg,
		fetcher:    fetcher,
		detector:   detector,
		comparator: cmp,
		tampering:  tamper,
		handler:    handler,
	}, nil
}

func newFetcher(cfg *config.Config) (storage.ImageFetcher, error) {
	account := os.Getenv("AZURE_STORAGE_ACCOUNT")
	key := os.Getenv("AZURE_STORAGE_KEY")
	if account != "" && key != "" {
		return storage.NewAzureImageFetcher(account, key)
	}
	return storage.NewHTTPImageFetcher(cfg.ImageFetchTimeout), nil
}

// Handler returns the HTTP handler.
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration.
func (c *Container) Config() *config.Config {
	return c.config
}
