package storage

import (
	"context"
	"fmt"
	"image"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureImageFetcher retrieves evidence images from Azure Blob Storage.
// URLs take the form https://host/container?blob=name.
type AzureImageFetcher struct {
	client *azblob.Client
}

// NewAzureImageFetcher authenticates against the storage account with a
// shared key.
func NewAzureImageFetcher(accountName, accountKey string) (*AzureImageFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid storage credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create blob client: %w", err)
	}
	return &AzureImageFetcher{client: client}, nil
}

// FetchImage downloads and decodes one blob.
func (s *AzureImageFetcher) FetchImage(ctx context.Context, blobURL string) (image.Image, error) {
	parsed, err := url.Parse(blobURL)
	if err != nil {
		return nil, fmt.Errorf("invalid blob URL: %w", err)
	}

	containerName := strings.TrimPrefix(parsed.Path, "/")
	blobName := parsed.Query().Get("blob")
	if containerName == "" || blobName == "" {
		return nil, fmt.Errorf("blob URL must name a container path and blob query parameter")
	}

	response, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer response.Body.Close()

	img, _, err := image.Decode(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode blob image: %w", err)
	}
	return img, nil
}
