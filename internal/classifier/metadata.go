package classifier

import (
	"os"
	"time"

	"go-tracefinder/pkg/models"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// exifCollector flattens walked EXIF fields into a string map.
type exifCollector struct {
	tags map[string]string
}

func (c *exifCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	c.tags[string(name)] = tag.String()
	return nil
}

// ExtractMetadata reads EXIF tags and file information. Extraction problems
// are reported inside the metadata record, never as a hard failure.
func ExtractMetadata(path string) *models.Metadata {
	metadata := &models.Metadata{
		ExifData: map[string]string{},
	}

	if f, err := os.Open(path); err == nil {
		if x, err := exif.Decode(f); err == nil {
			collector := &exifCollector{tags: metadata.ExifData}
			if err := x.Walk(collector); err != nil {
				metadata.Error = err.Error()
			}
		}
		f.Close()
	}

	info, err := os.Stat(path)
	if err != nil {
		metadata.Error = err.Error()
		return metadata
	}
	modified := info.ModTime().Format(time.RFC3339)
	metadata.FileInfo = models.FileInfo{
		Size:     info.Size(),
		Created:  modified, // creation time is not portably available
		Modified: modified,
	}
	return metadata
}
