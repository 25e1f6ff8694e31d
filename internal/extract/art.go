package extract

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// extractArt reports a fixed critique-steering description. Metadata
// presence is decided solely by whether the image carries EXIF data.
func extractArt(data []byte) Extraction {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		status := MetadataAbsentParseFailure
		if _, _, imgErr := image.DecodeConfig(bytes.NewReader(data)); imgErr == nil {
			// A well-formed image that simply carries no EXIF block.
			status = MetadataAbsentNoData
		}
		return Extraction{
			Description: artDescription,
			Metadata:    Metadata{Status: status},
		}
	}

	return Extraction{
		Description: artDescription,
		Metadata: Metadata{
			Status:      MetadataPresent,
			Description: exifSummary(x),
		},
	}
}

// exifSummary builds a short camera summary from whichever of make, model
// and timestamp are present.
func exifSummary(x *exif.Exif) string {
	var parts []string

	if tag, err := x.Get(exif.Make); err == nil {
		if v, err := tag.StringVal(); err == nil && v != "" {
			parts = append(parts, strings.TrimSpace(v))
		}
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if v, err := tag.StringVal(); err == nil && v != "" {
			parts = append(parts, strings.TrimSpace(v))
		}
	}
	if dt, err := x.DateTime(); err == nil {
		parts = append(parts, dt.Format("2006-01-02 15:04:05"))
	}

	if len(parts) == 0 {
		return "Embedded EXIF metadata present"
	}
	return fmt.Sprintf("Shot with %s", strings.Join(parts, ", "))
}
