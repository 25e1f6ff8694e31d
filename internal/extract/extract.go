// Package extract derives a content description and best-effort metadata
// from an uploaded creative work.
package extract

import (
	"bytes"
	"fmt"
	"strings"
)

// Category selects the extraction and prompt logic for an upload.
type Category string

const (
	CategoryWriting Category = "writing"
	CategoryArt     Category = "art"
	CategoryMusic   Category = "music"
)

// ParseCategory validates a category string.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryWriting, CategoryArt, CategoryMusic:
		return Category(s), nil
	default:
		return "", fmt.Errorf("invalid type: %s", s)
	}
}

// MetadataStatus records why metadata is or is not available. Both absent
// statuses render identically downstream; the distinction exists so a parse
// failure stays diagnosable instead of masquerading as a file without tags.
type MetadataStatus int

const (
	MetadataAbsentNoData MetadataStatus = iota
	MetadataAbsentParseFailure
	MetadataPresent
)

// Metadata is the best-effort metadata half of an extraction.
type Metadata struct {
	Status      MetadataStatus
	Description string
}

// Present reports whether usable metadata was found.
func (m Metadata) Present() bool {
	return m.Status == MetadataPresent
}

// Extraction pairs a content description with optional metadata. It is
// recomputed per request and never persisted.
type Extraction struct {
	Description string
	Metadata    Metadata
}

// Fixed descriptions for categories whose content is not analyzed. The
// critique is steered by instruction rather than by a derived description.
const (
	artDescription = "This is a piece of visual art. Judge it on composition, " +
		"color, tone and technique rather than subject matter alone."
	musicDescription = "This is a piece of music. Judge it on melody, rhythm, " +
		"harmony, beats and originality."
)

// Extract produces the description and metadata for data under the given
// category. Parsing failures are folded into metadata absence; the only
// error surfaced is an unsupported category.
func Extract(data []byte, category Category) (Extraction, error) {
	switch category {
	case CategoryWriting:
		return extractWriting(data), nil
	case CategoryArt:
		return extractArt(data), nil
	case CategoryMusic:
		return extractMusic(data), nil
	default:
		return Extraction{}, fmt.Errorf("invalid type: %s", category)
	}
}

// extractWriting pulls plain text out of a .docx container. Documents that
// fail to parse are treated as raw UTF-8 text so plain uploads still work.
// Writing metadata is always reported absent.
func extractWriting(data []byte) Extraction {
	text, err := docxText(bytes.NewReader(data), int64(len(data)))
	if err != nil || strings.TrimSpace(text) == "" {
		return Extraction{
			Description: string(data),
			Metadata:    Metadata{Status: MetadataAbsentParseFailure},
		}
	}

	return Extraction{
		Description: text,
		Metadata:    Metadata{Status: MetadataAbsentNoData},
	}
}
