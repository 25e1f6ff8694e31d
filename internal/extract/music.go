package extract

import (
	"bytes"
	"fmt"
	"math"

	"github.com/dhowden/tag"
	"github.com/tcolgate/mp3"
)

// extractMusic reports a fixed critique-steering description plus tag
// metadata. Metadata is present iff at least one of title/artist/album is
// set; duration is best-effort and reads as zero when undecodable.
func extractMusic(data []byte) Extraction {
	meta, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return Extraction{
			Description: musicDescription,
			Metadata:    Metadata{Status: MetadataAbsentParseFailure},
		}
	}

	title, artist, album := meta.Title(), meta.Artist(), meta.Album()
	if title == "" && artist == "" && album == "" {
		return Extraction{
			Description: musicDescription,
			Metadata:    Metadata{Status: MetadataAbsentNoData},
		}
	}

	return Extraction{
		Description: musicDescription,
		Metadata: Metadata{
			Status:      MetadataPresent,
			Description: formatTags(title, artist, album, mp3DurationSeconds(data)),
		},
	}
}

// formatTags renders the fixed metadata template. Missing fields read as
// "unknown" for the title and "Unknown" for artist and album.
func formatTags(title, artist, album string, durationSecs int) string {
	if title == "" {
		title = "unknown"
	}
	if artist == "" {
		artist = "Unknown"
	}
	if album == "" {
		album = "Unknown"
	}
	return fmt.Sprintf("Title: %s, Artist: %s, Album: %s, Duration: %ds",
		title, artist, album, durationSecs)
}

// mp3DurationSeconds sums frame durations across the stream, rounded to the
// nearest whole second. Anything undecodable counts as zero.
func mp3DurationSeconds(data []byte) int {
	decoder := mp3.NewDecoder(bytes.NewReader(data))

	var (
		frame   mp3.Frame
		skipped int
		total   float64
	)
	// Partial or truncated streams still contribute the frames read so far.
	for {
		if err := decoder.Decode(&frame, &skipped); err != nil {
			break
		}
		total += frame.Duration().Seconds()
	}

	return int(math.Round(total))
}
