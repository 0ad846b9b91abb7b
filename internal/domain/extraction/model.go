package extraction

import "context"

// MaxRows caps how many candidate rows one scoreboard extraction may return.
const MaxRows = 10

// Row is one candidate team result read off a match screenshot. Points is a
// pointer because extractors may omit it; the ingestion path derives the
// default score in that case and re-validates everything regardless of what
// the extractor claims.
type Row struct {
	TeamName string
	Kills    int
	Points   *int
}

// Extractor turns an image payload into structured candidate rows. The core
// assumes nothing about how extraction works.
type Extractor interface {
	ExtractScoreboard(ctx context.Context, image []byte, contentType string) ([]Row, error)
}
