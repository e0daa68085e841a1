package dearrow

import (
	"encoding/json"
	"net/http"
)

// brandingRecord is the per-video payload of a branding response.
// Title order is significant: the first element is the server's
// preferred title.
type brandingRecord struct {
	Titles []brandingTitle `json:"titles"`
}

type brandingTitle struct {
	Title string `json:"title"`
}

// CuratedTitle selects the curated title for videoID out of a fetch
// outcome. The response body maps video ids to records and may carry
// entries for other ids sharing the same hash prefix, so only the
// exact id key is consulted. Non-200 statuses, decode failures,
// missing ids and empty title lists all collapse into the same
// "no curated title" answer.
func CuratedTitle(statusCode int, body []byte, videoID string) (string, bool) {
	if statusCode != http.StatusOK {
		return "", false
	}

	var records map[string]brandingRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return "", false
	}

	record, ok := records[videoID]
	if !ok || len(record.Titles) == 0 {
		return "", false
	}

	return record.Titles[0].Title, true
}
