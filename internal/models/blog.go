package models

import (
	"encoding/json"
	"time"
)

// Blog is a lesson: source text plus its pre-segmented token stream
// (word, pinyin, translation triples stored as jsonb).
type Blog struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Text      string          `json:"text"`
	Tokens    json.RawMessage `json:"tokens"`
	ImageURL  *string         `json:"image_url"`
	ImageAlt  *string         `json:"image_alt"`
	CreatedAt time.Time       `json:"created_at"`
}
