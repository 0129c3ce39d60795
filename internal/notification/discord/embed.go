package discord

import (
	"time"
	"unicode/utf8"

	"github.com/assist-by/signalhub/internal/domain"
)

// Discord embed limits.
const (
	maxTitle       = 256
	maxDescription = 4096
	maxFieldName   = 256
	maxFieldValue  = 1024
	maxFields      = 25
)

// WebhookMessage is a Discord webhook payload.
type WebhookMessage struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Embed is a Discord message embed. Setters clip text to Discord's limits.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

func NewEmbed() *Embed {
	return &Embed{}
}

func (e *Embed) SetTitle(title string) *Embed {
	e.Title = clip(title, maxTitle)
	return e
}

func (e *Embed) SetDescription(desc string) *Embed {
	e.Description = clip(desc, maxDescription)
	return e
}

func (e *Embed) SetColor(color int) *Embed {
	e.Color = color
	return e
}

// SetRating colors the embed by rating.
func (e *Embed) SetRating(r domain.Rating) *Embed {
	return e.SetColor(r.Color())
}

// AddField appends a field. Blank values become "-" since Discord rejects
// them; fields past the 25th are dropped.
func (e *Embed) AddField(name, value string, inline bool) *Embed {
	if len(e.Fields) >= maxFields {
		return e
	}
	if value == "" {
		value = "-"
	}
	e.Fields = append(e.Fields, EmbedField{
		Name:   clip(name, maxFieldName),
		Value:  clip(value, maxFieldValue),
		Inline: inline,
	})
	return e
}

func (e *Embed) SetFooter(text string) *Embed {
	e.Footer = &EmbedFooter{Text: text}
	return e
}

func (e *Embed) SetTimestamp(t time.Time) *Embed {
	e.Timestamp = t.UTC().Format(time.RFC3339)
	return e
}

// clip shortens s to at most n runes, marking the cut with an ellipsis.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
