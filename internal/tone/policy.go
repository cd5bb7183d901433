// Package tone maps a detected emotion to the tone and style modifiers used
// when generating a reply, and carries the company context interpolated into
// every prompt.
package tone

import (
	"errors"
	"fmt"

	"github.com/paulson-ai/backend/internal/emotion"
)

// ErrUnknownEmotion indicates a lookup outside the seven-label set. The
// classifier's closed output set makes this unreachable in practice; the
// check exists so a misconfigured call fails loudly instead of picking an
// arbitrary tone.
var ErrUnknownEmotion = errors.New("no tone policy for emotion")

// Entry is the immutable response style for one emotion.
type Entry struct {
	Tone           string
	StyleModifiers []string
}

// CompanyProfile is the immutable company context templated into every
// generated prompt.
type CompanyProfile struct {
	Name      string
	Expertise []string
	Values    []string
}

// Policy is the fixed emotion-to-style table, built once at startup and
// never mutated.
type Policy struct {
	entries map[emotion.Label]Entry
}

func NewPolicy() *Policy {
	return &Policy{
		entries: map[emotion.Label]Entry{
			emotion.Anger: {
				Tone:           "calming",
				StyleModifiers: []string{"reassuring", "professional", "solution-focused"},
			},
			emotion.Disgust: {
				Tone:           "concerned",
				StyleModifiers: []string{"pragmatic", "unbiased", "respectful"},
			},
			emotion.Fear: {
				Tone:           "soothing",
				StyleModifiers: []string{"reassuring", "calm", "supportive"},
			},
			emotion.Joy: {
				Tone:           "enthusiastic",
				StyleModifiers: []string{"upbeat", "optimistic", "encouraging"},
			},
			emotion.Neutral: {
				Tone:           "professional",
				StyleModifiers: []string{"informative", "balanced", "straightforward"},
			},
			emotion.Sadness: {
				Tone:           "empathetic",
				StyleModifiers: []string{"compassionate", "supportive", "understanding"},
			},
			emotion.Surprise: {
				Tone:           "curious",
				StyleModifiers: []string{"engaging", "inquisitive", "open-minded"},
			},
		},
	}
}

// For returns the style entry for the emotion.
func (p *Policy) For(label emotion.Label) (Entry, error) {
	entry, ok := p.entries[label]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownEmotion, label)
	}
	return entry, nil
}
