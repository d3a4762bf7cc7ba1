package brief

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/hyperifyio/goarticle/internal/template"
)

// Word count bounds for a generation request.
const (
	MinWords     = 300
	MaxWords     = 5000
	DefaultWords = 1200
)

// ErrFieldRequired is returned when the field/industry is missing or blank.
var ErrFieldRequired = errors.New("field is required")

// ValidationError reports a malformed request attribute.
type ValidationError struct {
	Attr string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Attr, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Request is a validated article generation request.
type Request struct {
	Words    int           `json:"words"`
	Location string        `json:"location,omitempty"`
	Field    string        `json:"field"`
	Topic    string        `json:"topic,omitempty"`
	Tone     template.Tone `json:"tone"`
}

// Subject is what the article is about: the topic when given, else the field.
func (r Request) Subject() string {
	if r.Topic != "" {
		return r.Topic
	}
	return r.Field
}

// Payload mirrors the loosely-typed JSON body posted by clients.
type Payload struct {
	Words    *WordCount `json:"words"`
	Location string     `json:"location"`
	Field    string     `json:"field"`
	Topic    string     `json:"topic"`
	Tone     string     `json:"tone"`
}

// WordCount accepts a JSON number or a numeric string.
type WordCount struct {
	Value float64
	Set   bool
}

func (w *WordCount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
		if s == "" {
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("not a number: %s", s)
	}
	w.Value, w.Set = v, true
	return nil
}

// Decode reads a JSON payload from r and validates it.
func Decode(r io.Reader) (Request, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Request{}, &ValidationError{Attr: "request body", Err: err}
	}
	return p.Validate()
}

// Validate trims strings and collapses inner whitespace runs, including
// newlines, to single spaces. It clamps the word count into [MinWords, MaxWords]
// and parses the tone. Unknown tones fall back to template.Default.
func (p Payload) Validate() (Request, error) {
	req := Request{
		Words:    DefaultWords,
		Location: collapseSpace(p.Location),
		Field:    collapseSpace(p.Field),
		Topic:    collapseSpace(p.Topic),
	}
	if req.Field == "" {
		return Request{}, ErrFieldRequired
	}
	if p.Words != nil && p.Words.Set {
		req.Words = ClampWords(int(math.Round(p.Words.Value)))
	}
	req.Tone, _ = template.ParseTone(p.Tone)
	return req, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ClampWords bounds n to [MinWords, MaxWords].
func ClampWords(n int) int {
	if n < MinWords {
		return MinWords
	}
	if n > MaxWords {
		return MaxWords
	}
	return n
}
