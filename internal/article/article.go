package article

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hyperifyio/goarticle/internal/extract"
	"github.com/hyperifyio/goarticle/internal/template"
)

// Meta bounds.
const (
	MaxTitleRunes       = 70
	MaxDescriptionRunes = 160
)

// Input carries an already validated request plus its keywords.
type Input struct {
	Words     int
	Field     string
	Location  string
	Topic     string
	Tone      template.Tone
	Primary   []string
	Secondary []string
}

// Meta is the SEO metadata for an article.
type Meta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Article is a generated document. Blocks is the structured form that HTML
// was rendered from; exporters use it directly.
type Article struct {
	HTML      string
	Blocks    []Block
	Meta      Meta
	WordCount int
}

var renderer = goldmark.New(goldmark.WithParserOptions(parser.WithAutoHeadingID()))

// Generate writes an article of roughly in.Words words. The only error source
// is Markdown rendering.
func Generate(in Input) (Article, error) {
	blocks := Compose(in)
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(Markdown(blocks)), &buf); err != nil {
		return Article{}, fmt.Errorf("render markdown: %w", err)
	}
	html := "<article>\n" + buf.String() + "</article>\n"
	return Article{
		HTML:      html,
		Blocks:    blocks,
		Meta:      BuildMeta(in),
		WordCount: extract.CountWords(extract.FromHTML([]byte(html)).Text),
	}, nil
}

func subjectOf(in Input) string {
	if s := strings.TrimSpace(in.Topic); s != "" {
		return s
	}
	return strings.TrimSpace(in.Field)
}

// BuildMeta derives the title and description from the request alone.
func BuildMeta(in Input) Meta {
	subject := subjectOf(in)
	title := subject
	if in.Location != "" {
		title += " in " + in.Location
	}
	profile := template.GetProfile(in.Tone)
	desc := template.Fill(profile.Description, template.Vars{
		Subject:  subject,
		Field:    in.Field,
		Location: in.Location,
	})
	return Meta{
		Title:       truncateWords(title, MaxTitleRunes, ""),
		Description: truncateWords(desc, MaxDescriptionRunes, "…"),
	}
}

// truncateWords shortens s to at most limit runes, cutting on a word boundary
// when one exists and appending suffix when anything was cut.
func truncateWords(s string, limit int, suffix string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	budget := limit - len([]rune(suffix))
	cut := string(r[:budget])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	if trimmed := strings.TrimRight(cut, " ,;:-–"); trimmed != "" {
		cut = trimmed
	} else {
		// Nothing but punctuation before the cut: keep a hard rune cut so
		// the result is never empty.
		cut = strings.TrimSpace(string(r[:budget]))
	}
	return cut + suffix
}

func titleCase(s string) string {
	return cases.Title(language.English, cases.NoLower).String(s)
}
