package article

import (
	"fmt"
	"html"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/hyperifyio/goarticle/internal/keywords"
	"github.com/hyperifyio/goarticle/internal/template"
)

func inputFor(words int, field, location, topic string, tone template.Tone, secondary []string) Input {
	return Input{
		Words:     words,
		Field:     field,
		Location:  location,
		Topic:     topic,
		Tone:      tone,
		Primary:   keywords.Primary(field, location, topic, 0),
		Secondary: secondary,
	}
}

func TestGenerate_RealEstateScenario(t *testing.T) {
	a, err := Generate(inputFor(300, "Real Estate Marketing", "", "", template.Helpful, nil))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(a.HTML, "Real Estate Marketing") {
		t.Fatalf("html does not contain the field verbatim:\n%s", a.HTML)
	}
	if a.WordCount < 255 || a.WordCount > 345 {
		t.Fatalf("word count %d is not close to 300", a.WordCount)
	}
	if a.Meta.Title != "Real Estate Marketing" {
		t.Fatalf("title = %q, want field alone", a.Meta.Title)
	}
	if !strings.HasPrefix(a.HTML, "<article>") || !strings.Contains(a.HTML, "<h1") {
		t.Fatalf("expected an article with a top-level heading:\n%s", a.HTML)
	}
}

func TestGenerate_WordCountTracksTarget(t *testing.T) {
	secondary := []string{"pricing", "staging", "open houses", "listings", "photography"}
	for _, tone := range template.Tones {
		for _, words := range []int{300, 650, 1200, 2500, 5000} {
			for _, sec := range [][]string{nil, secondary} {
				name := fmt.Sprintf("%s/%d/secondary=%d", tone, words, len(sec))
				t.Run(name, func(t *testing.T) {
					a, err := Generate(inputFor(words, "Real Estate Marketing", "Austin, TX", "Neighborhood SEO", tone, sec))
					if err != nil {
						t.Fatalf("generate: %v", err)
					}
					lo, hi := int(float64(words)*0.85), int(float64(words)*1.15)
					if a.WordCount < lo || a.WordCount > hi {
						t.Fatalf("word count %d outside [%d,%d]", a.WordCount, lo, hi)
					}
				})
			}
		}
	}
}

func TestGenerate_LongHeadingsStayNearTarget(t *testing.T) {
	field := strings.TrimSpace(strings.Repeat("residential property marketing ", 8))
	topic := strings.TrimSpace(strings.Repeat("seasonal open house planning ", 7) + "tips and tricks")
	for _, tone := range template.Tones {
		a, err := Generate(inputFor(300, field, "Austin", topic, tone, []string{"pricing", "staging"}))
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if a.WordCount > 450 {
			t.Fatalf("%s: word count %d is far above 300", tone, a.WordCount)
		}
		if !strings.Contains(a.HTML, "<h2") {
			t.Fatalf("%s: expected at least one body section", tone)
		}
	}
}

func TestGenerate_InjectsKeywords(t *testing.T) {
	in := inputFor(1200, "Dental Care", "Leeds", "Invisalign Costs", template.Expert, []string{"aligners", "orthodontist"})
	a, err := Generate(in)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, k := range []string{"Dental Care", "Invisalign Costs", "Leeds", "aligners", "Orthodontist"} {
		if !strings.Contains(a.HTML, k) {
			t.Fatalf("expected %q in html", k)
		}
	}
	if !strings.Contains(a.HTML, "Key takeaways") || !strings.Contains(a.HTML, "Related topics") {
		t.Fatalf("expected takeaways and related topics sections")
	}
}

func TestGenerate_ShortArticleSkipsTakeaways(t *testing.T) {
	a, err := Generate(inputFor(400, "Plumbing", "", "", template.Helpful, nil))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if strings.Contains(a.HTML, "Key takeaways") || strings.Contains(a.HTML, "Related topics") {
		t.Fatalf("short article without secondary keywords should have no lists:\n%s", a.HTML)
	}
}

func TestGenerate_UnknownToneUsesDefault(t *testing.T) {
	a, err := Generate(inputFor(500, "Bakeries", "", "", template.Tone("sarcastic"), nil))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := Generate(inputFor(500, "Bakeries", "", "", template.Default, nil))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if a.HTML != b.HTML || a.Meta != b.Meta {
		t.Fatalf("unknown tone should render exactly like the default tone")
	}
}

func TestGenerate_TonesDiffer(t *testing.T) {
	seen := map[string]template.Tone{}
	for _, tone := range template.Tones {
		a, err := Generate(inputFor(600, "Yoga Studios", "", "", tone, nil))
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if prev, ok := seen[a.HTML]; ok {
			t.Fatalf("tones %q and %q produced identical html", prev, tone)
		}
		seen[a.HTML] = tone
	}
}

func TestGenerate_EscapesUserMarkup(t *testing.T) {
	a, err := Generate(inputFor(300, "<script>alert(1)</script>", "", "*bold* [x](http://evil)", template.Helpful, nil))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if strings.Contains(a.HTML, "<script>") || strings.Contains(a.HTML, "<em>") || strings.Contains(a.HTML, "href=") {
		t.Fatalf("user text leaked markup:\n%s", a.HTML)
	}
	if !strings.Contains(a.HTML, "&lt;script&gt;") {
		t.Fatalf("expected escaped script tag in html")
	}
}

func TestGenerate_PrimaryKeywordInUnescapedText(t *testing.T) {
	for _, field := range []string{"R&D Consulting", `"Quoted" <Brands>`, "Marketing ==="} {
		a, err := Generate(inputFor(300, field, "", "", template.Helpful, nil))
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !strings.Contains(html.UnescapeString(a.HTML), field) {
			t.Fatalf("%q not found in unescaped html:\n%s", field, a.HTML)
		}
		if n := strings.Count(a.HTML, "<h1"); n != 1 {
			t.Fatalf("%q: expected exactly one h1, got %d", field, n)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	in := inputFor(900, "Coffee Roasting", "Portland", "", template.Storytelling, []string{"beans"})
	a, _ := Generate(in)
	b, _ := Generate(in)
	if a.HTML != b.HTML {
		t.Fatalf("generation must be deterministic")
	}
}

func TestBuildMeta_Bounds(t *testing.T) {
	long := strings.Repeat("Extraordinarily Comprehensive Marketing ", 10)
	cases := []Input{
		inputFor(300, "Real Estate Marketing", "", "", template.Helpful, nil),
		inputFor(300, "Real Estate Marketing", "New York, US", "Neighborhood SEO Strategies", template.Expert, nil),
		inputFor(300, long, long, long, template.Storytelling, nil),
		inputFor(300, strings.Repeat("x", 200), "", "", template.Conversational, nil),
		inputFor(300, strings.Repeat("-", 80), "", "", template.Helpful, nil),
		inputFor(300, "-- -- --", strings.Repeat("– ", 60), "", template.Expert, nil),
	}
	for _, in := range cases {
		m := BuildMeta(in)
		if m.Title == "" || m.Description == "" {
			t.Fatalf("empty meta for %+v", in)
		}
		if n := utf8.RuneCountInString(m.Title); n > MaxTitleRunes {
			t.Fatalf("title too long (%d): %q", n, m.Title)
		}
		if n := utf8.RuneCountInString(m.Description); n > MaxDescriptionRunes {
			t.Fatalf("description too long (%d): %q", n, m.Description)
		}
	}
}

func TestBuildMeta_TitleWithLocation(t *testing.T) {
	m := BuildMeta(inputFor(300, "Real Estate Marketing", "New York, US", "Neighborhood SEO Strategies", template.Helpful, nil))
	if m.Title != "Neighborhood SEO Strategies in New York, US" {
		t.Fatalf("title = %q", m.Title)
	}
	if !strings.Contains(m.Description, "Neighborhood SEO Strategies") {
		t.Fatalf("description should mention the subject: %q", m.Description)
	}
}

func TestTruncateWords(t *testing.T) {
	if got := truncateWords("alpha beta gamma", 11, ""); got != "alpha beta" {
		t.Fatalf("got %q", got)
	}
	if got := truncateWords("alpha beta gamma", 12, "…"); got != "alpha beta…" {
		t.Fatalf("got %q", got)
	}
	if got := truncateWords("short", 70, "…"); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := truncateWords(strings.Repeat("-", 80), 70, ""); got != strings.Repeat("-", 70) {
		t.Fatalf("punctuation-only input must fall back to a hard cut, got %q", got)
	}
	if got := truncateWords("--- "+strings.Repeat("x", 80), 10, "…"); got != "--- xxxxx…" {
		t.Fatalf("got %q", got)
	}
}

func TestMarkdown_EscapesPunctuation(t *testing.T) {
	md := Markdown([]Block{
		{Kind: KindHeading, Level: 2, Text: "# not a heading"},
		{Kind: KindList, Items: []string{"a_b"}},
	})
	if !strings.Contains(md, "## \\# not a heading") || !strings.Contains(md, "- a\\_b") {
		t.Fatalf("unexpected markdown:\n%s", md)
	}
}

func BenchmarkGenerate(b *testing.B) {
	in := inputFor(2500, "Real Estate Marketing", "Austin", "Neighborhood SEO", template.Expert, []string{"pricing", "listings"})
	for i := 0; i < b.N; i++ {
		if _, err := Generate(in); err != nil {
			b.Fatal(err)
		}
	}
}
