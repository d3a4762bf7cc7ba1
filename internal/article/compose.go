package article

import (
	"strings"

	"github.com/hyperifyio/goarticle/internal/extract"
	"github.com/hyperifyio/goarticle/internal/template"
)

// BlockKind identifies a structural element of an article.
type BlockKind int

const (
	KindHeading BlockKind = iota
	KindParagraph
	KindList
)

// Block is one structural element. Text holds heading or paragraph text;
// Items holds list entries.
type Block struct {
	Kind  BlockKind
	Level int
	Text  string
	Items []string
}

// Section sizing.
const (
	wordsPerSection   = 300
	minBodySections   = 2
	maxBodySections   = 10
	takeawaysMinWords = 800
	maxRelatedTopics  = 8
	sentencesPerPara  = 4
	introShare        = 0.12
	conclusionShare   = 0.10
)

// section is a heading plus prose generated to a word target.
type section struct {
	heading string
	level   int
	keyword string
	// pool is walked from start; body sections share one rotating pool.
	pool   []string
	start  int
	target int
	after  []Block
}

// layout is the section plan for one article before prose is generated.
type layout struct {
	fixed      []Block
	intro      *section
	bodies     []*section
	conclusion *section
}

func (l *layout) sections() []*section {
	out := append([]*section{l.intro}, l.bodies...)
	return append(out, l.conclusion)
}

// structuralWords counts title, heading and list words that are written
// regardless of the prose budget.
func (l *layout) structuralWords() int {
	n := blockWords(l.fixed)
	for _, s := range l.sections() {
		n += extract.CountWords(s.heading) + blockWords(s.after)
	}
	return n
}

// Compose lays out the article and fills each section with sentences until
// the running total is as close to in.Words as sentence granularity allows.
// Words spent on headings and lists are deducted from the prose budget, and
// each section's surplus or deficit carries into the next one. When long
// headings leave no room for even one sentence per section, body sections
// are dropped down to a single one.
func Compose(in Input) []Block {
	profile := template.GetProfile(in.Tone)
	subject := subjectOf(in)
	headingKWs := headingKeywords(in, subject)
	related := relatedPool(in, headingKWs)
	vars := template.Vars{Subject: subject, Field: in.Field, Location: in.Location}

	nBody := in.Words / wordsPerSection
	if nBody < minBodySections {
		nBody = minBodySections
	}
	if nBody > maxBodySections {
		nBody = maxBodySections
	}

	l := newLayout(in, profile, subject, headingKWs, nBody)
	for nBody > 1 && l.structuralWords()+minimumProse(l, vars, related) > in.Words {
		nBody--
		l = newLayout(in, profile, subject, headingKWs, nBody)
	}

	prose := in.Words - l.structuralWords()
	if prose < 0 {
		prose = 0
	}
	l.intro.target = int(float64(prose) * introShare)
	l.conclusion.target = int(float64(prose) * conclusionShare)
	perBody := (prose - l.intro.target - l.conclusion.target) / nBody
	for _, b := range l.bodies {
		b.target = perBody
	}

	relIdx := 0
	carry := 0
	blocks := l.fixed
	for _, s := range l.sections() {
		if s.heading != "" {
			blocks = append(blocks, Block{Kind: KindHeading, Level: s.level, Text: s.heading})
		}
		target := s.target + carry
		var sentences []string
		written := 0
		for i := 0; i < len(s.pool)*8; i++ {
			v := vars
			v.Keyword = s.keyword
			v.Related = related[relIdx%len(related)]
			sent := template.Fill(s.pool[(s.start+i)%len(s.pool)], v)
			n := extract.CountWords(sent)
			if len(sentences) > 0 && (written >= target || written+n-target > target-written) {
				break
			}
			sentences = append(sentences, capitalize(sent))
			written += n
			if strings.Contains(s.pool[(s.start+i)%len(s.pool)], "{related}") {
				relIdx++
			}
		}
		carry = target - written
		blocks = append(blocks, paragraphs(sentences)...)
		blocks = append(blocks, s.after...)
	}
	return blocks
}

func newLayout(in Input, profile template.Profile, subject string, headingKWs []string, nBody int) *layout {
	title := subject
	if in.Location != "" {
		title += " in " + in.Location
	}
	l := &layout{fixed: []Block{{Kind: KindHeading, Level: 1, Text: title}}}

	l.intro = &section{keyword: subject, pool: append(append([]string{}, profile.Intro...), profile.Body...)}
	if len(in.Primary) > 1 {
		l.intro.after = keyTopics(in.Primary[1:], in.Words/10)
	}

	bodyHeadings := make([]string, 0, nBody)
	for i := 0; i < nBody; i++ {
		kw := headingKWs[i%len(headingKWs)]
		h := template.Fill(profile.Headings[i%len(profile.Headings)], template.Vars{Keyword: kw, Location: in.Location})
		bodyHeadings = append(bodyHeadings, h)
		l.bodies = append(l.bodies, &section{heading: h, level: 2, keyword: kw, pool: profile.Body, start: i * 3})
	}

	l.conclusion = &section{
		heading: profile.ConclusionHeading,
		level:   2,
		keyword: subject,
		pool:    append(append([]string{}, profile.Conclusion...), profile.Body...),
	}
	if in.Words >= takeawaysMinWords {
		l.conclusion.after = append(l.conclusion.after,
			Block{Kind: KindHeading, Level: 3, Text: "Key takeaways"},
			Block{Kind: KindList, Items: bodyHeadings},
		)
	}
	if len(in.Secondary) > 0 {
		n := len(in.Secondary)
		if n > maxRelatedTopics {
			n = maxRelatedTopics
		}
		items := make([]string, 0, n)
		for _, k := range in.Secondary[:n] {
			items = append(items, titleCase(k))
		}
		l.conclusion.after = append(l.conclusion.after,
			Block{Kind: KindHeading, Level: 3, Text: "Related topics"},
			Block{Kind: KindList, Items: items},
		)
	}
	return l
}

// keyTopics lists keywords while the paragraph stays within limit words.
// Nothing is returned when not even the first keyword fits.
func keyTopics(kws []string, limit int) []Block {
	n := 2 // "Key topics:"
	var fit []string
	for _, k := range kws {
		w := extract.CountWords(k)
		if n+w > limit {
			break
		}
		fit = append(fit, k)
		n += w
	}
	if len(fit) == 0 {
		return nil
	}
	return []Block{{Kind: KindParagraph, Text: "Key topics: " + strings.Join(fit, ", ") + "."}}
}

// minimumProse is the word count of the first sentence of every section,
// which is always written.
func minimumProse(l *layout, vars template.Vars, related []string) int {
	n := 0
	for _, s := range l.sections() {
		v := vars
		v.Keyword = s.keyword
		v.Related = related[0]
		n += extract.CountWords(template.Fill(s.pool[s.start%len(s.pool)], v))
	}
	return n
}

// headingKeywords returns the phrases used inside headings: the topic and
// the field. Location and suffix variants read badly in headings.
func headingKeywords(in Input, subject string) []string {
	out := []string{subject}
	if f := strings.TrimSpace(in.Field); f != "" && !strings.EqualFold(f, subject) {
		out = append(out, f)
	}
	return out
}

func relatedPool(in Input, fallback []string) []string {
	if len(in.Secondary) > 0 {
		return in.Secondary
	}
	return fallback
}

func paragraphs(sentences []string) []Block {
	var out []Block
	for i := 0; i < len(sentences); i += sentencesPerPara {
		end := i + sentencesPerPara
		if end > len(sentences) {
			end = len(sentences)
		}
		out = append(out, Block{Kind: KindParagraph, Text: strings.Join(sentences[i:end], " ")})
	}
	return out
}

func blockWords(blocks []Block) int {
	n := 0
	for _, b := range blocks {
		n += extract.CountWords(b.Text)
		for _, it := range b.Items {
			n += extract.CountWords(it)
		}
	}
	return n
}

// capitalize upper-cases the first letter of a sentence that starts with an
// interpolated lower-case keyword.
func capitalize(s string) string {
	for i, r := range s {
		if r >= 'a' && r <= 'z' {
			return s[:i] + string(r-'a'+'A') + s[i+len(string(r)):]
		}
		return s
	}
	return s
}

var markdownEscaper = func() *strings.Replacer {
	const special = "\\`*_{}[]<>()#+-.!|~&"
	pairs := make([]string, 0, len(special)*2)
	for _, r := range special {
		pairs = append(pairs, string(r), "\\"+string(r))
	}
	return strings.NewReplacer(pairs...)
}()

// Markdown renders blocks as CommonMark with all punctuation escaped, so
// user-supplied text can never introduce markup.
func Markdown(blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		switch b.Kind {
		case KindHeading:
			sb.WriteString(strings.Repeat("#", b.Level))
			sb.WriteString(" ")
			sb.WriteString(markdownEscaper.Replace(b.Text))
			sb.WriteString("\n\n")
		case KindParagraph:
			sb.WriteString(markdownEscaper.Replace(b.Text))
			sb.WriteString("\n\n")
		case KindList:
			for _, it := range b.Items {
				sb.WriteString("- ")
				sb.WriteString(markdownEscaper.Replace(it))
				sb.WriteString("\n")
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
