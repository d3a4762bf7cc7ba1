package template

import "strings"

// Tone selects the phrasing profile used to write an article.
type Tone string

const (
	// Helpful is a practical, step-by-step voice. It is the default.
	Helpful Tone = "helpful"
	// Expert is an authoritative, analytical voice.
	Expert Tone = "expert"
	// Storytelling frames advice around scenarios and people.
	Storytelling Tone = "storytelling"
	// Conversational speaks directly to the reader in a relaxed register.
	Conversational Tone = "conversational"
)

// Default is the tone used when none or an unknown one is requested.
const Default = Helpful

// Tones lists the supported tones in display order.
var Tones = []Tone{Helpful, Expert, Storytelling, Conversational}

// ParseTone maps free-form input onto a Tone. Unknown values yield Default
// and ok=false so callers can log the substitution.
func ParseTone(s string) (t Tone, ok bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "helpful", "practical", "friendly":
		return Helpful, true
	case "expert", "authoritative", "professional", "technical":
		return Expert, true
	case "storytelling", "story", "narrative":
		return Storytelling, true
	case "conversational", "casual", "chatty":
		return Conversational, true
	}
	return Default, v == ""
}

func (t Tone) String() string { return string(t) }

// Profile holds the sentence and heading templates for a tone. Templates use
// the placeholders {subject}, {field}, {kw}, {related}, {where} and {place};
// see Fill.
type Profile struct {
	Tone              Tone
	Name              string
	Headings          []string
	Intro             []string
	Body              []string
	Conclusion        []string
	ConclusionHeading string
	Description       string
}

// GetProfile returns the profile for t, falling back to the default profile.
func GetProfile(t Tone) Profile {
	switch t {
	case Expert:
		return expertProfile()
	case Storytelling:
		return storytellingProfile()
	case Conversational:
		return conversationalProfile()
	default:
		return helpfulProfile()
	}
}

// Vars are the values substituted into templates.
type Vars struct {
	Subject string
	Field   string
	Keyword string
	Related string
	// Location may be empty; {where} then disappears and {place} reads
	// "your market".
	Location string
}

// Fill substitutes v into tmpl.
func Fill(tmpl string, v Vars) string {
	where, place := "", "your market"
	if v.Location != "" {
		where = " in " + v.Location
		place = v.Location
	}
	r := strings.NewReplacer(
		"{subject}", v.Subject,
		"{field}", v.Field,
		"{kw}", v.Keyword,
		"{related}", v.Related,
		"{where}", where,
		"{place}", place,
	)
	return r.Replace(tmpl)
}

// shared sentences are mixed into every profile's body pool.
var shared = []string{
	"Start by writing down what success with {kw} looks like{where} over the next ninety days.",
	"Small, consistent improvements to {kw} tend to compound faster than occasional big campaigns.",
	"Pair every {kw} decision with one number you can check each week, such as inquiries or qualified leads.",
	"Customers comparing options{where} usually search for {related} before they ever contact a provider.",
	"Documenting how you handle {related} makes it easier to train new team members and stay consistent.",
	"Review your results every month and retire the {kw} tactics that no longer earn their keep.",
	"Clear, specific language about {related} builds more trust than broad promises ever will.",
	"When budgets are tight, focus {kw} spending on the channels that already bring in your best clients.",
}

func helpfulProfile() Profile {
	return Profile{
		Tone: Helpful,
		Name: "Helpful guide",
		Headings: []string{
			"What {kw} Means Today",
			"Getting Started with {kw}",
			"Proven {kw} Strategies",
			"Common {kw} Mistakes to Avoid",
			"Measuring {kw} Results",
			"Tools and Resources for {kw}",
			"Local Factors That Shape {kw}",
			"Planning Your Next Steps with {kw}",
		},
		Intro: []string{
			"If you work in {field}, getting {subject} right{where} can make a real difference to the clients you attract.",
			"This guide walks through the practical steps, common pitfalls and simple checks that keep {kw} on track.",
			"You do not need a large budget to start, only a clear plan and the habit of measuring what works.",
			"Along the way we will look at {related} and how it connects to your everyday work.",
		},
		Body: append([]string{
			"A simple first step is to list the questions your clients ask most often about {kw}.",
			"Answer each of those questions in plain language, then link the answers together so readers can keep exploring.",
			"Keep a short checklist for {kw} so nothing important slips when things get busy.",
			"It helps to look at how {related} fits into the decisions your clients are already making.",
			"Set aside a regular time each week to update your {kw} work rather than waiting for a slow month.",
			"Ask recent clients what nearly stopped them from choosing you, and address those concerns directly.",
			"Use examples from {place} so readers can picture exactly how the advice applies to them.",
			"Try one change at a time so you can see which part of your {kw} approach actually moved the needle.",
		}, shared...),
		Conclusion: []string{
			"Improving {subject}{where} is a steady process rather than a one-time project.",
			"Pick one idea from this guide, put it into practice this week and note the result.",
			"Revisit {kw} every quarter, keep what works and adjust the rest with confidence.",
		},
		ConclusionHeading: "Conclusion",
		Description:       "A practical guide to {subject}{where} for {field} professionals, with clear steps, common mistakes to avoid and simple ways to measure results.",
	}
}

func expertProfile() Profile {
	return Profile{
		Tone: Expert,
		Name: "Expert analysis",
		Headings: []string{
			"The Current State of {kw}",
			"Core Principles of {kw}",
			"Advanced {kw} Strategies",
			"Evaluating {kw} Performance",
			"Risk Factors in {kw}",
			"Market Dynamics Affecting {kw}",
			"Benchmarks and Standards for {kw}",
			"Strategic Outlook for {kw}",
		},
		Intro: []string{
			"{subject}{where} has matured into a discipline where disciplined execution separates leaders from the rest of {field}.",
			"This analysis examines the principles, performance indicators and structural trends that shape {kw} today.",
			"Practitioners who treat {related} as a measurable system consistently outperform those who rely on intuition.",
			"The sections below focus on decisions that hold up under scrutiny rather than short-lived tactics.",
		},
		Body: append([]string{
			"Rigorous practitioners define a baseline for {kw} before changing any variable.",
			"Attribution remains the weakest link in most {kw} programs, so invest early in clean tracking.",
			"Data from {place} often diverges from national averages, which makes local benchmarks essential.",
			"The interaction between {related} and {kw} is frequently underestimated in planning cycles.",
			"Segmenting results by channel and audience exposes inefficiencies that blended metrics conceal.",
			"Mature {field} teams document assumptions explicitly so they can be tested and revised.",
			"Cost per qualified outcome is a more reliable indicator than raw volume for evaluating {kw}.",
			"Regulatory and reputational constraints should be mapped before scaling any {kw} initiative.",
		}, shared...),
		Conclusion: []string{
			"Sustained performance in {subject}{where} depends on measurement discipline and clear priorities.",
			"Organizations that institutionalize {kw} reviews adapt faster when market conditions shift.",
			"Treat {related} as a strategic input, and the returns on {kw} become far more predictable.",
		},
		ConclusionHeading: "Strategic Summary",
		Description:       "An expert analysis of {subject}{where}: core principles, performance benchmarks and strategies that {field} leaders rely on.",
	}
}

func storytellingProfile() Profile {
	return Profile{
		Tone: Storytelling,
		Name: "Storytelling",
		Headings: []string{
			"How One Team Rethought {kw}",
			"The Turning Point for {kw}",
			"Lessons Learned from {kw}",
			"When {kw} Goes Wrong",
			"The Quiet Wins of {kw}",
			"A Day in the Life of {kw}",
			"What the Numbers Said About {kw}",
			"Where the {kw} Story Goes Next",
		},
		Intro: []string{
			"Picture a small {field} team{where} staring at a quiet inbox and wondering what changed.",
			"Their story is a familiar one, and it shows why {subject} matters more than most people expect.",
			"Over the next few sections we follow the choices they made around {kw}, including the ones that did not work.",
			"Their experience with {related} offers lessons that apply well beyond a single business.",
		},
		Body: append([]string{
			"At first the team assumed {kw} would take care of itself once the website was live.",
			"A conversation with a frustrated client in {place} changed that assumption almost overnight.",
			"They started keeping a notebook of every question prospects asked about {related}.",
			"Within a few weeks, patterns appeared that nobody on the team had noticed before.",
			"One small experiment with {kw} produced more inquiries than the previous quarter's campaign.",
			"Not every idea landed, and the failures taught them just as much as the wins.",
			"The biggest shift was cultural, as the whole team began to treat {kw} as shared work.",
			"Looking back, they realized the answers had been sitting in their client conversations all along.",
		}, shared...),
		Conclusion: []string{
			"Every {field} business{where} has its own version of this story waiting to be written.",
			"The next chapter of your {kw} story starts with one honest look at what your clients need.",
			"Listen closely, test patiently and let {related} guide the plot.",
		},
		ConclusionHeading: "The Next Chapter",
		Description:       "The story of how a {field} team transformed {subject}{where}, with lessons you can apply to your own business.",
	}
}

func conversationalProfile() Profile {
	return Profile{
		Tone: Conversational,
		Name: "Conversational",
		Headings: []string{
			"So, What Is {kw} Really?",
			"Why {kw} Matters to You",
			"Easy Wins with {kw}",
			"Things People Get Wrong About {kw}",
			"How to Tell If {kw} Is Working",
			"Our Favorite {kw} Shortcuts",
			"{kw} Around the Neighborhood",
			"What to Try Next with {kw}",
		},
		Intro: []string{
			"Let's be honest, {subject} can feel like a lot when you are also running a {field} business{where}.",
			"The good news is that you do not have to figure it all out at once.",
			"We will keep things simple, talk through {kw} step by step and skip the jargon.",
			"Grab a coffee, and let's look at how {related} fits into the picture.",
		},
		Body: append([]string{
			"Here is the thing about {kw}: the basics matter way more than the fancy stuff.",
			"You probably already know more about {related} than you give yourself credit for.",
			"If something feels confusing to you, it is almost certainly confusing your clients too.",
			"Think about the last time someone in {place} asked you a question you loved answering.",
			"That kind of question is pure gold for {kw}, so write it down and build on it.",
			"Do not worry about being perfect, because showing up consistently beats polish every time.",
			"A quick check-in with your numbers once a week keeps {kw} from drifting off course.",
			"And if a tactic feels awkward, it is fine to drop it and try something that fits you better.",
		}, shared...),
		Conclusion: []string{
			"That's the big picture on {subject}{where}, and it is a lot less scary than it looks.",
			"Pick the one tip that made you nod along and give it a go this week.",
			"You have got this, and your future clients searching for {related} will thank you.",
		},
		ConclusionHeading: "Wrapping Up",
		Description:       "A friendly, jargon-free look at {subject}{where} for busy {field} pros, with easy wins you can try this week.",
	}
}
