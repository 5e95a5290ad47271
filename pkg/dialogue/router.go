package dialogue

import (
	"fmt"

	"scitech-bot/pkg/sentiment"
)

// Rule names reported with every reply
const (
	RuleGreeting     = "greeting"
	RuleGreetFirst   = "greet_first"
	RuleMoodCheck    = "mood_check"
	RuleMoodRetry    = "mood_retry"
	RuleFarewell     = "farewell"
	RulePositiveMood = "positive_mood"
	RuleNegativeMood = "negative_mood"
	RuleGratitude    = "gratitude"
	RuleIdentity     = "identity"
	RuleHelp         = "help"
	RuleTopic        = "topic"
	RuleDigest       = "digest"
	RuleOffDomain    = "off_domain"
	RuleFallback     = "fallback"
)

// Reply is the routed answer for one turn
type Reply struct {
	Text  string  `json:"text"`
	Rule  string  `json:"rule"`
	Topic TopicID `json:"topic,omitempty"`
}

type turn struct {
	tokens  []string
	session *Session
}

type rule struct {
	name  string
	match func(t turn) bool
	apply func(t turn) Reply
}

// Router selects replies from a catalog. It holds no per-session state and is
// safe to share between goroutines.
type Router struct {
	catalog *Catalog
	cascade []rule
}

func NewRouter(catalog *Catalog) *Router {
	r := &Router{catalog: catalog}
	r.cascade = r.buildCascade()
	return r
}

func (r *Router) Catalog() *Catalog {
	return r.catalog
}

// Rules lists the steady-state cascade in evaluation order
func (r *Router) Rules() []string {
	names := make([]string, len(r.cascade))
	for i, rl := range r.cascade {
		names[i] = rl.name
	}
	return names
}

// Observe records the bookkeeping of an accepted message: the counter and the
// latest sentiment, which replaces the previous one.
func (r *Router) Observe(s *Session, result *sentiment.Result) {
	s.MessageCount++
	if result != nil {
		res := *result
		s.LastSentiment = &res
	}
}

// Respond routes tokens against the session, mutating it in place
func (r *Router) Respond(tokens []string, s *Session) Reply {
	t := turn{tokens: tokens, session: s}
	c := r.catalog

	if !s.Greeted {
		if c.Greeting.compiled.Match(tokens) {
			s.markGreeted(c.AskMood)
			return Reply{Text: c.Greeting.Reply, Rule: RuleGreeting}
		}
		return Reply{Text: c.Greeting.NotGreeted, Rule: RuleGreetFirst}
	}

	if s.AwaitingMood {
		return r.moodCheck(t)
	}

	for _, rl := range r.cascade {
		if rl.match(t) {
			return rl.apply(t)
		}
	}
	// unreachable, fallback always matches
	return r.fallback(t)
}

func (r *Router) buildCascade() []rule {
	c := r.catalog
	return []rule{
		{name: RuleFarewell, match: matchKeywords(c.Farewell.compiled), apply: r.farewell},
		{name: RulePositiveMood, match: matchKeywords(c.PositiveMood.compiled), apply: fixed(RulePositiveMood, c.PositiveMood.Reply)},
		{name: RuleNegativeMood, match: matchKeywords(c.NegativeMood.compiled), apply: fixed(RuleNegativeMood, c.NegativeMood.Reply)},
		{name: RuleGratitude, match: matchKeywords(c.Gratitude.compiled), apply: r.gratitude},
		{name: RuleIdentity, match: matchKeywords(c.Identity.compiled), apply: fixed(RuleIdentity, c.Identity.Reply)},
		{name: RuleHelp, match: matchKeywords(c.Help.compiled), apply: fixed(RuleHelp, c.Help.Reply)},
		{name: RuleTopic, match: r.hasTopic, apply: r.topic},
		{name: RuleDigest, match: matchKeywords(c.Digest.compiled), apply: fixed(RuleDigest, c.Digest.Reply)},
		{name: RuleOffDomain, match: matchKeywords(c.offDomain), apply: r.offDomain},
		{name: RuleFallback, match: func(turn) bool { return true }, apply: r.fallback},
	}
}

func matchKeywords(k Keywords) func(t turn) bool {
	return func(t turn) bool {
		return k.Match(t.tokens)
	}
}

func fixed(name, text string) func(t turn) Reply {
	return func(turn) Reply {
		return Reply{Text: text, Rule: name}
	}
}

func (r *Router) moodCheck(t turn) Reply {
	m := r.catalog.MoodCheck
	var text string
	switch {
	case m.positive.Match(t.tokens):
		text = m.PositiveReply
	case m.negative.Match(t.tokens):
		text = m.NegativeReply
	case m.neutral.Match(t.tokens):
		text = m.NeutralReply
	default:
		return Reply{Text: m.Retry, Rule: RuleMoodRetry}
	}
	t.session.AwaitingMood = false
	return Reply{Text: text, Rule: RuleMoodCheck}
}

func (r *Router) farewell(t turn) Reply {
	f := r.catalog.Farewell
	text := f.Reply
	if len(t.session.TopicsDiscussed) > 0 && f.ReplyWithTopics != "" {
		text = fmt.Sprintf(f.ReplyWithTopics, t.session.TopicNames(r.catalog))
	}
	t.session.reset()
	return Reply{Text: text, Rule: RuleFarewell}
}

func (r *Router) gratitude(t turn) Reply {
	g := r.catalog.Gratitude
	return Reply{Text: r.withTopic(t.session, g.Reply, g.ReplyWithTopic), Rule: RuleGratitude}
}

func (r *Router) hasTopic(t turn) bool {
	_, ok := r.catalog.Classify(t.tokens)
	return ok
}

func (r *Router) topic(t turn) Reply {
	id, _ := r.catalog.Classify(t.tokens)
	t.session.rememberTopic(id)

	topic, _ := r.catalog.Topic(id)
	for _, b := range topic.Branches {
		if b.compiled.Match(t.tokens) {
			return Reply{Text: b.Reply, Rule: RuleTopic, Topic: id}
		}
	}
	return Reply{Text: topic.Default, Rule: RuleTopic, Topic: id}
}

func (r *Router) offDomain(t turn) Reply {
	od := r.catalog.OffDomain
	for _, a := range od.Areas {
		if a.compiled.Match(t.tokens) {
			return Reply{Text: a.Reply, Rule: RuleOffDomain}
		}
	}
	return Reply{Text: od.Default, Rule: RuleOffDomain}
}

func (r *Router) fallback(t turn) Reply {
	f := r.catalog.Fallback
	var text string
	switch n := len(t.tokens); {
	case n <= f.ShortMax:
		text = r.withTopic(t.session, f.Short, f.ShortWithTopic)
	case n <= f.MediumMax:
		text = r.withTopic(t.session, f.Medium, f.MediumWithTopic)
	default:
		text = r.withTopic(t.session, f.Long, f.LongWithTopic)
	}
	return Reply{Text: text, Rule: RuleFallback}
}

func (r *Router) withTopic(s *Session, plain, templ string) string {
	if s.LastTopic == "" || templ == "" {
		return plain
	}
	return fmt.Sprintf(templ, r.catalog.TopicName(s.LastTopic))
}
