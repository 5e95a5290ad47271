package dialogue

import (
	"strings"
	"testing"

	"scitech-bot/pkg/nlp"
	"scitech-bot/pkg/sentiment"
)

var tokenizer = nlp.NewWordTokenizer()

func newTestRouter(t *testing.T, catalog string) *Router {
	t.Helper()
	c, err := LoadCatalog(catalog)
	if err != nil {
		t.Fatalf("LoadCatalog(%q) error = %v", catalog, err)
	}
	return NewRouter(c)
}

func say(r *Router, s *Session, text string) Reply {
	return r.Respond(tokenizer.Tokenize(text), s)
}

func greeted(t *testing.T, r *Router) *Session {
	t.Helper()
	s := NewSession("test")
	if reply := say(r, s, "hola"); reply.Rule != RuleGreeting {
		t.Fatalf("greeting rule = %q, want %q", reply.Rule, RuleGreeting)
	}
	return s
}

func TestRespond_GreetingOnFreshSession(t *testing.T) {
	r := newTestRouter(t, "scitech")
	s := NewSession("a")

	reply := say(r, s, "hola")

	if reply.Rule != RuleGreeting {
		t.Errorf("Rule = %q, want %q", reply.Rule, RuleGreeting)
	}
	if !strings.Contains(reply.Text, "Hola") {
		t.Errorf("Text = %q, want a greeting", reply.Text)
	}
	if !s.Greeted {
		t.Error("Greeted = false after greeting")
	}
	if s.AwaitingMood {
		t.Error("AwaitingMood = true for a catalog without mood question")
	}
}

func TestRespond_RequiresGreetingFirst(t *testing.T) {
	r := newTestRouter(t, "scitech")
	s := NewSession("b")

	reply := say(r, s, "cuéntame sobre IA")

	if reply.Rule != RuleGreetFirst {
		t.Errorf("Rule = %q, want %q", reply.Rule, RuleGreetFirst)
	}
	if reply.Text != r.Catalog().Greeting.NotGreeted {
		t.Errorf("Text = %q, want the greet-first prompt", reply.Text)
	}
	if s.Greeted {
		t.Error("Greeted = true without a greeting keyword")
	}
	if s.LastTopic != "" || len(s.TopicsDiscussed) != 0 {
		t.Errorf("topic state changed before greeting: %q %v", s.LastTopic, s.TopicsDiscussed)
	}
}

func TestRespond_TopicIsRemembered(t *testing.T) {
	r := newTestRouter(t, "scitech")
	s := greeted(t, r)

	reply := say(r, s, "bitcoin y blockchain")

	if reply.Rule != RuleTopic || reply.Topic != TopicBlockchain {
		t.Fatalf("reply = %+v, want topic %q", reply, TopicBlockchain)
	}
	if !strings.Contains(reply.Text, "Bitcoin") {
		t.Errorf("Text = %q, want the bitcoin branch", reply.Text)
	}
	if s.LastTopic != TopicBlockchain {
		t.Errorf("LastTopic = %q, want %q", s.LastTopic, TopicBlockchain)
	}
	if !s.HasDiscussed(TopicBlockchain) {
		t.Errorf("TopicsDiscussed = %v, want it to contain %q", s.TopicsDiscussed, TopicBlockchain)
	}
}

func TestRespond_TopicsDiscussedHasSetSemantics(t *testing.T) {
	r := newTestRouter(t, "scitech")
	s := greeted(t, r)

	for _, msg := range []string{"hablemos de ia", "y de marte", "otra vez chatgpt", "un robot"} {
		say(r, s, msg)
	}

	want := []TopicID{TopicAI, TopicSpace}
	if len(s.TopicsDiscussed) != len(want) {
		t.Fatalf("TopicsDiscussed = %v, want %v", s.TopicsDiscussed, want)
	}
	for i := range want {
		if s.TopicsDiscussed[i] != want[i] {
			t.Errorf("TopicsDiscussed[%d] = %q, want %q", i, s.TopicsDiscussed[i], want[i])
		}
	}
	if s.LastTopic != TopicAI {
		t.Errorf("LastTopic = %q, want %q", s.LastTopic, TopicAI)
	}
}

func TestRespond_FarewellResetsSession(t *testing.T) {
	r := newTestRouter(t, "scitech")
	s := greeted(t, r)
	say(r, s, "quiero saber de inteligencia artificial")
	say(r, s, "y de la nasa")

	reply := say(r, s, "adios")

	if reply.Rule != RuleFarewell {
		t.Fatalf("Rule = %q, want %q", reply.Rule, RuleFarewell)
	}
	for _, name := range []string{"Inteligencia Artificial", "Exploración Espacial"} {
		if !strings.Contains(reply.Text, name) {
			t.Errorf("farewell %q does not mention %q", reply.Text, name)
		}
	}
	if s.Greeted || s.AwaitingMood || s.LastTopic != "" || len(s.TopicsDiscussed) != 0 {
		t.Errorf("session not reset: %+v", s)
	}

	if next := say(r, s, "cuéntame de marte"); next.Rule != RuleGreetFirst {
		t.Errorf("after farewell Rule = %q, want %q", next.Rule, RuleGreetFirst)
	}
}

func TestRespond_FarewellWithoutTopics(t *testing.T) {
	r := newTestRouter(t, "scitech")
	s := greeted(t, r)

	reply := say(r, s, "nos vemos")

	if reply.Text != r.Catalog().Farewell.Reply {
		t.Errorf("Text = %q, want plain farewell", reply.Text)
	}
}

func TestRespond_Cascade(t *testing.T) {
	r := newTestRouter(t, "scitech")

	tests := []struct {
		name     string
		message  string
		wantRule string
		wantText string
	}{
		{"positive mood", "estoy muy bien", RulePositiveMood, "alegra"},
		{"negative mood", "hoy estoy triste", RuleNegativeMood, "Lamento"},
		{"gratitude", "muchas gracias", RuleGratitude, "De nada"},
		{"identity", "¿Quién eres?", RuleIdentity, "SciTech Bot"},
		{"help", "necesito ayuda", RuleHelp, "Puedo ayudarte"},
		{"digest", "dame noticias", RuleDigest, "Novedades"},
		{"off domain sports", "me gusta el fútbol", RuleOffDomain, "deporte"},
		{"off domain food", "una receta de pizza", RuleOffDomain, "cocina"},
		{"multi-word topic", "me encanta el James Webb", RuleTopic, "infrarrojo"},
		{"farewell beats gratitude", "gracias, hasta luego", RuleFarewell, "Hasta pronto"},
		{"mood beats gratitude", "gracias, estoy bien", RulePositiveMood, "alegra"},
		{"topic beats digest", "noticias de fusión nuclear", RuleTopic, "tokamak"},
		{"topic beats off domain", "un videojuego con ia", RuleTopic, "Inteligencia Artificial"},
		{"fallback short", "algo raro", RuleFallback, "más específico"},
		{"fallback medium", "me pregunto cosas muy variadas", RuleFallback, "Interesante"},
		{"fallback long", "esta es una frase bastante larga que no menciona ningún asunto conocido hoy", RuleFallback, "reformular"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := greeted(t, r)
			reply := say(r, s, tt.message)

			if reply.Rule != tt.wantRule {
				t.Errorf("Rule = %q, want %q", reply.Rule, tt.wantRule)
			}
			if !strings.Contains(reply.Text, tt.wantText) {
				t.Errorf("Text = %q, want it to contain %q", reply.Text, tt.wantText)
			}
		})
	}
}

func TestRespond_FallbackTierBoundaries(t *testing.T) {
	r := newTestRouter(t, "scitech")
	f := r.Catalog().Fallback

	tests := []struct {
		name       string
		message    string
		wantTokens int
		wantText   string
	}{
		{"three words", "algo muy raro", 3, f.Short},
		{"punctuation counts", "algo raro?", 3, f.Short},
		{"four tokens", "algo muy raro?", 4, f.Medium},
		{"four words", "algo raro pasa aquí", 4, f.Medium},
		{"ten words", "hoy vi un pájaro azul cerca del lago muy tranquilo", 10, f.Medium},
		{"ten tokens with period", "hoy vi un pájaro azul cerca del lago tranquilo.", 10, f.Medium},
		{"eleven tokens with comma", "hoy vi un pájaro azul cerca del lago, muy tranquilo", 11, f.Long},
		{"eleven words", "ayer vi un pájaro azul cerca del lago muy tranquilo otra", 11, f.Long},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if n := len(tokenizer.Tokenize(tt.message)); n != tt.wantTokens {
				t.Fatalf("Tokenize(%q) produced %d tokens, want %d", tt.message, n, tt.wantTokens)
			}
			s := greeted(t, r)
			reply := say(r, s, tt.message)

			if reply.Rule != RuleFallback {
				t.Fatalf("Rule = %q, want %q", reply.Rule, RuleFallback)
			}
			if reply.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", reply.Text, tt.wantText)
			}
		})
	}
}

func TestRespond_RepliesReferenceLastTopic(t *testing.T) {
	r := newTestRouter(t, "scitech")

	tests := []struct {
		name     string
		message  string
		wantRule string
	}{
		{"gratitude", "gracias", RuleGratitude},
		{"fallback short", "vale", RuleFallback},
		{"fallback medium", "me pregunto cosas muy variadas", RuleFallback},
		{"fallback long", "esta es una frase bastante larga que no menciona ningún asunto conocido hoy", RuleFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := greeted(t, r)
			say(r, s, "hablemos de crispr")

			reply := say(r, s, tt.message)

			if reply.Rule != tt.wantRule {
				t.Errorf("Rule = %q, want %q", reply.Rule, tt.wantRule)
			}
			if !strings.Contains(reply.Text, "Medicina y Biotecnología") {
				t.Errorf("Text = %q, want it to reference the last topic", reply.Text)
			}
		})
	}
}

func TestRespond_NonTopicRulesDoNotMutateState(t *testing.T) {
	r := newTestRouter(t, "scitech")
	s := greeted(t, r)
	say(r, s, "spacex")
	before := s.Clone()

	for _, msg := range []string{"estoy bien", "estoy triste", "gracias", "¿quién eres?", "ayuda", "noticias", "fútbol", "mmm ok"} {
		say(r, s, msg)
	}

	if s.Greeted != before.Greeted || s.LastTopic != before.LastTopic || len(s.TopicsDiscussed) != len(before.TopicsDiscussed) {
		t.Errorf("state changed: before %+v after %+v", before, s)
	}
}

func TestRespond_PreGreetingInvariant(t *testing.T) {
	r := newTestRouter(t, "scitech")
	s := NewSession("inv")

	messages := []string{
		"hablemos de ia", "hola", "bitcoin", "marte", "adios", "crispr",
		"buenas", "fusión", "chao", "gracias", "hey", "cuántica", "bye", "nft",
	}
	for _, msg := range messages {
		say(r, s, msg)
		if !s.Greeted && (s.LastTopic != "" || len(s.TopicsDiscussed) != 0) {
			t.Fatalf("after %q: not greeted but topic state is %q %v", msg, s.LastTopic, s.TopicsDiscussed)
		}
	}
}

func TestRules_Order(t *testing.T) {
	r := newTestRouter(t, "scitech")
	want := []string{
		RuleFarewell, RulePositiveMood, RuleNegativeMood, RuleGratitude, RuleIdentity,
		RuleHelp, RuleTopic, RuleDigest, RuleOffDomain, RuleFallback,
	}

	got := r.Rules()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Rules() = %v, want %v", got, want)
	}
}

func TestRespond_AnimeMoodQuestion(t *testing.T) {
	r := newTestRouter(t, "anime")
	s := NewSession("anime")

	steps := []struct {
		message      string
		wantRule     string
		wantText     string
		wantAwaiting bool
	}{
		{"hola", RuleGreeting, "¿Cómo estás?", true},
		{"qué tal", RuleMoodRetry, "respóndeme", true},
		{"estoy feliz", RuleMoodCheck, "alegra", false},
		{"recomienda un anime", RuleTopic, "Fullmetal Alchemist", false},
		{"háblame de one piece", RuleTopic, "piratas", false},
		{"adios", RuleFarewell, "Anime", false},
	}

	for _, st := range steps {
		reply := say(r, s, st.message)
		if reply.Rule != st.wantRule {
			t.Errorf("%q: Rule = %q, want %q", st.message, reply.Rule, st.wantRule)
		}
		if !strings.Contains(reply.Text, st.wantText) {
			t.Errorf("%q: Text = %q, want it to contain %q", st.message, reply.Text, st.wantText)
		}
		if s.AwaitingMood != st.wantAwaiting {
			t.Errorf("%q: AwaitingMood = %v, want %v", st.message, s.AwaitingMood, st.wantAwaiting)
		}
	}
}

func TestRespond_AnimeMoodPolarity(t *testing.T) {
	r := newTestRouter(t, "anime")

	tests := []struct {
		message string
		want    string
	}{
		{"bien", r.Catalog().MoodCheck.PositiveReply},
		{"estoy mal", r.Catalog().MoodCheck.NegativeReply},
		{"regular", r.Catalog().MoodCheck.NeutralReply},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			s := greeted(t, r)
			if reply := say(r, s, tt.message); reply.Text != tt.want {
				t.Errorf("Text = %q, want %q", reply.Text, tt.want)
			}
		})
	}
}

func TestObserve(t *testing.T) {
	r := newTestRouter(t, "scitech")
	s := NewSession("obs")

	first := sentiment.Result{Label: sentiment.Negative, Confidence: 0.8, Probabilities: map[sentiment.Label]float64{sentiment.Negative: 0.8}}
	r.Observe(s, &first)
	r.Observe(s, nil)

	if s.MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2", s.MessageCount)
	}
	if s.LastSentiment == nil || s.LastSentiment.Label != sentiment.Negative {
		t.Fatalf("LastSentiment = %+v, want the negative result", s.LastSentiment)
	}

	second := sentiment.NeutralResult()
	r.Observe(s, &second)
	if s.LastSentiment.Label != sentiment.Neutral {
		t.Errorf("LastSentiment.Label = %q, want it replaced by %q", s.LastSentiment.Label, sentiment.Neutral)
	}
}
