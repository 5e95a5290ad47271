package sentiment

import (
	"context"
	"strings"

	"scitech-bot/pkg/nlp"
)

// neutralMass is the prior weight given to the neutral class. A single mild keyword
// therefore ties with neutral and only stronger evidence tips the balance.
const neutralMass = 1.0

var positiveLexicon = map[string]float64{
	"encanta": 2, "encantan": 2, "encantó": 2, "amo": 2, "genial": 2, "excelente": 2,
	"increíble": 2, "increible": 2, "fascinante": 2, "maravilloso": 2, "maravillosa": 2,
	"fantástico": 2, "fantastico": 2, "perfecto": 2, "emocionante": 2, "feliz": 2,
	"bien": 1, "bueno": 1, "buena": 1, "buenísimo": 2, "gracias": 1, "interesante": 1,
	"contento": 1, "contenta": 1, "alegre": 1, "gusta": 1, "gustan": 1, "útil": 1,
	"entusiasmo": 1, "emoción": 1, "curioso": 1, "curiosa": 1, "divertido": 1,
	"divertida": 1, "agradezco": 1, "mejor": 1, "wow": 1,
}

var negativeLexicon = map[string]float64{
	"frustrante": 2, "frustrado": 2, "frustrada": 2, "inútil": 2, "inutil": 2,
	"odio": 2, "horrible": 2, "terrible": 2, "pésimo": 2, "pesimo": 2, "peor": 2,
	"mal": 1, "malo": 1, "mala": 1, "triste": 1, "aburrido": 1, "aburrida": 1,
	"complicado": 1, "complicada": 1, "difícil": 1, "dificil": 1, "cansado": 1,
	"cansada": 1, "preocupado": 1, "preocupada": 1, "preocupa": 1, "miedo": 1,
	"molesto": 1, "molesta": 1, "confuso": 1, "confundido": 1, "problema": 1,
	"error": 1, "enojado": 2, "enojada": 2, "harto": 2, "harta": 2,
}

var negators = map[string]bool{
	"no": true, "nunca": true, "tampoco": true, "ni": true, "sin": true, "jamás": true,
}

var intensifiers = map[string]float64{
	"muy": 1.5, "súper": 1.5, "super": 1.5, "bastante": 1.3, "realmente": 1.5,
	"tan": 1.3, "demasiado": 1.5, "totalmente": 1.5,
}

// negationWindow is how many tokens after a negator remain flipped
const negationWindow = 3

// LexiconClassifier is a dictionary based Spanish classifier. It needs no model
// download and is the default backend for the sentiment and hybrid modes.
type LexiconClassifier struct {
	tokenizer nlp.Tokenizer
}

// NewLexiconClassifier creates a lexicon classifier using the shared word tokenizer
func NewLexiconClassifier(tokenizer nlp.Tokenizer) *LexiconClassifier {
	if tokenizer == nil {
		tokenizer = nlp.NewWordTokenizer()
	}
	return &LexiconClassifier{tokenizer: tokenizer}
}

func (c *LexiconClassifier) Available() bool { return true }

// Classify scores positive and negative hits, honouring negators and intensifiers
func (c *LexiconClassifier) Classify(_ context.Context, text string) Result {
	if strings.TrimSpace(text) == "" {
		return NeutralResult()
	}

	var pos, neg float64
	negatedFor := 0
	boost := 1.0

	for _, tok := range c.tokenizer.Tokenize(text) {
		if negators[tok] {
			negatedFor = negationWindow
			continue
		}
		if m, ok := intensifiers[tok]; ok {
			boost = m
			continue
		}

		p, isPos := positiveLexicon[tok]
		n, isNeg := negativeLexicon[tok]
		switch {
		case isPos && negatedFor > 0:
			neg += p * boost
		case isPos:
			pos += p * boost
		case isNeg && negatedFor > 0:
			pos += n * boost * 0.5
		case isNeg:
			neg += n * boost
		}

		if isPos || isNeg {
			boost = 1.0
		}
		if negatedFor > 0 {
			negatedFor--
		}
	}

	return fromProbabilities(map[Label]float64{
		Positive: pos,
		Negative: neg,
		Neutral:  neutralMass,
	})
}
