package sentiment

import "math/rand/v2"

// Tone is the register the bot should answer in
type Tone string

const (
	ToneEmpathetic   Tone = "empático"
	ToneEnthusiastic Tone = "entusiasta"
	ToneNeutral      Tone = "neutral"
)

// toneConfidenceFloor is the confidence below which the tone stays neutral
const toneConfidenceFloor = 0.5

var empathyPhrases = map[Label][]string{
	Negative: {
		"Noto que podrías estar un poco frustrado. 💙 ",
		"Entiendo que esto puede ser complicado. ",
		"Percibo cierta preocupación. Estoy aquí para ayudarte. ",
	},
	Positive: {
		"¡Me encanta tu entusiasmo! 😊 ",
		"¡Qué emoción poder compartir esto contigo! ",
		"¡Genial que te interese este tema! ",
	},
}

// ToneFor derives the response tone from a classification
func ToneFor(r Result) Tone {
	if r.Confidence < toneConfidenceFloor {
		return ToneNeutral
	}
	switch r.Label {
	case Negative:
		return ToneEmpathetic
	case Positive:
		return ToneEnthusiastic
	default:
		return ToneNeutral
	}
}

// GenerationTone is the tone descriptor embedded in rewrite prompts
func GenerationTone(label Label) string {
	switch label {
	case Positive:
		return "entusiasta y motivador"
	case Negative:
		return "empático y comprensivo"
	default:
		return "profesional y claro"
	}
}

// EmpathyPhrases returns the phrase pool for a label. Neutral has none.
func EmpathyPhrases(label Label) []string {
	return empathyPhrases[label]
}

// EmpathyPhrase picks a phrase for the result when its confidence reaches minConfidence.
// pick chooses an index in [0, n); nil uses math/rand.
func EmpathyPhrase(r Result, minConfidence float64, pick func(n int) int) (string, bool) {
	if r.Confidence < minConfidence {
		return "", false
	}
	pool := empathyPhrases[r.Label]
	if len(pool) == 0 {
		return "", false
	}
	if pick == nil {
		pick = rand.IntN
	}
	return pool[pick(len(pool))], true
}
