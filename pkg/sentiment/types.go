package sentiment

import "context"

// Label is the polarity assigned to a piece of text
type Label string

const (
	Positive Label = "POS"
	Negative Label = "NEG"
	Neutral  Label = "NEU"
)

// Labels lists every label in a stable order
var Labels = []Label{Positive, Negative, Neutral}

// Result is the output of a single classification. It is produced fresh per message
// and never mutated afterwards.
type Result struct {
	Label         Label             `json:"label"`
	Probabilities map[Label]float64 `json:"probabilities"`
	Confidence    float64           `json:"confidence"`
}

// Description returns the Spanish word used in replies and API payloads
func (r Result) Description() string {
	switch r.Label {
	case Positive:
		return "positivo"
	case Negative:
		return "negativo"
	default:
		return "neutral"
	}
}

// Classifier maps text to a sentiment result. Implementations never fail the caller:
// when the backing model is unavailable or errors, they return NeutralResult().
type Classifier interface {
	Classify(ctx context.Context, text string) Result
	Available() bool
}

// NeutralResult is the degraded answer used when no classification is possible.
func NeutralResult() Result {
	return Result{
		Label: Neutral,
		Probabilities: map[Label]float64{
			Positive: 0.33,
			Negative: 0.33,
			Neutral:  0.34,
		},
		Confidence: 0.0,
	}
}

// fromProbabilities normalises the probabilities and picks the winning label.
// Ties are resolved in favour of Neutral, then Positive.
func fromProbabilities(probs map[Label]float64) Result {
	total := 0.0
	for _, l := range Labels {
		if p := probs[l]; p > 0 {
			total += p
		}
	}
	if total <= 0 {
		return NeutralResult()
	}

	normalised := make(map[Label]float64, len(Labels))
	for _, l := range Labels {
		p := probs[l]
		if p < 0 {
			p = 0
		}
		normalised[l] = p / total
	}

	best := Neutral
	for _, l := range []Label{Positive, Negative} {
		if normalised[l] > normalised[best] {
			best = l
		}
	}

	return Result{
		Label:         best,
		Probabilities: normalised,
		Confidence:    normalised[best],
	}
}

// Disabled is the classifier used when sentiment analysis is switched off by the
// operation mode. It always answers NeutralResult().
type Disabled struct{}

func (Disabled) Classify(context.Context, string) Result { return NeutralResult() }

func (Disabled) Available() bool { return false }
