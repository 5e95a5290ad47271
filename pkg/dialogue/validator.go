package dialogue

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rejection reasons
const (
	ReasonEmpty          = "empty"
	ReasonTooShort       = "too_short"
	ReasonDegenerateSpam = "degenerate_spam"
	ReasonNumericOnly    = "numeric_only"
	ReasonTooLong        = "too_long"
)

const (
	DefaultMaxLength = 1000
	minLength        = 2
	spamMinLength    = 5
	spamMaxDistinct  = 2
)

var rejectionMessages = map[string]string{
	ReasonEmpty:          "Por favor, escribe un mensaje.",
	ReasonTooShort:       "Tu mensaje es muy corto. ¿Podrías escribir un poco más?",
	ReasonDegenerateSpam: "Parece que tu mensaje no tiene contenido válido. ¿Podrías reformularlo?",
	ReasonNumericOnly:    "Por favor, escribe tu pregunta con palabras, no solo números.",
	ReasonTooLong:        "Tu mensaje es demasiado largo. Intenta resumirlo en menos de %d caracteres.",
}

// Rejection is a user-correctable refusal of a message. Message is shown to
// the user verbatim as the reply.
type Rejection struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (r *Rejection) Error() string {
	return "message rejected: " + r.Reason
}

// Validator screens raw input before it reaches the router
type Validator struct {
	MaxLength int
}

func NewValidator(maxLength int) *Validator {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Validator{MaxLength: maxLength}
}

// Validate returns nil for an acceptable message and a *Rejection otherwise.
// Checks run in a fixed order and the first failing one wins.
func (v *Validator) Validate(raw string) *Rejection {
	stripped := strings.TrimSpace(raw)
	if stripped == "" {
		return reject(ReasonEmpty)
	}

	n := utf8.RuneCountInString(stripped)
	if n < minLength {
		return reject(ReasonTooShort)
	}

	if utf8.RuneCountInString(raw) > spamMinLength && distinctRunes(stripped) <= spamMaxDistinct {
		return reject(ReasonDegenerateSpam)
	}

	if allDigits(stripped) {
		return reject(ReasonNumericOnly)
	}

	if v.MaxLength > 0 && n > v.MaxLength {
		return &Rejection{
			Reason:  ReasonTooLong,
			Message: fmt.Sprintf(rejectionMessages[ReasonTooLong], v.MaxLength),
		}
	}

	return nil
}

// RejectionMessage returns the fixed user-facing text for a reason
func RejectionMessage(reason string) string {
	return rejectionMessages[reason]
}

func reject(reason string) *Rejection {
	return &Rejection{Reason: reason, Message: rejectionMessages[reason]}
}

func distinctRunes(s string) int {
	seen := make(map[rune]struct{})
	for _, r := range s {
		if r == ' ' {
			continue
		}
		seen[r] = struct{}{}
	}
	return len(seen)
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
