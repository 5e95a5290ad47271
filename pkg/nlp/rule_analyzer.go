package nlp

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Universal POS tags used in the records
const (
	PosADJ   = "ADJ"
	PosADP   = "ADP"
	PosADV   = "ADV"
	PosAUX   = "AUX"
	PosCCONJ = "CCONJ"
	PosDET   = "DET"
	PosINTJ  = "INTJ"
	PosNOUN  = "NOUN"
	PosNUM   = "NUM"
	PosPRON  = "PRON"
	PosPROPN = "PROPN"
	PosPUNCT = "PUNCT"
	PosSCONJ = "SCONJ"
	PosVERB  = "VERB"
)

var closedClass = map[string]string{
	// determiners
	"el": PosDET, "la": PosDET, "los": PosDET, "las": PosDET, "un": PosDET, "una": PosDET,
	"unos": PosDET, "unas": PosDET, "este": PosDET, "esta": PosDET, "estos": PosDET,
	"estas": PosDET, "ese": PosDET, "esa": PosDET, "esos": PosDET, "esas": PosDET,
	"mi": PosDET, "mis": PosDET, "tu": PosDET, "tus": PosDET, "su": PosDET, "sus": PosDET,
	"nuestro": PosDET, "nuestra": PosDET, "algún": PosDET, "alguna": PosDET, "cada": PosDET,
	"todo": PosDET, "toda": PosDET, "todos": PosDET, "todas": PosDET,
	// adpositions
	"a": PosADP, "de": PosADP, "en": PosADP, "con": PosADP, "por": PosADP, "para": PosADP,
	"sin": PosADP, "sobre": PosADP, "entre": PosADP, "hacia": PosADP, "hasta": PosADP,
	"desde": PosADP, "según": PosADP, "contra": PosADP, "bajo": PosADP, "tras": PosADP,
	"durante": PosADP, "mediante": PosADP, "ante": PosADP, "al": PosADP, "del": PosADP,
	// pronouns
	"yo": PosPRON, "tú": PosPRON, "él": PosPRON, "ella": PosPRON, "nosotros": PosPRON,
	"ellos": PosPRON, "ellas": PosPRON, "me": PosPRON, "te": PosPRON, "se": PosPRON,
	"nos": PosPRON, "lo": PosPRON, "le": PosPRON, "les": PosPRON, "qué": PosPRON,
	"quién": PosPRON, "quiénes": PosPRON, "cuál": PosPRON, "cuáles": PosPRON, "eso": PosPRON,
	"esto": PosPRON, "algo": PosPRON, "nada": PosPRON, "alguien": PosPRON, "nadie": PosPRON,
	"usted": PosPRON, "ustedes": PosPRON, "mí": PosPRON, "ti": PosPRON,
	// conjunctions
	"y": PosCCONJ, "e": PosCCONJ, "o": PosCCONJ, "u": PosCCONJ, "pero": PosCCONJ,
	"ni": PosCCONJ, "sino": PosCCONJ,
	"que": PosSCONJ, "porque": PosSCONJ, "si": PosSCONJ, "aunque": PosSCONJ,
	"cuando": PosSCONJ, "como": PosSCONJ, "mientras": PosSCONJ, "pues": PosSCONJ,
	// adverbs
	"no": PosADV, "sí": PosADV, "muy": PosADV, "más": PosADV, "menos": PosADV,
	"también": PosADV, "tampoco": PosADV, "ya": PosADV, "aquí": PosADV, "allí": PosADV,
	"ahora": PosADV, "hoy": PosADV, "mañana": PosADV, "siempre": PosADV, "nunca": PosADV,
	"bien": PosADV, "mal": PosADV, "mucho": PosADV, "poco": PosADV, "bastante": PosADV,
	"casi": PosADV, "solo": PosADV, "sólo": PosADV, "luego": PosADV, "después": PosADV,
	"antes": PosADV, "tan": PosADV, "cómo": PosADV, "dónde": PosADV, "cuándo": PosADV,
	"además": PosADV, "todavía": PosADV, "aún": PosADV,
	// auxiliaries
	"es": PosAUX, "son": PosAUX, "soy": PosAUX, "eres": PosAUX, "somos": PosAUX,
	"era": PosAUX, "eran": PosAUX, "fue": PosAUX, "fueron": PosAUX, "ser": PosAUX,
	"sea": PosAUX, "está": PosAUX, "están": PosAUX, "estoy": PosAUX, "estás": PosAUX,
	"estamos": PosAUX, "estar": PosAUX, "ha": PosAUX, "han": PosAUX, "he": PosAUX,
	"has": PosAUX, "hemos": PosAUX,
	// interjections
	"hola": PosINTJ, "adiós": PosINTJ, "adios": PosINTJ, "chao": PosINTJ, "hey": PosINTJ,
	"bye": PosINTJ, "holi": PosINTJ, "ok": PosINTJ, "vale": PosINTJ,
	// numerals
	"uno": PosNUM, "dos": PosNUM, "tres": PosNUM, "cuatro": PosNUM, "cinco": PosNUM,
	"seis": PosNUM, "siete": PosNUM, "ocho": PosNUM, "nueve": PosNUM, "diez": PosNUM,
	"cien": PosNUM, "mil": PosNUM,
}

// verbLemmas covers frequent finite forms the suffix rules cannot recognise
var verbLemmas = map[string]string{
	"hay": "haber", "quiero": "querer", "quieres": "querer", "puedo": "poder",
	"puede": "poder", "puedes": "poder", "tengo": "tener", "tiene": "tener",
	"tienes": "tener", "sé": "saber", "sabes": "saber", "sabe": "saber", "hace": "hacer",
	"hago": "hacer", "voy": "ir", "va": "ir", "vas": "ir", "vamos": "ir", "dime": "decir",
	"cuéntame": "contar", "explícame": "explicar", "explica": "explicar",
	"recomienda": "recomendar", "recomiéndame": "recomendar", "gusta": "gustar",
	"gustan": "gustar", "encanta": "encantar", "encantan": "encantar",
	"necesito": "necesitar", "busco": "buscar", "conoces": "conocer", "piensas": "pensar",
	"crees": "creer", "funciona": "funcionar", "trabaja": "trabajar", "seré": "ser",
	"ayudas": "ayudar", "ayuda": "ayudar",
}

var auxLemmas = map[string]string{
	"es": "ser", "son": "ser", "soy": "ser", "eres": "ser", "somos": "ser", "era": "ser",
	"eran": "ser", "fue": "ser", "fueron": "ser", "sea": "ser", "ser": "ser",
	"está": "estar", "están": "estar", "estoy": "estar", "estás": "estar",
	"estamos": "estar", "estar": "estar", "ha": "haber", "han": "haber", "he": "haber",
	"has": "haber", "hemos": "haber",
}

var detLemmas = map[string]string{
	"la": "el", "los": "el", "las": "el", "una": "uno", "unos": "uno", "unas": "uno", "un": "uno",
	"esta": "este", "estos": "este", "estas": "este", "esa": "ese", "esos": "ese", "esas": "ese",
	"mis": "mi", "tus": "tu", "sus": "su", "nuestra": "nuestro", "alguna": "alguno",
	"algún": "alguno", "toda": "todo", "todos": "todo", "todas": "todo",
	"del": "de", "al": "a",
}

var adjSuffixes = []string{"oso", "osa", "osos", "osas", "ble", "bles", "ico", "ica", "icos", "icas", "ivo", "iva", "ivos", "ivas", "al", "ales"}

// RuleAnalyzer is a dictionary and suffix driven Spanish tagger. It stands in for a
// statistical pipeline when no remote analyzer is configured.
type RuleAnalyzer struct{}

func NewRuleAnalyzer() *RuleAnalyzer {
	return &RuleAnalyzer{}
}

func (a *RuleAnalyzer) Available() bool { return true }

// Analyze tags every token of text
func (a *RuleAnalyzer) Analyze(_ context.Context, text string) ([]TokenRecord, error) {
	tokens := Split(text)
	records := make([]TokenRecord, len(tokens))

	for i, tok := range tokens {
		lower := strings.ToLower(tok)
		pos := tagToken(tok, lower, i == 0 || (i > 0 && isSentenceBreak(tokens[i-1])))
		records[i] = TokenRecord{
			Text:  tok,
			Lemma: lemmatize(lower, pos),
			POS:   pos,
			Tag:   fineTag(lower, pos),
		}
	}

	assignDependencies(records)
	return records, nil
}

func isSentenceBreak(tok string) bool {
	switch tok {
	case ".", "!", "?", "¿", "¡", ":", ";":
		return true
	}
	return false
}

func tagToken(tok, lower string, sentenceStart bool) string {
	if IsPunct(tok) {
		return PosPUNCT
	}
	if isNumber(tok) {
		return PosNUM
	}
	if pos, ok := closedClass[lower]; ok {
		return pos
	}
	if _, ok := verbLemmas[lower]; ok {
		return PosVERB
	}

	first, _ := utf8.DecodeRuneInString(tok)
	if unicode.IsUpper(first) && (!sentenceStart || isAcronym(tok)) {
		return PosPROPN
	}

	n := utf8.RuneCountInString(lower)
	switch {
	case n > 3 && hasAnySuffix(lower, "ar", "er", "ir", "ando", "iendo", "arme", "erme", "irme"):
		return PosVERB
	case n > 4 && hasAnySuffix(lower, "ado", "ido", "ada", "ida"):
		return PosVERB
	case n > 3 && hasAnySuffix(lower, adjSuffixes...):
		return PosADJ
	}
	return PosNOUN
}

func isNumber(tok string) bool {
	for _, r := range tok {
		if !unicode.IsDigit(r) && r != '.' && r != ',' {
			return false
		}
	}
	first, _ := utf8.DecodeRuneInString(tok)
	return unicode.IsDigit(first)
}

func isAcronym(tok string) bool {
	if utf8.RuneCountInString(tok) < 2 {
		return false
	}
	for _, r := range tok {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func lemmatize(lower, pos string) string {
	switch pos {
	case PosPUNCT, PosNUM, PosPROPN:
		return lower
	case PosAUX:
		if l, ok := auxLemmas[lower]; ok {
			return l
		}
	case PosDET, PosADP:
		if l, ok := detLemmas[lower]; ok {
			return l
		}
	case PosVERB:
		if l, ok := verbLemmas[lower]; ok {
			return l
		}
		switch {
		case strings.HasSuffix(lower, "ando"):
			return strings.TrimSuffix(lower, "ando") + "ar"
		case strings.HasSuffix(lower, "iendo"):
			return strings.TrimSuffix(lower, "iendo") + "er"
		case hasAnySuffix(lower, "arme", "erme", "irme"):
			return strings.TrimSuffix(lower, "me")
		case hasAnySuffix(lower, "ado", "ada"):
			return lower[:len(lower)-3] + "ar"
		case hasAnySuffix(lower, "ido", "ida"):
			return lower[:len(lower)-3] + "er"
		}
	case PosNOUN, PosADJ:
		return singular(lower)
	}
	return lower
}

// singular strips regular Spanish plural endings
func singular(word string) string {
	n := utf8.RuneCountInString(word)
	switch {
	case n > 4 && strings.HasSuffix(word, "ces"):
		return strings.TrimSuffix(word, "ces") + "z"
	case n > 4 && strings.HasSuffix(word, "es") && endsInConsonant(strings.TrimSuffix(word, "es")):
		return strings.TrimSuffix(word, "es")
	case n > 3 && strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss"):
		return strings.TrimSuffix(word, "s")
	}
	return word
}

func endsInConsonant(stem string) bool {
	r, _ := utf8.DecodeLastRuneInString(stem)
	return strings.ContainsRune("rlndzj", r)
}

func fineTag(lower, pos string) string {
	switch pos {
	case PosDET:
		switch lower {
		case "el", "la", "los", "las":
			return "DET__Definite=Def"
		case "un", "una", "unos", "unas":
			return "DET__Definite=Ind"
		}
		return "DET__PronType=Dem"
	case PosVERB:
		switch {
		case hasAnySuffix(lower, "ando", "iendo"):
			return "VERB__VerbForm=Ger"
		case hasAnySuffix(lower, "ado", "ido", "ada", "ida"):
			return "VERB__VerbForm=Part"
		case hasAnySuffix(lower, "ar", "er", "ir"):
			return "VERB__VerbForm=Inf"
		}
		return "VERB__VerbForm=Fin"
	case PosNOUN, PosADJ:
		if singular(lower) != lower {
			return pos + "__Number=Plur"
		}
		return pos + "__Number=Sing"
	}
	return pos
}

// assignDependencies attaches a shallow dependency label to every record
func assignDependencies(records []TokenRecord) {
	if len(records) == 0 {
		return
	}

	root := findRoot(records)
	afterAdp := false

	for i := range records {
		r := &records[i]
		if i == root {
			r.Dep = "ROOT"
			afterAdp = false
			continue
		}

		switch r.POS {
		case PosPUNCT:
			r.Dep = "punct"
		case PosDET:
			r.Dep = "det"
		case PosADP:
			r.Dep = "case"
			afterAdp = true
		case PosCCONJ:
			r.Dep = "cc"
		case PosSCONJ:
			r.Dep = "mark"
		case PosAUX:
			if records[root].POS == PosVERB {
				r.Dep = "aux"
			} else {
				r.Dep = "cop"
			}
		case PosADV:
			r.Dep = "advmod"
		case PosADJ:
			r.Dep = "amod"
		case PosNUM:
			r.Dep = "nummod"
		case PosINTJ:
			r.Dep = "discourse"
		case PosPRON, PosNOUN, PosPROPN:
			switch {
			case afterAdp && i > root:
				r.Dep = "obl"
			case afterAdp:
				r.Dep = "nmod"
			case i < root:
				r.Dep = "nsubj"
			default:
				r.Dep = "obj"
			}
			afterAdp = false
		case PosVERB:
			if i > 0 && (records[i-1].POS == PosVERB || records[i-1].POS == PosAUX) {
				r.Dep = "xcomp"
			} else {
				r.Dep = "conj"
			}
		default:
			r.Dep = "dep"
		}
	}
}

func findRoot(records []TokenRecord) int {
	for _, want := range []string{PosVERB, PosAUX, PosNOUN, PosPROPN} {
		for i, r := range records {
			if r.POS == want {
				return i
			}
		}
	}
	return 0
}
