package constant

const (
	ChatMessageRoleUser   = "user"
	ChatMessageRoleModel  = "model"
	ChatMessageRoleSystem = "system"

	BotName    = "SciTech Bot"
	BotVersion = "3.0"
	BotLocale  = "es"

	// Prefixes that route a message to the linguistic analyzer instead of the dialogue
	AnalyzeCommandES = "analizar:"
	AnalyzeCommandEN = "analyze:"

	AnalyzeEmptyHint       = "Por favor escribe algo después de 'analizar:'"
	AnalyzeUnavailableHint = "El análisis lingüístico no está disponible en este momento."

	FarewellMessage     = "¡Hasta pronto! Gracias por usar el chatbot de ciencia y tecnología. 👋"
	GenericErrorMessage = "Ocurrió un error. Por favor, intenta reformular tu pregunta."
	ApologyMessage      = "Lo siento, no pude procesar tu mensaje. Verifica el formato e inténtalo de nuevo."
	RateLimitMessage    = "Has alcanzado el límite de mensajes de esta sesión. Inicia una nueva conversación para continuar."
)

// WelcomeMessage is shown by the console client and the root endpoint. %s is the mode description.
const WelcomeMessage = "¡Hola! 👋 Bienvenido a " + BotName + " v" + BotVersion + "\n\n" +
	"Soy tu asistente especializado en ciencia y tecnología.\n" +
	"Modo actual: %s"

// SentimentClassificationPrompt asks a model to label a Spanish message. %s is the message.
const SentimentClassificationPrompt = `Clasifica el sentimiento del siguiente mensaje en español.
Responde SOLO con un objeto JSON, sin texto adicional, con este formato:
{"sentimiento": "POS" | "NEG" | "NEU", "probabilidades": {"POS": 0.0, "NEG": 0.0, "NEU": 0.0}}
Las probabilidades deben sumar 1.

Mensaje: %s`

// ScienceAnswerPrompt asks for a topic answer. Arguments: topic name, user question.
const ScienceAnswerPrompt = `Eres un asistente experto en ciencia y tecnología. Responde de manera clara, precisa y académica.

Tema: %s
Pregunta del usuario: %s
`

// ScienceAnswerContext is appended to ScienceAnswerPrompt when the routed reply is available as context
const ScienceAnswerContext = "\nContexto adicional: %s\n"

const ScienceAnswerSuffix = "\nRespuesta:"
