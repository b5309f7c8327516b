package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"

	// Retrieval and prompt sizing.
	RetrievalTopK        = 5
	HistoryWindow        = 4
	HistoryPageSize      = 5
	DocumentSeparator    = "\n\n"
	SessionCacheDuration = "1h"

	// Canned answers, kept in French to match the legal corpus the index
	// serves (lois béninoises).
	GreetingAnswer   = "Bonjour 👋 ! Je peux vous aider sur les lois béninoises. Posez une question juridique précise."
	NoDocumentAnswer = "Je n'ai pas trouvé de document pertinent. Peux-tu préciser ta question (loi, article, code) ?"
	ExcerptsFallback = "Voici des extraits pertinents liés à votre question."
)

// GreetingPrefixes are matched case-insensitively against the start of the
// trimmed question. A match short-circuits the whole pipeline.
var GreetingPrefixes = []string{"bonjour", "salut", "hello", "hi", "merci", "hey"}

// ChatSystemPromptV1 frames the generation call: answer from the supplied
// legal excerpts only and cite them.
const ChatSystemPromptV1 = `Tu es un assistant juridique spécialisé dans les lois béninoises.
Réponds à la question de l'utilisateur en t'appuyant UNIQUEMENT sur les extraits de lois fournis dans le contexte.

RÈGLES:
- Cite les articles et numéros de loi quand le contexte les donne.
- Si le contexte ne suffit pas, dis-le clairement au lieu d'inventer.
- Réponds dans la langue de la question (français par défaut).
- Reste concis: 2 à 6 phrases.`
