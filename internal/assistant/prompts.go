package assistant

import (
	"fmt"
	"strings"

	"github.com/hilacarreon/vecinito/internal/synonyms"
	"github.com/hilacarreon/vecinito/internal/textnorm"
)

// systemPromptTemplate frames the model as a neighbor who only
// recommends from the provided context. The context is compact JSON,
// with open-now precomputed so the model never does time arithmetic.
const systemPromptTemplate = `Sos Vecinito, un vecino de City Bell, Gonnet y Villa Elisa que recomienda comercios y servicios de la zona.

Reglas:
- Recomendá ÚNICAMENTE lugares que aparecen en los DATOS de abajo. Nunca inventes nombres, direcciones ni teléfonos.
- El campo "abierto_ahora" ya está calculado: "si" significa abierto en este momento, "no" cerrado, "?" sin datos. No deduzcas el estado desde el horario.
- Si un lugar está cerrado ahora, aclaralo y mencioná el horario.
- Respondé en castellano rioplatense, cálido y breve. Máximo tres opciones.
- Si los datos no alcanzan para responder, decilo sin vueltas y sugerí preguntar de otra forma.

DATOS:
%s`

// apologyReply is the fixed answer when generation fails. It never
// varies so failures are easy to spot in the audit log.
const apologyReply = "Uy, se me mezclaron los cables 🙈. ¿Me lo repetís en un ratito?"

// noResultsReply is used when retrieval finds nothing.
const noResultsReply = "Por ahora no tengo ningún dato que encaje con eso 😕. " +
	"Probá con otra palabra (por ejemplo el rubro: pizzería, farmacia, plomero) " +
	"o contame en qué zona estás: City Bell, Gonnet o Villa Elisa."

// welcomeReply greets first-time users and explains what the bot does.
const welcomeReply = "¡Hola! 👋 Soy Vecinito, tu vecino digital de City Bell, Gonnet y Villa Elisa.\n\n" +
	"Preguntame cosas como \"¿dónde como una buena pizza?\" o \"necesito un plomero urgente\" " +
	"y te paso datos de la zona. Si me mandás tu ubicación 📍 te ordeno todo por cercanía."

// resetReply confirms a /reset.
const resetReply = "Listo, arrancamos de cero 🧹. ¿Qué andás buscando?"

// locationSavedReply confirms a stored location.
const locationSavedReply = "¡Gracias! 📍 Guardé tu ubicación, ahora te ordeno las recomendaciones por cercanía."

// rateLimitedReply asks a flooding user to slow down.
const rateLimitedReply = "Pará un cachito 🙏, me estás escribiendo muy rápido. Probá de nuevo en un minuto."

var greetingPhrases = []string{
	"hola", "holaa", "holaaa", "buenas", "buen dia", "buenos dias",
	"buenas tardes", "buenas noches", "que tal", "como estas", "como andas",
	"hey", "hello", "hi",
}

var greetingReplies = []string{
	"¡Hola! 😊 ¿Qué andás buscando por la zona?",
	"¡Buenas! ¿Te doy una mano con algún comercio o servicio?",
	"¡Hola, vecino! Contame qué necesitás.",
}

// IsGreeting reports whether text is pure small talk with no search
// intent, so it can be answered with a canned reply. Punctuation is
// ignored: "¡Hola!" and "hola" are the same greeting.
func IsGreeting(text string) bool {
	stripped := strings.Join(textnorm.Tokens(text), " ")
	if stripped == "" || synonyms.HasSearchToken(stripped) {
		return false
	}
	for _, phrase := range greetingPhrases {
		if stripped == phrase {
			return true
		}
	}
	return false
}

// GreetingReply picks a canned greeting, rotating by message length so
// repeat greeters do not always see the same line.
func GreetingReply(text string) string {
	return greetingReplies[len(text)%len(greetingReplies)]
}

var locationIntentPhrases = []string{
	"te mando la ubicacion", "te paso la ubicacion", "te mando mi ubicacion",
	"te paso mi ubicacion", "ahi te mando la ubicacion", "te comparto la ubicacion",
	"te comparto mi ubicacion",
}

// IsLocationIntent reports whether the user is announcing they will
// share their location, which deserves an acknowledgment instead of a
// search.
func IsLocationIntent(text string) bool {
	normalized := textnorm.Normalize(text)
	for _, phrase := range locationIntentPhrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}

// locationIntentReply acknowledges the announcement.
const locationIntentReply = "¡Dale! La espero 📍 Apretá el clip 📎 y elegí \"Ubicación\"."

func systemPrompt(contextJSON string) string {
	return fmt.Sprintf(systemPromptTemplate, contextJSON)
}
