package assistant

import (
	"fmt"
	"strings"

	"github.com/hilacarreon/vecinito/internal/catalog"
	"github.com/hilacarreon/vecinito/internal/schedule"
	"github.com/hilacarreon/vecinito/internal/textnorm"
)

// openClaims are phrasings the model uses to say a place is open right
// now. Checked against the normalized reply.
var openClaims = []string{
	"esta abierto ahora", "esta abierta ahora", "abierto ahora", "abierta ahora",
	"esta abierto en este momento", "abierto en este momento",
}

// postprocess fixes up a model reply against the retrieval results: it
// corrects open-now contradictions and appends maps links for the
// places actually mentioned.
func postprocess(reply string, results []catalog.Annotated) string {
	reply = correctClosedContradiction(reply, results)
	return appendMapsLinks(reply, results)
}

// correctClosedContradiction appends a correction when the reply claims
// a place is open but the schedule says it is closed. The model is told
// to trust the precomputed state, but it occasionally argues with it.
func correctClosedContradiction(reply string, results []catalog.Annotated) string {
	normalizedReply := textnorm.Normalize(reply)

	claimsOpen := false
	for _, claim := range openClaims {
		if strings.Contains(normalizedReply, claim) {
			claimsOpen = true
			break
		}
	}
	if !claimsOpen {
		return reply
	}

	var corrections []string
	for _, r := range results {
		if r.OpenNow != schedule.Closed {
			continue
		}
		if !strings.Contains(normalizedReply, textnorm.Normalize(r.Name)) {
			continue
		}
		line := fmt.Sprintf("Ojo: %s está cerrado en este momento", r.Name)
		if r.Hours != "" {
			line += fmt.Sprintf(" (horario: %s)", r.Hours)
		}
		corrections = append(corrections, line+".")
	}

	if len(corrections) == 0 {
		return reply
	}
	return reply + "\n\n⚠️ " + strings.Join(corrections, " ")
}

// appendMapsLinks adds a maps link for each mentioned entry that has
// one, unless the model already included it.
func appendMapsLinks(reply string, results []catalog.Annotated) string {
	normalizedReply := textnorm.Normalize(reply)

	var links []string
	for _, r := range results {
		if r.MapsURL == "" || strings.Contains(reply, r.MapsURL) {
			continue
		}
		if !strings.Contains(normalizedReply, textnorm.Normalize(r.Name)) {
			continue
		}
		links = append(links, fmt.Sprintf("📍 %s: %s", r.Name, r.MapsURL))
	}

	if len(links) == 0 {
		return reply
	}
	return reply + "\n\n" + strings.Join(links, "\n")
}
