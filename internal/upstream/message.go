package upstream

import (
	"encoding/json"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// FallbackMessage is returned when an upstream error body carries no
// recognizable message.
const FallbackMessage = "Errore del server"

// messageExtractors are tried in order against a parsed upstream error body.
// The precedence (detail before error) is a tested contract: FastAPI-style
// upstreams report under "detail", older endpoints under "error".
var messageExtractors = []string{"detail", "error"}

// extractMessage pulls a human-readable message out of an upstream error body.
// Returns FallbackMessage when the body is not JSON or no extractor yields a
// non-empty string.
func extractMessage(body []byte) string {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return FallbackMessage
	}

	for _, expr := range messageExtractors {
		result, err := jmespath.Search(expr, parsed)
		if err != nil {
			continue
		}
		if msg, ok := result.(string); ok && msg != "" {
			return msg
		}
	}

	return FallbackMessage
}
