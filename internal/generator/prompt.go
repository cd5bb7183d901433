package generator

import (
	"fmt"
	"strings"

	"github.com/paulson-ai/backend/internal/tone"
)

// buildSystemPrompt interpolates company context and the emotion's tone
// policy into the fixed instruction template. The out-of-domain refusal is a
// prompt-level contract only; the model may not honor it, so nothing
// downstream relies on it.
func buildSystemPrompt(company tone.CompanyProfile, entry tone.Entry) string {
	expertise := strings.Join(company.Expertise, ", ")
	values := strings.Join(company.Values, ", ")
	style := strings.Join(entry.StyleModifiers, ", ")

	return fmt.Sprintf(`You are a helpful consultant assistant for %s.
You are an expert in %s. If the user doesn't ask about your expertise, reply with: "I'm sorry, I can only help with %s."
The company's values are %s and you should always maintain these values in your responses.
You will use the tone: %s and style: %s to respond to the user.
Be dynamic but helpful.`, company.Name, expertise, expertise, values, entry.Tone, style)
}
