package analyzer

import (
	"fmt"
	"medscan/pkg/domain"
	"strings"
)

// unspecified stands in for an empty allergy or condition list.
const unspecified = "none reported"

// BuildPrompt renders the single user message sent to the model. The output is
// deterministic for the same inputs.
func BuildPrompt(code domain.BarcodeCode, profile domain.HealthProfile, product *domain.ProductRecord) string {
	profile = profile.Normalized()

	var b strings.Builder
	fmt.Fprintf(&b,
		"Look up the medication with barcode “%s” and tell me if it is allowed for human with conditions like %s and allergies %s.",
		code, orUnspecified(profile.Conditions), orUnspecified(profile.Allergies))
	if ctx := productContext(product); ctx != "" {
		b.WriteString(" ")
		b.WriteString(ctx)
	}
	b.WriteString(` Verify if drug with given barcode exists if yes respond with a very brief and strict statement` +
		` either "Allowed" or "Not allowed" + reason. Do NOT mention the barcode, refer only to the medication name.`)

	return b.String()
}

func productContext(product *domain.ProductRecord) string {
	if product == nil || strings.TrimSpace(product.Title) == "" {
		return ""
	}

	s := fmt.Sprintf("A product database lists it as %q", product.Title)
	if product.Brand != "" {
		s += fmt.Sprintf(" by %s", product.Brand)
	}
	if product.Ingredients != "" {
		s += fmt.Sprintf(" with ingredients: %s", product.Ingredients)
	}

	return s + "."
}

func orUnspecified(s string) string {
	if s == "" {
		return unspecified
	}

	return s
}
