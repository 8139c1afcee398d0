package analyzer

import (
	"medscan/pkg/domain"
	"strings"
	"unicode"
)

const (
	phraseNotAllowed = "not allowed"
	phraseAllowed    = "allowed"
	wordDisallowed   = "disallowed"

	// separators trimmed between a leading verdict phrase and the reason.
	separators = ":,-. \t\r\n"
)

// negators turn a directly following "allowed" into a refusal.
var negators = map[string]bool{ //nolint: gochecknoglobals
	"not": true, "never": true, "cannot": true,
	"isn't": true, "isnt": true, "aren't": true, "can't": true, "wasn't": true,
}

// Classify derives a verdict from a model reply. Matching is case-insensitive
// and "not allowed" is checked first, so a reply containing both phrases is
// NotAllowed. Negated forms such as "isn't allowed", "disallowed" or "never be
// allowed" are NotAllowed too. "allowed" only counts as a whole word. Anything
// else is Unknown, never Allowed.
func Classify(reply string) domain.SafetyVerdict {
	trimmed := strings.TrimSpace(reply)
	lower := strings.ToLower(trimmed)

	verdict := domain.SafetyVerdict{
		Status:      domain.VerdictUnknown,
		Explanation: trimmed,
		RawResponse: reply,
	}

	if strings.Contains(lower, phraseNotAllowed) {
		verdict.Status = domain.VerdictNotAllowed
		verdict.Explanation = stripLeading(trimmed, phraseNotAllowed)

		return verdict
	}

	switch verdict.Status = classifyWords(lower); verdict.Status {
	case domain.VerdictNotAllowed:
		verdict.Explanation = stripLeading(trimmed, wordDisallowed)
	case domain.VerdictAllowed:
		verdict.Explanation = stripLeading(trimmed, phraseAllowed)
	}

	return verdict
}

// classifyWords looks for "allowed" as a word. Any negated occurrence wins.
func classifyWords(lower string) domain.VerdictStatus {
	words := strings.FieldsFunc(strings.ReplaceAll(lower, "’", "'"), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	status := domain.VerdictUnknown
	for i, w := range words {
		switch {
		case w == wordDisallowed:
			return domain.VerdictNotAllowed
		case w == phraseAllowed && negated(words[:i]):
			return domain.VerdictNotAllowed
		case w == phraseAllowed:
			status = domain.VerdictAllowed
		}
	}

	return status
}

// negated reports whether the words right before an "allowed" negate it:
// "isn't allowed", "not be allowed", "never been allowed", "no longer allowed".
func negated(before []string) bool {
	n := len(before)
	if n == 0 {
		return false
	}
	if negators[before[n-1]] {
		return true
	}
	if n < 2 {
		return false
	}

	switch before[n-1] {
	case "be", "been":
		return before[n-2] == "not" || before[n-2] == "never"
	case "longer":
		return before[n-2] == "no"
	}

	return false
}

// stripLeading removes phrase and any following separators when s starts with
// it; otherwise s is returned unchanged.
func stripLeading(s, phrase string) string {
	if len(s) < len(phrase) || !strings.EqualFold(s[:len(phrase)], phrase) {
		return s
	}

	return strings.TrimLeft(s[len(phrase):], separators)
}
