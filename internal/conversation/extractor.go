package conversation

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/stagehand-ai/stagehand/internal/lead"
	"github.com/stagehand-ai/stagehand/internal/tenant"
)

// maxFieldLen bounds every extracted string.
const maxFieldLen = 64

// ---------- package-level compiled regexes ----------

var (
	phoneRE = regexp.MustCompile(`\b\d{10}\b`)
	emailRE = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// Self-introduction patterns, tried in order. The bare copula forms
	// ("sono X", "i am X") additionally require a capitalized name to
	// avoid matching "sono interessato".
	introPatterns = []struct {
		re          *regexp.Regexp
		capitalized bool
	}{
		{re: regexp.MustCompile(`(?i)\bmi chiamo\s+(\p{L}[\p{L}']*(?:\s+\p{L}[\p{L}']*)?)`)},
		{re: regexp.MustCompile(`(?i)\bil mio nome è\s+(\p{L}[\p{L}']*(?:\s+\p{L}[\p{L}']*)?)`)},
		{re: regexp.MustCompile(`(?i)\bmy name is\s+(\p{L}[\p{L}']*(?:\s+\p{L}[\p{L}']*)?)`)},
		{re: regexp.MustCompile(`(?i)\bsono\s+(\p{L}[\p{L}']*(?:\s+\p{L}[\p{L}']*)?)`), capitalized: true},
		{re: regexp.MustCompile(`(?i)\bi(?: a|')m\s+(\p{L}[\p{L}']*(?:\s+\p{L}[\p{L}']*)?)`), capitalized: true},
	}

	titleCaser = cases.Title(language.Italian)
)

// nameStoplist holds greetings and fillers a lone short message must not
// be mistaken for.
var nameStoplist = map[string]struct{}{
	"ciao": {}, "salve": {}, "buongiorno": {}, "buonasera": {},
	"grazie": {}, "ok": {}, "okay": {}, "sì": {}, "si": {}, "no": {},
	"hello": {}, "hi": {}, "hey": {}, "thanks": {}, "yes": {},
}

// ExtractUpdates pulls name, phone, email and the tenant's domain
// attribute out of raw message text. It is a pure function of the text,
// the current profile and the tenant config; it only proposes values for
// fields that are still unset.
func ExtractUpdates(text string, p *lead.Profile, cfg *tenant.Config) lead.Update {
	var upd lead.Update

	if p.Name == "" {
		upd.Name = extractName(text)
	}
	if p.Phone == "" {
		upd.Phone = phoneRE.FindString(text)
	}
	if p.Email == "" {
		if email := emailRE.FindString(text); email != "" {
			upd.Email = truncate(strings.ToLower(email))
		}
	}
	if p.Attribute == "" {
		upd.Attribute = extractAttribute(text, cfg.AttributeVocabulary)
	}
	return upd
}

// extractName tries explicit self-introduction patterns first, then the
// lone-short-message heuristic. Stops at the first match.
func extractName(text string) string {
	for _, pat := range introPatterns {
		m := pat.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		candidate := m[1]
		if pat.capitalized && !startsUpper(candidate) {
			continue
		}
		if inStoplist(firstWord(candidate)) {
			continue
		}
		return cleanName(candidate)
	}

	// A message of 1-2 alphabetic words that is not a greeting is taken
	// as a bare name reply.
	words := strings.Fields(strings.TrimSpace(text))
	if len(words) == 0 || len(words) > 2 {
		return ""
	}
	for _, w := range words {
		if !alphabetic(w) {
			return ""
		}
	}
	if len([]rune(words[0])) < 2 || inStoplist(words[0]) {
		return ""
	}
	return cleanName(strings.Join(words, " "))
}

// extractAttribute maps the message onto the tenant's closed attribute
// vocabulary. First matching category wins.
func extractAttribute(text string, vocab []tenant.AttributeRule) string {
	lower := strings.ToLower(text)
	for _, rule := range vocab {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return rule.Category
			}
		}
	}
	return ""
}

// cleanName whitespace-normalizes, truncates and title-cases per word.
func cleanName(raw string) string {
	normalized := strings.Join(strings.Fields(raw), " ")
	return truncate(titleCaser.String(strings.ToLower(normalized)))
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) > maxFieldLen {
		return string(runes[:maxFieldLen])
	}
	return s
}

func alphabetic(word string) bool {
	for _, r := range word {
		if !unicode.IsLetter(r) && r != '\'' {
			return false
		}
	}
	return true
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func inStoplist(word string) bool {
	_, ok := nameStoplist[strings.ToLower(word)]
	return ok
}
