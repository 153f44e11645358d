package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/ppiankov/claimguard/internal/model"
)

// ClaimExtractor splits a generated answer into atomic, independently
// checkable factual claims using deterministic pattern rules. No learned
// model is involved: re-running on the same text yields the same claims
// in the same order, and every claim carries an exact byte span into the
// answer so reconstruction is a pure text splice.
type ClaimExtractor struct {
	conjunctions []string
}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{
		// Coordinating separators that may join two independent facts.
		// Checked in order; only the first match splits a sentence.
		conjunctions: []string{", and ", ", but ", "; "},
	}
}

var (
	capitalizedRe = regexp.MustCompile(`\b[A-Z][a-z]+\b`)
	verbRe        = regexp.MustCompile(`(?i)\b(is|are|was|were|has|have|had|will|won|founded|born|died|released|created|located|became|invented|discovered|produced)\b`)

	numericalRe = regexp.MustCompile(`(?i)(\d|percent|%|\$|usd|million|billion)`)
	temporalRe  = regexp.MustCompile(`(?i)\b(\d{4}|jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec|yesterday|today|tomorrow)\b`)
	entityRe    = regexp.MustCompile(`(?i)\b(in|at|near|located|based)\b`)
)

// Extract extracts claims from an answer. An answer with no checkable
// factual assertion (a refusal, a question back to the user) yields zero
// claims; callers treat that as accept-with-no-verification, not an error.
func (e *ClaimExtractor) Extract(answer string) []model.Claim {
	var claims []model.Claim

	for idx, sent := range splitSentences(answer) {
		text := answer[sent.Start:sent.End]
		if strings.HasSuffix(strings.TrimSpace(text), "?") {
			continue
		}
		if !looksFactual(text) {
			continue
		}

		for _, span := range e.splitCompound(answer, sent) {
			claimText := answer[span.Start:span.End]
			claims = append(claims, model.Claim{
				ID:          model.ClaimID(claimText),
				Text:        claimText,
				Type:        inferClaimType(claimText),
				Span:        span,
				SubjectHint: subjectHint(claimText),
				Sentence:    idx,
			})
		}
	}

	return claims
}

// splitCompound splits a sentence span on the first coordinating
// separator whose two halves both look factual on their own. Compound
// statements joining two independent facts become two claims; anything
// else stays whole.
func (e *ClaimExtractor) splitCompound(answer string, sent model.Span) []model.Span {
	text := answer[sent.Start:sent.End]

	for _, sep := range e.conjunctions {
		idx := strings.Index(text, sep)
		if idx < 0 {
			continue
		}

		left := trimSpan(answer, model.Span{Start: sent.Start, End: sent.Start + idx})
		right := trimSpan(answer, model.Span{Start: sent.Start + idx + len(sep), End: sent.End})

		if left.Len() == 0 || right.Len() == 0 {
			continue
		}
		if !looksFactual(answer[left.Start:left.End]) || !looksFactual(answer[right.Start:right.End]) {
			continue
		}

		return []model.Span{left, right}
	}

	return []model.Span{sent}
}

// looksFactual reports whether a sentence contains something checkable:
// a digit, or a proper noun together with a copula or factual verb.
func looksFactual(sentence string) bool {
	if strings.ContainsFunc(sentence, unicode.IsDigit) {
		return true
	}
	return capitalizedRe.MatchString(sentence) && verbRe.MatchString(sentence)
}

// inferClaimType categorizes the claim for downstream diagnostics
func inferClaimType(sentence string) model.ClaimType {
	switch {
	case numericalRe.MatchString(sentence):
		return model.ClaimTypeNumerical
	case temporalRe.MatchString(sentence):
		return model.ClaimTypeTemporal
	case entityRe.MatchString(sentence):
		return model.ClaimTypeEntity
	default:
		return model.ClaimTypeEvent
	}
}

// subjectHint extracts the leading noun phrase for search formulation:
// the first run of capitalized words, skipping a leading article.
func subjectHint(sentence string) string {
	words := strings.Fields(sentence)
	start := 0
	if len(words) > 0 {
		switch strings.ToLower(words[0]) {
		case "the", "a", "an":
			start = 1
		}
	}

	var hint []string
	for _, w := range words[start:] {
		trimmed := strings.TrimRight(w, ".,;:!?")
		if trimmed == "" || !unicode.IsUpper([]rune(trimmed)[0]) {
			break
		}
		hint = append(hint, trimmed)
	}
	return strings.Join(hint, " ")
}

// splitSentences returns trimmed sentence spans in order. Sentences end
// after . ! ? when followed by whitespace or end of text.
func splitSentences(text string) []model.Span {
	var spans []model.Span

	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if i+1 < len(text) && !isSpace(text[i+1]) {
			continue
		}

		span := trimSpan(text, model.Span{Start: start, End: i + 1})
		if span.Len() > 0 {
			spans = append(spans, span)
		}
		start = i + 1
	}

	if span := trimSpan(text, model.Span{Start: start, End: len(text)}); span.Len() > 0 {
		spans = append(spans, span)
	}

	return spans
}

// trimSpan narrows a span to exclude surrounding whitespace
func trimSpan(text string, s model.Span) model.Span {
	for s.Start < s.End && isSpace(text[s.Start]) {
		s.Start++
	}
	for s.End > s.Start && isSpace(text[s.End-1]) {
		s.End--
	}
	return s
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
