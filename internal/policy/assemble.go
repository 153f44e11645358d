package policy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/claimguard/internal/model"
)

// Assemble builds the final answer by splicing decisions into the draft
// at each claim's span. Splices run right to left by span start so
// earlier offsets stay valid while later ones are rewritten.
//
// ACCEPT spans are left untouched; for an accept-only run the result is
// byte-identical to the draft. ABSTAIN and FLAG_FOR_HUMAN spans are
// removed or annotated per the rendering configuration.
//
// claims and decisions are parallel slices in extraction order. A span
// that is out of range or overlaps a neighbor is a broken extractor
// contract: reconstruction cannot be trusted, so Assemble fails rather
// than guess.
func Assemble(draft string, claims []model.Claim, decisions []model.Decision, rendering model.AbstainRendering) (string, error) {
	if len(claims) != len(decisions) {
		return "", fmt.Errorf("claims/decisions length mismatch: %d vs %d", len(claims), len(decisions))
	}
	if err := ValidateSpans(draft, claims); err != nil {
		return "", err
	}

	type splice struct {
		span     model.Span
		decision model.Decision
	}

	splices := make([]splice, 0, len(claims))
	for i, claim := range claims {
		splices = append(splices, splice{span: claim.Span, decision: decisions[i]})
	}
	sort.Slice(splices, func(i, j int) bool {
		return splices[i].span.Start > splices[j].span.Start
	})

	result := draft
	modified := false
	for _, s := range splices {
		switch s.decision.Action {
		case model.ActionAccept:
			// Untouched

		case model.ActionCorrect:
			result = result[:s.span.Start] + s.decision.Replacement + result[s.span.End:]
			modified = true

		case model.ActionAbstain, model.ActionFlagForHuman:
			if rendering == model.RenderRemove {
				result = removeSpan(result, s.span)
			} else {
				result = result[:s.span.End] + marker(s.decision.Action) + result[s.span.End:]
			}
			modified = true
		}
	}

	// An untouched draft must survive byte-identically, whitespace
	// included; tidy the edges only after a splice changed the text.
	if modified {
		result = strings.TrimSpace(result)
	}
	return result, nil
}

// ValidateSpans checks the extractor contract: every span in range,
// ascending, and non-overlapping within the exact draft string.
func ValidateSpans(draft string, claims []model.Claim) error {
	prevEnd := 0
	for i, claim := range claims {
		s := claim.Span
		if s.Start < 0 || s.End > len(draft) || s.Start >= s.End {
			return fmt.Errorf("claim %d: span [%d,%d) out of range for draft of %d bytes", i, s.Start, s.End, len(draft))
		}
		if s.Start < prevEnd {
			return fmt.Errorf("claim %d: span [%d,%d) overlaps previous span ending at %d", i, s.Start, s.End, prevEnd)
		}
		prevEnd = s.End
	}
	return nil
}

// removeSpan drops the span and one adjacent space so the surrounding
// text does not end up with doubled separators
func removeSpan(text string, s model.Span) string {
	end := s.End
	if end < len(text) && text[end] == ' ' {
		end++
	} else if s.Start > 0 && text[s.Start-1] == ' ' {
		s.Start--
	}
	return text[:s.Start] + text[end:]
}

func marker(action model.Action) string {
	if action == model.ActionFlagForHuman {
		return " [needs review]"
	}
	return " [unverified]"
}
