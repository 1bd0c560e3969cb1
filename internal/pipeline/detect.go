package pipeline

import "strings"

type DetectResult struct {
	IsMenu bool
	Score  float64
	Reason string
}

var detectKeywords = []string{"menu", "price list", "item", "category", "specials", "update"}

// DetectMenuDocument scores an inbound message for looking like a menu
// delivery. Non-menu mail is skipped, never failed.
func DetectMenuDocument(subject, text, html string, attachmentNames []string) DetectResult {
	subject = strings.ToLower(subject)
	text = strings.ToLower(text)
	html = strings.ToLower(html)

	score := 0.0
	for _, kw := range detectKeywords {
		if strings.Contains(subject, kw) {
			score += 0.2
		}
		if strings.Contains(text, kw) || strings.Contains(html, kw) {
			score += 0.1
		}
	}

	for _, name := range attachmentNames {
		ln := strings.ToLower(name)
		if strings.HasSuffix(ln, ".csv") || strings.HasSuffix(ln, ".xlsx") || strings.HasSuffix(ln, ".xls") || strings.HasSuffix(ln, ".pdf") {
			score += 0.25
			break
		}
	}

	if strings.Contains(html, "<table") {
		score += 0.25
	}
	if score > 1 {
		score = 1
	}

	isMenu := score >= 0.45
	reason := "rules_negative"
	if isMenu {
		reason = "rules_positive"
	}

	return DetectResult{IsMenu: isMenu, Score: score, Reason: reason}
}
