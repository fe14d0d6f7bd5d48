package docparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Label tables are data-driven: new vocabularies are added here, not in
// control flow. Each pattern captures the rest of the line after the label.
var expirationLabels = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:expiration|expires|expiry)\s+date\s*:?\s*([^\n]+)`),
	regexp.MustCompile(`(?i)expir(?:ation|es|y)\s*:?\s*([^\n]+)`),
	regexp.MustCompile(`(?i)valid\s+(?:until|thru|through)\s*:?\s*([^\n]+)`),
	regexp.MustCompile(`(?i)end\s+date\s*:?\s*([^\n]+)`),
}

var renewalLabels = []*regexp.Regexp{
	regexp.MustCompile(`(?i)renewal\s+date\s*:?\s*([^\n]+)`),
	regexp.MustCompile(`(?i)renew(?:s|al)?\s+on\s*:?\s*([^\n]+)`),
	regexp.MustCompile(`(?i)next\s+renewal\s*:?\s*([^\n]+)`),
}

var policyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)policy\s*(?:number|#|no\.?)\s*:?\s*([A-Z0-9][A-Z0-9-]*)`),
	regexp.MustCompile(`(?i)policy\s*:\s*([A-Z0-9-]{6,})`),
}

var accountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)account\s*(?:number|#|no\.?)\s*:?\s*([A-Z0-9][A-Z0-9-]*)`),
	regexp.MustCompile(`(?i)acct\s*\.?\s*:?\s*([A-Z0-9][A-Z0-9-]*)`),
}

var (
	reAmount = regexp.MustCompile(`\$(\d[\d,]*(?:\.\d+)?)`)
	reEmail  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	rePhone  = regexp.MustCompile(`(?:\+?1[-.\s]?)?(?:\(\d{3}\)|\d{3})[-.\s]?\d{3}[-.\s]?\d{4}`)
)

// Parser mines structured fields out of unstructured document text. All
// rules are fixed, hand-authored patterns; Parse never fails, an empty
// Fields is a valid result.
type Parser struct {
	// Now supplies the reference time for the earliest-future-date
	// expiration fallback. Defaults to time.Now.
	Now func() time.Time
}

func NewParser() *Parser {
	return &Parser{Now: time.Now}
}

// Parse runs the eight extraction steps in fixed order. Every step runs
// unconditionally; an empty result in one never aborts the others.
func (p *Parser) Parse(text string) Fields {
	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}

	f := Fields{Dates: harvestDates(text)}

	// Expiration: first label whose capture parses wins; otherwise the
	// earliest harvested date still in the future.
	for _, re := range expirationLabels {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if t, ok := parseLooseDate(m[1]); ok {
			f.ExpirationDate = &t
			break
		}
	}
	if f.ExpirationDate == nil {
		if t, ok := earliestFuture(f.Dates, now); ok {
			f.ExpirationDate = &t
		}
	}

	// Renewal is a labeled concept only: no fallback to harvested dates.
	for _, re := range renewalLabels {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if t, ok := parseLooseDate(m[1]); ok {
			f.RenewalDate = &t
			break
		}
	}

	f.PolicyNumber = firstCapture(policyPatterns, text)
	f.AccountNumber = firstCapture(accountPatterns, text)

	// Amount: the largest dollar figure is assumed to be the headline
	// amount (a total rather than a line item).
	if max, ok := maxAmount(text); ok {
		f.Amount = &max
		f.Currency = Currency
	}

	f.Email = reEmail.FindString(text)
	f.Phone = strings.TrimSpace(rePhone.FindString(text))

	return f
}

func firstCapture(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func earliestFuture(dates []time.Time, now time.Time) (time.Time, bool) {
	var best time.Time
	found := false
	for _, d := range dates {
		if !d.After(now) {
			continue
		}
		if !found || d.Before(best) {
			best = d
			found = true
		}
	}
	return best, found
}

func maxAmount(text string) (float64, bool) {
	var max float64
	found := false
	for _, m := range reAmount.FindAllStringSubmatch(text, -1) {
		raw := strings.ReplaceAll(m[1], ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if !found || v > max {
			max = v
			found = true
		}
	}
	return max, found
}
