package docparse

import "time"

// Currency is the single supported currency code.
const Currency = "USD"

// Fields is the structured metadata mined from one document's text. Every
// optional field is either unset or copied near-verbatim from a match in the
// text; the engine never fabricates values.
type Fields struct {
	// Dates holds every date-shaped token that parsed, grouped by the
	// pattern that found it, not document order.
	Dates          []time.Time `json:"dates"`
	ExpirationDate *time.Time  `json:"expiration_date,omitempty"`
	RenewalDate    *time.Time  `json:"renewal_date,omitempty"`
	PolicyNumber   string      `json:"policy_number,omitempty"`
	AccountNumber  string      `json:"account_number,omitempty"`
	Amount         *float64    `json:"amount,omitempty"`
	Currency       string      `json:"currency,omitempty"`
	Email          string      `json:"email,omitempty"`
	Phone          string      `json:"phone,omitempty"`
}
