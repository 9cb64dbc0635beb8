package core

// RequestTypeSpec describes one request type in the taxonomy: the sub-types
// it can carry, a short description, and keywords that hint at it.
type RequestTypeSpec struct {
	SubRequestTypes []string `json:"sub_request_types"`
	Description     string   `json:"description"`
	Keywords        []string `json:"keywords"`
}

// Taxonomy maps request-type names to their specifications. It is consumed
// read-only per request and never persisted server-side; callers supply
// their own or get the default.
type Taxonomy map[string]RequestTypeSpec

// DefaultTaxonomy returns the built-in loan-servicing knowledge base, used
// whenever the caller does not supply one.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		"Adjustment": {
			SubRequestTypes: []string{"AU Transfer", "Closing Notice", "Reallocation Fees", "Amendment Fees", "Reallocation Principal"},
			Description:     "Requests related to adjustments to loan accounts",
			Keywords:        []string{"adjust", "transfer", "reallocate", "amend", "close"},
		},
		"AU Transfer": {
			SubRequestTypes: []string{},
			Description:     "Requests related to account unit transfers",
			Keywords:        []string{"transfer", "AU", "account movement"},
		},
		"Closing Notice": {
			SubRequestTypes: []string{"Reallocation Fees", "Amendment Fees", "Reallocation Principal"},
			Description:     "Requests for loan closing notices",
			Keywords:        []string{"closing", "notice", "finalize"},
		},
		"Commitment Change": {
			SubRequestTypes: []string{"Cashless Roll", "Decrease", "Increase"},
			Description:     "Requests to modify loan commitment amounts",
			Keywords:        []string{"commitment", "increase", "decrease", "roll", "change"},
		},
		"Fee Payment": {
			SubRequestTypes: []string{"Ongoing Fee", "Letter of Credit Fee"},
			Description:     "Requests related to fee payments",
			Keywords:        []string{"fee", "payment", "charge", "credit fee"},
		},
		"Money Movement - Inbound": {
			SubRequestTypes: []string{"Principal", "Interest", "Principal + Interest", "Principal + Interest + Fees"},
			Description:     "Requests for incoming fund transfers",
			Keywords:        []string{"deposit", "transfer in", "funding", "inbound", "payment"},
		},
		"Money Movement - Outbound": {
			SubRequestTypes: []string{"Timebound", "Foreign Currency"},
			Description:     "Requests for outgoing fund transfers",
			Keywords:        []string{"withdraw", "transfer out", "outbound", "payment out"},
		},
		"Payment Processing": {
			SubRequestTypes: []string{"Payment Posting", "Payment Reversal"},
			Description:     "Requests related to processing loan payments",
			Keywords:        []string{"payment", "processing", "reversal", "posting"},
		},
		"Escrow Management": {
			SubRequestTypes: []string{"Tax Payment", "Insurance Payment", "Escrow Analysis"},
			Description:     "Requests related to escrow account management",
			Keywords:        []string{"escrow", "tax", "insurance", "analysis"},
		},
		"Loan Modification": {
			SubRequestTypes: []string{"Interest Rate Adjustment", "Term Extension", "Principal Forbearance"},
			Description:     "Requests for loan modifications",
			Keywords:        []string{"loan", "modification", "rate", "extension", "forbearance"},
		},
		"Default Management": {
			SubRequestTypes: []string{"Collections", "Loss Mitigation", "Foreclosure"},
			Description:     "Requests related to managing defaulted loans",
			Keywords:        []string{"default", "collections", "foreclosure", "mitigation"},
		},
		"Customer Service": {
			SubRequestTypes: []string{"Account Inquiry", "Statement Request", "Complaint Resolution"},
			Description:     "General customer service requests",
			Keywords:        []string{"customer", "service", "inquiry", "statement", "complaint"},
		},
		"Investor Reporting": {
			SubRequestTypes: []string{"Remittance Reporting", "Delinquency Reporting"},
			Description:     "Requests related to investor reporting",
			Keywords:        []string{"investor", "reporting", "remittance", "delinquency"},
		},
	}
}
