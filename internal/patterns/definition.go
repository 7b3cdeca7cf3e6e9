// Package patterns holds the versioned, typed rule data that drives message
// filtering and extraction: sender allow-list, keyword sets, exclusion lists,
// the amount and merchant regex cascades, bank and category tables.
//
// A Definition is plain data and may be overlaid from YAML. Compile turns it
// into an immutable Library that is safe for concurrent use.
package patterns

// AmountPattern is one step of the amount cascade. Lower tiers are tried first;
// patterns sharing a tier keep their declaration order. Expr must contain
// exactly one capture group holding the numeric value.
type AmountPattern struct {
	Name string
	Tier int
	Expr string
}

// MerchantPattern is one step of the merchant cascade. Expr must contain
// exactly one capture group holding the merchant token.
type MerchantPattern struct {
	Name       string
	Precedence int
	Expr       string
}

// BankRule maps a sender substring to a canonical institution name.
type BankRule struct {
	Token string `yaml:"token"`
	Name  string `yaml:"name"`
}

// CategoryRule assigns Category when any token starts a word of the canonical merchant.
type CategoryRule struct {
	Category string   `yaml:"category"`
	Color    string   `yaml:"color"`
	Tokens   []string `yaml:"tokens"`
}

// Definition is the uncompiled rule set.
type Definition struct {
	Version string `yaml:"version"`

	SenderTokens []string `yaml:"sender_tokens"`

	DebitKeywords       []string `yaml:"debit_keywords"`
	CreditKeywords      []string `yaml:"credit_keywords"`
	PromotionalKeywords []string `yaml:"promotional_keywords"`
	OTPKeywords         []string `yaml:"otp_keywords"`
	ReminderKeywords    []string `yaml:"reminder_keywords"`

	MerchantRejectPrefixes []string `yaml:"merchant_reject_prefixes"`
	MerchantRejectTokens   []string `yaml:"merchant_reject_tokens"`

	Banks            []BankRule     `yaml:"banks"`
	CategoryKeywords []CategoryRule `yaml:"categories"`

	CurrencyMarker   string            `yaml:"-"`
	AmountPatterns   []AmountPattern   `yaml:"-"`
	MerchantPatterns []MerchantPattern `yaml:"-"`
}
