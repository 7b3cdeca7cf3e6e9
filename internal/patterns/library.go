package patterns

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// KeywordSet matches any of its keywords on word boundaries, case-insensitively.
type KeywordSet struct {
	words []string
	re    *regexp.Regexp
}

func newKeywordSet(words []string) (KeywordSet, error) {
	cleaned := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			cleaned = append(cleaned, w)
		}
	}
	if len(cleaned) == 0 {
		return KeywordSet{}, nil
	}

	quoted := make([]string, len(cleaned))
	for i, w := range cleaned {
		quoted[i] = regexp.QuoteMeta(w)
	}
	re, err := regexp.Compile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return KeywordSet{}, err
	}
	return KeywordSet{words: cleaned, re: re}, nil
}

// Contains reports whether text contains any keyword of the set.
func (k KeywordSet) Contains(text string) bool {
	return k.re != nil && k.re.MatchString(text)
}

// Find returns the first keyword occurring in text.
func (k KeywordSet) Find(text string) (string, bool) {
	if k.re == nil {
		return "", false
	}
	m := k.re.FindString(text)
	if m == "" {
		return "", false
	}
	return strings.ToLower(m), true
}

// Words returns the normalized keywords.
func (k KeywordSet) Words() []string {
	return append([]string(nil), k.words...)
}

// CompiledAmountPattern is an AmountPattern with its compiled expression.
type CompiledAmountPattern struct {
	AmountPattern
	Re *regexp.Regexp
}

// CompiledMerchantPattern is a MerchantPattern with its compiled expression.
type CompiledMerchantPattern struct {
	MerchantPattern
	Re *regexp.Regexp
}

// Library is a compiled, immutable rule set.
type Library struct {
	version string

	senderTokens []string

	Debit       KeywordSet
	Credit      KeywordSet
	Promotional KeywordSet
	OTP         KeywordSet
	Reminder    KeywordSet

	currencyMarker *regexp.Regexp
	amounts        []CompiledAmountPattern
	merchants      []CompiledMerchantPattern

	rejectPrefixes []string
	rejectTokens   map[string]struct{}

	banks      []BankRule
	categories []CategoryRule
}

// Default returns the compiled built-in library. It panics only if the
// built-in definition is broken, which the package tests guard against.
func Default() *Library {
	lib, err := Compile(DefaultDefinition())
	if err != nil {
		panic(fmt.Sprintf("patterns: built-in definition does not compile: %v", err))
	}
	return lib
}

// Compile validates def and builds a Library from it.
func Compile(def Definition) (*Library, error) {
	if len(def.SenderTokens) == 0 {
		return nil, fmt.Errorf("sender allow-list cannot be empty")
	}
	if len(def.AmountPatterns) == 0 {
		return nil, fmt.Errorf("amount cascade cannot be empty")
	}

	lib := &Library{
		version:      def.Version,
		rejectTokens: make(map[string]struct{}, len(def.MerchantRejectTokens)),
	}

	for _, tok := range def.SenderTokens {
		tok = strings.ToUpper(strings.TrimSpace(tok))
		if tok != "" {
			lib.senderTokens = append(lib.senderTokens, tok)
		}
	}

	sets := []struct {
		name  string
		words []string
		dst   *KeywordSet
	}{
		{"debit_keywords", def.DebitKeywords, &lib.Debit},
		{"credit_keywords", def.CreditKeywords, &lib.Credit},
		{"promotional_keywords", def.PromotionalKeywords, &lib.Promotional},
		{"otp_keywords", def.OTPKeywords, &lib.OTP},
		{"reminder_keywords", def.ReminderKeywords, &lib.Reminder},
	}
	for _, s := range sets {
		ks, err := newKeywordSet(s.words)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", s.name, err)
		}
		*s.dst = ks
	}

	marker := def.CurrencyMarker
	if marker == "" {
		marker = DefaultDefinition().CurrencyMarker
	}
	re, err := regexp.Compile(marker)
	if err != nil {
		return nil, fmt.Errorf("compile currency marker: %w", err)
	}
	lib.currencyMarker = re

	for _, p := range def.AmountPatterns {
		re, err := compileSingleGroup(p.Name, p.Expr)
		if err != nil {
			return nil, err
		}
		lib.amounts = append(lib.amounts, CompiledAmountPattern{AmountPattern: p, Re: re})
	}
	sort.SliceStable(lib.amounts, func(i, j int) bool {
		return lib.amounts[i].Tier < lib.amounts[j].Tier
	})

	for _, p := range def.MerchantPatterns {
		re, err := compileSingleGroup(p.Name, p.Expr)
		if err != nil {
			return nil, err
		}
		lib.merchants = append(lib.merchants, CompiledMerchantPattern{MerchantPattern: p, Re: re})
	}
	sort.SliceStable(lib.merchants, func(i, j int) bool {
		return lib.merchants[i].Precedence < lib.merchants[j].Precedence
	})

	for _, p := range def.MerchantRejectPrefixes {
		if p = strings.ToLower(p); p != "" {
			lib.rejectPrefixes = append(lib.rejectPrefixes, p)
		}
	}
	for _, t := range def.MerchantRejectTokens {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			lib.rejectTokens[t] = struct{}{}
		}
	}

	for _, b := range def.Banks {
		if strings.TrimSpace(b.Token) == "" || strings.TrimSpace(b.Name) == "" {
			return nil, fmt.Errorf("bank rule requires token and name, got %+v", b)
		}
		lib.banks = append(lib.banks, BankRule{Token: strings.ToUpper(b.Token), Name: b.Name})
	}

	for _, c := range def.CategoryKeywords {
		if c.Category == "" {
			return nil, fmt.Errorf("category rule requires a category name")
		}
		rule := CategoryRule{Category: c.Category, Color: c.Color}
		for _, tok := range c.Tokens {
			if tok = strings.ToLower(strings.TrimSpace(tok)); tok != "" {
				rule.Tokens = append(rule.Tokens, tok)
			}
		}
		lib.categories = append(lib.categories, rule)
	}

	return lib, nil
}

func compileSingleGroup(name, expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", name, err)
	}
	if re.NumSubexp() != 1 {
		return nil, fmt.Errorf("pattern %q must have exactly one capture group, has %d", name, re.NumSubexp())
	}
	return re, nil
}

// Version returns the rule-set version.
func (l *Library) Version() string { return l.version }

// SenderAllowed reports whether sender contains an allow-listed token (case-insensitive).
func (l *Library) SenderAllowed(sender string) bool {
	upper := strings.ToUpper(sender)
	for _, tok := range l.senderTokens {
		if strings.Contains(upper, tok) {
			return true
		}
	}
	return false
}

// HasCurrencyMarker reports whether text carries an explicit currency marker.
func (l *Library) HasCurrencyMarker(text string) bool {
	return l.currencyMarker.MatchString(text)
}

// AmountCascade returns the amount patterns in evaluation order.
func (l *Library) AmountCascade() []CompiledAmountPattern {
	return l.amounts
}

// MerchantCascade returns the merchant patterns in evaluation order.
func (l *Library) MerchantCascade() []CompiledMerchantPattern {
	return l.merchants
}

// MerchantRejected reports whether a captured merchant token is a known
// non-merchant (channel names, account references).
func (l *Library) MerchantRejected(capture string) bool {
	lower := strings.ToLower(strings.TrimSpace(capture))
	if _, ok := l.rejectTokens[lower]; ok {
		return true
	}
	for _, p := range l.rejectPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// Banks returns the bank lookup table in precedence order.
func (l *Library) Banks() []BankRule {
	return l.banks
}

// Categories returns the category keyword table in precedence order.
func (l *Library) Categories() []CategoryRule {
	return l.categories
}
