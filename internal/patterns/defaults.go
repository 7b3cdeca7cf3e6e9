package patterns

import "fjacquet/sms-ledger/internal/models"

// DefaultVersion identifies the built-in rule set.
const DefaultVersion = "2024.1"

// number captures an amount with optional thousands separators and up to two decimals.
const number = `([0-9][0-9,]*(?:\.[0-9]{1,2})?)`

// merchantName captures a bounded merchant token; merchantEnd consumes what follows it.
const (
	merchantName = `([A-Za-z0-9&.\- ]{3,30}?)`
	merchantEnd  = `(?:\s+(?:on|dated|ref|refno|via|using|for|from|with|avl|avbl|bal|txn|upi|info|at|by|is|has|was)\b|\s*[,;:()]|\.\s|\.?$)`
)

// DefaultDefinition returns a fresh copy of the built-in rule set.
func DefaultDefinition() Definition {
	return Definition{
		Version: DefaultVersion,
		SenderTokens: []string{
			"HDFC", "ICICI", "SBI", "AXIS", "KOTAK", "PNB", "BOB", "BARODA", "CANBNK", "CANARA",
			"UNIONB", "IDFC", "YESBNK", "INDUS", "RBL", "FEDBNK", "FEDERAL", "CITI", "HSBC",
			"SCBANK", "AUBANK", "IOB", "BOI", "CENTBK", "PAYTM", "PHONEPE", "GPAY", "MOBIKWIK",
		},
		DebitKeywords: []string{
			"debited", "spent", "withdrawn", "paid", "sent", "purchase",
			"upi", "imps", "neft", "rtgs", "atm", "pos",
		},
		CreditKeywords: []string{
			"credited", "refund", "refunded", "cashback", "salary", "bonus",
			"interest", "received", "deposited",
		},
		PromotionalKeywords: []string{
			"offer", "offers", "discount", "sale", "win", "won", "congratulations", "voucher",
			"coupon", "limited period", "exclusive", "pre-approved", "apply now", "shop now",
			"hurry", "flat off",
		},
		OTPKeywords: []string{
			"otp", "one time password", "verification code", "verification", "do not share",
		},
		ReminderKeywords: []string{
			"emi", "due date", "is due", "due on", "overdue", "payment pending", "pending",
			"reminder", "will be debited",
		},
		MerchantRejectPrefixes: []string{
			"your ", "a/c", "ac ", "account", "card ", "xx",
		},
		MerchantRejectTokens: []string{
			"upi", "imps", "neft", "rtgs", "atm", "pos", "net banking", "netbanking",
			"mobile banking", "bank", "your account", "you",
		},
		Banks: []BankRule{
			{Token: "HDFC", Name: "HDFC Bank"},
			{Token: "ICICI", Name: "ICICI Bank"},
			{Token: "SBI", Name: "State Bank of India"},
			{Token: "AXIS", Name: "Axis Bank"},
			{Token: "KOTAK", Name: "Kotak Mahindra Bank"},
			{Token: "PNB", Name: "Punjab National Bank"},
			{Token: "BOB", Name: "Bank of Baroda"},
			{Token: "BARODA", Name: "Bank of Baroda"},
			{Token: "CANBNK", Name: "Canara Bank"},
			{Token: "CANARA", Name: "Canara Bank"},
			{Token: "UNIONB", Name: "Union Bank of India"},
			{Token: "IDFC", Name: "IDFC First Bank"},
			{Token: "YESBNK", Name: "Yes Bank"},
			{Token: "INDUS", Name: "IndusInd Bank"},
			{Token: "RBL", Name: "RBL Bank"},
			{Token: "FEDBNK", Name: "Federal Bank"},
			{Token: "FEDERAL", Name: "Federal Bank"},
			{Token: "CITI", Name: "Citibank"},
			{Token: "HSBC", Name: "HSBC"},
			{Token: "SCBANK", Name: "Standard Chartered"},
			{Token: "AUBANK", Name: "AU Small Finance Bank"},
			{Token: "IOB", Name: "Indian Overseas Bank"},
			{Token: "BOI", Name: "Bank of India"},
			{Token: "CENTBK", Name: "Central Bank of India"},
			{Token: "PAYTM", Name: "Paytm Payments Bank"},
			{Token: "PHONEPE", Name: "PhonePe"},
			{Token: "GPAY", Name: "Google Pay"},
			{Token: "MOBIKWIK", Name: "MobiKwik"},
		},
		CategoryKeywords: []CategoryRule{
			{Category: models.CategoryFood, Color: "#FF6B6B", Tokens: []string{
				"swiggy", "zomato", "restaurant", "cafe", "food", "dining", "pizza", "dominos",
				"mcdonald", "kfc", "starbucks", "eats", "biryani",
			}},
			{Category: models.CategoryGroceries, Color: "#4ECDC4", Tokens: []string{
				"bigbasket", "blinkit", "grofers", "dmart", "grocery", "groceries", "zepto",
				"instamart", "supermarket",
			}},
			{Category: models.CategoryShopping, Color: "#45B7D1", Tokens: []string{
				"amazon", "flipkart", "myntra", "ajio", "nykaa", "meesho", "shop", "store", "mall",
				"retail",
			}},
			{Category: models.CategoryTransport, Color: "#96CEB4", Tokens: []string{
				"uber", "ola", "rapido", "irctc", "metro", "fuel", "petrol", "diesel", "fastag",
				"parking", "airlines", "indigo",
			}},
			{Category: models.CategoryBills, Color: "#FFEAA7", Tokens: []string{
				"electricity", "recharge", "airtel", "jio", "vodafone", "bsnl", "broadband", "bill",
				"gas", "water", "dth",
			}},
			{Category: models.CategoryEntertainment, Color: "#DDA0DD", Tokens: []string{
				"netflix", "spotify", "hotstar", "bookmyshow", "prime video", "movie", "cinema", "pvr",
			}},
			{Category: models.CategoryHealth, Color: "#98D8C8", Tokens: []string{
				"pharmacy", "apollo", "hospital", "clinic", "medical", "medplus", "netmeds", "1mg",
			}},
		},
		CurrencyMarker: `(?i)(?:\brs\.?|\binr\b|₹)`,
		AmountPatterns: []AmountPattern{
			{Name: "currency_prefix", Tier: 1, Expr: `(?i)\b(?:rs\.?|inr)\s*` + number},
			{Name: "currency_suffix", Tier: 1, Expr: `(?i)\b` + number + `\s*(?:rs|inr)\b`},
			{Name: "rupee_symbol", Tier: 2, Expr: `₹\s*` + number},
			{Name: "slash_dash", Tier: 2, Expr: `\b` + number + `\s*/-`},
			{Name: "labelled", Tier: 3, Expr: `(?i)\b(?:amount|amt)\s*(?:of\s*)?[:=\-]?\s*` + number},
			{Name: "keyword_adjacent", Tier: 4, Expr: `(?i)\b(?:debited|credited|spent|withdrawn|paid|received|sent)\b[^0-9]{0,20}?` + number},
			{Name: "state_adjacent", Tier: 5, Expr: `(?i)\b` + number + `\s+(?:has been|was)\b`},
		},
		MerchantPatterns: []MerchantPattern{
			{Name: "at", Precedence: 1, Expr: `(?i)(?:\bat\s+|@\s*)` + merchantName + merchantEnd},
			{Name: "to", Precedence: 2, Expr: `(?i)\b(?:to|towards)\s+` + merchantName + merchantEnd},
			{Name: "for_purchase", Precedence: 3, Expr: `(?i)\bfor\s+` + merchantName + `\s+(?:purchase|transaction|txn)\b`},
			{Name: "via", Precedence: 4, Expr: `(?i)\bvia\s+` + merchantName + merchantEnd},
		},
	}
}
