package models

// Categories
const (
	CategoryFood          = "Food & Dining"
	CategoryGroceries     = "Groceries"
	CategoryShopping      = "Shopping"
	CategoryTransport     = "Transportation"
	CategoryBills         = "Bills & Utilities"
	CategoryEntertainment = "Entertainment"
	CategoryHealth        = "Healthcare"
	CategoryTransfers     = "Transfers"
	CategoryIncome        = "Income"
	CategoryCash          = "Cash Withdrawal"
	CategoryOther         = "Other"
)

// Colors
const (
	ColorNeutral = "#9E9E9E"
)

// UnknownMerchant is the sentinel used when no merchant could be attributed.
const UnknownMerchant = "Unknown"

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)

// DefaultCategories are seeded into a fresh store.
var DefaultCategories = []Category{
	{Name: CategoryFood, Emoji: "🍽️", Color: "#FF6B6B", IsSystem: true, DisplayOrder: 1},
	{Name: CategoryGroceries, Emoji: "🛒", Color: "#4ECDC4", IsSystem: true, DisplayOrder: 2},
	{Name: CategoryShopping, Emoji: "🛍️", Color: "#45B7D1", IsSystem: true, DisplayOrder: 3},
	{Name: CategoryTransport, Emoji: "🚗", Color: "#96CEB4", IsSystem: true, DisplayOrder: 4},
	{Name: CategoryBills, Emoji: "💡", Color: "#FFEAA7", IsSystem: true, DisplayOrder: 5},
	{Name: CategoryEntertainment, Emoji: "🎬", Color: "#DDA0DD", IsSystem: true, DisplayOrder: 6},
	{Name: CategoryHealth, Emoji: "🏥", Color: "#98D8C8", IsSystem: true, DisplayOrder: 7},
	{Name: CategoryTransfers, Emoji: "🔁", Color: "#B4BEFE", IsSystem: true, DisplayOrder: 8},
	{Name: CategoryIncome, Emoji: "💰", Color: "#A6E3A1", IsSystem: true, DisplayOrder: 9},
	{Name: CategoryCash, Emoji: "🏧", Color: "#F7DC6F", IsSystem: true, DisplayOrder: 10},
	{Name: CategoryOther, Emoji: "📦", Color: ColorNeutral, IsSystem: true, DisplayOrder: 99},
}
