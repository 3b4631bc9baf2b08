package models

// Setting is one application settings row. Settings are display and
// housekeeping hints read per request, never cached at startup.
type Setting struct {
	Base
	// KEY is reserved in MySQL, hence the explicit column name.
	Key         string `json:"key" gorm:"column:setting_key;size:64;not null;uniqueIndex"`
	Value       string `json:"value" gorm:"size:255;not null"`
	DisplayName string `json:"display_name" gorm:"size:128"`
}

func (Setting) TableName() string {
	return "application_settings"
}

// Setting keys with seeded defaults.
const (
	SettingCurrencySymbol    = "currency_symbol"
	SettingDecimalPlaces     = "decimal_places"
	SettingNumberFormat      = "number_format"
	SettingPruneBudgetsAfter = "prune_budgets_after_months"
	SettingShowNumOldBudgets = "show_num_old_budgets"
	SettingTimezone          = "timezone"
)

// DefaultSettings returns the rows seeded into an empty settings table.
func DefaultSettings() []Setting {
	return []Setting{
		{Key: SettingCurrencySymbol, Value: "$", DisplayName: "Currency Symbol"},
		{Key: SettingDecimalPlaces, Value: "2", DisplayName: "Decimal Places"},
		{Key: SettingNumberFormat, Value: "comma", DisplayName: "Number Format"},
		{Key: SettingPruneBudgetsAfter, Value: "24", DisplayName: "Prune Budgets After (Months)"},
		{Key: SettingShowNumOldBudgets, Value: "3", DisplayName: "Show Number of Old Budgets"},
		{Key: SettingTimezone, Value: "America/New_York", DisplayName: "Timezone"},
	}
}
