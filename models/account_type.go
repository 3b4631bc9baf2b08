package models

// AccountType is a closed set of tags. The tag is what gets stored and
// compared; Label is what a client shows.
type AccountType string

const (
	AccountTypeChecking             AccountType = "checking"
	AccountTypeSavings              AccountType = "savings"
	AccountTypeInvestment           AccountType = "investment"
	AccountTypeCash                 AccountType = "cash"
	AccountTypeCreditCard           AccountType = "credit_card"
	AccountTypeDebitCard            AccountType = "debit_card"
	AccountTypeStoreCard            AccountType = "store_card"
	AccountTypePersonalLoan         AccountType = "personal_loan"
	AccountTypeAutoLoan             AccountType = "auto_loan"
	AccountTypeStudentLoan          AccountType = "student_loan"
	AccountTypeMortgage             AccountType = "mortgage"
	AccountTypeLineOfCredit         AccountType = "line_of_credit"
	AccountTypeMoneyMarket          AccountType = "money_market"
	AccountTypeCertificateOfDeposit AccountType = "certificate_of_deposit"
	AccountTypeRetirement           AccountType = "retirement"
	AccountTypeBrokerage            AccountType = "brokerage"
	AccountTypeHealthSavings        AccountType = "health_savings"
	AccountTypePayPal               AccountType = "paypal"
	AccountTypeCryptoWallet         AccountType = "crypto_wallet"
)

var accountTypeLabels = map[AccountType]string{
	AccountTypeChecking:             "Checking",
	AccountTypeSavings:              "Savings",
	AccountTypeInvestment:           "Investment",
	AccountTypeCash:                 "Cash",
	AccountTypeCreditCard:           "Credit Card",
	AccountTypeDebitCard:            "Debit Card",
	AccountTypeStoreCard:            "Store Card",
	AccountTypePersonalLoan:         "Personal Loan",
	AccountTypeAutoLoan:             "Auto Loan",
	AccountTypeStudentLoan:          "Student Loan",
	AccountTypeMortgage:             "Mortgage",
	AccountTypeLineOfCredit:         "Line of Credit",
	AccountTypeMoneyMarket:          "Money Market",
	AccountTypeCertificateOfDeposit: "Certificate of Deposit",
	AccountTypeRetirement:           "Retirement Account",
	AccountTypeBrokerage:            "Brokerage Account",
	AccountTypeHealthSavings:        "Health Savings Account",
	AccountTypePayPal:               "PayPal",
	AccountTypeCryptoWallet:         "Cryptocurrency Wallet",
}

// AccountTypes lists every valid account type tag in display order.
func AccountTypes() []AccountType {
	return []AccountType{
		AccountTypeChecking,
		AccountTypeSavings,
		AccountTypeInvestment,
		AccountTypeCash,
		AccountTypeCreditCard,
		AccountTypeDebitCard,
		AccountTypeStoreCard,
		AccountTypePersonalLoan,
		AccountTypeAutoLoan,
		AccountTypeStudentLoan,
		AccountTypeMortgage,
		AccountTypeLineOfCredit,
		AccountTypeMoneyMarket,
		AccountTypeCertificateOfDeposit,
		AccountTypeRetirement,
		AccountTypeBrokerage,
		AccountTypeHealthSavings,
		AccountTypePayPal,
		AccountTypeCryptoWallet,
	}
}

// Valid reports whether t is a known account type tag.
func (t AccountType) Valid() bool {
	_, ok := accountTypeLabels[t]
	return ok
}

// Label returns the display name for the tag, falling back to the tag
// itself for unknown values.
func (t AccountType) Label() string {
	if label, ok := accountTypeLabels[t]; ok {
		return label
	}
	return string(t)
}
