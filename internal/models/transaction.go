package models

import (
	"time"

	"github.com/willfong/riskgen/internal/utils"
)

// Direction is whether money enters or leaves the account
type Direction string

const (
	DirectionCredit Direction = "Credit"
	DirectionDebit  Direction = "Debit"
)

// Sign returns +1 for credits and -1 for debits
func (d Direction) Sign() int64 {
	if d == DirectionCredit {
		return 1
	}
	return -1
}

// Category classifies a ledger entry
type Category string

const (
	CategorySalary         Category = "Salary"
	CategoryRent           Category = "Rent/Mortgage"
	CategoryUtilities      Category = "Utilities"
	CategoryGroceries      Category = "Groceries"
	CategoryTransportation Category = "Transportation"
	CategoryEntertainment  Category = "Entertainment"
	CategoryShopping       Category = "Shopping"
	CategoryFees           Category = "Fees"
	CategoryTransfer       Category = "Transfer"
	CategoryATM            Category = "ATM"
	CategoryLoan           Category = "Loan"
)

// ExpenseCategories are the discretionary and fixed monthly spending buckets
var ExpenseCategories = []Category{
	CategoryRent,
	CategoryUtilities,
	CategoryGroceries,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryShopping,
}

// Transaction is one entry of a borrower's synthetic bank statement
type Transaction struct {
	ID            string      `db:"id" json:"id"`
	BorrowerID    string      `db:"borrower_id" json:"borrower_id"`
	AccountNumber string      `db:"account_number" json:"account_number"`
	Date          time.Time   `db:"transaction_date" json:"transaction_date"`
	Direction     Direction   `db:"transaction_type" json:"transaction_type"`
	Amount        utils.Money `db:"amount" json:"amount"`   // always positive
	Balance       utils.Money `db:"balance" json:"balance"` // running balance after this entry
	Category      Category    `db:"category" json:"category"`
	Description   string      `db:"description" json:"description"`

	// Position within the borrower's ledger; orders same-day entries
	Sequence int `db:"seq_no" json:"sequence"`
}

// SignedAmount returns the amount with the direction applied
func (t *Transaction) SignedAmount() utils.Money {
	return utils.Money(int64(t.Amount) * t.Direction.Sign())
}
