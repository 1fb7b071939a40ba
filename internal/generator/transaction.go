package generator

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/willfong/riskgen/internal/models"
	"github.com/willfong/riskgen/internal/risk"
	"github.com/willfong/riskgen/internal/utils"
)

// TransactionSimulator produces a borrower's bank statement: a running
// balance driven month by month by salary, expenses, bounce fees, savings,
// large withdrawals and loan repayments, each shaped by the risk tier.
type TransactionSimulator struct {
	rng      utils.RandomSource
	baseDate time.Time
}

// Ledger is one simulated account statement
type Ledger struct {
	AccountNumber  string
	OpeningBalance utils.Money
	Pattern        risk.TransactionPattern
	Transactions   []models.Transaction
}

// ClosingBalance is the running balance after the last entry. It differs
// from the last entry's reported balance when a repayment overdrew the account.
func (l *Ledger) ClosingBalance() utils.Money {
	balance := l.OpeningBalance
	for _, t := range l.Transactions {
		balance = balance.Add(t.SignedAmount())
	}
	return balance
}

// NewTransactionSimulator creates a simulator whose history ends in the
// month before baseDate
func NewTransactionSimulator(rng utils.RandomSource, baseDate time.Time) *TransactionSimulator {
	if baseDate.IsZero() {
		baseDate = time.Now().UTC()
	}
	return &TransactionSimulator{rng: rng, baseDate: baseDate}
}

type legKind int

const (
	legSalary legKind = iota
	legExpense
	legBounceFee
	legSavings
	legLargeWithdrawal
	legRepayment
)

// leg is one planned ledger entry. Amounts that depend on the balance are
// computed when the leg executes.
type leg struct {
	kind     legKind
	day      int
	category models.Category
}

// stream holds the per-borrower draws that hold for the whole window
type stream struct {
	params       risk.LedgerParams
	hasSalary    bool
	baseSalary   float64
	hasRepayment bool
	repayment    utils.Money
}

// Simulate generates months of history for the borrower. months <= 0
// yields an empty ledger.
func (s *TransactionSimulator) Simulate(borrowerID string, tier models.RiskTier, months int) (*Ledger, error) {
	params, err := risk.Lookup(tier)
	if err != nil {
		return nil, tierError(err)
	}
	pattern, err := risk.PatternFor(s.rng, tier)
	if err != nil {
		return nil, tierError(err)
	}

	ledger := &Ledger{
		AccountNumber:  utils.NumericString(s.rng, 8),
		OpeningBalance: pattern.AverageBalance.MulFloat(1 + s.rng.Float64Range(-0.2, 0.2)),
		Pattern:        pattern,
	}
	if months <= 0 {
		return ledger, nil
	}

	st := s.drawStream(params.Ledger)
	balance := ledger.OpeningBalance
	windowStart := time.Date(s.baseDate.Year(), s.baseDate.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -months, 0)

	for m := 0; m < months; m++ {
		monthStart := windowStart.AddDate(0, m, 0)
		for _, l := range s.planMonth(st, m, months) {
			date := time.Date(monthStart.Year(), monthStart.Month(), l.day, 0, 0, 0, 0, time.UTC)

			var txn models.Transaction
			var ok bool
			balance, txn, ok = s.execute(st, l, balance)
			if !ok {
				continue
			}

			txn.ID = uuid.NewString()
			txn.BorrowerID = borrowerID
			txn.AccountNumber = ledger.AccountNumber
			txn.Date = date
			ledger.Transactions = append(ledger.Transactions, txn)
		}
	}

	sort.SliceStable(ledger.Transactions, func(i, j int) bool {
		return ledger.Transactions[i].Date.Before(ledger.Transactions[j].Date)
	})
	for i := range ledger.Transactions {
		ledger.Transactions[i].Sequence = i
	}

	return ledger, nil
}

func (s *TransactionSimulator) drawStream(p risk.LedgerParams) stream {
	st := stream{params: p}

	st.hasSalary = !s.rng.Probability(p.NoSalaryProb)
	st.baseSalary = p.Salary.Raw(s.rng)

	st.hasRepayment = s.rng.Probability(p.RepaymentProb)
	st.repayment = utils.FromFloat(p.Repayment.Raw(s.rng))

	return st
}

// planMonth draws the month's legs and orders them by day. The sort is
// stable so same-day legs keep their planning order.
func (s *TransactionSimulator) planMonth(st stream, m, months int) []leg {
	p := st.params
	var legs []leg

	if st.hasSalary && !s.rng.Probability(p.SalarySkipProb) {
		legs = append(legs, leg{kind: legSalary, day: s.rng.IntRange(1, 5), category: models.CategorySalary})
	}

	expenses := s.rng.IntRange(3, 6)
	for i := 0; i < expenses; i++ {
		legs = append(legs, leg{
			kind:     legExpense,
			day:      s.rng.IntRange(5, 28),
			category: utils.Pick(s.rng, models.ExpenseCategories),
		})
	}

	if s.rng.Probability(p.BounceProb) {
		legs = append(legs, leg{kind: legBounceFee, day: s.rng.IntRange(15, 28), category: models.CategoryFees})
	}

	if s.rng.Probability(p.SavingsProb) {
		legs = append(legs, leg{kind: legSavings, day: s.rng.IntRange(1, 10), category: models.CategoryTransfer})
	}

	if m >= months-risk.LargeWithdrawalMonths && s.rng.Probability(p.LargeWithdrawalProb) {
		legs = append(legs, leg{kind: legLargeWithdrawal, day: s.rng.IntRange(1, 28), category: models.CategoryATM})
	}

	if st.hasRepayment && !s.rng.Probability(p.RepaymentSkipProb) {
		legs = append(legs, leg{kind: legRepayment, day: s.rng.IntRange(10, 15), category: models.CategoryLoan})
	}

	sort.SliceStable(legs, func(i, j int) bool { return legs[i].day < legs[j].day })
	return legs
}

// execute applies one leg to the running balance. ok is false when the leg
// produced no entry.
func (s *TransactionSimulator) execute(st stream, l leg, balance utils.Money) (utils.Money, models.Transaction, bool) {
	p := st.params
	txn := models.Transaction{Category: l.category, Direction: models.DirectionDebit}

	var amount utils.Money
	switch l.kind {
	case legSalary:
		amount = utils.FromFloat(st.baseSalary * (1 + s.rng.Float64Range(-0.1, 0.1)))
		txn.Direction = models.DirectionCredit
		txn.Description = "Monthly Salary Credit"

	case legExpense:
		share := p.ExpenseShare.Raw(s.rng)
		if l.category == models.CategoryRent {
			share = p.RentShare.Raw(s.rng)
		}
		amount = balance.MulFloat(share)
		if p.KeepFloor {
			if limit := balance.Sub(utils.Units(risk.BalanceFloor)); amount > limit {
				amount = limit
			}
		}
		txn.Description = "Payment - " + string(l.category)

	case legBounceFee:
		amount = utils.FromFloat(p.BounceFee.Raw(s.rng))
		txn.Description = "Payment Reversal Fee"

	case legSavings:
		amount = balance.MulFloat(p.SavingsShare.Raw(s.rng))
		txn.Description = "Transfer to Savings Account"

	case legLargeWithdrawal:
		amount = balance.MulFloat(p.LargeWithdrawalShare.Raw(s.rng))
		txn.Description = "ATM Withdrawal"

	case legRepayment:
		amount = st.repayment
		txn.Description = "Loan EMI Payment"
	}

	if !amount.IsPositive() {
		return balance, txn, false
	}

	txn.Amount = amount
	balance = balance.Add(txn.SignedAmount())
	txn.Balance = balance
	if l.kind == legRepayment {
		txn.Balance = balance.Max(0)
	}
	return balance, txn, true
}
