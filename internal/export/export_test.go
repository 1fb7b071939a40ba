package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/willfong/riskgen/internal/models"
	"github.com/willfong/riskgen/internal/utils"
)

func samplePortfolio() models.BorrowerPortfolio {
	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	p := models.BorrowerPortfolio{
		Borrower: models.Borrower{
			ID:        "b-1",
			TenantID:  "tenant-123",
			FirstName: "Asha",
			LastName:  "Rao",
			Email:     "asha.rao12@example.in",
			Address:   "12 MG Road, Pune, Maharashtra 411001",
			CreatedAt: day,
		},
		Loans: []models.Loan{{
			ID: "l-1", BorrowerID: "b-1", TenantID: "tenant-123",
			Principal: utils.Units(100000), InterestRate: 12, TenureMonths: 12,
			EMI: utils.NewMoney(8884, 88), Status: models.LoanStatusActive, DisbursementDate: day,
		}},
		Transactions: []models.Transaction{
			{ID: "t-1", BorrowerID: "b-1", Date: day, Direction: models.DirectionCredit, Amount: utils.Units(500), Balance: utils.Units(1500), Category: models.CategorySalary, Description: "Monthly Salary Credit"},
			{ID: "t-2", BorrowerID: "b-1", Date: day, Direction: models.DirectionDebit, Amount: utils.NewMoney(20, 5), Balance: utils.NewMoney(1479, 95), Category: models.CategoryRent, Description: "Payment - Rent/Mortgage", Sequence: 1},
		},
	}
	p.RiskTier = models.TierLowRisk
	return p
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return rows
}

func TestPortfolios(t *testing.T) {
	dir := t.TempDir()

	result, err := Portfolios([]models.BorrowerPortfolio{samplePortfolio()}, Options{Dir: dir})
	if err != nil {
		t.Fatalf("Portfolios failed: %v", err)
	}

	want := map[string]int64{
		filepath.Join(dir, "borrowers.csv"):              1,
		filepath.Join(dir, "loans.csv"):                  1,
		filepath.Join(dir, "financial_transactions.csv"): 2,
	}
	for path, rows := range want {
		if got := result.Files[path]; got != rows {
			t.Errorf("%s: expected %d rows, got %d", path, rows, got)
		}
	}

	borrowers := readCSV(t, filepath.Join(dir, "borrowers.csv"))
	if len(borrowers) != 2 {
		t.Fatalf("Expected header + 1 row, got %d", len(borrowers))
	}
	if borrowers[1][17] != "Low Risk" {
		t.Errorf("Expected risk_profile Low Risk, got %q", borrowers[1][17])
	}
	// The address contains commas and must survive quoting
	if borrowers[1][9] != "12 MG Road, Pune, Maharashtra 411001" {
		t.Errorf("Address mangled: %q", borrowers[1][9])
	}

	loans := readCSV(t, filepath.Join(dir, "loans.csv"))
	if loans[1][6] != "8884.88" {
		t.Errorf("Expected emi 8884.88, got %q", loans[1][6])
	}

	txns := readCSV(t, filepath.Join(dir, "financial_transactions.csv"))
	if txns[2][5] != "20.05" || txns[2][9] != "1" {
		t.Errorf("Unexpected transaction row: %v", txns[2])
	}
}

func TestPortfolios_RequiresDir(t *testing.T) {
	if _, err := Portfolios(nil, Options{}); err == nil {
		t.Error("Expected error without output directory")
	}
}

func TestPortfolios_Empty(t *testing.T) {
	dir := t.TempDir()
	result, err := Portfolios(nil, Options{Dir: dir})
	if err != nil {
		t.Fatalf("Portfolios failed: %v", err)
	}
	for path, rows := range result.Files {
		if rows != 0 {
			t.Errorf("%s: expected 0 rows, got %d", path, rows)
		}
		if got := readCSV(t, path); len(got) != 1 {
			t.Errorf("%s: expected header only, got %d rows", path, len(got))
		}
	}
}
