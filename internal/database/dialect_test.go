package database

import (
	"strings"
	"testing"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		driver  string
		want    Dialect
		wantErr bool
	}{
		{"postgres", Postgres, false},
		{"PostgreSQL", Postgres, false},
		{"mysql", MySQL, false},
		{"mariadb", MySQL, false},
		{"sqlite3", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			got, err := ParseDialect(tt.driver)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDialect(%q) error = %v, wantErr %v", tt.driver, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		query   string
		want    string
	}{
		{"postgres numbers placeholders", Postgres, "SELECT 1 FROM t WHERE a = ? AND b = ?", "SELECT 1 FROM t WHERE a = $1 AND b = $2"},
		{"postgres skips quoted literals", Postgres, "SELECT '?' FROM t WHERE a = ?", "SELECT '?' FROM t WHERE a = $1"},
		{"postgres without placeholders", Postgres, "SELECT 1", "SELECT 1"},
		{"mysql unchanged", MySQL, "SELECT 1 FROM t WHERE a = ?", "SELECT 1 FROM t WHERE a = ?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.Rebind(tt.query); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEnsureParseTime(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"user:pass@tcp(localhost:3306)/loandb", "user:pass@tcp(localhost:3306)/loandb?parseTime=true"},
		{"user:pass@tcp(localhost:3306)/loandb?charset=utf8mb4", "user:pass@tcp(localhost:3306)/loandb?charset=utf8mb4&parseTime=true"},
		{"user:pass@tcp(localhost:3306)/loandb?parseTime=false", "user:pass@tcp(localhost:3306)/loandb?parseTime=false"},
	}

	for _, tt := range tests {
		if got := ensureParseTime(tt.dsn); got != tt.want {
			t.Errorf("ensureParseTime(%q): expected %q, got %q", tt.dsn, tt.want, got)
		}
	}
}

func TestBaseSchema(t *testing.T) {
	for _, d := range []Dialect{Postgres, MySQL} {
		ddl, err := BaseSchema(d)
		if err != nil {
			t.Fatalf("BaseSchema(%s) failed: %v", d, err)
		}

		stmts := splitStatements(string(ddl))
		if len(stmts) == 0 {
			t.Fatalf("Expected statements in %s schema", d)
		}
		for _, table := range []string{"lenders", "borrowers", "loans"} {
			if !strings.Contains(string(ddl), "CREATE TABLE IF NOT EXISTS "+table) {
				t.Errorf("%s schema missing table %s", d, table)
			}
		}
		for _, stmt := range stmts {
			if strings.HasPrefix(stmt, "--") {
				t.Errorf("Expected comments stripped, got %q", stmt)
			}
		}
	}

	if _, err := BaseSchema(Dialect("oracle")); err == nil {
		t.Error("Expected error for unknown dialect")
	}
}

func TestSplitStatements(t *testing.T) {
	script := `-- header
CREATE TABLE a (id INT);

-- trailing comment only
CREATE INDEX i ON a (id);
`
	stmts := splitStatements(script)
	if len(stmts) != 2 {
		t.Fatalf("Expected 2 statements, got %d: %q", len(stmts), stmts)
	}
	if stmts[0] != "CREATE TABLE a (id INT)" {
		t.Errorf("Expected first statement without comment, got %q", stmts[0])
	}
}
