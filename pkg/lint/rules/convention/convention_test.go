package convention_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	"github.com/leapstack-labs/mysqlint/pkg/lint/internal/linttest"
	_ "github.com/leapstack-labs/mysqlint/pkg/lint/rules/convention" // register rules
	"github.com/leapstack-labs/mysqlint/pkg/platform"
)

func TestDM01_UnsafeDML(t *testing.T) {
	tests := []struct {
		name         string
		sql          string
		wantSeverity core.Severity
		wantMsg      string
	}{
		{"update with where", "UPDATE t SET a = 1 WHERE id = 2", 0, ""},
		{"delete with where", "DELETE FROM t WHERE id = 2", 0, ""},
		{"update without where", "UPDATE t SET a = 1", core.SeverityError, "UPDATE without WHERE clause affects every row of table 't'"},
		{"delete without where", "DELETE FROM s.t", core.SeverityError, "DELETE without WHERE clause affects every row of table 's.t'"},
		{"safe updates", "SET sql_safe_updates = 1; DELETE FROM t", core.SeverityCritical, "rejected when sql_safe_updates is enabled"},
		{"safe updates on", "SET SESSION sql_safe_updates = ON; UPDATE t SET a = 1", core.SeverityCritical, "rejected when sql_safe_updates is enabled"},
		{"safe updates with limit", "SET sql_safe_updates = 1; DELETE FROM t LIMIT 10", core.SeverityError, "affects every row"},
		{"safe updates off", "SET sql_safe_updates = 1; SET sql_safe_updates = OFF; DELETE FROM t", core.SeverityError, "affects every row"},
		{"insert is fine", "INSERT INTO t (a) VALUES (1)", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := linttest.Run(t, tt.sql, "DM01")
			if tt.wantMsg == "" {
				assert.Empty(t, diags)
				return
			}
			require.Len(t, diags, 1)
			assert.Equal(t, tt.wantSeverity, diags[0].Severity)
			assert.Contains(t, diags[0].Message, tt.wantMsg)
		})
	}
}

func TestQR01_SelectStar(t *testing.T) {
	tests := []struct {
		name  string
		sql   string
		opts  map[string]any
		count int
	}{
		{"explicit columns", "SELECT a, b FROM t", nil, 0},
		{"star", "SELECT * FROM t", nil, 1},
		{"qualified star allowed", "SELECT t.* FROM t", nil, 0},
		{"qualified star disallowed", "SELECT t.* FROM t", map[string]any{"allow_qualified": false}, 1},
		{"count star", "SELECT COUNT(*) FROM t", nil, 0},
		{"union reports once", "SELECT * FROM a UNION SELECT * FROM b", nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := lint.NewConfig()
			if tt.opts != nil {
				cfg.SetRuleOptions("QR01", tt.opts)
			}
			diags := linttest.RunWith(t, linttest.Options{Config: cfg}, tt.sql, "QR01")
			assert.Len(t, diags, tt.count)
			for _, d := range diags {
				assert.Equal(t, core.SeverityNotice, d.Severity)
			}
		})
	}
}

func TestNM01_ReservedName(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		sql      string
		want     []string
	}{
		{"plain names", "mysql-8.0", "SELECT id FROM users", nil},
		{"quoted table", "mysql-8.0", "SELECT id FROM `order`", []string{"order"}},
		{"quoted column and alias", "mysql-8.0", "SELECT `key` AS `select` FROM t", []string{"select", "key"}},
		{"create table", "mysql-8.0", "CREATE TABLE `group` (`rank` INT, id INT)", []string{"group", "rank"}},
		{"rank not reserved before 8.0", "mysql-5.7", "CREATE TABLE t (`rank` INT)", nil},
		{"insert columns", "mysql-8.0", "INSERT INTO t (`desc`) VALUES (1)", []string{"desc"}},
		{"set values are not names", "mysql-8.0", "SET autocommit = ON", nil},
		{"reported once", "mysql-8.0", "SELECT `key` FROM t WHERE `key` = 1", []string{"key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := platform.Parse(tt.platform)
			require.NoError(t, err)
			diags := linttest.RunWith(t, linttest.Options{Platform: p}, tt.sql, "NM01")
			require.Len(t, diags, len(tt.want))
			for i, name := range tt.want {
				assert.Contains(t, diags[i].Message, "'"+name+"' is a reserved word")
			}
		})
	}
}

func TestNM01_ColumnPositions(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"column definition", "CREATE TABLE t (\n  id INT,\n  `rank` INT\n)"},
		{"insert column", "INSERT INTO t (\n  a,\n  `desc`\n) VALUES (1, 2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := linttest.Run(t, tt.sql, "NM01")
			require.Len(t, diags, 1)
			assert.Equal(t, 3, diags[0].Pos.Line)
			assert.Equal(t, 3, diags[0].Pos.Column)
		})
	}
}

func TestNM01_AllowOption(t *testing.T) {
	cfg := lint.NewConfig().SetRuleOptions("NM01", map[string]any{"allow": []any{"KEY"}})
	diags := linttest.RunWith(t, linttest.Options{Config: cfg}, "SELECT `key`, `desc` FROM t", "NM01")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "'desc'")
}

func TestDL01_DelimiterClash(t *testing.T) {
	tests := []struct {
		name         string
		sql          string
		wantSeverity core.Severity
		wantMsg      string
	}{
		{"dollar", "DELIMITER $$", 0, ""},
		{"slashes", "DELIMITER //", 0, ""},
		{"back to default", "DELIMITER $$\nDELIMITER ;", 0, ""},
		{"equals", "DELIMITER =", core.SeverityError, "delimiter '=' also occurs in SQL syntax"},
		{"comment start", "DELIMITER --x", core.SeverityError, "also occurs in SQL syntax"},
		{"quote", "DELIMITER a'b", core.SeverityError, "also occurs in SQL syntax"},
		{"word", "DELIMITER end", core.SeverityError, "delimiter 'end' also occurs"},
		{"statement with delimiter in string", "SELECT 'a;b'", core.SeveritySkipNotice, "contains the delimiter ';'"},
		{"custom delimiter", "DELIMITER //\nSELECT 'a;b' //", 0, ""},
		{"plain statement", "SELECT 1", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := linttest.Run(t, tt.sql, "DL01")
			if tt.wantMsg == "" {
				assert.Empty(t, diags)
				return
			}
			require.Len(t, diags, 1)
			assert.Equal(t, tt.wantSeverity, diags[0].Severity)
			assert.Contains(t, diags[0].Message, tt.wantMsg)
		})
	}
}

func TestDL01_SkipNoticesFlag(t *testing.T) {
	diags := linttest.RunWith(t, linttest.Options{Flags: lint.FlagSkipNotices}, "SELECT 'a;b'", "DL01")
	assert.Empty(t, diags)
}
