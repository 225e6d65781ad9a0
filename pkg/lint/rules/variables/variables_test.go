package variables_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint/internal/linttest"
	_ "github.com/leapstack-labs/mysqlint/pkg/lint/rules/variables" // register rules
	"github.com/leapstack-labs/mysqlint/pkg/platform"
)

func TestSV01_UnknownVariable(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		wantDiag bool
	}{
		{"known session variable", "SET autocommit = 1", false},
		{"known with scope", "SET @@GLOBAL.max_connections = 10", false},
		{"unknown sys var", "SET @@no_such_thing = 1", true},
		{"unknown with scope keyword", "SET GLOBAL no_such_thing = 1", true},
		{"bare unknown name is a local variable", "SET counter = 1", false},
		{"unknown read", "SELECT @@no_such_thing", true},
		{"known read", "SELECT @@version", false},
		{"mariadb only variable", "SET @@max_statement_time = 1", true},
		{"user variable", "SET @x = 1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := linttest.Run(t, tt.sql, "SV01")
			if tt.wantDiag {
				require.NotEmpty(t, diags, "expected SV01 diagnostic")
				assert.Equal(t, core.SeverityCritical, diags[0].Severity)
				assert.Contains(t, diags[0].Message, "unknown system variable")
			} else {
				assert.Empty(t, diags, "unexpected SV01 diagnostic")
			}
		})
	}
}

func TestSV01_PlatformSpecific(t *testing.T) {
	maria, err := platform.Parse("mariadb-10.6")
	require.NoError(t, err)

	diags := linttest.RunWith(t, linttest.Options{Platform: maria}, "SET @@max_statement_time = 1", "SV01")
	assert.Empty(t, diags)

	diags = linttest.RunWith(t, linttest.Options{Platform: maria}, "SET @@max_execution_time = 1", "SV01")
	assert.Len(t, diags, 1)
}

func TestSV01_ReportsEachVariableOnce(t *testing.T) {
	diags := linttest.Run(t, "SELECT @@nope, @@nope, @@other", "SV01")
	assert.Len(t, diags, 2)
}

func TestSV02_ReadOnlyVariable(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		wantDiag bool
	}{
		{"read only global", "SET GLOBAL port = 3307", true},
		{"read only session", "SET warning_count = 1", true},
		{"persist only is allowed", "SET PERSIST_ONLY port = 3307", false},
		{"writable", "SET GLOBAL max_connections = 10", false},
		{"read is fine", "SELECT @@port", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := linttest.Run(t, tt.sql, "SV02")
			if tt.wantDiag {
				require.Len(t, diags, 1)
				assert.Contains(t, diags[0].Message, "read only")
			} else {
				assert.Empty(t, diags)
			}
		})
	}
}

func TestSV03_VariableScope(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		wantMsg string
	}{
		{"global only set per session", "SET max_connections = 10", "is a GLOBAL variable and should be set with SET GLOBAL"},
		{"global only with session keyword", "SET SESSION max_connections = 10", "is a GLOBAL variable"},
		{"session only set globally", "SET GLOBAL insert_id = 1", "is a SESSION variable and can't be used with SET GLOBAL"},
		{"session only persisted", "SET PERSIST insert_id = 1", "can't be used with SET PERSIST"},
		{"session read of global only", "SELECT @@session.max_connections", "is a GLOBAL variable"},
		{"global read of session only", "SELECT @@global.warning_count", "is a SESSION variable"},
		{"plain read of global only", "SELECT @@max_connections", ""},
		{"both scopes", "SET GLOBAL wait_timeout = 10", ""},
		{"global set", "SET GLOBAL max_connections = 10", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := linttest.Run(t, tt.sql, "SV03")
			if tt.wantMsg == "" {
				assert.Empty(t, diags)
				return
			}
			require.Len(t, diags, 1)
			assert.Contains(t, diags[0].Message, tt.wantMsg)
		})
	}
}

func TestSV04_VariableType(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		wantMsg string
	}{
		{"bool on", "SET autocommit = ON", ""},
		{"bool zero", "SET autocommit = 0", ""},
		{"bool string", "SET autocommit = 'off'", ""},
		{"bool literal", "SET autocommit = TRUE", ""},
		{"bool bad word", "SET autocommit = 'yes'", "can't be set to the value of 'yes'"},
		{"bool bad number", "SET autocommit = 2", "can't be set to the value of '2'"},
		{"bool null", "SET autocommit = NULL", "can't be set to the value of 'NULL'"},
		{"int", "SET wait_timeout = 100", ""},
		{"negative int", "SET auto_increment_offset = -1", ""},
		{"int string", "SET wait_timeout = '100'", "incorrect argument type"},
		{"int decimal", "SET wait_timeout = 1.5", "incorrect argument type"},
		{"float decimal", "SET long_query_time = 0.5", ""},
		{"float string", "SET long_query_time = 'x'", "incorrect argument type"},
		{"enum value", "SET transaction_isolation = 'READ-COMMITTED'", ""},
		{"enum case", "SET GLOBAL binlog_format = row", ""},
		{"enum index", "SET transaction_isolation = 1", ""},
		{"enum bad index", "SET transaction_isolation = 9", "can't be set to the value of '9'"},
		{"enum bad value", "SET transaction_isolation = 'SNAPSHOT'", "can't be set to the value of 'SNAPSHOT'"},
		{"expression skipped", "SET wait_timeout = @t * 2", ""},
		{"default skipped", "SET wait_timeout = DEFAULT", ""},
		{"string variable", "SET time_zone = '+00:00'", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := linttest.Run(t, tt.sql, "SV04")
			if tt.wantMsg == "" {
				assert.Empty(t, diags)
				return
			}
			require.Len(t, diags, 1)
			assert.Equal(t, core.SeverityError, diags[0].Severity)
			assert.Contains(t, diags[0].Message, tt.wantMsg)
		})
	}
}
