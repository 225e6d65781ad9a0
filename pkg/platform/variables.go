package platform

import (
	"sort"
	"strings"
)

// VarScope is the set of scopes a system variable exists in.
type VarScope uint8

// System variable scopes.
const (
	Global VarScope = 1 << iota
	Session

	Both = Global | Session
)

// VarType is the value type of a system variable.
type VarType uint8

// System variable value types.
const (
	TypeString VarType = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeEnum
	TypeSet
)

func (t VarType) String() string {
	switch t {
	case TypeBool:
		return "boolean"
	case TypeInt:
		return "integer"
	case TypeFloat:
		return "numeric"
	case TypeEnum:
		return "enumeration"
	case TypeSet:
		return "set"
	default:
		return "string"
	}
}

// SystemVariable describes a server system variable.
type SystemVariable struct {
	Name     string
	Scope    VarScope
	Type     VarType
	ReadOnly bool
	Default  string
	Values   []string // allowed values for enum and set types
	Only     Name     // restrict to one server family; empty for both
}

// HasScope reports whether the variable exists in scope.
func (v SystemVariable) HasScope(scope VarScope) bool {
	return v.Scope&scope != 0
}

var isolationLevels = []string{"READ-UNCOMMITTED", "READ-COMMITTED", "REPEATABLE-READ", "SERIALIZABLE"}

var systemVariables = []SystemVariable{
	{Name: "auto_increment_increment", Scope: Both, Type: TypeInt, Default: "1"},
	{Name: "auto_increment_offset", Scope: Both, Type: TypeInt, Default: "1"},
	{Name: "autocommit", Scope: Both, Type: TypeBool, Default: "ON"},
	{Name: "big_tables", Scope: Both, Type: TypeBool, Default: "OFF"},
	{Name: "binlog_format", Scope: Both, Type: TypeEnum, Default: "ROW", Values: []string{"ROW", "STATEMENT", "MIXED"}},
	{Name: "character_set_client", Scope: Both, Type: TypeString},
	{Name: "character_set_connection", Scope: Both, Type: TypeString},
	{Name: "character_set_database", Scope: Both, Type: TypeString},
	{Name: "character_set_results", Scope: Both, Type: TypeString},
	{Name: "character_set_server", Scope: Both, Type: TypeString},
	{Name: "character_set_system", Scope: Global, Type: TypeString, ReadOnly: true, Default: "utf8mb3"},
	{Name: "collation_connection", Scope: Both, Type: TypeString},
	{Name: "collation_database", Scope: Both, Type: TypeString},
	{Name: "collation_server", Scope: Both, Type: TypeString},
	{Name: "datadir", Scope: Global, Type: TypeString, ReadOnly: true},
	{Name: "default_authentication_plugin", Scope: Global, Type: TypeEnum, ReadOnly: true, Default: "caching_sha2_password",
		Values: []string{"mysql_native_password", "sha256_password", "caching_sha2_password"}, Only: MySQL},
	{Name: "default_storage_engine", Scope: Both, Type: TypeString, Default: "InnoDB"},
	{Name: "error_count", Scope: Session, Type: TypeInt, ReadOnly: true, Default: "0"},
	{Name: "event_scheduler", Scope: Global, Type: TypeEnum, Default: "ON", Values: []string{"ON", "OFF", "DISABLED"}},
	{Name: "explicit_defaults_for_timestamp", Scope: Both, Type: TypeBool, Default: "ON"},
	{Name: "foreign_key_checks", Scope: Both, Type: TypeBool, Default: "ON"},
	{Name: "general_log", Scope: Global, Type: TypeBool, Default: "OFF"},
	{Name: "group_concat_max_len", Scope: Both, Type: TypeInt, Default: "1024"},
	{Name: "have_ssl", Scope: Global, Type: TypeString, ReadOnly: true, Default: "YES"},
	{Name: "hostname", Scope: Global, Type: TypeString, ReadOnly: true},
	{Name: "identity", Scope: Session, Type: TypeInt, Default: "0"},
	{Name: "innodb_buffer_pool_size", Scope: Global, Type: TypeInt, Default: "134217728"},
	{Name: "innodb_lock_wait_timeout", Scope: Both, Type: TypeInt, Default: "50"},
	{Name: "insert_id", Scope: Session, Type: TypeInt, Default: "0"},
	{Name: "interactive_timeout", Scope: Both, Type: TypeInt, Default: "28800"},
	{Name: "last_insert_id", Scope: Session, Type: TypeInt, Default: "0"},
	{Name: "lc_time_names", Scope: Both, Type: TypeString, Default: "en_US"},
	{Name: "lock_wait_timeout", Scope: Both, Type: TypeInt, Default: "31536000"},
	{Name: "long_query_time", Scope: Both, Type: TypeFloat, Default: "10"},
	{Name: "max_allowed_packet", Scope: Both, Type: TypeInt, Default: "67108864"},
	{Name: "max_connections", Scope: Global, Type: TypeInt, Default: "151"},
	{Name: "max_execution_time", Scope: Both, Type: TypeInt, Default: "0", Only: MySQL},
	{Name: "max_heap_table_size", Scope: Both, Type: TypeInt, Default: "16777216"},
	{Name: "max_statement_time", Scope: Both, Type: TypeFloat, Default: "0", Only: MariaDB},
	{Name: "net_read_timeout", Scope: Both, Type: TypeInt, Default: "30"},
	{Name: "net_write_timeout", Scope: Both, Type: TypeInt, Default: "60"},
	{Name: "port", Scope: Global, Type: TypeInt, ReadOnly: true, Default: "3306"},
	{Name: "protocol_version", Scope: Global, Type: TypeInt, ReadOnly: true, Default: "10"},
	{Name: "pseudo_thread_id", Scope: Session, Type: TypeInt, Default: "0"},
	{Name: "read_only", Scope: Global, Type: TypeBool, Default: "OFF"},
	{Name: "require_secure_transport", Scope: Global, Type: TypeBool, Default: "OFF"},
	{Name: "server_id", Scope: Global, Type: TypeInt, Default: "1"},
	{Name: "slow_query_log", Scope: Global, Type: TypeBool, Default: "OFF"},
	{Name: "sort_buffer_size", Scope: Both, Type: TypeInt, Default: "262144"},
	{Name: "sql_auto_is_null", Scope: Both, Type: TypeBool, Default: "OFF"},
	{Name: "sql_big_selects", Scope: Both, Type: TypeBool, Default: "ON"},
	{Name: "sql_log_bin", Scope: Session, Type: TypeBool, Default: "ON"},
	{Name: "sql_mode", Scope: Both, Type: TypeSet},
	{Name: "sql_notes", Scope: Both, Type: TypeBool, Default: "ON"},
	{Name: "sql_quote_show_create", Scope: Both, Type: TypeBool, Default: "ON"},
	{Name: "sql_safe_updates", Scope: Both, Type: TypeBool, Default: "OFF"},
	{Name: "sql_select_limit", Scope: Both, Type: TypeInt, Default: "18446744073709551615"},
	{Name: "sql_warnings", Scope: Both, Type: TypeBool, Default: "OFF"},
	{Name: "system_time_zone", Scope: Global, Type: TypeString, ReadOnly: true},
	{Name: "time_zone", Scope: Both, Type: TypeString, Default: "SYSTEM"},
	{Name: "timestamp", Scope: Session, Type: TypeFloat},
	{Name: "tmp_table_size", Scope: Both, Type: TypeInt, Default: "16777216"},
	{Name: "transaction_isolation", Scope: Both, Type: TypeEnum, Default: "REPEATABLE-READ", Values: isolationLevels, Only: MySQL},
	{Name: "transaction_read_only", Scope: Both, Type: TypeBool, Default: "OFF", Only: MySQL},
	{Name: "tx_isolation", Scope: Both, Type: TypeEnum, Default: "REPEATABLE-READ", Values: isolationLevels, Only: MariaDB},
	{Name: "tx_read_only", Scope: Both, Type: TypeBool, Default: "OFF", Only: MariaDB},
	{Name: "unique_checks", Scope: Both, Type: TypeBool, Default: "ON"},
	{Name: "version", Scope: Global, Type: TypeString, ReadOnly: true},
	{Name: "version_comment", Scope: Global, Type: TypeString, ReadOnly: true},
	{Name: "wait_timeout", Scope: Both, Type: TypeInt, Default: "28800"},
	{Name: "warning_count", Scope: Session, Type: TypeInt, ReadOnly: true, Default: "0"},
}

var variablesByName = func() map[string]SystemVariable {
	m := make(map[string]SystemVariable, len(systemVariables))
	for _, v := range systemVariables {
		m[v.Name] = v
	}
	return m
}()

// Variable returns the system variable called name. Defaults that depend on
// the platform (sql_mode, character sets, version) are filled in.
func (p Platform) Variable(name string) (SystemVariable, bool) {
	v, ok := variablesByName[strings.ToLower(name)]
	if !ok || (v.Only != "" && v.Only != p.Name) {
		return SystemVariable{}, false
	}

	switch v.Name {
	case "sql_mode":
		v.Default = p.DefaultMode().String()
		v.Values = nil
	case "character_set_client", "character_set_connection", "character_set_database",
		"character_set_results", "character_set_server":
		v.Default = p.DefaultCharset()
	case "collation_connection", "collation_database", "collation_server":
		v.Default = p.DefaultCollation()
	case "version":
		v.Default = p.Version.String()
		if p.IsMariaDB() {
			v.Default += "-MariaDB"
		}
	case "version_comment":
		v.Default = string(p.Name)
	}
	return v, true
}

// Variables returns every system variable known on the platform, sorted by name.
func (p Platform) Variables() []SystemVariable {
	vars := make([]SystemVariable, 0, len(systemVariables))
	for _, sv := range systemVariables {
		if v, ok := p.Variable(sv.Name); ok {
			vars = append(vars, v)
		}
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}
