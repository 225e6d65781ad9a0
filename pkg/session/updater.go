package session

import (
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/normalize"
)

// Updater applies the session effects of statements: variable assignments,
// sql_mode changes, SET NAMES, SET CHARACTER SET, USE and DELIMITER.
// It is the only writer of a Session during analysis.
type Updater struct {
	sess   *Session
	format core.Formatter
}

// NewUpdater creates an Updater for s. Expressions kept as unresolved
// values, and those quoted in errors, are rendered with f; when f is nil a
// MySQL normalizer following the session's mode is used.
func NewUpdater(s *Session, f core.Formatter) *Updater {
	if f == nil {
		f = normalize.New(s.Platform(), s, normalize.Options{})
	}
	return &Updater{sess: s, format: f}
}

// Session returns the session the updater writes to.
func (u *Updater) Session() *Session {
	return u.sess
}

// Apply applies the effects of stmt. Either every change of the statement
// is applied or, when one fails, none is.
func (u *Updater) Apply(stmt core.Stmt) error {
	next := u.sess.clone()
	if err := u.apply(next, stmt); err != nil {
		return err
	}
	*u.sess = *next
	return nil
}

func (u *Updater) apply(s *Session, stmt core.Stmt) error {
	switch st := stmt.(type) {
	case *core.SetStmt:
		for _, a := range st.Assignments {
			if err := u.assign(s, a); err != nil {
				return err
			}
		}

	case *core.SetNamesStmt:
		name := st.Charset
		if st.Default {
			name = s.platform.DefaultCharset()
		}
		if err := s.SetCharset(name); err != nil {
			return err
		}
		if st.Collation != "" {
			if err := s.PushCollation(st.Collation); err != nil {
				return err
			}
		}
		for _, v := range []string{"character_set_client", "character_set_connection", "character_set_results"} {
			s.SetVariable(ScopeSession, v, Scalar(s.charset))
		}
		s.SetVariable(ScopeSession, "collation_connection", Scalar(s.Collation()))

	case *core.SetCharsetStmt:
		name := st.Charset
		if st.Default {
			name = s.platform.DefaultCharset()
		}
		if err := s.SetCharset(name); err != nil {
			return err
		}
		for _, v := range []string{"character_set_client", "character_set_results"} {
			s.SetVariable(ScopeSession, v, Scalar(s.charset))
		}

	case *core.UseStmt:
		s.SetSchema(st.Schema)

	case *core.DelimiterStmt:
		return s.SetDelimiter(st.Delimiter)
	}
	return nil
}

func (u *Updater) assign(s *Session, a *core.Assignment) error {
	switch t := a.Target.(type) {
	case *core.UserVar:
		s.SetVariable(ScopeUser, t.Name, evaluate(a.Value, u.format))
		return nil
	case *core.SysVar:
		return u.assignSystem(s, t, a.Value)
	}
	return nil
}

func (u *Updater) assignSystem(s *Session, target *core.SysVar, value core.Expr) error {
	name := strings.ToLower(target.Name)
	if name == "sql_mode" {
		return u.assignMode(s, target.Scope, value)
	}

	scope := ScopeSession
	switch target.Scope {
	case core.ScopeGlobal, core.ScopePersist:
		scope = ScopeGlobal
	case core.ScopePersistOnly:
		return nil // written to the option file only
	case core.ScopeDefault:
		if _, known := s.platform.Variable(name); target.Bare && !known {
			scope = ScopeLocal
		}
	}

	if _, ok := value.(*core.DefaultExpr); ok {
		s.UnsetVariable(scope, name)
		return nil
	}
	s.SetVariable(scope, name, evaluate(value, u.format))
	return nil
}

// assignMode tracks sql_mode. GLOBAL and PERSIST change the global mode,
// which does not affect the running session; PERSIST_ONLY is validated but
// changes nothing.
func (u *Updater) assignMode(s *Session, scope core.VarScope, value core.Expr) error {
	switch scope {
	case core.ScopeGlobal, core.ScopePersist:
		m, changed, err := DetectModeChange(value, s.globalMode, s.platform, u.format)
		if err != nil {
			return err
		}
		if changed {
			s.globalMode = m
		}
	case core.ScopePersistOnly:
		_, _, err := DetectModeChange(value, s.globalMode, s.platform, u.format)
		return err
	default:
		m, changed, err := DetectModeChange(value, s.mode, s.platform, u.format)
		if err != nil {
			return err
		}
		if changed {
			s.mode = m
		}
	}
	return nil
}
