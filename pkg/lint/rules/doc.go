// Package rules registers every built-in lint rule. Blank-import it to get
// the full set, or import a single group package instead:
//
//	variables   SV01-SV04  system variable names, scope, type, read-only
//	charsets    CS01-CS03  character sets and collations
//	modes       MD01-MD02  sql_mode values the target server rejects
//	convention  DM01 QR01 NM01 DL01  valid but risky statements
package rules
