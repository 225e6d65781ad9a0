// Package variables provides lint rules for system variable access.
//
// Rules in this package:
//   - SV01: Unknown system variable
//   - SV02: Assignment to a read-only variable
//   - SV03: Variable used in a scope it does not exist in
//   - SV04: Value of the wrong type for the variable
package variables
