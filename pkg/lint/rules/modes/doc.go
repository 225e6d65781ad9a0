// Package modes contains rules for sql_mode assignments.
//
// Rules in this package:
//   - MD01 (modes.unsupported_flag): flag the target server does not support
//   - MD02 (modes.rejected): value the server rejects outright
package modes
