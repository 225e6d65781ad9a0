// Package charsets contains rules for character set and collation names.
//
// Rules in this package:
//   - CS01 (charsets.unknown): unknown character set or collation
//   - CS02 (charsets.collation_mismatch): collation paired with another character set
//   - CS03 (charsets.unrepresentable): introduced string the character set can't hold
package charsets
