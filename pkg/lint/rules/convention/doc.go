// Package convention contains rules for risky but valid SQL.
//
// Rules in this package:
//   - DM01 (convention.unsafe_dml): UPDATE or DELETE without WHERE
//   - QR01 (convention.select_star): SELECT *
//   - NM01 (convention.reserved_name): reserved word used as a name
//   - DL01 (convention.delimiter_clash): delimiter that collides with SQL text
package convention
