// Package core defines the shared language of mysqlint: the statement and
// expression AST, statement kinds used for rule dispatch, diagnostic
// severities and the Formatter contract nodes serialize through.
//
// core depends only on pkg/token and the standard library; every other
// package builds on it.
package core
