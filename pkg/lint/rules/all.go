package rules

import (
	_ "github.com/leapstack-labs/mysqlint/pkg/lint/rules/charsets"
	_ "github.com/leapstack-labs/mysqlint/pkg/lint/rules/convention"
	_ "github.com/leapstack-labs/mysqlint/pkg/lint/rules/modes"
	_ "github.com/leapstack-labs/mysqlint/pkg/lint/rules/variables"
)
