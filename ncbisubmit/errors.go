package ncbisubmit

import (
	"github.com/spacemonkeygo/errors"
)

// grouping, do not instantiate
var Error *errors.ErrorClass = errors.NewClass("NcbiSubmitError")

/*
	Error raised when the gene prediction or attribute inputs cannot be
	read or parsed into a coherent annotation set.
*/
var InputError *errors.ErrorClass = Error.NewClass("NcbiSubmitInputError")

/*
	Error raised when the two inputs disagree: a transcript present in
	the gene predictions with no attribute row, or vice versa.
*/
var MismatchError *errors.ErrorClass = Error.NewClass("NcbiSubmitMismatchError")

/*
	Error raised when an NCBI conversion tool (table2asn, tbl2asn) exits
	nonzero or cannot be launched.
*/
var ToolError *errors.ErrorClass = Error.NewClass("NcbiSubmitToolError")
