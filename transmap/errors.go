package transmap

import (
	"github.com/spacemonkeygo/errors"
)

// grouping, do not instantiate
var Error *errors.ErrorClass = errors.NewClass("TransMapError")

/*
	Error raised when the reference annotation or alignment evaluation
	database cannot be opened or queried.
*/
var DBError *errors.ErrorClass = Error.NewClass("TransMapDBError")

/*
	Error raised when the inputs disagree with each other: an evaluated
	alignment with no transcript in the transMap genePred, or a
	transcript with no reference annotation row.
*/
var InputError *errors.ErrorClass = Error.NewClass("TransMapInputError")
