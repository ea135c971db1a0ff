package harness

import (
	"github.com/spacemonkeygo/errors"
)

// grouping, do not instantiate
var Error *errors.ErrorClass = errors.NewClass("HarnessError")

// FixtureError is raised when the fixture tree is missing pieces.
var FixtureError *errors.ErrorClass = Error.NewClass("HarnessFixtureError")
