package ci

import (
	"github.com/spacemonkeygo/errors"
)

// grouping, do not instantiate
var Error *errors.ErrorClass = errors.NewClass("CIError")

// CredentialsError is raised when a stage needs registry credentials
// that the environment did not provide.
var CredentialsError *errors.ErrorClass = Error.NewClass("CICredentialsError")

// StageError is raised when a stage's subprocess exits nonzero.
var StageError *errors.ErrorClass = Error.NewClass("CIStageError")
