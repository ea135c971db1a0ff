package executor

import (
	"github.com/spacemonkeygo/errors"
)

// grouping, do not instantiate
var Error *errors.ErrorClass = errors.NewClass("ExecutorError")

/*
	Error raised when an executor cannot operate due to invalid setup.
*/
var ConfigError *errors.ErrorClass = Error.NewClass("ExecutorConfigError")

/*
	Error raised when there are serious issues with task launch.

	Occurance of TaskExecError may be due to OS-imposed resource limits
	or other unexpected problems.  They should not be seen in normal,
	healthy operation.
*/
var TaskExecError *errors.ErrorClass = Error.NewClass("ExecutorTaskExecError")

/*
	Error raised when a task failed to launch because the command is not
	found in the execution environment.

	This is considered a form of config error since the command and the
	environment are configured together, meaning a mismatch between them
	is operator error.
*/
var NoSuchCommandError *errors.ErrorClass = ConfigError.NewClass("NoSuchCommandError")

/*
	Error raised when a task exited zero but did not leave behind an
	output it declared.  Either the task or the declaration is wrong.
*/
var MissingOutputError *errors.ErrorClass = Error.NewClass("ExecutorMissingOutputError")

/*
	Wraps any other unknown errors just to emphasize the system that raised them;
	any well known errors should use a different type.

	If an error of this type is exposed to the user, it should be
	considered a bug, and specific error detection added to the site.
*/
var UnknownError *errors.ErrorClass = Error.NewClass("ExecutorUnknownError")
