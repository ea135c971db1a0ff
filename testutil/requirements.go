package testutil

import (
	"os/exec"

	"github.com/smartystreets/goconvey/convey"
)

/*
	Runs the convey block only when the named external tool is on PATH.
	The NCBI submission tools are big, unversioned downloads that most
	dev machines won't have; tests that shell out to them skip politely.
*/
func Convey_IfHaveTool(tool string, items ...interface{}) {
	if _, err := exec.LookPath(tool); err == nil {
		convey.Convey(items...)
	} else {
		convey.SkipConvey(items...)
	}
}
