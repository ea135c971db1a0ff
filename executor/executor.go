package executor

import (
	"io"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/def"
)

/*
	Executors take a task and run it somewhere: directly on the host, or
	wrapped in a container runtime when the pipeline's tool stack is
	shipped as an image.  Start returns as soon as the task is launched;
	use the returned Job to wait and collect results.

	Journal receives the combined stdout/stderr of the task, live.
*/
type Executor interface {
	Configure(workspacePath string)
	Start(t def.Task, id def.JobID, journal io.Writer) def.Job
}
