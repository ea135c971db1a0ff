/*
	The singularity executor wraps every task in `singularity exec`, for
	clusters where docker daemons are verboten but the pipeline image is
	available as a singularity image.  This is "--binary-mode singularity".
*/
package singularity

import (
	"io"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/def"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/executor"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/executor/host"
)

// interface assertion
var _ executor.Executor = &Executor{}

type Executor struct {
	Image string // singularity image the tool stack lives in.
	host  host.Executor
}

func (x *Executor) Configure(workspacePath string) {
	x.host.Configure(workspacePath)
}

func (x *Executor) Start(t def.Task, id def.JobID, journal io.Writer) def.Job {
	if x.Image == "" {
		panic(executor.ConfigError.New("singularity executor requires an image"))
	}
	wrapped := t
	wrapped.Entrypoint = append([]string{"singularity", "exec", "--cleanenv", "--pwd", cwdOf(t), x.Image}, t.Entrypoint...)
	return x.host.Start(wrapped, id, journal)
}

func cwdOf(t def.Task) string {
	if t.Cwd == "" {
		return "."
	}
	return t.Cwd
}
