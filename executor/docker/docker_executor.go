/*
	The docker executor wraps every task in `docker run` against the
	published pipeline image.  This is "--binary-mode docker".
*/
package docker

import (
	"io"
	"os"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/def"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/executor"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/executor/host"
)

// interface assertion
var _ executor.Executor = &Executor{}

type Executor struct {
	Image string // docker image the tool stack lives in.
	host  host.Executor
}

func (x *Executor) Configure(workspacePath string) {
	x.host.Configure(workspacePath)
}

func (x *Executor) Start(t def.Task, id def.JobID, journal io.Writer) def.Job {
	if x.Image == "" {
		panic(executor.ConfigError.New("docker executor requires an image"))
	}
	cwd, err := os.Getwd()
	if err != nil {
		panic(executor.Error.Wrap(err))
	}
	// the working tree is bind-mounted so tasks read fixtures and leave
	// outputs exactly where a host run would.
	wrapped := t
	wrapped.Entrypoint = append([]string{
		"docker", "run", "--rm",
		"-v", cwd + ":" + cwd,
		"-w", cwd,
		x.Image,
	}, t.Entrypoint...)
	return x.host.Start(wrapped, id, journal)
}
