package null

import (
	"io"
	"strings"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/def"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/executor"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/executor/basicjob"
)

// interface assertion
var _ executor.Executor = &Executor{}

/*
	The null executor does nothing and reports whatever you configured it
	to report.  Exists to let scheduler and pipeline tests run without
	spawning processes.
*/
type Executor struct {
	ExitCode int           // reported for every task.
	Journal  string        // written to each job's journal.
	Ran      chan def.Task // when non-nil, receives every started task.
}

func (*Executor) Configure(workspacePath string) {
}

func (x *Executor) Start(t def.Task, id def.JobID, journal io.Writer) def.Job {
	job := basicjob.New(id)
	job.Reader = strings.NewReader(x.Journal)

	go func() {
		if journal != nil && x.Journal != "" {
			io.WriteString(journal, x.Journal)
		}
		if x.Ran != nil {
			x.Ran <- t
		}
		job.Result = def.JobResult{
			ID:       id,
			ExitCode: x.ExitCode,
			Outputs:  t.Outputs,
		}
		close(job.WaitChan)
	}()

	return job
}
