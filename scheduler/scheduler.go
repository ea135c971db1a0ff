package scheduler

import (
	"io"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/def"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/executor"
)

/*
	Schedulers manage a stream of Tasks and return running Jobs.

	The pipeline does not care whether tasks run one at a time or across
	a pool of workers; it schedules everything that is ready and waits on
	the job channels.  Schedulers are presumed to know environmental
	context the task provider may not -- how much parallelism the machine
	can take, for instance.
*/
type Scheduler interface {
	/*
		Configure the executor to use.  Must be already configured.

		It is guaranteed that calling Configure() before scheduling work
		will behave as expected.  Calling it after scheduling work is
		left for the Scheduler to decide - it might change, panic,
		ignore, etc.
	*/
	Configure(executor.Executor)

	/*
		Start consuming Tasks.
		It is expected that you call Configure(), then Start(), before
		scheduling Tasks.
	*/
	Start()

	/*
		Schedules a Task to be run, and returns its JobID along with a
		channel that will hand you the running Job.  The journal writer
		receives the task's combined output, live.
	*/
	Schedule(t def.Task, journal io.Writer) (def.JobID, <-chan def.Job)
}
