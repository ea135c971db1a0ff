/*
	Package def holds the data model for a comparative annotation run:
	the pipeline description (which alignment, which genomes, how much
	parallelism), the tasks the pipeline breaks down into, and the job
	handles the executors give back.

	A `Pipeline` describes `(alignment, genomes, config) -> (annotations)`.
	Values may be mutated during final validation if missing, i.e. the
	worker count is required and will be defaulted for you if not already
	specifically configured.
*/
package def

import (
	"io"

	"github.com/spacemonkeygo/errors"
)

/*
	Pipeline is the full description of one annotation run.

	The zero value is not runnable; fill in at least `Hal`, `RefGenome`,
	and `TargetGenomes`, then pass the whole thing through `ValidateAll`
	before handing it to the pipeline package.
*/
type Pipeline struct {
	Hal           string   `json:"hal"`           // path to the HAL alignment every task hangs off of.
	RefGenome     string   `json:"refGenome"`     // name of the reference genome inside the HAL.
	TargetGenomes []string `json:"targetGenomes"` // genomes to annotate.  sorted order.  must not contain the reference.
	Workers       int      `json:"workers"`       // how many tasks may run at once.  defaulted to 1 by validation.
	Config        string   `json:"config"`        // path to the yaml config mapping genomes to their input files.
	WorkDir       string   `json:"workDir"`       // scratch space.  contents are disposable.
	OutDir        string   `json:"outDir"`        // where stage outputs land.

	LocalScheduler bool   `json:"localScheduler,omitempty"` // if true, tasks run one at a time regardless of Workers.
	BinaryMode     string `json:"binaryMode,omitempty"`     // "local", "docker", or "singularity".  defaulted to "local".
	LogLevel       string `json:"logLevel,omitempty"`       // DEBUG, INFO, WARN, or ERROR.  defaulted to "INFO".

	Augustus    bool `json:"augustus,omitempty"`    // run the augustus ab-initio stages.
	AugustusCGP bool `json:"augustusCgp,omitempty"` // run the comparative augustus stages.
	AugustusPB  bool `json:"augustusPb,omitempty"`  // run the isoseq-informed augustus stages.
	AssemblyHub bool `json:"assemblyHub,omitempty"` // build a browser assembly hub at the end.

	Caps ResourceCaps `json:"caps,omitempty"` // ceilings applied to every task.  not defaulted; zero means uncapped.
}

// Recognized values for Pipeline.BinaryMode.
const (
	BinaryModeLocal       = "local"
	BinaryModeDocker      = "docker"
	BinaryModeSingularity = "singularity"
)

/*
	ResourceCaps are ceilings a scheduler applies to every task it runs.

	These exist because the batch systems this pipeline rides on will
	happily demand more cores or disk than a small machine has and then
	deadlock waiting for them.  A zero field means "no ceiling".
*/
type ResourceCaps struct {
	MaxCores  int   `json:"maxCores,omitempty"`
	MaxMemory int64 `json:"maxMemory,omitempty"` // bytes
	MaxDisk   int64 `json:"maxDisk,omitempty"`   // bytes
}

func (c ResourceCaps) Capped() bool {
	return c.MaxCores != 0 || c.MaxMemory != 0 || c.MaxDisk != 0
}

/*
	Task is one unit of work: a command to run, where to run it, and what
	it is expected to leave behind.  Tasks are what schedulers queue and
	executors start.
*/
type Task struct {
	Name       string   `json:"name"`              // human-facing task name, e.g. "transmap-filter:chimp".
	Entrypoint []string `json:"command"`           // executable to invoke and its args.
	Cwd        string   `json:"cwd,omitempty"`     // working directory.  defaulted to "." if not set.
	Env        Env      `json:"env,omitempty"`     // environment variables.
	Outputs    []string `json:"outputs,omitempty"` // paths the task must leave behind; checked after exit.
}

type Env map[string]string

func (e Env) Clone() Env {
	r := make(Env, len(e))
	for k, v := range e {
		r[k] = v
	}
	return r
}

/*
	Merge given env map into the object.
	Existing values are preferred, new values are added.
	Mutates; `Clone()` first to avoid if necessary.
*/
func (keep Env) Merge(other Env) {
	for k, v := range other {
		if _, ok := keep[k]; !ok {
			keep[k] = v
		}
	}
}

/*
	Job is an interface for observing an actively running task.
	All of the data available from `Job` should also be on disk as task
	outputs after the execution is complete, but `Job` can provide them live.
*/
type Job interface {
	Id() JobID

	/*
		Returns a reader that delivers the combined stdout and stderr of
		the task, from the beginning of execution.
	*/
	OutputReader() io.Reader

	/*
		Waits for completion if necessary, then returns the job's results.
	*/
	Wait() JobResult
}

type JobID string // type def just to make it hard to accidentally get ids crossed.

/*
	Holds all information you might want from a completed Job.
*/
type JobResult struct {
	ID JobID

	Error *errors.Error // if the executor experienced a problem running this job.

	ExitCode int // the return code of this job.

	Outputs []string // paths the task left behind, verified present.
}
