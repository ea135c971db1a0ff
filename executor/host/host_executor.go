/*
	The host executor runs tasks directly on the host: no isolation, no
	image, just the tool stack already on PATH.  This is the
	"--binary-mode local" path, and also the backend the container-mode
	executors delegate to once they've wrapped the entrypoint.
*/
package host

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/polydawn/gosh"
	"github.com/spacemonkeygo/errors"
	"github.com/spacemonkeygo/errors/try"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/def"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/executor"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/executor/basicjob"
)

// interface assertion
var _ executor.Executor = &Executor{}

type Executor struct {
	workspacePath string
}

func (x *Executor) Configure(workspacePath string) {
	x.workspacePath = workspacePath
}

func (x *Executor) Start(t def.Task, id def.JobID, journal io.Writer) def.Job {
	job := basicjob.New(id)
	buf := &bytes.Buffer{}
	job.Reader = buf
	out := io.Writer(buf)
	if journal != nil {
		out = io.MultiWriter(buf, journal)
	}

	go func() {
		defer close(job.WaitChan)
		job.Result = def.JobResult{ID: id, ExitCode: -1}
		try.Do(func() {
			job.Result.ExitCode = x.run(t, id, out)
			if job.Result.ExitCode == 0 {
				job.Result.Outputs = verifyOutputs(t)
			}
		}).Catch(executor.Error, func(e *errors.Error) {
			job.Result.Error = e
		}).CatchAll(func(err error) {
			job.Result.Error = executor.UnknownError.Wrap(err).(*errors.Error)
		}).Done()
	}()

	return job
}

func (x *Executor) run(t def.Task, id def.JobID, out io.Writer) int {
	if len(t.Entrypoint) == 0 {
		panic(executor.ConfigError.New("task %q has no entrypoint", t.Name))
	}
	if x.workspacePath != "" {
		if err := os.MkdirAll(filepath.Join(x.workspacePath, string(id)), 0755); err != nil {
			panic(executor.Error.Wrap(errors.IOError.Wrap(err)))
		}
	}
	cwd := t.Cwd
	if cwd == "" {
		cwd = "."
	}
	env := t.Env.Clone()
	env.Merge(hostEnv())

	var proc gosh.Proc
	try.Do(func() {
		proc = gosh.Gosh(
			t.Entrypoint,
			gosh.Opts{
				Cwd:    cwd,
				Env:    gosh.Env(env),
				In:     nil,
				Out:    out,
				Err:    out,
				OkExit: gosh.AnyExit,
			},
		).Run()
	}).Catch(gosh.NoSuchCommandError, func(e *errors.Error) {
		panic(executor.NoSuchCommandError.Wrap(e))
	}).Catch(gosh.ProcMonitorError, func(e *errors.Error) {
		panic(executor.TaskExecError.Wrap(e))
	}).Done()
	return proc.GetExitCode()
}

// tasks inherit the host's environment, but their own vars win.
func hostEnv() def.Env {
	env := def.Env{}
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				env[kv[:i]] = kv[i+1:]
				break
			}
		}
	}
	return env
}

func verifyOutputs(t def.Task) []string {
	var present []string
	for _, path := range t.Outputs {
		if _, err := os.Stat(path); err != nil {
			panic(executor.MissingOutputError.New("task %q exited clean but left no %q behind", t.Name, path))
		}
		present = append(present, path)
	}
	return present
}
