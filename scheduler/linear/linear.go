package linear

import (
	"io"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/def"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/executor"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/lib/guid"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/scheduler"
)

// interface assertion
var _ scheduler.Scheduler = &Scheduler{}

// Dumb struct to send job references back
type hold struct {
	id       def.JobID
	task     def.Task
	journal  io.Writer
	response chan def.Job
}

/*
	Runs tasks strictly one at a time, in scheduling order.  This is the
	"--local-scheduler" path, and what the test jobs use so their logs
	interleave deterministically.
*/
type Scheduler struct {
	executor executor.Executor
	queue    chan *hold
}

func (s *Scheduler) Configure(e executor.Executor) {
	s.executor = e
	s.queue = make(chan *hold)
}

func (s *Scheduler) Start() {
	go s.Run()
}

func (s *Scheduler) Schedule(t def.Task, journal io.Writer) (def.JobID, <-chan def.Job) {
	// the response channel is buffered so Run never blocks handing a job
	// back to a caller who is still waiting on a different response.
	h := &hold{
		id:       def.JobID(guid.New()),
		task:     t,
		journal:  journal,
		response: make(chan def.Job, 1),
	}

	go func() {
		s.queue <- h
	}()

	return h.id, h.response
}

// Run jobs one at a time
func (s *Scheduler) Run() {
	for h := range s.queue {
		job := s.executor.Start(h.task, h.id, h.journal)
		h.response <- job
		job.Wait()
	}
}
