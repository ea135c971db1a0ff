package pool

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
	Runs tasks over a fixed pool of workers; this is what `--workers=n`
	buys you.  A Workers value of zero gets one worker, same as the
	pipeline validation default.
*/
type Scheduler struct {
	Workers  int
	executor executor.Executor
	queue    chan *hold
}

func (s *Scheduler) Configure(e executor.Executor) {
	s.executor = e
	s.queue = make(chan *hold)
}

func (s *Scheduler) Start() {
	n := s.Workers
	if n < 1 {
		n = 1
	}
	for w := 0; w < n; w++ {
		go s.Run()
	}
}

func (s *Scheduler) Schedule(t def.Task, journal io.Writer) (def.JobID, <-chan def.Job) {
	// the response channel is buffered so workers never block handing a
	// job back to a caller who is still waiting on a different response.
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

// each worker runs jobs one at a time
func (s *Scheduler) Run() {
	for h := range s.queue {
		job := s.executor.Start(h.task, h.id, h.journal)
		h.response <- job
		job.Wait()
	}
}
