package pool

import (
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/def"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/executor/null"
)

func TestPoolScheduler(t *testing.T) {
	Convey("Given a two-worker pool over a null executor", t, func() {
		ran := make(chan def.Task, 16)
		s := &Scheduler{Workers: 2}
		s.Configure(&null.Executor{Ran: ran})
		s.Start()

		Convey("Every scheduled task runs exactly once", func() {
			var wg sync.WaitGroup
			exits := make(chan int, 8)
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, response := s.Schedule(def.Task{Name: "t"}, nil)
					job := <-response
					exits <- job.Wait().ExitCode
				}()
			}
			wg.Wait()
			close(exits)
			for code := range exits {
				So(code, ShouldEqual, 0)
			}
			close(ran)
			count := 0
			for range ran {
				count++
			}
			So(count, ShouldEqual, 8)
		})

		Convey("Responses can be collected in any order", func() {
			// schedule a batch up front, then drain the responses in
			// reverse of launch order: workers must keep working through
			// the queue while nobody is receiving yet.
			var responses []<-chan def.Job
			for i := 0; i < 8; i++ {
				_, r := s.Schedule(def.Task{Name: "t"}, nil)
				responses = append(responses, r)
			}
			for i := len(responses) - 1; i >= 0; i-- {
				job := <-responses[i]
				So(job.Wait().ExitCode, ShouldEqual, 0)
			}
		})

		Convey("Job ids are distinct", func() {
			id1, r1 := s.Schedule(def.Task{Name: "a"}, nil)
			id2, r2 := s.Schedule(def.Task{Name: "b"}, nil)
			So(id1, ShouldNotEqual, id2)
			(<-r1).Wait()
			(<-r2).Wait()
		})
	})
}
