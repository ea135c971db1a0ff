package schedulerdispatch

import (
	"github.com/jasongallant/Comparative-Annotation-Toolkit/def"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/scheduler"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/scheduler/linear"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/scheduler/pool"
)

/*
	Get maps a pipeline's scheduling knobs onto a scheduler: the
	local-scheduler flag forces linear execution, anything else gets a
	worker pool sized by the workers count.
*/
func Get(localScheduler bool, workers int) scheduler.Scheduler {
	if localScheduler || workers <= 1 {
		return &linear.Scheduler{}
	}
	if workers > 1024 {
		panic(def.ValidationError.New("worker count %d is absurd", workers))
	}
	return &pool.Scheduler{Workers: workers}
}
