package executordispatch

import (
	"os"
	"path/filepath"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/def"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/executor"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/executor/docker"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/executor/host"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/executor/null"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/executor/singularity"
)

// PipelineImage is what the docker-build CI stage publishes, and what
// the container binary modes run tasks in by default.
const PipelineImage = "quay.io/ucsc_cgl/cat:latest"

/*
	Get maps a binary mode name onto a configured executor.
	Panics with `def.ValidationError` on names nobody ever heard of.
*/
func Get(desire string) executor.Executor {
	var x executor.Executor

	switch desire {
	case "null":
		x = &null.Executor{}
	case def.BinaryModeLocal:
		x = &host.Executor{}
	case def.BinaryModeDocker:
		x = &docker.Executor{Image: PipelineImage}
	case def.BinaryModeSingularity:
		x = &singularity.Executor{Image: PipelineImage}
	default:
		panic(def.ValidationError.New("No such executor %s", desire))
	}

	// Set the base path to operate from
	x.Configure(filepath.Join(os.TempDir(), "cat", "executor", desire))

	return x
}
