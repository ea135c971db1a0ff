/*
	Package ci is the stage driver the CI system calls into.  Two stages:

	  docker-build -- build the pipeline image and push it to quay, but
	    only on the master branch and never for pull requests.
	  test -- run the pipeline end to end against the checked-in test
	    data, once locally and once through the singularity binary mode.

	Stage bodies shell out; the CI system provides branch and credential
	context through the environment.
*/
package ci

import (
	"os"
	"strconv"

	"github.com/inconshreveable/log15"
	"github.com/polydawn/gosh"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/def"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/executor/dispatch"
)

/*
	Environment is the slice of the CI environment the stages care about.
*/
type Environment struct {
	Branch       string // TRAVIS_BRANCH
	PullRequest  string // TRAVIS_PULL_REQUEST; "false" when this is a branch build.
	QuayUsername string // QUAY_USERNAME
	QuayPassword string // QUAY_PASSWORD
}

func FromEnv() Environment {
	return Environment{
		Branch:       os.Getenv("TRAVIS_BRANCH"),
		PullRequest:  os.Getenv("TRAVIS_PULL_REQUEST"),
		QuayUsername: os.Getenv("QUAY_USERNAME"),
		QuayPassword: os.Getenv("QUAY_PASSWORD"),
	}
}

/*
	Image publishing is gated to branch builds of master.  Pull requests
	get the test stage only: they run with forked credentials and must
	not be able to push to the registry.
*/
func (e Environment) ShouldPublishImage() bool {
	return e.Branch == "master" && e.PullRequest == "false"
}

/*
	DockerBuild builds the pipeline image and pushes it to quay.

	Skips quietly (with a log line) when the gating conditions say this
	build must not publish.  Panics with `CredentialsError` when gating
	passes but the registry credentials are absent, and `StageError`
	when any of the subprocesses exit nonzero.
*/
func DockerBuild(env Environment, log log15.Logger) {
	if !env.ShouldPublishImage() {
		log.Info("skipping image publish", "branch", env.Branch, "pullRequest", env.PullRequest)
		return
	}
	if env.QuayUsername == "" || env.QuayPassword == "" {
		panic(CredentialsError.New("image publish requires QUAY_USERNAME and QUAY_PASSWORD"))
	}

	log.Info("building pipeline image", "image", dispatch.PipelineImage)
	stageRun("docker", "login", "-u", env.QuayUsername, "-p", env.QuayPassword, "quay.io")
	stageRun("docker", "build", "-t", dispatch.PipelineImage, ".")
	stageRun("docker", "push", dispatch.PipelineImage)
	log.Info("pushed pipeline image", "image", dispatch.PipelineImage)
}

/*
	caps sized for a small CI virtual machine.  The batch layers under
	the external stage drivers will otherwise demand the moon and hang.
*/
var ciCaps = def.ResourceCaps{
	MaxCores:  2,
	MaxMemory: 4 << 30,
	MaxDisk:   20 << 30,
}

/*
	TestArgs is the full argv for one test-stage pipeline run.  The
	argument set is fixed; only the binary mode varies between the two
	test jobs.
*/
func TestArgs(selfExe, binaryMode string) []string {
	args := []string{
		selfExe, "run",
		"--hal", "test_data/vertebrates.hal",
		"--ref-genome", "mm10",
		"--target-genomes", "hg38",
		"--workers", "2",
		"--config", "test_data/test.config",
		"--work-dir", "work_dir",
		"--out-dir", "out_dir",
		"--local-scheduler",
		"--augustus",
		"--augustus-cgp",
		"--augustus-pb",
		"--assembly-hub",
		"--log-level", "DEBUG",
		"--max-cores", strconv.Itoa(ciCaps.MaxCores),
		"--max-memory", strconv.FormatInt(ciCaps.MaxMemory, 10),
		"--max-disk", strconv.FormatInt(ciCaps.MaxDisk, 10),
	}
	if binaryMode != "" && binaryMode != def.BinaryModeLocal {
		args = append(args, "--binary-mode", binaryMode)
	}
	return args
}

/*
	Test runs the two test jobs back to back: one with local binaries,
	one through singularity.  Panics with `StageError` on the first
	failure.
*/
func Test(selfExe string, log log15.Logger) {
	for _, mode := range []string{def.BinaryModeLocal, def.BinaryModeSingularity} {
		log.Info("running pipeline test job", "binaryMode", mode)
		argv := TestArgs(selfExe, mode)
		stageRun(argv[0], argv[1:]...)
	}
}

func stageRun(exe string, args ...string) {
	cmd := gosh.Gosh(exe, args, gosh.Opts{
		Out:    os.Stdout,
		Err:    os.Stderr,
		OkExit: gosh.AnyExit,
	})
	code := cmd.Run().GetExitCode()
	if code != 0 {
		panic(StageError.New("%s exited %d", exe, code))
	}
}
