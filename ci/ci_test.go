package ci

import (
	"strings"
	"testing"

	"github.com/inconshreveable/log15"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/def"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/testutil"
)

func quietLog() log15.Logger {
	log := log15.New()
	log.SetHandler(log15.DiscardHandler())
	return log
}

func TestPublishGating(t *testing.T) {
	Convey("Image publish gating", t, func() {
		Convey("Master branch builds publish", func() {
			env := Environment{Branch: "master", PullRequest: "false"}
			So(env.ShouldPublishImage(), ShouldBeTrue)
		})

		Convey("Pull requests never publish, even against master", func() {
			env := Environment{Branch: "master", PullRequest: "1234"}
			So(env.ShouldPublishImage(), ShouldBeFalse)
		})

		Convey("Feature branches never publish", func() {
			env := Environment{Branch: "fix-the-thing", PullRequest: "false"}
			So(env.ShouldPublishImage(), ShouldBeFalse)
		})

		Convey("A gated-off build is a quiet no-op regardless of credentials", func() {
			env := Environment{Branch: "fix-the-thing", PullRequest: "false"}
			So(func() { DockerBuild(env, quietLog()) }, ShouldNotPanic)
		})

		Convey("A publishing build without credentials is an error", func() {
			env := Environment{Branch: "master", PullRequest: "false"}
			So(func() { DockerBuild(env, quietLog()) }, testutil.ShouldPanicWith, CredentialsError)
		})
	})
}

func TestTestArgs(t *testing.T) {
	Convey("The test-stage pipeline arguments", t, func() {
		argv := TestArgs("/bin/cat-pipeline", def.BinaryModeLocal)

		Convey("Start with our binary and the run command", func() {
			So(argv[0], ShouldEqual, "/bin/cat-pipeline")
			So(argv[1], ShouldEqual, "run")
		})

		Convey("Carry the fixed test invocation", func() {
			joined := strings.Join(argv, " ")
			So(joined, ShouldContainSubstring, "--hal test_data/vertebrates.hal")
			So(joined, ShouldContainSubstring, "--workers 2")
			So(joined, ShouldContainSubstring, "--local-scheduler")
			So(joined, ShouldContainSubstring, "--augustus ")
			So(joined, ShouldContainSubstring, "--augustus-cgp")
			So(joined, ShouldContainSubstring, "--augustus-pb")
			So(joined, ShouldContainSubstring, "--assembly-hub")
			So(joined, ShouldContainSubstring, "--log-level DEBUG")
			So(joined, ShouldContainSubstring, "--max-cores 2")
		})

		Convey("The local job names no binary mode", func() {
			So(strings.Join(argv, " "), ShouldNotContainSubstring, "--binary-mode")
		})

		Convey("The singularity job adds the binary mode", func() {
			argv := TestArgs("/bin/cat-pipeline", def.BinaryModeSingularity)
			So(strings.Join(argv, " "), ShouldContainSubstring, "--binary-mode singularity")
		})
	})
}
