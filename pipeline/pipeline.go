/*
	Package pipeline turns a validated `def.Pipeline` into a stage graph
	and drives it to completion over a scheduler.

	The per-genome spine is transmap-filter -> ncbi-submit.  The augustus
	family of flags hang extra stages off the filtered transMap output,
	and the assembly hub stage waits for everything.  Stage bodies are
	always subprocesses -- the pipeline re-invokes its own binary for the
	built-in stages -- so the container binary modes wrap built-ins and
	external tools alike.
*/
package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/inconshreveable/log15"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/def"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/scheduler"
)

/*
	Stage is one node of the graph: a task plus the names of the stages
	it must wait for.
*/
type Stage struct {
	Name  string
	Task  def.Task
	After []string
}

// StageResult is what one finished stage looks like in the report.
type StageResult struct {
	Name     string    `json:"stage"`
	JobID    def.JobID `json:"jobID"`
	ExitCode int       `json:"exitCode"`
	Error    string    `json:"error,omitempty"`
	Outputs  []string  `json:"outputs,omitempty"`
}

// Report is the full outcome of a run, in stage completion order.
type Report struct {
	Stages []StageResult `json:"stages"`
	Failed bool          `json:"failed"`
}

/*
	Plan expands the pipeline into its stage graph.  `selfExe` is the
	binary to re-invoke for built-in stages (normally os.Executable()).
*/
func Plan(p def.Pipeline, cfg *Config, selfExe string) []*Stage {
	var stages []*Stage
	caps := capsEnv(p.Caps)
	var hubAfter []string

	for _, genome := range p.TargetGenomes {
		inputs := cfg.Genomes[genome]
		filteredGp := filepath.Join(p.WorkDir, genome+".filtered.gp")
		metrics := filepath.Join(p.WorkDir, genome+".filter-metrics.json")
		table := filepath.Join(p.OutDir, genome+".tbl")

		filterName := "transmap-filter:" + genome
		filterArgs := []string{
			selfExe, "filter-transmap",
			"--tm-gp", inputs.Gp,
			"--ref-db", cfg.RefDB,
			"--db", inputs.DB,
			"--genome", genome,
			"--out-gp", filteredGp,
			"--metrics", metrics,
		}
		if inputs.ResolveSplitGenes {
			filterArgs = append(filterArgs, "--resolve-split-genes")
		}
		stages = append(stages, &Stage{
			Name: filterName,
			Task: def.Task{
				Name:       filterName,
				Entrypoint: filterArgs,
				Env:        caps.Clone(),
				Outputs:    []string{filteredGp, metrics},
			},
		})

		submitName := "ncbi-submit:" + genome
		stages = append(stages, &Stage{
			Name: submitName,
			Task: def.Task{
				Name:       submitName,
				Entrypoint: []string{selfExe, "ncbi-submit", filteredGp, inputs.GpInfo, cfg.LocusTagFor(genome), table},
				Env:        caps.Clone(),
				Outputs:    []string{table},
			},
			After: []string{filterName},
		})
		hubAfter = append(hubAfter, submitName)

		// the augustus drivers ship in the pipeline image; we only plumb
		// flags and outputs here, their internals are their own business.
		for _, mode := range augustusModes(p) {
			name := mode + ":" + genome
			outGp := filepath.Join(p.WorkDir, genome+"."+mode+".gp")
			stages = append(stages, &Stage{
				Name: name,
				Task: def.Task{
					Name: name,
					Entrypoint: []string{
						mode,
						"--genome", genome,
						"--hal", p.Hal,
						"--tm-gp", filteredGp,
						"--fasta", inputs.Fasta,
						"--out-gp", outGp,
					},
					Env:     caps.Clone(),
					Outputs: []string{outGp},
				},
				After: []string{filterName},
			})
			hubAfter = append(hubAfter, name)
		}
	}

	if p.AssemblyHub {
		stages = append(stages, &Stage{
			Name: "assembly-hub",
			Task: def.Task{
				Name: "assembly-hub",
				Entrypoint: []string{
					"assembly_hub",
					"--hal", p.Hal,
					"--out-dir", filepath.Join(p.OutDir, "assemblyHub"),
				},
				Env: caps.Clone(),
			},
			After: hubAfter,
		})
	}
	return stages
}

func augustusModes(p def.Pipeline) []string {
	var modes []string
	if p.Augustus {
		modes = append(modes, "augustus_tm")
	}
	if p.AugustusCGP {
		modes = append(modes, "augustus_cgp")
	}
	if p.AugustusPB {
		modes = append(modes, "augustus_pb")
	}
	return modes
}

/*
	the resource ceilings ride along as environment variables; the stage
	drivers size their own workers off them instead of assuming the
	machine is all theirs.
*/
func capsEnv(caps def.ResourceCaps) def.Env {
	env := def.Env{}
	if caps.MaxCores != 0 {
		env["CAT_MAX_CORES"] = strconv.Itoa(caps.MaxCores)
	}
	if caps.MaxMemory != 0 {
		env["CAT_MAX_MEMORY"] = strconv.FormatInt(caps.MaxMemory, 10)
	}
	if caps.MaxDisk != 0 {
		env["CAT_MAX_DISK"] = strconv.FormatInt(caps.MaxDisk, 10)
	}
	return env
}

/*
	Run schedules the stage graph in dependency waves and waits for the
	stragglers.  A stage whose prerequisite failed is not started; it is
	reported with exit code -1 instead.  Directories are created up
	front.  The journal writer receives all task output, live.
*/
func Run(p def.Pipeline, cfg *Config, sched scheduler.Scheduler, journal io.Writer, log log15.Logger) *Report {
	selfExe, err := os.Executable()
	if err != nil {
		panic(def.ValidationError.New("cannot locate own binary: %s", err))
	}
	stages := Plan(p, cfg, selfExe)
	for _, dir := range []string{p.WorkDir, p.OutDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			panic(def.ValidationError.New("cannot create %q: %s", dir, err))
		}
	}

	report := &Report{}
	done := map[string]bool{}   // stage name -> succeeded
	failed := map[string]bool{} // stage name -> failed or skipped
	remaining := len(stages)

	for remaining > 0 {
		// gather every stage whose prerequisites have all succeeded
		var wave []*Stage
		for _, st := range stages {
			if done[st.Name] || failed[st.Name] {
				continue
			}
			ready, doomed := true, false
			for _, dep := range st.After {
				if failed[dep] {
					doomed = true
				} else if !done[dep] {
					ready = false
				}
			}
			if doomed {
				log.Warn("skipping stage, prerequisite failed", "stage", st.Name)
				failed[st.Name] = true
				remaining--
				report.Stages = append(report.Stages, StageResult{Name: st.Name, ExitCode: -1, Error: "prerequisite failed"})
				report.Failed = true
				continue
			}
			if ready {
				wave = append(wave, st)
			}
		}
		if len(wave) == 0 {
			if remaining > 0 && !report.Failed {
				panic(def.ValidationError.New("stage graph has a dependency cycle"))
			}
			break
		}

		type pending struct {
			stage    *Stage
			id       def.JobID
			response <-chan def.Job
		}
		var launched []pending
		for _, st := range wave {
			log.Debug("scheduling stage", "stage", st.Name, "entrypoint", st.Task.Entrypoint)
			id, response := sched.Schedule(st.Task, journal)
			launched = append(launched, pending{st, id, response})
		}
		for _, pn := range launched {
			job := <-pn.response
			result := job.Wait()
			sr := StageResult{
				Name:     pn.stage.Name,
				JobID:    pn.id,
				ExitCode: result.ExitCode,
				Outputs:  result.Outputs,
			}
			if result.Error != nil {
				sr.Error = result.Error.Error()
			}
			report.Stages = append(report.Stages, sr)
			remaining--
			if result.Error != nil || result.ExitCode != 0 {
				log.Error("stage failed", "stage", pn.stage.Name, "exitCode", result.ExitCode, "err", sr.Error)
				failed[pn.stage.Name] = true
				report.Failed = true
			} else {
				log.Info("stage complete", "stage", pn.stage.Name, "outputs", fmt.Sprintf("%v", result.Outputs))
				done[pn.stage.Name] = true
			}
		}
	}
	return report
}
