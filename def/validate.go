package def

import (
	"sort"
)

/*
	ValidateAll normalizes a Pipeline and panics with `ValidationError`
	on anything that can't be normalized away.

	Mutations performed: target genomes are sorted, the worker count is
	defaulted to 1, the binary mode is defaulted to "local", the log
	level is defaulted to "INFO", and empty work/out dirs get sibling
	defaults.  Call this exactly once, before the pipeline package sees
	the value.
*/
func ValidateAll(p *Pipeline) {
	if p.Hal == "" {
		panic(ValidationError.New("pipeline requires a hal alignment"))
	}
	if p.RefGenome == "" {
		panic(ValidationError.New("pipeline requires a reference genome"))
	}
	if len(p.TargetGenomes) == 0 {
		panic(ValidationError.New("pipeline requires at least one target genome"))
	}
	sort.Strings(p.TargetGenomes)
	seen := make(map[string]struct{}, len(p.TargetGenomes))
	for _, g := range p.TargetGenomes {
		if g == p.RefGenome {
			panic(ValidationError.New("reference genome %q cannot also be a target", g))
		}
		if _, ok := seen[g]; ok {
			panic(ValidationError.New("target genome %q named twice", g))
		}
		seen[g] = struct{}{}
	}
	if p.Workers == 0 {
		p.Workers = 1
	}
	if p.Workers < 0 {
		panic(ValidationError.New("worker count cannot be negative"))
	}
	switch p.BinaryMode {
	case "":
		p.BinaryMode = BinaryModeLocal
	case BinaryModeLocal, BinaryModeDocker, BinaryModeSingularity:
		// fine
	default:
		panic(ValidationError.New("no such binary mode %q", p.BinaryMode))
	}
	switch p.LogLevel {
	case "":
		p.LogLevel = "INFO"
	case "DEBUG", "INFO", "WARN", "ERROR":
		// fine
	default:
		panic(ValidationError.New("no such log level %q", p.LogLevel))
	}
	if p.WorkDir == "" {
		p.WorkDir = "work"
	}
	if p.OutDir == "" {
		p.OutDir = "out"
	}
}
