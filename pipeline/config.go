package pipeline

import (
	"bytes"
	"os"

	"github.com/ugorji/go/codec"
	"gopkg.in/yaml.v2"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/def"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/lib/cereal"
)

/*
	Config is the pipeline's config file: where the reference annotation
	database lives, and where each target genome's inputs live.
*/
type Config struct {
	RefDB   string                  `json:"refDb"`
	Genomes map[string]GenomeInputs `json:"genomes"`
}

/*
	GenomeInputs names everything one target genome brings to the run.
*/
type GenomeInputs struct {
	Gp                string `json:"gp"`                          // transMap gene predictions.
	GpInfo            string `json:"gpInfo"`                      // attribute sidecar for the predictions.
	DB                string `json:"db"`                          // alignment evaluation database.
	Fasta             string `json:"fasta,omitempty"`             // genome sequence; required only by the submission tools.
	Template          string `json:"template,omitempty"`          // NCBI submitter template (.sbt).
	LocusTag          string `json:"locusTag,omitempty"`          // locus_tag prefix; defaults to the genome name.
	ResolveSplitGenes bool   `json:"resolveSplitGenes,omitempty"` // drop split-gene transcripts off the parental contig.
}

/*
	LoadConfigFromFile reads and decodes the yaml config.

	Panics with `def.ConfigError` for anything wrong with the contents,
	and `errors.IOError`-flavored `def.ConfigError` for io problems.
*/
func LoadConfigFromFile(path string) *Config {
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(def.ConfigError.New("cannot read config: %s", err))
	}
	cfg := &Config{}
	decodeYaml(raw, cfg)
	return cfg
}

/*
	Decodes a yaml/json byte stream into an object.

	Yaml is the accepted surface, but all our struct tags are json: so
	we bounce the parsed document through the json codec, which also
	gets us strictness the yaml package won't give.
*/
func decodeYaml(raw []byte, val interface{}) {
	// Turn tabs into spaces so that tabs are acceptable inputs.
	raw = cereal.Tab2space(raw)

	var intermediate interface{}
	if err := yaml.Unmarshal(raw, &intermediate); err != nil {
		panic(def.ConfigError.New("cannot parse config: %s", err))
	}
	intermediate = cereal.StringifyMapKeys(intermediate)

	var buf bytes.Buffer
	if err := codec.NewEncoder(&buf, &codec.JsonHandle{}).Encode(intermediate); err != nil {
		panic(def.ConfigError.New("cannot parse config: %s", err))
	}
	if err := codec.NewDecoder(&buf, &codec.JsonHandle{}).Decode(val); err != nil {
		panic(def.ConfigError.New("cannot parse config: %s", err))
	}
}

/*
	ValidateConfig checks the config against the pipeline that is going
	to use it: every target genome needs an entry, and every entry needs
	its three core inputs.  Panics with `def.ConfigError`.
*/
func ValidateConfig(cfg *Config, p def.Pipeline) {
	if cfg.RefDB == "" {
		panic(def.ConfigError.New("config requires a reference annotation database (refDb)"))
	}
	for _, g := range p.TargetGenomes {
		inputs, ok := cfg.Genomes[g]
		if !ok {
			panic(def.ConfigError.New("target genome %q has no entry in the config", g))
		}
		if inputs.Gp == "" || inputs.GpInfo == "" || inputs.DB == "" {
			panic(def.ConfigError.New("target genome %q needs gp, gpInfo, and db inputs", g))
		}
	}
}

// LocusTagFor is the locus_tag prefix for a genome, defaulted to its name.
func (c *Config) LocusTagFor(genome string) string {
	if tag := c.Genomes[genome].LocusTag; tag != "" {
		return tag
	}
	return genome
}
