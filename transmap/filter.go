/*
	Package transmap filters transMap output: it resolves paralogous
	mappings based on an MLE estimate of the distribution of alignment
	identities, and resolves genes whose transcripts landed on multiple
	contigs via a synteny-weighted consensus.  Use the split-gene removal
	carefully on genomes that are highly fragmented.
*/
package transmap

import (
	"math"
	"os"
	"sort"

	"github.com/inconshreveable/log15"
	"github.com/ugorji/go/codec"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/lib/genepred"
)

/*
	Options for one filter run: the transMap genePred for the target
	genome, the reference annotation database, the target genome's
	evaluation database, and what to do about split genes.
*/
type Options struct {
	TmGp              string // transMap genePred for the target genome.
	RefDB             string // reference genome annotation database.
	DB                string // target genome database (read eval, write verdicts).
	Genome            string // target genome name, for logging.
	ResolveSplitGenes bool   // drop transcripts stranded off the parental contig.
	OutGp             string // where the filtered genePred goes.
	MetricsOut        string // where the metrics json goes; empty skips it.
}

/*
	Metrics summarizes a filter run for the downstream plotting stages.
*/
type Metrics struct {
	Paralogy        map[string]*ParalogMetrics `json:"Paralogy"`
	SplitGenes      *SplitGeneMetrics          `json:"Split Genes"`
	IdentityCutoffs map[string]*float64        `json:"Identity Cutoffs"` // per biotype; nil when no fit was possible.
}

type ParalogMetrics struct {
	AlignmentsDiscarded int `json:"Alignments discarded"`
	ModelPrediction     int `json:"Model prediction"`
	SyntenyHeuristic    int `json:"Synteny heuristic"`
	ArbitrarilyResolved int `json:"Arbitrarily resolved"`
}

type SplitGeneMetrics struct {
	ContigSplitGenes      int `json:"Number of contig split genes"`
	IntraContigSplitGenes int `json:"Number of intra-contig split genes"`
	TranscriptsRemoved    int `json:"Number of transcripts removed"`
}

/*
	Filter is the entry point for transMap filtering.  It loads the
	databases and the transMap genePred, fits identity distributions,
	resolves paralogs and split genes, writes the surviving alignments
	to OutGp, stores per-alignment verdicts back into the database, and
	returns the metrics.

	Panics with `DBError`, `InputError`, or `errors.IOError` flavors as
	appropriate.
*/
func Filter(opts Options, log log15.Logger) *Metrics {
	refRows := LoadAnnotation(opts.RefDB)
	evalRows := LoadAlignmentEvaluation(opts.DB)
	txs, err := genepred.ParseFile(opts.TmGp)
	if err != nil {
		panic(InputError.Wrap(err))
	}
	txDict := make(map[string]*genepred.Transcript, len(txs))
	for _, tx := range txs {
		txDict[tx.Name] = tx
	}

	joinAnnotation(evalRows, refRows)

	metrics := &Metrics{
		Paralogy:        map[string]*ParalogMetrics{},
		IdentityCutoffs: map[string]*float64{},
	}

	fitDistributions(evalRows, opts.Genome, metrics, log)
	kept := resolveParalogs(evalRows, opts.Genome, metrics, log)
	kept = resolveSplitGenes(kept, txDict, opts, metrics, log)

	writeFiltered(opts.OutGp, txs, kept)
	StoreVerdicts(opts.DB, kept)
	if opts.MetricsOut != "" {
		writeMetrics(opts.MetricsOut, metrics)
	}
	return metrics
}

// joinAnnotation fills the reference-side fields of every eval row.
func joinAnnotation(evalRows []*EvalRow, refRows []AnnotationRow) {
	ref := make(map[string]AnnotationRow, len(refRows))
	for _, a := range refRows {
		ref[a.TranscriptID] = a
	}
	for _, e := range evalRows {
		a, ok := ref[e.TranscriptID]
		if !ok {
			panic(InputError.New("alignment %q references transcript %q absent from the reference annotation", e.AlignmentID, e.TranscriptID))
		}
		e.GeneID = a.GeneID
		e.TranscriptBiotype = a.TranscriptBiotype
	}
}

/*
	fitDistributions fits a normal distribution to -log(100 - identity)
	(identity != 100) of the 1-1 orthologous mappings of each biotype,
	and uses the MLE estimate to set an identity cutoff specific to this
	genetic distance.  Rows at or above the cutoff are labeled passing.
*/
func fitDistributions(evalRows []*EvalRow, genome string, metrics *Metrics, log log15.Logger) {
	byBiotype := map[string][]*EvalRow{}
	for _, e := range evalRows {
		byBiotype[e.TranscriptBiotype] = append(byBiotype[e.TranscriptBiotype], e)
	}
	for _, biotype := range sortedKeys(byBiotype) {
		rows := byBiotype[biotype]
		var unique, notUnique []*EvalRow
		for _, e := range rows {
			if e.Paralogy == 1 {
				unique = append(unique, e)
			} else {
				notUnique = append(notUnique, e)
			}
		}
		switch {
		case len(notUnique) == 0:
			// no paralogous mappings implies all passing
			log.Info("no paralogous mappings", "biotype", biotype, "genome", genome)
			labelAll(rows, "passing")
			metrics.IdentityCutoffs[biotype] = nil
		case len(unique) == 0:
			// only paralogous mappings implies all failing
			log.Info("only paralogous mappings", "biotype", biotype, "genome", genome)
			labelAll(rows, "failing")
			metrics.IdentityCutoffs[biotype] = nil
		default:
			cutoff := findCutoff(unique, 1)
			cutoffCopy := cutoff
			metrics.IdentityCutoffs[biotype] = &cutoffCopy
			if math.IsNaN(cutoff) || math.IsInf(cutoff, 0) {
				log.Warn("unable to establish an identity boundary; all transcripts marked passing",
					"biotype", biotype, "genome", genome)
				labelAll(rows, "passing")
				metrics.IdentityCutoffs[biotype] = nil
				continue
			}
			numPass, numFail := 0, 0
			for _, e := range rows {
				if e.Identity >= cutoff {
					e.Class = "passing"
					numPass++
				} else {
					e.Class = "failing"
					numFail++
				}
			}
			log.Info("established identity boundary",
				"cutoff", cutoff, "biotype", biotype, "genome", genome,
				"passing", numPass, "failing", numFail)
		}
	}
}

func labelAll(rows []*EvalRow, class string) {
	for _, e := range rows {
		e.Class = class
	}
}

/*
	findCutoff locates the MLE identity cutoff: fit the transformed
	identities of the unique mappings, back off numSigma sigmas, and map
	back to identity space.
*/
func findCutoff(unique []*EvalRow, numSigma float64) float64 {
	var transformed []float64
	for _, e := range unique {
		// -log(100 - ident), identity-of-100 rows carry no information here
		if e.Identity != 100 {
			transformed = append(transformed, -math.Log(100-e.Identity))
		}
	}
	if len(transformed) == 0 {
		return math.NaN()
	}
	dist := distuv.Normal{}
	dist.Fit(transformed, nil)
	return 100 - math.Exp(-(dist.Mu - numSigma*dist.Sigma))
}

/*
	resolveParalogs keeps one alignment per source transcript:

	1. If only one paralog is more likely under the ortholog model,
	   discard the others.
	2. Otherwise resolve on the synteny score; ties are broken
	   arbitrarily (but deterministically) and marked NotConfident,
	   which downgrades the transcript class to failing.

	Returns the surviving rows, sorted by descending score.
*/
func resolveParalogs(evalRows []*EvalRow, genome string, metrics *Metrics, log log15.Logger) []*EvalRow {
	for _, e := range evalRows {
		e.Score = scoreAlignment(e)
	}
	sorted := make([]*EvalRow, len(evalRows))
	copy(sorted, evalRows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].AlignmentID < sorted[j].AlignmentID
	})

	byTx := map[string][]*EvalRow{}
	for _, e := range sorted {
		byTx[e.TranscriptID] = append(byTx[e.TranscriptID], e)
	}
	for _, e := range evalRows {
		if metrics.Paralogy[e.TranscriptBiotype] == nil {
			metrics.Paralogy[e.TranscriptBiotype] = &ParalogMetrics{}
		}
	}

	var kept []*EvalRow
	for _, txID := range sortedKeys(byTx) {
		group := byTx[txID]
		if len(group) == 1 {
			// no paralogs
			kept = append(kept, group[0])
			continue
		}
		m := metrics.Paralogy[group[0].TranscriptBiotype]
		passing := 0
		for _, e := range group {
			if e.Class == "passing" {
				passing++
			}
		}
		winner := group[0] // highest score, since sorted
		switch {
		case passing == 1:
			m.ModelPrediction++
			winner.ParalogStatus = "Confident"
		default:
			ties := 0
			for _, e := range group {
				if e.Score == winner.Score {
					ties++
				}
			}
			if ties == 1 {
				m.SyntenyHeuristic++
				winner.ParalogStatus = "Confident"
			} else {
				m.ArbitrarilyResolved++
				winner.ParalogStatus = "NotConfident"
			}
		}
		m.AlignmentsDiscarded += len(group) - 1
		if winner.ParalogStatus == "NotConfident" {
			winner.Class = "failing"
		}
		kept = append(kept, winner)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		return kept[i].AlignmentID < kept[j].AlignmentID
	})
	for biotype, m := range metrics.Paralogy {
		log.Info("paralog resolution complete",
			"genome", genome, "biotype", biotype,
			"discarded", m.AlignmentsDiscarded,
			"resolved", m.ModelPrediction+m.SyntenyHeuristic+m.ArbitrarilyResolved)
	}
	return kept
}

/*
	scoreAlignment scores an alignment:
	0.2 * coverage + 0.3 * identity + 0.5 * normalized synteny.
*/
func scoreAlignment(e *EvalRow) float64 {
	return 0.2*e.Coverage + 0.3*e.Identity + 0.5*(float64(e.Synteny)/6)
}

// writeFiltered writes the kept alignments back out as genePred rows, in input order.
func writeFiltered(outPath string, txs []*genepred.Transcript, kept []*EvalRow) {
	keptSet := make(map[string]struct{}, len(kept))
	for _, e := range kept {
		keptSet[e.AlignmentID] = struct{}{}
	}
	f, err := os.Create(outPath)
	if err != nil {
		panic(Error.Wrap(err))
	}
	defer f.Close()
	for _, tx := range txs {
		if _, ok := keptSet[tx.Name]; ok {
			if _, err := f.WriteString(tx.Row() + "\n"); err != nil {
				panic(Error.Wrap(err))
			}
		}
	}
}

func writeMetrics(path string, metrics *Metrics) {
	f, err := os.Create(path)
	if err != nil {
		panic(Error.Wrap(err))
	}
	defer f.Close()
	if err := codec.NewEncoder(f, &codec.JsonHandle{Indent: 2}).Encode(metrics); err != nil {
		panic(Error.Wrap(err))
	}
	f.WriteString("\n")
}

func sortedKeys(m map[string][]*EvalRow) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
