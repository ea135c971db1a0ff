package transmap

import (
	"sort"
	"strings"

	"github.com/inconshreveable/log15"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/lib/genepred"
)

/*
	resolveSplitGenes handles genes transMap placed on more than one
	contig (or on disjoint regions of one contig).  For each gene, the
	transcripts are clustered by overlap; the cluster with the highest
	mean synteny score is declared the parental contig.  When
	Options.ResolveSplitGenes is set, transcripts outside the winning
	cluster are dropped; either way every surviving row is annotated
	with the alternate contigs and whether the split was intra-contig.

	This is a useful feature to turn on if you have a high quality
	assembly, but may be problematic for highly fragmented assemblies.
*/
func resolveSplitGenes(kept []*EvalRow, txDict map[string]*genepred.Transcript, opts Options, metrics *Metrics, log log15.Logger) []*EvalRow {
	sg := &SplitGeneMetrics{}
	metrics.SplitGenes = sg

	byGene := map[string][]*EvalRow{}
	for _, e := range kept {
		byGene[e.GeneID] = append(byGene[e.GeneID], e)
	}

	remove := map[string]struct{}{}
	for _, geneID := range sortedKeys(byGene) {
		rows := byGene[geneID]
		clusters := clusterGene(rows, txDict)
		if len(clusters) == 1 {
			continue
		}
		winner := bestCluster(clusters, rows)
		winnerSet := make(map[string]struct{}, len(winner))
		for _, alnID := range winner {
			winnerSet[alnID] = struct{}{}
		}
		for _, e := range rows {
			if _, ok := winnerSet[e.AlignmentID]; !ok {
				remove[e.AlignmentID] = struct{}{}
			}
		}

		contigSplit := isContigSplit(rows, txDict)
		locationSplit := isIntraContigSplit(clusters, txDict)
		if contigSplit {
			sg.ContigSplitGenes++
			// it is possible to be both contig and location split
			if locationSplit {
				sg.IntraContigSplitGenes++
			}
			parent := txDict[winner[0]].Chrom
			others := map[string]struct{}{}
			for _, e := range rows {
				if c := txDict[e.AlignmentID].Chrom; c != parent {
					others[c] = struct{}{}
				}
			}
			otherContigs := strings.Join(sortedSet(others), ",")
			for _, e := range rows {
				e.AlternateContigs = otherContigs
				e.SplitGene = locationSplit
			}
		} else {
			// we know that we must be split on the same contig
			sg.IntraContigSplitGenes++
			for _, e := range rows {
				e.SplitGene = true
			}
		}
	}

	if !opts.ResolveSplitGenes {
		log.Info("split gene survey complete", "genome", opts.Genome,
			"contigSplitGenes", sg.ContigSplitGenes)
		return kept
	}
	sg.TranscriptsRemoved = len(remove)
	log.Info("split gene resolution complete", "genome", opts.Genome,
		"contigSplitGenes", sg.ContigSplitGenes, "transcriptsRemoved", sg.TranscriptsRemoved)
	var filtered []*EvalRow
	for _, e := range kept {
		if _, ok := remove[e.AlignmentID]; !ok {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

/*
	clusterGene merges the intervals of a gene's transcripts (per contig,
	zero gap) and buckets each transcript into the merged interval it
	overlaps.  Each bucket holds alignment ids.
*/
func clusterGene(rows []*EvalRow, txDict map[string]*genepred.Transcript) [][]string {
	var intervals []genepred.Interval
	for _, e := range rows {
		tx, ok := txDict[e.AlignmentID]
		if !ok {
			panic(InputError.New("alignment %q has no transMap transcript", e.AlignmentID))
		}
		intervals = append(intervals, tx.Interval())
	}
	merged := genepred.GapMerge(intervals, 0)
	clusters := make([][]string, len(merged))
	for _, e := range rows {
		iv := txDict[e.AlignmentID].Interval()
		for i, m := range merged {
			if m.Overlaps(iv) {
				clusters[i] = append(clusters[i], e.AlignmentID)
				break
			}
		}
	}
	// merged intervals a transcript never claimed would leave empty buckets;
	// can't happen since every interval fed the merge, but stay tidy.
	var r [][]string
	for _, c := range clusters {
		if len(c) > 0 {
			sort.Strings(c)
			r = append(r, c)
		}
	}
	return r
}

// bestCluster picks the cluster with the highest mean score; ties go to the first.
func bestCluster(clusters [][]string, rows []*EvalRow) []string {
	scores := make(map[string]float64, len(rows))
	for _, e := range rows {
		scores[e.AlignmentID] = e.Score
	}
	best, bestMean := 0, -1.0
	for i, cluster := range clusters {
		sum := 0.0
		for _, alnID := range cluster {
			sum += scores[alnID]
		}
		mean := sum / float64(len(cluster))
		if mean > bestMean {
			best, bestMean = i, mean
		}
	}
	return clusters[best]
}

// is the gene split over contigs, or just over locations?
func isContigSplit(rows []*EvalRow, txDict map[string]*genepred.Transcript) bool {
	chroms := map[string]struct{}{}
	for _, e := range rows {
		chroms[txDict[e.AlignmentID].Chrom] = struct{}{}
	}
	return len(chroms) != 1
}

// do two clusters share a contig?
func isIntraContigSplit(clusters [][]string, txDict map[string]*genepred.Transcript) bool {
	seen := map[string]struct{}{}
	for _, cluster := range clusters {
		chrom := txDict[cluster[0]].Chrom
		if _, ok := seen[chrom]; ok {
			return true
		}
		seen[chrom] = struct{}{}
	}
	return false
}

func sortedSet(s map[string]struct{}) []string {
	r := make([]string, 0, len(s))
	for k := range s {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}
