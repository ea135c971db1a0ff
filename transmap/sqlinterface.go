package transmap

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

/*
	AnnotationRow is one transcript of the reference annotation set, as
	stored in the reference genome's annotation database.
*/
type AnnotationRow struct {
	TranscriptID      string
	GeneID            string
	TranscriptName    string
	GeneName          string
	TranscriptBiotype string
	GeneBiotype       string
}

/*
	EvalRow is one transMap alignment plus everything the filter decides
	about it.  The first six fields come from the alignment evaluation
	database; the rest are filled in as filtering proceeds.
*/
type EvalRow struct {
	AlignmentID  string
	TranscriptID string
	Identity     float64 // percent, 0..100
	Coverage     float64 // percent, 0..100
	Paralogy     int     // how many places this transcript mapped
	Synteny      int     // 0..6 syntenic neighbor count

	// joined from the reference annotation:
	GeneID            string
	TranscriptBiotype string

	// filter verdicts:
	Class            string  // "passing" or "failing"
	Score            float64 // synteny-weighted composite, see scoreAlignment
	ParalogStatus    string  // "", "Confident", or "NotConfident"
	AlternateContigs string  // comma-joined contigs this gene's other cluster(s) sit on
	SplitGene        bool    // true when the gene was split within one contig
}

func openDB(path string) *sql.DB {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		panic(DBError.Wrap(err))
	}
	return db
}

/*
	LoadAnnotation reads the full annotation table of the reference
	genome's database.  Panics with `DBError` on any database problem.
*/
func LoadAnnotation(refDBPath string) []AnnotationRow {
	db := openDB(refDBPath)
	defer db.Close()
	rows, err := db.Query(`SELECT TranscriptId, GeneId, TranscriptName, GeneName, TranscriptBiotype, GeneBiotype
		FROM annotation`)
	if err != nil {
		panic(DBError.Wrap(err))
	}
	defer rows.Close()
	var r []AnnotationRow
	for rows.Next() {
		var a AnnotationRow
		if err := rows.Scan(&a.TranscriptID, &a.GeneID, &a.TranscriptName, &a.GeneName, &a.TranscriptBiotype, &a.GeneBiotype); err != nil {
			panic(DBError.Wrap(err))
		}
		r = append(r, a)
	}
	if err := rows.Err(); err != nil {
		panic(DBError.Wrap(err))
	}
	return r
}

/*
	LoadAlignmentEvaluation reads the transMap alignment evaluation table
	for the target genome.  Panics with `DBError` on any database problem.
*/
func LoadAlignmentEvaluation(dbPath string) []*EvalRow {
	db := openDB(dbPath)
	defer db.Close()
	rows, err := db.Query(`SELECT AlignmentId, TranscriptId, TransMapIdentity, TransMapCoverage, Paralogy, Synteny
		FROM alignment_evaluation`)
	if err != nil {
		panic(DBError.Wrap(err))
	}
	defer rows.Close()
	var r []*EvalRow
	for rows.Next() {
		e := &EvalRow{}
		if err := rows.Scan(&e.AlignmentID, &e.TranscriptID, &e.Identity, &e.Coverage, &e.Paralogy, &e.Synteny); err != nil {
			panic(DBError.Wrap(err))
		}
		r = append(r, e)
	}
	if err := rows.Err(); err != nil {
		panic(DBError.Wrap(err))
	}
	return r
}

/*
	StoreVerdicts writes the filter's per-alignment verdicts back into
	the target genome's database, replacing any previous run's table.
	Panics with `DBError` on any database problem.
*/
func StoreVerdicts(dbPath string, rows []*EvalRow) {
	db := openDB(dbPath)
	defer db.Close()
	tx, err := db.Begin()
	if err != nil {
		panic(DBError.Wrap(err))
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DROP TABLE IF EXISTS transmap_filter`); err != nil {
		panic(DBError.Wrap(err))
	}
	if _, err := tx.Exec(`CREATE TABLE transmap_filter (
		GeneId TEXT, TranscriptId TEXT, AlignmentId TEXT,
		TranscriptClass TEXT, ParalogStatus TEXT,
		GeneAlternateContigs TEXT, SplitGene INTEGER,
		PRIMARY KEY (TranscriptId, AlignmentId))`); err != nil {
		panic(DBError.Wrap(err))
	}
	stmt, err := tx.Prepare(`INSERT INTO transmap_filter VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		panic(DBError.Wrap(err))
	}
	defer stmt.Close()
	for _, e := range rows {
		split := 0
		if e.SplitGene {
			split = 1
		}
		if _, err := stmt.Exec(e.GeneID, e.TranscriptID, e.AlignmentID, e.Class, e.ParalogStatus, e.AlternateContigs, split); err != nil {
			panic(DBError.Wrap(err))
		}
	}
	if err := tx.Commit(); err != nil {
		panic(DBError.Wrap(err))
	}
}
