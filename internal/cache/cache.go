// Package cache persists parsed transcripts in a DuckDB database so
// repeated conversions of the same annotation skip the text parsing
// cost. The database is the "bin" format of the converter.
package cache

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/anergictcell/atg/internal/model"
)

// schemaVersion guards against reading databases written by an
// incompatible build.
const schemaVersion = "1"

// SerializationError reports a database that does not carry the
// expected transcript schema.
type SerializationError struct {
	Msg string
}

func (e *SerializationError) Error() string {
	return "transcript cache: " + e.Msg
}

// Store is a transcript cache backed by one DuckDB file.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// WriteAll replaces the database content with the given transcripts.
// The surrogate transcript id preserves insertion order across the
// round trip.
func (s *Store) WriteAll(ts *model.Transcripts) error {
	if err := s.createSchema(); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for id, t := range ts.All() {
		_, err := tx.Exec(`
			INSERT INTO transcripts (id, name, gene, chrom, strand,
			                         cds_start, cds_end, cds_start_stat, cds_end_stat)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, id, t.ID, t.Gene, t.Chrom, int8(t.Strand),
			t.CDSStart, t.CDSEnd, uint8(t.CDSStartStat), uint8(t.CDSEndStat))
		if err != nil {
			return fmt.Errorf("insert transcript %s: %w", t.ID, err)
		}

		for _, e := range t.Exons {
			_, err := tx.Exec(`
				INSERT INTO exons (transcript_id, start, end_, exon_number, frame)
				VALUES (?, ?, ?, ?, ?)
			`, id, e.Start, e.End, e.Number, int8(e.Frame))
			if err != nil {
				return fmt.Errorf("insert exon of %s: %w", t.ID, err)
			}
		}
	}
	return tx.Commit()
}

// ReadAll loads every transcript in insertion order. A database without
// the expected schema version fails with SerializationError.
func (s *Store) ReadAll() (*model.Transcripts, error) {
	if err := s.checkVersion(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, name, gene, chrom, strand,
		       cds_start, cds_end, cds_start_stat, cds_end_stat
		FROM transcripts
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	defer rows.Close()

	transcripts := model.NewTranscripts()
	for rows.Next() {
		var id int64
		var strand int8
		var startStat, endStat uint8
		t := &model.Transcript{}
		err := rows.Scan(&id, &t.ID, &t.Gene, &t.Chrom, &strand,
			&t.CDSStart, &t.CDSEnd, &startStat, &endStat)
		if err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		t.Strand = model.Strand(strand)
		t.CDSStartStat = model.CdsStat(startStat)
		t.CDSEndStat = model.CdsStat(endStat)

		if err := s.loadExons(id, t); err != nil {
			return nil, err
		}
		transcripts.Push(t)
	}
	return transcripts, rows.Err()
}

func (s *Store) loadExons(id int64, t *model.Transcript) error {
	rows, err := s.db.Query(`
		SELECT start, end_, exon_number, frame
		FROM exons
		WHERE transcript_id = ?
		ORDER BY start
	`, id)
	if err != nil {
		return fmt.Errorf("query exons: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e model.Exon
		var frame int8
		if err := rows.Scan(&e.Start, &e.End, &e.Number, &frame); err != nil {
			return fmt.Errorf("scan exon: %w", err)
		}
		e.Frame = model.Frame(frame)
		t.Exons = append(t.Exons, e)
	}
	return rows.Err()
}

func (s *Store) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS meta (
			key VARCHAR PRIMARY KEY,
			value VARCHAR
		);

		CREATE TABLE IF NOT EXISTS transcripts (
			id BIGINT PRIMARY KEY,
			name VARCHAR,
			gene VARCHAR,
			chrom VARCHAR,
			strand TINYINT,
			cds_start BIGINT,
			cds_end BIGINT,
			cds_start_stat TINYINT,
			cds_end_stat TINYINT
		);

		CREATE TABLE IF NOT EXISTS exons (
			transcript_id BIGINT,
			start BIGINT,
			end_ BIGINT,
			exon_number INTEGER,
			frame TINYINT
		);

		CREATE INDEX IF NOT EXISTS idx_exons_transcript ON exons(transcript_id);

		DELETE FROM meta;
		DELETE FROM transcripts;
		DELETE FROM exons;
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	_, err := s.db.Exec(`INSERT INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion)
	return err
}

func (s *Store) checkVersion() error {
	var version string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	if err == sql.ErrNoRows {
		return &SerializationError{Msg: "no schema version recorded"}
	}
	if err != nil {
		return &SerializationError{Msg: "not a transcript database: " + err.Error()}
	}
	if version != schemaVersion {
		return &SerializationError{
			Msg: fmt.Sprintf("schema version %s, expected %s", version, schemaVersion),
		}
	}
	return nil
}
