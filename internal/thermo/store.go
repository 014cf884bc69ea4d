package thermo

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Logger is used to report what the store does. It discards everything unless replaced.
var Logger = zerolog.Nop()

// Store keeps the records of any number of trajectories in an SQLite database.
type Store struct {
	db *sql.DB
}

const columns = "idx, step, time, pressure, etot, epot, ekin, temp, a, b, c, volume"

// OpenStore opens (creating it if needed) the SQLite database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS frames (
			traj TEXT NOT NULL,
			idx INTEGER NOT NULL,
			step INTEGER,
			time DOUBLE,
			pressure DOUBLE,
			etot DOUBLE,
			epot DOUBLE,
			ekin DOUBLE,
			temp DOUBLE,
			a DOUBLE,
			b DOUBLE,
			c DOUBLE,
			volume DOUBLE,
			timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (traj, idx)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables in %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Insert stores the records of the trajectory traj, replacing any record with the same
// trajectory and frame index. All the records are inserted, or none.
func (S *Store) Insert(traj string, recs []Record) error {
	tx, err := S.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT OR REPLACE INTO frames (traj, " + columns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, r := range recs {
		_, err := stmt.Exec(traj, r.Index, r.Step, r.Time, r.Pressure, r.TotalEnergy, r.PotentialEnergy,
			r.KineticEnergy, r.Temperature, r.A, r.B, r.C, r.Volume)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting frame %d of %s: %w", r.Index, traj, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	Logger.Debug().Str("traj", traj).Int("records", len(recs)).Msg("Stored records")
	return nil
}

// Records returns the records of the trajectory traj, ordered by frame index.
func (S *Store) Records(traj string) ([]Record, error) {
	rows, err := S.db.Query("SELECT "+columns+" FROM frames WHERE traj = ? ORDER BY idx", traj)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var recs []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Index, &r.Step, &r.Time, &r.Pressure, &r.TotalEnergy, &r.PotentialEnergy,
			&r.KineticEnergy, &r.Temperature, &r.A, &r.B, &r.C, &r.Volume); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// Trajectories returns the names of the trajectories in the store.
func (S *Store) Trajectories() ([]string, error) {
	rows, err := S.db.Query("SELECT DISTINCT traj FROM frames ORDER BY traj")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ret []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		ret = append(ret, s)
	}
	return ret, rows.Err()
}

func (S *Store) Close() error {
	return S.db.Close()
}
