// Package calibration persists CalibrationSnapshot rows across repeated
// simulation runs for the balancing-tool consumer §3 names for the
// core's per-team zone aggregates.
package calibration

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/vmihailenco/msgpack/v5"

	match "footballsim"
)

// zoneBlob bundles the array-shaped counters that don't belong as their
// own SQL columns; only the scalar totals balancing tools query on are
// promoted to columns.
type zoneBlob struct {
	PassByType   match.PassTypeCount
	PassOrigin12 [match.Zones12]int
	PassDest12   [match.Zones12]int
	PassOrigin20 [match.Zones20]int
	PassDest20   [match.Zones20]int
	ShotsByZone  [match.Zones12]int
}

// Store wraps the SQLite connection used to accumulate calibration runs.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open calibration store: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calibration_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed INTEGER NOT NULL,
		team_name TEXT NOT NULL,
		is_home INTEGER NOT NULL,
		pass_attempts INTEGER NOT NULL DEFAULT 0,
		pass_successes INTEGER NOT NULL DEFAULT 0,
		pass_failures INTEGER NOT NULL DEFAULT 0,
		shot_attempts INTEGER NOT NULL DEFAULT 0,
		shot_on_target INTEGER NOT NULL DEFAULT 0,
		shot_goals INTEGER NOT NULL DEFAULT 0,
		xg_sum REAL NOT NULL DEFAULT 0,
		tackles INTEGER NOT NULL DEFAULT 0,
		touches INTEGER NOT NULL DEFAULT 0,
		zones BLOB,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(seed, team_name)
	);
	CREATE INDEX IF NOT EXISTS idx_calibration_runs_team ON calibration_runs(team_name);
	`
	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("migrate calibration store: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSnapshot records one team's CalibrationSnapshot for a given seed,
// overwriting any prior row for the same (seed, teamName) pair.
func (s *Store) SaveSnapshot(seed uint64, teamName string, isHome bool, snap match.CalibrationSnapshot) error {
	zones, err := msgpack.Marshal(zoneBlob{
		PassByType:   snap.PassByType,
		PassOrigin12: snap.PassOrigin12,
		PassDest12:   snap.PassDest12,
		PassOrigin20: snap.PassOrigin20,
		PassDest20:   snap.PassDest20,
		ShotsByZone:  snap.ShotsByZone,
	})
	if err != nil {
		return fmt.Errorf("encode calibration zones: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO calibration_runs (
			seed, team_name, is_home, pass_attempts, pass_successes, pass_failures,
			shot_attempts, shot_on_target, shot_goals, xg_sum, tackles, touches, zones
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(seed, team_name) DO UPDATE SET
			is_home = excluded.is_home,
			pass_attempts = excluded.pass_attempts,
			pass_successes = excluded.pass_successes,
			pass_failures = excluded.pass_failures,
			shot_attempts = excluded.shot_attempts,
			shot_on_target = excluded.shot_on_target,
			shot_goals = excluded.shot_goals,
			xg_sum = excluded.xg_sum,
			tackles = excluded.tackles,
			touches = excluded.touches,
			zones = excluded.zones`,
		seed, teamName, boolToInt(isHome),
		snap.PassAttempts, snap.PassSuccesses, snap.PassFailures,
		snap.ShotAttempts, snap.ShotOnTarget, snap.ShotGoals, snap.XGSum,
		snap.Tackles, snap.Touches, zones,
	)
	if err != nil {
		return fmt.Errorf("save calibration snapshot: %w", err)
	}
	return nil
}

// AggregateTotals sums every recorded run for teamName into one
// CalibrationSnapshot, along with the number of runs contributing.
func (s *Store) AggregateTotals(teamName string) (match.CalibrationSnapshot, int, error) {
	rows, err := s.db.Query(`
		SELECT pass_attempts, pass_successes, pass_failures,
		       shot_attempts, shot_on_target, shot_goals, xg_sum, tackles, touches, zones
		FROM calibration_runs WHERE team_name = ?`, teamName)
	if err != nil {
		return match.CalibrationSnapshot{}, 0, fmt.Errorf("query calibration runs: %w", err)
	}
	defer rows.Close()

	var total match.CalibrationSnapshot
	runs := 0
	for rows.Next() {
		var row match.CalibrationSnapshot
		var zones []byte
		if err := rows.Scan(
			&row.PassAttempts, &row.PassSuccesses, &row.PassFailures,
			&row.ShotAttempts, &row.ShotOnTarget, &row.ShotGoals, &row.XGSum,
			&row.Tackles, &row.Touches, &zones,
		); err != nil {
			return match.CalibrationSnapshot{}, 0, fmt.Errorf("scan calibration run: %w", err)
		}
		var zb zoneBlob
		if len(zones) > 0 {
			if err := msgpack.Unmarshal(zones, &zb); err != nil {
				return match.CalibrationSnapshot{}, 0, fmt.Errorf("decode calibration zones: %w", err)
			}
		}
		total.PassAttempts += row.PassAttempts
		total.PassSuccesses += row.PassSuccesses
		total.PassFailures += row.PassFailures
		total.ShotAttempts += row.ShotAttempts
		total.ShotOnTarget += row.ShotOnTarget
		total.ShotGoals += row.ShotGoals
		total.XGSum += row.XGSum
		total.Tackles += row.Tackles
		total.Touches += row.Touches
		for i := range total.PassByType {
			total.PassByType[i] += zb.PassByType[i]
		}
		for i := range total.PassOrigin12 {
			total.PassOrigin12[i] += zb.PassOrigin12[i]
			total.PassDest12[i] += zb.PassDest12[i]
			total.ShotsByZone[i] += zb.ShotsByZone[i]
		}
		for i := range total.PassOrigin20 {
			total.PassOrigin20[i] += zb.PassOrigin20[i]
			total.PassDest20[i] += zb.PassDest20[i]
		}
		runs++
	}
	if err := rows.Err(); err != nil {
		return match.CalibrationSnapshot{}, 0, err
	}
	return total, runs, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
