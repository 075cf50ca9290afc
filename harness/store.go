package harness

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/aguillonlei-alt/OPTIC-5G/model"
)

const storeSchema = `
CREATE TABLE IF NOT EXISTS trials (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TEXT NOT NULL,
    mask TEXT NOT NULL,
    active_sites INTEGER NOT NULL,
    energy_watts REAL NOT NULL,
    throughput_mbps REAL NOT NULL,
    avg_sinr_db REAL NOT NULL,
    packet_loss_pct REAL NOT NULL,
    duration_s REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trials_mask ON trials(mask);

CREATE TABLE IF NOT EXISTS flows (
    trial_id INTEGER NOT NULL REFERENCES trials(id) ON DELETE CASCADE,
    flow_id INTEGER NOT NULL,
    src_addr TEXT,
    dst_addr TEXT,
    tx_bytes INTEGER NOT NULL,
    rx_bytes INTEGER NOT NULL,
    tx_packets INTEGER NOT NULL,
    rx_packets INTEGER NOT NULL,
    first_tx_s REAL,
    last_rx_s REAL,
    delay_sum_s REAL,
    jitter_sum_s REAL,
    PRIMARY KEY (trial_id, flow_id)
);
`

// Store persists trial results and their per-flow telemetry so the outer
// optimizer can audit past masks and resume a study across runs.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the trial history database.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open trial store %q: %w", path, err)
	}
	// Single writer; SQLite serializes anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init trial store %q: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// SaveTrial records one result and its flows, returning the trial row ID.
func (s *Store) SaveTrial(ctx context.Context, res model.TrialResult, flows []model.FlowRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("save trial: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
        INSERT INTO trials (created_at, mask, active_sites, energy_watts,
            throughput_mbps, avg_sinr_db, packet_loss_pct, duration_s)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		res.Mask,
		res.ActiveSites,
		res.EnergyWatts,
		res.ThroughputMbps,
		res.AvgSINRdB,
		res.PacketLossPct,
		res.Duration.Seconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("save trial: %w", err)
	}
	trialID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save trial: %w", err)
	}

	for _, f := range flows {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO flows (trial_id, flow_id, src_addr, dst_addr,
                tx_bytes, rx_bytes, tx_packets, rx_packets,
                first_tx_s, last_rx_s, delay_sum_s, jitter_sum_s)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			trialID, f.FlowID, f.SrcAddr, f.DstAddr,
			f.TxBytes, f.RxBytes, f.TxPackets, f.RxPackets,
			f.FirstTxSeconds, f.LastRxSeconds, f.DelaySumSeconds, f.JitterSumSeconds,
		); err != nil {
			return 0, fmt.Errorf("save trial flow %d: %w", f.FlowID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("save trial: %w", err)
	}
	return trialID, nil
}

// TrialsByMask returns all stored results for a mask, newest first.
// The optimizer uses it to detect re-evaluations.
func (s *Store) TrialsByMask(ctx context.Context, mask string) ([]model.TrialResult, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT mask, active_sites, energy_watts, throughput_mbps,
               avg_sinr_db, packet_loss_pct, duration_s
        FROM trials WHERE mask = ? ORDER BY id DESC`, mask)
	if err != nil {
		return nil, fmt.Errorf("trials by mask: %w", err)
	}
	defer rows.Close()

	var out []model.TrialResult
	for rows.Next() {
		var r model.TrialResult
		var durationS float64
		if err := rows.Scan(&r.Mask, &r.ActiveSites, &r.EnergyWatts,
			&r.ThroughputMbps, &r.AvgSINRdB, &r.PacketLossPct, &durationS); err != nil {
			return nil, fmt.Errorf("trials by mask: %w", err)
		}
		r.Duration = time.Duration(durationS * float64(time.Second))
		out = append(out, r)
	}
	return out, rows.Err()
}
