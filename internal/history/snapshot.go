package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/FluidXR/fetchdroid/internal/deviceinfo"
)

// Entry is one recorded snapshot.
type Entry struct {
	ID       string
	DeviceID string
	TakenAt  time.Time
	Digest   string
	Snapshot deviceinfo.Snapshot
}

// DeviceSummary counts the history kept for one device.
type DeviceSummary struct {
	DeviceID  string
	Snapshots int
	LastSeen  time.Time
}

// Record stores snap unless it is identical to the latest snapshot kept
// for the same device. It reports whether a row was written.
func (h *DB) Record(snap deviceinfo.Snapshot) (bool, error) {
	body, digest, err := encode(snap)
	if err != nil {
		return false, err
	}
	tx, err := h.db.Begin()
	if err != nil {
		return false, fmt.Errorf("record snapshot: %w", err)
	}
	defer tx.Rollback()

	latest, err := latestDigest(tx, snap.DeviceID)
	if err != nil {
		return false, err
	}
	if latest == digest {
		return false, nil
	}
	_, err = tx.Exec(
		`INSERT INTO snapshots (id, device_id, taken_at, digest, body) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), snap.DeviceID, h.Now().UnixNano(), digest, body,
	)
	if err != nil {
		return false, fmt.Errorf("record snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("record snapshot: %w", err)
	}
	return true, nil
}

func latestDigest(tx *sql.Tx, deviceID string) (string, error) {
	var digest string
	err := tx.QueryRow(
		`SELECT digest FROM snapshots WHERE device_id = ? ORDER BY taken_at DESC, rowid DESC LIMIT 1`,
		deviceID,
	).Scan(&digest)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("latest digest: %w", err)
	}
	return digest, nil
}

// List returns up to limit entries, newest first. An empty deviceID lists
// every device; limit <= 0 means no limit.
func (h *DB) List(deviceID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := h.db.Query(
		`SELECT id, device_id, taken_at, digest, body
		 FROM snapshots
		 WHERE ? = '' OR device_id = ?
		 ORDER BY taken_at DESC, rowid DESC
		 LIMIT ?`,
		deviceID, deviceID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e     Entry
			nanos int64
			body  []byte
		)
		if err := rows.Scan(&e.ID, &e.DeviceID, &nanos, &e.Digest, &body); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		e.TakenAt = time.Unix(0, nanos)
		if e.Snapshot, err = decode(body); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Devices summarizes the history kept per device, most recently seen first.
func (h *DB) Devices() ([]DeviceSummary, error) {
	rows, err := h.db.Query(
		`SELECT device_id, COUNT(*), MAX(taken_at)
		 FROM snapshots
		 GROUP BY device_id
		 ORDER BY MAX(taken_at) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("summarize devices: %w", err)
	}
	defer rows.Close()

	var out []DeviceSummary
	for rows.Next() {
		var (
			d     DeviceSummary
			nanos int64
		)
		if err := rows.Scan(&d.DeviceID, &d.Snapshots, &nanos); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		d.LastSeen = time.Unix(0, nanos)
		out = append(out, d)
	}
	return out, rows.Err()
}
