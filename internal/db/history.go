package db

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tarediiran-industries.com/departure-board/internal/transit"
)

const (
	createSnapshotsTable = `CREATE TABLE IF NOT EXISTS board_snapshots (
	snapshot_id BIGSERIAL PRIMARY KEY,
	taken_at TIMESTAMPTZ NOT NULL
)`
	createRowsTable = `CREATE TABLE IF NOT EXISTS board_rows (
	snapshot_id BIGINT NOT NULL REFERENCES board_snapshots(snapshot_id) ON DELETE CASCADE,
	service TEXT NOT NULL,
	slot INT NOT NULL,
	destination TEXT NOT NULL,
	line TEXT NOT NULL,
	minutes INT4[] NOT NULL
)`
)

var boardRowColumns = []string{"snapshot_id", "service", "slot", "destination", "line", "minutes"}

// HistoryRecorder appends every rendered board to Postgres.
type HistoryRecorder struct {
	Db *Database
}

func NewHistoryRecorder(ctx context.Context, dsn string) (*HistoryRecorder, error) {
	database, err := NewDatabaseConnection(ctx, dsn)
	if err != nil {
		return nil, err
	}

	recorder := &HistoryRecorder{Db: database}
	if err := recorder.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return recorder, nil
}

func (recorder *HistoryRecorder) EnsureSchema(ctx context.Context) error {
	for _, statement := range []string{createSnapshotsTable, createRowsTable} {
		if _, err := recorder.Db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("ensure history schema: %w", err)
		}
	}
	return nil
}

func (recorder *HistoryRecorder) Record(ctx context.Context, takenAt time.Time, departures map[string][]transit.Departure) error {
	var snapshotID int64
	err := recorder.Db.QueryRowContext(ctx,
		"INSERT INTO board_snapshots (taken_at) VALUES ($1) RETURNING snapshot_id", takenAt,
	).Scan(&snapshotID)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	rows := BoardRowRecords(snapshotID, departures)
	if len(rows) == 0 {
		return nil
	}
	_, err = recorder.Db.CopyFromSlice(ctx, "board_rows", boardRowColumns, rows)
	return err
}

func (recorder *HistoryRecorder) Close() error {
	return recorder.Db.Close()
}

// BoardRowRecords flattens departures into COPY rows, services in name order
// and slots in board order.
func BoardRowRecords(snapshotID int64, departures map[string][]transit.Departure) [][]any {
	services := make([]string, 0, len(departures))
	for service := range departures {
		services = append(services, service)
	}
	sort.Strings(services)

	var rows [][]any
	for _, service := range services {
		for slot, departure := range departures[service] {
			minutes := make([]int32, len(departure.Minutes))
			for i, m := range departure.Minutes {
				minutes[i] = int32(m)
			}
			rows = append(rows, []any{snapshotID, service, slot, departure.Destination, departure.Line, minutes})
		}
	}
	return rows
}

type SnapshotSummary struct {
	SnapshotID int64
	TakenAt    time.Time
	Rows       int
}

// RecentSnapshots lists the newest snapshots first.
func RecentSnapshots(ctx context.Context, conn DBTX, limit int) ([]SnapshotSummary, error) {
	rows, err := conn.QueryContext(ctx, `SELECT s.snapshot_id, s.taken_at, COUNT(r.snapshot_id)
FROM board_snapshots s LEFT JOIN board_rows r ON r.snapshot_id = s.snapshot_id
GROUP BY s.snapshot_id, s.taken_at
ORDER BY s.taken_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var summaries []SnapshotSummary
	for rows.Next() {
		var summary SnapshotSummary
		if err := rows.Scan(&summary.SnapshotID, &summary.TakenAt, &summary.Rows); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}
