package analysis

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/zeu5/torcs-qlearning/core"
	"github.com/zeu5/torcs-qlearning/util"
	_ "modernc.org/sqlite"
)

const statisticsSchema = `
CREATE TABLE IF NOT EXISTS statistics (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	line        TEXT NOT NULL,
	created_at  TEXT NOT NULL
);
`

// SQLiteStatisticsLog stores the episode lines in a SQLite database. Every
// append is its own transaction.
type SQLiteStatisticsLog struct {
	db *sql.DB
}

var _ core.StatisticsLog = &SQLiteStatisticsLog{}

func NewSQLiteStatisticsLog(dbPath string) (*SQLiteStatisticsLog, error) {
	if err := util.EnsureDir(dbPath); err != nil {
		return nil, fmt.Errorf("db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(statisticsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStatisticsLog{db: db}, nil
}

func (s *SQLiteStatisticsLog) Close() error {
	return s.db.Close()
}

func (s *SQLiteStatisticsLog) Append(line string) error {
	_, err := s.db.Exec(
		`INSERT INTO statistics (line, created_at) VALUES (?, ?)`,
		line, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert statistics: %w", err)
	}
	return nil
}

func (s *SQLiteStatisticsLog) Lines() ([]string, error) {
	rows, err := s.db.Query(`SELECT line FROM statistics ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query statistics: %w", err)
	}
	defer rows.Close()

	lines := make([]string, 0)
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scan statistics: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
