package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"SectorPulse/internal/domain/models"
	"SectorPulse/internal/domain/repository"
)

// ClickHouseBarStore implements BarStore for ClickHouse.
type ClickHouseBarStore struct {
	db         *sql.DB
	barTable   string
	curveTable string
}

// NewClickHouseBarStore creates ClickHouse-backed bar storage.
func NewClickHouseBarStore(db *sql.DB, barTable, curveTable string) repository.BarStore {
	return &ClickHouseBarStore{db: db, barTable: barTable, curveTable: curveTable}
}

func (s *ClickHouseBarStore) Init(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			date Date,
			symbol LowCardinality(String),
			open Float64,
			high Float64,
			low Float64,
			close Float64,
			volume Float64
		) ENGINE = ReplacingMergeTree
		ORDER BY (symbol, date)`, s.barTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			date Date,
			month1 Nullable(Float64),
			month2 Nullable(Float64),
			month3 Nullable(Float64),
			month6 Nullable(Float64),
			year1 Nullable(Float64),
			year2 Nullable(Float64),
			year3 Nullable(Float64),
			year5 Nullable(Float64),
			year7 Nullable(Float64),
			year10 Nullable(Float64),
			year20 Nullable(Float64),
			year30 Nullable(Float64)
		) ENGINE = ReplacingMergeTree
		ORDER BY date`, s.curveTable),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *ClickHouseBarStore) StoreBars(ctx context.Context, symbol string, bars []models.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	const chunkSize = 2000
	for start := 0; start < len(bars); start += chunkSize {
		end := start + chunkSize
		if end > len(bars) {
			end = len(bars)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*7)
		for _, b := range bars[start:end] {
			if b.Date.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args, b.Date, symbol, b.Open, b.High, b.Low, b.Close, b.Volume)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (date, symbol, open, high, low, close, volume) VALUES %s",
			s.barTable, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseBarStore) QueryBars(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Bar, error) {
	q := fmt.Sprintf("SELECT date, open, high, low, close, volume FROM %s WHERE symbol = ? AND date >= ? AND date <= ? ORDER BY date ASC LIMIT ?", s.barTable)
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []models.Bar
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

func (s *ClickHouseBarStore) StoreCurves(ctx context.Context, points []models.YieldCurvePoint) error {
	if len(points) == 0 {
		return nil
	}
	values := make([]string, 0, len(points))
	args := make([]interface{}, 0, len(points)*13)
	for _, p := range points {
		if p.Date.IsZero() {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			p.Date,
			p.Month1, p.Month2, p.Month3, p.Month6,
			p.Year1, p.Year2, p.Year3, p.Year5, p.Year7,
			p.Year10, p.Year20, p.Year30,
		)
	}
	if len(values) == 0 {
		return nil
	}
	q := fmt.Sprintf("INSERT INTO %s (date, month1, month2, month3, month6, year1, year2, year3, year5, year7, year10, year20, year30) VALUES %s",
		s.curveTable, strings.Join(values, ","))
	_, err := s.db.ExecContext(ctx, q, args...)
	return err
}

func (s *ClickHouseBarStore) QueryCurves(ctx context.Context, from, to time.Time) ([]models.YieldCurvePoint, error) {
	q := fmt.Sprintf("SELECT date, month1, month2, month3, month6, year1, year2, year3, year5, year7, year10, year20, year30 FROM %s WHERE date >= ? AND date <= ? ORDER BY date ASC", s.curveTable)
	rows, err := s.db.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []models.YieldCurvePoint
	for rows.Next() {
		var p models.YieldCurvePoint
		if err := rows.Scan(&p.Date,
			&p.Month1, &p.Month2, &p.Month3, &p.Month6,
			&p.Year1, &p.Year2, &p.Year3, &p.Year5, &p.Year7,
			&p.Year10, &p.Year20, &p.Year30,
		); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *ClickHouseBarStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseBarStore) Close() error {
	return nil // connection pool managed by pkg/clickhouse
}
