package datasource

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/algotradehub/algotrade/internal/logger"
	"github.com/algotradehub/algotrade/internal/types"
	"github.com/algotradehub/algotrade/pkg/errors"
)

// CSVDataSource serves OHLCV bars from a CSV file through an in-memory
// DuckDB view, so time filtering and counting stay in SQL.
type CSVDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewCSVDataSource creates a CSV data source backed by an in-memory DuckDB
// database. Initialize must be called before reading.
func NewCSVDataSource(l *logger.Logger) (DataSource, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	if l == nil {
		l = logger.NewNopLogger()
	}

	return &CSVDataSource{
		db:     db,
		logger: l,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Initialize implements DataSource.
func (d *CSVDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing CSV data source", zap.String("path", path))

	_, err := d.db.Exec(`DROP VIEW IF EXISTS market_data;`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to drop existing view", err)
	}

	// CREATE VIEW has no placeholder support, the path is interpolated.
	query := fmt.Sprintf(`
		CREATE VIEW market_data AS
		SELECT symbol, time, open, high, low, close, volume
		FROM read_csv_auto('%s', header=true);
	`, path)

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataParseFailed, err, "failed to read csv at %s", path)
	}

	return nil
}

// Count implements DataSource.
func (d *CSVDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	query := "SELECT COUNT(*) FROM market_data"

	where, params := timeWindow(start, end)
	if where != "" {
		query += " WHERE " + where
	}

	var count int
	if err := d.db.QueryRow(query, params...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count bars", err)
	}

	return count, nil
}

// ReadAll implements DataSource. Bars are yielded oldest first.
func (d *CSVDataSource) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.MarketData, error) bool) {
	return func(yield func(types.MarketData, error) bool) {
		query := `
			SELECT symbol, time, open, high, low, close, volume
			FROM market_data
		`

		where, params := timeWindow(start, end)
		if where != "" {
			query += " WHERE " + where
		}

		query += " ORDER BY time ASC"

		rows, err := d.db.Query(query, params...)
		if err != nil {
			yield(types.MarketData{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query bars", err))

			return
		}
		defer rows.Close()

		for rows.Next() {
			bar, err := scanBar(rows)
			if err != nil {
				yield(types.MarketData{}, err)

				return
			}

			if !yield(bar, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(types.MarketData{}, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating bars", err))
		}
	}
}

// ReadLastData implements DataSource.
func (d *CSVDataSource) ReadLastData(symbol string) (types.MarketData, error) {
	query := `
		SELECT symbol, time, open, high, low, close, volume
		FROM market_data
		WHERE symbol = ?
		ORDER BY time DESC
		LIMIT 1
	`

	rows, err := d.db.Query(query, symbol)
	if err != nil {
		return types.MarketData{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query last bar", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return types.MarketData{}, errors.Newf(errors.ErrCodeDataNotFound, "no data for symbol %s", symbol)
	}

	return scanBar(rows)
}

// Close implements DataSource.
func (d *CSVDataSource) Close() error {
	return d.db.Close()
}

func timeWindow(start optional.Option[time.Time], end optional.Option[time.Time]) (string, []interface{}) {
	var (
		conditions []string
		params     []interface{}
	)

	if start.IsSome() {
		conditions = append(conditions, "time >= ?")
		params = append(params, start.Unwrap())
	}

	if end.IsSome() {
		conditions = append(conditions, "time <= ?")
		params = append(params, end.Unwrap())
	}

	return strings.Join(conditions, " AND "), params
}

func scanBar(rows *sql.Rows) (types.MarketData, error) {
	var (
		symbol                         string
		timestamp                      time.Time
		open, high, low, close, volume float64
	)

	if err := rows.Scan(&symbol, &timestamp, &open, &high, &low, &close, &volume); err != nil {
		return types.MarketData{}, errors.Wrap(errors.ErrCodeDataParseFailed, "failed to scan bar", err)
	}

	return types.MarketData{
		Symbol: symbol,
		Time:   timestamp,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: volume,
	}, nil
}
