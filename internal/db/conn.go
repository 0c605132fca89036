package db

import (
	"context"
	"time"

	"github.com/cybertec-postgresql/slowwatch/internal/log"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/tracelog"
	retry "github.com/sethvargo/go-retry"
)

const (
	connectTimeout  = 5 * time.Second
	applicationName = "slowwatch" // set on the opened connection for informative purposes
)

// PgxIface is the query interface used by the log discovery code,
// satisfied by both *pgx.Conn and pgxmock.
type PgxIface interface {
	QueryRow(context.Context, string, ...any) pgx.Row
}

// Connect opens a connection to the monitored instance, retrying 3 times
// with a 1s delay. Only used when log discovery is requested, monitoring
// itself never touches the database.
func Connect(ctx context.Context, connStr string) (*pgx.Conn, error) {
	connConfig, err := pgx.ParseConfig(connStr)
	if err != nil {
		return nil, err
	}
	connConfig.ConnectTimeout = connectTimeout
	connConfig.RuntimeParams["application_name"] = applicationName
	connConfig.Tracer = &tracelog.TraceLog{
		Logger:   log.NewPgxLogger(log.GetLogger(ctx)),
		LogLevel: tracelog.LogLevelDebug,
	}

	var conn *pgx.Conn
	backoff := retry.WithMaxRetries(3, retry.NewConstant(1*time.Second))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		conn, err = pgx.ConnectConfig(ctx, connConfig)
		if err != nil {
			log.GetLogger(ctx).WithError(err).Error("connection failed, retrying...")
			return retry.RetryableError(err)
		}
		return nil
	})
	return conn, err
}
