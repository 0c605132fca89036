package logparse

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/cybertec-postgresql/slowwatch/internal/db"
	"github.com/cybertec-postgresql/slowwatch/internal/log"
)

// DiscoverLogFile asks the monitored instance for its currently active
// server log. Requires logging_collector to be enabled, otherwise
// pg_current_logfile() returns NULL. Relative paths are resolved against
// data_directory, so the result is only usable when slowwatch runs on the
// database host.
func DiscoverLogFile(ctx context.Context, conn db.PgxIface) (string, error) {
	sql := `select current_setting('data_directory') as dd, coalesce(pg_current_logfile(), '') as lf`
	var dd, lf string
	if err := conn.QueryRow(ctx, sql).Scan(&dd, &lf); err != nil {
		return "", err
	}
	if lf == "" {
		return "", errors.New("pg_current_logfile() returned no file, is logging_collector enabled?")
	}
	if !strings.HasPrefix(lf, "/") {
		lf = path.Join(dd, lf)
	}
	log.GetLogger(ctx).Infof("Discovered server logfile: %s", lf)
	return lf, nil
}
