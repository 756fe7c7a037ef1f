// Package sqlstore is the relational katbin backend. It speaks postgres
// (lib/pq or pgx) and sqlite (modernc.org/sqlite) through sqlx.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"katb.in/katbin"
)

var (
	_ katbin.PasteRepository = &Provider{}
	_ katbin.UserRepository  = &Provider{}
)

type Provider struct {
	DB     *sqlx.DB
	Logger logrus.FieldLogger

	dialect *dialect
}

type Option func(*Provider)

func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Provider) {
		p.Logger = logger
	}
}

// Dialects lists the accepted values for Open's dialect argument.
func Dialects() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open connects to the database and brings its schema up to date.
func Open(ctx context.Context, dialectName, connection string, options ...Option) (*Provider, error) {
	d, ok := dialects[dialectName]
	if !ok {
		return nil, fmt.Errorf("sqlstore: unknown dialect %q (want one of %s)", dialectName, strings.Join(Dialects(), ", "))
	}
	if connection == "" {
		return nil, fmt.Errorf("sqlstore: no connection string provided for %s", dialectName)
	}

	p := &Provider{
		Logger:  logrus.StandardLogger(),
		dialect: d,
	}
	for _, o := range options {
		o(p)
	}

	if d.dsn != nil {
		connection = d.dsn(connection)
	}
	db, err := sqlx.Open(d.driver, connection)
	if err != nil {
		return nil, err
	}
	if d.setup != nil {
		d.setup(db)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	p.DB = db

	if err := p.migrateDb(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

func (p *Provider) Close() error {
	return p.DB.Close()
}

func (p *Provider) migrateDb(ctx context.Context) error {
	schemaBox, err := p.dialect.schemaBox()
	if err != nil {
		return err
	}

	maxVersion := 0
	schemas := make(map[int]string)
	err = schemaBox.Walk("" /* empty path; box is rooted at its dialect directory */, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() || !strings.HasSuffix(path, ".sql") {
			return nil
		}

		var ver int
		var desc string
		n, _ := fmt.Sscanf(filepath.Base(path), "%d_%s", &ver, &desc)
		if n != 2 {
			return fmt.Errorf("sqlstore: invalid schema migration filename %s", path)
		}
		if _, dup := schemas[ver]; dup {
			return fmt.Errorf("sqlstore: two migrations claim version %d", ver)
		}
		schemas[ver] = path
		if ver > maxVersion {
			maxVersion = ver
		}
		return nil
	})
	if err != nil {
		return err
	}

	db := p.DB
	if _, err = db.ExecContext(ctx, p.dialect.v0Schema); err != nil {
		return err
	}

	schemaVersion := 0
	err = db.QueryRowContext(ctx, "SELECT version FROM _schema ORDER BY version DESC LIMIT 1").Scan(&schemaVersion)
	if err != nil && err != sql.ErrNoRows {
		return err
	}

	if schemaVersion > maxVersion {
		return fmt.Errorf("sqlstore: database is newer than we can support! (%d > %d)", schemaVersion, maxVersion)
	}

	for ; schemaVersion < maxVersion; schemaVersion++ {
		newVersion := schemaVersion + 1
		path, ok := schemas[newVersion]
		if !ok {
			return fmt.Errorf("sqlstore: missing migration for version %d", newVersion)
		}

		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}

		// we use Must, as the Walk earlier proved that these files exist.
		sch := schemaBox.MustString(path)
		if _, err = tx.ExecContext(ctx, sch); err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlstore: migration %s: %w", path, err)
		}

		if _, err = tx.ExecContext(ctx, tx.Rebind("INSERT INTO _schema(version) VALUES(?)"), newVersion); err != nil {
			tx.Rollback()
			return err
		}

		if err := tx.Commit(); err != nil {
			return err
		}
		p.Logger.WithField("version", newVersion).Info("applied schema migration")
	}

	return nil
}
