package persistence

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed schema/*.sql
var schemaFS embed.FS

const schemaDir = "schema"

// Migrator applies the embedded clubs schema with goose.
type Migrator struct {
	db *sql.DB
}

func NewMigrator(pool *pgxpool.Pool, table string) (*Migrator, error) {
	goose.SetBaseFS(schemaFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if table != "" {
		goose.SetTableName(table)
	}
	return &Migrator{db: stdlib.OpenDBFromPool(pool)}, nil
}

func (m *Migrator) Up(ctx context.Context) error {
	return goose.UpContext(ctx, m.db, schemaDir)
}

func (m *Migrator) Down(ctx context.Context) error {
	return goose.DownContext(ctx, m.db, schemaDir)
}

func (m *Migrator) Status(ctx context.Context, out io.Writer) error {
	current, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return err
	}
	migrations, err := goose.CollectMigrations(schemaDir, 0, goose.MaxVersion)
	if err != nil {
		return err
	}
	for _, mig := range migrations {
		state := "pending"
		if mig.Version <= current {
			state = "applied"
		}
		if _, err := fmt.Fprintf(out, "%05d %s %s\n", mig.Version, state, mig.Source); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migrator) Close() error {
	return m.db.Close()
}

// SchemaFiles lists the embedded migration files.
func SchemaFiles() ([]string, error) {
	entries, err := schemaFS.ReadDir(schemaDir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out, nil
}
