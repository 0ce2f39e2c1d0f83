package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"quiz-tube/internal/logger"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const (
	createVersionTable = `CREATE TABLE schema_migrations (
		version NUMBER(19) PRIMARY KEY,
		applied_at TIMESTAMP WITH TIME ZONE DEFAULT SYSTIMESTAMP NOT NULL
	)`
	selectVersions = `SELECT version FROM schema_migrations`
	insertVersion  = `INSERT INTO schema_migrations (version) VALUES (:1)`
	deleteVersion  = `DELETE FROM schema_migrations WHERE version = :1`

	// ORA-00955: name is already used by an existing object
	oraObjectExists = "ORA-00955"
)

// Migrator applies the embedded migrations. golang-migrate ships no Oracle database
// driver, so versions are tracked in schema_migrations here and only the source side
// comes from golang-migrate.
type Migrator struct {
	db  *sqlx.DB
	src source.Driver
}

func NewMigrator(db *sqlx.DB) (*Migrator, error) {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("could not open embedded migrations: %w", err)
	}
	return &Migrator{db: db, src: src}, nil
}

// Up applies every migration that has not been recorded yet, in version order.
func (m *Migrator) Up(ctx context.Context) error {
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return err
	}

	version, err := m.src.First()
	for err == nil {
		if !applied[version] {
			if err := m.apply(ctx, version, true); err != nil {
				return err
			}
		}
		version, err = m.src.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not walk migrations: %w", err)
	}

	logger.Get().Info("Migrations completed successfully")
	return nil
}

// Down reverts the latest steps applied migrations.
func (m *Migrator) Down(ctx context.Context, steps int) error {
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return err
	}
	versions := make([]uint, 0, len(applied))
	for v := range applied {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] > versions[j] })

	for i := 0; i < steps && i < len(versions); i++ {
		if err := m.apply(ctx, versions[i], false); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[uint]bool, error) {
	if _, err := m.db.ExecContext(ctx, createVersionTable); err != nil && !strings.Contains(err.Error(), oraObjectExists) {
		return nil, fmt.Errorf("could not create schema_migrations: %w", err)
	}

	var versions []uint
	if err := m.db.SelectContext(ctx, &versions, selectVersions); err != nil {
		return nil, fmt.Errorf("could not read applied migrations: %w", err)
	}
	applied := make(map[uint]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

// apply runs one migration file. Oracle commits DDL implicitly, so statements are executed
// one by one and the version row is written last.
func (m *Migrator) apply(ctx context.Context, version uint, up bool) error {
	var (
		r          io.ReadCloser
		identifier string
		err        error
	)
	if up {
		r, identifier, err = m.src.ReadUp(version)
	} else {
		r, identifier, err = m.src.ReadDown(version)
	}
	if err != nil {
		return fmt.Errorf("could not read migration %d: %w", version, err)
	}
	body, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		return fmt.Errorf("could not read migration %d: %w", version, err)
	}

	for _, stmt := range SplitStatements(string(body)) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("could not execute migration %d_%s: %w", version, identifier, err)
		}
	}

	bookkeeping := insertVersion
	if !up {
		bookkeeping = deleteVersion
	}
	if _, err := m.db.ExecContext(ctx, bookkeeping, version); err != nil {
		return fmt.Errorf("could not record migration %d: %w", version, err)
	}

	logger.Get().Info("Executed migration",
		zap.Uint("version", version),
		zap.String("name", identifier),
		zap.Bool("up", up),
	)
	return nil
}

// SplitStatements breaks a migration file on ";" since go-ora executes one statement per call.
// Lines starting with "--" are dropped.
func SplitStatements(body string) []string {
	var b strings.Builder
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	var stmts []string
	for _, part := range strings.Split(b.String(), ";") {
		if s := strings.TrimSpace(part); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
