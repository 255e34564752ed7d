package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const upStub = `-- Migration: %s
-- Created: %s
-- Description: %s

-- Write your UP migration SQL here

`

const downStub = `-- Migration: %s (Rollback)
-- Created: %s
-- Description: Rollback for %s

-- Write your DOWN migration SQL here

`

// MigrationFile describes a generated up/down migration pair
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	UpPath      string
	DownPath    string
}

// CreateMigration generates an empty up/down migration pair. The version
// prefix is the current timestamp in 20060102150405 form so files sort in
// creation order, matching what golang-migrate expects.
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	if err := os.MkdirAll(migrationsDir, 0755); err != nil {
		return nil, fmt.Errorf("create migrations directory: %w", err)
	}

	now := time.Now()
	version := now.Format("20060102150405")
	created := now.Format(time.RFC3339)

	base := version + "_" + sanitizeName(name)
	mf := &MigrationFile{
		Version:     version,
		Name:        name,
		Description: description,
		UpPath:      filepath.Join(migrationsDir, base+".up.sql"),
		DownPath:    filepath.Join(migrationsDir, base+".down.sql"),
	}

	if err := os.WriteFile(mf.UpPath, fmt.Appendf(nil, upStub, name, created, description), 0644); err != nil {
		return nil, fmt.Errorf("write up migration: %w", err)
	}
	if err := os.WriteFile(mf.DownPath, fmt.Appendf(nil, downStub, name, created, description), 0644); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("write down migration: %w", err)
	}
	return mf, nil
}

// sanitizeName lowercases a migration name and collapses separators to
// single underscores, dropping everything else
func sanitizeName(name string) string {
	var sb strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z' || c >= '0' && c <= '9':
			sb.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			sb.WriteByte(c + 'a' - 'A')
		case c == ' ' || c == '-' || c == '_':
			s := sb.String()
			if len(s) > 0 && s[len(s)-1] != '_' {
				sb.WriteByte('_')
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "_")
}

// ListMigrations lists the migration base names found in a directory, one
// entry per up/down pair. A missing directory is an empty list, not an error.
func ListMigrations(migrationsDir string) ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	migrations := make([]string, 0, len(entries)/2)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			migrations = append(migrations, base)
		}
	}
	return migrations, nil
}
