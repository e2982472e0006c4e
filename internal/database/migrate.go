package database

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed schema.sql
var schema string

// SchemaStatements splits the embedded schema into individual statements
func SchemaStatements() []string {
	var statements []string
	for _, part := range strings.Split(schema, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db DB) (int, error) {
	statements := SchemaStatements()
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return i, fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return len(statements), nil
}
