package store

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS estudiante (
		id INTEGER PRIMARY KEY,
		nombre TEXT,
		apellido TEXT,
		huella BYTEA,
		rol TEXT CHECK (rol IN ('ESTUDIANTE', 'PROFESOR'))
	)`,
	`CREATE TABLE IF NOT EXISTS curso (
		id INTEGER PRIMARY KEY,
		nombre TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS asistencias (
		id_estudiante INTEGER REFERENCES estudiante(id),
		id_curso INTEGER REFERENCES curso(id),
		fecha_hora TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (id_estudiante, id_curso, fecha_hora)
	)`,
}

// EnsureSchema creates the tables if missing and seeds the active course row.
// Identity ids are caller-supplied, so estudiante.id carries no sequence.
func EnsureSchema(ctx context.Context, db *sql.DB, sessionID int, sessionName string) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO curso (id, nombre)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`, sessionID, sessionName)
	if err != nil {
		return fmt.Errorf("seed curso %d: %w", sessionID, err)
	}
	return nil
}
