package attendance

import (
	"context"
	"database/sql"
	"time"
)

// CheckIn is one recognized presence event bound for the asistencias table.
type CheckIn struct {
	StudentID int       `json:"id_estudiante"`
	SessionID int       `json:"id_curso"`
	When      time.Time `json:"fecha_hora"`
}

// ReportRow is one line of the attendance report join.
type ReportRow struct {
	StudentID int       `json:"estudiante_id"`
	Name      string    `json:"estudiante_nombre"`
	Surname   string    `json:"estudiante_apellido"`
	Course    string    `json:"curso_nombre"`
	When      time.Time `json:"asistencia_hora"`
}

// Repository persists attendance rows in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertCheckIn appends one attendance row. Repeat recognitions of the same
// student in the same course at different instants all land as new rows.
func (r *Repository) InsertCheckIn(ctx context.Context, c CheckIn) error {
	when := c.When
	if when.IsZero() {
		when = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO asistencias (id_estudiante, id_curso, fecha_hora)
		VALUES ($1, $2, $3)
	`, c.StudentID, c.SessionID, when)
	return err
}

// Report returns every attendance row joined with student and course names.
func (r *Repository) Report(ctx context.Context) ([]ReportRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			e.id AS estudiante_id,
			e.nombre AS estudiante_nombre,
			e.apellido AS estudiante_apellido,
			c.nombre AS curso_nombre,
			a.fecha_hora AS asistencia_hora
		FROM asistencias a
		JOIN estudiante e ON a.id_estudiante = e.id
		JOIN curso c ON a.id_curso = c.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []ReportRow
	for rows.Next() {
		var row ReportRow
		var nombre, apellido sql.NullString
		if err := rows.Scan(&row.StudentID, &nombre, &apellido, &row.Course, &row.When); err != nil {
			return nil, err
		}
		row.Name = nombre.String
		row.Surname = apellido.String
		res = append(res, row)
	}
	return res, rows.Err()
}
