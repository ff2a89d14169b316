package roster

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Role values accepted on the wire and persisted in estudiante.rol.
const (
	RoleStudent    = "ESTUDIANTE"
	RoleInstructor = "PROFESOR"
)

// ValidRole reports whether rol is one of the two recognized values.
func ValidRole(rol string) bool {
	return rol == RoleStudent || rol == RoleInstructor
}

// ErrDuplicateID is returned when an insert collides with an enrolled id.
var ErrDuplicateID = errors.New("duplicate student id")

// Student is one enrolled person. Template holds the opaque fingerprint
// payload captured by the scanner; it is nil until enrollment completes.
type Student struct {
	ID       int    `json:"id"`
	Name     string `json:"nombre"`
	Surname  string `json:"apellido"`
	Template []byte `json:"-"`
	Role     string `json:"rol"`
}

// Repository persists enrolled students in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new student row. Ids are assigned by the operator, not the
// store, so a collision surfaces as ErrDuplicateID. A nil template is stored
// as NULL when commit ran without a preceding capture.
func (r *Repository) Insert(ctx context.Context, s Student) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO estudiante (id, nombre, apellido, huella, rol)
		VALUES ($1, $2, $3, $4, $5)
	`, s.ID, s.Name, s.Surname, s.Template, s.Role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateID
		}
		return err
	}
	return nil
}

// Get returns a student by id, or nil when no row matches.
func (r *Repository) Get(ctx context.Context, id int) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, nombre, apellido, huella, rol
		FROM estudiante WHERE id = $1
	`, id)
	var s Student
	var nombre, apellido, rol sql.NullString
	if err := row.Scan(&s.ID, &nombre, &apellido, &s.Template, &rol); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.Name = nombre.String
	s.Surname = apellido.String
	s.Role = rol.String
	return &s, nil
}
