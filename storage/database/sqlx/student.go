package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/student"
)

const studentColumns = `id, user_id, first_name, last_name, email, phone, parent_name, parent_email, parent_phone,
	school, year_level, subjects, notes, hourly_rate, is_archived, created_at, updated_at`

type studentRow struct {
	ID          string         `db:"id"`
	UserID      string         `db:"user_id"`
	FirstName   string         `db:"first_name"`
	LastName    string         `db:"last_name"`
	Email       string         `db:"email"`
	Phone       string         `db:"phone"`
	ParentName  string         `db:"parent_name"`
	ParentEmail string         `db:"parent_email"`
	ParentPhone string         `db:"parent_phone"`
	School      string         `db:"school"`
	YearLevel   int            `db:"year_level"`
	Subjects    pq.StringArray `db:"subjects"`
	Notes       string         `db:"notes"`
	HourlyRate  int            `db:"hourly_rate"`
	IsArchived  bool           `db:"is_archived"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func toStudentRow(s student.Student) studentRow {
	if s.Subjects == nil {
		s.Subjects = []string{}
	}
	return studentRow{
		ID: s.ID, UserID: s.UserID,
		FirstName: s.FirstName, LastName: s.LastName, Email: s.Email, Phone: s.Phone,
		ParentName: s.ParentName, ParentEmail: s.ParentEmail, ParentPhone: s.ParentPhone,
		School: s.School, YearLevel: s.YearLevel, Subjects: s.Subjects, Notes: s.Notes,
		HourlyRate: s.HourlyRate, IsArchived: s.IsArchived,
		CreatedAt: s.CreatedAt.UTC(), UpdatedAt: s.UpdatedAt.UTC(),
	}
}

func (r studentRow) student() student.Student {
	return student.Student{
		ID: r.ID, UserID: r.UserID,
		FirstName: r.FirstName, LastName: r.LastName, Email: r.Email, Phone: r.Phone,
		ParentName: r.ParentName, ParentEmail: r.ParentEmail, ParentPhone: r.ParentPhone,
		School: r.School, YearLevel: r.YearLevel, Subjects: []string(r.Subjects), Notes: r.Notes,
		HourlyRate: r.HourlyRate, IsArchived: r.IsArchived,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	row := toStudentRow(s)
	q := `INSERT INTO student (user_id, first_name, last_name, email, phone, parent_name, parent_email, parent_phone,
			school, year_level, subjects, notes, hourly_rate, is_archived, created_at, updated_at)
		VALUES (:user_id, :first_name, :last_name, :email, :phone, :parent_name, :parent_email, :parent_phone,
			:school, :year_level, :subjects, :notes, :hourly_rate, :is_archived, :created_at, :updated_at)
		RETURNING id`
	stmt, err := repo.db.PrepareNamedContext(ctx, q)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "preparing student insert")
	}
	defer func() { _ = stmt.Close() }()

	if err = stmt.GetContext(ctx, &row.ID, row); err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return row.student(), nil
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	var w where
	w.add("user_id = ?", filter.UserID)
	if filter.Search != "" {
		val := "%" + filter.Search + "%"
		w.add("first_name || ' ' || last_name ILIKE ? OR email ILIKE ? OR parent_name ILIKE ? OR parent_email ILIKE ? OR school ILIKE ?",
			val, val, val, val, val)
	}
	if filter.Subject != "" {
		w.add("? ILIKE ANY(subjects)", filter.Subject)
	}
	if filter.IsArchived != nil {
		w.add("is_archived = ?", *filter.IsArchived)
	}

	var rows []studentRow
	q := `SELECT ` + studentColumns + ` FROM student` + w.String() + orderBy(ordering)
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), w.args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.student())
	}
	return students, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, userID, id string) (student.Student, error) {
	if !isUUID(id) {
		return student.Student{}, student.ErrNotFound
	}
	var row studentRow
	q := `SELECT ` + studentColumns + ` FROM student WHERE id = $1 AND user_id = $2`
	if err := repo.db.GetContext(ctx, &row, q, id, userID); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "finding student")
	}
	return row.student(), nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	if !isUUID(s.ID) {
		return student.Student{}, student.ErrNotFound
	}
	q := `UPDATE student SET first_name = :first_name, last_name = :last_name, email = :email, phone = :phone,
			parent_name = :parent_name, parent_email = :parent_email, parent_phone = :parent_phone,
			school = :school, year_level = :year_level, subjects = :subjects, notes = :notes,
			hourly_rate = :hourly_rate, is_archived = :is_archived, updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id`
	res, err := repo.db.NamedExecContext(ctx, q, toStudentRow(s))
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return s, nil
}

// DeleteStudent also deletes the student's meetings (ON DELETE CASCADE).
func (repo *studentRepository) DeleteStudent(ctx context.Context, userID, id string) error {
	if !isUUID(id) {
		return student.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM student WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.ErrNotFound
	}
	return nil
}
