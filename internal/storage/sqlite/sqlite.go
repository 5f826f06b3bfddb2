// Package sqlite stores the grade book in a SQLite database.
//
// The database is an alternative to the JSON file: it still holds one
// snapshot, replaced in a single transaction on every save.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gradetracker/internal/core"
	"gradetracker/internal/storage"

	_ "modernc.org/sqlite"
)

var _ storage.Repository = (*Repository)(nil)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load rebuilds the grade book from all tables. Grades come back in their
// stored position order.
func (r *Repository) Load(ctx context.Context) (core.Data, error) {
	if r.db == nil {
		return nil, storage.ErrNotInitialized
	}
	d := core.Data{}

	if err := r.loadYears(ctx, d); err != nil {
		return nil, err
	}
	if err := r.loadCourses(ctx, d); err != nil {
		return nil, err
	}
	if err := r.loadCategories(ctx, d); err != nil {
		return nil, err
	}
	if err := r.loadGrades(ctx, d); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Grade book loaded from SQLite", "years", len(d))
	return d, nil
}

func (r *Repository) loadYears(ctx context.Context, d core.Data) error {
	rows, err := r.db.QueryContext(ctx, `SELECT label FROM years`)
	if err != nil {
		return fmt.Errorf("query years: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return fmt.Errorf("scan year: %w", err)
		}
		d[label] = core.Year{}
	}
	return rows.Err()
}

func (r *Repository) loadCourses(ctx context.Context, d core.Data) error {
	rows, err := r.db.QueryContext(ctx, `SELECT year, name, target FROM courses`)
	if err != nil {
		return fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			year, name string
			target     sql.NullFloat64
		)
		if err := rows.Scan(&year, &name, &target); err != nil {
			return fmt.Errorf("scan course: %w", err)
		}
		y, ok := d[year]
		if !ok {
			return fmt.Errorf("course %q references unknown year %q", name, year)
		}
		c := core.NewCourse(nil)
		if target.Valid {
			c.Target = core.Float(target.Float64)
		}
		y[name] = c
	}
	return rows.Err()
}

func (r *Repository) loadCategories(ctx context.Context, d core.Data) error {
	rows, err := r.db.QueryContext(ctx, `SELECT year, course, name, weight FROM categories`)
	if err != nil {
		return fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			year, course, name string
			weight             float64
		)
		if err := rows.Scan(&year, &course, &name, &weight); err != nil {
			return fmt.Errorf("scan category: %w", err)
		}
		c, ok := d[year][course]
		if !ok {
			return fmt.Errorf("category %q references unknown course %q/%q", name, year, course)
		}
		c.Categories[name] = core.NewCategory(weight)
	}
	return rows.Err()
}

func (r *Repository) loadGrades(ctx context.Context, d core.Data) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT year, course, category, value FROM grades ORDER BY year, course, category, position`)
	if err != nil {
		return fmt.Errorf("query grades: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			year, course, category string
			value                  float64
		)
		if err := rows.Scan(&year, &course, &category, &value); err != nil {
			return fmt.Errorf("scan grade: %w", err)
		}
		c, ok := d[year][course]
		if !ok {
			return fmt.Errorf("grade references unknown course %q/%q", year, course)
		}
		cat, ok := c.Categories[category]
		if !ok {
			return fmt.Errorf("grade references unknown category %q/%q/%q", year, course, category)
		}
		cat.Grades = append(cat.Grades, value)
	}
	return rows.Err()
}

// Save replaces every row with the contents of d inside one transaction.
func (r *Repository) Save(ctx context.Context, d core.Data) error {
	if r.db == nil {
		return storage.ErrNotInitialized
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"grades", "categories", "courses", "years"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, label := range d.YearLabels() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO years (label) VALUES (?)`, label); err != nil {
			return fmt.Errorf("insert year %q: %w", label, err)
		}
		y := d[label]
		for _, name := range y.CourseNames() {
			c := y[name]
			var target sql.NullFloat64
			if c.Target != nil {
				target = sql.NullFloat64{Float64: *c.Target, Valid: true}
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO courses (year, name, target) VALUES (?, ?, ?)`,
				label, name, target); err != nil {
				return fmt.Errorf("insert course %q: %w", name, err)
			}
			for _, catName := range c.CategoryNames() {
				cat := c.Categories[catName]
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO categories (year, course, name, weight) VALUES (?, ?, ?, ?)`,
					label, name, catName, cat.Weight); err != nil {
					return fmt.Errorf("insert category %q: %w", catName, err)
				}
				for pos, g := range cat.Grades {
					if _, err := tx.ExecContext(ctx,
						`INSERT INTO grades (year, course, category, position, value) VALUES (?, ?, ?, ?, ?)`,
						label, name, catName, pos, g); err != nil {
						return fmt.Errorf("insert grade %d of %q: %w", pos, catName, err)
					}
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.DebugContext(ctx, "Grade book saved to SQLite", "years", len(d))
	return nil
}
