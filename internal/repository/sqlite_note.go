package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/taskmate/internal/db"
	"github.com/alexanderramin/taskmate/internal/domain"
)

const noteColumns = `id, user_id, name, description, color, icon, pos_x, pos_y, pos_order,
	column_id, is_pinned, created_at, last_modified`

// SQLiteNoteRepo implements NoteRepo using a SQLite database.
type SQLiteNoteRepo struct {
	db db.DBTX
}

func NewSQLiteNoteRepo(conn db.DBTX) *SQLiteNoteRepo {
	return &SQLiteNoteRepo{db: conn}
}

func (r *SQLiteNoteRepo) Create(ctx context.Context, n *domain.StickyNote) error {
	query := `INSERT INTO sticky_notes (` + noteColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.UserID, n.Name, n.Description, n.Color, n.Icon,
		n.Position.X, n.Position.Y, n.Position.Order,
		n.ColumnID, boolToInt(n.IsPinned),
		formatTimestamp(n.CreatedAt), formatTimestamp(n.LastModified),
	)
	if err != nil {
		return fmt.Errorf("inserting sticky note: %w", err)
	}
	return nil
}

func (r *SQLiteNoteRepo) GetByID(ctx context.Context, id string) (*domain.StickyNote, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM sticky_notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sticky note %s: %w", id, ErrNotFound)
	}
	return n, err
}

func (r *SQLiteNoteRepo) ListByUser(ctx context.Context, userID string) ([]*domain.StickyNote, error) {
	query := `SELECT ` + noteColumns + ` FROM sticky_notes
		WHERE user_id = ?
		ORDER BY column_id, pos_order, created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing sticky notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.StickyNote
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sticky notes: %w", err)
	}
	return notes, nil
}

func (r *SQLiteNoteRepo) Update(ctx context.Context, n *domain.StickyNote) error {
	query := `UPDATE sticky_notes SET name = ?, description = ?, color = ?, icon = ?,
		pos_x = ?, pos_y = ?, pos_order = ?, column_id = ?, is_pinned = ?, last_modified = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		n.Name, n.Description, n.Color, n.Icon,
		n.Position.X, n.Position.Y, n.Position.Order,
		n.ColumnID, boolToInt(n.IsPinned), formatTimestamp(n.LastModified),
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("updating sticky note: %w", err)
	}
	return requireAffected(res, "sticky note", n.ID)
}

func (r *SQLiteNoteRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sticky_notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting sticky note: %w", err)
	}
	return requireAffected(res, "sticky note", id)
}

func (r *SQLiteNoteRepo) DeleteByUser(ctx context.Context, userID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sticky_notes WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("deleting sticky notes for user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted sticky notes: %w", err)
	}
	return int(n), nil
}

func scanNote(row rowScanner) (*domain.StickyNote, error) {
	var n domain.StickyNote
	var pinnedInt int
	var createdAtStr, modifiedStr string

	err := row.Scan(
		&n.ID, &n.UserID, &n.Name, &n.Description, &n.Color, &n.Icon,
		&n.Position.X, &n.Position.Y, &n.Position.Order,
		&n.ColumnID, &pinnedInt, &createdAtStr, &modifiedStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning sticky note: %w", err)
	}
	n.IsPinned = intToBool(pinnedInt)
	if n.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if n.LastModified, err = parseTimestamp(modifiedStr); err != nil {
		return nil, fmt.Errorf("parsing last_modified: %w", err)
	}
	return &n, nil
}
