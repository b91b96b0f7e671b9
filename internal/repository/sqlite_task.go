package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/taskmate/internal/db"
	"github.com/alexanderramin/taskmate/internal/domain"
)

const taskColumns = `id, user_id, name, category_kind, category_name, category_color,
	description, subtasks, priority, tags, due_date, due_time, is_completed,
	created_at, modified_at`

// subtaskJSON is the stored shape of one subtask inside tasks.subtasks.
type subtaskJSON struct {
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
}

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	args, err := taskArgs(t)
	if err != nil {
		return err
	}
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return t, err
}

func (r *SQLiteTaskRepo) ListByUser(ctx context.Context, userID string, f TaskFilter) ([]*domain.Task, error) {
	where := []string{"user_id = ?"}
	args := []any{userID}
	if f.Completed != nil {
		where = append(where, "is_completed = ?")
		args = append(args, boolToInt(*f.Completed))
	}
	if f.Priority != "" {
		where = append(where, "priority = ?")
		args = append(args, string(f.Priority))
	}
	if f.DueOn != nil {
		where = append(where, "due_date = ?")
		args = append(args, f.DueOn.Format(dateLayout))
	}

	order := "created_at DESC, rowid DESC"
	if f.Sort == TaskSortOldest {
		order = "created_at ASC, rowid ASC"
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY ` + order
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	subtasks, tags, err := encodeTaskLists(t)
	if err != nil {
		return err
	}
	query := `UPDATE tasks SET name = ?, category_kind = ?, category_name = ?, category_color = ?,
		description = ?, subtasks = ?, priority = ?, tags = ?, due_date = ?, due_time = ?,
		is_completed = ?, modified_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Name,
		string(t.Category.Kind), t.Category.Name, t.Category.Color,
		t.Description,
		subtasks,
		string(t.Priority),
		tags,
		nullableTimeToString(t.DueDate, dateLayout),
		t.DueTime,
		boolToInt(t.IsCompleted),
		formatTimestamp(t.ModifiedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireAffected(res, "task", t.ID)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireAffected(res, "task", id)
}

func (r *SQLiteTaskRepo) DeleteByUser(ctx context.Context, userID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("deleting tasks for user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted tasks: %w", err)
	}
	return int(n), nil
}

func encodeTaskLists(t *domain.Task) (subtasks, tags string, err error) {
	rows := make([]subtaskJSON, 0, len(t.Subtasks))
	for _, st := range t.Subtasks {
		rows = append(rows, subtaskJSON{Title: st.Title, IsCompleted: st.IsCompleted})
	}
	if subtasks, err = toJSONText(rows); err != nil {
		return "", "", fmt.Errorf("task subtasks: %w", err)
	}
	tagList := t.Tags
	if tagList == nil {
		tagList = []string{}
	}
	if tags, err = toJSONText(tagList); err != nil {
		return "", "", fmt.Errorf("task tags: %w", err)
	}
	return subtasks, tags, nil
}

func taskArgs(t *domain.Task) ([]any, error) {
	subtasks, tags, err := encodeTaskLists(t)
	if err != nil {
		return nil, err
	}
	return []any{
		t.ID,
		t.UserID,
		t.Name,
		string(t.Category.Kind), t.Category.Name, t.Category.Color,
		t.Description,
		subtasks,
		string(t.Priority),
		tags,
		nullableTimeToString(t.DueDate, dateLayout),
		t.DueTime,
		boolToInt(t.IsCompleted),
		formatTimestamp(t.CreatedAt),
		formatTimestamp(t.ModifiedAt),
	}, nil
}

// scanTask returns sql.ErrNoRows unwrapped so callers can map it.
func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var kind, priority, subtasksStr, tagsStr, createdAtStr, modifiedAtStr string
	var dueDateStr sql.NullString
	var completedInt int

	err := row.Scan(
		&t.ID, &t.UserID, &t.Name, &kind, &t.Category.Name, &t.Category.Color,
		&t.Description, &subtasksStr, &priority, &tagsStr, &dueDateStr, &t.DueTime, &completedInt,
		&createdAtStr, &modifiedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.Category.Kind = domain.CategoryKind(kind)
	t.Priority = domain.Priority(priority)
	t.IsCompleted = intToBool(completedInt)
	t.DueDate = parseNullableTime(dueDateStr, dateLayout)

	var subtasks []subtaskJSON
	if err := fromJSONText(subtasksStr, &subtasks); err != nil {
		return nil, fmt.Errorf("task %s subtasks: %w", t.ID, err)
	}
	t.Subtasks = make([]domain.Subtask, 0, len(subtasks))
	for _, st := range subtasks {
		t.Subtasks = append(t.Subtasks, domain.Subtask{Title: st.Title, IsCompleted: st.IsCompleted})
	}
	t.Tags = []string{}
	if err := fromJSONText(tagsStr, &t.Tags); err != nil {
		return nil, fmt.Errorf("task %s tags: %w", t.ID, err)
	}

	if t.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.ModifiedAt, err = parseTimestamp(modifiedAtStr); err != nil {
		return nil, fmt.Errorf("parsing modified_at: %w", err)
	}
	return &t, nil
}

// requireAffected maps a zero-row write to ErrNotFound.
func requireAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking %s rows affected: %w", entity, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return nil
}
