package api

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/alexanderramin/taskmate/internal/domain"
	"github.com/alexanderramin/taskmate/internal/service"
)

const dateLayout = "2006-01-02"

type categoryJSON struct {
	Kind  string `json:"kind,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// toDomain infers the kind when omitted: a color means custom.
func (c categoryJSON) toDomain() domain.Category {
	kind := domain.CategoryKind(c.Kind)
	if kind == "" {
		kind = domain.CategoryPreset
		if c.Color != "" {
			kind = domain.CategoryCustom
		}
	}
	return domain.Category{Kind: kind, Name: strings.TrimSpace(c.Name), Color: strings.ToLower(c.Color)}
}

type subtaskJSON struct {
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
}

func subtasksToDomain(in []subtaskJSON) []domain.Subtask {
	out := make([]domain.Subtask, len(in))
	for i, st := range in {
		out[i] = domain.Subtask{Title: st.Title, IsCompleted: st.IsCompleted}
	}
	return out
}

type taskJSON struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Category    categoryJSON  `json:"category"`
	Description string        `json:"description"`
	Subtasks    []subtaskJSON `json:"subtasks"`
	Priority    string        `json:"priority"`
	Tags        []string      `json:"tags"`
	DueDate     *string       `json:"dueDate"`
	DueTime     string        `json:"dueTime,omitempty"`
	IsCompleted bool          `json:"isCompleted"`
	CreatedAt   time.Time     `json:"createdAt"`
	ModifiedAt  time.Time     `json:"modifiedAt"`
}

func taskFromDomain(t *domain.Task) taskJSON {
	out := taskJSON{
		ID:          t.ID,
		Name:        t.Name,
		Category:    categoryJSON{Kind: string(t.Category.Kind), Name: t.Category.Name, Color: t.Category.Color},
		Description: t.Description,
		Subtasks:    make([]subtaskJSON, len(t.Subtasks)),
		Priority:    string(t.Priority),
		Tags:        t.Tags,
		DueTime:     t.DueTime,
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt,
		ModifiedAt:  t.ModifiedAt,
	}
	for i, st := range t.Subtasks {
		out.Subtasks[i] = subtaskJSON{Title: st.Title, IsCompleted: st.IsCompleted}
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if t.DueDate != nil {
		d := t.DueDate.Format(dateLayout)
		out.DueDate = &d
	}
	return out
}

func tasksFromDomain(tasks []*domain.Task) []taskJSON {
	out := make([]taskJSON, len(tasks))
	for i, t := range tasks {
		out[i] = taskFromDomain(t)
	}
	return out
}

type createTaskRequest struct {
	Name        string        `json:"name"`
	Category    categoryJSON  `json:"category"`
	Description string        `json:"description"`
	Subtasks    []subtaskJSON `json:"subtasks"`
	Priority    string        `json:"priority"`
	Tags        []string      `json:"tags"`
	DueDate     *string       `json:"dueDate"`
	DueTime     string        `json:"dueTime"`
}

func (req createTaskRequest) toDomain() (*domain.Task, error) {
	t := &domain.Task{
		Name:        req.Name,
		Category:    req.Category.toDomain(),
		Description: req.Description,
		Subtasks:    subtasksToDomain(req.Subtasks),
		Priority:    domain.Priority(req.Priority),
		Tags:        req.Tags,
		DueTime:     req.DueTime,
	}
	if req.DueDate != nil {
		d, err := parseDate("dueDate", *req.DueDate)
		if err != nil {
			return nil, err
		}
		t.DueDate = &d
	}
	return t, nil
}

// patchTaskRequest distinguishes an absent dueDate (keep) from null (clear).
type patchTaskRequest struct {
	Name        *string        `json:"name"`
	Category    *categoryJSON  `json:"category"`
	Description *string        `json:"description"`
	Subtasks    *[]subtaskJSON `json:"subtasks"`
	Priority    *string        `json:"priority"`
	Tags        *[]string      `json:"tags"`
	DueDate     nullableString `json:"dueDate"`
	DueTime     *string        `json:"dueTime"`
	IsCompleted *bool          `json:"isCompleted"`
}

func (req patchTaskRequest) toDomain() (domain.TaskPatch, error) {
	p := domain.TaskPatch{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		DueTime:     req.DueTime,
		IsCompleted: req.IsCompleted,
	}
	if req.Category != nil {
		c := req.Category.toDomain()
		p.Category = &c
	}
	if req.Subtasks != nil {
		st := subtasksToDomain(*req.Subtasks)
		p.Subtasks = &st
	}
	if req.Priority != nil {
		pr := domain.Priority(*req.Priority)
		p.Priority = &pr
	}
	if req.DueDate.Set {
		var due *time.Time
		if req.DueDate.Value != nil {
			d, err := parseDate("dueDate", *req.DueDate.Value)
			if err != nil {
				return domain.TaskPatch{}, err
			}
			due = &d
		}
		p.DueDate = &due
	}
	return p, nil
}

// nullableString records whether the field was present at all.
type nullableString struct {
	Set   bool
	Value *string
}

func (n *nullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

func parseDate(field, s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: field, Message: "must be YYYY-MM-DD"}
	}
	return d, nil
}

type positionJSON struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Order int     `json:"order"`
}

func (p positionJSON) toDomain() domain.NotePosition {
	return domain.NotePosition{X: p.X, Y: p.Y, Order: p.Order}
}

type noteJSON struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Color        string       `json:"color"`
	Icon         string       `json:"icon,omitempty"`
	Position     positionJSON `json:"position"`
	ColumnID     string       `json:"columnId"`
	IsPinned     bool         `json:"isPinned"`
	CreatedAt    time.Time    `json:"createdAt"`
	LastModified time.Time    `json:"lastModified"`
}

func notesFromDomain(notes []*domain.StickyNote) []noteJSON {
	out := make([]noteJSON, len(notes))
	for i, n := range notes {
		out[i] = noteFromDomain(n)
	}
	return out
}

func noteFromDomain(n *domain.StickyNote) noteJSON {
	return noteJSON{
		ID:           n.ID,
		Name:         n.Name,
		Description:  n.Description,
		Color:        n.Color,
		Icon:         n.Icon,
		Position:     positionJSON{X: n.Position.X, Y: n.Position.Y, Order: n.Position.Order},
		ColumnID:     n.ColumnID,
		IsPinned:     n.IsPinned,
		CreatedAt:    n.CreatedAt,
		LastModified: n.LastModified,
	}
}

type createNoteRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Color       string       `json:"color"`
	Icon        string       `json:"icon"`
	Position    positionJSON `json:"position"`
	ColumnID    string       `json:"columnId"`
	IsPinned    bool         `json:"isPinned"`
}

func (req createNoteRequest) toDomain() *domain.StickyNote {
	return &domain.StickyNote{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		Position:    req.Position.toDomain(),
		ColumnID:    req.ColumnID,
		IsPinned:    req.IsPinned,
	}
}

type patchNoteRequest struct {
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Color       *string       `json:"color"`
	Icon        *string       `json:"icon"`
	Position    *positionJSON `json:"position"`
	ColumnID    *string       `json:"columnId"`
	IsPinned    *bool         `json:"isPinned"`
}

func (req patchNoteRequest) toDomain() domain.NotePatch {
	p := domain.NotePatch{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		ColumnID:    req.ColumnID,
		IsPinned:    req.IsPinned,
	}
	if req.Position != nil {
		pos := req.Position.toDomain()
		p.Position = &pos
	}
	return p
}

type noteMoveJSON struct {
	ID       string       `json:"id"`
	Position positionJSON `json:"position"`
	ColumnID string       `json:"columnId"`
}

type progressJSON struct {
	Points         int `json:"points"`
	Level          int `json:"level"`
	Progress       int `json:"progress"`
	RequiredPoints int `json:"requiredPoints"`
}

type logJSON struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Points      int       `json:"points"`
	Timestamp   time.Time `json:"timestamp"`
}

type leaderboardEntryJSON struct {
	Rank      int    `json:"rank"`
	UserID    string `json:"userId"`
	Points    int    `json:"points"`
	Level     int    `json:"level"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ImageURL  string `json:"imageUrl"`
}

type leaderboardJSON struct {
	Entries    []leaderboardEntryJSON `json:"entries"`
	TotalUsers int                    `json:"totalUsers"`
}

type timerSessionJSON struct {
	Name         string     `json:"name"`
	StudySeconds int        `json:"studyTime"`
	BreakSeconds int        `json:"breakTime"`
	StartedAt    time.Time  `json:"startedAt"`
	PausedAt     *time.Time `json:"pausedAt,omitempty"`
	Phase        string     `json:"phase"`
}

type timerStateJSON struct {
	RemainingSeconds int    `json:"timeLeft"`
	Phase            string `json:"phase"`
	Running          bool   `json:"isRunning"`
	Paused           bool   `json:"isPaused"`
	Completed        bool   `json:"isCompleted"`
}

type timerJSON struct {
	Session *timerSessionJSON `json:"session"`
	State   timerStateJSON    `json:"state"`
}

func timerFromSnapshot(snap service.TimerSnapshot) timerJSON {
	out := timerJSON{State: timerStateJSON{
		RemainingSeconds: snap.State.RemainingSeconds,
		Phase:            string(snap.State.Phase),
		Running:          snap.State.Running,
		Paused:           snap.State.Paused,
		Completed:        snap.State.Completed,
	}}
	if s := snap.Session; s != nil {
		out.Session = &timerSessionJSON{
			Name:         s.Name,
			StudySeconds: s.StudySeconds,
			BreakSeconds: s.BreakSeconds,
			StartedAt:    s.StartedAt,
			PausedAt:     s.PausedAt,
			Phase:        string(s.Phase),
		}
	}
	return out
}

// startTimerRequest durations are in seconds; absent values use the
// server defaults.
type startTimerRequest struct {
	Name         string `json:"name"`
	StudySeconds *int   `json:"studyTime"`
	BreakSeconds *int   `json:"breakTime"`
}

type userJSON struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	ImageURL    string `json:"imageUrl"`
	DisplayName string `json:"displayName"`
}

func userFromDomain(u *domain.User) userJSON {
	return userJSON{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		ImageURL:    domain.CoalesceStr(u.ImageURL, domain.DefaultImageURL),
		DisplayName: u.DisplayName(),
	}
}
