package task

import (
	"strings"
	"unicode/utf8"

	"github.com/nordwind-labs/taskdeck/internal/clierr"
	"github.com/nordwind-labs/taskdeck/internal/date"
)

// MaxNameLength is the longest accepted task name, in runes.
const MaxNameLength = 50

// MaxNotesLength is the longest stored notes text, in runes. Longer input
// is truncated, not rejected.
const MaxNotesLength = 250

// ValidateName checks that a task name is non-empty (after trimming) and
// at most MaxNameLength runes.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return clierr.New(clierr.InvalidName, "task name cannot be empty")
	}
	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		return clierr.Newf(clierr.InvalidName,
			"task name is %d characters, maximum is %d", n, MaxNameLength).
			WithDetails(map[string]any{
				"length": n,
				"max":    MaxNameLength,
			})
	}
	return nil
}

// ValidateDeadline parses a YYYY-MM-DD deadline and rejects dates before
// today. Today itself is accepted.
func ValidateDeadline(input string, today date.Date) (date.Date, error) {
	d, err := date.Parse(input)
	if err != nil {
		return date.Date{}, clierr.Newf(clierr.InvalidDate,
			"invalid deadline %q: expected YYYY-MM-DD", input).
			WithDetails(map[string]any{"input": input})
	}
	if d.Before(today.Time) {
		return date.Date{}, clierr.Newf(clierr.DateInPast,
			"deadline %s is in the past", d).
			WithDetails(map[string]any{
				"deadline": d.String(),
				"today":    today.String(),
			})
	}
	return d, nil
}

// ValidateStatus checks that a status is in the allowed list.
func ValidateStatus(status string, allowed []string) error {
	for _, s := range allowed {
		if s == status {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidStatus, "invalid status %q", status).
		WithDetails(map[string]any{
			"status":  status,
			"allowed": allowed,
		})
}

// ValidatePriority checks that a priority is in the allowed list.
func ValidatePriority(priority string, allowed []string) error {
	for _, p := range allowed {
		if p == priority {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidPriority, "invalid priority %q", priority).
		WithDetails(map[string]any{
			"priority": priority,
			"allowed":  allowed,
		})
}

// ValidateCategoryRef resolves a category name against the known categories.
// Empty input resolves to the UnknownCategory sentinel.
func ValidateCategoryRef(name string, categories []Category) (Ref, error) {
	if name == "" || name == UnknownCategory {
		return Ref{Name: UnknownCategory}, nil
	}
	for _, c := range categories {
		if c.Name == name {
			return Ref{ID: c.ID, Name: c.Name}, nil
		}
	}
	return Ref{}, clierr.Newf(clierr.UnknownCategory, "unknown category %q", name).
		WithDetails(map[string]any{
			"category": name,
			"known":    categoryNames(categories),
		})
}

// ValidateProjectRef resolves a project name against the known projects.
// Empty input resolves to the NoProject sentinel.
func ValidateProjectRef(name string, projects []Project) (Ref, error) {
	if name == "" || name == NoProject {
		return Ref{Name: NoProject}, nil
	}
	for _, p := range projects {
		if p.Name == name {
			return Ref{ID: p.ID, Name: p.Name}, nil
		}
	}
	return Ref{}, clierr.Newf(clierr.UnknownProject, "unknown project %q", name).
		WithDetails(map[string]any{
			"project": name,
			"known":   projectNames(projects),
		})
}

// ValidateTaskID returns a CLIError for ids that are not positive digit strings.
func ValidateTaskID(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q", input).
		WithDetails(map[string]any{"input": input})
}

// ClampNotes truncates notes to MaxNotesLength runes. The second return
// reports whether anything was cut, so callers can warn the user.
func ClampNotes(notes string) (string, bool) {
	runes := []rune(notes)
	if len(runes) <= MaxNotesLength {
		return notes, false
	}
	return string(runes[:MaxNotesLength]), true
}

func categoryNames(categories []Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}

func projectNames(projects []Project) []string {
	names := make([]string, 0, len(projects))
	for _, p := range projects {
		names = append(names, p.Name)
	}
	return names
}
