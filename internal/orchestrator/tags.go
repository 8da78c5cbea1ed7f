package orchestrator

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aristath/taskblaster/internal/board"
	"github.com/aristath/taskblaster/internal/persistence"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Tag is a label and its display color.
type Tag struct {
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color,omitempty" yaml:"color"`
}

// EnsureTags creates the tags that do not exist yet. Existing tags keep
// their color. An empty color picks one from the palette.
func (m *Mover) EnsureTags(ctx context.Context, tags []Tag) error {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
		if tag.Color != "" && !colorPattern.MatchString(tag.Color) {
			return fmt.Errorf("%w: tag %s: color %q is not #RRGGBB", board.ErrValidation, tag.Name, tag.Color)
		}
	}
	normalized, err := persistence.NormalizeTags(names)
	if err != nil {
		return err
	}
	if len(normalized) != len(tags) {
		return fmt.Errorf("%w: duplicate tag names", board.ErrValidation)
	}

	return m.exec(ctx, "ensure_tags", nil, func(tx persistence.Tx, u *unit) error {
		for i, tag := range tags {
			if err := tx.EnsureTag(ctx, normalized[i], strings.ToUpper(tag.Color)); err != nil {
				return err
			}
		}
		return nil
	})
}

// TagColor returns the color of an existing tag.
func (m *Mover) TagColor(ctx context.Context, name string) (string, error) {
	var color string
	err := m.store.View(ctx, func(tx persistence.Tx) error {
		var err error
		color, err = tx.TagColor(ctx, name)
		return err
	})
	return color, err
}
