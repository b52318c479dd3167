package ui

import (
	"fmt"

	"github.com/vibecatch/vibecatch/internal/models"
)

// categoryItem wraps a mood category to implement list.Item.
type categoryItem struct {
	category string
	count    int
}

func (i categoryItem) FilterValue() string { return i.category }
func (i categoryItem) Title() string       { return i.category }
func (i categoryItem) Description() string {
	return fmt.Sprintf("%d tracks", i.count)
}

// trackItem wraps [models.Track] to implement list.Item.
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Title }
func (i trackItem) Title() string       { return i.track.Title }
func (i trackItem) Description() string { return i.track.Artist }
