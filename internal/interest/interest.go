// Package interest manages the user's persisted category selection and
// the one-time "choose your interests" prompt that gates it.
package interest

import (
	"context"
	"errors"
	"fmt"

	"github.com/ywebstudio/newslist/pkg/models"
)

// ErrEmptySelection is returned when a selection is confirmed with no
// categories chosen.
var ErrEmptySelection = errors.New("at least one category must be selected")

// State of the interest prompt gate.
type State int

const (
	// StateUnknown means the persisted flag has not been read yet; the
	// prompt stays suppressed.
	StateUnknown State = iota
	// StateUnchosen means no selection was ever confirmed; the prompt
	// is shown automatically on feed mount.
	StateUnchosen
	// StateChosen means a selection was confirmed at least once; the
	// prompt is never auto-shown again.
	StateChosen
)

func (s State) String() string {
	switch s {
	case StateUnchosen:
		return "unchosen"
	case StateChosen:
		return "chosen"
	default:
		return "unknown"
	}
}

// Storage persists the interest profile. Implementations: the local
// key-value store and the remote user profile document.
type Storage interface {
	// Load reads the persisted profile, defaulting to (nil, false) when
	// nothing was ever saved.
	Load(ctx context.Context) (models.InterestProfile, error)

	// Save persists the selection and sets the chosen flag together.
	Save(ctx context.Context, selectedCategoryIDs []string) error
}

// Manager gates the interest prompt and owns the in-session selection.
type Manager struct {
	storage  Storage
	state    State
	selected []string
}

// NewManager creates a Manager in StateUnknown.
func NewManager(storage Storage) *Manager {
	return &Manager{storage: storage}
}

// State returns the current gate state.
func (m *Manager) State() State {
	return m.state
}

// Selected returns the current in-session selection.
func (m *Manager) Selected() []string {
	return m.selected
}

// ShouldPrompt reports whether the prompt must be shown automatically.
func (m *Manager) ShouldPrompt() bool {
	return m.state == StateUnchosen
}

// Load reads the persisted profile and resolves the gate state.
func (m *Manager) Load(ctx context.Context) error {
	profile, err := m.storage.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading interest profile: %w", err)
	}

	m.selected = profile.SelectedCategoryIDs
	if profile.HasChosen {
		m.state = StateChosen
	} else {
		m.state = StateUnchosen
	}
	return nil
}

// Confirm validates and persists a selection from the prompt. An empty
// selection is rejected and the state does not transition. When
// persistence fails the selection is still applied in memory so the
// current session filters immediately, but the state stays unchosen and
// the prompt may reappear on next launch.
func (m *Manager) Confirm(ctx context.Context, selectedCategoryIDs []string) error {
	if len(selectedCategoryIDs) == 0 {
		return ErrEmptySelection
	}

	m.selected = selectedCategoryIDs

	if err := m.storage.Save(ctx, selectedCategoryIDs); err != nil {
		return fmt.Errorf("saving interest profile: %w", err)
	}

	m.state = StateChosen
	return nil
}

// Update persists a changed selection from the manual picker. Unlike
// Confirm it accepts an empty set ("show all") and does not touch the
// prompt gate beyond marking it chosen.
func (m *Manager) Update(ctx context.Context, selectedCategoryIDs []string) error {
	m.selected = selectedCategoryIDs

	if err := m.storage.Save(ctx, selectedCategoryIDs); err != nil {
		return fmt.Errorf("saving interest profile: %w", err)
	}

	m.state = StateChosen
	return nil
}
