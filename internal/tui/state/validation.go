package state

import (
	"fmt"

	"github.com/julianstephens/habitsnap/internal/validation"
)

// RefreshDataWarning reruns the data health checks and sets the header
// warning shown above the habit list.
func (m *Model) RefreshDataWarning() {
	m.ValidationConflicts = nil
	m.ValidationWarning = "⚠ Validation unavailable"

	habitList, err := m.Service.ListHabits()
	if err != nil {
		return
	}
	photos, err := m.Service.ListPhotos()
	if err != nil {
		return
	}

	result := validation.Check(habitList, photos, m.Service.Today())
	m.ValidationConflicts = result.Conflicts
	m.ValidationWarning = ""
	if result.HasConflicts() {
		m.ValidationWarning = fmt.Sprintf("⚠ %d data warning(s), run 'habitsnap doctor'", len(result.Conflicts))
	}
}
