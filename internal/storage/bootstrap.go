// ABOUTME: First-run bootstrap that guarantees the default trainer exists.
// ABOUTME: Idempotent across restarts and safe if another writer creates the row first.
package storage

import (
	"errors"
	"fmt"

	"github.com/harperreed/coach/internal/models"
)

// DefaultTrainerID is the well-known id of the seeded trainer.
const DefaultTrainerID = "default_trainer_001"

// DefaultTrainer returns the seed attributes of the default trainer.
func DefaultTrainer() *models.User {
	u := models.NewTrainer("Demo Trainer").
		WithEmail("demo@fitnesstrainer.app").
		WithSpecialties("Strength Training", "Weight Loss").
		WithExperience(5).
		WithPhilosophy("Consistent progress over perfection")
	u.ID = DefaultTrainerID
	return u
}

// ErrSeedEmailTaken is returned when another user already holds the default
// trainer's email, so the seed row can never be inserted.
var ErrSeedEmailTaken = errors.New("seed email already in use by another user")

// EnsureDefaultTrainer creates the default trainer unless it already exists
// and returns its id. Lookup failures are returned, not treated as absence.
func EnsureDefaultTrainer(s *Store) (string, error) {
	existing, err := s.Users.Get(DefaultTrainerID)
	if err != nil {
		return "", fmt.Errorf("look up default trainer: %w", err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	if _, err := s.Users.Create(DefaultTrainer()); err != nil {
		if !IsConstraint(err, ConstraintPrimaryKey) && !IsConstraint(err, ConstraintUnique) {
			return "", fmt.Errorf("create default trainer: %w", err)
		}
		// Lost a race with another writer; the row is there if it won.
		existing, getErr := s.Users.Get(DefaultTrainerID)
		if getErr != nil {
			return "", fmt.Errorf("look up default trainer: %w", getErr)
		}
		if existing == nil {
			if IsConstraint(err, ConstraintUnique) {
				return "", fmt.Errorf("create default trainer: %w: %s", ErrSeedEmailTaken, *DefaultTrainer().Email)
			}
			return "", fmt.Errorf("create default trainer: %w", err)
		}
		return existing.ID, nil
	}

	s.log.Info().Str("trainer_id", DefaultTrainerID).Msg("default trainer created")
	return DefaultTrainerID, nil
}
