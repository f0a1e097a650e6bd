package repository

import (
	"sync"

	"mergington/activities/internal/model"
)

// ActivityStore keys activities by display name. Participant emails are kept
// in signup order and compared exactly as given; only the auth layer folds
// email case.
type ActivityStore struct {
	mu         sync.RWMutex
	activities map[string]*model.Activity
}

// Add registers an activity under name, replacing any existing entry.
func (s *ActivityStore) Add(name string, activity model.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	activity.Participants = append([]string(nil), activity.Participants...)
	s.activities[name] = &activity
}

// List returns a snapshot of the directory. Participant slices are copied so
// callers never alias live store state.
func (s *ActivityStore) List() map[string]model.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]model.Activity, len(s.activities))
	for name, activity := range s.activities {
		copied := *activity
		copied.Participants = append([]string(nil), activity.Participants...)
		out[name] = copied
	}
	return out
}

// Signup appends email to the activity's participant list. An email appears
// at most once per activity. MaxParticipants is advisory and not enforced.
func (s *ActivityStore) Signup(name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	activity, ok := s.activities[name]
	if !ok {
		return ErrActivityNotFound
	}
	for _, participant := range activity.Participants {
		if participant == email {
			return ErrAlreadySignedUp
		}
	}
	activity.Participants = append(activity.Participants, email)
	return nil
}

func (s *ActivityStore) Unregister(name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	activity, ok := s.activities[name]
	if !ok {
		return ErrActivityNotFound
	}
	for i, participant := range activity.Participants {
		if participant == email {
			activity.Participants = append(activity.Participants[:i], activity.Participants[i+1:]...)
			return nil
		}
	}
	return ErrNotSignedUp
}
