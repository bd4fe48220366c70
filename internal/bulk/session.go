package bulk

import (
	"fmt"

	"github.com/seaholm/wpec/internal/catalog"
	"github.com/seaholm/wpec/internal/shared"
)

// Session is the wizard aggregate: the chosen action, the current step,
// the selected users, the per-item pending assignment cells, and the
// outcome of the last executed batch. Not safe for concurrent mutation;
// one goroutine owns a session at a time.
type Session struct {
	Action    Action
	Step      Step
	Selection []SelectionItem
	Pending   map[string]PendingAssignment // keyed by SelectionItem.ID
	Results   []OperationResult
	Progress  float64 // percent, 0..100
}

// NewSession creates an empty session on the select step of the add path.
func NewSession() *Session {
	return &Session{
		Action:  ActionAdd,
		Step:    StepSelect,
		Pending: make(map[string]PendingAssignment),
	}
}

// SetAction switches between add and remove. Changing the action clears
// the selection and pending cells; the two paths select from different
// pools, so carryover would be meaningless. No-op outside StepSelect.
func (s *Session) SetAction(a Action) {
	if s.Step != StepSelect || s.Action == a {
		return
	}
	s.Action = a
	s.Selection = nil
	s.Pending = make(map[string]PendingAssignment)
}

// Selected reports whether an email is already in the selection,
// case-insensitively.
func (s *Session) Selected(email string) bool {
	return s.find(email) >= 0
}

// Len returns the number of selected users.
func (s *Session) Len() int { return len(s.Selection) }

// Item returns the selection item with the given ID.
func (s *Session) Item(itemID string) (SelectionItem, bool) {
	for _, item := range s.Selection {
		if item.ID == itemID {
			return item, true
		}
	}
	return SelectionItem{}, false
}

func (s *Session) find(email string) int {
	for i, item := range s.Selection {
		if shared.EqualEmail(item.Ref.Email(), email) {
			return i
		}
	}
	return -1
}

// ToggleExisting adds the catalog user to the selection, or removes it
// if already selected. Applying it twice restores the prior selection.
func (s *Session) ToggleExisting(u catalog.User) {
	if i := s.find(u.Email); i >= 0 {
		s.removeAt(i)
		return
	}
	s.Selection = append(s.Selection, SelectionItem{
		ID:  shared.GenerateID(),
		Ref: RefExisting(u),
	})
}

// AddNew appends a not-yet-provisioned user to the selection. All three
// fields are required and the email must not collide with any selected
// user, case-insensitively. On failure the selection is untouched.
func (s *Session) AddNew(first, last, email string) error {
	if first == "" || last == "" || email == "" {
		return fmt.Errorf("%w: first name, last name, and email are required", shared.ErrInvalidInput)
	}
	if s.find(email) >= 0 {
		return fmt.Errorf("%w: %s is already selected", shared.ErrDuplicateEmail, email)
	}
	s.Selection = append(s.Selection, SelectionItem{
		ID:  shared.GenerateID(),
		Ref: RefNew(first, last, email),
	})
	return nil
}

// Remove drops a selection item and its pending cell. Unknown IDs are a
// no-op.
func (s *Session) Remove(itemID string) {
	for i, item := range s.Selection {
		if item.ID == itemID {
			s.removeAt(i)
			return
		}
	}
}

func (s *Session) removeAt(i int) {
	delete(s.Pending, s.Selection[i].ID)
	s.Selection = append(s.Selection[:i], s.Selection[i+1:]...)
}

// SetPendingAccount stages the account half of an item's next assignment.
func (s *Session) SetPendingAccount(itemID, accountID, accountName string) {
	cell := s.Pending[itemID]
	cell.AccountID = accountID
	cell.AccountName = accountName
	s.Pending[itemID] = cell
}

// SetPendingRole stages the role half of an item's next assignment.
func (s *Session) SetPendingRole(itemID, role string) {
	cell := s.Pending[itemID]
	cell.Role = role
	s.Pending[itemID] = cell
}

// CommitPending turns an item's staged cell into an assignment. It
// returns false without touching the assignments when the cell is
// incomplete or the item already has an assignment for that account.
// The cell is cleared whenever it was complete, including the duplicate
// no-op, so the form resets either way.
func (s *Session) CommitPending(itemID string) bool {
	cell, ok := s.Pending[itemID]
	if !ok || !cell.ready() {
		return false
	}

	delete(s.Pending, itemID)

	for i, item := range s.Selection {
		if item.ID != itemID {
			continue
		}
		for _, a := range item.Assignments {
			if a.AccountID == cell.AccountID {
				return false
			}
		}
		s.Selection[i].Assignments = append(item.Assignments, AccountAssignment{
			AccountID:   cell.AccountID,
			AccountName: cell.AccountName,
			Role:        cell.Role,
		})
		return true
	}
	return false
}

// RemoveAssignment drops one account assignment from an item. Absent
// pairs are a no-op.
func (s *Session) RemoveAssignment(itemID, accountID string) {
	for i, item := range s.Selection {
		if item.ID != itemID {
			continue
		}
		for j, a := range item.Assignments {
			if a.AccountID == accountID {
				s.Selection[i].Assignments = append(item.Assignments[:j], item.Assignments[j+1:]...)
				return
			}
		}
		return
	}
}

// AllAssigned reports whether every selected user has at least one
// assignment. Gates the review step on the add path.
func (s *Session) AllAssigned() bool {
	for _, item := range s.Selection {
		if len(item.Assignments) == 0 {
			return false
		}
	}
	return true
}

// Next advances the wizard one step, enforcing the step guards. The
// review step does not advance through Next; the executor moves the
// session to results when the batch finishes.
func (s *Session) Next() error {
	switch s.Step {
	case StepSelect:
		if s.Len() == 0 {
			return fmt.Errorf("%w: select at least one user", shared.ErrEmptySelection)
		}
		if s.Action == ActionRemove {
			s.Step = StepReview
		} else {
			s.Step = StepAssign
		}
		return nil
	case StepAssign:
		if !s.AllAssigned() {
			return fmt.Errorf("%w: every user needs at least one account", shared.ErrUnassignedUsers)
		}
		s.Step = StepReview
		return nil
	default:
		return fmt.Errorf("%w: cannot advance from %s", shared.ErrInvalidStep, s.Step)
	}
}

// Back moves one step toward the start without clearing anything the
// operator entered. The remove path skips the assign step.
func (s *Session) Back() {
	switch s.Step {
	case StepAssign:
		s.Step = StepSelect
	case StepReview:
		if s.Action == ActionRemove {
			s.Step = StepSelect
		} else {
			s.Step = StepAssign
		}
	}
}

// Restart returns from the results step to a fresh selection for another
// batch. Catalogs are owned by the caller and stay loaded.
func (s *Session) Restart() {
	s.Selection = nil
	s.Pending = make(map[string]PendingAssignment)
	s.Results = nil
	s.Progress = 0
	s.Step = StepSelect
}
