package domain

import "time"

// User represents a registered chat account
type User struct {
	ID        int64
	ChatID    int64 // Внешний ID аккаунта в чате
	Name      string
	Phone     string
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApproverSet is the set of chat accounts allowed to confirm and cancel any
// reservation and to change settings.
type ApproverSet map[int64]struct{}

// NewApproverSet builds the set from a list of chat ids
func NewApproverSet(ids ...int64) ApproverSet {
	set := make(ApproverSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains returns true if chatID is an approver
func (a ApproverSet) Contains(chatID int64) bool {
	_, ok := a[chatID]
	return ok
}

// IDs returns the approver chat ids in no particular order
func (a ApproverSet) IDs() []int64 {
	ids := make([]int64, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	return ids
}
