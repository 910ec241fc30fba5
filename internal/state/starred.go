package state

import (
	"slices"

	"github.com/mmcdole/boxoffice/internal/store"
	"github.com/samber/lo"
)

// StarredShowsKey is the persistent key holding the starred show ids
const StarredShowsKey = "shows"

// ActionType names a starred-set transition
type ActionType string

const (
	ActionAdd    ActionType = "ADD"
	ActionRemove ActionType = "REMOVE"
)

// ShowsAction is dispatched to the starred-set reducer
type ShowsAction struct {
	Type   ActionType
	ShowID int
}

// Add returns an ADD action for id
func Add(id int) ShowsAction { return ShowsAction{Type: ActionAdd, ShowID: id} }

// Remove returns a REMOVE action for id
func Remove(id int) ShowsAction { return ShowsAction{Type: ActionRemove, ShowID: id} }

// ReduceShows is the starred-set reduction. ADD appends an absent id, REMOVE
// drops a present one. Both are idempotent; unknown types are ignored.
func ReduceShows(ids []int, a ShowsAction) ([]int, bool) {
	switch a.Type {
	case ActionAdd:
		if lo.Contains(ids, a.ShowID) {
			return ids, false
		}
		next := make([]int, len(ids), len(ids)+1)
		copy(next, ids)
		return append(next, a.ShowID), true
	case ActionRemove:
		if !lo.Contains(ids, a.ShowID) {
			return ids, false
		}
		return lo.Without(ids, a.ShowID), true
	default:
		return ids, false
	}
}

// Starred is the user's starred-show set, persisted under StarredShowsKey.
//
// It models process-wide state: the store key is global, so an application
// must construct exactly one Starred per store and share it among all
// consumers. It is loaded on construction and written on every transition.
type Starred struct {
	*Reducer[[]int, ShowsAction]
}

// NewStarred loads the starred set from the persistent scope
func NewStarred(persistent store.KV, opts ...Option) *Starred {
	r := NewReducer(persistent, ReducerConfig[[]int, ShowsAction]{
		Key:     StarredShowsKey,
		Reduce:  ReduceShows,
		Initial: []int{},
		Load: func(ids []int) []int {
			if ids == nil {
				return []int{}
			}
			return lo.Uniq(ids)
		},
	}, opts...)
	return &Starred{Reducer: r}
}

// IDs returns a copy of the starred ids in insertion order
func (s *Starred) IDs() []int {
	return slices.Clone(s.State())
}

// IsStarred reports whether id is in the set
func (s *Starred) IsStarred(id int) bool {
	return lo.Contains(s.State(), id)
}

// Star adds id
func (s *Starred) Star(id int) error { return s.Dispatch(Add(id)) }

// Unstar removes id
func (s *Starred) Unstar(id int) error { return s.Dispatch(Remove(id)) }

// Toggle stars or unstars id and returns whether it is now starred
func (s *Starred) Toggle(id int) (bool, error) {
	if s.IsStarred(id) {
		return false, s.Unstar(id)
	}
	return true, s.Star(id)
}
