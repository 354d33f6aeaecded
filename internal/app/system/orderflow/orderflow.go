// Package orderflow defines the order status vocabulary and the transitions
// an admin may apply to an order.
//
// Stored statuses are pending, shipped, delivered and cancelled. Older admin
// screens used "dispatch" and "success" for shipped and delivered; both are
// still accepted on input and normalized before anything is stored.
//
// Allowed transitions:
//
//	pending  → shipped | cancelled
//	shipped  → delivered | cancelled
//	delivered, cancelled → (terminal)
//
// Setting an order to the status it already has is a no-op, not an error.
package orderflow

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dalemusser/hekto/internal/domain/models"
)

// FilterAll is the pseudo-status that selects every order in list views.
const FilterAll = "all"

var (
	// ErrUnknownStatus is returned for values outside the vocabulary.
	ErrUnknownStatus = errors.New("unknown order status")
	// ErrInvalidTransition is returned when the move is not allowed.
	ErrInvalidTransition = errors.New("order status transition not allowed")
)

var aliases = map[string]string{
	"dispatch":   models.OrderShipped,
	"dispatched": models.OrderShipped,
	"success":    models.OrderDelivered,
	"canceled":   models.OrderCancelled,
}

var transitions = map[string][]string{
	models.OrderPending:   {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:   {models.OrderDelivered, models.OrderCancelled},
	models.OrderDelivered: nil,
	models.OrderCancelled: nil,
}

// Normalize maps raw input (any case, legacy aliases) to a stored status.
func Normalize(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if a, ok := aliases[s]; ok {
		s = a
	}
	if _, ok := transitions[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}

// NormalizeFilter is like Normalize but also accepts "all" and "" which
// both mean no filtering.
func NormalizeFilter(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || s == FilterAll {
		return FilterAll, nil
	}
	return Normalize(s)
}

// Current returns the effective status of a stored value. Orders created
// before statuses were tracked have an empty status and count as pending.
func Current(stored string) string {
	if stored == "" {
		return models.OrderPending
	}
	if s, err := Normalize(stored); err == nil {
		return s
	}
	return stored
}

// Next lists the statuses reachable from the given status.
func Next(from string) []string {
	return append([]string(nil), transitions[Current(from)]...)
}

// IsTerminal reports whether no further transitions are possible.
func IsTerminal(status string) bool {
	return len(transitions[Current(status)]) == 0
}

// CanTransition reports whether from → to is allowed. Identity moves are
// allowed.
func CanTransition(from, to string) bool {
	from = Current(from)
	if from == to {
		return true
	}
	for _, n := range transitions[from] {
		if n == to {
			return true
		}
	}
	return false
}

// Transition validates a requested move and returns the normalized target
// status. changed is false when the order already has the target status.
func Transition(from, rawTo string) (to string, changed bool, err error) {
	to, err = Normalize(rawTo)
	if err != nil {
		return "", false, err
	}
	cur := Current(from)
	if cur == to {
		return to, false, nil
	}
	if !CanTransition(cur, to) {
		return "", false, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, cur, to)
	}
	return to, true, nil
}

// StoredVariants lists every raw value that may be stored for a status:
// the status itself plus legacy aliases. Pending also matches the empty
// string, since untracked orders count as pending.
func StoredVariants(status string) []string {
	out := []string{status}
	for alias, s := range aliases {
		if s == status {
			out = append(out, alias)
		}
	}
	if status == models.OrderPending {
		out = append(out, "")
	}
	sort.Strings(out[1:])
	return out
}
