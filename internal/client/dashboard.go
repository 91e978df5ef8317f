package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"sync"
	"time"

	"carwash-backend/internal/rules"
	"carwash-backend/internal/store"
)

// Errors surfaced by the completion flow before any network call is made.
var (
	// ErrConfirmationRequired means the selected date is an upcoming washing
	// day; the caller must ask the user and retry with confirmed set. Nothing
	// has been sent or mutated.
	ErrConfirmationRequired = errors.New("completing this wash early requires confirmation")

	// ErrActionInFlight means the same assignment/date action is already
	// running (double-click protection).
	ErrActionInFlight = errors.New("action already in progress")
)

// Dashboard is a washer's live view of their assignment list. Mutations go
// through two phases: the optimistic local patch applied as soon as the
// completion call succeeds, then a delayed authoritative refetch whose result
// fully replaces the list.
type Dashboard struct {
	client       *Client
	washerID     int64
	refetchDelay time.Duration

	mu          sync.Mutex
	date        string
	apartment   string
	carType     string
	assignments []*store.Assignment
	inflight    map[string]bool
}

// NewDashboard creates a dashboard view for one washer. refetchDelay is the
// gap between the optimistic patch and the authoritative refetch.
func NewDashboard(c *Client, washerID int64, refetchDelay time.Duration) *Dashboard {
	if refetchDelay <= 0 {
		refetchDelay = 200 * time.Millisecond
	}
	return &Dashboard{
		client:       c,
		washerID:     washerID,
		refetchDelay: refetchDelay,
		date:         rules.DateToday,
		inflight:     make(map[string]bool),
	}
}

// SetFilters updates the query filters. The backend applies them; the view
// renders whatever comes back without further filtering.
func (d *Dashboard) SetFilters(date, apartment, carType string) {
	d.mu.Lock()
	if date == "" {
		date = rules.DateToday
	}
	d.date = date
	d.apartment = apartment
	d.carType = carType
	d.mu.Unlock()
}

// Refresh fetches the authoritative assignment list and replaces the local
// one wholesale (last write wins over any optimistic patch).
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	query := url.Values{"date": {d.date}}
	if d.apartment != "" {
		query.Set("apartment", d.apartment)
	}
	if d.carType != "" {
		query.Set("carType", d.carType)
	}
	d.mu.Unlock()

	var assignments []*store.Assignment
	path := "/washer/dashboard/" + strconv.FormatInt(d.washerID, 10)
	if err := d.client.do(ctx, "GET", path, query, nil, &assignments, true); err != nil {
		return err
	}

	d.mu.Lock()
	d.assignments = assignments
	d.mu.Unlock()
	return nil
}

// Assignments returns the current view. The returned slice is a snapshot;
// entries are shared with the view and must be treated as read-only.
func (d *Dashboard) Assignments() []*store.Assignment {
	d.mu.Lock()
	defer d.mu.Unlock()
	snapshot := make([]*store.Assignment, len(d.assignments))
	copy(snapshot, d.assignments)
	return snapshot
}

// MarkComplete records a wash for one assignment. The early-completion guard
// runs locally first: a guarded date returns ErrConfirmationRequired without
// any network call, and the caller re-invokes with confirmed=true after the
// user agrees. On success the optimistic patch lands immediately and the
// authoritative refetch is scheduled. On any error local state is unchanged.
func (d *Dashboard) MarkComplete(ctx context.Context, assignmentID int64, selectedDate string, confirmed bool, notes string) error {
	d.mu.Lock()
	var target *store.Assignment
	for _, a := range d.assignments {
		if a.ID == assignmentID {
			target = a
			break
		}
	}
	if target == nil {
		d.mu.Unlock()
		return fmt.Errorf("assignment %d not in view", assignmentID)
	}

	if !confirmed && rules.ShouldConfirmEarlyCompletion(selectedDate, AssignmentScheduleSource(target)) {
		d.mu.Unlock()
		return ErrConfirmationRequired
	}

	// In-flight guard keyed per assignment/date so concurrent completions on
	// different assignments are not serialized against each other.
	key := strconv.FormatInt(assignmentID, 10) + "|" + selectedDate
	if d.inflight[key] {
		d.mu.Unlock()
		return ErrActionInFlight
	}
	d.inflight[key] = true
	customerID := target.CustomerID
	vehicleID := target.ID
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		delete(d.inflight, key)
		d.mu.Unlock()
	}()

	body := store.CompleteWashRequest{
		VehicleID:    vehicleID,
		WasherID:     d.washerID,
		WashDate:     selectedDate,
		Notes:        notes,
		ConfirmEarly: confirmed,
	}
	var result store.CompletionResult
	path := "/customer/" + strconv.FormatInt(customerID, 10) + "/complete-pending"
	if err := d.client.do(ctx, "POST", path, nil, body, &result, true); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.ConfirmationRequired {
			return ErrConfirmationRequired
		}
		return err
	}

	d.mu.Lock()
	d.assignments = ApplyCompletion(d.assignments, &result, time.Now())
	d.mu.Unlock()

	// Phase 2: the authoritative refetch. Deliberately detached from the
	// caller's context; its result replaces the optimistic state.
	time.AfterFunc(d.refetchDelay, func() {
		if err := d.Refresh(context.Background()); err != nil {
			log.Printf("dashboard refetch after completion failed: %v", err)
		}
	})
	return nil
}
