package store

import "errors"

// Errors surfaced to handlers, which map them to HTTP statuses.
var (
	ErrEarlyWashConfirmation = errors.New("completing a scheduled wash early requires confirmation")
	ErrInvalidWashingDays    = errors.New("washing days must be between 1 (Mon) and 7 (Sun)")
	ErrNoVehicle             = errors.New("customer has no vehicle on record")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrNotCancellable        = errors.New("only completed wash logs can be cancelled")
)

// WashingSchedule is the structured schedule attached to an assignment when
// the vehicle carries an explicit weekday set.
type WashingSchedule struct {
	ScheduleType string `json:"scheduleType"`
	WashingDays  []int  `json:"washingDays"`
}

// LastWash is the metadata of the most recent completed wash.
type LastWash struct {
	Date       string `json:"date"`
	WasherID   int64  `json:"washerId"`
	WasherName string `json:"washerName"`
	WashType   string `json:"washType"`
}

// Assignment is a washer's denormalized view of one vehicle for a dashboard
// query. The server owns all filtering; clients render the list verbatim.
type Assignment struct {
	ID              int64            `json:"id"`
	CustomerID      int64            `json:"customerId"`
	VehicleNo       string           `json:"vehicleNo"`
	CarModel        string           `json:"carModel"`
	CarType         string           `json:"carType"`
	CustomerName    string           `json:"customerName"`
	Apartment       string           `json:"apartment"`
	DoorNo          string           `json:"doorNo"`
	PackageName     string           `json:"packageName"`
	WashingSchedule *WashingSchedule `json:"washingSchedule,omitempty"`
	WashingDayNames []string         `json:"washingDayNames,omitempty"`
	PendingWashes   int              `json:"pendingWashes"`
	CompletedWashes int              `json:"completedWashes"`
	WashedToday     bool             `json:"washedToday"`
	DisabledUntil   *string          `json:"disabledUntil,omitempty"`
	LastWashDate    *string          `json:"lastWashDate,omitempty"`
	LastWash        *LastWash        `json:"lastWash,omitempty"`
}

// CompleteWashRequest asks for one wash occurrence to be recorded. Either
// VehicleID or CustomerID (legacy single-vehicle flow) identifies the target.
type CompleteWashRequest struct {
	VehicleID    int64  `json:"vehicleId"`
	CustomerID   int64  `json:"customerId"`
	WasherID     int64  `json:"washerId"`
	WashDate     string `json:"washDate"` // "YYYY-MM-DD", "" or "today" for the current IST date
	Notes        string `json:"notes"`
	ConfirmEarly bool   `json:"confirmEarly"`
}

// CompletionResult is the authoritative outcome of a completed wash, and the
// exact shape the dashboard client patches its local state from.
type CompletionResult struct {
	AssignmentID  int64   `json:"assignmentId"`
	WashLogID     int64   `json:"washLogId"`
	WasherID      int64   `json:"washerId"`
	WasherName    string  `json:"washerName"`
	WashType      string  `json:"washType"`
	WashDate      string  `json:"washDate"`
	WashedToday   bool    `json:"washedToday"`
	DisabledUntil *string `json:"disabledUntil"`
}

// PendingWash summarizes the remaining monthly quota for one vehicle. Quotas
// come from the package rule table; done counts from the wash log.
type PendingWash struct {
	VehicleID       int64  `json:"vehicleId"`
	VehicleNo       string `json:"vehicleNo"`
	PackageName     string `json:"packageName"`
	ExteriorQuota   int    `json:"exteriorQuota"`
	ExteriorDone    int    `json:"exteriorDone"`
	ExteriorPending int    `json:"exteriorPending"`
	InteriorQuota   int    `json:"interiorQuota"`
	InteriorDone    int    `json:"interiorDone"`
	InteriorPending int    `json:"interiorPending"`
}
