// Package queue defines message payloads exchanged over the message broker.
package queue

// ApplicationSubmittedEvent is published when a student completes the wizard
// and their application enters review. It carries enough detail for
// downstream consumers to log or notify without querying the database.
type ApplicationSubmittedEvent struct {
	ApplicationID uint64  `json:"application_id"`
	UserID        uint64  `json:"user_id"`
	StudentName   string  `json:"student_name"`
	CollegeName   string  `json:"college_name"`
	RouteID       uint64  `json:"route_id"`
	RouteSource   string  `json:"route_source"`
	RouteDest     string  `json:"route_destination"`
	Fare          float64 `json:"fare"`
	TransactionID string  `json:"transaction_id"`
	SubmittedAt   string  `json:"submitted_at"`
}

// ApplicationDecidedEvent is published when an admin approves or rejects an
// application.
type ApplicationDecidedEvent struct {
	ApplicationID uint64 `json:"application_id"`
	UserID        uint64 `json:"user_id"`
	StudentName   string `json:"student_name"`
	Status        string `json:"status"`
	DecidedBy     uint64 `json:"decided_by"`
	DecidedAt     string `json:"decided_at"`
}
