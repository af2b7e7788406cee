package model

import "time"

// College is a catalog entry managed by admins. Applications reference a
// college by name inside their personal-details snapshot, not by id, so
// edits and deletions here never touch submitted applications.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – institution name shown to students.
//  Address   – street address of the campus.
//  District  – administrative district used for filtering.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type College struct {
	ID        uint64    // colleges.id
	Name      string    // colleges.name
	Address   string    // colleges.address
	District  string    // colleges.district
	CreatedAt time.Time // colleges.created_at
	UpdatedAt time.Time // colleges.updated_at
}
