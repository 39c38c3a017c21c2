// Package scheduling manages appointment booking and the per-doctor visit
// calendar. A doctor/date/time slot holds at most one active appointment;
// canceled appointments release their slot for rebooking.
package scheduling

import (
	"fmt"
	"strings"
	"time"
)

// Appointment status tags as persisted. The UI renders Persian labels for
// them; the stored values stay English. An appointment enters the system
// pending and moves to exactly one terminal state.
const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
	StatusCanceled  = "Canceled"
	StatusNoShow    = "NoShow"
)

// ValidStatuses is the closed set accepted by status updates.
var ValidStatuses = map[string]bool{
	StatusPending:   true,
	StatusCompleted: true,
	StatusCanceled:  true,
	StatusNoShow:    true,
}

type Appointment struct {
	ID           int64     `json:"id" db:"appointment_id"`
	TrackingCode string    `json:"tracking_code" db:"tracking_code"`
	PatientID    int64     `json:"patient_id" db:"patient_id"`
	DoctorID     int64     `json:"doctor_id" db:"doctor_id"`
	ReservedDate string    `json:"reserved_date" db:"reserved_date"`
	ReservedTime string    `json:"reserved_time" db:"reserved_time"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Active reports whether the appointment still occupies its slot.
func (a *Appointment) Active() bool {
	return a.Status != StatusCanceled
}

// TimeSlots returns the bookable half-hour grid of a working day, from 9:00
// through 17:30, in the canonical H:MM form used everywhere in the system.
func TimeSlots() []string {
	slots := make([]string, 0, 18)
	for h := 9; h <= 17; h++ {
		slots = append(slots, fmt.Sprintf("%d:00", h), fmt.Sprintf("%d:30", h))
	}
	return slots
}

// CanonicalTime normalizes a slot string to the H:MM form, so "09:00" and
// "9:00" address the same slot. Inputs it cannot parse pass through unchanged
// and fail slot validation downstream.
func CanonicalTime(t string) string {
	parts := strings.SplitN(strings.TrimSpace(t), ":", 2)
	if len(parts) != 2 {
		return t
	}
	return strings.TrimLeft(parts[0], "0") + ":" + parts[1]
}

// IsBookableSlot reports whether t (after canonicalization) is on the grid.
func IsBookableSlot(t string) bool {
	c := CanonicalTime(t)
	for _, s := range TimeSlots() {
		if s == c {
			return true
		}
	}
	return false
}
