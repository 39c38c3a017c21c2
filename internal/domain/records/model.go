// Package records keeps the visit documentation a doctor writes after seeing
// a patient: chief complaint, findings and the prescribed medicine.
package records

import "time"

type MedicalRecord struct {
	ID                    int64     `json:"id" db:"record_id"`
	PatientID             int64     `json:"patient_id" db:"patient_id"`
	DoctorID              int64     `json:"doctor_id" db:"doctor_id"`
	PersonnelNationalCode string    `json:"personnel_national_code,omitempty" db:"personnel_national_code"`
	MedicineID            *int64    `json:"medicine_id,omitempty" db:"medicine_id"`
	VisitDate             string    `json:"visit_date" db:"visit_date"`
	Specialty             string    `json:"specialty" db:"specialty"`
	ChiefComplaint        string    `json:"chief_complaint" db:"chief_complaint"`
	Description           string    `json:"description" db:"description"`
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
}

// RecordView is the joined read model the record screens render, carrying
// display names next to the foreign keys.
type RecordView struct {
	MedicalRecord
	PatientName  string `json:"patient_name"`
	DoctorName   string `json:"doctor_name"`
	MedicineName string `json:"medicine_name,omitempty"`
}
