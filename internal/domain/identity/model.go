package identity

import "time"

// Gender tags accepted on patient records, persisted in English; the UI
// shows Persian labels.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// Patient maps to the patients table. NationalCode is the business key;
// the numeric ID is a store-assigned surrogate.
type Patient struct {
	ID           int64     `db:"patient_id" json:"patient_id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	NationalCode string    `db:"national_code" json:"national_code"`
	BirthDate    string    `db:"birth_date" json:"birth_date"`
	PhoneNumber  string    `db:"phone_number" json:"phone_number"`
	Gender       string    `db:"gender" json:"gender"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Doctor maps to the doctors table. WorkDays holds Persian weekday names
// on which the doctor accepts visits.
type Doctor struct {
	ID                  int64     `db:"doctor_id" json:"doctor_id"`
	FirstName           string    `db:"first_name" json:"first_name"`
	LastName            string    `db:"last_name" json:"last_name"`
	NationalCode        string    `db:"national_code" json:"national_code"`
	Specialty           string    `db:"specialty" json:"specialty"`
	MedicalSystemNumber string    `db:"medical_system_number" json:"medical_system_number"`
	WorkDays            []string  `db:"work_days" json:"work_days"`
	PasswordHash        string    `db:"password_hash" json:"-"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}

// WorksOn reports whether the doctor accepts visits on the given Persian
// weekday name.
func (d *Doctor) WorksOn(weekday string) bool {
	for _, day := range d.WorkDays {
		if day == weekday {
			return true
		}
	}
	return false
}
