package pharmacy

import "time"

// Medicine maps to the medicines table: the drug itself plus how it is
// dispensed (dosage form, count per day, when to take it).
type Medicine struct {
	ID                 int64     `db:"medicine_id" json:"medicine_id"`
	MedicineName       string    `db:"medicine_name" json:"medicine_name"`
	DosageMedicineName string    `db:"dosage_medicine_name" json:"dosage_medicine_name"`
	DosageCount        int       `db:"dosage_count" json:"dosage_count"`
	ConsumptionTime    string    `db:"consumption_time" json:"consumption_time"`
	Description        string    `db:"description" json:"description"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}
