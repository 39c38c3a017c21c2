package records

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockRecordRepo struct {
	records   map[int64]*MedicalRecord
	nextID    int64
	createErr error
}

func newMockRecordRepo() *mockRecordRepo {
	return &mockRecordRepo{records: make(map[int64]*MedicalRecord), nextID: 1}
}

func (m *mockRecordRepo) Create(_ context.Context, r *MedicalRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	r.ID = m.nextID
	m.nextID++
	r.CreatedAt = time.Now()
	m.records[r.ID] = r
	return nil
}

func (m *mockRecordRepo) GetByID(_ context.Context, id int64) (*RecordView, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &RecordView{MedicalRecord: *r}, nil
}

func (m *mockRecordRepo) ListByPatient(_ context.Context, patientID int64) ([]*RecordView, error) {
	var out []*RecordView
	for _, r := range m.records {
		if r.PatientID == patientID {
			out = append(out, &RecordView{MedicalRecord: *r})
		}
	}
	return out, nil
}

func (m *mockRecordRepo) ListByDoctor(_ context.Context, doctorID int64, limit, offset int) ([]*RecordView, int, error) {
	var out []*RecordView
	for _, r := range m.records {
		if r.DoctorID == doctorID {
			out = append(out, &RecordView{MedicalRecord: *r})
		}
	}
	return out, len(out), nil
}

func (m *mockRecordRepo) List(_ context.Context, limit, offset int) ([]*RecordView, int, error) {
	var out []*RecordView
	for _, r := range m.records {
		out = append(out, &RecordView{MedicalRecord: *r})
	}
	return out, len(out), nil
}

func (m *mockRecordRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

type mockCompleter struct {
	completed []int64
	err       error
}

func (m *mockCompleter) CompleteAppointment(_ context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	m.completed = append(m.completed, id)
	return nil
}

func validRecord() *MedicalRecord {
	return &MedicalRecord{
		PatientID:      1,
		DoctorID:       1,
		VisitDate:      "1403-06-10",
		Specialty:      "قلب و عروق",
		ChiefComplaint: "تپش قلب",
		Description:    "معاینه انجام شد",
	}
}

func TestCreateRecord(t *testing.T) {
	svc := NewService(newMockRecordRepo(), &mockCompleter{}, nil)
	r := validRecord()
	if err := svc.Create(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ID == 0 {
		t.Error("expected store-assigned record id")
	}
}

func TestCreateRecord_RequiresPatientAndDoctor(t *testing.T) {
	svc := NewService(newMockRecordRepo(), &mockCompleter{}, nil)
	r := validRecord()
	r.PatientID = 0
	if err := svc.Create(context.Background(), r); err == nil {
		t.Error("expected error for missing patient")
	}
	r = validRecord()
	r.DoctorID = 0
	if err := svc.Create(context.Background(), r); err == nil {
		t.Error("expected error for missing doctor")
	}
}

func TestCompleteVisit_FilesRecordAndCompletesAppointment(t *testing.T) {
	repo := newMockRecordRepo()
	completer := &mockCompleter{}
	svc := NewService(repo, completer, nil)

	r := validRecord()
	if err := svc.CompleteVisit(context.Background(), r, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.records) != 1 {
		t.Errorf("expected 1 stored record, got %d", len(repo.records))
	}
	if len(completer.completed) != 1 || completer.completed[0] != 7 {
		t.Errorf("expected appointment 7 completed, got %v", completer.completed)
	}
}

func TestCompleteVisit_RequiresAppointmentID(t *testing.T) {
	svc := NewService(newMockRecordRepo(), &mockCompleter{}, nil)
	if err := svc.CompleteVisit(context.Background(), validRecord(), 0); err == nil {
		t.Error("expected error for missing appointment id")
	}
}

func TestCompleteVisit_StopsOnRecordFailure(t *testing.T) {
	repo := newMockRecordRepo()
	repo.createErr = errors.New("store down")
	completer := &mockCompleter{}
	svc := NewService(repo, completer, nil)

	if err := svc.CompleteVisit(context.Background(), validRecord(), 7); err == nil {
		t.Fatal("expected error from failing store")
	}
	if len(completer.completed) != 0 {
		t.Error("appointment must not complete when the record was not filed")
	}
}
