package staff

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/matabyar/clinic/internal/platform/auth"
)

// -- Mocks --

type mockPersonnelRepo struct {
	people map[string]*Personnel
}

func newMockPersonnelRepo() *mockPersonnelRepo {
	return &mockPersonnelRepo{people: make(map[string]*Personnel)}
}

func (m *mockPersonnelRepo) Create(_ context.Context, p *Personnel) error {
	p.CreatedAt = time.Now()
	m.people[p.NationalCode] = p
	return nil
}

func (m *mockPersonnelRepo) GetByNationalCode(_ context.Context, code string) (*Personnel, error) {
	p, ok := m.people[code]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockPersonnelRepo) Update(_ context.Context, p *Personnel) error {
	if _, ok := m.people[p.NationalCode]; !ok {
		return ErrNotFound
	}
	m.people[p.NationalCode] = p
	return nil
}

func (m *mockPersonnelRepo) UpdateCredentials(_ context.Context, current, next, hash string) error {
	p, ok := m.people[current]
	if !ok {
		return ErrNotFound
	}
	delete(m.people, current)
	p.NationalCode = next
	p.PasswordHash = hash
	m.people[next] = p
	return nil
}

func (m *mockPersonnelRepo) Delete(_ context.Context, code string) error {
	delete(m.people, code)
	return nil
}

func (m *mockPersonnelRepo) List(_ context.Context, limit, offset int) ([]*Personnel, int, error) {
	var result []*Personnel
	for _, p := range m.people {
		result = append(result, p)
	}
	return result, len(result), nil
}

type mockDoctorDirectory struct {
	doctors map[string]*DoctorAccount
}

func newMockDoctorDirectory() *mockDoctorDirectory {
	return &mockDoctorDirectory{doctors: make(map[string]*DoctorAccount)}
}

func (m *mockDoctorDirectory) GetByNationalCode(_ context.Context, code string) (*DoctorAccount, error) {
	d, ok := m.doctors[code]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (m *mockDoctorDirectory) UpdateCredentials(_ context.Context, current, next, hash string) error {
	d, ok := m.doctors[current]
	if !ok {
		return ErrNotFound
	}
	delete(m.doctors, current)
	d.NationalCode = next
	d.PasswordHash = hash
	m.doctors[next] = d
	return nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(h)
}

func newTestService(t *testing.T) (*Service, *mockPersonnelRepo, *mockDoctorDirectory) {
	t.Helper()
	people := newMockPersonnelRepo()
	doctors := newMockDoctorDirectory()
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewService(people, doctors, issuer), people, doctors
}

// -- Authenticate --

func TestAuthenticate_Personnel(t *testing.T) {
	svc, people, _ := newTestService(t)
	people.people["0499370899"] = &Personnel{
		NationalCode: "0499370899",
		FirstName:    "سارا",
		LastName:     "محمدی",
		Role:         auth.RoleSecretary,
		PasswordHash: hashOf(t, "pass123"),
	}

	session, err := svc.Authenticate(context.Background(), "0499370899", auth.RoleSecretary, "pass123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Token == "" {
		t.Error("expected a signed token")
	}
	if session.Role != auth.RoleSecretary {
		t.Errorf("unexpected role: %s", session.Role)
	}
	if session.FullName != "سارا محمدی" {
		t.Errorf("unexpected full name: %s", session.FullName)
	}
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	svc, people, _ := newTestService(t)
	people.people["0499370899"] = &Personnel{
		NationalCode: "0499370899",
		Role:         auth.RoleSecretary,
		PasswordHash: hashOf(t, "pass123"),
	}

	if _, err := svc.Authenticate(context.Background(), "0499370899", auth.RoleSecretary, "wrong"); err != ErrBadCredentials {
		t.Errorf("expected ErrBadCredentials, got %v", err)
	}
}

func TestAuthenticate_WrongRole(t *testing.T) {
	svc, people, _ := newTestService(t)
	people.people["0499370899"] = &Personnel{
		NationalCode: "0499370899",
		Role:         auth.RoleNurse,
		PasswordHash: hashOf(t, "pass123"),
	}

	if _, err := svc.Authenticate(context.Background(), "0499370899", auth.RoleSecretary, "pass123"); err != ErrBadCredentials {
		t.Errorf("expected ErrBadCredentials for role mismatch, got %v", err)
	}
}

func TestAuthenticate_DoctorFallback(t *testing.T) {
	svc, _, doctors := newTestService(t)
	doctors.doctors["0499370899"] = &DoctorAccount{
		NationalCode: "0499370899",
		FirstName:    "مریم",
		LastName:     "احمدی",
		PasswordHash: hashOf(t, "docpass"),
	}

	session, err := svc.Authenticate(context.Background(), "0499370899", auth.RoleDoctor, "docpass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Role != auth.RoleDoctor {
		t.Errorf("expected doctor role, got %s", session.Role)
	}
}

func TestAuthenticate_DoctorMustUseDoctorRole(t *testing.T) {
	svc, _, doctors := newTestService(t)
	doctors.doctors["0499370899"] = &DoctorAccount{
		NationalCode: "0499370899",
		PasswordHash: hashOf(t, "docpass"),
	}

	if _, err := svc.Authenticate(context.Background(), "0499370899", auth.RoleAdmin, "docpass"); err != ErrBadCredentials {
		t.Errorf("expected ErrBadCredentials, got %v", err)
	}
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Authenticate(context.Background(), "0499370899", auth.RoleSecretary, "x"); err != ErrBadCredentials {
		t.Errorf("expected ErrBadCredentials, got %v", err)
	}
}

func TestAuthenticate_UnknownRoleTag(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Authenticate(context.Background(), "0499370899", "supervisor", "x"); err != ErrBadCredentials {
		t.Errorf("expected ErrBadCredentials for unknown role tag, got %v", err)
	}
}

// -- UpdateCredentials --

func TestUpdateCredentials_Personnel(t *testing.T) {
	svc, people, _ := newTestService(t)
	people.people["0499370899"] = &Personnel{
		NationalCode: "0499370899",
		Role:         auth.RoleSecretary,
		PasswordHash: hashOf(t, "old"),
	}

	if err := svc.UpdateCredentials(context.Background(), "0499370899", "1234567891", "newpass"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := people.people["1234567891"]; !ok {
		t.Error("expected personnel to be re-keyed to the new national code")
	}
}

func TestUpdateCredentials_DoctorFallback(t *testing.T) {
	svc, _, doctors := newTestService(t)
	doctors.doctors["0499370899"] = &DoctorAccount{
		NationalCode: "0499370899",
		PasswordHash: hashOf(t, "old"),
	}

	if err := svc.UpdateCredentials(context.Background(), "0499370899", "1234567891", "newpass"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := doctors.doctors["1234567891"]; !ok {
		t.Error("expected doctor account to be re-keyed to the new national code")
	}
}

func TestUpdateCredentials_RejectsBadNationalCode(t *testing.T) {
	svc, _, _ := newTestService(t)
	if err := svc.UpdateCredentials(context.Background(), "0499370899", "1234567890", "newpass"); err == nil {
		t.Error("expected validation error for bad new national code")
	}
}

// -- Personnel management --

func TestCreatePersonnel_RejectsDoctorRole(t *testing.T) {
	svc, _, _ := newTestService(t)
	p := &Personnel{
		NationalCode: "0499370899",
		FirstName:    "x",
		LastName:     "y",
		Role:         auth.RoleDoctor,
	}
	if err := svc.CreatePersonnel(context.Background(), p, "pass"); err == nil {
		t.Error("expected error: doctors are not personnel records")
	}
}

func TestCreatePersonnel_HashesPassword(t *testing.T) {
	svc, people, _ := newTestService(t)
	p := &Personnel{
		NationalCode: "0499370899",
		FirstName:    "سارا",
		LastName:     "محمدی",
		Role:         auth.RoleSecretary,
	}
	if err := svc.CreatePersonnel(context.Background(), p, "pass"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := people.people["0499370899"]
	if stored.PasswordHash == "" || stored.PasswordHash == "pass" {
		t.Error("expected password to be hashed")
	}
}
