package patient

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockPatientRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) Create(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, context.Canceled
	}
	return p, nil
}

func (m *mockPatientRepo) Update(ctx context.Context, p *Patient) error {
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.patients, id)
	return nil
}

func (m *mockPatientRepo) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var out []*Patient
	for _, p := range m.patients {
		out = append(out, p)
	}
	return out, len(out), nil
}

type mockObservationRepo struct {
	observations map[uuid.UUID]*Observation
}

func newMockObservationRepo() *mockObservationRepo {
	return &mockObservationRepo{observations: make(map[uuid.UUID]*Observation)}
}

func (m *mockObservationRepo) Create(ctx context.Context, o *Observation) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	m.observations[o.ID] = o
	return nil
}

func (m *mockObservationRepo) GetByID(ctx context.Context, id uuid.UUID) (*Observation, error) {
	o, ok := m.observations[id]
	if !ok {
		return nil, context.Canceled
	}
	return o, nil
}

func (m *mockObservationRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Observation, int, error) {
	var out []*Observation
	for _, o := range m.observations {
		if o.PatientID == patientID {
			out = append(out, o)
		}
	}
	return out, len(out), nil
}

func TestCreatePatientValidation(t *testing.T) {
	svc := NewService(newMockPatientRepo(), newMockObservationRepo())
	ctx := context.Background()

	if err := svc.CreatePatient(ctx, &Patient{LastName: "Doe"}); err == nil {
		t.Fatal("expected error for missing first_name")
	}
	if err := svc.CreatePatient(ctx, &Patient{FirstName: "Jane"}); err == nil {
		t.Fatal("expected error for missing last_name")
	}

	p := &Patient{FirstName: "Jane", LastName: "Doe"}
	if err := svc.CreatePatient(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected an ID to be assigned")
	}
}

func TestAddObservationValidation(t *testing.T) {
	svc := NewService(newMockPatientRepo(), newMockObservationRepo())
	ctx := context.Background()

	err := svc.AddObservation(ctx, &Observation{Timestamp: time.Now()})
	if err == nil {
		t.Fatal("expected error for missing patient_id")
	}

	err = svc.AddObservation(ctx, &Observation{PatientID: uuid.New()})
	if err == nil {
		t.Fatal("expected error for missing timestamp")
	}

	hr := 88.0
	err = svc.AddObservation(ctx, &Observation{
		PatientID: uuid.New(),
		Timestamp: time.Now(),
		HeartRate: &hr,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFullName(t *testing.T) {
	cases := []struct {
		first, last, want string
	}{
		{"Jane", "Doe", "Jane Doe"},
		{"Jane", "", "Jane"},
		{"", "Doe", "Doe"},
		{"  Jane  ", "Doe", "Jane Doe"},
	}
	for _, tc := range cases {
		p := &Patient{FirstName: tc.first, LastName: tc.last}
		if got := p.FullName(); got != tc.want {
			t.Errorf("FullName(%q, %q) = %q, want %q", tc.first, tc.last, got, tc.want)
		}
	}
}

func TestObservationField(t *testing.T) {
	hr := 90.0
	lac := 2.4
	o := &Observation{HeartRate: &hr, Lactate: &lac}

	if got := o.Field("heart_rate"); got == nil || *got != 90.0 {
		t.Errorf("heart_rate = %v, want 90", got)
	}
	if got := o.Field("lactate"); got == nil || *got != 2.4 {
		t.Errorf("lactate = %v, want 2.4", got)
	}
	if got := o.Field("temperature"); got != nil {
		t.Errorf("temperature = %v, want nil", got)
	}
	if got := o.Field("not_a_field"); got != nil {
		t.Errorf("unknown field = %v, want nil", got)
	}
}
