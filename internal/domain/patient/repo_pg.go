package patient

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository { return &patientRepoPG{pool: pool} }

const patientCols = `id, mrn, first_name, last_name, birth_date, gender,
	phone_number, email, address, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.MRN, &p.FirstName, &p.LastName, &p.BirthDate, &p.Gender,
		&p.PhoneNumber, &p.Email, &p.Address, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient (id, mrn, first_name, last_name, birth_date, gender,
			phone_number, email, address)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.MRN, p.FirstName, p.LastName, p.BirthDate, p.Gender,
		p.PhoneNumber, p.Email, p.Address)
	return err
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE patient SET mrn=$2, first_name=$3, last_name=$4, birth_date=$5, gender=$6,
			phone_number=$7, email=$8, address=$9, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.MRN, p.FirstName, p.LastName, p.BirthDate, p.Gender,
		p.PhoneNumber, p.Email, p.Address)
	return err
}

func (r *patientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	return err
}

func (r *patientRepoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+patientCols+` FROM patient ORDER BY last_name, first_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

// =========== Observation Repository ===========

type observationRepoPG struct{ pool *pgxpool.Pool }

func NewObservationRepoPG(pool *pgxpool.Pool) ObservationRepository {
	return &observationRepoPG{pool: pool}
}

const observationCols = `id, patient_id, timestamp, heart_rate, respiratory_rate,
	temperature, systolic_bp, diastolic_bp, oxygen_saturation, blood_glucose,
	wbc_count, platelet_count, lactate, creatinine, bilirubin, created_at`

func scanObservation(row pgx.Row) (*Observation, error) {
	var o Observation
	err := row.Scan(&o.ID, &o.PatientID, &o.Timestamp, &o.HeartRate, &o.RespiratoryRate,
		&o.Temperature, &o.SystolicBP, &o.DiastolicBP, &o.OxygenSaturation, &o.BloodGlucose,
		&o.WBCCount, &o.PlateletCount, &o.Lactate, &o.Creatinine, &o.Bilirubin, &o.CreatedAt)
	return &o, err
}

func (r *observationRepoPG) Create(ctx context.Context, o *Observation) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO observation (id, patient_id, timestamp, heart_rate, respiratory_rate,
			temperature, systolic_bp, diastolic_bp, oxygen_saturation, blood_glucose,
			wbc_count, platelet_count, lactate, creatinine, bilirubin)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		o.ID, o.PatientID, o.Timestamp, o.HeartRate, o.RespiratoryRate,
		o.Temperature, o.SystolicBP, o.DiastolicBP, o.OxygenSaturation, o.BloodGlucose,
		o.WBCCount, o.PlateletCount, o.Lactate, o.Creatinine, o.Bilirubin)
	return err
}

func (r *observationRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Observation, error) {
	return scanObservation(r.pool.QueryRow(ctx, `SELECT `+observationCols+` FROM observation WHERE id = $1`, id))
}

func (r *observationRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Observation, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM observation WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+observationCols+` FROM observation
		WHERE patient_id = $1 ORDER BY timestamp DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Observation
	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	return items, total, rows.Err()
}
