package repository

import (
	"context"
	"fmt"
	"sync"

	"patient-portal/internal/domain/entity"
	domainRepo "patient-portal/internal/domain/repository"
	"patient-portal/internal/infrastructure/database"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const livenessProbe = "SELECT 1 AS test"

const createPatientsTable = `
	CREATE TABLE IF NOT EXISTS patients (
		id TEXT PRIMARY KEY,
		"fullName" TEXT NOT NULL,
		"dateOfBirth" TEXT NOT NULL,
		"contactNumber" TEXT,
		"address" TEXT,
		"gender" TEXT NOT NULL,
		"registeredAt" TIMESTAMP DEFAULT %s
	)
`

const insertPatient = `
	INSERT INTO patients (id, "fullName", "dateOfBirth", "contactNumber", "address", "gender")
	VALUES (?, ?, ?, ?, ?, ?)
	RETURNING id, "fullName", "dateOfBirth", "contactNumber", "address", "gender", "registeredAt"
`

// ChangePublisher receives mutation events after they are committed.
type ChangePublisher interface {
	Publish(ctx context.Context, event entity.ChangeEvent)
}

type patientRepository struct {
	engine    database.Engine
	publisher ChangePublisher
	log       *logrus.Logger

	// initMu serializes bring-up; mu guards the fields below.
	initMu  sync.Mutex
	mu      sync.RWMutex
	state   entity.ConnectionState
	db      *gorm.DB
	initErr error
}

// NewPatientRepository returns a repository in the Uninitialized state.
// publisher may be nil, in which case no events are emitted.
func NewPatientRepository(engine database.Engine, publisher ChangePublisher, log *logrus.Logger) domainRepo.PatientRepository {
	return &patientRepository{
		engine:    engine,
		publisher: publisher,
		log:       log,
		state:     entity.ConnectionUninitialized,
	}
}

// Initialize brings the connection up once. A Ready repository returns
// immediately and a Failed one returns its recorded failure without
// reopening the engine.
func (r *patientRepository) Initialize(ctx context.Context) error {
	r.initMu.Lock()
	defer r.initMu.Unlock()

	r.mu.RLock()
	state, initErr := r.state, r.initErr
	r.mu.RUnlock()

	switch state {
	case entity.ConnectionReady:
		return nil
	case entity.ConnectionFailed:
		return initErr
	}

	r.setState(entity.ConnectionInitializing, nil, nil)
	r.log.Infof("Connecting to %s database...", r.engine.Name())

	db, err := r.bringUp(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", domainRepo.ErrConnectionFailed, err)
		r.setState(entity.ConnectionFailed, nil, err)
		r.log.Errorf("Error initializing database: %+v", err)
		return err
	}

	r.setState(entity.ConnectionReady, db, nil)
	r.log.Infof("Successfully connected to %s database", r.engine.Name())
	return nil
}

func (r *patientRepository) bringUp(ctx context.Context) (*gorm.DB, error) {
	db, err := r.engine.Open(ctx)
	if err != nil {
		return nil, err
	}

	var probe int
	if err := db.WithContext(ctx).Raw(livenessProbe).Scan(&probe).Error; err != nil {
		closeDB(db)
		return nil, fmt.Errorf("liveness probe failed: %w", err)
	}

	ddl := fmt.Sprintf(createPatientsTable, r.engine.TimestampDefault())
	if err := db.WithContext(ctx).Exec(ddl).Error; err != nil {
		closeDB(db)
		return nil, fmt.Errorf("failed to create patients table: %w", err)
	}

	return db, nil
}

func (r *patientRepository) setState(state entity.ConnectionState, db *gorm.DB, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state
	r.db = db
	r.initErr = err
}

// ready returns the live handle, making the single lazy initialization
// attempt if the connection was never brought up.
func (r *patientRepository) ready(ctx context.Context) (*gorm.DB, error) {
	r.mu.RLock()
	state, db := r.state, r.db
	r.mu.RUnlock()

	if state == entity.ConnectionReady {
		return db, nil
	}

	// Initializing callers block on initMu until the attempt in flight
	// settles; the outcome is read back from state below.
	if state == entity.ConnectionUninitialized || state == entity.ConnectionInitializing {
		_ = r.Initialize(ctx)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state != entity.ConnectionReady {
		if r.initErr != nil {
			return nil, fmt.Errorf("%w: %w", domainRepo.ErrNotReady, r.initErr)
		}
		return nil, domainRepo.ErrNotReady
	}
	return r.db, nil
}

func (r *patientRepository) RegisterPatient(ctx context.Context, patient *entity.Patient) (*entity.Patient, error) {
	db, err := r.ready(ctx)
	if err != nil {
		return nil, err
	}

	// The row is read back by the insert itself so a concurrent delete
	// cannot separate the commit from the returned record.
	rows, err := db.WithContext(ctx).Raw(insertPatient,
		patient.ID,
		patient.FullName,
		patient.DateOfBirth,
		patient.ContactNumber,
		patient.Address,
		patient.Gender,
	).Rows()
	if err != nil {
		r.log.Warnf("Failed to register patient %s: %+v", patient.ID, err)
		return nil, err
	}
	stored, err := scanInsertedPatient(rows)
	if err != nil {
		r.log.Warnf("Failed to register patient %s: %+v", patient.ID, err)
		return nil, err
	}

	r.publish(ctx, entity.ChangeEvent{Type: entity.EventPatientAdded, Payload: stored})

	return stored, nil
}

// GetAllPatients returns every record, most recently registered first. Rows
// with equal registeredAt come back in the engine's natural order, which is
// unspecified.
func (r *patientRepository) GetAllPatients(ctx context.Context) ([]entity.Patient, error) {
	db, err := r.ready(ctx)
	if err != nil {
		return nil, err
	}

	var patients []entity.Patient
	err = db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "registeredAt"}, Desc: true}).
		Find(&patients).Error
	if err != nil {
		r.log.Warnf("Failed to query patients: %+v", err)
		return nil, err
	}

	return patients, nil
}

// ExecuteRawQuery runs sql verbatim with no validation. Statements whose
// text looks like a mutation publish one data_changed event on success.
func (r *patientRepository) ExecuteRawQuery(ctx context.Context, sql string) (*entity.RawResult, error) {
	db, err := r.ready(ctx)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	result := &entity.RawResult{
		Rows:    []map[string]interface{}{},
		Command: leadingKeyword(sql),
	}

	if producesRows(sql) {
		rows, err := sqlDB.QueryContext(ctx, sql)
		if err != nil {
			r.log.Warnf("Raw SQL query failed: %+v", err)
			return nil, err
		}
		defer rows.Close()

		result.Rows, err = scanRows(rows)
		if err != nil {
			r.log.Warnf("Raw SQL query failed: %+v", err)
			return nil, err
		}
		result.RowCount = int64(len(result.Rows))
	} else {
		res, err := sqlDB.ExecContext(ctx, sql)
		if err != nil {
			r.log.Warnf("Raw SQL statement failed: %+v", err)
			return nil, err
		}
		if affected, err := res.RowsAffected(); err == nil {
			result.RowCount = affected
		}
	}

	if isMutation(sql) {
		result.Mutated = true
		r.publish(ctx, entity.ChangeEvent{Type: entity.EventDataChanged})
	}

	return result, nil
}

func (r *patientRepository) publish(ctx context.Context, event entity.ChangeEvent) {
	if r.publisher == nil {
		return
	}
	r.publisher.Publish(ctx, event)
}

func (r *patientRepository) Status() entity.ConnectionStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := entity.ConnectionStatus{
		State:  r.state,
		Engine: r.engine.Name(),
	}
	if r.initErr != nil {
		status.Error = r.initErr.Error()
	}
	return status
}

func (r *patientRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
