package reconcile

import (
	"context"
	"errors"
	"fmt"

	"student-crm/core/lms"
	"student-crm/core/password"
	"student-crm/core/phone"
	"student-crm/core/reconcile"
	"student-crm/feature/students/models"
	"student-crm/feature/students/normalize"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Fallbacks for records without names.
const (
	fallbackFirstName = "LMS"
	fallbackLastName  = "Student"
)

// StudentAdapter implements the reconcile.Adapter interface for student profiles.
type StudentAdapter struct {
	opts   Options
	hasher *password.Hasher
	logger *zap.Logger

	// Set by Prepare.
	programID    uint
	passwordHash string
}

// NewAdapter creates a new student adapter.
func NewAdapter(opts Options, logger *zap.Logger) *StudentAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()
	return &StudentAdapter{
		opts:   opts,
		hasher: password.NewHasher(opts.PasswordCost),
		logger: logger,
	}
}

// Name returns the unique name of this adapter.
func (a *StudentAdapter) Name() string {
	return "students"
}

// Prepare ensures the import program exists and hashes the default password once.
func (a *StudentAdapter) Prepare(ctx context.Context, db *gorm.DB) error {
	program, err := EnsureProgram(ctx, db, a.opts.ProgramName)
	if err != nil {
		return err
	}
	a.programID = program.ID

	hash, err := a.hasher.Hash(a.opts.DefaultPassword)
	if err != nil {
		return err
	}
	a.passwordHash = hash
	return nil
}

// EnsureProgram returns the program with the given name, creating it if needed.
func EnsureProgram(ctx context.Context, db *gorm.DB, name string) (*models.Program, error) {
	s := slug(name)
	var program models.Program
	err := db.WithContext(ctx).
		Where(models.Program{Name: name}).
		Attrs(models.Program{Slug: &s}).
		FirstOrCreate(&program).Error
	if err != nil {
		return nil, fmt.Errorf("ensure program %q: %w", name, err)
	}
	return &program, nil
}

// Normalize maps a raw LMS student.
func (a *StudentAdapter) Normalize(raw lms.Record) (reconcile.Record, error) {
	return normalize.Normalize(raw)
}

// Lookup finds the student whose stored mobile ends with the record's phone key.
// When several match, the lowest id wins.
func (a *StudentAdapter) Lookup(ctx context.Context, tx *gorm.DB, rec reconcile.Record) (reconcile.Local, error) {
	student, err := FindByPhone(ctx, tx, rec.Phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return reconcile.Local{}, nil
	}
	if err != nil {
		return reconcile.Local{}, err
	}
	return reconcile.Local{
		Found:      true,
		ID:         student.ID,
		ExternalID: student.LMSID(),
		Email:      student.Email,
	}, nil
}

// FindByPhone returns the lowest-id student matching the phone key, or
// gorm.ErrRecordNotFound.
func FindByPhone(ctx context.Context, db *gorm.DB, number string) (*models.Student, error) {
	key := phone.Key(number)
	if len(key) < phone.KeyLength {
		return nil, gorm.ErrRecordNotFound
	}

	var candidates []models.Student
	err := db.WithContext(ctx).
		Where("REPLACE(mobile, ' ', '') LIKE ?", "%"+key).
		Order("id ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("find student by phone: %w", err)
	}

	for i := range candidates {
		if phone.Matches(candidates[i].Mobile, key) {
			return &candidates[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// Apply persists a decision inside the per-record transaction.
func (a *StudentAdapter) Apply(ctx context.Context, tx *gorm.DB, d reconcile.Decision) error {
	switch d.Action {
	case reconcile.ActionCreate:
		return a.create(ctx, tx, d.Record)
	case reconcile.ActionLink, reconcile.ActionUpdate:
		updates := map[string]any{}
		if d.Action == reconcile.ActionLink {
			updates["lms_student_id"] = d.Record.ExternalID
		}
		if d.SetEmail {
			updates["email"] = d.Record.Email
		}
		err := tx.WithContext(ctx).
			Model(&models.Student{}).
			Where("id = ?", d.Local.ID).
			Updates(updates).Error
		if err != nil {
			return fmt.Errorf("update student %d: %w", d.Local.ID, err)
		}
		return nil
	default:
		return nil
	}
}

func (a *StudentAdapter) create(ctx context.Context, tx *gorm.DB, rec reconcile.Record) error {
	if a.passwordHash == "" {
		return fmt.Errorf("adapter not prepared")
	}
	key := rec.Key()

	username, err := a.username(ctx, tx, key)
	if err != nil {
		return err
	}

	first, last := rec.FirstName, rec.LastName
	if first == "" {
		first = fallbackFirstName
	}
	if last == "" {
		last = fallbackLastName
	}

	email := rec.Email
	if email == "" {
		email = username + "@example.com"
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: a.passwordHash,
		Role:         models.RoleStudent,
		FirstName:    first,
		LastName:     last,
	}
	if err := tx.WithContext(ctx).Create(&user).Error; err != nil {
		return fmt.Errorf("create user %s: %w", username, err)
	}

	var lmsID *string
	if rec.ExternalID != "" {
		id := rec.ExternalID
		lmsID = &id
	}
	programID := a.programID

	student := models.Student{
		UserID:       user.ID,
		CRMStudentID: a.opts.CodePrefix + "-" + key,
		ProgramID:    &programID,
		FirstName:    first,
		LastName:     last,
		Email:        rec.Email,
		Mobile:       rec.Phone,
		LMSStudentID: lmsID,
		IsActive:     true,
	}
	if err := tx.WithContext(ctx).Create(&student).Error; err != nil {
		return fmt.Errorf("create student %s: %w", student.CRMStudentID, err)
	}

	a.logger.Debug("Created student",
		zap.Uint("id", student.ID),
		zap.String("username", username),
		zap.String("lms_student_id", rec.ExternalID))
	return nil
}

// username returns <prefix>_<key>, or <prefix>_<key>_<4 random hex> when taken.
func (a *StudentAdapter) username(ctx context.Context, tx *gorm.DB, key string) (string, error) {
	name := a.opts.UsernamePrefix + "_" + key

	var count int64
	if err := tx.WithContext(ctx).Model(&models.User{}).Where("username = ?", name).Count(&count).Error; err != nil {
		return "", fmt.Errorf("check username: %w", err)
	}
	if count == 0 {
		return name, nil
	}
	return name + "_" + uuid.NewString()[:4], nil
}
