package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/romuloroldao/Black-House-sub001/catalog"
	"github.com/romuloroldao/Black-House-sub001/importer"
	"github.com/romuloroldao/Black-House-sub001/logger"
	"github.com/romuloroldao/Black-House-sub001/models"
	"github.com/romuloroldao/Black-House-sub001/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ImportService runs the two entry points of the import flow. Preview is
// read-mostly (one audit insert); Confirm persists the whole client+diet
// graph inside a single transaction.
type ImportService struct {
	db *gorm.DB
}

func NewImportService(db *gorm.DB) *ImportService {
	return &ImportService{db: db}
}

// PreviewResult is what the preview entry point returns: normalized data plus
// soft warnings, and a token a later confirm call can reference.
type PreviewResult struct {
	Token    string               `json:"token"`
	Source   string               `json:"source"`
	Payload  *importer.Normalized `json:"payload"`
	Warnings []string             `json:"warnings"`
}

// ConfirmResult carries the persisted identifiers and assembly stats.
type ConfirmResult struct {
	StudentID uint           `json:"student_id"`
	DietID    *uint          `json:"diet_id"`
	Stats     *AssemblyStats `json:"stats"`
}

// Preview sanitizes arbitrary extraction output, validates it, and returns
// the normalized payload with business warnings attached. The sanitized
// payload is stored as an audit record; nothing else is persisted.
func (s *ImportService) Preview(ctx context.Context, raw []byte, source string, creatorID uint) (*PreviewResult, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ValidationError{Issues: []importer.Issue{{
			Path: "root", Code: importer.CodeInvalidJSON, Message: "payload is not valid JSON",
		}}}
	}
	sanitized := importer.Sanitize(doc)

	encoded, err := json.Marshal(sanitized)
	if err != nil {
		return nil, fmt.Errorf("encoding sanitized payload: %w", err)
	}

	// Advisory validation: sanitizer output must always pass; a failure here
	// is a sanitizer bug surfacing, not a user error.
	payload, issues := importer.ValidateSchema(encoded)
	if len(issues) > 0 {
		logger.Error("sanitized payload failed schema validation", "issues", len(issues))
		return nil, &ValidationError{Issues: issues}
	}

	normalized := importer.Normalize(payload)
	warnings := importer.CheckRules(normalized)

	record := &models.ImportRecord{
		Token:      uuid.NewString(),
		CreatorID:  creatorID,
		Status:     models.ImportStatusPreviewed,
		Source:     source,
		RawPayload: datatypes.JSON(encoded),
		Warnings:   len(warnings),
	}
	records := repository.NewImportRecordRepository(s.db)
	if err := records.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("storing import record: %w", err)
	}

	logger.Info("import previewed", "token", record.Token, "source", source, "warnings", len(warnings))
	return &PreviewResult{
		Token:    record.Token,
		Source:   source,
		Payload:  normalized,
		Warnings: warnings,
	}, nil
}

// Confirm validates the payload from scratch — it never trusts a prior
// preview — and persists student, diet, items and supplements atomically.
// When token is non-empty the stored preview payload is used; otherwise raw
// must carry the payload. A studentID of zero means a new student is created
// from the payload.
func (s *ImportService) Confirm(ctx context.Context, raw []byte, token string, studentID, creatorID uint) (*ConfirmResult, error) {
	var record *models.ImportRecord
	if token != "" {
		records := repository.NewImportRecordRepository(s.db)
		found, err := records.FindByToken(ctx, token)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, ErrImportNotFound
		}
		if found.Status == models.ImportStatusConfirmed {
			return nil, ErrAlreadyConfirmed
		}
		record = found
		raw = []byte(found.RawPayload)
	}

	// Authoritative validation, independent of whatever the preview path did.
	payload, issues := importer.ValidateSchema(raw)
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	normalized := importer.Normalize(payload)
	if warnings := importer.CheckRules(normalized); len(warnings) > 0 {
		return nil, &RuleError{Warnings: warnings}
	}

	// One transaction handle for the whole graph. Every repository below is
	// bound to tx, never to the shared pool; mixing the two is the failure
	// mode this block exists to prevent.
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("starting import transaction: %w", tx.Error)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if err := tx.Rollback().Error; err != nil {
			// The original error is what the caller sees; a rollback failure
			// is logged at highest severity and swallowed.
			logger.Error("import rollback failed", "error", err)
		}
	}()

	students := repository.NewStudentRepository(tx)
	foods := repository.NewFoodRepository(tx)
	types := repository.NewFoodTypeRepository(tx)
	diets := repository.NewDietRepository(tx)

	student, err := s.resolveStudent(ctx, students, normalized, studentID, creatorID)
	if err != nil {
		return nil, err
	}

	matcher := catalog.NewMatcher(foods, catalog.NewTypeResolver(types))
	assembly := NewAssembly(matcher, diets)
	diet, stats, err := assembly.Assemble(ctx, normalized, student.ID, creatorID)
	if err != nil {
		return nil, err
	}

	if record != nil {
		record.Status = models.ImportStatusConfirmed
		record.StudentID = &student.ID
		if diet != nil {
			record.DietID = &diet.ID
		}
		records := repository.NewImportRecordRepository(tx)
		if err := records.Update(ctx, record); err != nil {
			return nil, fmt.Errorf("updating import record: %w", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("committing import: %w", err)
	}
	committed = true

	result := &ConfirmResult{StudentID: student.ID, Stats: stats}
	if diet != nil {
		result.DietID = &diet.ID
	}
	logger.Info("import confirmed", "student_id", student.ID, "items", stats.ItemsCreated)
	return result, nil
}

// resolveStudent creates the student row inside the transaction, or verifies
// the pre-existing one when the caller supplied an id.
func (s *ImportService) resolveStudent(ctx context.Context, students *repository.StudentRepository, n *importer.Normalized, studentID, creatorID uint) (*models.Student, error) {
	if studentID != 0 {
		student, err := students.FindByID(ctx, studentID)
		if err != nil {
			return nil, err
		}
		if student == nil {
			return nil, ErrStudentNotFound
		}
		return student, nil
	}
	student := &models.Student{
		Name:      n.Student.Name,
		Weight:    n.Student.Weight,
		Age:       n.Student.Age,
		Goal:      n.Student.Goal,
		CreatorID: creatorID,
	}
	if err := students.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("creating student %q: %w", student.Name, err)
	}
	return student, nil
}
