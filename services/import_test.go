package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/romuloroldao/Black-House-sub001/database"
	"github.com/romuloroldao/Black-House-sub001/models"
)

// openTestDB opens a named in-memory database. The shared cache keeps the
// database alive across the pooled connections GORM hands out, which the
// transactional confirm path depends on.
func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedFoodTypes(db))
	return db
}

const cleanPayload = `{
	"aluno": {"nome": "Ana", "peso": 62.5, "idade": 28, "objetivo": "hipertrofia"},
	"dieta": {
		"nome": "Plano Verão",
		"refeicoes": [
			{"nome": "Café da Manhã", "alimentos": [
				{"nome": "Ovo", "quantidade": "2 unidades"},
				{"nome": "Pão francês", "quantidade": "50g"}
			]},
			{"nome": "Almoço", "alimentos": [
				{"nome": "Arroz branco cozido", "quantidade": "150g"}
			]}
		],
		"macros": {"proteina": 120, "carboidrato": 200, "gordura": 60, "calorias": 1820}
	},
	"suplementos": [{"nome": "Creatina", "dosagem": "5g"}],
	"medicamentos": [],
	"observacoes": "beber 3L de água"
}`

func TestPreview_StoresRecordAndReportsWarnings(t *testing.T) {
	db := openTestDB(t, "preview_warnings")
	svc := NewImportService(db)

	// Sloppy extraction output: wrong types, an unknown key, a meal with an
	// unnamed food. The sanitizer absorbs all of it; the rule check reports
	// the missing client name as a warning.
	raw := []byte(`{
		"aluno": {"peso": "62,5", "chute_do_modelo": true},
		"dieta": {"refeicoes": [
			{"nome": "Almoço", "alimentos": [{"nome": "Arroz", "quantidade": "150g"}]}
		]}
	}`)
	res, err := svc.Preview(context.Background(), raw, "llm", 7)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "llm", res.Source)
	require.NotNil(t, res.Payload.Student.Weight)
	assert.Equal(t, 62.5, *res.Payload.Student.Weight)
	assert.Contains(t, res.Warnings, "client name is required")
	assert.Equal(t, "Dieta Importada", res.Payload.Diet.Name)

	var record models.ImportRecord
	require.NoError(t, db.Where("token = ?", res.Token).First(&record).Error)
	assert.Equal(t, models.ImportStatusPreviewed, record.Status)
	assert.Equal(t, uint(7), record.CreatorID)
	assert.Equal(t, len(res.Warnings), record.Warnings)
	assert.NotEmpty(t, record.RawPayload)
}

func TestPreview_RejectsInvalidJSON(t *testing.T) {
	db := openTestDB(t, "preview_badjson")
	svc := NewImportService(db)

	_, err := svc.Preview(context.Background(), []byte(`{"aluno":`), "payload", 1)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Issues, 1)
	assert.Equal(t, "invalid_json", verr.Issues[0].Code)

	var count int64
	db.Model(&models.ImportRecord{}).Count(&count)
	assert.Zero(t, count, "no audit record for unparseable input")
}

func TestConfirm_PersistsFullGraph(t *testing.T) {
	db := openTestDB(t, "confirm_graph")
	svc := NewImportService(db)

	res, err := svc.Confirm(context.Background(), []byte(cleanPayload), "", 0, 7)
	require.NoError(t, err)
	require.NotNil(t, res.DietID)

	var student models.Student
	require.NoError(t, db.First(&student, res.StudentID).Error)
	assert.Equal(t, "Ana", student.Name)
	assert.Equal(t, uint(7), student.CreatorID)

	var diet models.Diet
	require.NoError(t, db.First(&diet, *res.DietID).Error)
	assert.Equal(t, "Plano Verão", diet.Name)
	require.NotNil(t, diet.ProteinTarget)
	assert.Equal(t, 120.0, *diet.ProteinTarget)

	var items []models.DietItem
	require.NoError(t, db.Where("diet_id = ?", diet.ID).Order("id").Find(&items).Error)
	require.Len(t, items, 3)
	assert.Equal(t, "Refeição 1", items[0].MealLabel)
	assert.Equal(t, 2.0, items[0].Quantity)
	assert.Equal(t, "Refeição 3", items[2].MealLabel)
	assert.Equal(t, 150.0, items[2].Quantity)

	// Foods the catalog did not have were auto-created.
	var foods int64
	db.Model(&models.Food{}).Count(&foods)
	assert.Equal(t, int64(3), foods)
	assert.Equal(t, 3, res.Stats.FoodsCreated)

	var supplements []models.DietSupplement
	require.NoError(t, db.Where("diet_id = ?", diet.ID).Find(&supplements).Error)
	require.Len(t, supplements, 1)
	assert.Equal(t, "Creatina", supplements[0].Name)
}

func TestConfirm_ReusesCatalogFoods(t *testing.T) {
	db := openTestDB(t, "confirm_reuse")
	var protein models.FoodType
	require.NoError(t, db.Where("name = ?", "Protein").First(&protein).Error)
	require.NoError(t, db.Create(&models.Food{
		Name: "Ovo", NormalizedName: "ovo", TypeID: protein.ID,
	}).Error)
	svc := NewImportService(db)

	res, err := svc.Confirm(context.Background(), []byte(cleanPayload), "", 0, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Stats.FoodsCreated, "the pre-seeded food is matched, not duplicated")

	var count int64
	db.Model(&models.Food{}).Where("normalized_name = ?", "ovo").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestConfirm_ExistingStudent(t *testing.T) {
	db := openTestDB(t, "confirm_existing_student")
	existing := &models.Student{Name: "Bruno", CreatorID: 7}
	require.NoError(t, db.Create(existing).Error)
	svc := NewImportService(db)

	res, err := svc.Confirm(context.Background(), []byte(cleanPayload), "", existing.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, res.StudentID)

	var count int64
	db.Model(&models.Student{}).Count(&count)
	assert.Equal(t, int64(1), count, "no new student row")
}

func TestConfirm_UnknownStudent(t *testing.T) {
	db := openTestDB(t, "confirm_unknown_student")
	svc := NewImportService(db)

	_, err := svc.Confirm(context.Background(), []byte(cleanPayload), "", 999, 7)
	require.ErrorIs(t, err, ErrStudentNotFound)

	var count int64
	db.Model(&models.Diet{}).Count(&count)
	assert.Zero(t, count)
}

func TestConfirm_RejectsUnknownField(t *testing.T) {
	db := openTestDB(t, "confirm_unknown_field")
	svc := NewImportService(db)

	raw := []byte(`{"aluno": {"nome": "Ana"}, "campo_inventado": true}`)
	_, err := svc.Confirm(context.Background(), raw, "", 0, 7)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	var count int64
	db.Model(&models.Student{}).Count(&count)
	assert.Zero(t, count, "nothing persisted on validation failure")
}

func TestConfirm_RejectsRuleViolations(t *testing.T) {
	db := openTestDB(t, "confirm_rules")
	svc := NewImportService(db)

	raw := []byte(`{"aluno": {"peso": 62}}`)
	_, err := svc.Confirm(context.Background(), raw, "", 0, 7)
	var rerr *RuleError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Warnings, "client name is required")
}

func TestConfirm_RollsBackOnFailure(t *testing.T) {
	db := openTestDB(t, "confirm_rollback")
	svc := NewImportService(db)

	// Breaking the supplements table makes the last insert of the transaction
	// fail after student, diet and items have already been written.
	require.NoError(t, db.Migrator().DropTable(&models.DietSupplement{}))

	_, err := svc.Confirm(context.Background(), []byte(cleanPayload), "", 0, 7)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStudentNotFound)

	var students, diets, items int64
	db.Model(&models.Student{}).Count(&students)
	db.Model(&models.Diet{}).Count(&diets)
	db.Model(&models.DietItem{}).Count(&items)
	assert.Zero(t, students, "student insert rolled back")
	assert.Zero(t, diets, "diet insert rolled back")
	assert.Zero(t, items, "item inserts rolled back")
}

func TestConfirm_TokenFlow(t *testing.T) {
	db := openTestDB(t, "confirm_token")
	svc := NewImportService(db)
	ctx := context.Background()

	preview, err := svc.Preview(ctx, []byte(cleanPayload), "payload", 7)
	require.NoError(t, err)
	require.Empty(t, preview.Warnings)

	res, err := svc.Confirm(ctx, nil, preview.Token, 0, 7)
	require.NoError(t, err)

	var record models.ImportRecord
	require.NoError(t, db.Where("token = ?", preview.Token).First(&record).Error)
	assert.Equal(t, models.ImportStatusConfirmed, record.Status)
	require.NotNil(t, record.StudentID)
	assert.Equal(t, res.StudentID, *record.StudentID)
	require.NotNil(t, record.DietID)

	// A confirmed token cannot be replayed.
	_, err = svc.Confirm(ctx, nil, preview.Token, 0, 7)
	assert.True(t, errors.Is(err, ErrAlreadyConfirmed))
}

func TestConfirm_UnknownToken(t *testing.T) {
	db := openTestDB(t, "confirm_badtoken")
	svc := NewImportService(db)

	_, err := svc.Confirm(context.Background(), nil, "no-such-token", 0, 7)
	require.ErrorIs(t, err, ErrImportNotFound)
}
