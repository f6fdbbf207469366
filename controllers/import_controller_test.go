package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/romuloroldao/Black-House-sub001/controllers"
	"github.com/romuloroldao/Black-House-sub001/database"
	"github.com/romuloroldao/Black-House-sub001/extraction"
	"github.com/romuloroldao/Black-House-sub001/routes"
	"github.com/romuloroldao/Black-House-sub001/services"
)

func newTestServer(t *testing.T, name string) (*httptest.Server, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedFoodTypes(db))

	chain := extraction.NewChain(extraction.NewRuleBasedProvider())
	controller := controllers.NewImportController(services.NewImportService(db), chain)
	srv := httptest.NewServer(routes.SetupRouter(controller))
	t.Cleanup(srv.Close)
	return srv, db
}

func doRequest(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	req.Header.Set("X-API-Key", "secret-key")
	req.Header.Set("Authorization", "Bearer 7")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestPreviewEndpoint_JSONBody(t *testing.T) {
	srv, _ := newTestServer(t, "http_preview")

	payload := `{"aluno": {"nome": "Ana"}, "dieta": {"refeicoes": [
		{"nome": "Almoço", "alimentos": [{"nome": "Arroz", "quantidade": "150g"}]}
	]}}`
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/import/preview", bytes.NewBufferString(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, body := doRequest(t, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "payload", body["source"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestPreviewEndpoint_DocumentUpload(t *testing.T) {
	srv, _ := newTestServer(t, "http_upload")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("document", "plano.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Nome: Maria\n\nAlmoço:\n- Arroz branco - 150g\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/import/preview", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, body := doRequest(t, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "rule-based", body["source"])
	payload := body["payload"].(map[string]any)
	assert.Equal(t, "Maria", payload["aluno"].(map[string]any)["nome"])
}

func TestConfirmEndpoint_UnknownFieldRejected(t *testing.T) {
	srv, db := newTestServer(t, "http_unknown_field")

	body := `{"payload": {"aluno": {"nome": "Ana"}, "campo_inventado": true}}`
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/import/confirm", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, respBody := doRequest(t, req)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	issues := respBody["issues"].([]any)
	require.NotEmpty(t, issues)
	assert.Equal(t, "campo_inventado", issues[0].(map[string]any)["path"])

	var students int64
	db.Table("students").Count(&students)
	assert.Zero(t, students)
}

func TestConfirmEndpoint_PersistsAndConflictsOnReplay(t *testing.T) {
	srv, _ := newTestServer(t, "http_confirm")

	payload := `{"aluno": {"nome": "Ana"}, "dieta": {"refeicoes": [
		{"nome": "Café da Manhã", "alimentos": [{"nome": "Ovo", "quantidade": "2 unidades"}]}
	]}}`
	preview, err := http.NewRequest(http.MethodPost, srv.URL+"/import/preview", bytes.NewBufferString(payload))
	require.NoError(t, err)
	preview.Header.Set("Content-Type", "application/json")
	resp, body := doRequest(t, preview)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := body["token"].(string)

	confirmBody := fmt.Sprintf(`{"token": %q}`, token)
	confirm, err := http.NewRequest(http.MethodPost, srv.URL+"/import/confirm", bytes.NewBufferString(confirmBody))
	require.NoError(t, err)
	confirm.Header.Set("Content-Type", "application/json")
	resp, body = doRequest(t, confirm)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotZero(t, body["student_id"])

	replay, err := http.NewRequest(http.MethodPost, srv.URL+"/import/confirm", bytes.NewBufferString(confirmBody))
	require.NoError(t, err)
	replay.Header.Set("Content-Type", "application/json")
	resp, _ = doRequest(t, replay)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	srv, _ := newTestServer(t, "http_auth")

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/import/preview", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	req.Header.Set("X-API-Key", "secret-key")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err = http.NewRequest(http.MethodPost, srv.URL+"/import/preview", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	req.Header.Set("X-API-Key", "wrong")
	req.Header.Set("Authorization", "Bearer 7")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
