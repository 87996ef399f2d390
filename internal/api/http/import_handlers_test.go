package http

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classpoint/classpoint-backend/internal/assessment"
	"github.com/classpoint/classpoint-backend/internal/db"
	"github.com/classpoint/classpoint-backend/internal/storage"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dbh, err := sql.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	dbh.SetMaxOpenConns(1)
	t.Cleanup(func() { dbh.Close() })
	require.NoError(t, db.EnsureSchema(context.Background(), dbh, db.DriverSQLite))
	return dbh
}

func importRouter(t *testing.T) (chi.Router, assessment.Store) {
	t.Helper()
	store := assessment.NewSQLStore(testDB(t))
	require.NoError(t, store.PutTest(context.Background(), assessment.Test{
		ID: "t1", ClassID: "7a", Subject: "science", Title: "Unit test 1",
	}))
	bs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Post("/tests/{testID}/questions/import", ImportQuestionsHandler(store, bs))
	return r, store
}

func uploadFile(t *testing.T, name, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestImportQuestionsPersistsValidFile(t *testing.T) {
	r, store := importRouter(t)

	csv := "question_text,question_type,points,option_a,option_b,correct_answer\n" +
		"What is 2+2?,mcq,5,3,4,4\n" +
		"Symbol for iron?,one_word,2,,,Fe\n"
	body, ctype := uploadFile(t, "questions.csv", csv)

	req := httptest.NewRequest("POST", "/tests/t1/questions/import", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code, rec.Body.String())
	var resp importResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Imported)
	assert.Equal(t, "t1", resp.TestID)

	got, err := store.GetTest(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, got.Questions, 2)
	assert.Equal(t, 7, got.MaxPoints)
	assert.Equal(t, "What is 2+2?", got.Questions[0].Text)
}

func TestImportQuestionsRejectsBadRowsWithoutPersisting(t *testing.T) {
	r, store := importRouter(t)

	csv := "question_text,question_type,points\n" +
		"Explain rain.,long_answer,10\n" +
		"Broken row,essay,5\n"
	body, ctype := uploadFile(t, "questions.csv", csv)

	req := httptest.NewRequest("POST", "/tests/t1/questions/import", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, 422, rec.Code)
	var resp importResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "row 3")

	got, err := store.GetTest(context.Background(), "t1")
	require.NoError(t, err)
	assert.Empty(t, got.Questions)
}

func TestImportQuestionsRequiresFile(t *testing.T) {
	r, _ := importRouter(t)

	req := httptest.NewRequest("POST", "/tests/t1/questions/import", bytes.NewReader(nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, 400, rec.Code)
}

func TestImportQuestionsUnsupportedExtension(t *testing.T) {
	r, _ := importRouter(t)

	body, ctype := uploadFile(t, "questions.pdf", "whatever")
	req := httptest.NewRequest("POST", "/tests/t1/questions/import", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, 400, rec.Code)
}
