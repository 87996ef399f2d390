package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/classpoint/classpoint-backend/internal/assessment"
	"github.com/classpoint/classpoint-backend/internal/qimport"
	"github.com/classpoint/classpoint-backend/internal/storage"
)

const maxImportBytes = 10 << 20 // 10 MiB upload cap

type importResponse struct {
	qimport.ParseResult
	Imported int    `json:"imported"`
	TestID   string `json:"test_id"`
}

// POST /tests/{testID}/questions/import (multipart: file=questions.csv)
//
// The parse result always goes back in full so the client can show every
// row error in one pass. Questions are persisted only when the whole
// file validated: a partially bad file imports nothing.
func ImportQuestionsHandler(store assessment.Store, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		testID := chi.URLParam(r, "testID")

		r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", 400)
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			http.Error(w, "read upload: "+err.Error(), 400)
			return
		}

		// archive the raw upload so rejected files can be inspected
		key := fmt.Sprintf("imports/%s/%s-%s", testID, time.Now().Format("20060102150405"), hdr.Filename)
		if _, err := bs.Put(key, bytes.NewReader(data)); err != nil {
			http.Error(w, "archive upload: "+err.Error(), 500)
			return
		}

		result, err := qimport.ParseFile(hdr.Filename, data)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}

		resp := importResponse{ParseResult: result, TestID: testID}
		if !result.Success {
			writeJSON(w, http.StatusUnprocessableEntity, resp)
			return
		}

		qs := make([]assessment.Question, len(result.Questions))
		for i, pq := range result.Questions {
			qs[i] = assessment.Question{
				ID:            uuid.NewString(),
				Type:          string(pq.QuestionType),
				Text:          pq.QuestionText,
				Options:       pq.Options,
				CorrectAnswer: pq.CorrectAnswer,
				Points:        pq.Points,
				OrderIndex:    pq.OrderIndex,
			}
		}
		if _, err := store.AppendQuestions(r.Context(), testID, qs); err != nil {
			if err == assessment.ErrNotFound {
				http.Error(w, "test not found", 404)
				return
			}
			http.Error(w, err.Error(), 500)
			return
		}
		resp.Imported = len(qs)
		writeJSON(w, http.StatusOK, resp)
	}
}
