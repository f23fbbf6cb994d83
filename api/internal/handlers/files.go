package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"warehouse-ops-dashboard/api/internal/catalog"
	"warehouse-ops-dashboard/api/internal/models"
	"warehouse-ops-dashboard/api/internal/repos"
	"warehouse-ops-dashboard/shared/authx"
	"warehouse-ops-dashboard/shared/httpx"
	"warehouse-ops-dashboard/shared/logx"
)

type FilesHandler struct {
	Repo     *repos.FilesRepo
	Logger   logx.Logger
	MaxBytes int64
}

func (h *FilesHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/files/upload", h.upload)
	mux.HandleFunc("GET /api/v1/files", h.list)
	mux.HandleFunc("GET /api/v1/files/{id}", h.get)
	mux.HandleFunc("DELETE /api/v1/files/{id}", h.delete)
}

type uploadResponse struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
	File    fileRef    `json:"file"`
}

type fileRef struct {
	ID string `json:"id"`
}

// upload accepts a multipart xlsx catalog, parses the first worksheet, and
// persists the parsed document.
func (h *FilesHandler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid multipart form", nil)
		return
	}

	documentID := strings.TrimSpace(r.FormValue("documentId"))
	if documentID == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", "documentId is required", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", "file is required", nil)
		return
	}
	defer file.Close()

	headers, rows, err := catalog.ParseWorkbook(file)
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", "could not parse workbook", map[string]any{"reason": err.Error()})
		return
	}

	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
		return
	}

	doc := models.FileDocument{
		DocumentID: documentID,
		FileName:   header.Filename,
		Headers:    headers,
		Rows:       rowsJSON,
	}
	if auth, ok := authx.FromContext(r.Context()); ok {
		doc.UploadedBy = auth.Subject
	}

	doc, err = h.Repo.InsertDocument(r.Context(), doc)
	if err != nil {
		h.Logger.Error(r.Context(), "file_insert_failed", "file insert failed",
			slog.String("error_code", "INTERNAL_ERROR"),
			slog.String("error", err.Error()),
		)
		httpx.WriteError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, uploadResponse{
		Headers: headers,
		Rows:    rows,
		File:    fileRef{ID: doc.FileID.String()},
	})
}

type fileSummary struct {
	ID         string   `json:"id"`
	DocumentID string   `json:"documentId"`
	FileName   string   `json:"fileName"`
	Headers    []string `json:"headers"`
	UploadedBy string   `json:"uploadedBy,omitempty"`
	CreatedAt  string   `json:"createdAt"`
}

func (h *FilesHandler) list(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Repo.ListDocuments(r.Context())
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
		return
	}
	out := make([]fileSummary, 0, len(docs))
	for _, doc := range docs {
		out = append(out, summaryOf(doc))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"files": out})
}

func (h *FilesHandler) get(w http.ResponseWriter, r *http.Request) {
	fileID, ok := parseFileID(w, r)
	if !ok {
		return
	}
	doc, err := h.Repo.GetDocument(r.Context(), fileID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			httpx.WriteError(w, r, http.StatusNotFound, "NOT_FOUND", "file not found", nil)
			return
		}
		httpx.WriteError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
		return
	}

	var rows [][]string
	if len(doc.Rows) > 0 {
		if err := json.Unmarshal(doc.Rows, &rows); err != nil {
			httpx.WriteError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
			return
		}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"file": summaryOf(doc),
		"rows": rows,
	})
}

func (h *FilesHandler) delete(w http.ResponseWriter, r *http.Request) {
	fileID, ok := parseFileID(w, r)
	if !ok {
		return
	}
	if err := h.Repo.DeleteDocument(r.Context(), fileID); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			httpx.WriteError(w, r, http.StatusNotFound, "NOT_FOUND", "file not found", nil)
			return
		}
		httpx.WriteError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"deleted": fileID.String()})
}

func summaryOf(doc models.FileDocument) fileSummary {
	return fileSummary{
		ID:         doc.FileID.String(),
		DocumentID: doc.DocumentID,
		FileName:   doc.FileName,
		Headers:    doc.Headers,
		UploadedBy: doc.UploadedBy,
		CreatedAt:  doc.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func parseFileID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	fileID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid file id", nil)
		return uuid.Nil, false
	}
	return fileID, true
}
