/*
documents.go - project document upload, listing and download

PURPOSE:
  Projects carry file attachments (offers, contracts, reports). Uploads
  are multipart form posts; listings return metadata only, the raw bytes
  are served by the download endpoint. Documents die with their project.

LIMITS:
  Uploads are capped at 20 MiB. There is no versioning; re-uploading with
  the same id replaces the stored document.

SEE ALSO:
  - store/store.go: SaveDocument / ListDocuments contract
  - dto.go: DocumentDTO
*/
package api

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/novarix/planning-engine/staffing"
)

const maxDocumentSize = 20 << 20 // 20 MiB

// UploadDocument stores a file under a project.
// POST /api/v1/projects/{id}/documents, multipart field "file".
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentSize)
	if err := r.ParseMultipartForm(maxDocumentSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart body", err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read upload", err)
		return
	}

	id := r.FormValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id form value is required", nil)
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	doc := staffing.Document{
		ID:          id,
		ProjectID:   projectID,
		Name:        header.Filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		UploadedAt:  time.Now().UTC(),
		Data:        data,
	}
	if err := h.Store.SaveDocument(r.Context(), doc); err != nil {
		writeStoreError(w, "project", err)
		return
	}

	h.Log.WithField("document", doc.ID).Info("document uploaded")
	writeJSON(w, http.StatusCreated, toDocumentDTO(doc))
}

// ListDocuments returns the metadata of a project's documents.
// GET /api/v1/projects/{id}/documents
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	if _, err := h.Store.GetProject(r.Context(), projectID); err != nil {
		writeStoreError(w, "project", err)
		return
	}
	docs, err := h.Store.ListDocuments(r.Context(), projectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list documents", err)
		return
	}
	dtos := make([]DocumentDTO, len(docs))
	for i, d := range docs {
		dtos[i] = toDocumentDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// DownloadDocument serves the stored bytes of one document.
// GET /api/v1/documents/{id}
func (h *Handler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Store.GetDocument(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "document", err)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": doc.Name})
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Data)
}

// DeleteDocument removes one document.
// DELETE /api/v1/documents/{id}
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteDocument(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, "document", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
