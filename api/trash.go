/*
trash.go - Papierkorb: restore or purge removed records

PURPOSE:
  Every destructive delete on the API first parks a JSON snapshot of the
  record in the trash. Users can list what they removed, put a record
  back, or purge the snapshot for good.

GRANULARITY:
  The snapshot captures the record itself plus the children that live
  inside its domain type (an employee's absences, an assignment's
  distribution). Children removed by a store cascade are NOT captured:
  restoring a project brings back the project, not its former work
  packages. Restore fails with 404/422 when the record's owner no longer
  exists.

SEE ALSO:
  - store/store.go: TrashEntry and the record-type constants
  - handlers.go: the delete handlers that feed the trash
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/novarix/planning-engine/staffing"
	"github.com/novarix/planning-engine/store"
)

// trashRecord snapshots one record before its deletion. The entry ID is
// derived from type and record ID, so deleting the same record twice keeps
// only the latest snapshot.
func (h *Handler) trashRecord(ctx context.Context, recordType, id string) error {
	var record any
	var err error

	switch recordType {
	case store.TrashEmployee:
		record, err = h.Store.GetEmployee(ctx, id) // absences included
	case store.TrashCompany:
		record, err = h.Store.GetCompany(ctx, id)
	case store.TrashProject:
		record, err = h.Store.GetProject(ctx, id)
	case store.TrashWorkPackage:
		record, err = h.Store.GetWorkPackage(ctx, id)
	case store.TrashAssignment:
		record, err = h.Store.GetAssignment(ctx, id) // distribution included
	default:
		return fmt.Errorf("unknown trash record type %q", recordType)
	}
	if err != nil {
		return err
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to snapshot %s %s: %w", recordType, id, err)
	}
	return h.Store.SaveTrashEntry(ctx, store.TrashEntry{
		ID:         fmt.Sprintf("tr-%s-%s", recordType, id),
		RecordType: recordType,
		RecordID:   id,
		Payload:    payload,
		DeletedAt:  time.Now().UTC(),
	})
}

// ListTrash returns all removed records, newest first.
// GET /api/v1/trash
func (h *Handler) ListTrash(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Store.ListTrash(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list trash", err)
		return
	}
	dtos := make([]TrashEntryDTO, len(entries))
	for i, t := range entries {
		dtos[i] = toTrashEntryDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RestoreTrashEntry puts a removed record back and drops the snapshot.
// POST /api/v1/trash/{id}/restore
func (h *Handler) RestoreTrashEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entry, err := h.Store.GetTrashEntry(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "trash entry", err)
		return
	}

	if err := h.restoreRecord(ctx, entry); err != nil {
		writeStoreError(w, entry.RecordType, err)
		return
	}
	if err := h.Store.DeleteTrashEntry(ctx, entry.ID); err != nil && !store.IsNotFound(err) {
		writeError(w, http.StatusInternalServerError, "Failed to drop trash entry", err)
		return
	}

	h.Log.WithField("record", entry.RecordID).Info("restored from trash")
	writeJSON(w, http.StatusOK, toTrashEntryDTO(entry))
}

func (h *Handler) restoreRecord(ctx context.Context, entry store.TrashEntry) error {
	switch entry.RecordType {
	case store.TrashEmployee:
		var e staffing.Employee
		if err := json.Unmarshal(entry.Payload, &e); err != nil {
			return err
		}
		if err := h.Store.SaveEmployee(ctx, e); err != nil {
			return err
		}
		for _, a := range e.Absences {
			if err := h.Store.AddAbsence(ctx, a); err != nil && err != store.ErrDuplicateID {
				return err
			}
		}
		return nil
	case store.TrashCompany:
		var c staffing.Company
		if err := json.Unmarshal(entry.Payload, &c); err != nil {
			return err
		}
		return h.Store.SaveCompany(ctx, c)
	case store.TrashProject:
		var p staffing.Project
		if err := json.Unmarshal(entry.Payload, &p); err != nil {
			return err
		}
		return h.Store.SaveProject(ctx, p)
	case store.TrashWorkPackage:
		var wp staffing.WorkPackage
		if err := json.Unmarshal(entry.Payload, &wp); err != nil {
			return err
		}
		return h.Store.SaveWorkPackage(ctx, wp)
	case store.TrashAssignment:
		var a staffing.Assignment
		if err := json.Unmarshal(entry.Payload, &a); err != nil {
			return err
		}
		return h.Store.SaveAssignment(ctx, a)
	default:
		return fmt.Errorf("unknown trash record type %q", entry.RecordType)
	}
}

// PurgeTrashEntry drops a snapshot for good.
// DELETE /api/v1/trash/{id}
func (h *Handler) PurgeTrashEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteTrashEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, "trash entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
