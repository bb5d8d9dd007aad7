package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hackgods/dental-clinic-scheduling/internal/chart"
	"github.com/hackgods/dental-clinic-scheduling/internal/records"
)

// toothParam reads {tooth} as an FDI number such as 14.
func toothParam(w http.ResponseWriter, r *http.Request) (chart.ToothNumber, bool) {
	t, err := chart.ParseTooth(chi.URLParam(r, "tooth"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_tooth", err.Error())
		return 0, false
	}
	return t, true
}

func getChartHandler(svc *chart.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		c, err := svc.GetChart(r.Context(), patientID)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func setToothStatusHandler(svc *chart.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		tooth, ok := toothParam(w, r)
		if !ok {
			return
		}
		var req ToothStatusRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		rec, err := svc.SetStatus(r.Context(), patientID, tooth, chart.Status(req.Status))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func setToothNotesHandler(svc *chart.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		tooth, ok := toothParam(w, r)
		if !ok {
			return
		}
		var req ToothNotesRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		rec, err := svc.SetNotes(r.Context(), patientID, tooth, req.Notes)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func addTreatmentHandler(svc *chart.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		tooth, ok := toothParam(w, r)
		if !ok {
			return
		}
		var req TreatmentRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		entry, err := svc.AddTreatment(r.Context(), patientID, tooth, chart.AddTreatmentInput{
			TreatmentType: req.TreatmentType,
			DentistID:     uuid.MustParse(req.DentistID),
			Date:          req.Date,
			Surface:       req.Surface,
			Notes:         req.Notes,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, entry)
	}
}

func deleteTreatmentHandler(svc *chart.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		tooth, ok := toothParam(w, r)
		if !ok {
			return
		}
		treatmentID, ok := urlID(w, r, "treatmentID")
		if !ok {
			return
		}
		if err := svc.DeleteTreatment(r.Context(), patientID, tooth, treatmentID); err != nil {
			handleServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func treatmentCatalogHandler(svc *chart.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Catalog().List())
	}
}

// Clinical notes and images

func listNotesHandler(svc *records.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		notes, err := svc.ListNotes(r.Context(), patientID)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, notes)
	}
}

func addNoteHandler(svc *records.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		var req NoteRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		n, err := svc.AddNote(r.Context(), patientID, records.NoteInput{
			DentistID: uuid.MustParse(req.DentistID),
			Date:      req.Date,
			Title:     req.Title,
			Content:   req.Content,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, n)
	}
}

func deleteNoteHandler(svc *records.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		noteID, ok := urlID(w, r, "noteID")
		if !ok {
			return
		}
		if err := svc.DeleteNote(r.Context(), patientID, noteID); err != nil {
			handleServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listImagesHandler(svc *records.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		images, err := svc.ListImages(r.Context(), patientID)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, images)
	}
}

func addImageHandler(svc *records.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		var req ImageRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		img, err := svc.AddImage(r.Context(), patientID, records.ImageInput{
			Kind:     req.Kind,
			FileName: req.FileName,
			TakenAt:  req.TakenAt,
			Notes:    req.Notes,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, img)
	}
}

func deleteImageHandler(svc *records.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		imageID, ok := urlID(w, r, "imageID")
		if !ok {
			return
		}
		if err := svc.DeleteImage(r.Context(), patientID, imageID); err != nil {
			handleServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
