package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/hackgods/dental-clinic-scheduling/internal/directory"
)

func staffInput(req StaffRequest) directory.StaffInput {
	return directory.StaffInput{
		Name:            req.Name,
		Role:            req.Role,
		Specialization:  req.Specialization,
		Phone:           req.Phone,
		Telegram:        req.Telegram,
		Email:           req.Email,
		Status:          req.Status,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}
}

func patientInput(req PatientRequest) directory.PatientInput {
	return directory.PatientInput{
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		Address:        req.Address,
		Allergies:      req.Allergies,
		MedicalHistory: req.MedicalHistory,
	}
}

func listStaffHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staff, err := svc.ListStaff(r.Context())
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, staff)
	}
}

func listDentistsHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dentists, err := svc.Dentists(r.Context())
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, dentists)
	}
}

func createStaffHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StaffRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		st, err := svc.CreateStaff(r.Context(), staffInput(req))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, st)
	}
}

func getStaffHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		st, err := svc.GetStaff(r.Context(), id)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func updateStaffHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		var req StaffRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		st, err := svc.UpdateStaff(r.Context(), id, staffInput(req))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func deleteStaffHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		if err := svc.DeleteStaff(r.Context(), id); err != nil {
			handleServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// checkUniqueHandler serves the live form checks for phone and telegram.
func checkUniqueHandler(param string, check func(r *http.Request, value string, exclude uuid.UUID) (bool, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		value := r.URL.Query().Get(param)
		if value == "" {
			writeError(w, http.StatusBadRequest, "missing_"+param, param+" is required")
			return
		}
		exclude := uuid.Nil
		if raw := r.URL.Query().Get("exclude"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_exclude", "exclude must be a valid UUID")
				return
			}
			exclude = id
		}
		unique, err := check(r, value, exclude)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, UniqueResponse{Unique: unique})
	}
}

func listPatientsHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patients, err := svc.ListPatients(r.Context())
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, patients)
	}
}

func createPatientHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PatientRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		p, err := svc.CreatePatient(r.Context(), patientInput(req))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func getPatientHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		p, err := svc.GetPatient(r.Context(), id)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func updatePatientHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		var req PatientRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		p, err := svc.UpdatePatient(r.Context(), id, patientInput(req))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func deletePatientHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		if err := svc.DeletePatient(r.Context(), id); err != nil {
			handleServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
