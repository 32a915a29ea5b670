package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"librarydesk/internal/app"
	"librarydesk/internal/util"
	"librarydesk/pkg/domain"
)

func (s *Server) handleLibraries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		libraries, err := s.app.Libraries()
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, libraries)
	case http.MethodPost:
		s.handleCreateLibrary(w, r)
	default:
		methodNotAllowed(w)
	}
}

// Fields arrive untyped so a missing value and a wrong-typed value can
// both be rejected with the field-specific message.
func (s *Server) handleCreateLibrary(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     any `json:"name"`
		Password any `json:"password"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	name, ok := req.Name.(string)
	if !ok {
		s.writeAppError(w, r, app.ErrInvalidName)
		return
	}
	password, ok := req.Password.(string)
	if !ok {
		s.writeAppError(w, r, app.ErrInvalidPassword)
		return
	}
	library, err := s.app.CreateLibrary(name, password)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, library)
}

func (s *Server) handleLibraryByID(w http.ResponseWriter, r *http.Request, libraryID uint) {
	switch r.Method {
	case http.MethodGet:
		library, err := s.app.Library(libraryID)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, library)
	case http.MethodPut:
		s.handleUpdateLibrary(w, r, libraryID)
	case http.MethodDelete:
		if err := s.app.DeleteLibrary(libraryID); err != nil {
			s.writeAppError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

// Updates decode into a map so "field absent" and "field present but
// invalid" stay distinguishable.
func (s *Server) handleUpdateLibrary(w http.ResponseWriter, r *http.Request, libraryID uint) {
	var data map[string]any
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	// Existence check runs first so a bad payload against a missing
	// library still reports the 404.
	if _, err := s.app.Library(libraryID); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	var patch domain.LibraryPatch
	if raw, present := data["name"]; present {
		name, ok := raw.(string)
		if !ok {
			s.writeAppError(w, r, app.ErrInvalidName)
			return
		}
		patch.Name = &name
	}
	if raw, present := data["password"]; present {
		password, ok := raw.(string)
		if !ok {
			s.writeAppError(w, r, app.ErrInvalidPassword)
			return
		}
		patch.Password = &password
	}
	library, err := s.app.UpdateLibrary(libraryID, patch)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, library)
}

type loginResponse struct {
	Success   bool   `json:"success"`
	LibraryID uint   `json:"libraryId,omitempty"`
	Message   string `json:"message,omitempty"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if s.loginLimiter != nil && !s.loginLimiter.Allow(util.ClientIP(r, s.proxies)) {
		writeError(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	var req struct {
		LibraryID any `json:"libraryId"`
		Password  any `json:"password"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	libraryID, idOK := loginLibraryID(req.LibraryID)
	password, pwOK := req.Password.(string)
	if !idOK || !pwOK || password == "" {
		writeJSON(w, http.StatusBadRequest, loginResponse{Success: false, Message: app.ErrLoginFieldsRequired.Error()})
		return
	}
	library, err := s.app.Login(libraryID, password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, loginResponse{Success: false, Message: app.ErrBadCredentials.Error()})
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Success: true, LibraryID: library.ID})
}

// loginLibraryID accepts the id as a JSON number or a numeric string;
// zero and empty count as missing.
func loginLibraryID(raw any) (uint, bool) {
	switch v := raw.(type) {
	case float64:
		if v <= 0 {
			return 0, false
		}
		return uint(v), true
	case string:
		if v == "" {
			return 0, false
		}
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			// A non-numeric id passes the presence check but can
			// never match a library, so it reads as bad credentials.
			return 0, true
		}
		return uint(id), true
	default:
		return 0, false
	}
}
