package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"librarydesk/internal/app"
	"librarydesk/pkg/domain"
)

// Library-scoped member routes: /library/{id}/members[/{memberId}].

func (s *Server) handleLibraryMembers(w http.ResponseWriter, r *http.Request, libraryID uint) {
	switch r.Method {
	case http.MethodGet:
		members, err := s.app.Members(libraryID)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, members)
	case http.MethodPost:
		var req struct {
			Name any `json:"name"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		// Library existence outranks payload validation.
		if _, err := s.app.Library(libraryID); err != nil {
			s.writeAppError(w, r, err)
			return
		}
		name, ok := req.Name.(string)
		if !ok {
			s.writeAppError(w, r, app.ErrInvalidMemberName)
			return
		}
		member, err := s.app.AddMember(libraryID, name)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, member)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleLibraryMemberByID(w http.ResponseWriter, r *http.Request, libraryID, memberID uint) {
	switch r.Method {
	case http.MethodGet:
		member, err := s.app.LibraryMember(libraryID, memberID)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, member)
	case http.MethodDelete:
		if err := s.app.RemoveMember(libraryID, memberID); err != nil {
			s.writeAppError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

// Global member routes: /members and /members/{id}.

func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req struct {
		Name any `json:"name"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	name, ok := req.Name.(string)
	if !ok {
		s.writeAppError(w, r, app.ErrInvalidMemberName)
		return
	}
	member, err := s.app.CreateMember(name)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (s *Server) handleMemberByID(w http.ResponseWriter, r *http.Request) {
	memberID, ok := parseID(strings.TrimPrefix(r.URL.Path, "/members/"))
	if !ok {
		notFound(w)
		return
	}
	switch r.Method {
	case http.MethodGet:
		member, err := s.app.Member(memberID)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, member)
	case http.MethodPut:
		var req struct {
			Name *string `json:"name"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		member, err := s.app.UpdateMember(memberID, domain.MemberPatch{Name: req.Name})
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, member)
	case http.MethodDelete:
		if err := s.app.DeleteMember(memberID); err != nil {
			s.writeAppError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}
