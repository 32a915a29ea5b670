package server

import (
	"encoding/json"
	"io"
	"net/http"

	"librarydesk/internal/app"
	"librarydesk/pkg/domain"
)

type lendRequest struct {
	BookID   *uint `json:"book_id"`
	MemberID *uint `json:"member_id"`
}

type lendResponse struct {
	Message string      `json:"message"`
	Book    domain.Book `json:"book"`
}

func (s *Server) handleLend(w http.ResponseWriter, r *http.Request, libraryID uint) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req lendRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	// A missing id can never resolve within the library's scope.
	if req.BookID == nil || req.MemberID == nil {
		s.writeAppError(w, r, app.ErrNotInLibrary)
		return
	}
	book, err := s.app.Lend(libraryID, *req.BookID, *req.MemberID)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lendResponse{Message: "Book lent successfully", Book: book})
}

func (s *Server) handleReturn(w http.ResponseWriter, r *http.Request, libraryID uint) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req lendRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.BookID == nil || req.MemberID == nil {
		s.writeAppError(w, r, app.ErrNotInLibrary)
		return
	}
	book, err := s.app.Return(libraryID, *req.BookID, *req.MemberID)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lendResponse{Message: "Book returned successfully", Book: book})
}
