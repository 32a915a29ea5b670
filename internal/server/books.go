package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"librarydesk/internal/app"
	"librarydesk/pkg/domain"
)

type bookRequest struct {
	Title      *string `json:"title"`
	Author     *string `json:"author"`
	ISBN       *string `json:"isbn"`
	FileFormat *string `json:"file_format"`
}

func (b bookRequest) fileFormat() string {
	if b.FileFormat == nil {
		return ""
	}
	return *b.FileFormat
}

// Library-scoped book routes: /library/{id}/books[/{bookId}].

func (s *Server) handleLibraryBooks(w http.ResponseWriter, r *http.Request, libraryID uint) {
	switch r.Method {
	case http.MethodGet:
		books, err := s.app.LibraryBooks(libraryID)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, books)
	case http.MethodPost:
		var req bookRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if _, err := s.app.Library(libraryID); err != nil {
			s.writeAppError(w, r, err)
			return
		}
		if req.Title == nil || req.Author == nil || req.ISBN == nil {
			s.writeAppError(w, r, app.ErrMissingBookFields)
			return
		}
		book, err := s.app.AddBook(libraryID, *req.Title, *req.Author, *req.ISBN, req.fileFormat())
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, book)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleLibraryBookByID(w http.ResponseWriter, r *http.Request, libraryID, bookID uint) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	if err := s.app.RemoveBook(libraryID, bookID); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Book deleted successfully"})
}

// Global book routes: /books and /books/{id}.

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req bookRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Title == nil || req.Author == nil || req.ISBN == nil {
		s.writeAppError(w, r, app.ErrMissingBookFields)
		return
	}
	book, err := s.app.CreateBook(*req.Title, *req.Author, *req.ISBN, req.fileFormat())
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

func (s *Server) handleBookByID(w http.ResponseWriter, r *http.Request) {
	bookID, ok := parseID(strings.TrimPrefix(r.URL.Path, "/books/"))
	if !ok {
		notFound(w)
		return
	}
	switch r.Method {
	case http.MethodGet:
		book, err := s.app.Book(bookID)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, book)
	case http.MethodPut:
		var req bookRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		book, err := s.app.UpdateBook(bookID, domain.BookPatch{
			Title:  req.Title,
			Author: req.Author,
			ISBN:   req.ISBN,
		})
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, book)
	default:
		methodNotAllowed(w)
	}
}
