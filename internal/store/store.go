package store

import (
	"errors"
	"time"

	"librarydesk/pkg/domain"
)

// Sentinel errors returned by the lending operations. Both are decided
// inside the store transaction so concurrent lend attempts on the same
// book resolve to exactly one winner.
var (
	ErrNotInLibrary    = errors.New("book or member not in library scope")
	ErrAlreadyBorrowed = errors.New("book already borrowed")
)

// Store defines persistence for libraries, books, members and loans.
// Callers receive an explicit Store handle; there is no ambient session.
// Every method that touches more than one row runs in a single
// transaction inside the implementation.
type Store interface {
	// libraries
	CreateLibrary(name, password string) (domain.Library, error)
	GetLibrary(id uint) (domain.Library, bool, error)
	ListLibraries() ([]domain.Library, error)
	UpdateLibrary(id uint, patch domain.LibraryPatch) (domain.Library, bool, error)
	DeleteLibrary(id uint) (bool, error)
	FindLibraryByCredentials(id uint, password string) (domain.Library, bool, error)

	// books
	CreateBook(title, author, isbn, fileFormat string) (domain.Book, error)
	CreateBookInLibrary(libraryID uint, title, author, isbn, fileFormat string) (domain.Book, error)
	GetBook(id uint) (domain.Book, bool, error)
	UpdateBook(id uint, patch domain.BookPatch) (domain.Book, bool, error)
	DeleteBook(id uint) (bool, error)
	GetEbook(bookID uint) (domain.Ebook, bool, error)

	// members
	CreateMember(name string) (domain.Member, error)
	CreateMemberInLibrary(libraryID uint, name string) (domain.Member, error)
	GetMember(id uint) (domain.Member, bool, error)
	UpdateMember(id uint, patch domain.MemberPatch) (domain.Member, bool, error)
	DeleteMember(id uint) (bool, error)

	// library associations
	AddBookToLibrary(libraryID, bookID uint) error
	AddMemberToLibrary(libraryID, memberID uint) error
	RemoveMemberFromLibrary(libraryID, memberID uint) (bool, error)
	LibraryBooks(libraryID uint) ([]domain.Book, error)
	LibraryMembers(libraryID uint) ([]domain.Member, error)
	BookInLibrary(libraryID, bookID uint) (domain.Book, bool, error)
	MemberInLibrary(libraryID, memberID uint) (domain.Member, bool, error)

	// lending
	LendBook(libraryID, bookID, memberID uint, at time.Time) (domain.Book, error)
	ReturnBook(libraryID, bookID, memberID uint) (domain.Book, error)
	ActiveLoan(bookID uint) (domain.BorrowedBook, bool, error)
}
