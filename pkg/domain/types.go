package domain

import "time"

type BookStatus string

const (
	StatusAvailable BookStatus = "available"
	StatusBorrowed  BookStatus = "borrowed"
)

// Library is a tenant scope owning associated members and books.
// Password is stored and compared in plaintext to keep the legacy
// login contract; the JSON field is part of the wire format.
type Library struct {
	ID       uint   `json:"library_id"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type Book struct {
	ID       uint       `json:"book_id"`
	Title    string     `json:"title"`
	Author   string     `json:"author"`
	ISBN     string     `json:"isbn"`
	Status   BookStatus `json:"status"`
	LentTo   *uint      `json:"lent_to"`
	LentDate *time.Time `json:"lent_date"`
}

type Member struct {
	ID   uint   `json:"member_id"`
	Name string `json:"name"`
}

// Ebook is the electronic-format extension of a book. It shares the
// book's identity and is deleted together with it.
type Ebook struct {
	BookID     uint   `json:"book_id"`
	FileFormat string `json:"file_format"`
}

// BorrowedBook records an active loan. An outstanding row here is the
// canonical signal that a book is out, alongside Book.Status.
type BorrowedBook struct {
	ID         uint      `json:"borrow_id"`
	MemberID   uint      `json:"member_id"`
	BookID     uint      `json:"book_id"`
	BorrowDate time.Time `json:"borrow_date"`
}

// Patch types for partial updates. A nil field means "leave unchanged".

type LibraryPatch struct {
	Name     *string
	Password *string
}

type BookPatch struct {
	Title  *string
	Author *string
	ISBN   *string
}

type MemberPatch struct {
	Name *string
}
