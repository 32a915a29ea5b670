package store

import (
	"time"

	"gorm.io/datatypes"

	"librarydesk/pkg/domain"
)

// GORM models. Table and column names follow the legacy schema so an
// existing database keeps working unchanged.

type LibraryModel struct {
	LibraryID uint   `gorm:"column:library_id;primaryKey;autoIncrement"`
	Name      string `gorm:"size:50;not null"`
	Password  string `gorm:"size:20;not null"`
}

func (LibraryModel) TableName() string { return "library" }

type BookModel struct {
	BookID   uint       `gorm:"column:book_id;primaryKey;autoIncrement"`
	Title    string     `gorm:"size:50;not null"`
	Author   string     `gorm:"size:50;not null"`
	ISBN     string     `gorm:"column:isbn;size:50;not null"`
	Status   string     `gorm:"size:20;default:available"`
	LentTo   *uint      `gorm:"column:lent_to"`
	LentDate *time.Time `gorm:"column:lent_date"`
}

func (BookModel) TableName() string { return "book" }

type MemberModel struct {
	MemberID uint   `gorm:"column:member_id;primaryKey;autoIncrement"`
	Name     string `gorm:"size:50;not null"`
}

func (MemberModel) TableName() string { return "member" }

// EbookModel shares the book's primary key (one-to-one extension).
type EbookModel struct {
	BookID     uint   `gorm:"column:book_id;primaryKey"`
	FileFormat string `gorm:"size:25;not null"`
}

func (EbookModel) TableName() string { return "ebook" }

// BorrowedBookModel keeps borrow_date as a DATE column.
type BorrowedBookModel struct {
	BorrowID   uint           `gorm:"column:borrow_id;primaryKey;autoIncrement"`
	MemberID   uint           `gorm:"column:member_id;not null"`
	BookID     uint           `gorm:"column:book_id;not null"`
	BorrowDate datatypes.Date `gorm:"column:borrow_date"`
}

func (BorrowedBookModel) TableName() string { return "borrowedbooks" }

// Association tables. The composite primary keys make duplicate
// membership rows impossible.

type LibraryBookModel struct {
	LibraryID uint `gorm:"column:library_id;primaryKey"`
	BookID    uint `gorm:"column:book_id;primaryKey"`
}

func (LibraryBookModel) TableName() string { return "joinlibrarybooks" }

type LibraryMemberModel struct {
	LibraryID uint `gorm:"column:library_id;primaryKey"`
	MemberID  uint `gorm:"column:member_id;primaryKey"`
}

func (LibraryMemberModel) TableName() string { return "joinlibrarymembers" }

func libraryFromModel(m LibraryModel) domain.Library {
	return domain.Library{
		ID:       m.LibraryID,
		Name:     m.Name,
		Password: m.Password,
	}
}

func bookFromModel(m BookModel) domain.Book {
	return domain.Book{
		ID:       m.BookID,
		Title:    m.Title,
		Author:   m.Author,
		ISBN:     m.ISBN,
		Status:   domain.BookStatus(m.Status),
		LentTo:   m.LentTo,
		LentDate: m.LentDate,
	}
}

func memberFromModel(m MemberModel) domain.Member {
	return domain.Member{
		ID:   m.MemberID,
		Name: m.Name,
	}
}

func loanFromModel(m BorrowedBookModel) domain.BorrowedBook {
	return domain.BorrowedBook{
		ID:         m.BorrowID,
		MemberID:   m.MemberID,
		BookID:     m.BookID,
		BorrowDate: time.Time(m.BorrowDate),
	}
}
