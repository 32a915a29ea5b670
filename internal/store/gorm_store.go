package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"librarydesk/pkg/domain"
)

// GormStore implements Store on a relational database via GORM.
type GormStore struct {
	db *gorm.DB
}

// Open connects to the database behind dsn and runs auto-migrations.
// Postgres DSNs (postgres:// or key=value form) use the Postgres driver;
// anything else is treated as a SQLite path.
func Open(dsn string) (*GormStore, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return NewGormStore(db)
}

// NewGormStore wraps an existing GORM handle and runs auto-migrations.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(
		&LibraryModel{},
		&BookModel{},
		&MemberModel{},
		&EbookModel{},
		&BorrowedBookModel{},
		&LibraryBookModel{},
		&LibraryMemberModel{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// --- libraries ---

func (s *GormStore) CreateLibrary(name, password string) (domain.Library, error) {
	model := LibraryModel{Name: name, Password: password}
	if err := s.db.Create(&model).Error; err != nil {
		return domain.Library{}, err
	}
	return libraryFromModel(model), nil
}

func (s *GormStore) GetLibrary(id uint) (domain.Library, bool, error) {
	var model LibraryModel
	if err := s.db.First(&model, "library_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Library{}, false, nil
		}
		return domain.Library{}, false, err
	}
	return libraryFromModel(model), true, nil
}

func (s *GormStore) ListLibraries() ([]domain.Library, error) {
	var models []LibraryModel
	if err := s.db.Order("library_id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Library, 0, len(models))
	for _, m := range models {
		res = append(res, libraryFromModel(m))
	}
	return res, nil
}

func (s *GormStore) UpdateLibrary(id uint, patch domain.LibraryPatch) (domain.Library, bool, error) {
	var out domain.Library
	found := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var model LibraryModel
		if err := tx.First(&model, "library_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true
		if patch.Name != nil {
			model.Name = *patch.Name
		}
		if patch.Password != nil {
			model.Password = *patch.Password
		}
		if err := tx.Save(&model).Error; err != nil {
			return err
		}
		out = libraryFromModel(model)
		return nil
	})
	return out, found, err
}

// DeleteLibrary removes the library and its association rows only.
// Members and books the library pointed at are left untouched.
func (s *GormStore) DeleteLibrary(id uint) (bool, error) {
	found := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var model LibraryModel
		if err := tx.First(&model, "library_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true
		if err := tx.Delete(&LibraryBookModel{}, "library_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&LibraryMemberModel{}, "library_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&LibraryModel{}, "library_id = ?", id).Error
	})
	return found, err
}

func (s *GormStore) FindLibraryByCredentials(id uint, password string) (domain.Library, bool, error) {
	var model LibraryModel
	err := s.db.First(&model, "library_id = ? AND password = ?", id, password).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Library{}, false, nil
		}
		return domain.Library{}, false, err
	}
	return libraryFromModel(model), true, nil
}

// --- books ---

func (s *GormStore) CreateBook(title, author, isbn, fileFormat string) (domain.Book, error) {
	var out domain.Book
	err := s.db.Transaction(func(tx *gorm.DB) error {
		book, err := createBookTx(tx, title, author, isbn, fileFormat)
		if err != nil {
			return err
		}
		out = book
		return nil
	})
	return out, err
}

func (s *GormStore) CreateBookInLibrary(libraryID uint, title, author, isbn, fileFormat string) (domain.Book, error) {
	var out domain.Book
	err := s.db.Transaction(func(tx *gorm.DB) error {
		book, err := createBookTx(tx, title, author, isbn, fileFormat)
		if err != nil {
			return err
		}
		if err := tx.Create(&LibraryBookModel{LibraryID: libraryID, BookID: book.ID}).Error; err != nil {
			return err
		}
		out = book
		return nil
	})
	return out, err
}

func createBookTx(tx *gorm.DB, title, author, isbn, fileFormat string) (domain.Book, error) {
	model := BookModel{
		Title:  title,
		Author: author,
		ISBN:   isbn,
		Status: string(domain.StatusAvailable),
	}
	if err := tx.Create(&model).Error; err != nil {
		return domain.Book{}, err
	}
	if fileFormat != "" {
		ebook := EbookModel{BookID: model.BookID, FileFormat: fileFormat}
		if err := tx.Create(&ebook).Error; err != nil {
			return domain.Book{}, err
		}
	}
	return bookFromModel(model), nil
}

func (s *GormStore) GetBook(id uint) (domain.Book, bool, error) {
	var model BookModel
	if err := s.db.First(&model, "book_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Book{}, false, nil
		}
		return domain.Book{}, false, err
	}
	return bookFromModel(model), true, nil
}

func (s *GormStore) UpdateBook(id uint, patch domain.BookPatch) (domain.Book, bool, error) {
	var out domain.Book
	found := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var model BookModel
		if err := tx.First(&model, "book_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true
		if patch.Title != nil {
			model.Title = *patch.Title
		}
		if patch.Author != nil {
			model.Author = *patch.Author
		}
		if patch.ISBN != nil {
			model.ISBN = *patch.ISBN
		}
		if err := tx.Save(&model).Error; err != nil {
			return err
		}
		out = bookFromModel(model)
		return nil
	})
	return out, found, err
}

// DeleteBook removes a book together with everything it owns: its ebook
// extension, any loan rows, and its library association rows.
func (s *GormStore) DeleteBook(id uint) (bool, error) {
	found := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var model BookModel
		if err := tx.First(&model, "book_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true
		if err := tx.Delete(&EbookModel{}, "book_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&BorrowedBookModel{}, "book_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&LibraryBookModel{}, "book_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&BookModel{}, "book_id = ?", id).Error
	})
	return found, err
}

func (s *GormStore) GetEbook(bookID uint) (domain.Ebook, bool, error) {
	var model EbookModel
	if err := s.db.First(&model, "book_id = ?", bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Ebook{}, false, nil
		}
		return domain.Ebook{}, false, err
	}
	return domain.Ebook{BookID: model.BookID, FileFormat: model.FileFormat}, true, nil
}

// --- members ---

func (s *GormStore) CreateMember(name string) (domain.Member, error) {
	model := MemberModel{Name: name}
	if err := s.db.Create(&model).Error; err != nil {
		return domain.Member{}, err
	}
	return memberFromModel(model), nil
}

func (s *GormStore) CreateMemberInLibrary(libraryID uint, name string) (domain.Member, error) {
	var out domain.Member
	err := s.db.Transaction(func(tx *gorm.DB) error {
		model := MemberModel{Name: name}
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		if err := tx.Create(&LibraryMemberModel{LibraryID: libraryID, MemberID: model.MemberID}).Error; err != nil {
			return err
		}
		out = memberFromModel(model)
		return nil
	})
	return out, err
}

func (s *GormStore) GetMember(id uint) (domain.Member, bool, error) {
	var model MemberModel
	if err := s.db.First(&model, "member_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Member{}, false, nil
		}
		return domain.Member{}, false, err
	}
	return memberFromModel(model), true, nil
}

func (s *GormStore) UpdateMember(id uint, patch domain.MemberPatch) (domain.Member, bool, error) {
	var out domain.Member
	found := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var model MemberModel
		if err := tx.First(&model, "member_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true
		if patch.Name != nil {
			model.Name = *patch.Name
		}
		if err := tx.Save(&model).Error; err != nil {
			return err
		}
		out = memberFromModel(model)
		return nil
	})
	return out, found, err
}

// DeleteMember removes the member entity and its library associations.
func (s *GormStore) DeleteMember(id uint) (bool, error) {
	found := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var model MemberModel
		if err := tx.First(&model, "member_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true
		if err := tx.Delete(&LibraryMemberModel{}, "member_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&MemberModel{}, "member_id = ?", id).Error
	})
	return found, err
}

// --- associations ---

func (s *GormStore) AddBookToLibrary(libraryID, bookID uint) error {
	return s.db.Create(&LibraryBookModel{LibraryID: libraryID, BookID: bookID}).Error
}

func (s *GormStore) AddMemberToLibrary(libraryID, memberID uint) error {
	return s.db.Create(&LibraryMemberModel{LibraryID: libraryID, MemberID: memberID}).Error
}

func (s *GormStore) RemoveMemberFromLibrary(libraryID, memberID uint) (bool, error) {
	res := s.db.Delete(&LibraryMemberModel{}, "library_id = ? AND member_id = ?", libraryID, memberID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) LibraryBooks(libraryID uint) ([]domain.Book, error) {
	var models []BookModel
	err := s.db.
		Joins("JOIN joinlibrarybooks ON joinlibrarybooks.book_id = book.book_id").
		Where("joinlibrarybooks.library_id = ?", libraryID).
		Order("book.book_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	res := make([]domain.Book, 0, len(models))
	for _, m := range models {
		res = append(res, bookFromModel(m))
	}
	return res, nil
}

func (s *GormStore) LibraryMembers(libraryID uint) ([]domain.Member, error) {
	var models []MemberModel
	err := s.db.
		Joins("JOIN joinlibrarymembers ON joinlibrarymembers.member_id = member.member_id").
		Where("joinlibrarymembers.library_id = ?", libraryID).
		Order("member.member_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	res := make([]domain.Member, 0, len(models))
	for _, m := range models {
		res = append(res, memberFromModel(m))
	}
	return res, nil
}

func (s *GormStore) BookInLibrary(libraryID, bookID uint) (domain.Book, bool, error) {
	var model BookModel
	err := s.db.
		Joins("JOIN joinlibrarybooks ON joinlibrarybooks.book_id = book.book_id").
		Where("joinlibrarybooks.library_id = ? AND book.book_id = ?", libraryID, bookID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Book{}, false, nil
		}
		return domain.Book{}, false, err
	}
	return bookFromModel(model), true, nil
}

func (s *GormStore) MemberInLibrary(libraryID, memberID uint) (domain.Member, bool, error) {
	var model MemberModel
	err := s.db.
		Joins("JOIN joinlibrarymembers ON joinlibrarymembers.member_id = member.member_id").
		Where("joinlibrarymembers.library_id = ? AND member.member_id = ?", libraryID, memberID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Member{}, false, nil
		}
		return domain.Member{}, false, err
	}
	return memberFromModel(model), true, nil
}

// --- lending ---

// LendBook moves a book to borrowed and records the loan. The scope
// checks and the availability re-check all happen inside one
// transaction: under concurrent lends the first committer wins and the
// loser sees ErrAlreadyBorrowed.
func (s *GormStore) LendBook(libraryID, bookID, memberID uint, at time.Time) (domain.Book, error) {
	var out domain.Book
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var book BookModel
		err := tx.
			Joins("JOIN joinlibrarybooks ON joinlibrarybooks.book_id = book.book_id").
			Where("joinlibrarybooks.library_id = ? AND book.book_id = ?", libraryID, bookID).
			First(&book).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotInLibrary
			}
			return err
		}
		var memberCount int64
		if err := tx.Model(&LibraryMemberModel{}).
			Where("library_id = ? AND member_id = ?", libraryID, memberID).
			Count(&memberCount).Error; err != nil {
			return err
		}
		if memberCount == 0 {
			return ErrNotInLibrary
		}
		if book.Status == string(domain.StatusBorrowed) {
			return ErrAlreadyBorrowed
		}

		lentDate := at
		if err := tx.Model(&BookModel{}).
			Where("book_id = ?", bookID).
			Updates(map[string]any{
				"status":    string(domain.StatusBorrowed),
				"lent_to":   memberID,
				"lent_date": lentDate,
			}).Error; err != nil {
			return err
		}
		loan := BorrowedBookModel{
			MemberID:   memberID,
			BookID:     bookID,
			BorrowDate: datatypes.Date(at),
		}
		if err := tx.Create(&loan).Error; err != nil {
			return err
		}

		book.Status = string(domain.StatusBorrowed)
		book.LentTo = &memberID
		book.LentDate = &lentDate
		out = bookFromModel(book)
		return nil
	})
	return out, err
}

// ReturnBook clears the book's lending fields and deletes the matching
// loan row. A missing loan row is not an error: the fields are cleared
// anyway so the book record converges back to available.
func (s *GormStore) ReturnBook(libraryID, bookID, memberID uint) (domain.Book, error) {
	var out domain.Book
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var book BookModel
		err := tx.
			Joins("JOIN joinlibrarybooks ON joinlibrarybooks.book_id = book.book_id").
			Where("joinlibrarybooks.library_id = ? AND book.book_id = ?", libraryID, bookID).
			First(&book).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotInLibrary
			}
			return err
		}
		var memberCount int64
		if err := tx.Model(&LibraryMemberModel{}).
			Where("library_id = ? AND member_id = ?", libraryID, memberID).
			Count(&memberCount).Error; err != nil {
			return err
		}
		if memberCount == 0 {
			return ErrNotInLibrary
		}

		if err := tx.Model(&BookModel{}).
			Where("book_id = ?", bookID).
			Updates(map[string]any{
				"status":    string(domain.StatusAvailable),
				"lent_to":   nil,
				"lent_date": nil,
			}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&BorrowedBookModel{}, "book_id = ? AND member_id = ?", bookID, memberID).Error; err != nil {
			return err
		}

		book.Status = string(domain.StatusAvailable)
		book.LentTo = nil
		book.LentDate = nil
		out = bookFromModel(book)
		return nil
	})
	return out, err
}

func (s *GormStore) ActiveLoan(bookID uint) (domain.BorrowedBook, bool, error) {
	var model BorrowedBookModel
	if err := s.db.First(&model, "book_id = ?", bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.BorrowedBook{}, false, nil
		}
		return domain.BorrowedBook{}, false, err
	}
	return loanFromModel(model), true, nil
}
