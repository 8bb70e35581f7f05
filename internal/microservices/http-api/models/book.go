package models

// Book is a lendable copy. HolderID is nil while the book is on the shelf.
type Book struct {
	ID       int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title    string `gorm:"not null;index" json:"title"`
	Author   string `gorm:"not null;index" json:"author"`
	HolderID *int64 `gorm:"index" json:"holder"`

	// Association, only used to declare the holder foreign key
	Holder *User `gorm:"foreignKey:HolderID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Book) TableName() string {
	return "books"
}

// CurrentHolder reports who holds the book, if anyone.
func (b *Book) CurrentHolder() (int64, bool) {
	if b.HolderID == nil {
		return 0, false
	}
	return *b.HolderID, true
}

// IsSignedOut reports whether any user holds the book.
func (b *Book) IsSignedOut() bool {
	return b.HolderID != nil
}

// HeldBy reports whether userID is the current holder.
func (b *Book) HeldBy(userID int64) bool {
	return b.HolderID != nil && *b.HolderID == userID
}
