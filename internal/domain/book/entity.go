package book

import "time"

// Category is a literary genre from a closed set.
type Category string

const (
	CategoryAdventure Category = "Adventure"
	CategoryClassics  Category = "Classics"
	CategoryCrime     Category = "Crime"
	CategoryFantasy   Category = "Fantasy"
)

// Categories lists every accepted category in display order.
func Categories() []Category {
	return []Category{CategoryAdventure, CategoryClassics, CategoryCrime, CategoryFantasy}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryAdventure, CategoryClassics, CategoryCrime, CategoryFantasy:
		return true
	}
	return false
}

// Book represents a catalog entry owned by the user who created it.
type Book struct {
	ID          string
	Title       string
	Description string
	Author      string
	Price       float64
	Category    Category
	UserID      string // UserID references the owning user
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnedBy reports whether userID created the book.
func (b *Book) OwnedBy(userID string) bool {
	return b.UserID != "" && b.UserID == userID
}

// Patch holds the fields of a partial update; nil fields are left unchanged.
type Patch struct {
	Title       *string
	Description *string
	Author      *string
	Price       *float64
	Category    *Category
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Author == nil && p.Price == nil && p.Category == nil
}

// Apply merges the present fields of p into b.
func (p Patch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Price != nil {
		b.Price = *p.Price
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
}
