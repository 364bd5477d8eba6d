package models

import (
	"time"

	"gorm.io/gorm"
)

type PublicationStatus int

const (
	StatusDraft     PublicationStatus = 1
	StatusPublished PublicationStatus = 2
)

func (s PublicationStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

func (s PublicationStatus) Label() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusPublished:
		return "Published"
	default:
		return "Unknown"
	}
}

type Article struct {
	ID                uint              `json:"id" gorm:"primarykey"`
	Title             string            `json:"title" gorm:"not null"`
	Content           string            `json:"content" gorm:"type:text;not null"`
	AuthorID          uint              `json:"author_id" gorm:"not null"`
	Author            User              `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	PublicationAt     *time.Time        `json:"publication_at"`
	PublicationStatus PublicationStatus `json:"publication_status" gorm:"default:1"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	DeletedAt         gorm.DeletedAt    `json:"deleted_at" gorm:"index"`
}

// ArticleRow is the projection returned by the article list query: the
// article columns joined with the author's name.
type ArticleRow struct {
	ID                uint              `json:"id"`
	Title             string            `json:"title"`
	Content           string            `json:"content"`
	PublicationAt     *time.Time        `json:"publication_at"`
	PublicationStatus PublicationStatus `json:"publication_status"`
	DeletedAt         *time.Time        `json:"deleted_at"`
	Author            string            `json:"author"`
	AuthorID          uint              `json:"author_id"`
}

// ArticleFields are the five fields owned by the articles table. Create and
// update always write exactly this set.
type ArticleFields struct {
	Title             string
	Content           string
	AuthorID          uint
	PublicationAt     *time.Time
	PublicationStatus PublicationStatus
}
