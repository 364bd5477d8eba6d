package models

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ArticleInput is the create payload. Dates travel as ISO strings
// (2006-01-02) and are parsed at the service boundary.
type ArticleInput struct {
	Title             string             `json:"title" validate:"required,min=5,max=255"`
	Content           string             `json:"content" validate:"required,min=10"`
	AuthorID          uint               `json:"author_id"`
	PublicationAt     *string            `json:"publication_at"`
	PublicationStatus *PublicationStatus `json:"publication_status"`
}

// ArticleUpdateInput carries a partial submission. A nil field keeps the
// record's current value; for publication_at an empty string clears the date.
type ArticleUpdateInput struct {
	Title             *string            `json:"title"`
	Content           *string            `json:"content"`
	AuthorID          *uint              `json:"author_id"`
	PublicationAt     *string            `json:"publication_at"`
	PublicationStatus *PublicationStatus `json:"publication_status"`
}

type ArticleIDsRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

type ArticleListParams struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=10"`
}
