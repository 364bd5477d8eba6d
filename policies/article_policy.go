package policies

import (
	"articles-admin/models"
)

// AdminCheck reports whether a principal has the admin capability. The
// policy is built around this single check rather than a role hierarchy.
type AdminCheck func(principal *models.User) bool

type ArticlePolicy struct {
	isAdmin AdminCheck
}

func NewArticlePolicy(isAdmin AdminCheck) *ArticlePolicy {
	if isAdmin == nil {
		isAdmin = func(principal *models.User) bool {
			return principal != nil && principal.IsAdmin
		}
	}
	return &ArticlePolicy{isAdmin: isAdmin}
}

func (p *ArticlePolicy) IsAdmin(principal *models.User) bool {
	return p.isAdmin(principal)
}

// CanManage allows admins and the article's own author to view or edit the
// record.
func (p *ArticlePolicy) CanManage(principal *models.User, article *models.Article) bool {
	if p.isAdmin(principal) {
		return true
	}
	return principal != nil && article != nil && principal.ID == article.AuthorID
}

// ApplyCreateOverride forces the fields a non-admin may not choose at
// creation time: the article is theirs, a draft, with no publication date.
// Submitted values are not trusted.
func (p *ArticlePolicy) ApplyCreateOverride(principal *models.User, fields *models.ArticleFields) {
	if p.isAdmin(principal) {
		return
	}
	fields.AuthorID = principal.ID
	fields.PublicationStatus = models.StatusDraft
	fields.PublicationAt = nil
}

// ApplyUpdateOverride keeps the record's current author, status and
// publication date for non-admin principals, whatever the submission said.
func (p *ArticlePolicy) ApplyUpdateOverride(principal *models.User, existing *models.Article, fields *models.ArticleFields) {
	if p.isAdmin(principal) {
		return
	}
	fields.AuthorID = existing.AuthorID
	fields.PublicationStatus = existing.PublicationStatus
	fields.PublicationAt = existing.PublicationAt
}
