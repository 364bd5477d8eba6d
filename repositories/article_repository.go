package repositories

import (
	"articles-admin/models"

	"gorm.io/gorm"
)

// ArticleRepository owns every query against the articles table, including
// the soft-delete visibility rules. Lookups that must see trashed rows go
// through Unscoped; the default-scoped paths hide them.
type ArticleRepository interface {
	WithTx(tx *gorm.DB) ArticleRepository
	ListQuery() *gorm.DB
	ScopeToAuthor(query *gorm.DB, authorID uint) *gorm.DB
	GetAll() ([]models.ArticleRow, error)
	GetByID(id uint) (*models.Article, error)
	Create(fields models.ArticleFields) (*models.Article, error)
	Update(fields models.ArticleFields, id uint) (*models.Article, error)
	SoftDelete(id uint) (*models.Article, error)
	SoftDeleteMany(ids []uint) (bool, error)
	Restore(id uint) (*models.Article, error)
	RestoreMany(ids []uint) (bool, error)
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// WithTx rebinds the repository to a transaction handle so a service can run
// several gateway calls inside one transaction scope.
func (r *articleRepository) WithTx(tx *gorm.DB) ArticleRepository {
	return &articleRepository{db: tx}
}

// ListQuery projects articles joined with their author, soft-deleted rows
// included. Callers decide visibility on top of it.
func (r *articleRepository) ListQuery() *gorm.DB {
	return r.db.Model(&models.Article{}).
		Unscoped().
		Select(
			"articles.id",
			"articles.title",
			"articles.content",
			"articles.publication_at",
			"articles.publication_status",
			"articles.deleted_at",
			"users.name AS author",
			"users.id AS author_id",
		).
		Joins("JOIN users ON users.id = articles.author_id")
}

func (r *articleRepository) ScopeToAuthor(query *gorm.DB, authorID uint) *gorm.DB {
	return query.Where("articles.author_id = ?", authorID)
}

func (r *articleRepository) GetAll() ([]models.ArticleRow, error) {
	var rows []models.ArticleRow
	err := r.ListQuery().Scan(&rows).Error
	return rows, err
}

// GetByID looks the article up regardless of soft deletion. A missing row is
// signalled with a nil article, not an error.
func (r *articleRepository) GetByID(id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.Unscoped().Where("id = ?", id).First(&article).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) Create(fields models.ArticleFields) (*models.Article, error) {
	article := &models.Article{
		Title:             fields.Title,
		Content:           fields.Content,
		AuthorID:          fields.AuthorID,
		PublicationAt:     fields.PublicationAt,
		PublicationStatus: fields.PublicationStatus,
	}

	if err := r.db.Create(article).Error; err != nil {
		return nil, err
	}

	return r.reload(article.ID)
}

// Update loads the record (trashed included), overwrites the five owned
// fields and persists. An unresolvable id is reported as an error to the
// caller.
func (r *articleRepository) Update(fields models.ArticleFields, id uint) (*models.Article, error) {
	var article models.Article
	if err := r.db.Unscoped().First(&article, id).Error; err != nil {
		return nil, err
	}

	article.Title = fields.Title
	article.Content = fields.Content
	article.AuthorID = fields.AuthorID
	article.PublicationAt = fields.PublicationAt
	article.PublicationStatus = fields.PublicationStatus

	if err := r.db.Unscoped().Save(&article).Error; err != nil {
		return nil, err
	}

	return r.reload(article.ID)
}

func (r *articleRepository) SoftDelete(id uint) (*models.Article, error) {
	var article models.Article
	if err := r.db.First(&article, id).Error; err != nil {
		return nil, err
	}

	if err := r.db.Delete(&article).Error; err != nil {
		return nil, err
	}

	return r.reload(id)
}

func (r *articleRepository) SoftDeleteMany(ids []uint) (bool, error) {
	result := r.db.Where("id IN ?", ids).Delete(&models.Article{})
	return result.RowsAffected > 0, result.Error
}

func (r *articleRepository) Restore(id uint) (*models.Article, error) {
	var article models.Article
	if err := r.db.Unscoped().First(&article, id).Error; err != nil {
		return nil, err
	}

	if err := r.db.Unscoped().Model(&article).Update("deleted_at", nil).Error; err != nil {
		return nil, err
	}

	return r.reload(id)
}

func (r *articleRepository) RestoreMany(ids []uint) (bool, error) {
	result := r.db.Unscoped().
		Model(&models.Article{}).
		Where("id IN ?", ids).
		Update("deleted_at", nil)
	return result.RowsAffected > 0, result.Error
}

func (r *articleRepository) reload(id uint) (*models.Article, error) {
	var fresh models.Article
	if err := r.db.Unscoped().First(&fresh, id).Error; err != nil {
		return nil, err
	}
	return &fresh, nil
}
