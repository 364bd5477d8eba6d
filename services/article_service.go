package services

import (
	"time"

	"articles-admin/helper"
	"articles-admin/models"
	"articles-admin/policies"
	"articles-admin/repositories"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/rs/zerolog/log"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

const (
	msgSaveFailed        = "Unable to save article data, contact IT for support!"
	msgUpdateFailed      = "Unable to update article data, contact IT for support!"
	msgDeleteFailed      = "Unable to delete article data, contact IT for support!"
	msgDeleteManyFailed  = "Unable to delete articles data, contact IT for support!"
	msgRestoreFailed     = "Unable to restore article data, contact IT for support!"
	msgRestoreManyFailed = "Unable to restore articles data, contact IT for support!"
)

// ArticleService enforces authorization overrides and transactional
// integrity around every article mutation. Each mutating operation runs in
// its own transaction scope: an error return rolls the whole scope back, the
// cause is logged, and the caller gets a generic operation-failed error.
type ArticleService interface {
	ListQuery(principal *models.User) *gorm.DB
	GetAll() ([]models.ArticleRow, error)
	GetByID(id uint) (*models.Article, error)
	Create(principal *models.User, input models.ArticleInput) (*models.Article, error)
	Update(principal *models.User, article *models.Article, input models.ArticleUpdateInput) (*models.Article, error)
	DeleteByID(id uint) (*models.Article, error)
	DeleteByIDs(ids []uint) (bool, error)
	RestoreByID(id uint) (*models.Article, error)
	RestoreByIDs(ids []uint) (bool, error)
}

type articleService struct {
	db          *gorm.DB
	articleRepo repositories.ArticleRepository
	policy      *policies.ArticlePolicy
	notifier    Notifier
	validate    *validator.Validate
	translator  ut.Translator
}

func NewArticleService(db *gorm.DB, articleRepo repositories.ArticleRepository, policy *policies.ArticlePolicy, notifier Notifier) ArticleService {
	if notifier == nil {
		notifier = NewLogNotifier()
	}

	locale := en.New()
	uni := ut.New(locale, locale)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	en_translations.RegisterDefaultTranslations(validate, translator)

	return &articleService{
		db:          db,
		articleRepo: articleRepo,
		policy:      policy,
		notifier:    notifier,
		validate:    validate,
		translator:  translator,
	}
}

// ListQuery narrows the gateway's list query through the principal's
// visibility: admins browse everything, soft-deleted rows included, other
// authors only their own articles. The author predicate itself lives in the
// gateway.
func (s *articleService) ListQuery(principal *models.User) *gorm.DB {
	query := s.articleRepo.ListQuery()
	if !s.policy.IsAdmin(principal) {
		query = s.articleRepo.ScopeToAuthor(query, principal.ID)
	}
	return query
}

func (s *articleService) GetAll() ([]models.ArticleRow, error) {
	return s.articleRepo.GetAll()
}

func (s *articleService) GetByID(id uint) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if article == nil {
		log.Info().
			Str("event", "error-at-get-article").
			Uint("article_id", id).
			Msg("article not found")
		return nil, models.ErrorNotFound{Message: "Article not found!"}
	}

	return article, nil
}

func (s *articleService) Create(principal *models.User, input models.ArticleInput) (*models.Article, error) {
	fields, err := s.validateCreate(principal, input)
	if err != nil {
		return nil, err
	}

	s.policy.ApplyCreateOverride(principal, fields)

	var article *models.Article
	err = s.db.Transaction(func(tx *gorm.DB) error {
		created, err := s.articleRepo.WithTx(tx).Create(*fields)
		if err != nil {
			return err
		}
		article = created
		return nil
	})
	if err != nil {
		return nil, s.fail("error-at-save-article", msgSaveFailed, err)
	}

	return article, nil
}

// Update merges the submission over the record's current values (submission
// wins) and overwrites the five owned fields. A lookup failure and any other
// persistence failure surface as the same update-failed signal.
func (s *articleService) Update(principal *models.User, article *models.Article, input models.ArticleUpdateInput) (*models.Article, error) {
	fields, err := s.mergeUpdate(article, input)
	if err != nil {
		return nil, err
	}

	s.policy.ApplyUpdateOverride(principal, article, fields)

	var updated *models.Article
	err = s.db.Transaction(func(tx *gorm.DB) error {
		fresh, err := s.articleRepo.WithTx(tx).Update(*fields, article.ID)
		if err != nil {
			return err
		}
		updated = fresh
		return nil
	})
	if err != nil {
		return nil, s.fail("error-at-update-article", msgUpdateFailed, err)
	}

	return updated, nil
}

func (s *articleService) DeleteByID(id uint) (*models.Article, error) {
	var article *models.Article
	err := s.db.Transaction(func(tx *gorm.DB) error {
		deleted, err := s.articleRepo.WithTx(tx).SoftDelete(id)
		if err != nil {
			return err
		}
		article = deleted
		return nil
	})
	if err != nil {
		return nil, s.fail("error-at-delete-article", msgDeleteFailed, err)
	}

	return article, nil
}

func (s *articleService) DeleteByIDs(ids []uint) (bool, error) {
	var result bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.articleRepo.WithTx(tx).SoftDeleteMany(ids)
		if err != nil {
			return err
		}
		result = ok
		return nil
	})
	if err != nil {
		return false, s.fail("error-at-delete-article", msgDeleteManyFailed, err)
	}

	return result, nil
}

func (s *articleService) RestoreByID(id uint) (*models.Article, error) {
	var article *models.Article
	err := s.db.Transaction(func(tx *gorm.DB) error {
		restored, err := s.articleRepo.WithTx(tx).Restore(id)
		if err != nil {
			return err
		}
		article = restored
		return nil
	})
	if err != nil {
		return nil, s.fail("error-at-restore-article", msgRestoreFailed, err)
	}

	return article, nil
}

func (s *articleService) RestoreByIDs(ids []uint) (bool, error) {
	var result bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.articleRepo.WithTx(tx).RestoreMany(ids)
		if err != nil {
			return err
		}
		result = ok
		return nil
	})
	if err != nil {
		return false, s.fail("error-at-restore-article", msgRestoreManyFailed, err)
	}

	return result, nil
}

// fail logs the cause, raises the danger notification and returns the
// generic operation-failed error. The cause never reaches the caller.
func (s *articleService) fail(event, message string, cause error) error {
	log.Error().
		Str("event", event).
		Err(cause).
		Msg(message)
	s.notifier.Danger(message)
	return models.ErrorOperationFailed{Message: message}
}

// validateCreate checks the submission shape before any transaction opens.
// The author select is admin-only in the form, so author_id is validated for
// admin principals; the create override assigns it for everyone else.
func (s *articleService) validateCreate(principal *models.User, input models.ArticleInput) (*models.ArticleFields, error) {
	fieldErrors := map[string][]string{}

	if err := s.validate.Struct(input); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, err
		}
		for _, ferr := range verrs {
			key := helper.Underscore(ferr.StructField())
			fieldErrors[key] = append(fieldErrors[key], ferr.Translate(s.translator))
		}
	}

	status := models.StatusDraft
	if input.PublicationStatus != nil {
		if !input.PublicationStatus.Valid() {
			fieldErrors["publication_status"] = append(fieldErrors["publication_status"],
				"publication_status must be a recognized status")
		} else {
			status = *input.PublicationStatus
		}
	}

	publicationAt, dateErr := parseDate(input.PublicationAt)
	if dateErr != "" {
		fieldErrors["publication_at"] = append(fieldErrors["publication_at"], dateErr)
	}

	if s.policy.IsAdmin(principal) {
		if input.AuthorID == 0 {
			fieldErrors["author_id"] = append(fieldErrors["author_id"], "author_id is a required field")
		} else {
			var count int64
			if err := s.db.Model(&models.User{}).Where("id = ?", input.AuthorID).Count(&count).Error; err != nil {
				return nil, err
			}
			if count == 0 {
				fieldErrors["author_id"] = append(fieldErrors["author_id"], "author_id must reference an existing user")
			}
		}
	}

	if len(fieldErrors) > 0 {
		return nil, models.ErrorValidation{Message: "Invalid article data", Fields: fieldErrors}
	}

	return &models.ArticleFields{
		Title:             input.Title,
		Content:           input.Content,
		AuthorID:          input.AuthorID,
		PublicationAt:     publicationAt,
		PublicationStatus: status,
	}, nil
}

func (s *articleService) mergeUpdate(article *models.Article, input models.ArticleUpdateInput) (*models.ArticleFields, error) {
	fields := &models.ArticleFields{
		Title:             article.Title,
		Content:           article.Content,
		AuthorID:          article.AuthorID,
		PublicationAt:     article.PublicationAt,
		PublicationStatus: article.PublicationStatus,
	}

	if input.Title != nil {
		fields.Title = *input.Title
	}
	if input.Content != nil {
		fields.Content = *input.Content
	}
	if input.AuthorID != nil {
		fields.AuthorID = *input.AuthorID
	}
	if input.PublicationStatus != nil {
		if !input.PublicationStatus.Valid() {
			return nil, models.ErrorValidation{
				Message: "Invalid article data",
				Fields: map[string][]string{
					"publication_status": {"publication_status must be a recognized status"},
				},
			}
		}
		fields.PublicationStatus = *input.PublicationStatus
	}
	if input.PublicationAt != nil {
		if *input.PublicationAt == "" {
			fields.PublicationAt = nil
		} else {
			publicationAt, dateErr := parseDate(input.PublicationAt)
			if dateErr != "" {
				return nil, models.ErrorValidation{
					Message: "Invalid article data",
					Fields:  map[string][]string{"publication_at": {dateErr}},
				}
			}
			fields.PublicationAt = publicationAt
		}
	}

	return fields, nil
}

func parseDate(value *string) (*time.Time, string) {
	if value == nil || *value == "" {
		return nil, ""
	}
	parsed, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, "publication_at must be a date in " + dateLayout + " format"
	}
	return &parsed, ""
}
