package services

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"articles-admin/models"
	"articles-admin/policies"
	"articles-admin/repositories"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal("failed to open test database:", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Article{}); err != nil {
		t.Fatal("failed to migrate test database:", err)
	}
	return db
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Danger(title string) {
	n.messages = append(n.messages, title)
}

// failingArticleRepository performs the real write and then reports failure,
// so tests can verify the transaction scope rolls the write back.
type failingArticleRepository struct {
	repositories.ArticleRepository
	failCreate bool
	failUpdate bool
}

func (f *failingArticleRepository) WithTx(tx *gorm.DB) repositories.ArticleRepository {
	return &failingArticleRepository{
		ArticleRepository: f.ArticleRepository.WithTx(tx),
		failCreate:        f.failCreate,
		failUpdate:        f.failUpdate,
	}
}

func (f *failingArticleRepository) Create(fields models.ArticleFields) (*models.Article, error) {
	if f.failCreate {
		if _, err := f.ArticleRepository.Create(fields); err != nil {
			return nil, err
		}
		return nil, errors.New("simulated create failure")
	}
	return f.ArticleRepository.Create(fields)
}

func (f *failingArticleRepository) Update(fields models.ArticleFields, id uint) (*models.Article, error) {
	if f.failUpdate {
		if _, err := f.ArticleRepository.Update(fields, id); err != nil {
			return nil, err
		}
		return nil, errors.New("simulated update failure")
	}
	return f.ArticleRepository.Update(fields, id)
}

type ArticleServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	repo     repositories.ArticleRepository
	policy   *policies.ArticlePolicy
	notifier *recordingNotifier
	service  ArticleService
}

func TestArticleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ArticleServiceTestSuite))
}

func (suite *ArticleServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.repo = repositories.NewArticleRepository(suite.db)
	suite.policy = policies.NewArticlePolicy(nil)
	suite.notifier = &recordingNotifier{}
	suite.service = NewArticleService(suite.db, suite.repo, suite.policy, suite.notifier)
}

func (suite *ArticleServiceTestSuite) serviceWith(repo repositories.ArticleRepository) ArticleService {
	return NewArticleService(suite.db, repo, suite.policy, suite.notifier)
}

func (suite *ArticleServiceTestSuite) createUser(name string, isAdmin bool) *models.User {
	user := &models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "secret",
		IsAdmin:  isAdmin,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *ArticleServiceTestSuite) createArticle(authorID uint) *models.Article {
	article := &models.Article{
		Title:             "test title here",
		Content:           "test content long enough",
		AuthorID:          authorID,
		PublicationStatus: models.StatusDraft,
	}
	suite.Require().NoError(suite.db.Create(article).Error)
	return article
}

func (suite *ArticleServiceTestSuite) listCount(principal *models.User) int64 {
	var count int64
	suite.Require().NoError(suite.service.ListQuery(principal).Count(&count).Error)
	return count
}

func (suite *ArticleServiceTestSuite) TestListQueryProjectsAuthorName() {
	author := suite.createUser("writer", false)
	suite.createArticle(author.ID)

	var rows []models.ArticleRow
	suite.Require().NoError(suite.service.ListQuery(author).Scan(&rows).Error)

	suite.Require().Len(rows, 1)
	suite.Equal("writer", rows[0].Author)
	suite.Equal(author.ID, rows[0].AuthorID)
}

func (suite *ArticleServiceTestSuite) TestNonAdminSeesOnlyOwnArticles() {
	author := suite.createUser("writer", false)
	other := suite.createUser("other", false)
	suite.createArticle(author.ID)
	suite.createArticle(other.ID)

	suite.EqualValues(1, suite.listCount(author))
}

func (suite *ArticleServiceTestSuite) TestAdminSeesAllArticles() {
	admin := suite.createUser("admin", true)
	other := suite.createUser("other", false)
	suite.createArticle(admin.ID)
	suite.createArticle(other.ID)

	suite.EqualValues(2, suite.listCount(admin))
}

func (suite *ArticleServiceTestSuite) TestListIncludesTrashedArticles() {
	author := suite.createUser("writer", false)
	article := suite.createArticle(author.ID)
	suite.Require().NoError(suite.db.Delete(article).Error)

	suite.EqualValues(1, suite.listCount(author))
}

func (suite *ArticleServiceTestSuite) TestGetAllReturnsEveryArticle() {
	author := suite.createUser("writer", false)
	other := suite.createUser("other", false)
	suite.createArticle(author.ID)
	suite.createArticle(other.ID)

	rows, err := suite.service.GetAll()

	suite.Require().NoError(err)
	suite.Len(rows, 2)
}

func (suite *ArticleServiceTestSuite) TestGetByIDReturnsArticle() {
	author := suite.createUser("writer", false)
	article := suite.createArticle(author.ID)

	found, err := suite.service.GetByID(article.ID)

	suite.Require().NoError(err)
	suite.Equal(article.ID, found.ID)
}

func (suite *ArticleServiceTestSuite) TestGetByIDFailsWithNotFound() {
	_, err := suite.service.GetByID(12345)

	suite.Require().Error(err)
	suite.IsType(models.ErrorNotFound{}, err)
}

func (suite *ArticleServiceTestSuite) TestNonAdminCreateOverridesRestrictedFields() {
	author := suite.createUser("writer", false)

	publishedAt := "2024-01-01"
	status := models.StatusPublished
	created, err := suite.service.Create(author, models.ArticleInput{
		Title:             "test title",
		Content:           "test content",
		AuthorID:          999,
		PublicationAt:     &publishedAt,
		PublicationStatus: &status,
	})

	suite.Require().NoError(err)
	suite.Equal(author.ID, created.AuthorID)
	suite.Equal(models.StatusDraft, created.PublicationStatus)
	suite.Nil(created.PublicationAt)
	suite.Equal("test title", created.Title)
}

func (suite *ArticleServiceTestSuite) TestAdminCreateHonorsSubmittedFields() {
	admin := suite.createUser("admin", true)
	target := suite.createUser("target", false)

	publishedAt := "2024-01-01"
	status := models.StatusPublished
	created, err := suite.service.Create(admin, models.ArticleInput{
		Title:             "test title",
		Content:           "test content",
		AuthorID:          target.ID,
		PublicationAt:     &publishedAt,
		PublicationStatus: &status,
	})

	suite.Require().NoError(err)
	suite.Equal(target.ID, created.AuthorID)
	suite.Equal(models.StatusPublished, created.PublicationStatus)
	suite.Require().NotNil(created.PublicationAt)
	suite.True(created.PublicationAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func (suite *ArticleServiceTestSuite) TestAdminCreateRequiresAuthor() {
	admin := suite.createUser("admin", true)

	_, err := suite.service.Create(admin, models.ArticleInput{
		Title:   "test title",
		Content: "test content",
	})

	suite.Require().Error(err)
	validationErr, ok := err.(models.ErrorValidation)
	suite.Require().True(ok)
	suite.Contains(validationErr.Fields, "author_id")
}

func (suite *ArticleServiceTestSuite) TestAdminCreateRejectsUnknownAuthor() {
	admin := suite.createUser("admin", true)

	_, err := suite.service.Create(admin, models.ArticleInput{
		Title:    "test title",
		Content:  "test content",
		AuthorID: 9999,
	})

	suite.Require().Error(err)
	validationErr, ok := err.(models.ErrorValidation)
	suite.Require().True(ok)
	suite.Contains(validationErr.Fields, "author_id")

	var count int64
	suite.db.Model(&models.Article{}).Unscoped().Count(&count)
	suite.EqualValues(0, count)
}

func (suite *ArticleServiceTestSuite) TestNonAdminCreateWithoutAuthorSucceeds() {
	author := suite.createUser("writer", false)

	created, err := suite.service.Create(author, models.ArticleInput{
		Title:   "test title",
		Content: "test content",
	})

	suite.Require().NoError(err)
	suite.Equal(author.ID, created.AuthorID)
}

func (suite *ArticleServiceTestSuite) TestCreateValidationFailsFast() {
	author := suite.createUser("writer", false)

	badDate := "not-a-date"
	badStatus := models.PublicationStatus(99)
	_, err := suite.service.Create(author, models.ArticleInput{
		Title:             "abc",
		Content:           "short",
		PublicationAt:     &badDate,
		PublicationStatus: &badStatus,
	})

	suite.Require().Error(err)
	validationErr, ok := err.(models.ErrorValidation)
	suite.Require().True(ok)
	suite.Contains(validationErr.Fields, "title")
	suite.Contains(validationErr.Fields, "content")
	suite.Contains(validationErr.Fields, "publication_at")
	suite.Contains(validationErr.Fields, "publication_status")

	var count int64
	suite.db.Model(&models.Article{}).Unscoped().Count(&count)
	suite.EqualValues(0, count)
}

func (suite *ArticleServiceTestSuite) TestUpdateChangesOnlyTitle() {
	author := suite.createUser("writer", false)
	article := suite.createArticle(author.ID)

	newTitle := "updated title"
	updated, err := suite.service.Update(author, article, models.ArticleUpdateInput{
		Title: &newTitle,
	})

	suite.Require().NoError(err)
	suite.Equal("updated title", updated.Title)
	suite.Equal(article.Content, updated.Content)
	suite.Equal(article.AuthorID, updated.AuthorID)
	suite.Equal(article.PublicationStatus, updated.PublicationStatus)
}

func (suite *ArticleServiceTestSuite) TestAdminUpdateAllFields() {
	admin := suite.createUser("admin", true)
	target := suite.createUser("target", false)
	article := suite.createArticle(admin.ID)

	title := "update title"
	content := "update content here"
	publishedAt := "2024-06-01"
	status := models.StatusPublished
	updated, err := suite.service.Update(admin, article, models.ArticleUpdateInput{
		Title:             &title,
		Content:           &content,
		AuthorID:          &target.ID,
		PublicationAt:     &publishedAt,
		PublicationStatus: &status,
	})

	suite.Require().NoError(err)
	suite.Equal(target.ID, updated.AuthorID)
	suite.Equal(models.StatusPublished, updated.PublicationStatus)
	suite.Require().NotNil(updated.PublicationAt)
	suite.True(updated.PublicationAt.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
}

func (suite *ArticleServiceTestSuite) TestNonAdminUpdateKeepsRestrictedFields() {
	author := suite.createUser("writer", false)
	article := suite.createArticle(author.ID)

	title := "updated title"
	otherAuthor := uint(999)
	status := models.StatusPublished
	updated, err := suite.service.Update(author, article, models.ArticleUpdateInput{
		Title:             &title,
		AuthorID:          &otherAuthor,
		PublicationStatus: &status,
	})

	suite.Require().NoError(err)
	suite.Equal("updated title", updated.Title)
	suite.Equal(author.ID, updated.AuthorID)
	suite.Equal(models.StatusDraft, updated.PublicationStatus)
}

func (suite *ArticleServiceTestSuite) TestCreateFailureRollsBackAndNotifies() {
	admin := suite.createUser("admin", true)
	failing := &failingArticleRepository{ArticleRepository: suite.repo, failCreate: true}
	service := suite.serviceWith(failing)

	status := models.StatusDraft
	_, err := service.Create(admin, models.ArticleInput{
		Title:             "test title",
		Content:           "test content",
		AuthorID:          admin.ID,
		PublicationStatus: &status,
	})

	suite.Require().Error(err)
	suite.IsType(models.ErrorOperationFailed{}, err)
	suite.Equal("Unable to save article data, contact IT for support!", err.Error())
	suite.Contains(suite.notifier.messages, "Unable to save article data, contact IT for support!")

	var count int64
	suite.db.Model(&models.Article{}).Unscoped().Count(&count)
	suite.EqualValues(0, count)
}

func (suite *ArticleServiceTestSuite) TestUpdateFailureRollsBack() {
	author := suite.createUser("writer", false)
	article := suite.createArticle(author.ID)

	failing := &failingArticleRepository{ArticleRepository: suite.repo, failUpdate: true}
	service := suite.serviceWith(failing)

	title := "should not stick"
	_, err := service.Update(author, article, models.ArticleUpdateInput{Title: &title})

	suite.Require().Error(err)
	suite.IsType(models.ErrorOperationFailed{}, err)
	suite.Equal("Unable to update article data, contact IT for support!", err.Error())

	var stored models.Article
	suite.Require().NoError(suite.db.Unscoped().First(&stored, article.ID).Error)
	suite.Equal("test title here", stored.Title)
}

func (suite *ArticleServiceTestSuite) TestUpdateMissingRecordFailsCoarsely() {
	admin := suite.createUser("admin", true)

	title := "whatever title"
	_, err := suite.service.Update(admin, &models.Article{ID: 12345}, models.ArticleUpdateInput{Title: &title})

	suite.Require().Error(err)
	suite.IsType(models.ErrorOperationFailed{}, err)
	suite.Equal("Unable to update article data, contact IT for support!", err.Error())
}

func (suite *ArticleServiceTestSuite) TestDeleteThenRestore() {
	author := suite.createUser("writer", false)
	article := suite.createArticle(author.ID)

	deleted, err := suite.service.DeleteByID(article.ID)
	suite.Require().NoError(err)
	suite.True(deleted.DeletedAt.Valid)

	restored, err := suite.service.RestoreByID(article.ID)
	suite.Require().NoError(err)
	suite.False(restored.DeletedAt.Valid)
}

func (suite *ArticleServiceTestSuite) TestDeleteAlreadyDeletedFails() {
	author := suite.createUser("writer", false)
	article := suite.createArticle(author.ID)
	suite.Require().NoError(suite.db.Delete(article).Error)

	_, err := suite.service.DeleteByID(article.ID)

	suite.Require().Error(err)
	suite.Equal("Unable to delete article data, contact IT for support!", err.Error())
	suite.Contains(suite.notifier.messages, "Unable to delete article data, contact IT for support!")
}

func (suite *ArticleServiceTestSuite) TestDeleteManyMarksExactlyThose() {
	author := suite.createUser("writer", false)
	var deletable []uint
	for i := 0; i < 3; i++ {
		deletable = append(deletable, suite.createArticle(author.ID).ID)
	}
	suite.createArticle(author.ID)
	suite.createArticle(author.ID)

	ok, err := suite.service.DeleteByIDs(deletable)

	suite.Require().NoError(err)
	suite.True(ok)

	var trashed, active int64
	suite.db.Model(&models.Article{}).Unscoped().Where("deleted_at IS NOT NULL").Count(&trashed)
	suite.db.Model(&models.Article{}).Count(&active)
	suite.EqualValues(3, trashed)
	suite.EqualValues(2, active)
}

func (suite *ArticleServiceTestSuite) TestRestoreManyClearsExactlyThose() {
	author := suite.createUser("writer", false)
	var restorable []uint
	for i := 0; i < 3; i++ {
		article := suite.createArticle(author.ID)
		suite.Require().NoError(suite.db.Delete(article).Error)
		restorable = append(restorable, article.ID)
	}
	for i := 0; i < 2; i++ {
		article := suite.createArticle(author.ID)
		suite.Require().NoError(suite.db.Delete(article).Error)
	}

	ok, err := suite.service.RestoreByIDs(restorable)

	suite.Require().NoError(err)
	suite.True(ok)

	var trashed, active int64
	suite.db.Model(&models.Article{}).Unscoped().Where("deleted_at IS NOT NULL").Count(&trashed)
	suite.db.Model(&models.Article{}).Count(&active)
	suite.EqualValues(2, trashed)
	suite.EqualValues(3, active)
}
