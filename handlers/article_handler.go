package handlers

import (
	"strconv"

	"articles-admin/helper"
	"articles-admin/middleware"
	"articles-admin/models"
	"articles-admin/policies"
	"articles-admin/services"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleService services.ArticleService
	policy         *policies.ArticlePolicy
	Helper         *helper.HTTPHelper
}

func NewArticleHandler(articleService services.ArticleService, policy *policies.ArticlePolicy) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
		policy:         policy,
		Helper:         helper.NewHTTPHelper(),
	}
}

// GetArticles renders the list view: the service's visibility-scoped query,
// paginated. Admins see everyone's articles here, trashed ones included.
func (h *ArticleHandler) GetArticles(c *gin.Context) {
	principal := middleware.CurrentUser(c)

	var params models.ArticleListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 10
	}

	query := h.articleService.ListQuery(principal)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	var rows []models.ArticleRow
	offset := (params.Page - 1) * params.Limit
	if err := query.Offset(offset).Limit(params.Limit).Scan(&rows).Error; err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Articles loaded", map[string]interface{}{
		"articles":   rows,
		"pagination": h.Helper.GeneratePaging(c, params.Limit, params.Page, int(total)),
	})
}

func (h *ArticleHandler) GetArticle(c *gin.Context) {
	principal := middleware.CurrentUser(c)

	id, err := parseID(c)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid article ID", h.Helper.EmptyJsonMap())
		return
	}

	article, err := h.articleService.GetByID(id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	if !h.policy.CanManage(principal, article) {
		h.Helper.SendUnauthorizedError(c, "You may not view this article", h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Article loaded", article)
}

func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	principal := middleware.CurrentUser(c)

	var input models.ArticleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	article, err := h.articleService.Create(principal, input)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article created successfully", article)
}

func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	principal := middleware.CurrentUser(c)

	id, err := parseID(c)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid article ID", h.Helper.EmptyJsonMap())
		return
	}

	article, err := h.articleService.GetByID(id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	if !h.policy.CanManage(principal, article) {
		h.Helper.SendUnauthorizedError(c, "You may not edit this article", h.Helper.EmptyJsonMap())
		return
	}

	var input models.ArticleUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	updated, err := h.articleService.Update(principal, article, input)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article updated successfully", updated)
}

func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	principal := middleware.CurrentUser(c)

	id, err := parseID(c)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid article ID", h.Helper.EmptyJsonMap())
		return
	}

	article, err := h.articleService.GetByID(id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	if !h.policy.CanManage(principal, article) {
		h.Helper.SendUnauthorizedError(c, "You may not delete this article", h.Helper.EmptyJsonMap())
		return
	}

	deleted, err := h.articleService.DeleteByID(id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article deleted successfully", deleted)
}

func (h *ArticleHandler) RestoreArticle(c *gin.Context) {
	principal := middleware.CurrentUser(c)

	id, err := parseID(c)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid article ID", h.Helper.EmptyJsonMap())
		return
	}

	article, err := h.articleService.GetByID(id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	if !h.policy.CanManage(principal, article) {
		h.Helper.SendUnauthorizedError(c, "You may not restore this article", h.Helper.EmptyJsonMap())
		return
	}

	restored, err := h.articleService.RestoreByID(id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article restored successfully", restored)
}

func (h *ArticleHandler) BulkDeleteArticles(c *gin.Context) {
	var req models.ArticleIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	if !h.authorizeBulk(c, req.IDs) {
		return
	}

	result, err := h.articleService.DeleteByIDs(req.IDs)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Articles deleted successfully", map[string]interface{}{"result": result})
}

func (h *ArticleHandler) BulkRestoreArticles(c *gin.Context) {
	var req models.ArticleIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	if !h.authorizeBulk(c, req.IDs) {
		return
	}

	result, err := h.articleService.RestoreByIDs(req.IDs)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Articles restored successfully", map[string]interface{}{"result": result})
}

// authorizeBulk resolves every submitted id and applies the same record-level
// check the single-record endpoints make. A bulk submission from the list view
// only carries visible records, but the id list itself cannot be trusted.
// Returns false after writing the error response.
func (h *ArticleHandler) authorizeBulk(c *gin.Context, ids []uint) bool {
	principal := middleware.CurrentUser(c)
	if h.policy.IsAdmin(principal) {
		return true
	}

	for _, id := range ids {
		article, err := h.articleService.GetByID(id)
		if err != nil {
			h.Helper.SendServiceError(c, err)
			return false
		}
		if !h.policy.CanManage(principal, article) {
			h.Helper.SendUnauthorizedError(c, "You may not modify these articles", h.Helper.EmptyJsonMap())
			return false
		}
	}

	return true
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}
