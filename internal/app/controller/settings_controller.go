package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/service"
	apperrors "github.com/noirparfum/noir-backend/internal/errors"
	"github.com/noirparfum/noir-backend/internal/middleware"
	"github.com/noirparfum/noir-backend/pkg/response"
)

type SettingsController struct {
	settingsService service.SettingsService
	pageService     service.PageService
}

func NewSettingsController(settingsService service.SettingsService, pageService service.PageService) *SettingsController {
	return &SettingsController{
		settingsService: settingsService,
		pageService:     pageService,
	}
}

// GetSettings serves both the storefront and the back office
// GET /api/v1/settings, GET /api/v1/admin/settings
func (ctrl *SettingsController) GetSettings(c *gin.Context) {
	settings, err := ctrl.settingsService.Get()
	if err != nil {
		respondError(c, err, "settings")
		return
	}
	response.OK(c, settings)
}

// PUT /api/v1/admin/settings
func (ctrl *SettingsController) UpdateSettings(c *gin.Context) {
	var req model.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	settings, err := ctrl.settingsService.Update(req)
	if err != nil {
		respondError(c, err, "update settings")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Store settings updated")
	response.OK(c, settings)
}

// GET /api/v1/pages
func (ctrl *SettingsController) ListPages(c *gin.Context) {
	pages, err := ctrl.pageService.ListPublished()
	if err != nil {
		respondError(c, err, "list pages")
		return
	}
	response.OK(c, pages)
}

// GET /api/v1/pages/:slug
func (ctrl *SettingsController) GetPage(c *gin.Context) {
	page, err := ctrl.pageService.GetPublished(c.Param("slug"))
	if err != nil {
		respondError(c, err, "page")
		return
	}
	response.OK(c, page)
}

// GET /api/v1/admin/pages
func (ctrl *SettingsController) ListAllPages(c *gin.Context) {
	pages, err := ctrl.pageService.ListAll()
	if err != nil {
		respondError(c, err, "list pages")
		return
	}
	response.OK(c, pages)
}

// SavePage creates or replaces a page; without a slug one is derived from the title
// POST /api/v1/admin/pages, PUT /api/v1/admin/pages/:slug
func (ctrl *SettingsController) SavePage(c *gin.Context) {
	var req model.SavePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	slug := c.Param("slug")
	if slug == "" {
		slug = req.Slug
	}

	page, created, err := ctrl.pageService.Save(slug, req)
	if err != nil {
		respondError(c, err, "update page")
		return
	}
	if created {
		response.Created(c, page)
		return
	}
	response.OK(c, page)
}

// DELETE /api/v1/admin/pages/:slug
func (ctrl *SettingsController) DeletePage(c *gin.Context) {
	if err := ctrl.pageService.Delete(c.Param("slug")); err != nil {
		respondError(c, err, "delete page")
		return
	}
	response.Message(c, "Page deleted")
}
