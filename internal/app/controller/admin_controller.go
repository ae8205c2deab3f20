package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/noirparfum/noir-backend/internal/app/service"
	apperrors "github.com/noirparfum/noir-backend/internal/errors"
	"github.com/noirparfum/noir-backend/internal/middleware"
	"github.com/noirparfum/noir-backend/internal/websocket"
	"github.com/noirparfum/noir-backend/pkg/response"
)

// maxImportSize bounds review/comment spreadsheets
const maxImportSize = 10 << 20

// AdminController serves the dashboard, bulk import and the live event feed
type AdminController struct {
	dashboardService service.DashboardService
	importService    service.ImportService
	hub              *websocket.Hub
	upgrader         gorillaws.Upgrader
}

func NewAdminController(
	dashboardService service.DashboardService,
	importService service.ImportService,
	hub *websocket.Hub,
	upgrader gorillaws.Upgrader,
) *AdminController {
	return &AdminController{
		dashboardService: dashboardService,
		importService:    importService,
		hub:              hub,
		upgrader:         upgrader,
	}
}

// Dashboard returns the back-office summary
// GET /api/v1/admin/dashboard
func (ctrl *AdminController) Dashboard(c *gin.Context) {
	summary, err := ctrl.dashboardService.Summary()
	if err != nil {
		respondError(c, err, "dashboard")
		return
	}
	response.OK(c, summary)
}

// Import loads reviews or comments from a CSV or XLSX file
// POST /api/v1/admin/import
func (ctrl *AdminController) Import(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	importType := service.ImportType(c.PostForm("type"))
	header, err := c.FormFile("file")
	if err != nil {
		apperrors.RespondWithValidationError(c, map[string]string{"file": "is required"})
		return
	}
	if header.Size > maxImportSize {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "Import files are limited to 10MB")
		return
	}

	file, err := header.Open()
	if err != nil {
		apperrors.InternalError(c, err)
		return
	}
	defer file.Close()

	result, err := ctrl.importService.Import(importType, header.Filename, file)
	if err != nil {
		var missing *service.MissingColumnsError
		if errors.As(err, &missing) {
			c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{
				Error:   apperrors.ImportMissingColumns,
				Message: err.Error(),
				Fields:  missingColumnFields(missing.Columns),
			})
			return
		}
		respondError(c, err, "import")
		return
	}

	log.Info("Import finished", map[string]interface{}{
		"type":     importType,
		"file":     header.Filename,
		"imported": result.Imported,
		"skipped":  result.Skipped,
	})

	response.OK(c, result)
}

func missingColumnFields(columns []string) map[string]string {
	fields := make(map[string]string, len(columns))
	for _, col := range columns {
		fields[col] = "column is required"
	}
	return fields
}

// Events upgrades to a websocket that receives order and inbox events.
// Browsers pass the admin token as ?token= since they cannot set headers.
// GET /api/v1/admin/ws
func (ctrl *AdminController) Events(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if ctrl.hub == nil {
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.InternalConfigError, "Live events are not enabled")
		return
	}

	if err := websocket.Serve(ctrl.hub, ctrl.upgrader, c.Writer, c.Request, userID); err != nil {
		// the upgrader has already written the HTTP error
		middleware.GetLoggerFromContext(c).Warn("WebSocket upgrade failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}
