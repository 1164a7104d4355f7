package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/warinco/ncr_workflow_app/internal/apperrors"
	"github.com/warinco/ncr_workflow_app/internal/core/domain"
	portssvc "github.com/warinco/ncr_workflow_app/internal/core/ports/services"
	"github.com/warinco/ncr_workflow_app/internal/dto"
	"github.com/warinco/ncr_workflow_app/internal/middleware"
)

// reportHandler handles HTTP requests related to non-conformance reports.
type reportHandler struct {
	reportService portssvc.ReportSvcFacade
}

// newReportHandler creates a new reportHandler.
func newReportHandler(rs portssvc.ReportSvcFacade) *reportHandler {
	return &reportHandler{
		reportService: rs,
	}
}

// RegisterReportRoutes registers routes related to reports.
func RegisterReportRoutes(rg *gin.RouterGroup, reportService portssvc.ReportSvcFacade) {
	h := newReportHandler(reportService)

	reports := rg.Group("/reports")
	{
		reports.POST("", h.createReport)
		reports.GET("", h.listReports)
		reports.GET("/:id", h.getReport)
		reports.GET("/by-report-id/:reportID", h.getReportByReportID)
		reports.DELETE("/:id", h.deleteReport)

		// Workflow action endpoints, one per department step.
		reports.POST("/:id/inventory/accept", h.inventoryAccept)
		reports.POST("/:id/qa/accept", h.qaAccept)
		reports.PUT("/:id/qa/details", h.qaDetails)
		reports.POST("/:id/manufacture/accept", h.manufactureAccept)
		reports.POST("/:id/environment/accept", h.environmentAccept)
		reports.POST("/:id/saleco/complete", h.salecoComplete)
	}
}

// createReport godoc
// @Summary Open a new non-conformance report
// @Description Creates a report with a freshly issued business id. Only SaleCo users may open reports.
// @Tags reports
// @Accept  json
// @Produce  json
// @Param   report body dto.CreateReportRequest true "Report details"
// @Success 201 {object} dto.ReportResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not SaleCo)"
// @Failure 500 {object} map[string]string "Failed to create report"
// @Security BearerAuth
// @Router /reports [post]
func (h *reportHandler) createReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateReport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create report", slog.String("product_name", req.ProductName), slog.String("lot_no", req.LotNo))

	newReport, err := h.reportService.CreateReport(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User forbidden to create report", slog.String("error", err.Error()))
			c.JSON(http.StatusForbidden, gin.H{"error": "Only SaleCo users may open reports"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating report", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Report id collision persisted after retry", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": "Report id collision, please retry"})
		} else {
			logger.Error("Failed to create report in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
		}
		return
	}

	logger.Info("Report created successfully", slog.String("report_id", newReport.ReportID))
	c.JSON(http.StatusCreated, dto.ToReportResponse(newReport))
}

// listReports godoc
// @Summary List reports visible to the logged-in user
// @Description Retrieves reports filtered by the caller's department. SaleCo sees its own reports, QA and Inventory see all, Manufacture and Environment see reports routed to them.
// @Tags reports
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListReportsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list reports"
// @Security BearerAuth
// @Router /reports [get]
func (h *reportHandler) listReports(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListReportsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListReports", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("user_id", loggedInUserID))
	logger.Info("Received request to list reports", slog.Int("limit", params.Limit), slog.Int("offset", params.Offset))

	reports, err := h.reportService.ListReports(c.Request.Context(), loggedInUserID, params.Limit, params.Offset)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		logger.Error("Failed to list reports from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reports"})
		return
	}

	logger.Info("Reports listed successfully", slog.Int("count", len(reports)))
	c.JSON(http.StatusOK, dto.ToListReportsResponse(reports))
}

// getReport godoc
// @Summary Get a report by ID
// @Description Retrieves a report by its numeric ID
// @Tags reports
// @Produce  json
// @Param   id path int true "Report ID"
// @Success 200 {object} dto.ReportResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 500 {object} map[string]string "Failed to retrieve report"
// @Security BearerAuth
// @Router /reports/{id} [get]
func (h *reportHandler) getReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report id"})
		return
	}

	logger = logger.With(slog.Int64("target_report_id", id))
	logger.Info("Received request to get report")

	report, err := h.reportService.GetReportByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Report not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		} else {
			logger.Error("Failed to get report from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve report"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// getReportByReportID godoc
// @Summary Get a report by business id
// @Description Retrieves a report by its business id, e.g. WNC25060001
// @Tags reports
// @Produce  json
// @Param   reportID path string true "Report business id"
// @Success 200 {object} dto.ReportResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 500 {object} map[string]string "Failed to retrieve report"
// @Security BearerAuth
// @Router /reports/by-report-id/{reportID} [get]
func (h *reportHandler) getReportByReportID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reportID := c.Param("reportID")

	logger = logger.With(slog.String("target_report_id", reportID))
	logger.Info("Received request to get report by business id")

	report, err := h.reportService.GetReportByReportID(c.Request.Context(), reportID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Report not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		} else {
			logger.Error("Failed to get report from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve report"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// deleteReport godoc
// @Summary Delete a report
// @Description Deletes a report. Only the creator may delete, and only while the report is still in the Created state.
// @Tags reports
// @Produce  json
// @Param   id path int true "Report ID to delete"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not the creator)"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 409 {object} map[string]string "Conflict (report already progressed past Created)"
// @Failure 500 {object} map[string]string "Failed to delete report"
// @Security BearerAuth
// @Router /reports/{id} [delete]
func (h *reportHandler) deleteReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report id"})
		return
	}

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.Int64("target_report_id", id), slog.String("deleter_user_id", loggedInUserID))
	logger.Info("Received request to delete report")

	err = h.reportService.DeleteReport(c.Request.Context(), id, loggedInUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Report not found for deletion")
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User forbidden to delete report")
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator may delete a report"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Report no longer deletable", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": "Report has already progressed past the Created state"})
		} else {
			logger.Error("Failed to delete report in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete report"})
		}
		return
	}

	logger.Info("Report deleted successfully")
	c.Status(http.StatusNoContent)
}

// inventoryAccept godoc
// @Summary Inventory accepts a report
// @Description Stamps the Inventory acceptance on the report and advances its status.
// @Tags reports
// @Produce  json
// @Param   id path int true "Report ID"
// @Success 200 {object} dto.ReportResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not Inventory)"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 500 {object} map[string]string "Failed to apply action"
// @Security BearerAuth
// @Router /reports/{id}/inventory/accept [post]
func (h *reportHandler) inventoryAccept(c *gin.Context) {
	h.applyAction(c, dto.ApplyActionInput{Kind: domain.ActionInventoryAccept})
}

// qaAccept godoc
// @Summary QA accepts a report
// @Description Stamps the QA acceptance on the report and advances its status.
// @Tags reports
// @Produce  json
// @Param   id path int true "Report ID"
// @Success 200 {object} dto.ReportResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not QA)"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 500 {object} map[string]string "Failed to apply action"
// @Security BearerAuth
// @Router /reports/{id}/qa/accept [post]
func (h *reportHandler) qaAccept(c *gin.Context) {
	h.applyAction(c, dto.ApplyActionInput{Kind: domain.ActionQAAccept})
}

// qaDetails godoc
// @Summary QA submits its solution and routes the report
// @Description Records the QA solution fields and routes the report to the chosen destination department.
// @Tags reports
// @Accept  json
// @Produce  json
// @Param   id path int true "Report ID"
// @Param   details body dto.QADetailsRequest true "QA solution details"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not QA)"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 500 {object} map[string]string "Failed to apply action"
// @Security BearerAuth
// @Router /reports/{id}/qa/details [put]
func (h *reportHandler) qaDetails(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.QADetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for QADetails", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	h.applyAction(c, dto.ApplyActionInput{
		Kind:                  domain.ActionQASolution,
		Destination:           domain.SolutionDestination(req.Destination),
		QASolution:            &req.Solution,
		QASolutionDescription: req.SolutionDescription,
		DamageCost:            req.DamageCost,
		AttachmentPath:        req.AttachmentPath,
	})
}

// manufactureAccept godoc
// @Summary Manufacture accepts a report
// @Description Stamps the Manufacture acceptance on the report and advances its status.
// @Tags reports
// @Produce  json
// @Param   id path int true "Report ID"
// @Success 200 {object} dto.ReportResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not Manufacture)"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 500 {object} map[string]string "Failed to apply action"
// @Security BearerAuth
// @Router /reports/{id}/manufacture/accept [post]
func (h *reportHandler) manufactureAccept(c *gin.Context) {
	h.applyAction(c, dto.ApplyActionInput{Kind: domain.ActionManufactureAccept})
}

// environmentAccept godoc
// @Summary Environment accepts a report
// @Description Stamps the Environment acceptance on the report and advances its status.
// @Tags reports
// @Produce  json
// @Param   id path int true "Report ID"
// @Success 200 {object} dto.ReportResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not Environment)"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 500 {object} map[string]string "Failed to apply action"
// @Security BearerAuth
// @Router /reports/{id}/environment/accept [post]
func (h *reportHandler) environmentAccept(c *gin.Context) {
	h.applyAction(c, dto.ApplyActionInput{Kind: domain.ActionEnvironmentAccept})
}

// salecoComplete godoc
// @Summary SaleCo completes a report
// @Description Records the optional department expense, stamps SaleCo and closes the report.
// @Tags reports
// @Accept  json
// @Produce  json
// @Param   id path int true "Report ID"
// @Param   completion body dto.SaleCoCompleteRequest false "Completion details"
// @Success 200 {object} dto.ReportResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not SaleCo)"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 500 {object} map[string]string "Failed to apply action"
// @Security BearerAuth
// @Router /reports/{id}/saleco/complete [post]
func (h *reportHandler) salecoComplete(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SaleCoCompleteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for SaleCoComplete", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	h.applyAction(c, dto.ApplyActionInput{
		Kind:              domain.ActionSaleCoComplete,
		DepartmentExpense: req.DepartmentExpense,
	})
}

// applyAction parses the report id, resolves the acting user and delegates to
// the report service. All workflow endpoints share this error mapping.
func (h *reportHandler) applyAction(c *gin.Context, input dto.ApplyActionInput) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report id"})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Acting user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(
		slog.Int64("target_report_id", id),
		slog.String("action", string(input.Kind)),
		slog.String("actor_user_id", actorUserID),
	)
	logger.Info("Received workflow action")

	report, err := h.reportService.ApplyAction(c.Request.Context(), id, input, actorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Report not found for action")
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User forbidden to perform action", slog.String("error", err.Error()))
			c.JSON(http.StatusForbidden, gin.H{"error": "Your role may not perform this action"})
		} else if errors.Is(err, apperrors.ErrUnauthorized) {
			logger.Warn("Unknown acting user", slog.String("error", err.Error()))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error applying action", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to apply action in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply action"})
		}
		return
	}

	logger.Info("Workflow action applied", slog.String("new_status", string(report.Status)))
	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}
