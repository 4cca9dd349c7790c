package leave

import (
	"net/http"

	"staffly/internal/middleware"
	"staffly/internal/shared/apperror"
	"staffly/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message)
}

func (h *Handler) Create(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), principal.EmployeeID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Leave application created successfully", resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	resp, err := h.service.GetAll(c.Request.Context(), principal.EmployeeID, principal.IsAdmin())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, meta := response.Paginate(c, resp)
	response.Success(c, http.StatusOK, "Leaves retrieved", page, &meta)
}

func (h *Handler) GetMine(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	resp, err := h.service.GetMine(c.Request.Context(), principal.EmployeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Leaves retrieved", resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	id := c.Param("leave_id")

	var req UpdateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	if err := h.service.Update(c.Request.Context(), principal.EmployeeID, id, req); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Leave updated successfully", gin.H{"leave_id": id}, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	id := c.Param("leave_id")

	if err := h.service.Delete(c.Request.Context(), principal.EmployeeID, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Leave deleted successfully", gin.H{"leave_id": id}, nil)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id := c.Param("leave_id")

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), id, req); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Leave status updated successfully", gin.H{"leave_id": id}, nil)
}

func (h *Handler) StatusCounts(c *gin.Context) {
	resp, err := h.service.StatusCounts(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Leave status counts retrieved", resp, nil)
}

// ApprovedCount and PendingCount serve the dashboard tiles.
func (h *Handler) ApprovedCount(c *gin.Context) {
	resp, err := h.service.StatusCounts(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Approved leaves retrieved", gin.H{"approvedLeaves": resp.Approved}, nil)
}

func (h *Handler) PendingCount(c *gin.Context) {
	resp, err := h.service.StatusCounts(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Pending leaves retrieved", gin.H{"pendingLeaves": resp.Pending}, nil)
}
