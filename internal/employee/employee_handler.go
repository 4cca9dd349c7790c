package employee

import (
	"net/http"
	"sort"
	"strings"

	employeeerrors "staffly/internal/employee/errors"
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
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("http create employee validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Employee created successfully", resp, nil)
}

// GetAll supports q (name, email or username), sort_by (name|email|id|created_at),
// sort_dir and page/page_size.
func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if q := strings.TrimSpace(strings.ToLower(c.Query("q"))); q != "" {
		filtered := make([]EmployeeResponse, 0, len(resp))
		for _, e := range resp {
			name := strings.ToLower(e.FirstName + " " + e.LastName)
			if strings.Contains(name, q) ||
				strings.Contains(strings.ToLower(e.Email), q) ||
				strings.Contains(strings.ToLower(e.Username), q) {
				filtered = append(filtered, e)
			}
		}
		resp = filtered
	}

	sortBy := strings.ToLower(strings.TrimSpace(c.Query("sort_by")))
	if sortBy != "" {
		desc := strings.EqualFold(c.Query("sort_dir"), "desc")
		sort.SliceStable(resp, func(i, j int) bool {
			var less bool
			switch sortBy {
			case "email":
				less = strings.ToLower(resp[i].Email) < strings.ToLower(resp[j].Email)
			case "id":
				less = resp[i].EmployeeID < resp[j].EmployeeID
			case "created_at":
				less = resp[i].CreatedAt.Before(resp[j].CreatedAt)
			default:
				less = strings.ToLower(resp[i].FirstName+resp[i].LastName) < strings.ToLower(resp[j].FirstName+resp[j].LastName)
			}
			if desc {
				return !less
			}
			return less
		})
	}

	page, meta := response.Paginate(c, resp)
	response.Success(c, http.StatusOK, "Employees retrieved", page, &meta)
}

func (h *Handler) Count(c *gin.Context) {
	resp, err := h.service.Count(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Employee count retrieved", resp, nil)
}

func (h *Handler) GetCurrent(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		h.writeServiceError(c, apperror.ErrUnauthorized)
		return
	}

	resp, err := h.service.GetCurrent(c.Request.Context(), principal.EmployeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Employee retrieved", resp, nil)
}

// GetByID lets a non-admin read only their own record. Other ids look missing.
func (h *Handler) GetByID(c *gin.Context) {
	id := c.Param("id")
	principal, _ := middleware.GetPrincipal(c)
	if !principal.IsAdmin() && principal.EmployeeID != id {
		h.writeServiceError(c, employeeerrors.ErrEmployeeNotFound)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Employee retrieved", resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Employee updated successfully", resp, nil)
}

func (h *Handler) UpdateSalary(c *gin.Context) {
	id := c.Param("id")
	var req UpdateSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.UpdateSalary(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Salary updated successfully", resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	h.logger.Debug("http delete employee", zap.String("employee_id", id))

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Employee deleted successfully", gin.H{"employee_id": id}, nil)
}
