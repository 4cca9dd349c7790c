package department

import (
	"net/http"

	"staffly/internal/shared/apperror"
	"staffly/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message)
		return
	}
	response.Success(c, http.StatusOK, "Departments retrieved", resp, nil)
}

func (h *Handler) Count(c *gin.Context) {
	resp, err := h.service.Count(c.Request.Context())
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message)
		return
	}
	response.Success(c, http.StatusOK, "Department count retrieved", resp, nil)
}
