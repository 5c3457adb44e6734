package handlers

import (
	"context"
	"net/http"

	"quiz-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	Service *service.ReportService
}

func NewReportHandler(s *service.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

func (h *ReportHandler) GetQuizReport(c *gin.Context) {
	quizID := c.Param("id")
	report, err := h.Service.GetQuizReport(context.Background(), quizID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
