package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ipodeck/internal/app"
	"ipodeck/internal/transport/http/response"
)

type AnalysisHandler struct {
	analysisService *app.AnalysisService
}

func NewAnalysisHandler(analysisService *app.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

func (h *AnalysisHandler) Analyze(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file upload")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "open upload failed")
		return
	}
	defer file.Close()

	result, err := h.analysisService.Analyze(c.Request.Context(), app.AnalyzeInput{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Reader:   file,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidFileType):
			response.Error(c, http.StatusBadRequest, response.CodeInvalidFileType, err.Error())
		case errors.Is(err, app.ErrFileTooLarge):
			response.Error(c, http.StatusBadRequest, response.CodeFileTooLarge, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrEmptyDocument), errors.Is(err, app.ErrExtractFailed):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrModelCall), errors.Is(err, app.ErrMalformedModelResponse):
			response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailure, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "analysis failed")
		}
		return
	}

	response.OK(c, result)
}

func (h *AnalysisHandler) Get(c *gin.Context) {
	result, err := h.analysisService.Get(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrAnalysisNotFound):
			response.Error(c, http.StatusNotFound, response.CodeAnalysisNotFound, err.Error())
		default:
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		}
		return
	}
	response.OK(c, result)
}

func (h *AnalysisHandler) List(c *gin.Context) {
	response.OK(c, h.analysisService.List())
}

func (h *AnalysisHandler) Criteria(c *gin.Context) {
	response.OK(c, gin.H{
		"criteria":      app.Criteria(),
		"scoring_range": "0-100",
		"description":   "Each criterion is weighted equally for the overall IPO readiness score",
	})
}
