package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"fast-admin/backend/internal/service"
	"fast-admin/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出/导入模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

func writeXLSX(c *gin.Context, buf *bytes.Buffer, filename string) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportDepartments 导出部门列表
// GET /api/v1/depts/export
func (h *ExportHandler) ExportDepartments(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportDepartments(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	writeXLSX(c, buf, filename)
}

// ExportUsers 导出用户列表
// GET /api/v1/users/export
func (h *ExportHandler) ExportUsers(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportUsers(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	writeXLSX(c, buf, filename)
}

// ImportDepartments 导入部门
// POST /api/v1/depts/import (multipart form, field "file")
func (h *ExportHandler) ImportDepartments(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 16001, "无法读取上传文件")
		return
	}
	defer f.Close()

	result, err := h.exportSvc.ImportDepartments(c.Request.Context(), f, callerID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.OK(c, result)
}

// UserImportTemplate 下载用户导入模板
// GET /api/v1/users/import/template
func (h *ExportHandler) UserImportTemplate(c *gin.Context) {
	buf, filename, err := h.exportSvc.UserImportTemplate()
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	writeXLSX(c, buf, filename)
}

// handleExportError 导出模块错误 → HTTP 响应映射
func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrImportBadFile):
		response.BadRequest(c, 16001, "无法读取 Excel 文件")
	case errors.Is(err, service.ErrImportEmptyFile):
		response.BadRequest(c, 16002, "Excel 文件中没有数据行")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
