package v1

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"saleslens/internal/exporter"
)

const downloadTTL = 10 * time.Minute

// Export 导出 Excel 并返回下载令牌
// POST /api/export
func (h *Handler) Export(c *gin.Context) {
	datasets, _ := h.snapshot()
	if datasets == nil {
		respondError(c, http.StatusServiceUnavailable, "数据尚未加载")
		return
	}

	exp := exporter.NewExporter()
	file, err := exp.Export(datasets)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "导出失败: "+err.Error())
		return
	}
	defer file.Close()

	fileName := fmt.Sprintf("saleslens_export_%s.xlsx", time.Now().Format("20060102_150405"))
	filePath := filepath.Join(h.exportDir, fileName)
	if err := file.SaveAs(filePath); err != nil {
		respondError(c, http.StatusInternalServerError, "写入导出文件失败: "+err.Error())
		return
	}

	token := h.downloads.put(filePath, downloadTTL)
	respondOK(c, gin.H{
		"token":       token,
		"fileName":    fileName,
		"downloadUrl": "/api/export/download/" + token,
	})
}

// DownloadExport 按令牌下载导出文件
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	item, ok := h.downloads.get(token)
	if !ok {
		respondError(c, http.StatusNotFound, "下载链接不存在或已过期")
		return
	}

	c.FileAttachment(item.filePath, filepath.Base(item.filePath))
}
