package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized     bool    `json:"initialized"`     // 是否已加载数据
	LoadedAt        string  `json:"loadedAt"`        // 最近加载时间
	Months          int     `json:"months"`          // 月度序列长度
	Customers       int     `json:"customers"`       // 客户数
	Products        int     `json:"products"`        // 产品数
	FactRows        int     `json:"factRows"`        // 事实表行数
	InvalidDateRows int     `json:"invalidDateRows"` // 日期无法解析的行数
	InvalidDatePct  float64 `json:"invalidDatePct"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	datasets, loadedAt := h.snapshot()
	if datasets == nil {
		respondOK(c, StatusResponse{Initialized: false})
		return
	}

	respondOK(c, StatusResponse{
		Initialized:     true,
		LoadedAt:        loadedAt.Format("2006-01-02 15:04:05"),
		Months:          len(datasets.Monthly),
		Customers:       len(datasets.Customers),
		Products:        len(datasets.Products),
		FactRows:        len(datasets.Base),
		InvalidDateRows: datasets.DataQuality.InvalidDateRows,
		InvalidDatePct:  datasets.DataQuality.InvalidDatePct,
	})
}

// Reload 重新加载源表并全量重算
// POST /api/reload
func (h *Handler) Reload(c *gin.Context) {
	if err := h.Load(); err != nil {
		respondError(c, http.StatusInternalServerError, "重新加载失败: "+err.Error())
		return
	}
	datasets, loadedAt := h.snapshot()
	respondOK(c, gin.H{
		"loadedAt": loadedAt.Format("2006-01-02 15:04:05"),
		"factRows": len(datasets.Base),
	})
}
