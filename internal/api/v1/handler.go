package v1

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"saleslens/internal/analytics"
	"saleslens/internal/model"
	"saleslens/internal/store"
)

// Handler V1 API 处理器。数据集在加载/重载时全量计算并缓存在内存，
// 请求只读缓存，不做增量重算。
type Handler struct {
	store     *store.Store
	engine    *analytics.Engine
	exportDir string
	downloads *exportDownloadStore

	mu       sync.RWMutex
	datasets *model.Datasets
	loadedAt time.Time
}

// NewHandler 创建 V1 API 处理器
func NewHandler(s *store.Store, engine *analytics.Engine, exportDir string) *Handler {
	return &Handler{
		store:     s,
		engine:    engine,
		exportDir: exportDir,
		downloads: newExportDownloadStore(),
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 数据集查询
	router.GET("/datasets", h.GetDatasets)
	router.GET("/datasets/:name", h.GetDataset)

	// 重新加载
	router.POST("/reload", h.Reload)

	// 数据导出
	router.POST("/export", h.Export)
	router.GET("/export/download/:token", h.DownloadExport)
}

// Response 统一响应格式
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "成功", Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Code: status, Message: message})
}

// Load 从数据库加载源表并重建全部数据集
func (h *Handler) Load() error {
	raw, err := h.store.LoadRawTables()
	if err != nil {
		return fmt.Errorf("load raw tables failed: %w", err)
	}
	datasets, err := h.engine.Build(raw)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.datasets = datasets
	h.loadedAt = time.Now()
	h.mu.Unlock()
	return nil
}

// snapshot 取当前缓存的数据集
func (h *Handler) snapshot() (*model.Datasets, time.Time) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.datasets, h.loadedAt
}
