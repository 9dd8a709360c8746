package server

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"saleslens/internal/analytics"
	v1 "saleslens/internal/api/v1"
	"saleslens/internal/config"
	"saleslens/internal/store"
)

// Server HTTP 服务器
type Server struct {
	router *gin.Engine
	store  *store.Store
	v1     *v1.Handler
	http   *http.Server
}

// NewServer 创建服务器：打开数据库、做首次全量计算、注册路由
func NewServer(cfg *config.AppConfig) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	exportDir := filepath.Join(dataDir, "exports")

	sqliteStore, err := store.Open(cfg.Data.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open sales database failed: %w", err)
	}

	engine := analytics.NewEngine(cfg.Analytics)
	v1Handler := v1.NewHandler(sqliteStore, engine, exportDir)

	// 启动时加载一次，之后通过 /api/reload 重算
	if err := v1Handler.Load(); err != nil {
		sqliteStore.Close()
		return nil, fmt.Errorf("initial load failed: %w", err)
	}

	s := &Server{
		router: gin.Default(),
		store:  sqliteStore,
		v1:     v1Handler,
	}
	s.setupRoutes()
	return s, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// V1 API 路由
	api := s.router.Group("/api")
	{
		s.v1.RegisterRoutes(api)
	}

	// 首页：数据通过 /api 提供，前端独立部署
	s.router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
	})
}

const indexPage = `<!DOCTYPE html>
<html lang="zh-CN">
<head><meta charset="utf-8"><title>SalesLens</title></head>
<body>
<h1>SalesLens - 销售数据分析服务</h1>
<p>API 入口: <a href="/api/status">/api/status</a> | <a href="/api/datasets">/api/datasets</a></p>
</body>
</html>
`

// Run 启动服务器
func (s *Server) Run(addr string) error {
	s.http = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			return err
		}
	}
	return s.store.Close()
}

// Handler 获取 V1 处理器（用于测试）
func (s *Server) Handler() *v1.Handler {
	return s.v1
}

// Router 获取路由（用于测试）
func (s *Server) Router() *gin.Engine {
	return s.router
}
