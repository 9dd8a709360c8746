package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"saleslens/internal/model"
)

// GetDatasets 获取全部数据集
// GET /api/datasets
func (h *Handler) GetDatasets(c *gin.Context) {
	datasets, _ := h.snapshot()
	if datasets == nil {
		respondError(c, http.StatusServiceUnavailable, "数据尚未加载")
		return
	}
	respondOK(c, datasets)
}

// GetDataset 按名称获取单个数据集
// GET /api/datasets/:name
func (h *Handler) GetDataset(c *gin.Context) {
	datasets, _ := h.snapshot()
	if datasets == nil {
		respondError(c, http.StatusServiceUnavailable, "数据尚未加载")
		return
	}

	name := c.Param("name")
	data, ok := datasetByName(datasets, name)
	if !ok {
		respondError(c, http.StatusNotFound, "未知数据集: "+name)
		return
	}
	respondOK(c, data)
}

// datasetByName 名称与 JSON 键保持一致
func datasetByName(ds *model.Datasets, name string) (interface{}, bool) {
	switch name {
	case "base":
		return ds.Base, true
	case "monthly":
		return ds.Monthly, true
	case "customers":
		return ds.Customers, true
	case "products":
		return ds.Products, true
	case "regions":
		return ds.Regions, true
	case "salesreps":
		return ds.SalesReps, true
	case "high_risk":
		return ds.HighRisk, true
	case "misalignment":
		return ds.Misalignment, true
	case "geo_anomalies":
		return ds.GeoAnomalies, true
	case "product_trends":
		return ds.ProductTrends, true
	case "customer_rfm":
		return ds.CustomerRFM, true
	case "next_orders":
		return ds.NextOrders, true
	case "cross_sell":
		return ds.CrossSell, true
	case "kpi_cards":
		return ds.KPICards, true
	case "context":
		return ds.Context, true
	case "diagnostic_summary":
		return ds.DiagnosticSummary, true
	case "risk_by_country":
		return ds.RiskByCountry, true
	case "data_quality":
		return ds.DataQuality, true
	default:
		return nil, false
	}
}
