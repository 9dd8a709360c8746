package analytics

import (
	"fmt"
	"log"

	"saleslens/internal/config"
	"saleslens/internal/model"
)

// Engine 分析引擎。每次 Build 从源表全量重算全部派生数据集，单线程
// 顺序执行，各聚合只读事实表、各写各的输出，互不共享可变状态。
type Engine struct {
	cfg           config.AnalyticsConfig
	regionMapping map[string]string
}

// NewEngine 创建分析引擎，阈值零值回落到默认配置
func NewEngine(cfg config.AnalyticsConfig) *Engine {
	defaults := config.DefaultConfig().Analytics
	if cfg.CreditRatioThreshold <= 0 {
		cfg.CreditRatioThreshold = defaults.CreditRatioThreshold
	}
	if cfg.RecencyThresholdDays <= 0 {
		cfg.RecencyThresholdDays = defaults.RecencyThresholdDays
	}
	if cfg.MinCooccurrence <= 0 {
		cfg.MinCooccurrence = defaults.MinCooccurrence
	}
	if cfg.TopCustomerPct <= 0 {
		cfg.TopCustomerPct = defaults.TopCustomerPct
	}
	if cfg.TopProductN <= 0 {
		cfg.TopProductN = defaults.TopProductN
	}
	return &Engine{
		cfg:           cfg,
		regionMapping: DefaultRegionMapping(),
	}
}

// SetRegionMapping 覆盖国家→区域映射（测试用）
func (e *Engine) SetRegionMapping(mapping map[string]string) {
	e.regionMapping = mapping
}

// Build 运行完整分析流水线
func (e *Engine) Build(raw *model.RawTables) (*model.Datasets, error) {
	if raw == nil {
		return nil, fmt.Errorf("build datasets: raw tables are nil")
	}

	base := BuildBase(raw.Orders, raw.OrderDetails, raw.Customers, raw.Products, raw.Employees)

	monthly, dataQuality := MonthlyKPIs(base)
	if dataQuality.InvalidDateRows > 0 {
		log.Printf("数据质量: %d 行日期无法解析 (%.2f%%)，已从时序聚合中排除",
			dataQuality.InvalidDateRows, dataQuality.InvalidDatePct)
	}

	customers := AggregateCustomers(base)
	products := AggregateProducts(base)
	salesReps := AggregateSalesReps(base)
	regions := AggregateRegions(base, e.regionMapping)

	highRisk, err := HighRiskCustomers(base, raw.Customers, e.cfg.CreditRatioThreshold, e.cfg.RecencyThresholdDays)
	if err != nil {
		return nil, fmt.Errorf("high risk scan failed: %w", err)
	}
	misalignment, err := CreditMisalignment(base, raw.Customers, e.cfg.CreditRatioThreshold)
	if err != nil {
		return nil, fmt.Errorf("credit misalignment scan failed: %w", err)
	}
	geoAnomalies, err := GeoCreditAnomalies(base, raw.Customers)
	if err != nil {
		return nil, fmt.Errorf("geographic credit scan failed: %w", err)
	}

	productTrends := ProductDemandTrends(base)
	customerRFM := CustomerRFM(base)
	nextOrders := NextOrderPredictions(base)
	crossSell := CrossSellPairs(base, e.cfg.MinCooccurrence)

	kpiCards := BuildKPICards(monthly, base, raw.Payments, customers, products,
		e.cfg.TopCustomerPct, e.cfg.TopProductN)
	context := BuildContextBanner(base, raw.Offices, raw.Employees)
	diagnosticSummary := BuildDiagnosticSummary(highRisk, misalignment)
	riskByCountry := RiskByCountry(highRisk)

	return &model.Datasets{
		Base:              base,
		Monthly:           monthly,
		Customers:         customers,
		Products:          products,
		Regions:           regions,
		SalesReps:         salesReps,
		HighRisk:          highRisk,
		Misalignment:      misalignment,
		GeoAnomalies:      geoAnomalies,
		ProductTrends:     productTrends,
		CustomerRFM:       customerRFM,
		NextOrders:        nextOrders,
		CrossSell:         crossSell,
		KPICards:          kpiCards,
		Context:           context,
		DiagnosticSummary: diagnosticSummary,
		RiskByCountry:     riskByCountry,
		DataQuality:       dataQuality,
	}, nil
}
