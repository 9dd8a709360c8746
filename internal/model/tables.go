package model

// 派生分析表的行类型。每次加载全量重算，不做增量更新。
// 无定义的比值 / 滞后指标（分母为零、前 12 期缺失等）用指针表示，序列化为 JSON null。

// MonthlyKPI 月度公司级 KPI 行
type MonthlyKPI struct {
	SalesMonth     string   `json:"salesMonth"` // YYYY-MM
	TotalSales     float64  `json:"totalSales"`
	TotalOrders    int      `json:"totalOrders"`
	TotalCustomers int      `json:"totalCustomers"`
	OnTimeOrders   int      `json:"onTimeOrders"`
	AvgOrderValue  float64  `json:"avgOrderValue"`
	OnTimeRatePct  float64  `json:"onTimeRate_pct"`
	MoMChange      *float64 `json:"mom_change"` // 首行为 null
	MoMPct         *float64 `json:"mom_pct"`
	YoYChange      *float64 `json:"yoy_change"` // 前 12 期为 null
	YoYPct         *float64 `json:"yoy_pct"`
	Rolling3MAvg   float64  `json:"rolling3M_avg"` // 序列起点窗口收缩，最少 1 期
}

// AggRanking 排名与 ABC 分级字段（各实体聚合共用）
type AggRanking struct {
	PctOfGlobalSales float64 `json:"pct_of_global_sales"`
	CumulativePct    float64 `json:"cumulative_pct_of_global_sales"`
	SalesRank        int     `json:"sales_rank"` // 1 = 销售额最高
	ABCClass         string  `json:"abc_class"`  // A / B / C
}

// CustomerAgg 客户聚合行
type CustomerAgg struct {
	CustomerNumber     int     `json:"customerNumber"`
	CustomerName       string  `json:"customerName"`
	Country            string  `json:"country"`
	TotalSales         float64 `json:"total_sales"`
	TotalUnits         int     `json:"total_units"`
	NumOrders          int     `json:"num_orders"`
	NumProducts        int     `json:"num_products"`
	AvgSalesPerOrder   float64 `json:"avg_sales_per_order"`
	AvgUnitsPerOrder   float64 `json:"avg_units_per_order"`
	AvgSalesPerProduct float64 `json:"avg_sales_per_product"`
	AggRanking
}

// ProductAgg 产品聚合行
type ProductAgg struct {
	ProductCode         string  `json:"productCode"`
	ProductName         string  `json:"productName"`
	ProductLine         string  `json:"productLine"`
	TotalSales          float64 `json:"total_sales"`
	TotalUnits          int     `json:"total_units"`
	NumOrders           int     `json:"num_orders"`
	NumCustomers        int     `json:"num_customers"`
	AvgSalesPerOrder    float64 `json:"avg_sales_per_order"`
	AvgUnitsPerOrder    float64 `json:"avg_units_per_order"`
	AvgSalesPerCustomer float64 `json:"avg_sales_per_customer"`
	AggRanking
}

// SalesRepAgg 销售代表聚合行
type SalesRepAgg struct {
	EmployeeNumber       int     `json:"employeeNumber"`
	EmployeeName         string  `json:"employeeName"`
	JobTitle             string  `json:"jobTitle"`
	OfficeCode           string  `json:"officeCode"`
	TotalSales           float64 `json:"total_sales"`
	TotalUnits           int     `json:"total_units"`
	NumOrders            int     `json:"num_orders"`
	NumCustomers         int     `json:"num_customers"`
	NumCustomerCountries int     `json:"num_customer_countries"`
	AvgSalesPerOrder     float64 `json:"avg_sales_per_order"`
	AvgUnitsPerOrder     float64 `json:"avg_units_per_order"`
	AvgSalesPerCustomer  float64 `json:"avg_sales_per_customer"`
	AggRanking
}

// CountryAgg 国家×区域聚合行
type CountryAgg struct {
	Region              string  `json:"region"`
	Country             string  `json:"country"`
	TotalSales          float64 `json:"total_sales"`
	NumOrders           int     `json:"num_orders"`
	NumCustomers        int     `json:"num_customers"`
	RegionTotalSales    float64 `json:"region_total_sales"`
	RegionNumOrders     int     `json:"region_num_orders"`
	RegionNumCustomers  int     `json:"region_num_customers"`
	AvgSalesPerCustomer float64 `json:"avg_sales_per_customer"`
	AvgOrderValue       float64 `json:"avg_order_value"`
	PctOfRegionSales    float64 `json:"pct_of_region_sales"`
	PctOfGlobalSales    float64 `json:"pct_of_global_sales"`
	RankInRegion        int     `json:"rank_in_region"` // min 法并列排名
}

// HighRiskCustomer 高风险客户行
type HighRiskCustomer struct {
	CustomerNumber     int      `json:"customerNumber"`
	CustomerName       string   `json:"customerName"`
	Country            string   `json:"country"`
	CreditLimit        float64  `json:"creditLimit"`
	TotalSales         float64  `json:"totalSales"`
	LastOrderDate      *string  `json:"lastOrderDate"` // 从未下单为 null
	DaysSinceLastOrder *int     `json:"daysSinceLastOrder"`
	CreditToSalesRatio *float64 `json:"credit_to_sales_ratio"` // totalSales = 0 时无定义
	SalesToCreditRatio *float64 `json:"sales_to_credit_ratio"` // creditLimit = 0 时无定义
	ActivityFlag       string   `json:"activityFlag"`
	RatioFlag          *string  `json:"ratioFlag"`
	RiskCategory       string   `json:"riskCategory"`
	AmountAtRisk       float64  `json:"amount_at_risk"`
}

// MisalignedCustomer 信用额度与销售额错配行
type MisalignedCustomer struct {
	CustomerNumber       int      `json:"customerNumber"`
	CustomerName         string   `json:"customerName"`
	Country              string   `json:"country"`
	CreditLimit          float64  `json:"creditLimit"`
	TotalSales           float64  `json:"totalSales"`
	CreditToSalesRatio   *float64 `json:"credit_to_sales_ratio"`
	SalesToCreditRatio   *float64 `json:"sales_to_credit_ratio"`
	MisalignmentCategory string   `json:"misalignmentCategory"`
}

// GeoCreditAnomaly 国家级信用/销售异常行（仅输出被标记的国家）
type GeoCreditAnomaly struct {
	Country             string  `json:"country"`
	NumCustomers        int     `json:"num_customers"`
	TotalCreditLimit    float64 `json:"total_credit_limit"`
	AvgCreditLimit      float64 `json:"avg_credit_limit"`
	TotalSales          float64 `json:"total_sales"`
	AvgSalesPerCustomer float64 `json:"avg_sales_per_customer"`
	CreditToSalesRatio  float64 `json:"credit_to_sales_ratio"`
	RatioPct            float64 `json:"ratio_pct"` // 比值在全部国家中的百分位
	AnomalyCategory     string  `json:"anomalyCategory"`
}

// ProductTrend 产品需求趋势行
type ProductTrend struct {
	ProductCode     string   `json:"productCode"`
	ProductName     string   `json:"productName"`
	RecentAvg       *float64 `json:"recent_avg"` // 近 0-2 月窗口均值，窗口无数据为 null
	PrevAvg         *float64 `json:"prev_avg"`   // 前 3-5 月窗口均值
	GrowthRate      *float64 `json:"growth_rate"`
	GrowthRatePct   *float64 `json:"growth_rate_pct"`
	DemandTrendFlag string   `json:"demand_trend_flag"` // GROWING / STABLE / DECLINING / INSUFFICIENT_DATA
}

// CustomerRFM 客户 RFM 评分行
type CustomerRFM struct {
	CustomerNumber     int     `json:"customerNumber"`
	CustomerName       string  `json:"customerName"`
	Country            string  `json:"country"`
	FreqOrders         int     `json:"freq_orders"`
	Monetary           float64 `json:"monetary"`
	LastOrderDate      string  `json:"last_order_date"`
	DaysSinceLastOrder int     `json:"days_since_last_order"`
	RScore             float64 `json:"r_score"` // 分箱数依赖去重后的取值个数，故为浮点
	FScore             float64 `json:"f_score"`
	MScore             float64 `json:"m_score"`
	RFMScore           float64 `json:"rfm_score"`
	RFMSegment         string  `json:"rfm_segment"` // Champions / Loyal / Potential / At Risk
}

// NextOrderPrediction 下次下单日期预测行
type NextOrderPrediction struct {
	CustomerNumber        int      `json:"customerNumber"`
	CustomerName          string   `json:"customerName"`
	Country               string   `json:"country"`
	LastOrderDate         string   `json:"last_order_date"`
	AvgGapDays            *float64 `json:"avg_gap_days"` // 历史订单不足 2 笔为 null
	ExpectedNextOrderDate *string  `json:"expected_next_order_date"`
}

// CrossSellPair 交叉销售产品对行（productCode_1 < productCode_2 规范化）
type CrossSellPair struct {
	ProductCode1         string  `json:"productCode_1"`
	ProductName1         string  `json:"productName_1"`
	ProductCode2         string  `json:"productCode_2"`
	ProductName2         string  `json:"productName_2"`
	CooccurrenceCount    int     `json:"cooccurrence_count"`
	Product1Orders       int     `json:"product1_orders"`
	Product2Orders       int     `json:"product2_orders"`
	TotalOrders          int     `json:"total_orders"`
	Support              float64 `json:"support"`
	ConfidenceFromP1     float64 `json:"confidence_from_p1"`
	ConfidenceFromP2     float64 `json:"confidence_from_p2"`
	ExpectedCooccurrence float64 `json:"expected_cooccurrence"`
	Lift                 float64 `json:"lift"`
}

// KPIPair KPI 卡片的本期/上期取值对
type KPIPair struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
}

// KPICards 仪表盘 KPI 卡片数据（固定形状，单行）
type KPICards struct {
	CurrentYear           int     `json:"currentYear"`
	PreviousYear          int     `json:"previousYear"`
	TotalRevenue          KPIPair `json:"totalRevenue"`
	TotalOrders           KPIPair `json:"totalOrders"`
	AvgOrderValue         KPIPair `json:"avgOrderValue"`
	OnTimeRate            KPIPair `json:"onTimeRate"`
	PaymentCoverage       KPIPair `json:"paymentCoverage"`
	CustomerConcentration KPIPair `json:"customerConcentration"`
	ProductConcentration  KPIPair `json:"productConcentration"`
}

// ContextBanner 上下文横幅（结构性计数）
type ContextBanner struct {
	Offices         int `json:"offices"`
	SalesReps       int `json:"sales_reps"`
	CountriesServed int `json:"countries_served"`
	Customers       int `json:"customers"`
}

// DiagnosticSummary 诊断汇总
type DiagnosticSummary struct {
	HighRiskCustomersCount int     `json:"high_risk_customers_count"`
	HighRiskCustomersPct   float64 `json:"high_risk_customers_pct"`
	AmountAtRisk           float64 `json:"amount_at_risk"`
	MisalignmentCount      int     `json:"misalignment_count"`
	OverCreditedCount      int     `json:"over_credited_count"`
	UnderCreditedCount     int     `json:"under_credited_count"`
}

// CountryRisk 按国家汇总的风险金额行
type CountryRisk struct {
	Country    string  `json:"country"`
	RiskAmount float64 `json:"risk_amount"`
}

// DataQuality 数据质量统计（日期无法解析的行）
type DataQuality struct {
	InvalidDateRows int     `json:"invalid_date_rows"`
	InvalidDatePct  float64 `json:"invalid_date_pct"`
}

// Datasets 提供给展示层的全量数据集
type Datasets struct {
	Base              []FactRow             `json:"base"`
	Monthly           []MonthlyKPI          `json:"monthly"`
	Customers         []CustomerAgg         `json:"customers"`
	Products          []ProductAgg          `json:"products"`
	Regions           []CountryAgg          `json:"regions"`
	SalesReps         []SalesRepAgg         `json:"salesreps"`
	HighRisk          []HighRiskCustomer    `json:"high_risk"`
	Misalignment      []MisalignedCustomer  `json:"misalignment"`
	GeoAnomalies      []GeoCreditAnomaly    `json:"geo_anomalies"`
	ProductTrends     []ProductTrend        `json:"product_trends"`
	CustomerRFM       []CustomerRFM         `json:"customer_rfm"`
	NextOrders        []NextOrderPrediction `json:"next_orders"`
	CrossSell         []CrossSellPair       `json:"cross_sell"`
	KPICards          KPICards              `json:"kpi_cards"`
	Context           ContextBanner         `json:"context"`
	DiagnosticSummary DiagnosticSummary     `json:"diagnostic_summary"`
	RiskByCountry     []CountryRisk         `json:"risk_by_country"`
	DataQuality       DataQuality           `json:"data_quality"`
}
