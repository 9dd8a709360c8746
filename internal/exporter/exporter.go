package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"saleslens/internal/model"
)

// Exporter Excel 导出器：一张分析表一个 sheet
type Exporter struct{}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export 导出全部分析数据集到 Excel
func (e *Exporter) Export(ds *model.Datasets) (*excelize.File, error) {
	if ds == nil {
		return nil, fmt.Errorf("export: datasets are nil")
	}

	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style failed: %w", err)
	}

	first := true
	writeSheet := func(name string, headers []string, rows [][]interface{}) error {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return err
			}
			first = false
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return err
			}
		}

		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(name, cell, h)
		}
		f.SetRowStyle(name, 1, 1, headerStyle)

		for r, row := range rows {
			for col, v := range row {
				if v == nil {
					continue
				}
				cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
				f.SetCellValue(name, cell, v)
			}
		}
		return nil
	}

	if err := writeSheet("月度KPI", monthlyHeaders, monthlyRows(ds.Monthly)); err != nil {
		return nil, fmt.Errorf("write monthly sheet failed: %w", err)
	}
	if err := writeSheet("客户聚合", customerHeaders, customerRows(ds.Customers)); err != nil {
		return nil, fmt.Errorf("write customers sheet failed: %w", err)
	}
	if err := writeSheet("产品聚合", productHeaders, productRows(ds.Products)); err != nil {
		return nil, fmt.Errorf("write products sheet failed: %w", err)
	}
	if err := writeSheet("销售代表", salesRepHeaders, salesRepRows(ds.SalesReps)); err != nil {
		return nil, fmt.Errorf("write salesreps sheet failed: %w", err)
	}
	if err := writeSheet("国家区域", regionHeaders, regionRows(ds.Regions)); err != nil {
		return nil, fmt.Errorf("write regions sheet failed: %w", err)
	}
	if err := writeSheet("高风险客户", highRiskHeaders, highRiskRows(ds.HighRisk)); err != nil {
		return nil, fmt.Errorf("write high risk sheet failed: %w", err)
	}
	if err := writeSheet("信用错配", misalignmentHeaders, misalignmentRows(ds.Misalignment)); err != nil {
		return nil, fmt.Errorf("write misalignment sheet failed: %w", err)
	}
	if err := writeSheet("地理信用异常", geoAnomalyHeaders, geoAnomalyRows(ds.GeoAnomalies)); err != nil {
		return nil, fmt.Errorf("write geo anomalies sheet failed: %w", err)
	}
	if err := writeSheet("产品需求趋势", productTrendHeaders, productTrendRows(ds.ProductTrends)); err != nil {
		return nil, fmt.Errorf("write product trends sheet failed: %w", err)
	}
	if err := writeSheet("客户RFM", rfmHeaders, rfmRows(ds.CustomerRFM)); err != nil {
		return nil, fmt.Errorf("write rfm sheet failed: %w", err)
	}
	if err := writeSheet("下次下单预测", nextOrderHeaders, nextOrderRows(ds.NextOrders)); err != nil {
		return nil, fmt.Errorf("write next orders sheet failed: %w", err)
	}
	if err := writeSheet("交叉销售", crossSellHeaders, crossSellRows(ds.CrossSell)); err != nil {
		return nil, fmt.Errorf("write cross sell sheet failed: %w", err)
	}

	return f, nil
}

func fcell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func scell(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func icell(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

var monthlyHeaders = []string{
	"月份", "销售额", "订单数", "客户数", "准时订单数", "平均订单额", "准时率%",
	"环比变化", "环比%", "同比变化", "同比%", "3月滚动均值",
}

func monthlyRows(monthly []model.MonthlyKPI) [][]interface{} {
	rows := make([][]interface{}, 0, len(monthly))
	for _, m := range monthly {
		rows = append(rows, []interface{}{
			m.SalesMonth, m.TotalSales, m.TotalOrders, m.TotalCustomers, m.OnTimeOrders,
			m.AvgOrderValue, m.OnTimeRatePct,
			fcell(m.MoMChange), fcell(m.MoMPct), fcell(m.YoYChange), fcell(m.YoYPct),
			m.Rolling3MAvg,
		})
	}
	return rows
}

var customerHeaders = []string{
	"客户号", "客户名称", "国家", "销售额", "销量", "订单数", "产品数",
	"单均销售额", "单均销量", "品均销售额", "全局占比%", "累计占比%", "名次", "ABC",
}

func customerRows(customers []model.CustomerAgg) [][]interface{} {
	rows := make([][]interface{}, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []interface{}{
			c.CustomerNumber, c.CustomerName, c.Country, c.TotalSales, c.TotalUnits,
			c.NumOrders, c.NumProducts, c.AvgSalesPerOrder, c.AvgUnitsPerOrder,
			c.AvgSalesPerProduct, c.PctOfGlobalSales, c.CumulativePct, c.SalesRank, c.ABCClass,
		})
	}
	return rows
}

var productHeaders = []string{
	"产品编码", "产品名称", "产品线", "销售额", "销量", "订单数", "客户数",
	"单均销售额", "单均销量", "客均销售额", "全局占比%", "累计占比%", "名次", "ABC",
}

func productRows(products []model.ProductAgg) [][]interface{} {
	rows := make([][]interface{}, 0, len(products))
	for _, p := range products {
		rows = append(rows, []interface{}{
			p.ProductCode, p.ProductName, p.ProductLine, p.TotalSales, p.TotalUnits,
			p.NumOrders, p.NumCustomers, p.AvgSalesPerOrder, p.AvgUnitsPerOrder,
			p.AvgSalesPerCustomer, p.PctOfGlobalSales, p.CumulativePct, p.SalesRank, p.ABCClass,
		})
	}
	return rows
}

var salesRepHeaders = []string{
	"工号", "姓名", "职位", "办公室", "销售额", "销量", "订单数", "客户数", "客户国家数",
	"单均销售额", "单均销量", "客均销售额", "全局占比%", "累计占比%", "名次", "ABC",
}

func salesRepRows(reps []model.SalesRepAgg) [][]interface{} {
	rows := make([][]interface{}, 0, len(reps))
	for _, r := range reps {
		rows = append(rows, []interface{}{
			r.EmployeeNumber, r.EmployeeName, r.JobTitle, r.OfficeCode, r.TotalSales,
			r.TotalUnits, r.NumOrders, r.NumCustomers, r.NumCustomerCountries,
			r.AvgSalesPerOrder, r.AvgUnitsPerOrder, r.AvgSalesPerCustomer,
			r.PctOfGlobalSales, r.CumulativePct, r.SalesRank, r.ABCClass,
		})
	}
	return rows
}

var regionHeaders = []string{
	"区域", "国家", "销售额", "订单数", "客户数", "区域销售额", "区域订单数", "区域客户数",
	"客均销售额", "平均订单额", "区域占比%", "全局占比%", "区域内名次",
}

func regionRows(regions []model.CountryAgg) [][]interface{} {
	rows := make([][]interface{}, 0, len(regions))
	for _, r := range regions {
		rows = append(rows, []interface{}{
			r.Region, r.Country, r.TotalSales, r.NumOrders, r.NumCustomers,
			r.RegionTotalSales, r.RegionNumOrders, r.RegionNumCustomers,
			r.AvgSalesPerCustomer, r.AvgOrderValue, r.PctOfRegionSales,
			r.PctOfGlobalSales, r.RankInRegion,
		})
	}
	return rows
}

var highRiskHeaders = []string{
	"客户号", "客户名称", "国家", "信用额度", "销售额", "最近下单日", "距今天数",
	"信用/销售比", "销售/信用比", "活跃度标志", "比值标志", "风险类别", "风险金额",
}

func highRiskRows(highRisk []model.HighRiskCustomer) [][]interface{} {
	rows := make([][]interface{}, 0, len(highRisk))
	for _, h := range highRisk {
		rows = append(rows, []interface{}{
			h.CustomerNumber, h.CustomerName, h.Country, h.CreditLimit, h.TotalSales,
			scell(h.LastOrderDate), icell(h.DaysSinceLastOrder),
			fcell(h.CreditToSalesRatio), fcell(h.SalesToCreditRatio),
			h.ActivityFlag, scell(h.RatioFlag), h.RiskCategory, h.AmountAtRisk,
		})
	}
	return rows
}

var misalignmentHeaders = []string{
	"客户号", "客户名称", "国家", "信用额度", "销售额", "信用/销售比", "销售/信用比", "错配类别",
}

func misalignmentRows(misalignment []model.MisalignedCustomer) [][]interface{} {
	rows := make([][]interface{}, 0, len(misalignment))
	for _, m := range misalignment {
		rows = append(rows, []interface{}{
			m.CustomerNumber, m.CustomerName, m.Country, m.CreditLimit, m.TotalSales,
			fcell(m.CreditToSalesRatio), fcell(m.SalesToCreditRatio), m.MisalignmentCategory,
		})
	}
	return rows
}

var geoAnomalyHeaders = []string{
	"国家", "客户数", "信用额度合计", "平均信用额度", "销售额", "客均销售额",
	"信用/销售比", "百分位", "异常类别",
}

func geoAnomalyRows(anomalies []model.GeoCreditAnomaly) [][]interface{} {
	rows := make([][]interface{}, 0, len(anomalies))
	for _, g := range anomalies {
		rows = append(rows, []interface{}{
			g.Country, g.NumCustomers, g.TotalCreditLimit, g.AvgCreditLimit,
			g.TotalSales, g.AvgSalesPerCustomer, g.CreditToSalesRatio, g.RatioPct,
			g.AnomalyCategory,
		})
	}
	return rows
}

var productTrendHeaders = []string{
	"产品编码", "产品名称", "近窗均值", "前窗均值", "增长率", "增长率%", "趋势标志",
}

func productTrendRows(trends []model.ProductTrend) [][]interface{} {
	rows := make([][]interface{}, 0, len(trends))
	for _, t := range trends {
		rows = append(rows, []interface{}{
			t.ProductCode, t.ProductName, fcell(t.RecentAvg), fcell(t.PrevAvg),
			fcell(t.GrowthRate), fcell(t.GrowthRatePct), t.DemandTrendFlag,
		})
	}
	return rows
}

var rfmHeaders = []string{
	"客户号", "客户名称", "国家", "订单数", "销售额", "最近下单日", "距今天数",
	"R", "F", "M", "RFM总分", "分段",
}

func rfmRows(rfm []model.CustomerRFM) [][]interface{} {
	rows := make([][]interface{}, 0, len(rfm))
	for _, r := range rfm {
		rows = append(rows, []interface{}{
			r.CustomerNumber, r.CustomerName, r.Country, r.FreqOrders, r.Monetary,
			r.LastOrderDate, r.DaysSinceLastOrder,
			r.RScore, r.FScore, r.MScore, r.RFMScore, r.RFMSegment,
		})
	}
	return rows
}

var nextOrderHeaders = []string{
	"客户号", "客户名称", "国家", "最近下单日", "平均间隔天数", "预测下单日",
}

func nextOrderRows(predictions []model.NextOrderPrediction) [][]interface{} {
	rows := make([][]interface{}, 0, len(predictions))
	for _, p := range predictions {
		rows = append(rows, []interface{}{
			p.CustomerNumber, p.CustomerName, p.Country, p.LastOrderDate,
			fcell(p.AvgGapDays), scell(p.ExpectedNextOrderDate),
		})
	}
	return rows
}

var crossSellHeaders = []string{
	"产品1", "产品1名称", "产品2", "产品2名称", "共现次数", "产品1订单数", "产品2订单数",
	"总订单数", "支持度", "置信度1→2", "置信度2→1", "期望共现", "提升度",
}

func crossSellRows(pairs []model.CrossSellPair) [][]interface{} {
	rows := make([][]interface{}, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []interface{}{
			p.ProductCode1, p.ProductName1, p.ProductCode2, p.ProductName2,
			p.CooccurrenceCount, p.Product1Orders, p.Product2Orders, p.TotalOrders,
			p.Support, p.ConfidenceFromP1, p.ConfidenceFromP2,
			p.ExpectedCooccurrence, p.Lift,
		})
	}
	return rows
}
