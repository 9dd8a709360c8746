package analytics

import (
	"sort"
	"strconv"
	"strings"

	"saleslens/internal/model"
)

// 汇总构建：KPI 卡片、上下文横幅、诊断汇总、按国家风险金额。
// 只做已有输出的折叠与重排，不回读事实表重算明细。

// PaymentCoverage 全局回款覆盖率（已付总额 / 开票总额 × 100）
func PaymentCoverage(base []model.FactRow, payments []model.Payment) float64 {
	totalSales := 0.0
	for _, row := range base {
		totalSales += row.LineSales
	}
	if totalSales <= 0 {
		return 0
	}
	totalPaid := 0.0
	for _, p := range payments {
		totalPaid += p.Amount
	}
	return round2(totalPaid / totalSales * 100)
}

// CustomerConcentration 收入集中度：销售额前 topPct 比例客户的收入占比。
// 客户数过少时至少取 1 个，避免空头部。
func CustomerConcentration(customers []model.CustomerAgg, topPct float64) float64 {
	if len(customers) == 0 {
		return 0
	}
	topN := int(float64(len(customers)) * topPct)
	if topN < 1 {
		topN = 1
	}
	if topN > len(customers) {
		topN = len(customers)
	}

	topRevenue, totalRevenue := 0.0, 0.0
	for i, c := range customers {
		totalRevenue += c.TotalSales
		if i < topN {
			topRevenue += c.TotalSales
		}
	}
	if totalRevenue <= 0 {
		return 0
	}
	return round2(topRevenue / totalRevenue * 100)
}

// ProductConcentration 收入集中度：销售额前 topN 个产品的收入占比
func ProductConcentration(products []model.ProductAgg, topN int) float64 {
	if len(products) == 0 || topN < 1 {
		return 0
	}
	if topN > len(products) {
		topN = len(products)
	}

	topRevenue, totalRevenue := 0.0, 0.0
	for i, p := range products {
		totalRevenue += p.TotalSales
		if i < topN {
			topRevenue += p.TotalSales
		}
	}
	if totalRevenue <= 0 {
		return 0
	}
	return round2(topRevenue / totalRevenue * 100)
}

// monthYear 从 YYYY-MM 键取年份
func monthYear(salesMonth string) int {
	if len(salesMonth) < 4 {
		return 0
	}
	y, _ := strconv.Atoi(salesMonth[:4])
	return y
}

// BuildKPICards 构建 KPI 卡片数据
//
// 本期 / 上期取月度表中出现的最近两个年份；只有一个年份时上期为其前一
// 年，对应取值按空集归零。回款覆盖率与集中度不分年度，两期同值。
func BuildKPICards(
	monthly []model.MonthlyKPI,
	base []model.FactRow,
	payments []model.Payment,
	customers []model.CustomerAgg,
	products []model.ProductAgg,
	topCustomerPct float64,
	topProductN int,
) model.KPICards {
	yearSet := make(map[int]struct{})
	for _, m := range monthly {
		yearSet[monthYear(m.SalesMonth)] = struct{}{}
	}
	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	cards := model.KPICards{}
	switch {
	case len(years) >= 2:
		cards.CurrentYear = years[len(years)-1]
		cards.PreviousYear = years[len(years)-2]
	case len(years) == 1:
		cards.CurrentYear = years[0]
		cards.PreviousYear = years[0] - 1
	}

	yearTotals := func(year int) (revenue float64, orders float64, aov float64, onTime float64) {
		months := 0
		for _, m := range monthly {
			if monthYear(m.SalesMonth) != year {
				continue
			}
			revenue += m.TotalSales
			orders += float64(m.TotalOrders)
			aov += m.AvgOrderValue
			onTime += m.OnTimeRatePct
			months++
		}
		if months > 0 {
			aov = round2(aov / float64(months))
			onTime = round2(onTime / float64(months))
		}
		revenue = round2(revenue)
		return
	}

	curRevenue, curOrders, curAOV, curOnTime := yearTotals(cards.CurrentYear)
	prevRevenue, prevOrders, prevAOV, prevOnTime := yearTotals(cards.PreviousYear)

	cards.TotalRevenue = model.KPIPair{Current: curRevenue, Previous: prevRevenue}
	cards.TotalOrders = model.KPIPair{Current: curOrders, Previous: prevOrders}
	cards.AvgOrderValue = model.KPIPair{Current: curAOV, Previous: prevAOV}
	cards.OnTimeRate = model.KPIPair{Current: curOnTime, Previous: prevOnTime}

	coverage := PaymentCoverage(base, payments)
	cards.PaymentCoverage = model.KPIPair{Current: coverage, Previous: coverage}

	custConc := CustomerConcentration(customers, topCustomerPct)
	cards.CustomerConcentration = model.KPIPair{Current: custConc, Previous: custConc}

	prodConc := ProductConcentration(products, topProductN)
	cards.ProductConcentration = model.KPIPair{Current: prodConc, Previous: prodConc}

	return cards
}

// BuildContextBanner 上下文横幅的结构性计数
func BuildContextBanner(base []model.FactRow, offices []model.Office, employees []model.Employee) model.ContextBanner {
	officeSet := make(map[string]struct{})
	for _, o := range offices {
		officeSet[o.OfficeCode] = struct{}{}
	}
	repSet := make(map[int]struct{})
	for _, e := range employees {
		repSet[e.EmployeeNumber] = struct{}{}
	}
	countrySet := make(map[string]struct{})
	customerSet := make(map[int]struct{})
	for _, row := range base {
		if row.Country != nil {
			countrySet[*row.Country] = struct{}{}
		}
		customerSet[row.CustomerNumber] = struct{}{}
	}

	return model.ContextBanner{
		Offices:         len(officeSet),
		SalesReps:       len(repSet),
		CountriesServed: len(countrySet),
		Customers:       len(customerSet),
	}
}

// BuildDiagnosticSummary 诊断汇总
//
// 高风险占比的分母是错配报告覆盖的客户数，与风险金额同屏展示。
// 错配报告为空时占比记 0，不视为错误。
func BuildDiagnosticSummary(highRisk []model.HighRiskCustomer, misalignment []model.MisalignedCustomer) model.DiagnosticSummary {
	summary := model.DiagnosticSummary{
		HighRiskCustomersCount: len(highRisk),
		MisalignmentCount:      len(misalignment),
	}

	amount := 0.0
	for _, h := range highRisk {
		amount += h.AmountAtRisk
	}
	summary.AmountAtRisk = round2(amount)

	misCustomers := make(map[int]struct{})
	for _, m := range misalignment {
		misCustomers[m.CustomerNumber] = struct{}{}
		if strings.Contains(m.MisalignmentCategory, "HIGH CREDIT") {
			summary.OverCreditedCount++
		}
		if strings.Contains(m.MisalignmentCategory, "LOW CREDIT") {
			summary.UnderCreditedCount++
		}
	}
	if len(misCustomers) > 0 {
		summary.HighRiskCustomersPct = round1(float64(summary.HighRiskCustomersCount) / float64(len(misCustomers)) * 100)
	}
	return summary
}

// RiskByCountry 按国家汇总高风险金额
func RiskByCountry(highRisk []model.HighRiskCustomer) []model.CountryRisk {
	totals := make(map[string]float64)
	for _, h := range highRisk {
		totals[FixCountryName(h.Country)] += h.AmountAtRisk
	}

	out := make([]model.CountryRisk, 0, len(totals))
	for country, amount := range totals {
		out = append(out, model.CountryRisk{Country: country, RiskAmount: round2(amount)})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Country < out[j].Country
	})
	return out
}
