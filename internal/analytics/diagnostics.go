package analytics

import (
	"fmt"
	"sort"
	"time"

	"saleslens/internal/model"
)

// 诊断扫描：高风险客户、信用/销售错配、国家级信用异常。
// 行级标志逻辑抽为纯函数，独立于分组聚合步骤可单测。

const riskCategoryHighRisk = "HIGH RISK CUSTOMER"

// ActivityFlag 客户活跃度标志。lastOrder 为 nil 表示从未下单。
func ActivityFlag(lastOrder *time.Time, daysSince int, recencyDays int) string {
	if lastOrder == nil {
		return "NO ORDERS / CREDIT ASSIGNED"
	}
	if daysSince >= recencyDays {
		return fmt.Sprintf("STALE ACTIVITY (>= %d days)", recencyDays)
	}
	return "RECENT ACTIVITY"
}

// RatioFlag 信用/销售比标志。两个比值分别仅在分母为正时有定义（nil 即
// 无定义）；高信用侧优先。均未触发返回 nil。
func RatioFlag(creditToSales, salesToCredit *float64, threshold float64) *string {
	if creditToSales != nil && *creditToSales >= threshold {
		return sptr("HIGH CREDIT / LOW SALES")
	}
	if salesToCredit != nil && *salesToCredit >= threshold {
		return sptr("LOW CREDIT / HIGH SALES")
	}
	return nil
}

// MisalignmentCategory 错配分类。与 RatioFlag 同一判定，但对全部客户
// 给出分类，未触发为 NORMAL。
func MisalignmentCategory(creditToSales, salesToCredit *float64, threshold float64) string {
	if creditToSales != nil && *creditToSales >= threshold {
		return fmt.Sprintf("HIGH CREDIT / LOW SALES (credit >= %gx sales)", threshold)
	}
	if salesToCredit != nil && *salesToCredit >= threshold {
		return fmt.Sprintf("LOW CREDIT / HIGH SALES (sales >= %gx credit)", threshold)
	}
	return "NORMAL"
}

// creditProfile 诊断扫描共用的客户画像
type creditProfile struct {
	customerNumber int
	customerName   string
	country        string
	creditLimit    float64
	totalSales     float64
	lastOrder      *time.Time
	daysSince      int
	hasOrders      bool

	creditToSales *float64
	salesToCredit *float64
}

// buildCreditProfiles 以 customers 表为全集聚合事实行，构建诊断画像。
//
// 信用额度是诊断计算的硬前置条件：任一客户缺失立即报错，绝不带缺失值
// 继续。事实行引用了 customers 表之外的客户号时无信用额度可用，跳过。
// 无法解析的订单日期不参与最近下单日计算。
func buildCreditProfiles(base []model.FactRow, customers []model.Customer) ([]creditProfile, error) {
	type acc struct {
		totalSales float64
		lastOrder  *time.Time
	}
	byCustomer := make(map[int]*acc, len(customers))
	known := make(map[int]struct{}, len(customers))
	for _, c := range customers {
		known[c.CustomerNumber] = struct{}{}
	}

	var maxOrderDate *time.Time
	for _, row := range base {
		if _, ok := known[row.CustomerNumber]; !ok {
			continue
		}
		a := byCustomer[row.CustomerNumber]
		if a == nil {
			a = &acc{}
			byCustomer[row.CustomerNumber] = a
		}
		a.totalSales += row.LineSales

		if d, ok := parseDate(row.OrderDate); ok {
			if a.lastOrder == nil || d.After(*a.lastOrder) {
				t := d
				a.lastOrder = &t
			}
			if maxOrderDate == nil || d.After(*maxOrderDate) {
				t := d
				maxOrderDate = &t
			}
		}
	}

	profiles := make([]creditProfile, 0, len(customers))
	for _, c := range customers {
		if c.CreditLimit == nil {
			return nil, fmt.Errorf("credit scan precondition failed: customer %d has no creditLimit", c.CustomerNumber)
		}

		p := creditProfile{
			customerNumber: c.CustomerNumber,
			customerName:   c.CustomerName,
			country:        FixCountryName(c.Country),
			creditLimit:    *c.CreditLimit,
		}
		if a := byCustomer[c.CustomerNumber]; a != nil {
			p.totalSales = a.totalSales
			p.hasOrders = true
			if a.lastOrder != nil {
				p.lastOrder = a.lastOrder
				if maxOrderDate != nil {
					p.daysSince = daysBetween(*a.lastOrder, *maxOrderDate)
				}
			}
		}

		if p.totalSales > 0 {
			p.creditToSales = fptr(p.creditLimit / p.totalSales)
		}
		if p.creditLimit > 0 {
			p.salesToCredit = fptr(p.totalSales / p.creditLimit)
		}
		profiles = append(profiles, p)
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].customerNumber < profiles[j].customerNumber
	})
	return profiles, nil
}

// HighRiskCustomers 高风险客户扫描
//
// 入选条件：任一比值标志触发，或活跃度过期（≥ recencyDays 未下单），或
// 从未下单。amount_at_risk 取信用额度（高信用/低销售）否则取总销售额。
func HighRiskCustomers(base []model.FactRow, customers []model.Customer, ratioThreshold float64, recencyDays int) ([]model.HighRiskCustomer, error) {
	profiles, err := buildCreditProfiles(base, customers)
	if err != nil {
		return nil, err
	}

	out := make([]model.HighRiskCustomer, 0)
	for _, p := range profiles {
		ratioFlag := RatioFlag(p.creditToSales, p.salesToCredit, ratioThreshold)
		stale := p.lastOrder != nil && p.daysSince >= recencyDays
		neverOrdered := p.lastOrder == nil

		if ratioFlag == nil && !stale && !neverOrdered {
			continue
		}

		row := model.HighRiskCustomer{
			CustomerNumber: p.customerNumber,
			CustomerName:   p.customerName,
			Country:        p.country,
			CreditLimit:    round2(p.creditLimit),
			TotalSales:     round2(p.totalSales),
			ActivityFlag:   ActivityFlag(p.lastOrder, p.daysSince, recencyDays),
			RatioFlag:      ratioFlag,
			RiskCategory:   riskCategoryHighRisk,
		}
		if p.lastOrder != nil {
			row.LastOrderDate = sptr(p.lastOrder.Format("2006-01-02"))
			row.DaysSinceLastOrder = iptr(p.daysSince)
		}
		if p.creditToSales != nil {
			row.CreditToSalesRatio = fptr(round2(*p.creditToSales))
		}
		if p.salesToCredit != nil {
			row.SalesToCreditRatio = fptr(round2(*p.salesToCredit))
		}
		if ratioFlag != nil && *ratioFlag == "HIGH CREDIT / LOW SALES" {
			row.AmountAtRisk = round2(p.creditLimit)
		} else {
			row.AmountAtRisk = round2(p.totalSales)
		}
		out = append(out, row)
	}
	return out, nil
}

// CreditMisalignment 信用/销售错配报告
//
// 对全部客户做同一比值分类（均未触发为 NORMAL），输出过滤到非 NORMAL。
func CreditMisalignment(base []model.FactRow, customers []model.Customer, ratioThreshold float64) ([]model.MisalignedCustomer, error) {
	profiles, err := buildCreditProfiles(base, customers)
	if err != nil {
		return nil, err
	}

	out := make([]model.MisalignedCustomer, 0)
	for _, p := range profiles {
		category := MisalignmentCategory(p.creditToSales, p.salesToCredit, ratioThreshold)
		if category == "NORMAL" {
			continue
		}
		row := model.MisalignedCustomer{
			CustomerNumber:       p.customerNumber,
			CustomerName:         p.customerName,
			Country:              p.country,
			CreditLimit:          round2(p.creditLimit),
			TotalSales:           round2(p.totalSales),
			MisalignmentCategory: category,
		}
		if p.creditToSales != nil {
			row.CreditToSalesRatio = fptr(round2(*p.creditToSales))
		}
		if p.salesToCredit != nil {
			row.SalesToCreditRatio = fptr(round2(*p.salesToCredit))
		}
		out = append(out, row)
	}
	return out, nil
}

// GeoCreditAnomalies 国家级信用/销售异常扫描
//
// 按国家汇总有订单客户的信用额度与销售额，对信用/销售比做百分位排名
// （并列取平均名次），标记最高与最低十分位。销售额为零的国家比值无定义，
// 不参与排名也不输出。
func GeoCreditAnomalies(base []model.FactRow, customers []model.Customer) ([]model.GeoCreditAnomaly, error) {
	profiles, err := buildCreditProfiles(base, customers)
	if err != nil {
		return nil, err
	}

	type countryBucket struct {
		numCustomers int
		totalCredit  float64
		totalSales   float64
	}
	buckets := make(map[string]*countryBucket)
	for _, p := range profiles {
		if !p.hasOrders {
			continue
		}
		b := buckets[p.country]
		if b == nil {
			b = &countryBucket{}
			buckets[p.country] = b
		}
		b.numCustomers++
		b.totalCredit += p.creditLimit
		b.totalSales += p.totalSales
	}

	type ranked struct {
		country string
		bucket  *countryBucket
		ratio   float64
		pct     float64
	}
	rankedCountries := make([]ranked, 0, len(buckets))
	for country, b := range buckets {
		if b.totalSales <= 0 {
			continue
		}
		rankedCountries = append(rankedCountries, ranked{
			country: country,
			bucket:  b,
			ratio:   b.totalCredit / b.totalSales,
		})
	}

	// 百分位 = 平均名次 / 国家数 × 100（并列取平均名次）
	n := len(rankedCountries)
	for i := range rankedCountries {
		less, equal := 0, 0
		for j := range rankedCountries {
			switch {
			case rankedCountries[j].ratio < rankedCountries[i].ratio:
				less++
			case rankedCountries[j].ratio == rankedCountries[i].ratio:
				equal++
			}
		}
		avgRank := float64(less) + (float64(equal)+1)/2
		rankedCountries[i].pct = avgRank / float64(n) * 100
	}

	out := make([]model.GeoCreditAnomaly, 0)
	for _, r := range rankedCountries {
		if r.pct < 90 && r.pct > 10 {
			continue
		}
		category := "LOW CREDIT VS SALES (Bottom 10%)"
		if r.pct >= 90 {
			category = "HIGH CREDIT VS SALES (Top 10%)"
		}
		row := model.GeoCreditAnomaly{
			Country:            r.country,
			NumCustomers:       r.bucket.numCustomers,
			TotalCreditLimit:   round2(r.bucket.totalCredit),
			TotalSales:         round2(r.bucket.totalSales),
			CreditToSalesRatio: round2(r.ratio),
			RatioPct:           round2(r.pct),
			AnomalyCategory:    category,
		}
		row.AvgCreditLimit = round2(r.bucket.totalCredit / float64(r.bucket.numCustomers))
		row.AvgSalesPerCustomer = round2(r.bucket.totalSales / float64(r.bucket.numCustomers))
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Country < out[j].Country
	})
	return out, nil
}
