package analytics

import (
	"math"
	"sort"
	"time"

	"saleslens/internal/model"
)

// 预测类分析：产品需求趋势、客户 RFM、下次下单预测、交叉销售对。

// ProductDemandTrends 产品需求趋势分类
//
// 以事实表中最新月份为基准定义 months-ago，比较近窗（0-2 月）与前窗
// （3-5 月）的月均销售额。窗口均值只对窗口内有销售的月份取平均，不以零
// 补齐缺失月。任一窗口无数据或前窗均值为零则增长率无定义，标记
// INSUFFICIENT_DATA。边界 ±15% 含端点。
func ProductDemandTrends(base []model.FactRow) []model.ProductTrend {
	type productMonths struct {
		code   string
		name   string
		months map[int]float64 // 月份序数 → 该月销售额
	}

	index := make(map[string]int)
	products := make([]*productMonths, 0)
	maxMonth := -1

	for _, row := range base {
		d, ok := parseDate(row.OrderDate)
		if !ok {
			continue
		}
		m := monthOrdinal(d)
		if m > maxMonth {
			maxMonth = m
		}

		i, ok := index[row.ProductCode]
		if !ok {
			i = len(products)
			index[row.ProductCode] = i
			products = append(products, &productMonths{
				code:   row.ProductCode,
				name:   deref(row.ProductName),
				months: make(map[int]float64),
			})
		}
		products[i].months[m] += row.LineSales
	}

	windowAvg := func(p *productMonths, fromAgo, toAgo int) *float64 {
		sum, n := 0.0, 0
		for m, v := range p.months {
			ago := maxMonth - m
			if ago >= fromAgo && ago <= toAgo {
				sum += v
				n++
			}
		}
		if n == 0 {
			return nil
		}
		return fptr(sum / float64(n))
	}

	out := make([]model.ProductTrend, 0, len(products))
	for _, p := range products {
		row := model.ProductTrend{
			ProductCode:     p.code,
			ProductName:     p.name,
			DemandTrendFlag: "INSUFFICIENT_DATA",
		}

		recent := windowAvg(p, 0, 2)
		prev := windowAvg(p, 3, 5)
		if recent != nil {
			row.RecentAvg = fptr(round2(*recent))
		}
		if prev != nil {
			row.PrevAvg = fptr(round2(*prev))
		}

		if recent != nil && prev != nil && *prev > 0 {
			growth := (*recent - *prev) / *prev
			row.GrowthRate = fptr(round2(growth))
			row.GrowthRatePct = fptr(round2(growth * 100))
			switch {
			case growth >= 0.15:
				row.DemandTrendFlag = "GROWING"
			case growth <= -0.15:
				row.DemandTrendFlag = "DECLINING"
			default:
				row.DemandTrendFlag = "STABLE"
			}
		}
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ProductCode < out[j].ProductCode
	})
	return out
}

// quantileScore 分位分箱打分，返回 1..箱数。
//
// 箱数取 min(5, 去重取值个数)；分位点线性插值，重复箱沿合并后箱数随之
// 减少（故分数为浮点）。全体取值相同统一给中间分 3，不报错。reverse
// 用于 recency：天数越少分越高。
func quantileScore(values []float64, reverse bool) []float64 {
	n := len(values)
	scores := make([]float64, n)
	if n == 0 {
		return scores
	}

	distinct := make(map[float64]struct{}, n)
	for _, v := range values {
		distinct[v] = struct{}{}
	}
	if len(distinct) <= 1 {
		for i := range scores {
			scores[i] = 3.0
		}
		return scores
	}

	q := 5
	if len(distinct) < q {
		q = len(distinct)
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	// 线性插值分位点
	quantile := func(p float64) float64 {
		pos := p * float64(n-1)
		lo := int(math.Floor(pos))
		hi := int(math.Ceil(pos))
		if lo == hi {
			return sorted[lo]
		}
		frac := pos - float64(lo)
		return sorted[lo] + (sorted[hi]-sorted[lo])*frac
	}

	edges := make([]float64, 0, q+1)
	for i := 0; i <= q; i++ {
		e := quantile(float64(i) / float64(q))
		// 重复箱沿合并
		if len(edges) == 0 || e > edges[len(edges)-1] {
			edges = append(edges, e)
		}
	}
	nBins := len(edges) - 1
	if nBins < 1 {
		for i := range scores {
			scores[i] = 3.0
		}
		return scores
	}

	// 区间左开右闭，最低箱含下沿
	binOf := func(v float64) int {
		for b := 1; b <= nBins; b++ {
			if v <= edges[b] {
				return b
			}
		}
		return nBins
	}

	for i, v := range values {
		s := float64(binOf(v))
		if reverse {
			s = float64(nBins) + 1 - s
		}
		scores[i] = s
	}
	return scores
}

// rfmSegment 按总分分段
func rfmSegment(score float64) string {
	switch {
	case score >= 12:
		return "Champions"
	case score >= 9:
		return "Loyal"
	case score >= 6:
		return "Potential"
	default:
		return "At Risk"
	}
}

// CustomerRFM 客户 RFM 评分
func CustomerRFM(base []model.FactRow) []model.CustomerRFM {
	type rfmAcc struct {
		customerNumber int
		customerName   string
		country        string
		orders         map[int]struct{}
		monetary       float64
		lastOrder      time.Time
		hasDate        bool
	}

	index := make(map[int]int)
	accs := make([]*rfmAcc, 0)
	var maxOrderDate time.Time
	hasMax := false

	for _, row := range base {
		i, ok := index[row.CustomerNumber]
		if !ok {
			i = len(accs)
			index[row.CustomerNumber] = i
			accs = append(accs, &rfmAcc{
				customerNumber: row.CustomerNumber,
				customerName:   deref(row.CustomerName),
				country:        deref(row.Country),
				orders:         make(map[int]struct{}),
			})
		}
		a := accs[i]
		a.orders[row.OrderNumber] = struct{}{}
		a.monetary += row.LineSales

		if d, ok := parseDate(row.OrderDate); ok {
			if !a.hasDate || d.After(a.lastOrder) {
				a.lastOrder = d
				a.hasDate = true
			}
			if !hasMax || d.After(maxOrderDate) {
				maxOrderDate = d
				hasMax = true
			}
		}
	}

	sort.Slice(accs, func(i, j int) bool {
		return accs[i].customerNumber < accs[j].customerNumber
	})

	recency := make([]float64, len(accs))
	frequency := make([]float64, len(accs))
	monetary := make([]float64, len(accs))
	for i, a := range accs {
		if a.hasDate {
			recency[i] = float64(daysBetween(a.lastOrder, maxOrderDate))
		}
		frequency[i] = float64(len(a.orders))
		monetary[i] = a.monetary
	}

	rScores := quantileScore(recency, true)
	fScores := quantileScore(frequency, false)
	mScores := quantileScore(monetary, false)

	out := make([]model.CustomerRFM, 0, len(accs))
	for i, a := range accs {
		total := rScores[i] + fScores[i] + mScores[i]
		row := model.CustomerRFM{
			CustomerNumber:     a.customerNumber,
			CustomerName:       a.customerName,
			Country:            a.country,
			FreqOrders:         len(a.orders),
			Monetary:           round2(a.monetary),
			DaysSinceLastOrder: int(recency[i]),
			RScore:             rScores[i],
			FScore:             fScores[i],
			MScore:             mScores[i],
			RFMScore:           total,
			RFMSegment:         rfmSegment(total),
		}
		if a.hasDate {
			row.LastOrderDate = a.lastOrder.Format("2006-01-02")
		}
		out = append(out, row)
	}
	return out
}

// NextOrderPredictions 下次下单日期预测
//
// 按客户取历史订单日期序列，对相邻订单间隔取均值，预测日 = 最近下单日 +
// 平均间隔。历史不足 2 笔订单时间隔无定义，预测为 null 而非报错。
func NextOrderPredictions(base []model.FactRow) []model.NextOrderPrediction {
	type custOrders struct {
		customerNumber int
		customerName   string
		country        string
		orderDates     map[int]time.Time // 订单号 → 下单日
	}

	index := make(map[int]int)
	accs := make([]*custOrders, 0)

	for _, row := range base {
		d, ok := parseDate(row.OrderDate)
		if !ok {
			continue
		}
		i, ok := index[row.CustomerNumber]
		if !ok {
			i = len(accs)
			index[row.CustomerNumber] = i
			accs = append(accs, &custOrders{
				customerNumber: row.CustomerNumber,
				customerName:   deref(row.CustomerName),
				country:        deref(row.Country),
				orderDates:     make(map[int]time.Time),
			})
		}
		if _, seen := accs[i].orderDates[row.OrderNumber]; !seen {
			accs[i].orderDates[row.OrderNumber] = d
		}
	}

	sort.Slice(accs, func(i, j int) bool {
		return accs[i].customerNumber < accs[j].customerNumber
	})

	out := make([]model.NextOrderPrediction, 0, len(accs))
	for _, a := range accs {
		dates := make([]time.Time, 0, len(a.orderDates))
		for _, d := range a.orderDates {
			dates = append(dates, d)
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		last := dates[len(dates)-1]
		row := model.NextOrderPrediction{
			CustomerNumber: a.customerNumber,
			CustomerName:   a.customerName,
			Country:        a.country,
			LastOrderDate:  last.Format("2006-01-02"),
		}

		if len(dates) >= 2 {
			totalGap := 0
			for i := 1; i < len(dates); i++ {
				totalGap += daysBetween(dates[i-1], dates[i])
			}
			avgGap := float64(totalGap) / float64(len(dates)-1)
			row.AvgGapDays = fptr(round1(avgGap))
			expected := last.Add(time.Duration(avgGap * 24 * float64(time.Hour)))
			row.ExpectedNextOrderDate = sptr(expected.Format("2006-01-02"))
		}
		out = append(out, row)
	}
	return out
}

// CrossSellPairs 交叉销售产品对挖掘
//
// 逐订单枚举去重后的产品对并做规范化（小编号在前），避免重复计数与
// 自配对；共现次数达到 minCooccurrence 的对计算支持度、双向置信度与
// 提升度。输出按支持度降序，并列按产品对编号升序。
func CrossSellPairs(base []model.FactRow, minCooccurrence int) []model.CrossSellPair {
	if minCooccurrence < 1 {
		minCooccurrence = 1
	}

	productName := make(map[string]string)
	orderProducts := make(map[int]map[string]struct{})
	productOrders := make(map[string]map[int]struct{})

	for _, row := range base {
		if _, ok := productName[row.ProductCode]; !ok {
			productName[row.ProductCode] = deref(row.ProductName)
		}
		op := orderProducts[row.OrderNumber]
		if op == nil {
			op = make(map[string]struct{})
			orderProducts[row.OrderNumber] = op
		}
		op[row.ProductCode] = struct{}{}

		po := productOrders[row.ProductCode]
		if po == nil {
			po = make(map[int]struct{})
			productOrders[row.ProductCode] = po
		}
		po[row.OrderNumber] = struct{}{}
	}

	type pairKey struct{ p1, p2 string }
	counts := make(map[pairKey]int)
	for _, op := range orderProducts {
		codes := make([]string, 0, len(op))
		for code := range op {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for i := 0; i < len(codes); i++ {
			for j := i + 1; j < len(codes); j++ {
				counts[pairKey{codes[i], codes[j]}]++
			}
		}
	}

	totalOrders := len(orderProducts)
	out := make([]model.CrossSellPair, 0)
	for key, count := range counts {
		if count < minCooccurrence {
			continue
		}
		p1Orders := len(productOrders[key.p1])
		p2Orders := len(productOrders[key.p2])
		expected := float64(p1Orders) * float64(p2Orders) / float64(totalOrders)

		row := model.CrossSellPair{
			ProductCode1:         key.p1,
			ProductName1:         productName[key.p1],
			ProductCode2:         key.p2,
			ProductName2:         productName[key.p2],
			CooccurrenceCount:    count,
			Product1Orders:       p1Orders,
			Product2Orders:       p2Orders,
			TotalOrders:          totalOrders,
			Support:              round4(float64(count) / float64(totalOrders)),
			ConfidenceFromP1:     round4(float64(count) / float64(p1Orders)),
			ConfidenceFromP2:     round4(float64(count) / float64(p2Orders)),
			ExpectedCooccurrence: round4(expected),
			Lift:                 round4(float64(count) / expected),
		}
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Support != out[j].Support {
			return out[i].Support > out[j].Support
		}
		if out[i].ProductCode1 != out[j].ProductCode1 {
			return out[i].ProductCode1 < out[j].ProductCode1
		}
		return out[i].ProductCode2 < out[j].ProductCode2
	})
	return out
}
