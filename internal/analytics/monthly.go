package analytics

import (
	"sort"
	"time"

	"saleslens/internal/model"
)

// 月度公司级 KPI：按订单日期的日历月聚合，附加环比 / 同比 / 滚动均值。

type monthlyBucket struct {
	key          string
	totalSales   float64
	orders       map[int]struct{}
	customers    map[int]struct{}
	onTimeOrders map[int]struct{}
}

// MonthlyKPIs 计算月度 KPI 序列与数据质量统计
//
// orderDate / requiredDate 无法解析的行从全部 KPI 聚合中排除并计入数据
// 质量统计；shippedDate 非空但无法解析同样排除。shippedDate 为空是合法
// 业务状态（未发货），该行保留，订单不计入准时。
func MonthlyKPIs(base []model.FactRow) ([]model.MonthlyKPI, model.DataQuality) {
	buckets := make(map[string]*monthlyBucket)
	invalid := 0

	for _, row := range base {
		orderDate, ok := parseDate(row.OrderDate)
		if !ok {
			invalid++
			continue
		}
		requiredDate, ok := parseDate(row.RequiredDate)
		if !ok {
			invalid++
			continue
		}

		var shippedDate time.Time
		shipped := false
		if row.ShippedDate != nil {
			shippedDate, ok = parseDate(*row.ShippedDate)
			if !ok {
				invalid++
				continue
			}
			shipped = true
		}

		key := monthKey(orderDate)
		b, exists := buckets[key]
		if !exists {
			b = &monthlyBucket{
				key:          key,
				orders:       make(map[int]struct{}),
				customers:    make(map[int]struct{}),
				onTimeOrders: make(map[int]struct{}),
			}
			buckets[key] = b
		}

		b.totalSales += row.LineSales
		b.orders[row.OrderNumber] = struct{}{}
		b.customers[row.CustomerNumber] = struct{}{}

		// 准时 = 已发货且发货日 ≤ 要求日；缺发货日不算准时
		if shipped && !shippedDate.After(requiredDate) {
			b.onTimeOrders[row.OrderNumber] = struct{}{}
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	monthly := make([]model.MonthlyKPI, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		kpi := model.MonthlyKPI{
			SalesMonth:     b.key,
			TotalSales:     round2(b.totalSales),
			TotalOrders:    len(b.orders),
			TotalCustomers: len(b.customers),
			OnTimeOrders:   len(b.onTimeOrders),
		}
		if kpi.TotalOrders > 0 {
			kpi.AvgOrderValue = round2(b.totalSales / float64(kpi.TotalOrders))
			kpi.OnTimeRatePct = round2(float64(kpi.OnTimeOrders) / float64(kpi.TotalOrders) * 100)
		}
		monthly = append(monthly, kpi)
	}

	addLagMetrics(monthly)

	dq := model.DataQuality{InvalidDateRows: invalid}
	if len(base) > 0 {
		dq.InvalidDatePct = round2(float64(invalid) / float64(len(base)) * 100)
	}
	return monthly, dq
}

// addLagMetrics 在按月排序的序列上补充环比（滞后 1 期）、同比（滞后
// 12 期）与 3 月滚动均值。不足滞后期数的行保持 null，不视为错误。
func addLagMetrics(monthly []model.MonthlyKPI) {
	for i := range monthly {
		cur := monthly[i].TotalSales

		if i >= 1 {
			prev := monthly[i-1].TotalSales
			monthly[i].MoMChange = fptr(round2(cur - prev))
			if prev != 0 {
				monthly[i].MoMPct = fptr(round2((cur - prev) / prev * 100))
			}
		}

		if i >= 12 {
			prev := monthly[i-12].TotalSales
			monthly[i].YoYChange = fptr(round2(cur - prev))
			if prev != 0 {
				monthly[i].YoYPct = fptr(round2((cur - prev) / prev * 100))
			}
		}

		// 序列起点窗口收缩，最少 1 期
		start := i - 2
		if start < 0 {
			start = 0
		}
		sum := 0.0
		for j := start; j <= i; j++ {
			sum += monthly[j].TotalSales
		}
		monthly[i].Rolling3MAvg = round2(sum / float64(i-start+1))
	}
}
