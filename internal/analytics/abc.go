package analytics

import (
	"sort"

	"saleslens/internal/model"
)

// 实体聚合：按分组键汇总销售额后排名并做 ABC 分级。
// 客户 / 产品 / 销售代表共用同一套收尾算法，仅分组键与伴随维度不同。

// rankABC 在已按销售额稳定降序排列的行上计算全局占比、累计占比、名次
// 与 ABC 分级。
//
// ABC 为两段式位置规则：第一遍算出完整的累计占比序列，数出累计占比
// ≤80 / ≤95 的行数 nA、nB；第二遍按位置赋级（位置 < nA 为 A，位置 < nB
// 为 B，其余为 C）。不做逐行阈值判断——若没有任何行的累计占比 ≤80，
// 则 nA = 0，所有行至多为 B。
func rankABC(sales []float64) []model.AggRanking {
	n := len(sales)
	out := make([]model.AggRanking, n)
	if n == 0 {
		return out
	}

	total := 0.0
	for _, v := range sales {
		total += v
	}

	// 第一遍：占比与累计占比
	cumulative := 0.0
	for i, v := range sales {
		pct := 0.0
		if total > 0 {
			pct = v / total * 100
		}
		cumulative += pct
		out[i] = model.AggRanking{
			PctOfGlobalSales: round2(pct),
			CumulativePct:    round2(cumulative),
			SalesRank:        i + 1,
		}
	}

	nA, nB := 0, 0
	if total > 0 {
		for i := range out {
			if out[i].CumulativePct <= 80 {
				nA++
			}
			if out[i].CumulativePct <= 95 {
				nB++
			}
		}
	}

	// 第二遍：按位置赋级
	for i := range out {
		switch {
		case total <= 0:
			out[i].ABCClass = "C"
		case i < nA:
			out[i].ABCClass = "A"
		case i < nB:
			out[i].ABCClass = "B"
		default:
			out[i].ABCClass = "C"
		}
	}

	return out
}

// AggregateCustomers 客户聚合（含 ABC 分级）
func AggregateCustomers(base []model.FactRow) []model.CustomerAgg {
	index := make(map[int]int)
	aggs := make([]model.CustomerAgg, 0)
	orders := make([]map[int]struct{}, 0)
	productSets := make([]map[string]struct{}, 0)

	for _, row := range base {
		i, ok := index[row.CustomerNumber]
		if !ok {
			i = len(aggs)
			index[row.CustomerNumber] = i
			aggs = append(aggs, model.CustomerAgg{
				CustomerNumber: row.CustomerNumber,
				CustomerName:   deref(row.CustomerName),
				Country:        deref(row.Country),
			})
			orders = append(orders, make(map[int]struct{}))
			productSets = append(productSets, make(map[string]struct{}))
		}
		aggs[i].TotalSales += row.LineSales
		aggs[i].TotalUnits += row.QuantityOrdered
		orders[i][row.OrderNumber] = struct{}{}
		productSets[i][row.ProductCode] = struct{}{}
	}

	for i := range aggs {
		aggs[i].NumOrders = len(orders[i])
		aggs[i].NumProducts = len(productSets[i])
		if aggs[i].NumOrders > 0 {
			aggs[i].AvgSalesPerOrder = round2(aggs[i].TotalSales / float64(aggs[i].NumOrders))
			aggs[i].AvgUnitsPerOrder = round2(float64(aggs[i].TotalUnits) / float64(aggs[i].NumOrders))
		}
		if aggs[i].NumProducts > 0 {
			aggs[i].AvgSalesPerProduct = round2(aggs[i].TotalSales / float64(aggs[i].NumProducts))
		}
	}

	// 稳定排序：并列销售额保持先出现者在前
	sort.SliceStable(aggs, func(i, j int) bool {
		return aggs[i].TotalSales > aggs[j].TotalSales
	})

	sales := make([]float64, len(aggs))
	for i := range aggs {
		sales[i] = aggs[i].TotalSales
	}
	for i, r := range rankABC(sales) {
		aggs[i].AggRanking = r
		aggs[i].TotalSales = round2(aggs[i].TotalSales)
	}
	return aggs
}

// AggregateProducts 产品聚合（含 ABC 分级）
func AggregateProducts(base []model.FactRow) []model.ProductAgg {
	index := make(map[string]int)
	aggs := make([]model.ProductAgg, 0)
	orders := make([]map[int]struct{}, 0)
	customerSets := make([]map[int]struct{}, 0)

	for _, row := range base {
		i, ok := index[row.ProductCode]
		if !ok {
			i = len(aggs)
			index[row.ProductCode] = i
			aggs = append(aggs, model.ProductAgg{
				ProductCode: row.ProductCode,
				ProductName: deref(row.ProductName),
				ProductLine: deref(row.ProductLine),
			})
			orders = append(orders, make(map[int]struct{}))
			customerSets = append(customerSets, make(map[int]struct{}))
		}
		aggs[i].TotalSales += row.LineSales
		aggs[i].TotalUnits += row.QuantityOrdered
		orders[i][row.OrderNumber] = struct{}{}
		customerSets[i][row.CustomerNumber] = struct{}{}
	}

	for i := range aggs {
		aggs[i].NumOrders = len(orders[i])
		aggs[i].NumCustomers = len(customerSets[i])
		if aggs[i].NumOrders > 0 {
			aggs[i].AvgSalesPerOrder = round2(aggs[i].TotalSales / float64(aggs[i].NumOrders))
			aggs[i].AvgUnitsPerOrder = round2(float64(aggs[i].TotalUnits) / float64(aggs[i].NumOrders))
		}
		if aggs[i].NumCustomers > 0 {
			aggs[i].AvgSalesPerCustomer = round2(aggs[i].TotalSales / float64(aggs[i].NumCustomers))
		}
	}

	sort.SliceStable(aggs, func(i, j int) bool {
		return aggs[i].TotalSales > aggs[j].TotalSales
	})

	sales := make([]float64, len(aggs))
	for i := range aggs {
		sales[i] = aggs[i].TotalSales
	}
	for i, r := range rankABC(sales) {
		aggs[i].AggRanking = r
		aggs[i].TotalSales = round2(aggs[i].TotalSales)
	}
	return aggs
}

// AggregateSalesReps 销售代表聚合（含 ABC 分级）
//
// 事实行未关联到销售代表（客户未分配或客户缺失）无法归属，跳过。
func AggregateSalesReps(base []model.FactRow) []model.SalesRepAgg {
	index := make(map[int]int)
	aggs := make([]model.SalesRepAgg, 0)
	orders := make([]map[int]struct{}, 0)
	customerSets := make([]map[int]struct{}, 0)
	countrySets := make([]map[string]struct{}, 0)

	for _, row := range base {
		if row.EmployeeNumber == nil {
			continue
		}
		i, ok := index[*row.EmployeeNumber]
		if !ok {
			i = len(aggs)
			index[*row.EmployeeNumber] = i
			aggs = append(aggs, model.SalesRepAgg{
				EmployeeNumber: *row.EmployeeNumber,
				EmployeeName:   deref(row.EmployeeName),
				JobTitle:       deref(row.JobTitle),
				OfficeCode:     deref(row.OfficeCode),
			})
			orders = append(orders, make(map[int]struct{}))
			customerSets = append(customerSets, make(map[int]struct{}))
			countrySets = append(countrySets, make(map[string]struct{}))
		}
		aggs[i].TotalSales += row.LineSales
		aggs[i].TotalUnits += row.QuantityOrdered
		orders[i][row.OrderNumber] = struct{}{}
		customerSets[i][row.CustomerNumber] = struct{}{}
		if row.Country != nil {
			countrySets[i][*row.Country] = struct{}{}
		}
	}

	for i := range aggs {
		aggs[i].NumOrders = len(orders[i])
		aggs[i].NumCustomers = len(customerSets[i])
		aggs[i].NumCustomerCountries = len(countrySets[i])
		if aggs[i].NumOrders > 0 {
			aggs[i].AvgSalesPerOrder = round2(aggs[i].TotalSales / float64(aggs[i].NumOrders))
			aggs[i].AvgUnitsPerOrder = round2(float64(aggs[i].TotalUnits) / float64(aggs[i].NumOrders))
		}
		if aggs[i].NumCustomers > 0 {
			aggs[i].AvgSalesPerCustomer = round2(aggs[i].TotalSales / float64(aggs[i].NumCustomers))
		}
	}

	sort.SliceStable(aggs, func(i, j int) bool {
		return aggs[i].TotalSales > aggs[j].TotalSales
	})

	sales := make([]float64, len(aggs))
	for i := range aggs {
		sales[i] = aggs[i].TotalSales
	}
	for i, r := range rankABC(sales) {
		aggs[i].AggRanking = r
		aggs[i].TotalSales = round2(aggs[i].TotalSales)
	}
	return aggs
}
