package analytics

import (
	"sort"

	"saleslens/internal/model"
)

// 国家×区域聚合：静态国家→区域映射，国家级汇总叠加区域级滚算。

// DefaultRegionMapping 默认国家→区域映射。键同时收录归一化后与源库
// 原始写法的国家名（USA / UK / England），映射结果不受事实表是否已做
// 国家名归一化影响。未命中的国家归入 Other，不丢弃。
func DefaultRegionMapping() map[string]string {
	return map[string]string{
		"United States": "North America",
		"USA":           "North America",
		"Canada":        "North America",

		"France":         "Europe",
		"United Kingdom": "Europe",
		"UK":             "Europe",
		"England":        "Europe",
		"Germany":        "Europe",
		"Spain":          "Europe",
		"Norway":         "Europe",
		"Denmark":        "Europe",
		"Sweden":         "Europe",
		"Finland":        "Europe",
		"Italy":          "Europe",
		"Belgium":        "Europe",
		"Ireland":        "Europe",
		"Switzerland":    "Europe",
		"Austria":        "Europe",

		"Australia":   "Asia-Pacific",
		"Japan":       "Asia-Pacific",
		"Singapore":   "Asia-Pacific",
		"Hong Kong":   "Asia-Pacific",
		"Philippines": "Asia-Pacific",
		"New Zealand": "Asia-Pacific",

		"Brazil":    "Latin America",
		"Argentina": "Latin America",
		"Chile":     "Latin America",
		"Mexico":    "Latin America",
		"Venezuela": "Latin America",
	}
}

// AggregateRegions 国家×区域聚合
//
// 国家缺失的事实行（客户左连接未命中）无法归入任何国家，跳过。
// 输出按 (region, country) 升序。
func AggregateRegions(base []model.FactRow, mapping map[string]string) []model.CountryAgg {
	type countryBucket struct {
		region     string
		country    string
		totalSales float64
		orders     map[int]struct{}
		customers  map[int]struct{}
	}
	type regionBucket struct {
		totalSales float64
		orders     map[int]struct{}
		customers  map[int]struct{}
	}

	countries := make(map[string]*countryBucket)
	regions := make(map[string]*regionBucket)

	for _, row := range base {
		if row.Country == nil {
			continue
		}
		country := *row.Country
		region, ok := mapping[country]
		if !ok {
			region = "Other"
		}

		cb, exists := countries[country]
		if !exists {
			cb = &countryBucket{
				region:    region,
				country:   country,
				orders:    make(map[int]struct{}),
				customers: make(map[int]struct{}),
			}
			countries[country] = cb
		}
		cb.totalSales += row.LineSales
		cb.orders[row.OrderNumber] = struct{}{}
		cb.customers[row.CustomerNumber] = struct{}{}

		rb, exists := regions[region]
		if !exists {
			rb = &regionBucket{
				orders:    make(map[int]struct{}),
				customers: make(map[int]struct{}),
			}
			regions[region] = rb
		}
		rb.totalSales += row.LineSales
		rb.orders[row.OrderNumber] = struct{}{}
		rb.customers[row.CustomerNumber] = struct{}{}
	}

	globalTotal := 0.0
	for _, cb := range countries {
		globalTotal += cb.totalSales
	}

	out := make([]model.CountryAgg, 0, len(countries))
	for _, cb := range countries {
		rb := regions[cb.region]
		row := model.CountryAgg{
			Region:             cb.region,
			Country:            cb.country,
			TotalSales:         round2(cb.totalSales),
			NumOrders:          len(cb.orders),
			NumCustomers:       len(cb.customers),
			RegionTotalSales:   round2(rb.totalSales),
			RegionNumOrders:    len(rb.orders),
			RegionNumCustomers: len(rb.customers),
		}
		if row.NumCustomers > 0 {
			row.AvgSalesPerCustomer = round2(cb.totalSales / float64(row.NumCustomers))
		}
		if row.NumOrders > 0 {
			row.AvgOrderValue = round2(cb.totalSales / float64(row.NumOrders))
		}
		if rb.totalSales > 0 {
			row.PctOfRegionSales = round2(cb.totalSales / rb.totalSales * 100)
		}
		if globalTotal > 0 {
			row.PctOfGlobalSales = round2(cb.totalSales / globalTotal * 100)
		}
		out = append(out, row)
	}

	// 区域内名次：min 法，并列同名次
	for i := range out {
		rank := 1
		for j := range out {
			if out[j].Region == out[i].Region && out[j].TotalSales > out[i].TotalSales {
				rank++
			}
		}
		out[i].RankInRegion = rank
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Region != out[j].Region {
			return out[i].Region < out[j].Region
		}
		return out[i].Country < out[j].Country
	})

	return out
}
