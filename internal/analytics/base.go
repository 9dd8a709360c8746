package analytics

import (
	"saleslens/internal/model"
)

// 事实表构建：orders × orderdetails 内连接，customers / products /
// employees 左连接，并计算行销售额。

// countryNameFixes 国家名归一化（地图组件使用 country names 定位）
var countryNameFixes = map[string]string{
	"USA":     "United States",
	"UK":      "United Kingdom",
	"England": "United Kingdom",
}

// FixCountryName 归一化国家名，未命中原样返回
func FixCountryName(country string) string {
	if fixed, ok := countryNameFixes[country]; ok {
		return fixed
	}
	return country
}

// BuildBase 构建富化后的事实表
//
// 明细行通过 orderNumber 内连接到订单：无主订单的明细行被丢弃（明细行
// 不能脱离订单存在，这是唯一的非左连接）。客户 / 产品 / 销售代表均为左
// 连接，未命中时维度字段为 nil，不丢行。
func BuildBase(
	orders []model.Order,
	details []model.OrderDetail,
	customers []model.Customer,
	products []model.Product,
	employees []model.Employee,
) []model.FactRow {
	orderByNumber := make(map[int]*model.Order, len(orders))
	for i := range orders {
		orderByNumber[orders[i].OrderNumber] = &orders[i]
	}
	customerByNumber := make(map[int]*model.Customer, len(customers))
	for i := range customers {
		customerByNumber[customers[i].CustomerNumber] = &customers[i]
	}
	productByCode := make(map[string]*model.Product, len(products))
	for i := range products {
		productByCode[products[i].ProductCode] = &products[i]
	}
	employeeByNumber := make(map[int]*model.Employee, len(employees))
	for i := range employees {
		employeeByNumber[employees[i].EmployeeNumber] = &employees[i]
	}

	base := make([]model.FactRow, 0, len(details))
	for _, d := range details {
		order, ok := orderByNumber[d.OrderNumber]
		if !ok {
			// 无主订单的明细行
			continue
		}

		row := model.FactRow{
			OrderNumber:     order.OrderNumber,
			OrderDate:       order.OrderDate,
			RequiredDate:    order.RequiredDate,
			ShippedDate:     order.ShippedDate,
			CustomerNumber:  order.CustomerNumber,
			ProductCode:     d.ProductCode,
			QuantityOrdered: d.QuantityOrdered,
			PriceEach:       d.PriceEach,
			LineSales:       float64(d.QuantityOrdered) * d.PriceEach,
		}

		if c, ok := customerByNumber[order.CustomerNumber]; ok {
			row.CustomerName = sptr(c.CustomerName)
			row.Country = sptr(FixCountryName(c.Country))
			row.City = sptr(c.City)
			row.CreditLimit = c.CreditLimit
			row.SalesRepEmployeeNumber = c.SalesRepEmployeeNumber

			// 销售代表经由客户的 salesRepEmployeeNumber 关联
			if c.SalesRepEmployeeNumber != nil {
				if e, ok := employeeByNumber[*c.SalesRepEmployeeNumber]; ok {
					row.EmployeeNumber = iptr(e.EmployeeNumber)
					row.EmployeeName = sptr(e.FirstName + " " + e.LastName)
					row.JobTitle = sptr(e.JobTitle)
					row.OfficeCode = sptr(e.OfficeCode)
				}
			}
		}

		if p, ok := productByCode[d.ProductCode]; ok {
			row.ProductName = sptr(p.ProductName)
			row.ProductLine = sptr(p.ProductLine)
		}

		base = append(base, row)
	}

	return base
}
