package model

// FactRow 富化后的事实表行（一行对应一条订单明细）
//
// 由 orders 与 orderdetails 内连接（无主订单的明细行被丢弃），再左连接
// customers / products / employees 富化。左连接未命中的维度字段为 NULL
// 指针，不丢行。所有下游聚合只读取这张表。
type FactRow struct {
	OrderNumber  int     `json:"orderNumber"`
	OrderDate    string  `json:"orderDate"`
	RequiredDate string  `json:"requiredDate"`
	ShippedDate  *string `json:"shippedDate"`

	CustomerNumber         int      `json:"customerNumber"`
	CustomerName           *string  `json:"customerName"`
	Country                *string  `json:"country"`
	City                   *string  `json:"city"`
	CreditLimit            *float64 `json:"creditLimit"`
	SalesRepEmployeeNumber *int     `json:"salesRepEmployeeNumber"`

	ProductCode string  `json:"productCode"`
	ProductName *string `json:"productName"`
	ProductLine *string `json:"productLine"`

	EmployeeNumber *int    `json:"employeeNumber"`
	EmployeeName   *string `json:"employeeName"` // firstName + " " + lastName
	JobTitle       *string `json:"jobTitle"`
	OfficeCode     *string `json:"officeCode"`

	QuantityOrdered int     `json:"quantityOrdered"`
	PriceEach       float64 `json:"priceEach"`
	LineSales       float64 `json:"lineSales"` // quantityOrdered × priceEach
}
