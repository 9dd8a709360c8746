package model

// Order orders 表原始行
// 日期字段保留数据库原始文本，解析与校验在聚合层完成（无法解析的行计入数据质量统计）
type Order struct {
	OrderNumber    int     `json:"orderNumber"`
	OrderDate      string  `json:"orderDate"`
	RequiredDate   string  `json:"requiredDate"`
	ShippedDate    *string `json:"shippedDate"` // 未发货为 NULL
	Status         string  `json:"status"`
	CustomerNumber int     `json:"customerNumber"`
}

// OrderDetail orderdetails 表原始行（订单明细行）
type OrderDetail struct {
	OrderNumber     int     `json:"orderNumber"`
	ProductCode     string  `json:"productCode"`
	QuantityOrdered int     `json:"quantityOrdered"`
	PriceEach       float64 `json:"priceEach"`
	OrderLineNumber int     `json:"orderLineNumber"`
}

// Customer customers 表原始行
type Customer struct {
	CustomerNumber         int      `json:"customerNumber"`
	CustomerName           string   `json:"customerName"`
	City                   string   `json:"city"`
	Country                string   `json:"country"`
	CreditLimit            *float64 `json:"creditLimit"`            // 风控扫描的硬前置条件
	SalesRepEmployeeNumber *int     `json:"salesRepEmployeeNumber"` // 未分配销售代表为 NULL
}

// Product products 表原始行
type Product struct {
	ProductCode string `json:"productCode"`
	ProductName string `json:"productName"`
	ProductLine string `json:"productLine"`
}

// Employee employees 表原始行
type Employee struct {
	EmployeeNumber int    `json:"employeeNumber"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	JobTitle       string `json:"jobTitle"`
	OfficeCode     string `json:"officeCode"`
}

// Payment payments 表原始行
type Payment struct {
	CustomerNumber int     `json:"customerNumber"`
	PaymentDate    string  `json:"paymentDate"`
	Amount         float64 `json:"amount"`
}

// Office offices 表原始行
type Office struct {
	OfficeCode string `json:"officeCode"`
	City       string `json:"city"`
	Country    string `json:"country"`
	Territory  string `json:"territory"`
}

// RawTables 一次加载的全部源表
type RawTables struct {
	Orders       []Order
	OrderDetails []OrderDetail
	Customers    []Customer
	Products     []Product
	Employees    []Employee
	Payments     []Payment
	Offices      []Office
}
