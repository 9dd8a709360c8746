package store

import (
	"database/sql"
	"fmt"

	"saleslens/internal/model"
)

// 源表加载。SELECT 显式列出所需列：源库缺列属于模式错误，查询会在此处
// 立即失败并带上表名，而不是带着缺失字段继续计算。

// LoadOrders 加载 orders 表
func (s *Store) LoadOrders() ([]model.Order, error) {
	rows, err := s.db.Query(`
		SELECT orderNumber, orderDate, requiredDate, shippedDate, status, customerNumber
		FROM orders
	`)
	if err != nil {
		return nil, fmt.Errorf("query orders failed: %w", err)
	}
	defer rows.Close()

	var out []model.Order
	for rows.Next() {
		var o model.Order
		var shipped sql.NullString
		if err := rows.Scan(&o.OrderNumber, &o.OrderDate, &o.RequiredDate, &shipped, &o.Status, &o.CustomerNumber); err != nil {
			return nil, fmt.Errorf("scan orders failed: %w", err)
		}
		if shipped.Valid {
			v := shipped.String
			o.ShippedDate = &v
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders failed: %w", err)
	}
	return out, nil
}

// LoadOrderDetails 加载 orderdetails 表
func (s *Store) LoadOrderDetails() ([]model.OrderDetail, error) {
	rows, err := s.db.Query(`
		SELECT orderNumber, productCode, quantityOrdered, priceEach, orderLineNumber
		FROM orderdetails
	`)
	if err != nil {
		return nil, fmt.Errorf("query orderdetails failed: %w", err)
	}
	defer rows.Close()

	var out []model.OrderDetail
	for rows.Next() {
		var d model.OrderDetail
		if err := rows.Scan(&d.OrderNumber, &d.ProductCode, &d.QuantityOrdered, &d.PriceEach, &d.OrderLineNumber); err != nil {
			return nil, fmt.Errorf("scan orderdetails failed: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orderdetails failed: %w", err)
	}
	return out, nil
}

// LoadCustomers 加载 customers 表
func (s *Store) LoadCustomers() ([]model.Customer, error) {
	rows, err := s.db.Query(`
		SELECT customerNumber, customerName, city, country, creditLimit, salesRepEmployeeNumber
		FROM customers
	`)
	if err != nil {
		return nil, fmt.Errorf("query customers failed: %w", err)
	}
	defer rows.Close()

	var out []model.Customer
	for rows.Next() {
		var c model.Customer
		var credit sql.NullFloat64
		var rep sql.NullInt64
		if err := rows.Scan(&c.CustomerNumber, &c.CustomerName, &c.City, &c.Country, &credit, &rep); err != nil {
			return nil, fmt.Errorf("scan customers failed: %w", err)
		}
		if credit.Valid {
			v := credit.Float64
			c.CreditLimit = &v
		}
		if rep.Valid {
			v := int(rep.Int64)
			c.SalesRepEmployeeNumber = &v
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers failed: %w", err)
	}
	return out, nil
}

// LoadProducts 加载 products 表
func (s *Store) LoadProducts() ([]model.Product, error) {
	rows, err := s.db.Query(`
		SELECT productCode, productName, productLine
		FROM products
	`)
	if err != nil {
		return nil, fmt.Errorf("query products failed: %w", err)
	}
	defer rows.Close()

	var out []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ProductCode, &p.ProductName, &p.ProductLine); err != nil {
			return nil, fmt.Errorf("scan products failed: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products failed: %w", err)
	}
	return out, nil
}

// LoadEmployees 加载 employees 表
func (s *Store) LoadEmployees() ([]model.Employee, error) {
	rows, err := s.db.Query(`
		SELECT employeeNumber, firstName, lastName, jobTitle, officeCode
		FROM employees
	`)
	if err != nil {
		return nil, fmt.Errorf("query employees failed: %w", err)
	}
	defer rows.Close()

	var out []model.Employee
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.EmployeeNumber, &e.FirstName, &e.LastName, &e.JobTitle, &e.OfficeCode); err != nil {
			return nil, fmt.Errorf("scan employees failed: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees failed: %w", err)
	}
	return out, nil
}

// LoadPayments 加载 payments 表
func (s *Store) LoadPayments() ([]model.Payment, error) {
	rows, err := s.db.Query(`
		SELECT customerNumber, paymentDate, amount
		FROM payments
	`)
	if err != nil {
		return nil, fmt.Errorf("query payments failed: %w", err)
	}
	defer rows.Close()

	var out []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.CustomerNumber, &p.PaymentDate, &p.Amount); err != nil {
			return nil, fmt.Errorf("scan payments failed: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments failed: %w", err)
	}
	return out, nil
}

// LoadOffices 加载 offices 表
func (s *Store) LoadOffices() ([]model.Office, error) {
	rows, err := s.db.Query(`
		SELECT officeCode, city, country, territory
		FROM offices
	`)
	if err != nil {
		return nil, fmt.Errorf("query offices failed: %w", err)
	}
	defer rows.Close()

	var out []model.Office
	for rows.Next() {
		var o model.Office
		var territory sql.NullString
		if err := rows.Scan(&o.OfficeCode, &o.City, &o.Country, &territory); err != nil {
			return nil, fmt.Errorf("scan offices failed: %w", err)
		}
		o.Territory = territory.String
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offices failed: %w", err)
	}
	return out, nil
}

// LoadRawTables 一次加载全部源表
func (s *Store) LoadRawTables() (*model.RawTables, error) {
	orders, err := s.LoadOrders()
	if err != nil {
		return nil, err
	}
	details, err := s.LoadOrderDetails()
	if err != nil {
		return nil, err
	}
	customers, err := s.LoadCustomers()
	if err != nil {
		return nil, err
	}
	products, err := s.LoadProducts()
	if err != nil {
		return nil, err
	}
	employees, err := s.LoadEmployees()
	if err != nil {
		return nil, err
	}
	payments, err := s.LoadPayments()
	if err != nil {
		return nil, err
	}
	offices, err := s.LoadOffices()
	if err != nil {
		return nil, err
	}

	return &model.RawTables{
		Orders:       orders,
		OrderDetails: details,
		Customers:    customers,
		Products:     products,
		Employees:    employees,
		Payments:     payments,
		Offices:      offices,
	}, nil
}
