package analytics

import (
	"testing"

	"saleslens/internal/model"
)

func customerBase() []model.FactRow {
	name := func(s string) *string { return &s }
	country := func(s string) *string { return &s }
	return []model.FactRow{
		{OrderNumber: 1, OrderDate: "2024-01-01", RequiredDate: "2024-01-10", CustomerNumber: 1, CustomerName: name("甲"), Country: country("France"), ProductCode: "P1", QuantityOrdered: 5, LineSales: 500},
		{OrderNumber: 2, OrderDate: "2024-01-02", RequiredDate: "2024-01-12", CustomerNumber: 2, CustomerName: name("乙"), Country: country("Japan"), ProductCode: "P2", QuantityOrdered: 3, LineSales: 300},
		{OrderNumber: 3, OrderDate: "2024-01-03", RequiredDate: "2024-01-13", CustomerNumber: 3, CustomerName: name("丙"), Country: country("Chile"), ProductCode: "P3", QuantityOrdered: 2, LineSales: 200},
	}
}

// TestABCPositionalScenario 500/300/200 → 累计 [50,80,100] → A,A,C（无 B 档）
func TestABCPositionalScenario(t *testing.T) {
	customers := AggregateCustomers(customerBase())
	if len(customers) != 3 {
		t.Fatalf("expected 3 customers, got %d", len(customers))
	}

	wantCum := []float64{50, 80, 100}
	wantClass := []string{"A", "A", "C"}
	for i, c := range customers {
		if c.SalesRank != i+1 {
			t.Errorf("row %d: SalesRank = %d, want %d", i, c.SalesRank, i+1)
		}
		if !floatEquals(c.CumulativePct, wantCum[i]) {
			t.Errorf("row %d: CumulativePct = %v, want %v", i, c.CumulativePct, wantCum[i])
		}
		if c.ABCClass != wantClass[i] {
			t.Errorf("row %d: ABCClass = %q, want %q", i, c.ABCClass, wantClass[i])
		}
	}
}

// TestABCPartitionComplete 分级完整覆盖且累计占比单调到 100
func TestABCPartitionComplete(t *testing.T) {
	base := customerBase()
	customers := AggregateCustomers(base)

	counts := map[string]int{}
	prev := 0.0
	for _, c := range customers {
		counts[c.ABCClass]++
		if c.CumulativePct < prev {
			t.Errorf("累计占比应单调不减: %v < %v", c.CumulativePct, prev)
		}
		prev = c.CumulativePct
	}
	if counts["A"]+counts["B"]+counts["C"] != len(customers) {
		t.Errorf("ABC 分级应覆盖全部行: %v", counts)
	}
	last := customers[len(customers)-1]
	if !floatEquals(last.CumulativePct, 100) {
		t.Errorf("末行累计占比 = %v, want 100", last.CumulativePct)
	}
}

// TestABCStableTies 并列销售额保持输入先后次序
func TestABCStableTies(t *testing.T) {
	name := func(s string) *string { return &s }
	base := []model.FactRow{
		{OrderNumber: 1, OrderDate: "2024-01-01", RequiredDate: "2024-01-10", CustomerNumber: 7, CustomerName: name("先出现"), ProductCode: "P1", LineSales: 100},
		{OrderNumber: 2, OrderDate: "2024-01-02", RequiredDate: "2024-01-12", CustomerNumber: 8, CustomerName: name("后出现"), ProductCode: "P1", LineSales: 100},
	}
	customers := AggregateCustomers(base)
	if customers[0].CustomerNumber != 7 || customers[1].CustomerNumber != 8 {
		t.Errorf("并列时先出现者名次在前: got %d, %d", customers[0].CustomerNumber, customers[1].CustomerNumber)
	}
	if customers[0].SalesRank != 1 || customers[1].SalesRank != 2 {
		t.Errorf("名次 = %d, %d, want 1, 2", customers[0].SalesRank, customers[1].SalesRank)
	}
}

// TestRevenueConservation 各实体销售额合计等于事实表行销售额合计
func TestRevenueConservation(t *testing.T) {
	base := customerBase()
	factTotal := 0.0
	for _, row := range base {
		factTotal += row.LineSales
	}

	custTotal := 0.0
	for _, c := range AggregateCustomers(base) {
		custTotal += c.TotalSales
	}
	if !floatEquals(custTotal, factTotal) {
		t.Errorf("客户聚合销售额合计 = %v, want %v", custTotal, factTotal)
	}

	prodTotal := 0.0
	for _, p := range AggregateProducts(base) {
		prodTotal += p.TotalSales
	}
	if !floatEquals(prodTotal, factTotal) {
		t.Errorf("产品聚合销售额合计 = %v, want %v", prodTotal, factTotal)
	}
}

func TestAggregateProductsMetrics(t *testing.T) {
	name := func(s string) *string { return &s }
	base := []model.FactRow{
		{OrderNumber: 1, OrderDate: "2024-01-01", RequiredDate: "2024-01-10", CustomerNumber: 1, ProductCode: "P1", ProductName: name("跑车模型"), QuantityOrdered: 2, LineSales: 100},
		{OrderNumber: 2, OrderDate: "2024-01-02", RequiredDate: "2024-01-12", CustomerNumber: 2, ProductCode: "P1", ProductName: name("跑车模型"), QuantityOrdered: 4, LineSales: 200},
	}
	products := AggregateProducts(base)
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	p := products[0]
	if p.NumOrders != 2 || p.NumCustomers != 2 {
		t.Errorf("NumOrders = %d, NumCustomers = %d, want 2, 2", p.NumOrders, p.NumCustomers)
	}
	if !floatEquals(p.AvgSalesPerOrder, 150) {
		t.Errorf("AvgSalesPerOrder = %v, want 150", p.AvgSalesPerOrder)
	}
	if !floatEquals(p.AvgUnitsPerOrder, 3) {
		t.Errorf("AvgUnitsPerOrder = %v, want 3", p.AvgUnitsPerOrder)
	}
	if p.TotalUnits != 6 {
		t.Errorf("TotalUnits = %d, want 6", p.TotalUnits)
	}
}

// TestAggregateSalesRepsSkipsUnassigned 未关联销售代表的事实行不计入
func TestAggregateSalesRepsSkipsUnassigned(t *testing.T) {
	emp := 1001
	name := func(s string) *string { return &s }
	country := func(s string) *string { return &s }
	base := []model.FactRow{
		{OrderNumber: 1, OrderDate: "2024-01-01", RequiredDate: "2024-01-10", CustomerNumber: 1, Country: country("France"), ProductCode: "P1", LineSales: 100, EmployeeNumber: &emp, EmployeeName: name("Jane Doe")},
		{OrderNumber: 2, OrderDate: "2024-01-02", RequiredDate: "2024-01-12", CustomerNumber: 2, Country: country("Japan"), ProductCode: "P2", LineSales: 200, EmployeeNumber: &emp, EmployeeName: name("Jane Doe")},
		{OrderNumber: 3, OrderDate: "2024-01-03", RequiredDate: "2024-01-13", CustomerNumber: 3, ProductCode: "P3", LineSales: 999}, // 未分配
	}
	reps := AggregateSalesReps(base)
	if len(reps) != 1 {
		t.Fatalf("expected 1 rep, got %d", len(reps))
	}
	r := reps[0]
	if !floatEquals(r.TotalSales, 300) {
		t.Errorf("TotalSales = %v, want 300", r.TotalSales)
	}
	if r.NumCustomers != 2 || r.NumCustomerCountries != 2 {
		t.Errorf("NumCustomers = %d, NumCustomerCountries = %d, want 2, 2", r.NumCustomers, r.NumCustomerCountries)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	if got := AggregateCustomers(nil); len(got) != 0 {
		t.Errorf("空输入应得到空聚合, got %d", len(got))
	}
	if got := AggregateProducts(nil); len(got) != 0 {
		t.Errorf("空输入应得到空聚合, got %d", len(got))
	}
	if got := AggregateSalesReps(nil); len(got) != 0 {
		t.Errorf("空输入应得到空聚合, got %d", len(got))
	}
}
