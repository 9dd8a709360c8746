package analytics

import (
	"testing"

	"saleslens/internal/model"
)

func trendRow(order int, month string, product string, sales float64) model.FactRow {
	return model.FactRow{
		OrderNumber:  order,
		OrderDate:    month + "-15",
		RequiredDate: month + "-25",
		ProductCode:  product,
		LineSales:    sales,
	}
}

// TestProductDemandTrendBoundary 增长率边界 ±15% 含端点
func TestProductDemandTrendBoundary(t *testing.T) {
	base := []model.FactRow{
		// 产品 A：前窗 100，近窗 115 → 恰好 +15% → GROWING
		trendRow(1, "2024-03", "A", 100),
		trendRow(2, "2024-06", "A", 115),
		// 产品 B：前窗 100，近窗 114.999 → STABLE
		trendRow(3, "2024-03", "B", 100),
		trendRow(4, "2024-06", "B", 114.999),
		// 产品 C：前窗 100，近窗 85 → 恰好 -15% → DECLINING
		trendRow(5, "2024-03", "C", 100),
		trendRow(6, "2024-06", "C", 85),
		// 产品 D：只有近窗 → INSUFFICIENT_DATA
		trendRow(7, "2024-06", "D", 500),
	}

	trends := ProductDemandTrends(base)
	byCode := map[string]model.ProductTrend{}
	for _, tr := range trends {
		byCode[tr.ProductCode] = tr
	}

	if got := byCode["A"].DemandTrendFlag; got != "GROWING" {
		t.Errorf("产品 A flag = %q, want GROWING", got)
	}
	if got := byCode["B"].DemandTrendFlag; got != "STABLE" {
		t.Errorf("产品 B flag = %q, want STABLE", got)
	}
	if got := byCode["C"].DemandTrendFlag; got != "DECLINING" {
		t.Errorf("产品 C flag = %q, want DECLINING", got)
	}
	if got := byCode["D"].DemandTrendFlag; got != "INSUFFICIENT_DATA" {
		t.Errorf("产品 D flag = %q, want INSUFFICIENT_DATA", got)
	}

	a := byCode["A"]
	if a.RecentAvg == nil || !floatEquals(*a.RecentAvg, 115) {
		t.Errorf("产品 A RecentAvg = %v, want 115", a.RecentAvg)
	}
	if a.PrevAvg == nil || !floatEquals(*a.PrevAvg, 100) {
		t.Errorf("产品 A PrevAvg = %v, want 100", a.PrevAvg)
	}
	if a.GrowthRate == nil || !floatEquals(*a.GrowthRate, 0.15) {
		t.Errorf("产品 A GrowthRate = %v, want 0.15", a.GrowthRate)
	}

	d := byCode["D"]
	if d.PrevAvg != nil || d.GrowthRate != nil {
		t.Errorf("产品 D 前窗与增长率应为 null: %+v", d)
	}
}

func TestQuantileScore(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		reverse  bool
		expected []float64
	}{
		{"五个不同取值", []float64{1, 2, 3, 4, 5}, false, []float64{1, 2, 3, 4, 5}},
		{"反向打分", []float64{1, 2, 3, 4, 5}, true, []float64{5, 4, 3, 2, 1}},
		{"常数序列给中间分", []float64{7, 7, 7}, false, []float64{3, 3, 3}},
		{"两个取值两箱", []float64{10, 20}, false, []float64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := quantileScore(tt.values, tt.reverse)
			if len(got) != len(tt.expected) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.expected))
			}
			for i := range got {
				if !floatEquals(got[i], tt.expected[i]) {
					t.Errorf("score[%d] = %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

// TestCustomerRFMConstant 全体同值 → 3/3/3 → 总分 9 → Loyal
func TestCustomerRFMConstant(t *testing.T) {
	name := func(s string) *string { return &s }
	base := []model.FactRow{
		{OrderNumber: 1, OrderDate: "2024-05-01", RequiredDate: "2024-05-10", CustomerNumber: 1, CustomerName: name("甲"), ProductCode: "P1", LineSales: 100},
		{OrderNumber: 2, OrderDate: "2024-05-01", RequiredDate: "2024-05-10", CustomerNumber: 2, CustomerName: name("乙"), ProductCode: "P1", LineSales: 100},
		{OrderNumber: 3, OrderDate: "2024-05-01", RequiredDate: "2024-05-10", CustomerNumber: 3, CustomerName: name("丙"), ProductCode: "P1", LineSales: 100},
	}

	rfm := CustomerRFM(base)
	if len(rfm) != 3 {
		t.Fatalf("expected 3 customers, got %d", len(rfm))
	}
	for _, r := range rfm {
		if !floatEquals(r.RScore, 3) || !floatEquals(r.FScore, 3) || !floatEquals(r.MScore, 3) {
			t.Errorf("客户 %d scores = %v/%v/%v, want 3/3/3", r.CustomerNumber, r.RScore, r.FScore, r.MScore)
		}
		if !floatEquals(r.RFMScore, 9) {
			t.Errorf("客户 %d RFMScore = %v, want 9", r.CustomerNumber, r.RFMScore)
		}
		if r.RFMSegment != "Loyal" {
			t.Errorf("客户 %d segment = %q, want Loyal", r.CustomerNumber, r.RFMSegment)
		}
	}
}

func TestRFMSegments(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{15, "Champions"},
		{12, "Champions"},
		{11, "Loyal"},
		{9, "Loyal"},
		{8, "Potential"},
		{6, "Potential"},
		{5, "At Risk"},
		{3, "At Risk"},
	}
	for _, tt := range tests {
		if got := rfmSegment(tt.score); got != tt.expected {
			t.Errorf("rfmSegment(%v) = %q, want %q", tt.score, got, tt.expected)
		}
	}
}

func TestNextOrderPredictions(t *testing.T) {
	name := func(s string) *string { return &s }
	base := []model.FactRow{
		// 客户 1：三笔订单，间隔均为 10 天
		{OrderNumber: 1, OrderDate: "2024-01-01", RequiredDate: "2024-01-10", CustomerNumber: 1, CustomerName: name("甲"), ProductCode: "P1", LineSales: 10},
		{OrderNumber: 2, OrderDate: "2024-01-11", RequiredDate: "2024-01-20", CustomerNumber: 1, CustomerName: name("甲"), ProductCode: "P1", LineSales: 10},
		{OrderNumber: 3, OrderDate: "2024-01-21", RequiredDate: "2024-01-30", CustomerNumber: 1, CustomerName: name("甲"), ProductCode: "P1", LineSales: 10},
		// 同一订单的第二行不构成新间隔
		{OrderNumber: 3, OrderDate: "2024-01-21", RequiredDate: "2024-01-30", CustomerNumber: 1, CustomerName: name("甲"), ProductCode: "P2", LineSales: 10},
		// 客户 2：只有一笔订单
		{OrderNumber: 4, OrderDate: "2024-02-01", RequiredDate: "2024-02-10", CustomerNumber: 2, CustomerName: name("乙"), ProductCode: "P1", LineSales: 10},
	}

	predictions := NextOrderPredictions(base)
	if len(predictions) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(predictions))
	}

	p1 := predictions[0]
	if p1.CustomerNumber != 1 {
		t.Fatalf("输出应按客户号排序, got %d", p1.CustomerNumber)
	}
	if p1.AvgGapDays == nil || !floatEquals(*p1.AvgGapDays, 10) {
		t.Errorf("AvgGapDays = %v, want 10", p1.AvgGapDays)
	}
	if p1.ExpectedNextOrderDate == nil || *p1.ExpectedNextOrderDate != "2024-01-31" {
		t.Errorf("ExpectedNextOrderDate = %v, want 2024-01-31", p1.ExpectedNextOrderDate)
	}
	if p1.LastOrderDate != "2024-01-21" {
		t.Errorf("LastOrderDate = %q, want 2024-01-21", p1.LastOrderDate)
	}

	p2 := predictions[1]
	if p2.AvgGapDays != nil || p2.ExpectedNextOrderDate != nil {
		t.Errorf("单笔订单客户的间隔与预测应为 null: %+v", p2)
	}
}

func crossSellBase() []model.FactRow {
	name := func(s string) *string { return &s }
	row := func(order int, code, productName string) model.FactRow {
		return model.FactRow{
			OrderNumber:  order,
			OrderDate:    "2024-01-01",
			RequiredDate: "2024-01-10",
			ProductCode:  code,
			ProductName:  name(productName),
			LineSales:    10,
		}
	}
	return []model.FactRow{
		// O1 中 B 行在 A 行之前，且 A 出现两行：规范化后仍只算一次共现、无自配对
		row(1, "B", "产品B"), row(1, "A", "产品A"), row(1, "A", "产品A"),
		row(2, "A", "产品A"), row(2, "B", "产品B"),
		row(3, "A", "产品A"), row(3, "B", "产品B"),
		row(4, "A", "产品A"), row(4, "C", "产品C"),
	}
}

func TestCrossSellPairs(t *testing.T) {
	pairs := CrossSellPairs(crossSellBase(), 3)
	if len(pairs) != 1 {
		t.Fatalf("共现不足阈值的产品对应被过滤, got %d pairs", len(pairs))
	}

	p := pairs[0]
	if p.ProductCode1 != "A" || p.ProductCode2 != "B" {
		t.Errorf("规范化后小编号在前: %s/%s", p.ProductCode1, p.ProductCode2)
	}
	if p.CooccurrenceCount != 3 {
		t.Errorf("CooccurrenceCount = %d, want 3", p.CooccurrenceCount)
	}
	if p.Product1Orders != 4 || p.Product2Orders != 3 || p.TotalOrders != 4 {
		t.Errorf("订单计数 = %d/%d/%d, want 4/3/4", p.Product1Orders, p.Product2Orders, p.TotalOrders)
	}
	if !floatEquals(p.Support, 0.75) {
		t.Errorf("Support = %v, want 0.75", p.Support)
	}
	if !floatEquals(p.ConfidenceFromP1, 0.75) {
		t.Errorf("ConfidenceFromP1 = %v, want 0.75", p.ConfidenceFromP1)
	}
	if !floatEquals(p.ConfidenceFromP2, 1.0) {
		t.Errorf("ConfidenceFromP2 = %v, want 1.0", p.ConfidenceFromP2)
	}
	if !floatEquals(p.ExpectedCooccurrence, 3.0) {
		t.Errorf("ExpectedCooccurrence = %v, want 3.0", p.ExpectedCooccurrence)
	}
	if !floatEquals(p.Lift, 1.0) {
		t.Errorf("Lift = %v, want 1.0", p.Lift)
	}
}

// TestCrossSellCanonicalization (A,B) 与 (B,A) 只计一次，无 (A,A)
func TestCrossSellCanonicalization(t *testing.T) {
	pairs := CrossSellPairs(crossSellBase(), 1)
	seen := map[string]bool{}
	for _, p := range pairs {
		if p.ProductCode1 >= p.ProductCode2 {
			t.Errorf("产品对未规范化: %s/%s", p.ProductCode1, p.ProductCode2)
		}
		key := p.ProductCode1 + "|" + p.ProductCode2
		if seen[key] {
			t.Errorf("产品对重复出现: %s", key)
		}
		seen[key] = true
	}
	// A-B 与 A-C，无 B-C（从未共现）也无自配对
	if len(pairs) != 2 {
		t.Errorf("expected 2 pairs, got %d", len(pairs))
	}
}

func TestPredictiveEmptyInputs(t *testing.T) {
	if got := ProductDemandTrends(nil); len(got) != 0 {
		t.Errorf("expected empty, got %d", len(got))
	}
	if got := CustomerRFM(nil); len(got) != 0 {
		t.Errorf("expected empty, got %d", len(got))
	}
	if got := NextOrderPredictions(nil); len(got) != 0 {
		t.Errorf("expected empty, got %d", len(got))
	}
	if got := CrossSellPairs(nil, 3); len(got) != 0 {
		t.Errorf("expected empty, got %d", len(got))
	}
}
