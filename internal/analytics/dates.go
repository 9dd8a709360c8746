package analytics

import (
	"math"
	"time"
)

// 日期解析与舍入辅助。源库日期为文本，格式不完全统一。

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// parseDate 解析日期文本，失败返回 ok=false（由调用方决定计入数据质量
// 统计还是跳过该行）
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// monthKey 日历月键，YYYY-MM
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// monthOrdinal 月份序数（用于计算相隔月数）
func monthOrdinal(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

// daysBetween 两个日期相隔的整天数
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func fptr(v float64) *float64 {
	return &v
}

func sptr(v string) *string {
	return &v
}

func iptr(v int) *int {
	return &v
}

// deref 取指针值，nil 得空字符串
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
