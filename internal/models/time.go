package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// 文档中出现过的时间格式，按顺序尝试
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
}

// Time 文档时间字段
// 兼容完整时间戳与仅日期写法，不带时区的值按 UTC 解析
type Time struct {
	time.Time
}

// NewTime 包装 time.Time
func NewTime(t time.Time) *Time {
	return &Time{Time: t}
}

// ParseTime 按支持的格式解析时间字符串
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format: %q", s)
}

// MarshalJSON 输出 RFC3339
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// UnmarshalJSON 接受字符串或 null
func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// Valid 判断时间是否有值
func (t *Time) Valid() bool {
	return t != nil && !t.IsZero()
}
