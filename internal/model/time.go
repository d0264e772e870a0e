package model

import (
	"fmt"
	"time"
)

const (
	isoTimeFormat = "2006-01-02T15:04:05.000000"
	isoDateFormat = "2006-01-02"
)

// ISOTime 序列化为不带时区的 ISO-8601 时间（精确到微秒），前端按本地时间展示。
type ISOTime time.Time

// MarshalJSON implements the json.Marshaler interface.
func (t ISOTime) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", time.Time(t).Format(isoTimeFormat))), nil
}

// ISODate 序列化为 "YYYY-MM-DD"。
type ISODate time.Time

// MarshalJSON implements the json.Marshaler interface.
func (d ISODate) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", time.Time(d).Format(isoDateFormat))), nil
}

// String 返回 "YYYY-MM-DD" 形式。
func (d ISODate) String() string {
	return time.Time(d).Format(isoDateFormat)
}
