package service

import (
	"fmt"
	"strings"
	"time"
)

const dayKeyLayout = "2006-01-02"

// DefaultSeriesDays 未指定起始日期时统计序列默认覆盖的天数（含当天共 30 天）。
const DefaultSeriesDays = 29

// DayKey 将任意时间归一化为 UTC 日历天键，格式 YYYY-MM-DD。
func DayKey(t time.Time) string {
	return t.UTC().Format(dayKeyLayout)
}

// DateRange 解析可选的起止日期并返回闭区间端点。
// to 给定时取该日 UTC 23:59:59.999，否则取今天的 UTC 日末；
// from 给定时取该日 UTC 00:00:00.000，否则取 end 往前 defaultDays 天。
// 日期字符串非法时返回解析错误，不做静默兜底。
func DateRange(from, to string, defaultDays int) (time.Time, time.Time, error) {
	if defaultDays < 0 {
		defaultDays = DefaultSeriesDays
	}

	end := endOfUTCDay(time.Now())
	if trimmed := strings.TrimSpace(to); trimmed != "" {
		parsed, err := time.ParseInLocation(dayKeyLayout, trimmed, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse to date: %w", err)
		}
		end = endOfUTCDay(parsed)
	}

	start := startOfUTCDay(end.AddDate(0, 0, -defaultDays))
	if trimmed := strings.TrimSpace(from); trimmed != "" {
		parsed, err := time.ParseInLocation(dayKeyLayout, trimmed, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse from date: %w", err)
		}
		start = startOfUTCDay(parsed)
	}

	return start, end, nil
}

// DaySeries 返回闭区间内连续的日历天键，采用 24 小时步进。
// 全程 UTC 计算，不涉及夏令时偏移。
func DaySeries(start, end time.Time) []string {
	if end.Before(start) {
		return nil
	}

	var keys []string
	for cursor := start.UTC(); !cursor.After(end.UTC()); cursor = cursor.Add(24 * time.Hour) {
		keys = append(keys, DayKey(cursor))
	}
	return keys
}

func startOfUTCDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfUTCDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
}
