package domain

import (
	"strings"
	"time"
)

// EventKind 用于区分事件存储中不同类型的日历记录
type EventKind string

const (
	EventKindPlanning EventKind = "planning" // 排班班次
	EventKindMeeting  EventKind = "meeting"  // 客户会议
	EventKindReminder EventKind = "reminder" // 跟进提醒
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// 复合时间字符串中缺少分隔符时使用的回退时间段
	FallbackStartTime = "09:00"
	FallbackEndTime   = "17:00"

	timeRangeSeparator = " - "
)

type Shift struct {
	ID          int64     `json:"id"`
	Kind        EventKind `json:"kind"`
	Title       string    `json:"title"`
	Date        string    `json:"date"` // YYYY-MM-DD
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	AssignedTo  *int64    `json:"assignedTo"` // 为 nil 时表示该班次未分配
	CreatedAt   time.Time `json:"createdAt"`
	Version     int32     `json:"-"`
}

// TimeRange 返回用于展示的复合时间字符串，如 "09:00 - 17:00"
func (s *Shift) TimeRange() string {
	return FormatTimeRange(s.StartTime, s.EndTime)
}

func (s *Shift) ParseDate() (time.Time, error) {
	return time.Parse(DateLayout, s.Date)
}

// Clone 返回一个完全独立的副本
func (s *Shift) Clone() *Shift {
	clone := *s
	if s.AssignedTo != nil {
		assignedTo := *s.AssignedTo
		clone.AssignedTo = &assignedTo
	}
	return &clone
}

func FormatTimeRange(startTime string, endTime string) string {
	return startTime + timeRangeSeparator + endTime
}

// SplitTimeRange 将复合时间字符串拆分回开始时间和结束时间，
// 如果找不到分隔符则返回回退时间段
func SplitTimeRange(timeRange string) (string, string) {
	startTime, endTime, found := strings.Cut(timeRange, timeRangeSeparator)
	if !found {
		return FallbackStartTime, FallbackEndTime
	}
	return startTime, endTime
}
