package service

import (
	"math"
	"time"

	"github.com/lectio/internal/db"
)

// defaultHorizonDays 在未指定回归日期时兜底，保证日期推进必然终止
const defaultHorizonDays = 365

// suggestedDailyReadings 为推荐设置使用的固定每日条数
const suggestedDailyReadings = 3

// DistributeOptions 描述补读分配的容量约束
// MaxDailyReadings/MaxDailyChapters 为 nil 表示该维度不限
// WeekendMultiplier 在周六/周日按 floor(上限*倍率) 缩放两个上限，0 表示周末不排
type DistributeOptions struct {
	TargetDate        *time.Time
	MaxDailyReadings  *int
	MaxDailyChapters  *int
	WeekendMultiplier float64
}

// DistributionDay 表示分配结果中的一天
type DistributionDay struct {
	Date          time.Time
	IsWeekend     bool
	Items         []db.ReadingSchedule
	TotalChapters int
}

// SuggestedSettings 为逾期状态接口返回的推荐补读配置
type SuggestedSettings struct {
	MaxDailyReadings    int
	OverdueCount        int
	OverdueChapters     int
	EstimatedDays       int
	EstimatedRejoinDate time.Time
}

// Distribute 将逾期日程按原始顺序贪心填入从 startDate 起的每一天。
// 无法在期限内放置的条目原样返回为 remaining，由调用方决定放宽约束或提示用户。
// 两个上限都未设置时所有条目落在 startDate 当天。
func Distribute(items []db.ReadingSchedule, startDate time.Time, opts DistributeOptions) ([]DistributionDay, []db.ReadingSchedule) {
	if len(items) == 0 {
		return nil, nil
	}

	start := normalizeToDate(startDate)

	if opts.MaxDailyReadings == nil && opts.MaxDailyChapters == nil {
		day := DistributionDay{
			Date:      start,
			IsWeekend: isWeekend(start),
			Items:     items,
		}
		for _, item := range items {
			day.TotalChapters += item.ChapterCount()
		}
		return []DistributionDay{day}, nil
	}

	// 回归日当天恢复正常进度，补读只排到它的前一天
	horizon := start.AddDate(0, 0, defaultHorizonDays)
	if opts.TargetDate != nil {
		horizon = normalizeToDate(*opts.TargetDate).AddDate(0, 0, -1)
	}

	queue := items
	var days []DistributionDay

	for date := start; !date.After(horizon) && len(queue) > 0; date = date.AddDate(0, 0, 1) {
		weekend := isWeekend(date)
		readingCap := scaleCap(opts.MaxDailyReadings, weekend, opts.WeekendMultiplier)
		chapterCap := scaleCap(opts.MaxDailyChapters, weekend, opts.WeekendMultiplier)

		day := DistributionDay{Date: date, IsWeekend: weekend}

		// 始终按原始顺序从队首取；当天放不下的条目留给后续日期，
		// 单条超过章数上限的条目永远放不进任何一天，最终归入 remaining。
		for len(queue) > 0 {
			next := queue[0]
			if readingCap != nil && len(day.Items) >= *readingCap {
				break
			}
			if chapterCap != nil && day.TotalChapters+next.ChapterCount() > *chapterCap {
				break
			}
			day.Items = append(day.Items, next)
			day.TotalChapters += next.ChapterCount()
			queue = queue[1:]
		}

		if len(day.Items) > 0 {
			days = append(days, day)
		}
	}

	return days, queue
}

// SuggestSettings 按固定的每日 3 条估算补读天数与回归日期。
// overdueChapters 仅原样透传，当前估算不依赖章数。
func SuggestSettings(overdueCount, overdueChapters int, today time.Time) SuggestedSettings {
	days := 0
	if overdueCount > 0 {
		days = (overdueCount + suggestedDailyReadings - 1) / suggestedDailyReadings
	}

	return SuggestedSettings{
		MaxDailyReadings:    suggestedDailyReadings,
		OverdueCount:        overdueCount,
		OverdueChapters:     overdueChapters,
		EstimatedDays:       days,
		EstimatedRejoinDate: normalizeToDate(today).AddDate(0, 0, days),
	}
}

func scaleCap(limit *int, weekend bool, multiplier float64) *int {
	if limit == nil {
		return nil
	}
	if !weekend {
		return limit
	}
	scaled := int(math.Floor(float64(*limit) * multiplier))
	return &scaled
}

func isWeekend(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

func normalizeToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
