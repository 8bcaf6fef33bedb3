package service

import (
	"testing"
	"time"

	"github.com/lectio/internal/db"
)

func makeSchedules(count, chaptersEach int) []db.ReadingSchedule {
	items := make([]db.ReadingSchedule, 0, count)
	for i := 0; i < count; i++ {
		item := db.ReadingSchedule{
			Book:         "创世记",
			StartChapter: i*chaptersEach + 1,
			EndChapter:   (i + 1) * chaptersEach,
		}
		item.ID = uint(i + 1)
		items = append(items, item)
	}
	return items
}

func date(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func intPtr(v int) *int {
	return &v
}

func TestDistributeEmptyInput(t *testing.T) {
	days, remaining := Distribute(nil, date("2024-01-01"), DistributeOptions{})
	if len(days) != 0 || len(remaining) != 0 {
		t.Fatalf("expected empty result, got %d days %d remaining", len(days), len(remaining))
	}
}

func TestDistributeUnconstrainedPlacesEverythingOnStartDate(t *testing.T) {
	items := makeSchedules(10, 1)
	start := date("2024-01-01")

	days, remaining := Distribute(items, start, DistributeOptions{WeekendMultiplier: 1})

	if len(remaining) != 0 {
		t.Fatalf("expected no remaining, got %d", len(remaining))
	}
	if len(days) != 1 {
		t.Fatalf("expected single day, got %d", len(days))
	}
	if !days[0].Date.Equal(start) {
		t.Fatalf("expected start date placement, got %s", days[0].Date)
	}
	if len(days[0].Items) != 10 || days[0].TotalChapters != 10 {
		t.Fatalf("expected all 10 items on start date, got %d items %d chapters", len(days[0].Items), days[0].TotalChapters)
	}
}

func TestDistributeZeroCapacityLeavesEverythingRemaining(t *testing.T) {
	items := makeSchedules(5, 1)

	days, remaining := Distribute(items, date("2024-01-01"), DistributeOptions{
		MaxDailyReadings:  intPtr(0),
		WeekendMultiplier: 1,
	})

	if len(days) != 0 {
		t.Fatalf("expected no placements, got %d days", len(days))
	}
	if len(remaining) != len(items) {
		t.Fatalf("expected all %d items remaining, got %d", len(items), len(remaining))
	}
	for i, item := range remaining {
		if item.ID != items[i].ID {
			t.Fatalf("remaining order changed at %d: got %d want %d", i, item.ID, items[i].ID)
		}
	}
}

func TestDistributeTenItemsThreePerDay(t *testing.T) {
	// 2024-01-01 为周一，3/3/3/1 共四天
	items := makeSchedules(10, 1)

	days, remaining := Distribute(items, date("2024-01-01"), DistributeOptions{
		MaxDailyReadings:  intPtr(3),
		WeekendMultiplier: 1,
	})

	if len(remaining) != 0 {
		t.Fatalf("expected no remaining, got %d", len(remaining))
	}
	if len(days) != 4 {
		t.Fatalf("expected 4 days, got %d", len(days))
	}

	expected := []int{3, 3, 3, 1}
	for i, day := range days {
		if len(day.Items) != expected[i] {
			t.Fatalf("day %d: expected %d items, got %d", i, expected[i], len(day.Items))
		}
		wantDate := date("2024-01-01").AddDate(0, 0, i)
		if !day.Date.Equal(wantDate) {
			t.Fatalf("day %d: expected %s, got %s", i, wantDate, day.Date)
		}
	}
}

func TestDistributeTightTargetLeavesRemaining(t *testing.T) {
	// 回归日为 2024-01-02，补读只有 2024-01-01 一天可用
	items := makeSchedules(10, 1)
	target := date("2024-01-02")

	days, remaining := Distribute(items, date("2024-01-01"), DistributeOptions{
		TargetDate:        &target,
		MaxDailyReadings:  intPtr(3),
		WeekendMultiplier: 1,
	})

	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	if len(days[0].Items) != 3 {
		t.Fatalf("expected 3 items placed, got %d", len(days[0].Items))
	}
	if len(remaining) != 7 {
		t.Fatalf("expected 7 remaining, got %d", len(remaining))
	}
}

func TestDistributeWeekendScaling(t *testing.T) {
	// 2024-01-06 为周六，floor(2*1.5)=3
	items := makeSchedules(3, 1)

	days, remaining := Distribute(items, date("2024-01-06"), DistributeOptions{
		MaxDailyReadings:  intPtr(2),
		WeekendMultiplier: 1.5,
	})

	if len(remaining) != 0 {
		t.Fatalf("expected no remaining, got %d", len(remaining))
	}
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	if !days[0].IsWeekend {
		t.Fatal("expected saturday to be flagged as weekend")
	}
	if len(days[0].Items) != 3 {
		t.Fatalf("expected weekend cap 3, got %d items", len(days[0].Items))
	}
}

func TestDistributeWeekendMultiplierZeroSkipsWeekend(t *testing.T) {
	// 从周六开始，倍率 0 时前两天不可用，全部落到周一
	items := makeSchedules(2, 1)

	days, remaining := Distribute(items, date("2024-01-06"), DistributeOptions{
		MaxDailyReadings:  intPtr(2),
		WeekendMultiplier: 0,
	})

	if len(remaining) != 0 {
		t.Fatalf("expected no remaining, got %d", len(remaining))
	}
	if len(days) != 1 {
		t.Fatalf("expected 1 placement day, got %d", len(days))
	}
	if !days[0].Date.Equal(date("2024-01-08")) {
		t.Fatalf("expected monday placement, got %s", days[0].Date)
	}
}

func TestDistributeChapterCapSplitsDays(t *testing.T) {
	// 每条 3 章，日上限 6 章 => 每天两条
	items := makeSchedules(4, 3)

	days, remaining := Distribute(items, date("2024-01-01"), DistributeOptions{
		MaxDailyChapters:  intPtr(6),
		WeekendMultiplier: 1,
	})

	if len(remaining) != 0 {
		t.Fatalf("expected no remaining, got %d", len(remaining))
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	for i, day := range days {
		if len(day.Items) != 2 || day.TotalChapters != 6 {
			t.Fatalf("day %d: expected 2 items 6 chapters, got %d items %d chapters", i, len(day.Items), day.TotalChapters)
		}
	}
}

func TestDistributeOversizedItemReportedAsRemaining(t *testing.T) {
	// 单条 5 章超过日上限 3 章，任何一天都放不下，不能死循环
	big := db.ReadingSchedule{Book: "诗篇", StartChapter: 1, EndChapter: 5}
	big.ID = 1
	small := db.ReadingSchedule{Book: "诗篇", StartChapter: 6, EndChapter: 6}
	small.ID = 2
	target := date("2024-01-05")

	days, remaining := Distribute([]db.ReadingSchedule{big, small}, date("2024-01-01"), DistributeOptions{
		TargetDate:        &target,
		MaxDailyChapters:  intPtr(3),
		WeekendMultiplier: 1,
	})

	if len(days) != 0 {
		t.Fatalf("expected no placements while head is stuck, got %d days", len(days))
	}
	if len(remaining) != 2 {
		t.Fatalf("expected both items remaining in order, got %d", len(remaining))
	}
	if remaining[0].ID != 1 || remaining[1].ID != 2 {
		t.Fatal("remaining order changed")
	}
}

func TestDistributePreservesInputOrder(t *testing.T) {
	items := makeSchedules(9, 2)

	days, remaining := Distribute(items, date("2024-01-01"), DistributeOptions{
		MaxDailyReadings:  intPtr(2),
		MaxDailyChapters:  intPtr(4),
		WeekendMultiplier: 1,
	})

	if len(remaining) != 0 {
		t.Fatalf("expected no remaining, got %d", len(remaining))
	}

	var flattened []uint
	for _, day := range days {
		for _, item := range day.Items {
			flattened = append(flattened, item.ID)
		}
	}
	if len(flattened) != len(items) {
		t.Fatalf("expected %d placed items, got %d", len(items), len(flattened))
	}
	for i, id := range flattened {
		if id != items[i].ID {
			t.Fatalf("order broken at %d: got %d want %d", i, id, items[i].ID)
		}
	}
}

func TestSuggestSettingsIsPure(t *testing.T) {
	today := date("2024-03-01")

	first := SuggestSettings(10, 25, today)
	second := SuggestSettings(10, 25, today)

	if first != second {
		t.Fatalf("expected identical suggestions, got %+v vs %+v", first, second)
	}
	if first.MaxDailyReadings != 3 {
		t.Fatalf("expected fixed 3 readings/day, got %d", first.MaxDailyReadings)
	}
	if first.EstimatedDays != 4 {
		t.Fatalf("expected ceil(10/3)=4 days, got %d", first.EstimatedDays)
	}
	if !first.EstimatedRejoinDate.Equal(date("2024-03-05")) {
		t.Fatalf("expected rejoin 2024-03-05, got %s", first.EstimatedRejoinDate)
	}
	if first.OverdueChapters != 25 {
		t.Fatalf("expected chapters passed through, got %d", first.OverdueChapters)
	}
}

func TestSuggestSettingsZeroOverdue(t *testing.T) {
	today := date("2024-03-01")
	suggestion := SuggestSettings(0, 0, today)

	if suggestion.EstimatedDays != 0 {
		t.Fatalf("expected 0 days, got %d", suggestion.EstimatedDays)
	}
	if !suggestion.EstimatedRejoinDate.Equal(today) {
		t.Fatalf("expected rejoin today, got %s", suggestion.EstimatedRejoinDate)
	}
}
