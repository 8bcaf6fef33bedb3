package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lectio/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrCatchupSessionNotFound 在会话不存在或不属于当前用户时返回
	ErrCatchupSessionNotFound = errors.New("catchup session not found")
	// ErrCatchupScheduleNotFound 在补读日程不存在或不属于当前用户时返回
	ErrCatchupScheduleNotFound = errors.New("catchup schedule not found")
	// ErrCatchupSessionNotActive 在对终态会话执行修改操作时返回
	ErrCatchupSessionNotActive = errors.New("catchup session is not active")
	// ErrActiveCatchupSessionExists 在订阅已有进行中会话时返回
	ErrActiveCatchupSessionExists = errors.New("subscription already has an active catchup session")
	// ErrNoOverdueSchedules 在所选范围内没有逾期任务时返回
	ErrNoOverdueSchedules = errors.New("no overdue schedules in range")
	// ErrCatchupInvalidInput 在会话配置不合法时返回
	ErrCatchupInvalidInput = errors.New("invalid catchup input")
)

// CatchupService 负责逾期检测与补读会话的全生命周期
// 所有读取"今天"的操作都显式接收 now 参数，便于确定性测试
type CatchupService struct {
	db *gorm.DB
}

// NewCatchupService 构造 CatchupService
func NewCatchupService(gdb *gorm.DB) *CatchupService {
	return &CatchupService{db: gdb}
}

// CatchupSettings 描述会话的容量约束，创建与更新共用
type CatchupSettings struct {
	TargetRejoinDate  *time.Time
	MaxDailyReadings  *int
	MaxDailyChapters  *int
	WeekendMultiplier float64
}

// CatchupCreateInput 定义创建会话的输入对象
type CatchupCreateInput struct {
	Name       string
	RangeStart time.Time
	RangeEnd   time.Time
	Strategy   string
	Settings   CatchupSettings
}

// CatchupPreviewInput 定义试算输入，范围缺省时回退到订阅起始日至昨天
type CatchupPreviewInput struct {
	RangeStart *time.Time
	RangeEnd   *time.Time
	Settings   CatchupSettings
}

// CatchupUpdateInput 定义对进行中会话的部分更新
// 指针字段为 nil 表示未传入；Recalculate 为 true 时对未完成条目重新分配
type CatchupUpdateInput struct {
	Name              *string
	Strategy          *string
	TargetRejoinDate  *time.Time
	MaxDailyReadings  *int
	MaxDailyChapters  *int
	WeekendMultiplier *float64
	Recalculate       bool
}

// CatchupSummary 汇总一次分配结果的关键数字
type CatchupSummary struct {
	TotalSchedules       int
	TotalChapters        int
	DailyAverageReadings float64
	DailyAverageChapters float64
	EstimatedDays        int
	RejoinDate           *time.Time
}

// CatchupPreview 为试算接口的返回结构
type CatchupPreview struct {
	Valid    bool
	Summary  CatchupSummary
	Days     []DistributionDay
	Warnings []string
}

// CatchupStatus 汇总订阅当前的逾期情况
type CatchupStatus struct {
	HasOverdue       bool
	OverdueSchedules []db.ReadingSchedule
	OverdueChapters  int
	RangeStart       *time.Time
	RangeEnd         *time.Time
	ActiveSession    *db.CatchupSession
	Suggested        SuggestedSettings
}

// CatchupCelebration 为完成会话时的祝贺摘要
type CatchupCelebration struct {
	TotalCount     int
	CompletedCount int
	TotalChapters  int
	ElapsedDays    int
}

// FindOverdue 返回订阅在默认范围 [start_date, today) 内的逾期日程。
// 今天被排除在外：当天的任务永远不算逾期。
func (s *CatchupService) FindOverdue(subscriptionID uint, now time.Time) ([]db.ReadingSchedule, error) {
	sub, err := s.loadSubscription(s.db, subscriptionID)
	if err != nil {
		return nil, err
	}
	return s.findOverdue(s.db, sub, normalizeToDate(sub.StartDate), normalizeToDate(now).AddDate(0, 0, -1))
}

// FindOverdueInRange 返回订阅在闭区间 [rangeStart, rangeEnd] 内的逾期日程
func (s *CatchupService) FindOverdueInRange(subscriptionID uint, rangeStart, rangeEnd time.Time) ([]db.ReadingSchedule, error) {
	sub, err := s.loadSubscription(s.db, subscriptionID)
	if err != nil {
		return nil, err
	}
	return s.findOverdue(s.db, sub, normalizeToDate(rangeStart), normalizeToDate(rangeEnd))
}

// findOverdue 为纯查询：属于订阅计划、落在闭区间内、且没有已完成进度记录的日程，
// 按日期升序（同日按主键）返回。
func (s *CatchupService) findOverdue(tx *gorm.DB, sub *db.PlanSubscription, rangeStart, rangeEnd time.Time) ([]db.ReadingSchedule, error) {
	if rangeEnd.Before(rangeStart) {
		return nil, nil
	}

	completed := tx.Model(&db.ReadingProgress{}).
		Select("schedule_id").
		Where("subscription_id = ? AND is_completed = ?", sub.ID, true)

	var schedules []db.ReadingSchedule
	if err := tx.Where("plan_id = ?", sub.PlanID).
		Where("date BETWEEN ? AND ?", rangeStart, rangeEnd).
		Where("id NOT IN (?)", completed).
		Order("date ASC, id ASC").
		Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("find overdue schedules: %w", err)
	}

	return schedules, nil
}

// Status 汇总订阅的逾期情况、进行中的会话与推荐设置
func (s *CatchupService) Status(subscriptionID uint, now time.Time) (*CatchupStatus, error) {
	overdue, err := s.FindOverdue(subscriptionID, now)
	if err != nil {
		return nil, err
	}

	status := &CatchupStatus{
		HasOverdue:       len(overdue) > 0,
		OverdueSchedules: overdue,
	}

	for _, item := range overdue {
		status.OverdueChapters += item.ChapterCount()
	}

	if len(overdue) > 0 {
		first := overdue[0].Date
		last := overdue[len(overdue)-1].Date
		status.RangeStart = &first
		status.RangeEnd = &last
	}

	active, err := s.ActiveSession(subscriptionID)
	if err != nil {
		return nil, err
	}
	status.ActiveSession = active

	status.Suggested = SuggestSettings(len(overdue), status.OverdueChapters, now)

	return status, nil
}

// ActiveSession 返回订阅进行中的会话，不存在时返回 nil
func (s *CatchupService) ActiveSession(subscriptionID uint) (*db.CatchupSession, error) {
	var session db.CatchupSession
	err := s.db.Where("subscription_id = ? AND status = ?", subscriptionID, db.CatchupStatusActive).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active catchup session: %w", err)
	}
	return &session, nil
}

// Preview 对指定范围与设置做一次干跑分配，不落库
func (s *CatchupService) Preview(subscriptionID uint, input CatchupPreviewInput, now time.Time) (*CatchupPreview, error) {
	if err := validateSettings(input.Settings); err != nil {
		return nil, err
	}

	sub, err := s.loadSubscription(s.db, subscriptionID)
	if err != nil {
		return nil, err
	}

	today := normalizeToDate(now)

	rangeStart := normalizeToDate(sub.StartDate)
	if input.RangeStart != nil {
		rangeStart = normalizeToDate(*input.RangeStart)
	}
	rangeEnd := today.AddDate(0, 0, -1)
	if input.RangeEnd != nil {
		rangeEnd = normalizeToDate(*input.RangeEnd)
	}

	overdue, err := s.findOverdue(s.db, sub, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}

	preview := &CatchupPreview{}
	if len(overdue) == 0 {
		preview.Warnings = append(preview.Warnings, "所选范围内没有逾期的读经任务")
		return preview, nil
	}

	days, remaining := Distribute(overdue, today, distributeOptions(input.Settings))
	preview.Valid = len(remaining) == 0
	preview.Days = days
	preview.Summary = summarizeDays(days)

	if len(remaining) > 0 {
		preview.Warnings = append(preview.Warnings,
			fmt.Sprintf("按当前设置有 %d 条任务无法在目标回归日期前排入，请放宽限制或推迟回归日期", len(remaining)))
	}

	return preview, nil
}

// CreateSession 创建补读会话并落库分配结果。
// 整个过程在单个事务内完成：会话、补读日程与既有进度导入要么全部写入，要么全部回滚。
func (s *CatchupService) CreateSession(subscriptionID uint, input CatchupCreateInput, now time.Time) (*db.CatchupSession, []db.CatchupSchedule, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, nil, fmt.Errorf("%w: name is required", ErrCatchupInvalidInput)
	}
	if err := validateSettings(input.Settings); err != nil {
		return nil, nil, err
	}

	rangeStart := normalizeToDate(input.RangeStart)
	rangeEnd := normalizeToDate(input.RangeEnd)
	if rangeEnd.Before(rangeStart) {
		return nil, nil, fmt.Errorf("%w: range end before range start", ErrCatchupInvalidInput)
	}

	today := normalizeToDate(now)

	var session db.CatchupSession
	err := s.db.Transaction(func(tx *gorm.DB) error {
		sub, err := s.loadSubscription(tx, subscriptionID)
		if err != nil {
			return err
		}

		// 存在性检查与插入同处一个事务；存储层的部分唯一索引兜底并发场景
		var activeCount int64
		if err := tx.Model(&db.CatchupSession{}).
			Where("subscription_id = ? AND status = ?", sub.ID, db.CatchupStatusActive).
			Count(&activeCount).Error; err != nil {
			return fmt.Errorf("count active sessions: %w", err)
		}
		if activeCount > 0 {
			return ErrActiveCatchupSessionExists
		}

		overdue, err := s.findOverdue(tx, sub, rangeStart, rangeEnd)
		if err != nil {
			return err
		}
		if len(overdue) == 0 {
			return ErrNoOverdueSchedules
		}

		session = db.CatchupSession{
			SubscriptionID:    sub.ID,
			Name:              strings.TrimSpace(input.Name),
			RangeStart:        rangeStart,
			RangeEnd:          rangeEnd,
			Strategy:          strings.TrimSpace(input.Strategy),
			TargetRejoinDate:  input.Settings.TargetRejoinDate,
			MaxDailyReadings:  input.Settings.MaxDailyReadings,
			MaxDailyChapters:  input.Settings.MaxDailyChapters,
			WeekendMultiplier: input.Settings.WeekendMultiplier,
			Status:            db.CatchupStatusActive,
		}
		if err := tx.Create(&session).Error; err != nil {
			return fmt.Errorf("create catchup session: %w", err)
		}

		days, _ := Distribute(overdue, today, distributeOptions(input.Settings))
		if err := persistDistribution(tx, session.ID, days); err != nil {
			return err
		}

		return importCompletedProgress(tx, &session, sub, now)
	})
	if err != nil {
		return nil, nil, err
	}

	schedules, err := s.ListSchedules(session.ID)
	if err != nil {
		return nil, nil, err
	}

	return &session, schedules, nil
}

// importCompletedProgress 将范围内已完成的任务以完成态导入会话，
// 避免会话中途创建时丢失或重复用户的既有进度。
func importCompletedProgress(tx *gorm.DB, session *db.CatchupSession, sub *db.PlanSubscription, now time.Time) error {
	var progresses []db.ReadingProgress
	if err := tx.Preload("Schedule").
		Select("reading_progresses.*").
		Joins("JOIN reading_schedules ON reading_schedules.id = reading_progresses.schedule_id").
		Where("reading_progresses.subscription_id = ? AND reading_progresses.is_completed = ?", sub.ID, true).
		Where("reading_schedules.date BETWEEN ? AND ?", session.RangeStart, session.RangeEnd).
		Find(&progresses).Error; err != nil {
		return fmt.Errorf("load completed progress: %w", err)
	}

	for _, progress := range progresses {
		completedAt := now
		if progress.CompletedAt != nil {
			completedAt = *progress.CompletedAt
		}
		record := db.CatchupSchedule{
			SessionID:          session.ID,
			OriginalScheduleID: progress.ScheduleID,
			ScheduledDate:      normalizeToDate(progress.Schedule.Date),
			IsCompleted:        true,
			CompletedAt:        &completedAt,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("import completed progress: %w", err)
		}
	}

	return nil
}

func persistDistribution(tx *gorm.DB, sessionID uint, days []DistributionDay) error {
	for _, day := range days {
		for _, item := range day.Items {
			record := db.CatchupSchedule{
				SessionID:          sessionID,
				OriginalScheduleID: item.ID,
				ScheduledDate:      day.Date,
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("create catchup schedule: %w", err)
			}
		}
	}
	return nil
}

// UpdateSession 对进行中的会话做部分更新，可选触发重新分配。
// 重新分配只丢弃未完成的条目，已完成的记录永不改动。
func (s *CatchupService) UpdateSession(userID, sessionID uint, input CatchupUpdateInput, now time.Time) (*db.CatchupSession, error) {
	if input.WeekendMultiplier != nil && *input.WeekendMultiplier < 0 {
		return nil, fmt.Errorf("%w: weekend multiplier must be >= 0", ErrCatchupInvalidInput)
	}
	if input.MaxDailyReadings != nil && *input.MaxDailyReadings < 0 {
		return nil, fmt.Errorf("%w: max daily readings must be >= 0", ErrCatchupInvalidInput)
	}
	if input.MaxDailyChapters != nil && *input.MaxDailyChapters < 0 {
		return nil, fmt.Errorf("%w: max daily chapters must be >= 0", ErrCatchupInvalidInput)
	}

	var session *db.CatchupSession
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		session, err = s.loadSessionForUser(tx, userID, sessionID)
		if err != nil {
			return err
		}
		if !session.IsActive() {
			return ErrCatchupSessionNotActive
		}

		if input.Name != nil {
			if strings.TrimSpace(*input.Name) == "" {
				return fmt.Errorf("%w: name is required", ErrCatchupInvalidInput)
			}
			session.Name = strings.TrimSpace(*input.Name)
		}
		if input.Strategy != nil {
			session.Strategy = strings.TrimSpace(*input.Strategy)
		}
		if input.TargetRejoinDate != nil {
			target := normalizeToDate(*input.TargetRejoinDate)
			session.TargetRejoinDate = &target
		}
		if input.MaxDailyReadings != nil {
			session.MaxDailyReadings = input.MaxDailyReadings
		}
		if input.MaxDailyChapters != nil {
			session.MaxDailyChapters = input.MaxDailyChapters
		}
		if input.WeekendMultiplier != nil {
			session.WeekendMultiplier = *input.WeekendMultiplier
		}

		if err := tx.Save(session).Error; err != nil {
			return fmt.Errorf("update catchup session: %w", err)
		}

		if input.Recalculate {
			return s.recalculate(tx, session, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// recalculate 丢弃未完成的补读日程并按当前设置重新分配。
// 已完成的条目保留原样，其对应的原始任务不再参与分配。
func (s *CatchupService) recalculate(tx *gorm.DB, session *db.CatchupSession, now time.Time) error {
	if err := tx.Unscoped().
		Where("session_id = ? AND is_completed = ?", session.ID, false).
		Delete(&db.CatchupSchedule{}).Error; err != nil {
		return fmt.Errorf("discard incomplete schedules: %w", err)
	}

	sub, err := s.loadSubscription(tx, session.SubscriptionID)
	if err != nil {
		return err
	}

	overdue, err := s.findOverdue(tx, sub, session.RangeStart, session.RangeEnd)
	if err != nil {
		return err
	}

	var keptIDs []uint
	if err := tx.Model(&db.CatchupSchedule{}).
		Where("session_id = ?", session.ID).
		Pluck("original_schedule_id", &keptIDs).Error; err != nil {
		return fmt.Errorf("list kept schedules: %w", err)
	}

	kept := make(map[uint]bool, len(keptIDs))
	for _, id := range keptIDs {
		kept[id] = true
	}

	pending := make([]db.ReadingSchedule, 0, len(overdue))
	for _, item := range overdue {
		if !kept[item.ID] {
			pending = append(pending, item)
		}
	}

	settings := CatchupSettings{
		TargetRejoinDate:  session.TargetRejoinDate,
		MaxDailyReadings:  session.MaxDailyReadings,
		MaxDailyChapters:  session.MaxDailyChapters,
		WeekendMultiplier: session.WeekendMultiplier,
	}

	days, _ := Distribute(pending, normalizeToDate(now), distributeOptions(settings))
	return persistDistribution(tx, session.ID, days)
}

// ToggleSchedule 翻转单条补读日程的完成状态，同时设置或清空完成时间。
// 不回写外部进度表。
func (s *CatchupService) ToggleSchedule(userID, scheduleID uint, now time.Time) (*db.CatchupSchedule, error) {
	var record db.CatchupSchedule
	err := s.db.
		Select("catchup_schedules.*").
		Joins("JOIN catchup_sessions ON catchup_sessions.id = catchup_schedules.session_id").
		Joins("JOIN plan_subscriptions ON plan_subscriptions.id = catchup_sessions.subscription_id").
		Where("catchup_schedules.id = ? AND plan_subscriptions.user_id = ?", scheduleID, userID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCatchupScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find catchup schedule: %w", err)
	}

	var session db.CatchupSession
	if err := s.db.First(&session, record.SessionID).Error; err != nil {
		return nil, fmt.Errorf("load catchup session: %w", err)
	}
	if !session.IsActive() {
		return nil, ErrCatchupSessionNotActive
	}

	record.IsCompleted = !record.IsCompleted
	if record.IsCompleted {
		record.CompletedAt = &now
	} else {
		record.CompletedAt = nil
	}

	if err := s.db.Save(&record).Error; err != nil {
		return nil, fmt.Errorf("toggle catchup schedule: %w", err)
	}

	return &record, nil
}

// CompleteSession 将会话置为完成态。
// 允许在仍有未完成条目时结束，只返回提示不做拦截。
func (s *CatchupService) CompleteSession(userID, sessionID uint, now time.Time) (*db.CatchupSession, *CatchupCelebration, []string, error) {
	session, err := s.loadSessionForUser(s.db, userID, sessionID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !session.IsActive() {
		return nil, nil, nil, ErrCatchupSessionNotActive
	}

	session.Status = db.CatchupStatusCompleted
	session.CompletedAt = &now
	if err := s.db.Save(session).Error; err != nil {
		return nil, nil, nil, fmt.Errorf("complete catchup session: %w", err)
	}

	celebration, err := s.Celebration(session)
	if err != nil {
		return nil, nil, nil, err
	}

	var warnings []string
	if remaining := celebration.TotalCount - celebration.CompletedCount; remaining > 0 {
		warnings = append(warnings, fmt.Sprintf("仍有 %d 条补读任务未完成", remaining))
	}

	return session, celebration, warnings, nil
}

// AbandonSession 将会话置为放弃态，不做任何后续处理
func (s *CatchupService) AbandonSession(userID, sessionID uint) (*db.CatchupSession, error) {
	session, err := s.loadSessionForUser(s.db, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, ErrCatchupSessionNotActive
	}

	session.Status = db.CatchupStatusAbandoned
	if err := s.db.Save(session).Error; err != nil {
		return nil, fmt.Errorf("abandon catchup session: %w", err)
	}

	return session, nil
}

// Celebration 计算完成摘要：条目总数、完成数、覆盖章数与历时天数（含首尾两天）
func (s *CatchupService) Celebration(session *db.CatchupSession) (*CatchupCelebration, error) {
	schedules, err := s.ListSchedules(session.ID)
	if err != nil {
		return nil, err
	}

	celebration := &CatchupCelebration{TotalCount: len(schedules)}
	for _, item := range schedules {
		if item.IsCompleted {
			celebration.CompletedCount++
		}
		celebration.TotalChapters += item.OriginalSchedule.ChapterCount()
	}

	// 按日历日推进计数，避免夏令时切换把某天压缩成 23 小时后少算一天
	if session.CompletedAt != nil && !session.CreatedAt.IsZero() {
		end := normalizeToDate(*session.CompletedAt)
		days := 1
		for d := normalizeToDate(session.CreatedAt); d.Before(end); d = d.AddDate(0, 0, 1) {
			days++
		}
		celebration.ElapsedDays = days
	}

	return celebration, nil
}

// GetSession 返回用户名下的会话
func (s *CatchupService) GetSession(userID, sessionID uint) (*db.CatchupSession, error) {
	return s.loadSessionForUser(s.db, userID, sessionID)
}

// ListSchedules 返回会话内全部补读日程，按新日期与主键排序
func (s *CatchupService) ListSchedules(sessionID uint) ([]db.CatchupSchedule, error) {
	var schedules []db.CatchupSchedule
	if err := s.db.Preload("OriginalSchedule").
		Where("session_id = ?", sessionID).
		Order("scheduled_date ASC, id ASC").
		Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("list catchup schedules: %w", err)
	}
	return schedules, nil
}

// Progress 返回会话的完成进度：总数、完成数与剩余数恒满足 completed+remaining=total
func (s *CatchupService) Progress(sessionID uint) (total, completed int, err error) {
	var totalCount, completedCount int64
	if err := s.db.Model(&db.CatchupSchedule{}).
		Where("session_id = ?", sessionID).
		Count(&totalCount).Error; err != nil {
		return 0, 0, fmt.Errorf("count catchup schedules: %w", err)
	}
	if err := s.db.Model(&db.CatchupSchedule{}).
		Where("session_id = ? AND is_completed = ?", sessionID, true).
		Count(&completedCount).Error; err != nil {
		return 0, 0, fmt.Errorf("count completed schedules: %w", err)
	}
	return int(totalCount), int(completedCount), nil
}

func (s *CatchupService) loadSubscription(tx *gorm.DB, subscriptionID uint) (*db.PlanSubscription, error) {
	var sub db.PlanSubscription
	if err := tx.First(&sub, subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("load subscription: %w", err)
	}
	return &sub, nil
}

func (s *CatchupService) loadSessionForUser(tx *gorm.DB, userID, sessionID uint) (*db.CatchupSession, error) {
	var session db.CatchupSession
	err := tx.
		Select("catchup_sessions.*").
		Joins("JOIN plan_subscriptions ON plan_subscriptions.id = catchup_sessions.subscription_id").
		Where("catchup_sessions.id = ? AND plan_subscriptions.user_id = ?", sessionID, userID).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCatchupSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load catchup session: %w", err)
	}
	return &session, nil
}

func distributeOptions(settings CatchupSettings) DistributeOptions {
	return DistributeOptions{
		TargetDate:        settings.TargetRejoinDate,
		MaxDailyReadings:  settings.MaxDailyReadings,
		MaxDailyChapters:  settings.MaxDailyChapters,
		WeekendMultiplier: settings.WeekendMultiplier,
	}
}

func validateSettings(settings CatchupSettings) error {
	if settings.WeekendMultiplier < 0 {
		return fmt.Errorf("%w: weekend multiplier must be >= 0", ErrCatchupInvalidInput)
	}
	if settings.MaxDailyReadings != nil && *settings.MaxDailyReadings < 0 {
		return fmt.Errorf("%w: max daily readings must be >= 0", ErrCatchupInvalidInput)
	}
	if settings.MaxDailyChapters != nil && *settings.MaxDailyChapters < 0 {
		return fmt.Errorf("%w: max daily chapters must be >= 0", ErrCatchupInvalidInput)
	}
	return nil
}

func summarizeDays(days []DistributionDay) CatchupSummary {
	summary := CatchupSummary{EstimatedDays: len(days)}
	for _, day := range days {
		summary.TotalSchedules += len(day.Items)
		summary.TotalChapters += day.TotalChapters
	}
	if len(days) > 0 {
		summary.DailyAverageReadings = float64(summary.TotalSchedules) / float64(len(days))
		summary.DailyAverageChapters = float64(summary.TotalChapters) / float64(len(days))
		rejoin := days[len(days)-1].Date.AddDate(0, 0, 1)
		summary.RejoinDate = &rejoin
	}
	return summary
}
