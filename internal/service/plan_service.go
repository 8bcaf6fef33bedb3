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
	// ErrPlanNotFound 在指定计划不存在时返回
	ErrPlanNotFound = errors.New("reading plan not found")
	// ErrPlanInvalidInput 在计划或日程数据不合法时返回
	ErrPlanInvalidInput = errors.New("invalid reading plan input")
)

// PlanService 负责读经计划与日程条目的增删改查
// 日程条目批量写入，DurationDays 随之刷新
type PlanService struct {
	db *gorm.DB
}

// NewPlanService 构造 PlanService
func NewPlanService(gdb *gorm.DB) *PlanService {
	return &PlanService{db: gdb}
}

// PlanInput 定义创建/更新计划时可配置字段
type PlanInput struct {
	Name        string
	Description string
	IsActive    *bool
}

// ScheduleInput 定义单条日程的输入对象
type ScheduleInput struct {
	Date         time.Time
	Book         string
	StartChapter int
	EndChapter   int
}

// List 返回计划集合，onlyActive 为 true 时过滤停用计划
func (s *PlanService) List(onlyActive bool) ([]db.ReadingPlan, error) {
	query := s.db.Model(&db.ReadingPlan{})
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}

	var plans []db.ReadingPlan
	if err := query.Order("created_at DESC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("list reading plans: %w", err)
	}
	return plans, nil
}

// Get 根据 ID 获取计划
func (s *PlanService) Get(id uint) (*db.ReadingPlan, error) {
	var plan db.ReadingPlan
	if err := s.db.First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("get reading plan: %w", err)
	}
	return &plan, nil
}

// Create 新建计划
func (s *PlanService) Create(input PlanInput) (*db.ReadingPlan, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrPlanInvalidInput)
	}

	plan := db.ReadingPlan{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		IsActive:    true,
	}
	if input.IsActive != nil {
		plan.IsActive = *input.IsActive
	}

	if err := s.db.Create(&plan).Error; err != nil {
		return nil, fmt.Errorf("create reading plan: %w", err)
	}
	return &plan, nil
}

// Update 更新计划基本信息
func (s *PlanService) Update(id uint, input PlanInput) (*db.ReadingPlan, error) {
	plan, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrPlanInvalidInput)
	}

	plan.Name = strings.TrimSpace(input.Name)
	plan.Description = strings.TrimSpace(input.Description)
	if input.IsActive != nil {
		plan.IsActive = *input.IsActive
	}

	if err := s.db.Save(plan).Error; err != nil {
		return nil, fmt.Errorf("update reading plan: %w", err)
	}
	return plan, nil
}

// AddSchedules 批量追加日程条目并刷新计划天数，整体在一个事务内完成
func (s *PlanService) AddSchedules(planID uint, inputs []ScheduleInput) ([]db.ReadingSchedule, error) {
	plan, err := s.Get(planID)
	if err != nil {
		return nil, err
	}

	for _, input := range inputs {
		if strings.TrimSpace(input.Book) == "" {
			return nil, fmt.Errorf("%w: book is required", ErrPlanInvalidInput)
		}
		if input.StartChapter <= 0 || input.EndChapter < input.StartChapter {
			return nil, fmt.Errorf("%w: invalid chapter range %d-%d", ErrPlanInvalidInput, input.StartChapter, input.EndChapter)
		}
	}

	var created []db.ReadingSchedule
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, input := range inputs {
			record := db.ReadingSchedule{
				PlanID:       plan.ID,
				Date:         normalizeToDate(input.Date),
				Book:         strings.TrimSpace(input.Book),
				StartChapter: input.StartChapter,
				EndChapter:   input.EndChapter,
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("create reading schedule: %w", err)
			}
			created = append(created, record)
		}

		var days int64
		if err := tx.Model(&db.ReadingSchedule{}).
			Where("plan_id = ?", plan.ID).
			Distinct("date").
			Count(&days).Error; err != nil {
			return fmt.Errorf("count plan days: %w", err)
		}

		return tx.Model(plan).Update("duration_days", days).Error
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// SchedulesBetween 返回计划在闭区间内的日程条目，按日期升序
func (s *PlanService) SchedulesBetween(planID uint, start, end time.Time) ([]db.ReadingSchedule, error) {
	var schedules []db.ReadingSchedule
	if err := s.db.Where("plan_id = ?", planID).
		Where("date BETWEEN ? AND ?", normalizeToDate(start), normalizeToDate(end)).
		Order("date ASC, id ASC").
		Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("list reading schedules: %w", err)
	}
	return schedules, nil
}
