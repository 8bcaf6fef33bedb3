package handler

import (
	"github.com/lectio/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db            *gorm.DB
	plans         *service.PlanService
	subscriptions *service.SubscriptionService
	progress      *service.ProgressService
	catchup       *service.CatchupService
	social        *service.SocialService
	achievements  *service.AchievementService
	notes         *service.NoteService
	system        *service.SystemSettingService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB) *API {
	return &API{
		db:            db,
		plans:         service.NewPlanService(db),
		subscriptions: service.NewSubscriptionService(db),
		progress:      service.NewProgressService(db),
		catchup:       service.NewCatchupService(db),
		social:        service.NewSocialService(db),
		achievements:  service.NewAchievementService(db),
		notes:         service.NewNoteService(db),
		system:        service.NewSystemSettingService(db),
	}
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}
