package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Init 初始化数据库连接并执行自动迁移。
// databasePath 为空时将回退到默认值 lectio.db。
func Init(databasePath string) error {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = "lectio.db"
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return err
	}

	// 自动迁移模式，为核心模型创建表
	if err = DB.AutoMigrate(
		&User{},
		&ReadingPlan{},
		&ReadingSchedule{},
		&PlanSubscription{},
		&ReadingProgress{},
		&CatchupSession{},
		&CatchupSchedule{},
		&UserFollow{},
		&ReadingGroup{},
		&GroupMember{},
		&Achievement{},
		&UserAchievement{},
		&ReadingNote{},
		&SystemSetting{},
	); err != nil {
		return err
	}

	// 同一订阅同一时刻最多只允许一个 active 补读会话。
	// GORM 标签无法表达部分唯一索引，这里直接建索引兜底应用层的存在性检查。
	if err := DB.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_catchup_sessions_one_active " +
			"ON catchup_sessions(subscription_id) " +
			"WHERE status = 'active' AND deleted_at IS NULL",
	).Error; err != nil {
		return err
	}

	return SeedAchievements(DB)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
