package service

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lectio/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrUserNotFound 在目标用户不存在时返回
	ErrUserNotFound = errors.New("user not found")
	// ErrSelfFollow 在用户尝试关注自己时返回
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrGroupNotFound 在小组不存在或邀请码无效时返回
	ErrGroupNotFound = errors.New("reading group not found")
	// ErrAlreadyGroupMember 在重复加入小组时返回
	ErrAlreadyGroupMember = errors.New("user already in group")
	// ErrGroupInvalidInput 在小组数据不合法时返回
	ErrGroupInvalidInput = errors.New("invalid reading group input")
)

// SocialService 负责关注关系、读经小组与排行榜
type SocialService struct {
	db *gorm.DB
}

// NewSocialService 构造 SocialService
func NewSocialService(gdb *gorm.DB) *SocialService {
	return &SocialService{db: gdb}
}

// LeaderboardEntry 表示排行榜中的一行
type LeaderboardEntry struct {
	UserID            uint
	Username          string
	DisplayName       string
	CompletedCount    int
	CompletedChapters int
}

// Follow 建立关注关系，重复关注幂等
func (s *SocialService) Follow(followerID, followeeID uint) error {
	if followerID == followeeID {
		return ErrSelfFollow
	}

	var followee db.User
	if err := s.db.First(&followee, followeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load followee: %w", err)
	}

	record := db.UserFollow{FollowerID: followerID, FolloweeID: followeeID}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "follower_id"}, {Name: "followee_id"}},
		DoNothing: true,
	}).Create(&record).Error; err != nil {
		return fmt.Errorf("create follow: %w", err)
	}
	return nil
}

// Unfollow 解除关注关系，未关注时为空操作
func (s *SocialService) Unfollow(followerID, followeeID uint) error {
	if err := s.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&db.UserFollow{}).Error; err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

// Following 返回用户关注的对象集合
func (s *SocialService) Following(userID uint) ([]db.User, error) {
	var users []db.User
	if err := s.db.Model(&db.User{}).
		Select("users.*").
		Joins("JOIN user_follows ON user_follows.followee_id = users.id").
		Where("user_follows.follower_id = ?", userID).
		Order("users.username ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return users, nil
}

// Followers 返回关注该用户的集合
func (s *SocialService) Followers(userID uint) ([]db.User, error) {
	var users []db.User
	if err := s.db.Model(&db.User{}).
		Select("users.*").
		Joins("JOIN user_follows ON user_follows.follower_id = users.id").
		Where("user_follows.followee_id = ?", userID).
		Order("users.username ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return users, nil
}

// CreateGroup 创建读经小组并生成邀请码，创建者自动入组
func (s *SocialService) CreateGroup(ownerID uint, name, description string) (*db.ReadingGroup, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrGroupInvalidInput)
	}

	group := db.ReadingGroup{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		InviteCode:  uuid.NewString(),
		OwnerID:     ownerID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return fmt.Errorf("create group: %w", err)
		}
		member := db.GroupMember{GroupID: group.ID, UserID: ownerID}
		if err := tx.Create(&member).Error; err != nil {
			return fmt.Errorf("add owner to group: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &group, nil
}

// JoinByInviteCode 通过邀请码加入小组
func (s *SocialService) JoinByInviteCode(userID uint, inviteCode string) (*db.ReadingGroup, error) {
	code := strings.TrimSpace(inviteCode)
	if code == "" {
		return nil, ErrGroupNotFound
	}

	var group db.ReadingGroup
	if err := s.db.Where("invite_code = ?", code).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("find group by invite code: %w", err)
	}

	member := db.GroupMember{GroupID: group.ID, UserID: userID}
	insert := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&member)
	if insert.Error != nil {
		return nil, fmt.Errorf("join group: %w", insert.Error)
	}
	if insert.RowsAffected == 0 {
		return nil, ErrAlreadyGroupMember
	}

	return &group, nil
}

// LeaveGroup 退出小组，未加入时为空操作
func (s *SocialService) LeaveGroup(userID, groupID uint) error {
	if err := s.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&db.GroupMember{}).Error; err != nil {
		return fmt.Errorf("leave group: %w", err)
	}
	return nil
}

// GroupMembers 返回小组成员集合
func (s *SocialService) GroupMembers(groupID uint) ([]db.User, error) {
	var group db.ReadingGroup
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("load group: %w", err)
	}

	var users []db.User
	if err := s.db.Model(&db.User{}).
		Select("users.*").
		Joins("JOIN group_members ON group_members.user_id = users.id").
		Where("group_members.group_id = ?", groupID).
		Order("users.username ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	return users, nil
}

// GroupLeaderboard 按闭区间内完成的章数对小组成员降序排行
func (s *SocialService) GroupLeaderboard(groupID uint, start, end time.Time) ([]LeaderboardEntry, error) {
	members, err := s.GroupMembers(groupID)
	if err != nil {
		return nil, err
	}

	rangeStart := normalizeToDate(start)
	rangeEnd := normalizeToDate(end)

	entries := make([]LeaderboardEntry, 0, len(members))
	for _, member := range members {
		entry := LeaderboardEntry{
			UserID:      member.ID,
			Username:    member.Username,
			DisplayName: member.Name(),
		}

		var schedules []db.ReadingSchedule
		if err := s.db.Model(&db.ReadingSchedule{}).
			Select("reading_schedules.*").
			Joins("JOIN reading_progresses ON reading_progresses.schedule_id = reading_schedules.id").
			Joins("JOIN plan_subscriptions ON plan_subscriptions.id = reading_progresses.subscription_id").
			Where("plan_subscriptions.user_id = ? AND reading_progresses.is_completed = ?", member.ID, true).
			Where("reading_schedules.date BETWEEN ? AND ?", rangeStart, rangeEnd).
			Find(&schedules).Error; err != nil {
			return nil, fmt.Errorf("list member completions: %w", err)
		}

		entry.CompletedCount = len(schedules)
		for _, item := range schedules {
			entry.CompletedChapters += item.ChapterCount()
		}
		entries = append(entries, entry)
	}

	// 章数为先，数量与用户名兜底，保证排序稳定
	slices.SortFunc(entries, func(a, b LeaderboardEntry) int {
		if diff := cmp.Compare(b.CompletedChapters, a.CompletedChapters); diff != 0 {
			return diff
		}
		if diff := cmp.Compare(b.CompletedCount, a.CompletedCount); diff != 0 {
			return diff
		}
		return cmp.Compare(a.Username, b.Username)
	})

	return entries, nil
}
