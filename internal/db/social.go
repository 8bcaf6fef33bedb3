package db

import "gorm.io/gorm"

// UserFollow 记录关注关系
// Follower + Followee 采用唯一索引，保证幂等
type UserFollow struct {
	gorm.Model
	FollowerID uint `gorm:"index;index:idx_follow_unique,unique"`
	Follower   User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	FolloweeID uint `gorm:"index;index:idx_follow_unique,unique"`
	Followee   User `gorm:"foreignKey:FolloweeID;constraint:OnDelete:CASCADE"`
}

// TableName 重写确保唯一索引作用到 follower_id + followee_id
func (UserFollow) TableName() string {
	return "user_follows"
}

// ReadingGroup 定义读经小组
// InviteCode 为 uuid 生成的加入口令
type ReadingGroup struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Description string
	InviteCode  string `gorm:"uniqueIndex"`
	OwnerID     uint   `gorm:"index"`
	Owner       User   `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

// GroupMember 记录小组成员
// Group + User 采用唯一索引
type GroupMember struct {
	gorm.Model
	GroupID uint         `gorm:"index;index:idx_group_member_unique,unique"`
	Group   ReadingGroup `gorm:"constraint:OnDelete:CASCADE"`
	UserID  uint         `gorm:"index;index:idx_group_member_unique,unique"`
	User    User         `gorm:"constraint:OnDelete:CASCADE"`
}

// TableName 重写确保唯一索引作用到 group_id + user_id
func (GroupMember) TableName() string {
	return "group_members"
}
