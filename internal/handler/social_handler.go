package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lectio/internal/db"
	"github.com/lectio/internal/service"
)

type groupPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type joinGroupPayload struct {
	InviteCode string `json:"invite_code"`
}

// FollowUser 关注指定用户
func (a *API) FollowUser(c *gin.Context) {
	targetID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	if err := a.social.Follow(currentUserID(c), targetID); err != nil {
		handleSocialError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "关注成功"})
}

// UnfollowUser 取消关注
func (a *API) UnfollowUser(c *gin.Context) {
	targetID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	if err := a.social.Unfollow(currentUserID(c), targetID); err != nil {
		handleSocialError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已取消关注"})
}

// ListFollowing 返回当前用户关注的对象
func (a *API) ListFollowing(c *gin.Context) {
	users, err := a.social.Following(currentUserID(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取关注列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": usersToPayload(users)})
}

// ListFollowers 返回关注当前用户的集合
func (a *API) ListFollowers(c *gin.Context) {
	users, err := a.social.Followers(currentUserID(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取粉丝列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": usersToPayload(users)})
}

// CreateGroup 创建读经小组
func (a *API) CreateGroup(c *gin.Context) {
	var payload groupPayload
	if !bindJSON(c, &payload, "请求数据格式错误") {
		return
	}

	group, err := a.social.CreateGroup(currentUserID(c), payload.Name, payload.Description)
	if err != nil {
		handleSocialError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"group": groupToPayload(*group)})
}

// JoinGroup 通过邀请码加入小组
func (a *API) JoinGroup(c *gin.Context) {
	var payload joinGroupPayload
	if !bindJSON(c, &payload, "请求数据格式错误") {
		return
	}

	group, err := a.social.JoinByInviteCode(currentUserID(c), payload.InviteCode)
	if err != nil {
		handleSocialError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"group": groupToPayload(*group)})
}

// LeaveGroup 退出小组
func (a *API) LeaveGroup(c *gin.Context) {
	groupID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的小组ID")
		return
	}

	if err := a.social.LeaveGroup(currentUserID(c), groupID); err != nil {
		handleSocialError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已退出小组"})
}

// ListGroupMembers 返回小组成员
func (a *API) ListGroupMembers(c *gin.Context) {
	groupID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的小组ID")
		return
	}

	users, err := a.social.GroupMembers(groupID)
	if err != nil {
		handleSocialError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": usersToPayload(users)})
}

// GetGroupLeaderboard 返回小组在区间内的读经排行榜，缺省为过去 30 天
func (a *API) GetGroupLeaderboard(c *gin.Context) {
	groupID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的小组ID")
		return
	}

	now := time.Now()
	start, err := parseDate(c.Query("start"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的起始日期")
		return
	}
	end, err := parseDate(c.Query("end"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的结束日期")
		return
	}

	rangeStart := now.AddDate(0, 0, -30)
	rangeEnd := now
	if start != nil {
		rangeStart = *start
	}
	if end != nil {
		rangeEnd = *end
	}

	entries, err := a.social.GroupLeaderboard(groupID, rangeStart, rangeEnd)
	if err != nil {
		handleSocialError(c, err)
		return
	}

	payload := make([]gin.H, 0, len(entries))
	for rank, entry := range entries {
		payload = append(payload, gin.H{
			"rank":               rank + 1,
			"user_id":            entry.UserID,
			"username":           entry.Username,
			"display_name":       entry.DisplayName,
			"completed_count":    entry.CompletedCount,
			"completed_chapters": entry.CompletedChapters,
		})
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": payload})
}

func usersToPayload(users []db.User) []gin.H {
	items := make([]gin.H, 0, len(users))
	for _, user := range users {
		items = append(items, userToPayload(user))
	}
	return items
}

func groupToPayload(group db.ReadingGroup) gin.H {
	return gin.H{
		"id":          group.ID,
		"name":        group.Name,
		"description": group.Description,
		"invite_code": group.InviteCode,
		"owner_id":    group.OwnerID,
	}
}

func handleSocialError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "用户不存在")
	case errors.Is(err, service.ErrGroupNotFound):
		respondError(c, http.StatusNotFound, "小组不存在或邀请码无效")
	case errors.Is(err, service.ErrSelfFollow):
		respondError(c, http.StatusBadRequest, "不能关注自己")
	case errors.Is(err, service.ErrAlreadyGroupMember):
		respondError(c, http.StatusBadRequest, "已是小组成员")
	case errors.Is(err, service.ErrGroupInvalidInput):
		respondError(c, http.StatusBadRequest, "小组数据不合法")
	default:
		respondError(c, http.StatusInternalServerError, "服务器内部错误")
	}
}
