package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lectio/internal/service"
)

type notePayload struct {
	Content string `json:"content"`
}

// UpsertNote 写入当前用户对某条日程的读经笔记
func (a *API) UpsertNote(c *gin.Context) {
	scheduleID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的日程ID")
		return
	}

	var payload notePayload
	if !bindJSON(c, &payload, "请求数据格式错误") {
		return
	}

	note, err := a.notes.Upsert(currentUserID(c), scheduleID, payload.Content)
	if err != nil {
		handleNoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"note": gin.H{
			"id":          note.ID,
			"schedule_id": note.ScheduleID,
			"content":     note.Content,
		},
	})
}

// GetNote 返回笔记原文与渲染后的 HTML
func (a *API) GetNote(c *gin.Context) {
	scheduleID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的日程ID")
		return
	}

	rendered, err := a.notes.Get(currentUserID(c), scheduleID)
	if err != nil {
		handleNoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"note": gin.H{
			"id":          rendered.Note.ID,
			"schedule_id": rendered.Note.ScheduleID,
			"content":     rendered.Note.Content,
			"html":        rendered.HTML,
		},
	})
}

// DeleteNote 删除当前用户的笔记
func (a *API) DeleteNote(c *gin.Context) {
	scheduleID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的日程ID")
		return
	}

	if err := a.notes.Delete(currentUserID(c), scheduleID); err != nil {
		handleNoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "笔记已删除"})
}

func handleNoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoteNotFound):
		respondError(c, http.StatusNotFound, "笔记不存在")
	case errors.Is(err, service.ErrScheduleNotFound):
		respondError(c, http.StatusNotFound, "日程不存在")
	default:
		respondError(c, http.StatusInternalServerError, "服务器内部错误")
	}
}
