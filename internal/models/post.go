package models

import (
	"time"
)

// SavedPost 用户保存的 LinkedIn 帖子（生成结果中最佳版本）
type SavedPost struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	Content       string     `gorm:"type:text;not null" json:"content"`
	Hashtags      StringList `gorm:"type:jsonb" json:"hashtags"`
	FirstComment  string     `gorm:"type:text" json:"firstComment"`
	UserID        string     `gorm:"size:36;not null;index:idx_posts_owner_created,priority:1" json:"userId"`
	CreatedAt     time.Time  `gorm:"index:idx_posts_owner_created,priority:2" json:"createdAt"`
	ViralScore    *float64   `gorm:"column:viral_score" json:"viral_score"`
	VisualContent *string    `gorm:"column:visual_content;type:text" json:"visual_content"`
}

func (SavedPost) TableName() string {
	return "linkedin_posts"
}

// GetID 实现分页游标所需的接口
func (p SavedPost) GetID() string { return p.ID }

// GetCreatedAt 实现分页游标所需的接口
func (p SavedPost) GetCreatedAt() time.Time { return p.CreatedAt }

// PostInput 保存帖子请求
type PostInput struct {
	Content       string   `json:"content" binding:"required"`
	Hashtags      []string `json:"hashtags" binding:"max=5"`
	FirstComment  string   `json:"firstComment"`
	ViralScore    *float64 `json:"viral_score" binding:"omitempty,min=1,max=10"`
	VisualContent *string  `json:"visual_content"`
}

// Record 转换为待保存记录，ID 与时间由仓储层填充
func (in PostInput) Record() *SavedPost {
	return &SavedPost{
		Content:       in.Content,
		Hashtags:      StringList(in.Hashtags),
		FirstComment:  in.FirstComment,
		ViralScore:    in.ViralScore,
		VisualContent: in.VisualContent,
	}
}

// PostPatch 部分更新，nil 字段保持不变
type PostPatch struct {
	Content       *string   `json:"content" binding:"omitempty,min=1"`
	Hashtags      *[]string `json:"hashtags" binding:"omitempty,max=5"`
	FirstComment  *string   `json:"firstComment"`
	ViralScore    *float64  `json:"viral_score" binding:"omitempty,min=1,max=10"`
	VisualContent *string   `json:"visual_content"`
}

// Columns 返回需要更新的列
func (p PostPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Content != nil {
		cols["content"] = *p.Content
	}
	if p.Hashtags != nil {
		cols["hashtags"] = StringList(*p.Hashtags)
	}
	if p.FirstComment != nil {
		cols["first_comment"] = *p.FirstComment
	}
	if p.ViralScore != nil {
		cols["viral_score"] = *p.ViralScore
	}
	if p.VisualContent != nil {
		cols["visual_content"] = *p.VisualContent
	}
	return cols
}
