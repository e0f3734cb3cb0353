package models

import (
	"time"
)

// SavedIdea 用户保存的帖子灵感
type SavedIdea struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	Title           string     `gorm:"not null" json:"title"`
	ViralPotential  float64    `json:"viralPotential"`
	Hook            string     `gorm:"type:text" json:"hook"`
	Description     string     `gorm:"type:text" json:"description"`
	TargetAudience  string     `json:"targetAudience"`
	ContentType     string     `gorm:"size:20" json:"contentType"`
	TrendingFactors StringList `gorm:"type:jsonb" json:"trendingFactors"`
	UserID          string     `gorm:"size:36;not null;index:idx_ideas_owner_created,priority:1" json:"userId"`
	CreatedAt       time.Time  `gorm:"index:idx_ideas_owner_created,priority:2" json:"createdAt"`
}

func (SavedIdea) TableName() string {
	return "post_ideas"
}

func (i SavedIdea) GetID() string { return i.ID }

func (i SavedIdea) GetCreatedAt() time.Time { return i.CreatedAt }

// IdeaInput 保存灵感请求，字段与生成结果 GeneratedIdea 一致
type IdeaInput struct {
	Title           string   `json:"title" binding:"required"`
	ViralPotential  float64  `json:"viralPotential" binding:"min=1,max=10"`
	Hook            string   `json:"hook"`
	Description     string   `json:"description"`
	TargetAudience  string   `json:"targetAudience"`
	ContentType     string   `json:"contentType" binding:"omitempty,oneof=story how_to contrarian list data_insight"`
	TrendingFactors []string `json:"trendingFactors" binding:"max=3"`
}

func (in IdeaInput) Record() *SavedIdea {
	return &SavedIdea{
		Title:           in.Title,
		ViralPotential:  in.ViralPotential,
		Hook:            in.Hook,
		Description:     in.Description,
		TargetAudience:  in.TargetAudience,
		ContentType:     in.ContentType,
		TrendingFactors: StringList(in.TrendingFactors),
	}
}

// IdeaInputFrom 由生成的灵感构造保存请求
func IdeaInputFrom(g GeneratedIdea) IdeaInput {
	return IdeaInput{
		Title:           g.Title,
		ViralPotential:  g.ViralPotential,
		Hook:            g.Hook,
		Description:     g.Description,
		TargetAudience:  g.TargetAudience,
		ContentType:     g.ContentType,
		TrendingFactors: g.TrendingFactors,
	}
}

// IdeaPatch 部分更新
type IdeaPatch struct {
	Title           *string   `json:"title" binding:"omitempty,min=1"`
	ViralPotential  *float64  `json:"viralPotential" binding:"omitempty,min=1,max=10"`
	Hook            *string   `json:"hook"`
	Description     *string   `json:"description"`
	TargetAudience  *string   `json:"targetAudience"`
	ContentType     *string   `json:"contentType" binding:"omitempty,oneof=story how_to contrarian list data_insight"`
	TrendingFactors *[]string `json:"trendingFactors" binding:"omitempty,max=3"`
}

func (p IdeaPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.ViralPotential != nil {
		cols["viral_potential"] = *p.ViralPotential
	}
	if p.Hook != nil {
		cols["hook"] = *p.Hook
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.TargetAudience != nil {
		cols["target_audience"] = *p.TargetAudience
	}
	if p.ContentType != nil {
		cols["content_type"] = *p.ContentType
	}
	if p.TrendingFactors != nil {
		cols["trending_factors"] = StringList(*p.TrendingFactors)
	}
	return cols
}
