package domain

import "time"

type NewsArticle struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	AuthorID  *uint     `gorm:"index" json:"authorId,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Author *Alumni `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

func (NewsArticle) TableName() string {
	return "news_articles"
}
