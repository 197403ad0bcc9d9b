package models

import (
	"time"

	"gorm.io/gorm"
)

// Like records that a user liked a post.
type Like struct {
	User string `json:"user"`
}

// Comment is embedded in a Post. Name and Avatar are copied from the author at creation.
type Comment struct {
	ID     string    `json:"id"`
	User   string    `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

// Post is a text post with embedded likes and comments, both newest first.
// Name and Avatar are a snapshot of the author and are never re-synced.
type Post struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);index;not null" json:"user"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Likes     []Like    `gorm:"type:jsonb;serializer:json" json:"likes"`
	Comments  []Comment `gorm:"type:jsonb;serializer:json" json:"comments"`
	Version   int       `gorm:"not null" json:"version"`
	CreatedAt time.Time `gorm:"index" json:"date"`
	UpdatedAt time.Time `json:"-"`
}

func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	if p.Version == 0 {
		p.Version = 1
	}
	p.normalize()
	return nil
}

func (p *Post) AfterFind(_ *gorm.DB) error {
	p.normalize()
	return nil
}

func (p *Post) normalize() {
	if p.Likes == nil {
		p.Likes = []Like{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}

// LikedBy reports whether userID is in the likes list.
func (p *Post) LikedBy(userID string) bool {
	return p.likeIndex(userID) >= 0
}

func (p *Post) likeIndex(userID string) int {
	for i, l := range p.Likes {
		if l.User == userID {
			return i
		}
	}
	return -1
}

// AddLike prepends a like by userID. It reports false if userID already liked the post.
func (p *Post) AddLike(userID string) bool {
	if p.LikedBy(userID) {
		return false
	}
	p.Likes = append([]Like{{User: userID}}, p.Likes...)
	return true
}

// RemoveLike drops the first like by userID. It reports false if there was none.
func (p *Post) RemoveLike(userID string) bool {
	i := p.likeIndex(userID)
	if i < 0 {
		return false
	}
	p.Likes = append(p.Likes[:i:i], p.Likes[i+1:]...)
	return true
}

// CommentIndex returns the position of the comment with the given id, or -1.
func (p *Post) CommentIndex(commentID string) int {
	for i, c := range p.Comments {
		if c.ID == commentID {
			return i
		}
	}
	return -1
}

// RemoveCommentAt drops the comment at index i.
func (p *Post) RemoveCommentAt(i int) {
	p.Comments = append(p.Comments[:i:i], p.Comments[i+1:]...)
}
