package models

import (
	"html"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Comment struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (c *Comment) Prepare() {
	c.ID = 0
	c.Text = html.EscapeString(strings.TrimSpace(c.Text))
	c.Author = User{}
	c.CreatedAt = time.Now()
}

func (c *Comment) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if c.Text == "" {
		errorMessages["Required_text"] = "Required Text"
	}
	if c.AuthorID == 0 {
		errorMessages["Required_author"] = "Required Author"
	}
	if c.PostID == 0 {
		errorMessages["Required_post"] = "Required Post"
	}
	return errorMessages
}

func (c *Comment) SaveComment(db *gorm.DB) (*Comment, error) {
	err := db.Create(&c).Error
	if err != nil {
		return nil, err
	}
	err = db.Preload("Author").Where("id = ?", c.ID).Take(&c).Error
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Comment) GetPostComments(db *gorm.DB, pid uint) (*[]Comment, error) {
	comments := []Comment{}
	err := db.Preload("Author").Where("post_id = ?", pid).
		Order("created_at asc, id asc").Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return &comments, nil
}

func (c *Comment) UpdateAComment(db *gorm.DB) (*Comment, error) {
	err := db.Model(&Comment{}).Where("id = ?", c.ID).
		Update("text", c.Text).Error
	if err != nil {
		return nil, err
	}
	err = db.Preload("Author").Where("id = ?", c.ID).Take(&c).Error
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Comment) DeleteAComment(db *gorm.DB) (int64, error) {
	result := db.Where("id = ?", c.ID).Delete(&Comment{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// When a user is deleted, we also delete the comments the user had
func (c *Comment) DeleteUserComments(db *gorm.DB, uid uint) (int64, error) {
	result := db.Where("author_id = ?", uid).Delete(&Comment{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// When a post is deleted, we also delete the comments the post had
func (c *Comment) DeletePostComments(db *gorm.DB, pid uint) (int64, error) {
	result := db.Where("post_id = ?", pid).Delete(&Comment{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
