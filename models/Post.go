package models

import (
	"html"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Post ordering is always pub_date descending; pub_date is assigned once at
// creation and never touched by updates.
type Post struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	PubDate   time.Time `gorm:"column:pub_date;index" json:"pub_date"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	ImagePath string    `gorm:"size:255" json:"image_path,omitempty"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.PubDate.IsZero() {
		p.PubDate = time.Now()
	}
	return nil
}

func (p *Post) Prepare() {
	p.Text = html.EscapeString(strings.TrimSpace(p.Text))
	p.Author = User{}
	p.Group = nil
	p.PubDate = time.Now()
	p.UpdatedAt = time.Now()
}

// PrepareUpdate sanitizes the mutable fields; pub_date stays untouched.
func (p *Post) PrepareUpdate() {
	p.Text = html.EscapeString(strings.TrimSpace(p.Text))
	p.UpdatedAt = time.Now()
}

func (p *Post) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if p.Text == "" {
		errorMessages["Required_text"] = "Required Text"
	}
	if p.AuthorID == 0 {
		errorMessages["Required_author"] = "Required Author"
	}
	return errorMessages
}

func (p *Post) SavePost(db *gorm.DB) (*Post, error) {
	err := db.Create(&p).Error
	if err != nil {
		return nil, err
	}
	err = db.Preload("Author").Preload("Group").Where("id = ?", p.ID).Take(&p).Error
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindAllPosts returns one page of the global feed plus the total count.
func (p *Post) FindAllPosts(db *gorm.DB, offset, limit int) ([]Post, int64, error) {
	var total int64
	if err := db.Model(&Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []Post
	err := db.Preload("Author").Preload("Group").
		Order("pub_date desc, id desc").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (p *Post) FindPostsByGroup(db *gorm.DB, gid uint, offset, limit int) ([]Post, int64, error) {
	var total int64
	if err := db.Model(&Post{}).Where("group_id = ?", gid).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []Post
	err := db.Preload("Author").Preload("Group").
		Where("group_id = ?", gid).
		Order("pub_date desc, id desc").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (p *Post) FindPostsByAuthor(db *gorm.DB, uid uint, offset, limit int) ([]Post, int64, error) {
	var total int64
	if err := db.Model(&Post{}).Where("author_id = ?", uid).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []Post
	err := db.Preload("Author").Preload("Group").
		Where("author_id = ?", uid).
		Order("pub_date desc, id desc").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// FindFeedPosts returns posts authored by anyone the viewer follows, newest
// first. An empty following set yields an empty page, not an error.
func (p *Post) FindFeedPosts(db *gorm.DB, viewerID uint, offset, limit int) ([]Post, int64, error) {
	feed := db.Model(&Post{}).
		Joins("JOIN follows ON follows.followed_id = posts.author_id").
		Where("follows.follower_id = ?", viewerID)

	var total int64
	if err := feed.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []Post
	err := db.Preload("Author").Preload("Group").
		Joins("JOIN follows ON follows.followed_id = posts.author_id").
		Where("follows.follower_id = ?", viewerID).
		Order("posts.pub_date desc, posts.id desc").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (p *Post) FindPostByID(db *gorm.DB, pid uint) (*Post, error) {
	var post Post
	err := db.Preload("Author").Preload("Group").Where("id = ?", pid).Take(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindUserPost looks a post up by its author's username and the post id; a
// post that exists under a different author is still a not-found.
func (p *Post) FindUserPost(db *gorm.DB, username string, pid uint) (*Post, error) {
	var post Post
	err := db.Preload("Author").Preload("Group").
		Joins("JOIN users ON users.id = posts.author_id").
		Where("users.username = ? AND posts.id = ?", strings.ToLower(strings.TrimSpace(username)), pid).
		Take(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (p *Post) CountByAuthor(db *gorm.DB, uid uint) (int64, error) {
	var total int64
	err := db.Model(&Post{}).Where("author_id = ?", uid).Count(&total).Error
	return total, err
}

// UpdateAPost replaces text, group and image; pub_date is deliberately left
// out of the update set.
func (p *Post) UpdateAPost(db *gorm.DB) (*Post, error) {
	err := db.Model(&Post{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"text":       p.Text,
		"group_id":   p.GroupID,
		"image_path": p.ImagePath,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}
	err = db.Preload("Author").Preload("Group").Where("id = ?", p.ID).Take(&p).Error
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteAPost removes the post and its comments together.
func (p *Post) DeleteAPost(db *gorm.DB, pid uint) (int64, error) {
	var deleted int64
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", pid).Delete(&Comment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", pid).Delete(&Post{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// DeleteUserPosts removes a user's posts and the comments hanging off them.
func (p *Post) DeleteUserPosts(db *gorm.DB, uid uint) (int64, error) {
	if err := db.Where("post_id IN (?)",
		db.Model(&Post{}).Select("id").Where("author_id = ?", uid),
	).Delete(&Comment{}).Error; err != nil {
		return 0, err
	}
	result := db.Where("author_id = ?", uid).Delete(&Post{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
