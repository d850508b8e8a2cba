package models

import (
	"html"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Group is an admin-curated category a post can be filed under. Posts keep a
// nullable reference: deleting a group must never take its posts with it.
type Group struct {
	ID          uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Slug        string    `gorm:"size:200;not null;unique" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func (g *Group) Prepare() {
	g.Title = html.EscapeString(strings.TrimSpace(g.Title))
	g.Slug = strings.ToLower(strings.TrimSpace(g.Slug))
	g.Description = html.EscapeString(strings.TrimSpace(g.Description))
	g.CreatedAt = time.Now()
}

func (g *Group) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if g.Title == "" {
		errorMessages["Required_title"] = "Required Title"
	}
	if g.Slug == "" {
		errorMessages["Required_slug"] = "Required Slug"
	}
	if g.Slug != "" && !slugPattern.MatchString(g.Slug) {
		errorMessages["Invalid_slug"] = "Slug may only contain lowercase letters, digits and hyphens"
	}
	return errorMessages
}

func (g *Group) SaveGroup(db *gorm.DB) (*Group, error) {
	err := db.Create(&g).Error
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Group) FindAllGroups(db *gorm.DB) (*[]Group, error) {
	var groups []Group
	err := db.Order("title asc").Limit(100).Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return &groups, nil
}

func (g *Group) FindGroupBySlug(db *gorm.DB, slug string) (*Group, error) {
	var group Group
	err := db.Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).Take(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// DeleteAGroup detaches the group's posts before removing the group itself,
// so the posts stay retrievable with a null group reference.
func (g *Group) DeleteAGroup(db *gorm.DB, gid uint) (int64, error) {
	var deleted int64
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Post{}).Where("group_id = ?", gid).
			Update("group_id", nil).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", gid).Delete(&Group{})
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
