package models

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Follow is a directed edge: FollowerID follows FollowedID. The composite
// unique index makes the get-or-create race-safe without in-process locking.
type Follow struct {
	ID         uint      `gorm:"primary_key;autoIncrement" json:"id"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follows_unique" json:"follower_id"`
	FollowedID uint      `gorm:"not null;index;uniqueIndex:idx_follows_unique" json:"followed_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// SaveFollow inserts the edge if it does not exist yet. The bool reports
// whether a new edge was created; a duplicate follow is a no-op, not an error.
func (f *Follow) SaveFollow(db *gorm.DB) (bool, error) {
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&f)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteFollow removes the edge if present. Deleting an absent edge is a
// no-op: RowsAffected is zero and no error is returned.
func (f *Follow) DeleteFollow(db *gorm.DB, followerID, followedID uint) (int64, error) {
	result := db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&Follow{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (f *Follow) IsFollowing(db *gorm.DB, followerID, followedID uint) (bool, error) {
	var count int64
	err := db.Model(&Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FollowerCount counts the users following uid (edges pointing at them).
func (f *Follow) FollowerCount(db *gorm.DB, uid uint) (int64, error) {
	var count int64
	err := db.Model(&Follow{}).Where("followed_id = ?", uid).Count(&count).Error
	return count, err
}

// FollowingCount counts the users uid follows (edges leaving them).
func (f *Follow) FollowingCount(db *gorm.DB, uid uint) (int64, error) {
	var count int64
	err := db.Model(&Follow{}).Where("follower_id = ?", uid).Count(&count).Error
	return count, err
}

func (f *Follow) FindFollowers(db *gorm.DB, uid uint) (*[]User, error) {
	var users []User
	err := db.Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", uid).
		Order("follows.created_at desc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return &users, nil
}

func (f *Follow) FindFollowing(db *gorm.DB, uid uint) (*[]User, error) {
	var users []User
	err := db.Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", uid).
		Order("follows.created_at desc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return &users, nil
}

// When a user is deleted, we also delete their edges in both directions
func (f *Follow) DeleteUserFollows(db *gorm.DB, uid uint) (int64, error) {
	result := db.Where("follower_id = ? OR followed_id = ?", uid, uid).Delete(&Follow{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
