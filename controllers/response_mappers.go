package controllers

import (
	"time"

	"Postline/models"
	"Postline/storage"
)

type UserDTO struct {
	ID        uint      `json:"id"`
	PublicID  string    `json:"public_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type GroupDTO struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type PostDTO struct {
	ID       uint      `json:"id"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
	Author   UserDTO   `json:"author"`
	Group    *GroupDTO `json:"group"`
	ImageURL string    `json:"image_url,omitempty"`
}

type CommentDTO struct {
	ID        uint      `json:"id"`
	PostID    uint      `json:"post_id"`
	Text      string    `json:"text"`
	Author    UserDTO   `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

func userToResponse(u *models.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		PublicID:  u.PublicID,
		Username:  u.Username,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

func groupToResponse(g *models.Group) *GroupDTO {
	if g == nil {
		return nil
	}
	return &GroupDTO{
		ID:          g.ID,
		Title:       g.Title,
		Slug:        g.Slug,
		Description: g.Description,
	}
}

func postToResponse(p *models.Post) PostDTO {
	dto := PostDTO{
		ID:      p.ID,
		Text:    p.Text,
		PubDate: p.PubDate,
		Author:  userToResponse(&p.Author),
		Group:   groupToResponse(p.Group),
	}
	if p.ImagePath != "" {
		dto.ImageURL = storage.PublicURL(p.ImagePath)
	}
	return dto
}

func postsToResponse(posts []models.Post) []PostDTO {
	out := make([]PostDTO, len(posts))
	for i := range posts {
		out[i] = postToResponse(&posts[i])
	}
	return out
}

func commentToResponse(c *models.Comment) CommentDTO {
	return CommentDTO{
		ID:        c.ID,
		PostID:    c.PostID,
		Text:      c.Text,
		Author:    userToResponse(&c.Author),
		CreatedAt: c.CreatedAt,
	}
}

func commentsToResponse(comments []models.Comment) []CommentDTO {
	out := make([]CommentDTO, len(comments))
	for i := range comments {
		out[i] = commentToResponse(&comments[i])
	}
	return out
}
