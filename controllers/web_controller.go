package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"Postline/cache"
	"Postline/models"
	httpctx "Postline/utils/httpctx"

	"github.com/gin-gonic/gin"
)

const indexCacheTTL = 20 * time.Second

// Index is the public front page: every post from every author, newest
// first. Pages are served from Redis for up to 20 seconds; when the cache
// is unreachable the page is built straight from the database.
func (server *Server) Index(c *gin.Context) {
	page, limit, offset := parsePagination(c, IndexPageSize)

	cacheKey := fmt.Sprintf("index:page:%d:limit:%d", page, limit)
	if cached, err := cache.Get(c.Request.Context(), cacheKey); err == nil && cached != "" {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
		return
	}

	post := models.Post{}
	posts, total, err := post.FindAllPosts(server.DB, offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to retrieve posts",
		})
		return
	}

	payload := gin.H{
		"status":     http.StatusOK,
		"response":   postsToResponse(posts),
		"pagination": paginationMeta(page, limit, total),
	}
	if raw, err := json.Marshal(payload); err == nil {
		_ = cache.Set(c.Request.Context(), cacheKey, raw, indexCacheTTL)
	}

	c.JSON(http.StatusOK, payload)
}

// GroupPage shows a community and its most recent posts.
func (server *Server) GroupPage(c *gin.Context) {
	group := models.Group{}
	found, err := group.FindGroupBySlug(server.DB, c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "Group not found",
		})
		return
	}

	page, limit, offset := parsePagination(c, GroupPageSize)
	post := models.Post{}
	posts, total, err := post.FindPostsByGroup(server.DB, found.ID, offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to retrieve posts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": gin.H{
			"group": groupToResponse(found),
			"posts": postsToResponse(posts),
		},
		"pagination": paginationMeta(page, limit, total),
	})
}

// NewPostForm describes the publish form for an authenticated visitor.
func (server *Server) NewPostForm(c *gin.Context) {
	group := models.Group{}
	groups, err := group.FindAllGroups(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to retrieve groups",
		})
		return
	}

	options := make([]*GroupDTO, 0, len(*groups))
	for i := range *groups {
		options = append(options, groupToResponse(&(*groups)[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": gin.H{
			"action": "/new",
			"fields": []string{"text", "group", "image"},
			"groups": options,
		},
	})
}

// NewPost publishes a post from the browse form and sends the author back
// to the front page.
func (server *Server) NewPost(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		redirectToLogin(c)
		return
	}

	input, errList := parsePostInput(c)
	if errList != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	post := models.Post{Text: input.Text}
	post.Prepare()
	post.AuthorID = uid
	errorMessages := post.Validate()

	if input.HasGroup {
		gid, err := resolveGroupRef(server.DB, input.GroupRef)
		if err != nil {
			errorMessages["Invalid_group"] = "No such group"
		} else {
			post.GroupID = gid
		}
	}
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	imageKey, imageErrs := server.uploadPostImage(c, input)
	if imageErrs != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  imageErrs,
		})
		return
	}
	post.ImagePath = imageKey

	if _, err := post.SavePost(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to save post",
		})
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// FollowIndex is the personalized feed page: posts from every author the
// visitor follows.
func (server *Server) FollowIndex(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		redirectToLogin(c)
		return
	}

	page, limit, offset := parsePagination(c, FeedPageSize)
	post := models.Post{}
	posts, total, err := post.FindFeedPosts(server.DB, uid, offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to retrieve feed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     http.StatusOK,
		"response":   postsToResponse(posts),
		"pagination": paginationMeta(page, limit, total),
	})
}

// Profile aggregates everything the profile page needs: the owner, a page
// of their posts, their counters, and whether the visitor follows them.
// The following flag is null for anonymous visitors and for the owner
// viewing their own page.
func (server *Server) Profile(c *gin.Context) {
	user := models.User{}
	owner, err := user.FindUserByUsername(server.DB, c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "User not found",
		})
		return
	}

	page, limit, offset := parsePagination(c, ProfilePageSize)
	post := models.Post{}
	posts, total, err := post.FindPostsByAuthor(server.DB, owner.ID, offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to retrieve posts",
		})
		return
	}

	follow := models.Follow{}
	followerCount, err := follow.FollowerCount(server.DB, owner.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to retrieve profile",
		})
		return
	}
	followingCount, err := follow.FollowingCount(server.DB, owner.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to retrieve profile",
		})
		return
	}

	var following *bool
	if uid, ok := httpctx.CurrentUserID(c); ok && uid != owner.ID {
		isFollowing, err := follow.IsFollowing(server.DB, uid, owner.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status": http.StatusInternalServerError,
				"error":  "Unable to retrieve profile",
			})
			return
		}
		following = &isFollowing
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": gin.H{
			"owner":           userToResponse(owner),
			"posts":           postsToResponse(posts),
			"post_count":      total,
			"follower_count":  followerCount,
			"following_count": followingCount,
			"following":       following,
		},
		"pagination": paginationMeta(page, limit, total),
	})
}

// PostView is the post detail page: the post, its comments, and the
// author's counters.
func (server *Server) PostView(c *gin.Context) {
	pid, err := strconv.ParseUint(c.Param("post_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "Page not found",
		})
		return
	}

	post := models.Post{}
	found, err := post.FindUserPost(server.DB, c.Param("username"), uint(pid))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "Post not found",
		})
		return
	}

	comment := models.Comment{}
	comments, err := comment.GetPostComments(server.DB, found.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to retrieve comments",
		})
		return
	}

	postCount, err := post.CountByAuthor(server.DB, found.AuthorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to retrieve post",
		})
		return
	}

	follow := models.Follow{}
	followerCount, _ := follow.FollowerCount(server.DB, found.AuthorID)
	followingCount, _ := follow.FollowingCount(server.DB, found.AuthorID)

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": gin.H{
			"post":            postToResponse(found),
			"comments":        commentsToResponse(*comments),
			"post_count":      postCount,
			"follower_count":  followerCount,
			"following_count": followingCount,
		},
	})
}

// EditPostForm returns the edit form for the post's author. Anyone else is
// sent to the post page instead.
func (server *Server) EditPostForm(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		redirectToLogin(c)
		return
	}

	pid, err := strconv.ParseUint(c.Param("post_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "Page not found",
		})
		return
	}

	post := models.Post{}
	found, err := post.FindUserPost(server.DB, c.Param("username"), uint(pid))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "Post not found",
		})
		return
	}

	if found.AuthorID != uid {
		c.Redirect(http.StatusFound, postPagePath(found))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": gin.H{
			"action": postPagePath(found) + "/edit",
			"fields": []string{"text", "group", "image"},
			"post":   postToResponse(found),
		},
	})
}

// EditPost applies the author's changes and returns them to the post page.
// A visitor who is not the author is redirected without touching the post.
func (server *Server) EditPost(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		redirectToLogin(c)
		return
	}

	pid, err := strconv.ParseUint(c.Param("post_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "Page not found",
		})
		return
	}

	post := models.Post{}
	existing, err := post.FindUserPost(server.DB, c.Param("username"), uint(pid))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "Post not found",
		})
		return
	}

	if existing.AuthorID != uid {
		c.Redirect(http.StatusFound, postPagePath(existing))
		return
	}

	input, errList := parsePostInput(c)
	if errList != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	if input.Text != "" {
		existing.Text = input.Text
	}
	existing.PrepareUpdate()
	errorMessages := existing.Validate()

	if input.HasGroup {
		gid, err := resolveGroupRef(server.DB, input.GroupRef)
		if err != nil {
			errorMessages["Invalid_group"] = "No such group"
		} else {
			existing.GroupID = gid
		}
	}
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	imageKey, imageErrs := server.uploadPostImage(c, input)
	if imageErrs != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  imageErrs,
		})
		return
	}
	if imageKey != "" {
		existing.ImagePath = imageKey
	}

	if _, err := existing.UpdateAPost(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to update post",
		})
		return
	}

	c.Redirect(http.StatusFound, postPagePath(existing))
}

// AddComment attaches a comment from the detail page form and returns the
// visitor to the post.
func (server *Server) AddComment(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		redirectToLogin(c)
		return
	}

	pid, err := strconv.ParseUint(c.Param("post_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "Page not found",
		})
		return
	}

	post := models.Post{}
	parent, err := post.FindUserPost(server.DB, c.Param("username"), uint(pid))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "Post not found",
		})
		return
	}

	comment := models.Comment{Text: c.PostForm("text")}
	comment.Prepare()
	comment.AuthorID = uid
	comment.PostID = parent.ID
	errorMessages := comment.Validate()
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	if _, err := comment.SaveComment(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to save comment",
		})
		return
	}

	c.Redirect(http.StatusFound, postPagePath(parent))
}

// ProfileFollow subscribes the visitor to the profile owner and bounces
// back to the profile. Following yourself is silently skipped.
func (server *Server) ProfileFollow(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		redirectToLogin(c)
		return
	}

	user := models.User{}
	owner, err := user.FindUserByUsername(server.DB, c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "User not found",
		})
		return
	}

	if owner.ID != uid {
		follow := models.Follow{FollowerID: uid, FollowedID: owner.ID}
		if _, err := follow.SaveFollow(server.DB); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status": http.StatusInternalServerError,
				"error":  "Unable to save follow",
			})
			return
		}
	}

	c.Redirect(http.StatusFound, "/"+owner.Username)
}

// ProfileUnfollow drops the subscription and bounces back to the profile.
func (server *Server) ProfileUnfollow(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		redirectToLogin(c)
		return
	}

	user := models.User{}
	owner, err := user.FindUserByUsername(server.DB, c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "User not found",
		})
		return
	}

	follow := models.Follow{}
	if _, err := follow.DeleteFollow(server.DB, uid, owner.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to remove follow",
		})
		return
	}

	c.Redirect(http.StatusFound, "/"+owner.Username)
}

func postPagePath(p *models.Post) string {
	return fmt.Sprintf("/%s/%d", p.Author.Username, p.ID)
}

// redirectToLogin mirrors the login-required middleware for handlers that
// double-check the session themselves.
func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.RequestURI))
}
