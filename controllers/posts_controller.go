package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"Postline/models"
	"Postline/storage"
	httpctx "Postline/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// postInput is what both surfaces accept for creating/editing a post:
// a JSON body or a multipart form with an optional image file.
type postInput struct {
	Text      string
	GroupRef  string
	HasGroup  bool
	ImageData []byte
	ImageName string
}

func parsePostInput(c *gin.Context) (*postInput, map[string]string) {
	errList := map[string]string{}
	input := &postInput{}

	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") ||
		contentType == "application/x-www-form-urlencoded" {
		input.Text = c.PostForm("text")
		if group, ok := c.GetPostForm("group"); ok {
			input.GroupRef = group
			input.HasGroup = true
		}
		if file, err := c.FormFile("image"); err == nil {
			f, err := file.Open()
			if err != nil {
				errList["Invalid_image"] = "Cannot open image"
				return nil, errList
			}
			defer f.Close()
			data, err := io.ReadAll(io.LimitReader(f, storage.MaxImageSize+1))
			if err != nil {
				errList["Invalid_image"] = "Cannot read image"
				return nil, errList
			}
			input.ImageData = data
			input.ImageName = file.Filename
		}
		return input, nil
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		errList["Invalid_body"] = "Unable to get request"
		return nil, errList
	}
	var payload struct {
		Text  string  `json:"text"`
		Group *string `json:"group"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		return nil, errList
	}
	input.Text = payload.Text
	if payload.Group != nil {
		input.GroupRef = *payload.Group
		input.HasGroup = true
	}
	return input, nil
}

// resolveGroupRef turns a slug or numeric id into a group id. An empty
// reference clears the group.
func resolveGroupRef(db *gorm.DB, ref string) (*uint, error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return nil, nil
	}

	if gid, err := strconv.ParseUint(trimmed, 10, 32); err == nil {
		var group models.Group
		if err := db.Where("id = ?", uint(gid)).Take(&group).Error; err == nil {
			return &group.ID, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	group := models.Group{}
	found, err := group.FindGroupBySlug(db, trimmed)
	if err != nil {
		return nil, err
	}
	return &found.ID, nil
}

func (server *Server) uploadPostImage(c *gin.Context, input *postInput) (string, map[string]string) {
	if len(input.ImageData) == 0 {
		return "", nil
	}
	key, err := storage.UploadImage(c.Request.Context(), input.ImageName, input.ImageData)
	if err != nil {
		// Bad input gets a field-keyed message; only backend failures
		// surface as an upload error.
		if errors.Is(err, storage.ErrInvalidImage) {
			return "", map[string]string{"Invalid_image": "Not a valid image"}
		}
		if errors.Is(err, storage.ErrImageTooLarge) {
			return "", map[string]string{"Invalid_image": storage.ErrImageTooLarge.Error()}
		}
		return "", map[string]string{"Upload_error": "Unable to store image"}
	}
	return key, nil
}

func (server *Server) CreatePost(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": http.StatusUnauthorized,
			"error":  "Unauthorized",
		})
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

	post := models.Post{Text: input.Text, AuthorID: uid}
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

	postCreated, err := post.SavePost(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to save post",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": postToResponse(postCreated),
	})
}

func (server *Server) GetPosts(c *gin.Context) {
	// Group listings page at the same short size as the group page itself.
	defaultLimit := IndexPageSize
	if c.Query("group") != "" {
		defaultLimit = GroupPageSize
	}
	page, limit, offset := parsePagination(c, defaultLimit)

	post := models.Post{}
	var posts []models.Post
	var total int64
	var err error

	if groupRef := c.Query("group"); groupRef != "" {
		gid, gErr := resolveGroupRef(server.DB, groupRef)
		if gErr != nil || gid == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"status": http.StatusNotFound,
				"error":  "Group not found",
			})
			return
		}
		posts, total, err = post.FindPostsByGroup(server.DB, *gid, offset, limit)
	} else {
		posts, total, err = post.FindAllPosts(server.DB, offset, limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to retrieve posts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     http.StatusOK,
		"response":   postsToResponse(posts),
		"pagination": paginationMeta(page, limit, total),
	})
}

func (server *Server) GetPost(c *gin.Context) {
	pid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  "Invalid post ID",
		})
		return
	}

	post := models.Post{}
	found, err := post.FindPostByID(server.DB, uint(pid))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "Post not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": postToResponse(found),
	})
}

func (server *Server) UpdatePost(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": http.StatusUnauthorized,
			"error":  "Unauthorized",
		})
		return
	}

	pid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  "Invalid post ID",
		})
		return
	}

	post := models.Post{}
	existing, err := post.FindPostByID(server.DB, uint(pid))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "Post not found",
		})
		return
	}

	// Only the author may touch a post.
	if existing.AuthorID != uid {
		c.JSON(http.StatusForbidden, gin.H{
			"status": http.StatusForbidden,
			"error":  "Forbidden",
		})
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

	updated, err := existing.UpdateAPost(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to update post",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": postToResponse(updated),
	})
}

func (server *Server) DeletePost(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": http.StatusUnauthorized,
			"error":  "Unauthorized",
		})
		return
	}

	pid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  "Invalid post ID",
		})
		return
	}

	post := models.Post{}
	existing, err := post.FindPostByID(server.DB, uint(pid))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "Post not found",
		})
		return
	}
	if existing.AuthorID != uid {
		c.JSON(http.StatusForbidden, gin.H{
			"status": http.StatusForbidden,
			"error":  "Forbidden",
		})
		return
	}

	if _, err := existing.DeleteAPost(server.DB, existing.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to delete post",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Post deleted",
	})
}
