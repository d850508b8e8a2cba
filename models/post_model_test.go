package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFindAllPostsOrder(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author")

	for i := 1; i <= 3; i++ {
		post := Post{Text: fmt.Sprintf("post %d", i), AuthorID: author.ID}
		_, err := post.SavePost(db)
		assert.NoError(t, err)
	}

	finder := Post{}
	posts, total, err := finder.FindAllPosts(db, 0, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, "post 3", posts[0].Text, "newest post comes first")
	assert.Equal(t, "post 1", posts[2].Text)
}

func TestUpdatePostLeavesPubDate(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author")

	post := Post{Text: "original", AuthorID: author.ID}
	saved, err := post.SavePost(db)
	assert.NoError(t, err)
	originalPubDate := saved.PubDate

	saved.Text = "edited"
	updated, err := saved.UpdateAPost(db)
	assert.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
	assert.WithinDuration(t, originalPubDate, updated.PubDate, time.Second)
}

func TestFindFeedPostsOnlyFollowedAuthors(t *testing.T) {
	db := newTestDB(t)
	viewer := seedUser(t, db, "viewer")
	followed := seedUser(t, db, "followed")
	stranger := seedUser(t, db, "stranger")

	edge := Follow{FollowerID: viewer.ID, FollowedID: followed.ID}
	_, err := edge.SaveFollow(db)
	assert.NoError(t, err)

	followedPost := Post{Text: "from followed", AuthorID: followed.ID}
	_, err = followedPost.SavePost(db)
	assert.NoError(t, err)
	strangerPost := Post{Text: "from stranger", AuthorID: stranger.ID}
	_, err = strangerPost.SavePost(db)
	assert.NoError(t, err)

	finder := Post{}
	feed, total, err := finder.FindFeedPosts(db, viewer.ID, 0, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, feed, 1)
	assert.Equal(t, "from followed", feed[0].Text)
	assert.Equal(t, "followed", feed[0].Author.Username)
}

func TestFindUserPostRequiresMatchingAuthor(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author")
	seedUser(t, db, "other")

	post := Post{Text: "mine", AuthorID: author.ID}
	saved, err := post.SavePost(db)
	assert.NoError(t, err)

	finder := Post{}
	found, err := finder.FindUserPost(db, "author", saved.ID)
	assert.NoError(t, err)
	assert.Equal(t, "mine", found.Text)

	_, err = finder.FindUserPost(db, "other", saved.ID)
	assert.Error(t, err, "a post under the wrong author is a not-found")
}
