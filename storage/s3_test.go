package storage

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImageAcceptsPNG(t *testing.T) {
	var buf bytes.Buffer
	err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}

	assert.NoError(t, ValidateImage(buf.Bytes()))
}

func TestValidateImageRejectsNonImage(t *testing.T) {
	err := ValidateImage([]byte("this is just text pretending to be a picture"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestValidateImageRejectsOversized(t *testing.T) {
	data := make([]byte, MaxImageSize+1)
	err := ValidateImage(data)
	assert.ErrorIs(t, err, ErrImageTooLarge, "size rejection carries its own message")
}

func TestPublicURLPassesThroughAbsolute(t *testing.T) {
	assert.Equal(t, "", PublicURL(""))
	assert.Equal(t, "https://cdn.example.com/x.png", PublicURL("https://cdn.example.com/x.png"))
}

func TestPublicURLBuildsBucketURL(t *testing.T) {
	t.Setenv("S3_BUCKET", "postline-media")
	t.Setenv("AWS_REGION", "eu-west-1")

	assert.Equal(t,
		"https://postline-media.s3.eu-west-1.amazonaws.com/posts/abc.png",
		PublicURL("posts/abc.png"))
}
