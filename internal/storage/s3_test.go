package storage

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	userID := uuid.New()
	key := ObjectKey(userID, "My Photo (1).JPG")

	assert.True(t, strings.HasPrefix(key, "uploads/"+userID.String()+"/"))
	assert.True(t, strings.HasSuffix(key, "_my-photo--1-.jpg"))

	// Two keys for the same filename must not collide.
	assert.NotEqual(t, key, ObjectKey(userID, "My Photo (1).JPG"))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "notes.pdf", sanitizeFilename("Notes.PDF"))
	assert.Equal(t, "a-b_c-1.png", sanitizeFilename("a b_c@1.png"))
	assert.Equal(t, "", sanitizeFilename("   "))
}

func TestPublicURL(t *testing.T) {
	c := &S3Client{bucket: "swamp-media", region: "us-east-1"}
	assert.Equal(t, "https://swamp-media.s3.us-east-1.amazonaws.com/uploads/x", c.PublicURL("uploads/x"))

	c.endpoint = "http://localhost:9000/"
	assert.Equal(t, "http://localhost:9000/swamp-media/uploads/x", c.PublicURL("uploads/x"))
}
