package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMemberTag(t *testing.T) {
	tag := NewMemberTag(2, 10)

	assert.Equal(t, 2, tag.UserID)
	assert.Equal(t, 10, tag.RecordID)
	assert.False(t, tag.IsWriter)
	assert.True(t, tag.Visibility)
	assert.True(t, tag.IsActive())
}

func TestNewWriterTag(t *testing.T) {
	tag := NewWriterTag(1, 10)

	assert.True(t, tag.IsWriter)
	assert.True(t, tag.Visibility)
}

func TestTag_IsActive(t *testing.T) {
	now := time.Now()
	tag := Tag{RemovedAt: &now}

	assert.False(t, tag.IsActive())
}

func TestUser_ToProfile(t *testing.T) {
	image := "https://cdn.example.com/u/3.png"
	user := User{
		BaseModel:    BaseModel{ID: 3},
		Email:        "three@example.com",
		Nickname:     "three",
		PasswordHash: "hash",
		ProfileImage: &image,
	}

	profile := user.ToProfile()

	assert.Equal(t, 3, profile.ID)
	assert.Equal(t, "three", profile.Nickname)
	assert.Equal(t, &image, profile.ProfileImage)
}

func TestUser_JSONOmitsUnloadedTimestamps(t *testing.T) {
	raw, err := json.Marshal(User{BaseModel: BaseModel{ID: 1}, Nickname: "ada"})
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.NotContains(t, body, "createdAt")
	assert.NotContains(t, body, "updatedAt")
	assert.Equal(t, "ada", body["nickname"])
}

func TestUser_JSONKeepsLoadedTimestamps(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	raw, err := json.Marshal(User{BaseModel: BaseModel{ID: 1, CreatedAt: created, UpdatedAt: created}})
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "2026-03-01T12:00:00Z", body["createdAt"])
}
