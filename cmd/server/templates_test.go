package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeAgo(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "just now", timeAgo(now.Add(-10*time.Second)))
	assert.Equal(t, "1 minute ago", timeAgo(now.Add(-90*time.Second)))
	assert.Equal(t, "3 hours ago", timeAgo(now.Add(-3*time.Hour-time.Minute)))
	assert.Equal(t, "2 days ago", timeAgo(now.Add(-49*time.Hour)))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "Hello world", excerpt("**Hello** world", 100))
	assert.Equal(t, "abc…", excerpt("abcdef", 3))
}

func TestTemplateFuncsDict(t *testing.T) {
	dict := templateFuncs()["dict"].(func(...any) (map[string]any, error))

	m, err := dict("a", 1, "b", "x")
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": "x"}, m)

	_, err = dict("odd")
	assert.Error(t, err)
}

func TestLoadTemplates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r, ok := loadTemplates("../../web/templates").(multitemplate.Render)
	require.True(t, ok)
	for _, v := range views {
		assert.NotNil(t, r[v], v)
	}

	var buf bytes.Buffer
	err := r["error.html"].Execute(&buf, gin.H{"Title": "Not Found", "Code": 404, "Error": "gone", "CurrentPath": "/x"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "gone")
}
