package catalog

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildSearchQueryEmptyTermMatchesAll(t *testing.T) {
	assert.Equal(t, bson.M{}, BuildSearchQuery("", []string{"name"}))
	assert.Equal(t, bson.M{}, BuildSearchQuery("abc", nil))
}

func TestBuildSearchQueryOrAcrossFields(t *testing.T) {
	query := BuildSearchQuery("ab", []string{"name", "description"})

	or, ok := query["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, or, 2)

	assert.Equal(t, bson.M{"$regex": "ab", "$options": "i"}, or[0]["name"])
	assert.Equal(t, bson.M{"$regex": "ab", "$options": "i"}, or[1]["description"])
}

func TestBuildSearchQueryCaseInsensitiveSubstring(t *testing.T) {
	query := BuildSearchQuery("ab", []string{"name"})
	pattern := query["$or"].([]bson.M)[0]["name"].(bson.M)["$regex"].(string)

	re := regexp.MustCompile("(?i)" + pattern)
	assert.True(t, re.MatchString("Cabinet"))
	assert.False(t, re.MatchString("Table"))
}

func TestBuildSearchQueryEscapesMetacharacters(t *testing.T) {
	query := BuildSearchQuery("a.b(c", []string{"name"})
	pattern := query["$or"].([]bson.M)[0]["name"].(bson.M)["$regex"].(string)

	// Le terme est littéral : "a.b(c" ne matche pas "aXb(c".
	re := regexp.MustCompile("(?i)" + pattern)
	assert.True(t, re.MatchString("xxa.b(cxx"))
	assert.False(t, re.MatchString("aXb(c"))
}
