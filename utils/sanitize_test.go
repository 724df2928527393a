package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStripsScripts(t *testing.T) {
	out := Sanitize(`好吃<script>alert(1)</script>`)
	assert.Equal(t, "好吃", out)
}

func TestSanitizePlainStripsAllMarkup(t *testing.T) {
	out := SanitizePlain(`<b>名字</b>`)
	assert.Equal(t, "名字", out)
}

func TestUniqueUint(t *testing.T) {
	assert.Equal(t, []uint{3, 1, 2}, UniqueUint([]uint{3, 1, 3, 2, 1}))
	assert.Empty(t, UniqueUint(nil))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("p@ssw0rd")
	assert.NoError(t, err)
	assert.True(t, CheckPassword(hash, "p@ssw0rd"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
