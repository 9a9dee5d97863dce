package session

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`^user_\d+$`)

func TestNewIDFormatAndRange(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		id := NewID(r)
		require.Regexp(t, idPattern, id)

		n, err := strconv.Atoi(strings.TrimPrefix(id, "user_"))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 10000)
	}
}

func TestNewIDIsDeterministicForSeed(t *testing.T) {
	a := NewID(rand.New(rand.NewSource(7)))
	b := NewID(rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}

func TestNewSession(t *testing.T) {
	s := NewSession()
	assert.Regexp(t, idPattern, s.ID)
	assert.NotZero(t, s.CreatedAt)
}

func TestNewSessionFromSeed(t *testing.T) {
	a := NewSessionFrom(rand.New(rand.NewSource(11)))
	b := NewSessionFrom(rand.New(rand.NewSource(11)))

	assert.Equal(t, a.ID, b.ID)
	assert.NotZero(t, a.CreatedAt)
}
