package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louiz/rugamia/internal/pkg/errs"
)

func TestReferencesExtractsNumbersInOrder(t *testing.T) {
	assert.Equal(t, []int{12, 9000}, References("see #12 and #9000"))
}

func TestReferencesIgnoresTextWithoutReferences(t *testing.T) {
	assert.Empty(t, References("nothing to see here"))
	assert.Empty(t, References("a lonely # sign"))
}

func TestReferencesCapsAtFourPerMessage(t *testing.T) {
	refs := References("#1 #2 #3 #4 #5 #6")
	assert.Equal(t, []int{1, 2, 3, 4}, refs)
}

func TestIsAdd(t *testing.T) {
	assert.True(t, IsAdd(`!add "title" "body"`))
	assert.False(t, IsAdd("!add"))
	assert.False(t, IsAdd("!Add something"))
	assert.False(t, IsAdd("say !add something"))
}

func TestParseAddSplitsTitleAndDescription(t *testing.T) {
	title, description, cerr := ParseAdd(`!add "Bug title" "Bug body"`)
	require.Nil(t, cerr)
	assert.Equal(t, "Bug title", title)
	assert.Equal(t, "Bug body", description)
}

func TestParseAddRequiresExactlyTwoArguments(t *testing.T) {
	for _, body := range []string{
		"!add onetoken",
		`!add "one" "two" "three"`,
		"!add ",
	} {
		_, _, cerr := ParseAdd(body)
		require.NotNil(t, cerr, "body: %s", body)
		assert.Equal(t, errs.ErrNeedTwoArguments, cerr.Code)
	}
}

func TestParseAddReportsUnbalancedQuoting(t *testing.T) {
	_, _, cerr := ParseAdd(`!add "unterminated title`)
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrBadArguments, cerr.Code)
	assert.Contains(t, cerr.Message, "No: ")
}
