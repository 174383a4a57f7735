package diff

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chipkajb/mr-bot/internal/model"
)

const sampleFragment = `--- a/hello.go
+++ b/hello.go
@@ -1,4 +1,5 @@
 package main

-import "os"
+import "fmt"
+
 func main() {
`

func TestParseFragment(t *testing.T) {
	records, err := ParseFragment(sampleFragment)
	require.NoError(t, err)
	require.Len(t, records, 6)

	// context lines advance both counters
	assert.Equal(t, model.LineContext, records[0].Kind)
	assert.Equal(t, 1, records[0].OldLine)
	assert.Equal(t, 1, records[0].NewLine)
	assert.Equal(t, "package main", records[0].Text)

	// removed line carries only the old position
	assert.Equal(t, model.LineRemoved, records[2].Kind)
	assert.Equal(t, 3, records[2].OldLine)
	assert.Equal(t, 0, records[2].NewLine)

	// added lines carry only the new position
	assert.Equal(t, model.LineAdded, records[3].Kind)
	assert.Equal(t, 0, records[3].OldLine)
	assert.Equal(t, 3, records[3].NewLine)
	assert.Equal(t, model.LineAdded, records[4].Kind)
	assert.Equal(t, 4, records[4].NewLine)

	// final context line resumes both counters
	assert.Equal(t, model.LineContext, records[5].Kind)
	assert.Equal(t, 4, records[5].OldLine)
	assert.Equal(t, 5, records[5].NewLine)
}

func TestParseFragmentHostAPIStyle(t *testing.T) {
	// host APIs return patches that start directly at the hunk header
	patch := "@@ -10,3 +10,4 @@ func run() {\n \tx := 1\n+\ty := 2\n \t_ = x\n \treturn\n"

	records, err := ParseFragment(patch)
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, 10, records[0].OldLine)
	assert.Equal(t, 10, records[0].NewLine)
	assert.Equal(t, 11, records[1].NewLine)
	assert.Equal(t, model.LineAdded, records[1].Kind)
}

func TestParseFragmentMultipleHunks(t *testing.T) {
	text := "--- a/f.py\n+++ b/f.py\n" +
		"@@ -1,2 +1,2 @@\n-a\n+b\n c\n" +
		"@@ -10,2 +10,3 @@\n x\n+y\n z\n"

	records, err := ParseFragment(text)
	require.NoError(t, err)
	require.Len(t, records, 6)

	// second hunk resets counters from its header
	assert.Equal(t, 10, records[3].OldLine)
	assert.Equal(t, 10, records[3].NewLine)
	assert.Equal(t, 11, records[4].NewLine)
	assert.Equal(t, model.LineAdded, records[4].Kind)
	assert.Equal(t, 11, records[5].OldLine)
	assert.Equal(t, 12, records[5].NewLine)
}

func TestParseFragmentEmpty(t *testing.T) {
	for _, text := range []string{"", "  \n\t\n"} {
		records, err := ParseFragment(text)
		require.NoError(t, err)
		assert.Empty(t, records)
	}
}

func TestParseFragmentHeadersOnly(t *testing.T) {
	// pure mode change: headers, no hunks
	records, err := ParseFragment("diff --git a/run.sh b/run.sh\nold mode 100644\nnew mode 100755\n")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseFragmentMalformed(t *testing.T) {
	_, err := ParseFragment("this is not a diff\njust some text\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedDiff))
}

func TestParseFragmentNoNewlineMarker(t *testing.T) {
	text := "@@ -1 +1 @@\n-old\n+new\n\\ No newline at end of file\n"
	records, err := ParseFragment(text)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "new", records[1].Text)
}

func TestRenderRoundTrip(t *testing.T) {
	records, err := ParseFragment(sampleFragment)
	require.NoError(t, err)

	out := Render(records)
	want := " package main\n \n-import \"os\"\n+import \"fmt\"\n+\n func main() {\n"
	assert.Equal(t, want, out)
}
