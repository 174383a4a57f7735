package diff

import (
	"strings"
	"testing"

	"github.com/chipkajb/mr-bot/internal/model"
)

const sampleDiff = `diff --git a/hello.go b/hello.go
new file mode 100644
index 0000000..e69de29
--- /dev/null
+++ b/hello.go
@@ -0,0 +1,5 @@
+package main
+
+import "fmt"
+
+func main() { fmt.Println("hello") }
diff --git a/readme.md b/readme.md
index abc1234..def5678 100644
--- a/readme.md
+++ b/readme.md
@@ -1,3 +1,4 @@
 # Project

-Old description
+New description
+Added line
`

func TestSplit(t *testing.T) {
	changes, err := Split(sampleDiff)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(changes))
	}

	c0 := changes[0]
	if c0.Path != "hello.go" {
		t.Errorf("expected path hello.go, got %q", c0.Path)
	}
	if c0.Kind != model.ChangeAdded {
		t.Errorf("expected added, got %s", c0.Kind)
	}
	if c0.Additions != 5 {
		t.Errorf("expected 5 additions, got %d", c0.Additions)
	}
	if !strings.HasPrefix(c0.Diff, "--- /dev/null\n+++ b/hello.go\n@@") {
		t.Errorf("unexpected fragment header:\n%s", c0.Diff)
	}

	c1 := changes[1]
	if c1.Path != "readme.md" || c1.Kind != model.ChangeModified {
		t.Errorf("unexpected change: %+v", c1)
	}
	if c1.Additions != 2 || c1.Deletions != 1 {
		t.Errorf("expected +2 -1, got +%d -%d", c1.Additions, c1.Deletions)
	}

	// the reconstructed fragment must itself parse
	records, err := ParseFragment(c1.Diff)
	if err != nil {
		t.Fatalf("ParseFragment on split output: %v", err)
	}
	if len(records) != 5 {
		t.Errorf("expected 5 records, got %d", len(records))
	}
}

func TestSplitEmpty(t *testing.T) {
	changes, err := Split("")
	if err != nil {
		t.Fatalf("Split empty failed: %v", err)
	}
	if len(changes) != 0 {
		t.Errorf("expected 0 changes, got %d", len(changes))
	}
}
