package document

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/fakeyudi/snipdoc/internal/batch"
	"github.com/fakeyudi/snipdoc/internal/config"
	"github.com/fakeyudi/snipdoc/internal/extract"
	"github.com/fakeyudi/snipdoc/internal/report"
	"github.com/fakeyudi/snipdoc/internal/sink"
)

func TestParseUnitsAndSections(t *testing.T) {
	doc := "### Core\n\n" +
		"# File: main.go\n```go\n# File: not-a-unit\n### not a section\n```\n\n" +
		"# File: lib.py (lines 1-2, 9-10)\n```python\nx\n```\n\n" +
		"### Diffs\n\n" +
		"# File: a.go (diff=HEAD~1..HEAD)\n```diff\n+x\n```\n\n"

	got, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Size != int64(len(doc)) {
		t.Errorf("Size: want %d, got %d", len(doc), got.Size)
	}
	want := []Unit{
		{Section: "Core", Path: "main.go", Lang: "go"},
		{Path: "lib.py", Selector: "lines 1-2, 9-10", Lang: "python"},
		{Section: "Diffs", Path: "a.go", Selector: "diff=HEAD~1..HEAD", Lang: "diff"},
	}
	if len(got.Units) != len(want) {
		t.Fatalf("want %d units, got %d: %+v", len(want), len(got.Units), got.Units)
	}
	var sum int64
	for i, w := range want {
		u := got.Units[i]
		if u.Section != w.Section || u.Path != w.Path || u.Selector != w.Selector || u.Lang != w.Lang {
			t.Errorf("unit %d: want %+v, got %+v", i, w, u)
		}
		sum += u.Bytes
	}
	if sum != got.Size {
		t.Errorf("unit bytes should cover the document: sum %d, size %d", sum, got.Size)
	}
}

// A header belongs only to the unit right after it.
func TestParseSectionNotCarriedForward(t *testing.T) {
	doc := "### Intro\n\n# File: a.go\n```go\na\n```\n\n" +
		"# File: b.go\n```go\nb\n```\n\n" +
		"### Outro\n\n# File: c.go\n```go\nc\n```\n\n"
	got, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Intro", "", "Outro"}
	if len(got.Units) != len(want) {
		t.Fatalf("want %d units, got %+v", len(want), got.Units)
	}
	for i, w := range want {
		if got.Units[i].Section != w {
			t.Errorf("unit %d (%s): want section %q, got %q", i, got.Units[i].Path, w, got.Units[i].Section)
		}
	}
	if got.Units[0].Bytes != int64(strings.Index(doc, "# File: b.go")) {
		t.Errorf("first unit should span its header: %d bytes", got.Units[0].Bytes)
	}
}

func TestParseLongerFences(t *testing.T) {
	doc := "# File: README.md\n````markdown\n```go\n# File: inner\n```\n````\n\n# File: b.txt\n```text\nb\n```\n\n"
	got, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Units) != 2 || got.Units[1].Path != "b.txt" {
		t.Fatalf("nested fence confused the parser: %+v", got.Units)
	}
}

func TestParseRejectsPlainMarkdown(t *testing.T) {
	_, err := Parse([]byte("# Title\n\nJust prose.\n"))
	if !errors.Is(err, ErrNotDocument) {
		t.Fatalf("want ErrNotDocument, got %v", err)
	}
}

func TestParseEmpty(t *testing.T) {
	got, err := Parse(nil)
	if err != nil || got.Size != 0 || len(got.Units) != 0 {
		t.Fatalf("want empty document, got %+v, %v", got, err)
	}
}

// Documents assembled by batch parse back into the same units in order,
// whatever the files contain.
func TestParseAssembledDocument(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dir := t.TempDir()
		n := rapid.IntRange(1, 6).Draw(rt, "n")
		var files []string
		for i := 0; i < n; i++ {
			name := rapid.SampledFrom([]string{"a.go", "b.md", "c.py", "d.txt"}).Draw(rt, "name")
			name = strings.Replace(name, ".", "_"+string(rune('a'+i))+".", 1)
			content := rapid.StringMatching("(```|# File: x|### y|[a-z ]{0,10}|\n){0,12}").Draw(rt, "content")
			if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
				rt.Fatal(err)
			}
			files = append(files, name)
		}

		out := filepath.Join(dir, "out.md")
		asm := &batch.Assembler{
			Extractor: &extract.Extractor{WorkDir: dir},
			Sink:      sink.NewFile(out),
			Reporter:  report.New(&strings.Builder{}, false),
		}
		plan := batch.FromSections([]config.Section{{Header: "All", Files: files}})
		if _, err := asm.Run(context.Background(), plan); err != nil {
			rt.Fatalf("Run: %v", err)
		}

		data, err := os.ReadFile(out)
		if err != nil {
			rt.Fatal(err)
		}
		doc, err := Parse(data)
		if err != nil {
			rt.Fatalf("Parse: %v", err)
		}
		if len(doc.Units) != len(files) {
			rt.Fatalf("want %d units, got %d\n%s", len(files), len(doc.Units), data)
		}
		for i, f := range files {
			section := ""
			if i == 0 {
				section = "All"
			}
			if doc.Units[i].Path != f || doc.Units[i].Section != section {
				rt.Fatalf("unit %d: want %s with section %q, got %+v", i, f, section, doc.Units[i])
			}
		}
	})
}
