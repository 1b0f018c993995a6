package static

import (
	"io/fs"
	"strings"
	"testing"
)

func readAsset(t *testing.T, name string) string {
	t.Helper()
	data, err := fs.ReadFile(FS, name)
	if err != nil {
		t.Fatalf("ReadFile(%q) error = %v", name, err)
	}
	return string(data)
}

func TestAssetsEmbedded(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"app.css", "app.js"} {
		if readAsset(t, name) == "" {
			t.Fatalf("%s is empty", name)
		}
	}
}

func TestScriptRestoresBusyFormsOnPageShow(t *testing.T) {
	t.Parallel()

	script := readAsset(t, "app.js")
	pageshow := script[strings.Index(script, `"pageshow"`):]
	for _, want := range []string{"clearBusy", "clearListLoading"} {
		if !strings.Contains(pageshow, want) {
			t.Fatalf("pageshow handler does not call %s", want)
		}
	}
	clear := script[strings.Index(script, "function clearBusy"):]
	clear = clear[:strings.Index(clear, "\n  }\n")]
	for _, want := range []string{"button.disabled = false", "button.dataset.idleLabel", "delete form.dataset.busy"} {
		if !strings.Contains(clear, want) {
			t.Fatalf("clearBusy missing %q", want)
		}
	}
	if !strings.Contains(script, "button.dataset.idleLabel = button.textContent") {
		t.Fatal("markBusy should remember the idle label")
	}
}
