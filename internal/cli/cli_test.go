package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testdataPath(rel string) string {
	return filepath.Join("testdata", rel)
}

// writeConfig writes a config file so tests do not pick up the developer's
// own slicerform.yaml.
func writeConfig(t *testing.T, girderURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slicerform.yaml")
	body := "log:\n  level: error\n"
	if girderURL != "" {
		body += "girder:\n  url: " + girderURL + "\n"
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// execute runs the root command and returns stdout.
func execute(t *testing.T, girderURL string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", writeConfig(t, girderURL)}, args...))
	err := root.Execute()
	return out.String(), err
}

// fakeGirder records run submissions and serves a canned job.
type fakeGirder struct {
	mu        sync.Mutex
	submitted url.Values
}

func (f *fakeGirder) start(t *testing.T) string {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/slicer_cli_web/smooth/run", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.submitted = r.PostForm
		f.mu.Unlock()
		w.Write([]byte(`{"_id": "job1", "title": "Smooth Image", "type": "slicer_cli_web", "status": 0}`))
	})
	mux.HandleFunc("GET /api/v1/job/job1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"_id": "job1", "title": "Smooth Image", "type": "slicer_cli_web_batch", "status": 820}`))
	})
	mux.HandleFunc("GET /api/v1/job/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "Invalid job id", "type": "rest"}`))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts.URL + "/api/v1"
}

func TestParseCmd(t *testing.T) {
	out, err := execute(t, "", "parse", "--return-parameter-file", testdataPath("smooth.xml"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var data struct {
		Specification struct {
			Executable struct {
				Title string `json:"title"`
			} `json:"executable"`
			Panels []json.RawMessage `json:"panels"`
		} `json:"specification"`
		Outputs struct {
			Params map[string]string `json:"params"`
		} `json:"outputs"`
	}
	if err := json.Unmarshal([]byte(out), &data); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if data.Specification.Executable.Title != "Smooth Image" || len(data.Specification.Panels) != 3 {
		t.Errorf("unexpected specification: %s", out)
	}
	if data.Outputs.Params["peaks"] != "number" {
		t.Errorf("expected peaks output, got %v", data.Outputs.Params)
	}
}

func TestDescribeCmd(t *testing.T) {
	out, err := execute(t, "", "describe", testdataPath("smooth.xml"))
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	for _, want := range []string{"Smooth Image 0.2.0", "Category: Filtering", "sigma", "min=0 max=10", "ext .tiff|.png", "(advanced)"} {
		if !strings.Contains(out, want) {
			t.Errorf("describe output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "", "describe", "--notes", testdataPath("smooth.xml"))
	if err != nil {
		t.Fatalf("describe --notes: %v", err)
	}
	if !strings.Contains(out, "Version: 0.2.0") {
		t.Errorf("notes missing version:\n%s", out)
	}
}

func TestOpenAPICmd(t *testing.T) {
	out, err := execute(t, "", "openapi", "-o", "yaml", "--rest-path", "slicer_cli_web/smooth", testdataPath("smooth.xml"))
	if err != nil {
		t.Fatalf("openapi: %v", err)
	}
	for _, want := range []string{"openapi: 3.0.3", "/slicer_cli_web/smooth/run:", "mask_folder"} {
		if !strings.Contains(out, want) {
			t.Errorf("openapi output missing %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, "", "openapi", testdataPath("smooth.xml")); err == nil {
		t.Errorf("expected error without rest path")
	}
}

func TestConvertCmd(t *testing.T) {
	out, err := execute(t, "", "convert", testdataPath("smooth.yaml"))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(out, "<executable>") || !strings.Contains(out, "<name>sigma</name>") {
		t.Errorf("unexpected xml:\n%s", out)
	}
}

func TestRunCmd_DryRun(t *testing.T) {
	out, err := execute(t, "", "run", "--dry-run",
		"--values", testdataPath("values.yaml"),
		"--set", "input=5f00",
		"--set", "fast=true",
		"--set", "mask=smoothed.tiff",
		"--set", "mask_folder=f1",
		testdataPath("smooth.xml"),
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode values: %v\n%s", err, out)
	}
	want := map[string]string{
		"input":       "5f00",
		"mask":        "smoothed.tiff",
		"mask_folder": "f1",
		"sigma":       "2",
		"fast":        "true",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestRunCmd_Invalid(t *testing.T) {
	_, err := execute(t, "", "run", "--dry-run", "--set", "sigma=42", testdataPath("smooth.xml"))
	if err == nil || !strings.Contains(err.Error(), "Sigma") || !strings.Contains(err.Error(), "Output") {
		t.Fatalf("expected invalid Sigma and Output, got %v", err)
	}

	if _, err := execute(t, "", "run", "--dry-run", "--set", "nope", testdataPath("smooth.xml")); err == nil {
		t.Fatalf("expected malformed --set error")
	}
	if _, err := execute(t, "", "run", testdataPath("smooth.xml")); err == nil {
		t.Fatalf("expected error without girder url")
	}
}

func TestRunCmd_Submit(t *testing.T) {
	fake := &fakeGirder{}
	girderURL := fake.start(t)

	out, err := execute(t, girderURL, "run",
		"--rest-path", "slicer_cli_web/smooth",
		"--set", "input=5f00",
		"--set", "mask=smoothed.tiff",
		"--set", "mask_folder=f1",
		testdataPath("smooth.xml"),
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Job:    job1") {
		t.Errorf("unexpected output:\n%s", out)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if got := fake.submitted.Get("sigma"); got != "1.5" {
		t.Errorf("sigma = %q, want 1.5", got)
	}
	if got := fake.submitted.Get("mask_folder"); got != "f1" {
		t.Errorf("mask_folder = %q, want f1", got)
	}
}

func TestJobCmd(t *testing.T) {
	girderURL := (&fakeGirder{}).start(t)

	out, err := execute(t, girderURL, "job", "status", "job1")
	if err != nil {
		t.Fatalf("job status: %v", err)
	}
	for _, want := range []string{"Status:     fetching input", "Cancelable: true"} {
		if !strings.Contains(out, want) {
			t.Errorf("job output missing %q:\n%s", want, out)
		}
	}

	_, err = execute(t, girderURL, "job", "status", "missing")
	if err == nil || !strings.Contains(err.Error(), "Invalid job id") {
		t.Fatalf("expected girder error, got %v", err)
	}
}

func TestLintCmd(t *testing.T) {
	out, err := execute(t, "", "lint", testdataPath("smooth.xml"))
	if err != nil {
		t.Fatalf("lint clean file: %v\n%s", err, out)
	}

	out, err = execute(t, "", "lint", testdataPath("smooth.xml"), testdataPath("lint.xml"))
	if err == nil {
		t.Fatalf("expected lint failure")
	}
	for _, want := range []string{
		"lint.xml: error panels[0].groups[0].parameters[1] -> radius: duplicate parameter id",
		"lint.xml: warning panels[0].groups[0].parameters[2] -> seed: parameter has no flag, longflag or index",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("lint output missing %q:\n%s", want, out)
		}
	}
}
