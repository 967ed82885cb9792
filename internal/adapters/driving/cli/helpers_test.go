package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/vectorstore"
	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driving"
)

// mockConverter implements driving.Converter for testing.
type mockConverter struct {
	requests []driving.ConvertRequest
	result   driving.ConvertResult
	err      error
}

func (m *mockConverter) Convert(_ context.Context, req driving.ConvertRequest) (*driving.ConvertResult, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	r := m.result
	r.OutputPath = req.OutputPath
	return &r, nil
}

// mockUploader implements driving.Uploader for testing.
type mockUploader struct {
	requests []driving.UploadRequest
	result   driving.UploadResult
	err      error
}

func (m *mockUploader) Upload(_ context.Context, req driving.UploadRequest) (*driving.UploadResult, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	r := m.result
	r.Collection = req.Collection
	return &r, nil
}

// testCLI replaces the service constructors with mocks and isolates the
// config file and environment for one test.
type testCLI struct {
	dir       string
	converter *mockConverter
	uploader  *mockUploader
	configs   []domain.RunConfig
	builds    int
}

func setupCLI(t *testing.T, env map[string]string) *testCLI {
	t.Helper()

	oldConverter, oldUploader, oldOpen, oldLookup, oldWatch := newConverter, newUploader, openVectorStore, lookupEnv, watchFile
	t.Cleanup(func() {
		newConverter, newUploader, openVectorStore, lookupEnv, watchFile = oldConverter, oldUploader, oldOpen, oldLookup, oldWatch
		resetFlags()
	})
	resetFlags()

	tc := &testCLI{
		dir:       t.TempDir(),
		converter: &mockConverter{},
		uploader:  &mockUploader{},
	}
	configPath = filepath.Join(tc.dir, "config.toml")

	lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	newConverter = func(_ context.Context, cfg *domain.RunConfig, _ io.Writer) (driving.Converter, func(), error) {
		tc.builds++
		tc.configs = append(tc.configs, *cfg)
		return tc.converter, func() {}, nil
	}
	newUploader = func(_ context.Context, cfg *domain.RunConfig, _ io.Writer) (driving.Uploader, func(), error) {
		tc.builds++
		tc.configs = append(tc.configs, *cfg)
		return tc.uploader, func() {}, nil
	}
	openVectorStore = vectorstore.CreateAndValidate
	watchFile = filesystem.Watch
	return tc
}

func resetFlags() {
	configPath = ""
	verbose = false
	backendFlag = ""
	collectionFlag = ""
	convertOutput = ""
	runOutput = ""
	watchOutput = ""
	watchDebounce = filesystem.DefaultDebounce
	watchConvertOnly = false
	inspectAll = false
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// geminiEnv satisfies the default embedding configuration.
var geminiEnv = map[string]string{"GOOGLE_API_KEY": "test-google-key"}
