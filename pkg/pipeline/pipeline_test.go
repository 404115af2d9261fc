// Test Type: Integration Test
// Description: Runs the whole extraction against an in-memory filesystem
// and a mocked fetcher

package pipeline_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/arthur-debert/leakrules/pkg/decoder"
	"github.com/arthur-debert/leakrules/pkg/errors"
	"github.com/arthur-debert/leakrules/pkg/filesystem"
	"github.com/arthur-debert/leakrules/pkg/pipeline"
	"github.com/arthur-debert/leakrules/pkg/rules"
	"github.com/arthur-debert/leakrules/pkg/ruleset"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockFetcher is a mock implementation of source.Fetcher for testing
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	args := m.Called(ctx, location)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

const location = "https://example.com/gitleaks.toml"

const upstream = `
[[rules]]
id = "aws-key"
description = "AWS Key"
regex = '''AKIA[0-9A-Z]{16}'''
entropy = 3.5
keywords = ["akia"]

[[rules]]
id = "generic-api-key"
description = "generic"
regex = '''...'''
keywords = ["key"]

[[rules]]
id = "no-regex"
description = "d"
keywords = ["x"]

[[rules]]
id = "github-pat"
description = "GitHub PAT"
regex = '''ghp_[0-9a-zA-Z]{36}'''
keywords = ["ghp_"]
`

const expected = `[
    {
        "regex": "AKIA[0-9A-Z]{16}",
        "description": "AWS Key",
        "id": "aws-key",
        "keywords": [
            "akia"
        ],
        "entropy": 3.5
    },
    {
        "regex": "ghp_[0-9a-zA-Z]{36}",
        "description": "GitHub PAT",
        "id": "github-pat",
        "keywords": [
            "ghp_"
        ],
        "entropy": null
    }
]
`

func newOptions(fetcher *MockFetcher, mem afero.Fs) pipeline.Options {
	return pipeline.Options{
		Fetcher:    fetcher,
		FS:         filesystem.NewAferoFS(mem),
		Location:   location,
		Format:     decoder.FormatAuto,
		Selector:   rules.Options{},
		OutputPath: "/out/rules.json",
	}
}

func TestRun_WritesRuleSet(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, location).Return([]byte(upstream), nil)
	mem := afero.NewMemMapFs()

	result, err := pipeline.Run(context.Background(), newOptions(fetcher, mem))
	require.NoError(t, err)
	fetcher.AssertExpectations(t)

	assert.True(t, result.Written)
	assert.Equal(t, 4, result.Report.Total)
	assert.Equal(t, 2, result.Report.Kept)
	assert.Equal(t, 1, result.Report.Excluded)
	assert.Equal(t, 1, result.Report.MissingRegex)

	data, err := afero.ReadFile(mem, "/out/rules.json")
	require.NoError(t, err)
	assert.Equal(t, expected, string(data))
	assert.Equal(t, data, result.Output)

	decoded, err := ruleset.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.NotNil(t, decoded[0].Entropy)
	assert.Nil(t, decoded[1].Entropy)
}

func TestRun_Idempotent(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, location).Return([]byte(upstream), nil).Twice()
	mem := afero.NewMemMapFs()
	opts := newOptions(fetcher, mem)

	_, err := pipeline.Run(context.Background(), opts)
	require.NoError(t, err)
	first, err := afero.ReadFile(mem, opts.OutputPath)
	require.NoError(t, err)

	_, err = pipeline.Run(context.Background(), opts)
	require.NoError(t, err)
	second, err := afero.ReadFile(mem, opts.OutputPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	fetcher.AssertExpectations(t)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, location).Return([]byte(upstream), nil)
	mem := afero.NewMemMapFs()
	opts := newOptions(fetcher, mem)
	opts.DryRun = true

	result, err := pipeline.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, result.Written)
	assert.Equal(t, expected, string(result.Output))

	exists, err := afero.Exists(mem, opts.OutputPath)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRun_FailuresLeavePreviousArtifact(t *testing.T) {
	tests := []struct {
		name     string
		body     []byte
		fetchErr error
		wantCode errors.ErrorCode
	}{
		{
			name:     "source_unavailable",
			fetchErr: errors.New(errors.ErrSourceUnavailable, "connection refused"),
			wantCode: errors.ErrSourceUnavailable,
		},
		{
			name:     "decode_error",
			body:     []byte("[[rules]\nid ="),
			wantCode: errors.ErrDecode,
		},
		{
			name:     "missing_rules_key",
			body:     []byte("title = 'renamed'\n\n[[rule]]\nid = 'a'\nregex = 'x'\nkeywords = []\n"),
			wantCode: errors.ErrDecode,
		},
		{
			name:     "empty_body",
			body:     []byte{},
			wantCode: errors.ErrDecode,
		},
		{
			name:     "missing_field",
			body:     []byte("[[rules]]\nregex = 'x'\nkeywords = []\ndescription = 'no id'\n"),
			wantCode: errors.ErrMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := new(MockFetcher)
			fetcher.On("Fetch", mock.Anything, location).Return(tt.body, tt.fetchErr)
			mem := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(mem, "/out/rules.json", []byte("previous"), 0644))

			result, err := pipeline.Run(context.Background(), newOptions(fetcher, mem))
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.wantCode, errors.GetErrorCode(err))

			data, err := afero.ReadFile(mem, "/out/rules.json")
			require.NoError(t, err)
			assert.Equal(t, "previous", string(data))
		})
	}
}

func TestRun_SinkWriteError(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, location).Return([]byte(upstream), nil)
	opts := newOptions(fetcher, afero.NewReadOnlyFs(afero.NewMemMapFs()))

	_, err := pipeline.Run(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSinkWrite))
}

func TestRun_SkipPolicyAndCustomExclusions(t *testing.T) {
	body := `
[[rules]]
id = "generic-api-key"
description = "generic"
regex = 'k'
keywords = ["key"]

[[rules]]
regex = 'x'
keywords = []
description = "no id"

[[rules]]
id = "slack"
description = "Slack"
regex = 's'
keywords = []
`
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, location).Return([]byte(body), nil)
	opts := newOptions(fetcher, afero.NewMemMapFs())
	opts.Selector = rules.Options{ExcludeIDs: []string{"slack"}, MissingFields: rules.PolicySkip}

	result, err := pipeline.Run(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, result.Rules, 1)
	assert.Equal(t, "generic-api-key", result.Rules[0].ID)
	assert.Equal(t, 1, result.Report.MissingField)
	assert.Equal(t, 1, result.Report.Excluded)
}
