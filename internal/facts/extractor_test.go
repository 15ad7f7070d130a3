package facts

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/nsexbrl/internal/domain"
	"github.com/kailas-cloud/nsexbrl/internal/taxonomy"
	"github.com/kailas-cloud/nsexbrl/internal/xbrl"
	"github.com/kailas-cloud/nsexbrl/internal/xbrltest"
)

type mockEngine struct {
	loadFn  func(ctx context.Context, path string) (*xbrl.Model, error)
	closeFn func() error
	closed  int
}

func (m *mockEngine) Load(ctx context.Context, path string) (*xbrl.Model, error) {
	return m.loadFn(ctx, path)
}

func (m *mockEngine) Close() error {
	m.closed++
	if m.closeFn != nil {
		return m.closeFn()
	}
	return nil
}

func loaderOf(e Engine) Loader {
	return LoaderFunc(func() Engine { return e })
}

func stagedFixture(t *testing.T) (xbrltest.Archive, string) {
	t.Helper()
	a := xbrltest.WriteArchive(t)
	uri := (&url.URL{Scheme: "file", Path: filepath.ToSlash(a.Entry)}).String()
	return a, xbrltest.WriteInstance(t, t.TempDir(), "filing.xml", uri)
}

func TestExtract_Fixture(t *testing.T) {
	a, path := stagedFixture(t)
	x := New(OfflineLoader(xbrl.NewFileResolver(taxonomy.New(a.Root)), nil), nil)

	fs, err := x.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, xbrltest.ExpectedFacts(), fs.Map())
	assert.Equal(t, 6, fs.Len())

	first := fs.Facts()[0]
	assert.Equal(t, "in-capmkt:NameOfTheCompany", first.QName)
	for label := range fs.Map() {
		assert.NotEmpty(t, label)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	a, path := stagedFixture(t)
	x := New(OfflineLoader(xbrl.NewFileResolver(taxonomy.New(a.Root)), nil), nil)

	first, err := x.Extract(context.Background(), path)
	require.NoError(t, err)
	second, err := x.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, first.Facts(), second.Facts())
}

func TestExtract_UnresolvedSchemaIsValidationEmpty(t *testing.T) {
	path := xbrltest.WriteInstance(t, t.TempDir(), "f.xml", "file:///nowhere/"+xbrltest.MissingSchema)
	x := New(OfflineLoader(xbrl.NewFileResolver(nil), nil), nil)

	_, err := x.Extract(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidationEmpty), "got %v", err)
	assert.Contains(t, err.Error(), xbrl.CodeUnresolvable)
}

func TestExtract_NilModel(t *testing.T) {
	e := &mockEngine{loadFn: func(context.Context, string) (*xbrl.Model, error) { return nil, nil }}
	_, err := New(loaderOf(e), nil).Extract(context.Background(), "x.xml")
	assert.Equal(t, domain.KindValidationEmpty, domain.KindOf(err))
	assert.Equal(t, 1, e.closed)
}

func TestExtract_EmptyModel(t *testing.T) {
	e := &mockEngine{loadFn: func(context.Context, string) (*xbrl.Model, error) { return &xbrl.Model{}, nil }}
	_, err := New(loaderOf(e), nil).Extract(context.Background(), "x.xml")
	assert.Equal(t, domain.KindValidationEmpty, domain.KindOf(err))
	assert.Equal(t, 1, e.closed)
}

func TestExtract_LoadFailureIsValidationEmpty(t *testing.T) {
	boom := errors.New("boom")
	e := &mockEngine{loadFn: func(context.Context, string) (*xbrl.Model, error) { return nil, boom }}
	_, err := New(loaderOf(e), nil).Extract(context.Background(), "x.xml")
	assert.True(t, errors.Is(err, domain.ErrValidationEmpty), "got %v", err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 1, e.closed)
}

func TestExtract_CanceledIsEngine(t *testing.T) {
	for _, cause := range []error{context.Canceled, context.DeadlineExceeded, xbrl.ErrClosed} {
		e := &mockEngine{loadFn: func(context.Context, string) (*xbrl.Model, error) { return nil, cause }}
		_, err := New(loaderOf(e), nil).Extract(context.Background(), "x.xml")
		assert.Equal(t, domain.KindEngine, domain.KindOf(err), "cause %v", cause)
		assert.True(t, errors.Is(err, cause))
	}
}

func TestExtract_MalformedStagedInstance(t *testing.T) {
	a, path := stagedFixture(t)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	broken := strings.Replace(string(content), "Infosys Limited", "Infosys & Limited", 1)
	require.NotEqual(t, string(content), broken)
	require.NoError(t, os.WriteFile(path, []byte(broken), 0o600))

	x := New(OfflineLoader(xbrl.NewFileResolver(taxonomy.New(a.Root)), nil), nil)
	_, err = x.Extract(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidationEmpty, domain.KindOf(err), "got %v", err)
}

func TestExtract_CloseErrorDoesNotMaskPrimary(t *testing.T) {
	boom := errors.New("boom")
	closeErr := errors.New("close failed")
	e := &mockEngine{
		loadFn:  func(context.Context, string) (*xbrl.Model, error) { return nil, boom },
		closeFn: func() error { return closeErr },
	}
	_, err := New(loaderOf(e), nil).Extract(context.Background(), "x.xml")
	assert.True(t, errors.Is(err, boom))
	assert.False(t, errors.Is(err, closeErr))
}

func TestExtract_CloseErrorSurfacesOnSuccess(t *testing.T) {
	a, path := stagedFixture(t)
	closeErr := errors.New("close failed")
	eng := xbrl.NewEngine(xbrl.Options{Validate: true, Resolver: xbrl.NewFileResolver(taxonomy.New(a.Root))})
	e := &mockEngine{
		loadFn:  eng.Load,
		closeFn: func() error { _ = eng.Close(); return closeErr },
	}
	_, err := New(loaderOf(e), nil).Extract(context.Background(), path)
	assert.True(t, errors.Is(err, closeErr))
	assert.Equal(t, domain.KindEngine, domain.KindOf(err))
}

func TestLabelFor(t *testing.T) {
	name := xbrl.QName{Space: xbrltest.Namespace, Local: "X", Prefix: "in-capmkt"}
	tests := []struct {
		name    string
		concept *xbrl.Concept
		want    string
	}{
		{"no concept", nil, "in-capmkt:X"},
		{"no labels", xbrl.NewConcept(name), "in-capmkt:X"},
		{"standard", xbrl.NewConcept(name,
			xbrl.Label{Role: xbrl.RoleVerboseLabel, Lang: "en", Text: "verbose"},
			xbrl.Label{Role: xbrl.RoleLabel, Lang: "en", Text: "standard"},
		), "standard"},
		{"verbose fallback", xbrl.NewConcept(name,
			xbrl.Label{Role: xbrl.RoleVerboseLabel, Lang: "en", Text: "verbose"},
		), "verbose"},
		{"non english ignored", xbrl.NewConcept(name,
			xbrl.Label{Role: xbrl.RoleLabel, Lang: "hi", Text: "hindi"},
		), "in-capmkt:X"},
		{"regional english", xbrl.NewConcept(name,
			xbrl.Label{Role: xbrl.RoleLabel, Lang: "en-IN", Text: "india"},
		), "india"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &xbrl.Fact{Name: name, Concept: tt.concept}
			if got := LabelFor(f); got != tt.want {
				t.Errorf("LabelFor() = %q, want %q", got, tt.want)
			}
		})
	}
}
