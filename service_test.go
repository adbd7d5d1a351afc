package buildprune_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	slogcontext "github.com/veqryn/slog-context"
	"github.com/viant/buildprune"
	"github.com/viant/buildprune/analyzer"
	"github.com/viant/buildprune/config"
	"github.com/viant/buildprune/inspector/info"
	"github.com/viant/buildprune/remover"
)

type fixture struct {
	dir string
	t   *testing.T
}

func (f *fixture) write(relative, content string, modTime int64) string {
	f.t.Helper()
	location := filepath.Join(f.dir, filepath.FromSlash(relative))
	require.NoError(f.t, os.MkdirAll(filepath.Dir(location), 0o755))
	require.NoError(f.t, os.WriteFile(location, []byte(content), 0o644))
	ts := time.Unix(modTime, 0)
	require.NoError(f.t, os.Chtimes(location, ts, ts))
	return location
}

func newProject(t *testing.T) *fixture {
	f := &fixture{dir: t.TempDir(), t: t}
	f.write("pom.xml", "<project><groupId>org.bsplines</groupId><artifactId>demo</artifactId></project>", 10)
	f.write("src/main/java/org/bsplines/a/Foo.java", "package org.bsplines.a;\n\npublic class Foo {}\n", 100)
	f.write("src/main/java/org/bsplines/a/Bar.java", "package org.bsplines.a;\n\nimport java.util.List;\nimport org.bsplines.a.Foo;\n\npublic class Bar {}\n", 100)
	f.write("src/main/java/org/bsplines/a/Baz.java", "package org.bsplines.a;\n\npublic class Baz {}\n", 100)
	return f
}

func resolve(t *testing.T, dir string, cfg *config.Config) *config.Config {
	t.Helper()
	require.NoError(t, cfg.Resolve(context.Background(), dir))
	return cfg
}

func TestService_Run(t *testing.T) {
	f := newProject(t)
	foo := f.write("target/classes/org/bsplines/a/Foo.class", "foo", 50)
	bar := f.write("target/classes/org/bsplines/a/Bar.class", "bar", 200)
	barInner := f.write("target/classes/org/bsplines/a/Bar$1.class", "bar$1", 200)
	baz := f.write("target/classes/org/bsplines/a/Baz.class", "baz", 200)
	removed := f.write("target/classes/old/Removed.class", "removed", 200)

	out := &bytes.Buffer{}
	plan, err := buildprune.New(resolve(t, f.dir, &config.Config{}), out).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []info.UnitName{"old.Removed", "org.bsplines.a.Bar", "org.bsplines.a.Bar$1", "org.bsplines.a.Foo"}, plan.Units())
	assert.Equal(t, analyzer.ReasonStale, plan.Lookup("org.bsplines.a.Foo").Reason)
	assert.Equal(t, info.UnitName("org.bsplines.a.Foo"), plan.Lookup("org.bsplines.a.Bar").Via)

	assert.Equal(t, []string{
		"Removing '" + removed + "' as its source file doesn't exist anymore...",
		"Removing '" + bar + "' as it imports 'org.bsplines.a.Foo'...",
		"Removing '" + barInner + "' as it imports 'org.bsplines.a.Foo'...",
		"Removing '" + foo + "' as its source file is newer...",
	}, strings.Split(strings.TrimSpace(out.String()), "\n"))
	for _, location := range []string{foo, bar, barInner, removed} {
		assert.NoFileExists(t, location)
	}
	assert.FileExists(t, baz)

	out.Reset()
	plan, err = buildprune.New(resolve(t, f.dir, &config.Config{}), out).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, plan.IsEmpty())
	assert.Equal(t, remover.UpToDate+"\n", out.String())
}

func TestService_DryRun(t *testing.T) {
	f := newProject(t)
	foo := f.write("target/classes/org/bsplines/a/Foo.class", "foo", 50)

	out := &bytes.Buffer{}
	plan, err := buildprune.New(resolve(t, f.dir, &config.Config{DryRun: true}), out).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []info.UnitName{"org.bsplines.a.Foo"}, plan.Units())
	assert.Contains(t, out.String(), "stale")
	assert.FileExists(t, foo)
}

func TestService_Plan(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		f := newProject(t)
		foo := f.write("target/classes/org/bsplines/a/Foo.class", "foo", 50)
		cfg := resolve(t, f.dir, &config.Config{
			Artifacts: config.Tree{Roots: []string{"target/classes", "target/missing"}},
		})
		_, err := buildprune.New(cfg, &bytes.Buffer{}).Run(context.Background())
		var configErr *info.ConfigError
		require.True(t, errors.As(err, &configErr))
		assert.FileExists(t, foo)
	})

	t.Run("missing sentinel", func(t *testing.T) {
		f := newProject(t)
		foo := f.write("out/org/bsplines/a/Foo.class", "foo", 50)
		cfg := resolve(t, f.dir, &config.Config{
			Artifacts: config.Tree{Roots: []string{"out"}},
			Sentinels: []string{"never-present"},
		})
		_, err := buildprune.New(cfg, &bytes.Buffer{}).Run(context.Background())
		var configErr *info.ConfigError
		require.True(t, errors.As(err, &configErr))
		assert.FileExists(t, foo)
	})

	t.Run("fixpoint", func(t *testing.T) {
		f := newProject(t)
		f.write("src/main/java/org/bsplines/a/Qux.java", "package org.bsplines.a;\nimport org.bsplines.a.Bar;\nclass Qux {}\n", 100)
		f.write("target/classes/org/bsplines/a/Foo.class", "foo", 50)
		f.write("target/classes/org/bsplines/a/Bar.class", "bar", 200)
		f.write("target/classes/org/bsplines/a/Qux.class", "qux", 200)

		single, err := buildprune.New(resolve(t, f.dir, &config.Config{}), &bytes.Buffer{}).Plan(context.Background())
		require.NoError(t, err)
		assert.Nil(t, single.Lookup("org.bsplines.a.Qux"))

		fixpoint, err := buildprune.New(resolve(t, f.dir, &config.Config{Propagation: "fixpoint"}), &bytes.Buffer{}).Plan(context.Background())
		require.NoError(t, err)
		assert.Equal(t, info.UnitName("org.bsplines.a.Bar"), fixpoint.Lookup("org.bsplines.a.Qux").Via)
	})

	t.Run("duplicate source unit", func(t *testing.T) {
		f := newProject(t)
		mainFoo := filepath.Join(f.dir, "src", "main", "java", "org", "bsplines", "a", "Foo.java")
		testFoo := f.write("src/test/java/org/bsplines/a/Foo.java", "package org.bsplines.a;\n\npublic class Foo {}\n", 300)
		f.write("target/classes/org/bsplines/a/Foo.class", "foo", 200)

		logs := &bytes.Buffer{}
		ctx := slogcontext.NewCtx(context.Background(), slog.New(slog.NewJSONHandler(logs, nil)))
		plan, err := buildprune.New(resolve(t, f.dir, &config.Config{}), &bytes.Buffer{}).Plan(ctx)
		require.NoError(t, err)
		assert.Equal(t, analyzer.ReasonStale, plan.Lookup("org.bsplines.a.Foo").Reason)

		warnings := warnRecords(t, logs)
		require.Len(t, warnings, 1)
		assert.Equal(t, "org.bsplines.a.Foo", warnings[0]["unit"])
		assert.Equal(t, mainFoo, warnings[0]["previous"])
		assert.Equal(t, testFoo, warnings[0]["current"])
		assert.Equal(t, true, warnings[0]["identical"])
	})

	t.Run("duplicate source unit with different content", func(t *testing.T) {
		f := newProject(t)
		f.write("src/test/java/org/bsplines/a/Foo.java", "package org.bsplines.a;\n\nclass Foo { int x; }\n", 100)
		f.write("target/classes/org/bsplines/a/Foo.class", "foo", 200)

		logs := &bytes.Buffer{}
		ctx := slogcontext.NewCtx(context.Background(), slog.New(slog.NewJSONHandler(logs, nil)))
		_, err := buildprune.New(resolve(t, f.dir, &config.Config{}), &bytes.Buffer{}).Plan(ctx)
		require.NoError(t, err)
		warnings := warnRecords(t, logs)
		require.Len(t, warnings, 1)
		assert.Equal(t, false, warnings[0]["identical"])
	})

	t.Run("duplicate artifact unit", func(t *testing.T) {
		f := newProject(t)
		mainFoo := f.write("target/classes/org/bsplines/a/Foo.class", "foo", 200)
		testFoo := f.write("target/test-classes/org/bsplines/a/Foo.class", "foo", 50)

		logs := &bytes.Buffer{}
		ctx := slogcontext.NewCtx(context.Background(), slog.New(slog.NewJSONHandler(logs, nil)))
		plan, err := buildprune.New(resolve(t, f.dir, &config.Config{}), &bytes.Buffer{}).Plan(ctx)
		require.NoError(t, err)
		entry := plan.Lookup("org.bsplines.a.Foo")
		require.NotNil(t, entry)
		assert.Equal(t, testFoo, entry.Path)

		warnings := warnRecords(t, logs)
		require.Len(t, warnings, 1)
		assert.Equal(t, "org.bsplines.a.Foo", warnings[0]["unit"])
		assert.Equal(t, mainFoo, warnings[0]["previous"])
		assert.Equal(t, testFoo, warnings[0]["current"])
	})
}

func TestService_NoNesting(t *testing.T) {
	f := newProject(t)
	f.write("target/classes/org/bsplines/a/Foo.class", "foo", 200)
	inner := f.write("target/classes/org/bsplines/a/Foo$1.class", "foo$1", 200)
	f.write("src/main/java/other/Ext.java", "package other;\nimport other.lib.Missing;\nclass Ext {}\n", 100)
	f.write("target/classes/other/Ext.class", "ext", 200)
	f.write("target/classes/other/lib/Missing.class", "missing", 200)

	plan, err := buildprune.New(resolve(t, f.dir, &config.Config{}), &bytes.Buffer{}).Plan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []info.UnitName{"other.lib.Missing"}, plan.Units())

	plan, err = buildprune.New(resolve(t, f.dir, &config.Config{Separator: config.None, Namespace: config.None}), &bytes.Buffer{}).Plan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []info.UnitName{"org.bsplines.a.Foo$1", "other.Ext", "other.lib.Missing"}, plan.Units())
	assert.Equal(t, analyzer.ReasonOrphaned, plan.Lookup("org.bsplines.a.Foo$1").Reason)
	assert.Equal(t, inner, plan.Lookup("org.bsplines.a.Foo$1").Path)
	assert.Equal(t, info.UnitName("other.lib.Missing"), plan.Lookup("other.Ext").Via)
}

func TestService_Gradle(t *testing.T) {
	f := &fixture{dir: t.TempDir(), t: t}
	f.write("build.gradle", "plugins { id 'java' }\ngroup = 'com.acme'\n", 10)
	app := f.write("src/main/java/com/acme/main/App.java", "package com.acme.main;\n\npublic class App {}\n", 100)
	f.write("src/test/java/com/acme/test/AppTest.java", "package com.acme.test;\n\nimport com.acme.main.App;\n\nclass AppTest {}\n", 100)
	appClass := f.write("build/classes/java/main/com/acme/main/App.class", "app", 200)
	appTestClass := f.write("build/classes/java/test/com/acme/test/AppTest.class", "apptest", 200)

	out := &bytes.Buffer{}
	plan, err := buildprune.New(resolve(t, f.dir, &config.Config{}), out).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, plan.IsEmpty(), "%v", plan.Units())
	assert.Equal(t, remover.UpToDate+"\n", out.String())
	assert.FileExists(t, appClass)
	assert.FileExists(t, appTestClass)

	ts := time.Unix(300, 0)
	require.NoError(t, os.Chtimes(app, ts, ts))
	out.Reset()
	plan, err = buildprune.New(resolve(t, f.dir, &config.Config{}), out).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []info.UnitName{"com.acme.main.App", "com.acme.test.AppTest"}, plan.Units())
	assert.Equal(t, info.UnitName("com.acme.main.App"), plan.Lookup("com.acme.test.AppTest").Via)
	assert.NoFileExists(t, appClass)
	assert.NoFileExists(t, appTestClass)
}

func warnRecords(t *testing.T, logs *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var result []map[string]interface{}
	scanner := bufio.NewScanner(logs)
	for scanner.Scan() {
		record := map[string]interface{}{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
		if record["level"] == "WARN" {
			result = append(result, record)
		}
	}
	return result
}
