package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vmunix/paheq/internal/app"
	"github.com/vmunix/paheq/internal/config"
	"github.com/vmunix/paheq/internal/metadata"
)

const fakeScript = `#!/bin/sh
while [ $# -gt 0 ]; do
  case "$1" in
    -e) ep="$2"; shift ;;
  esac
  shift
done
echo "fetching $ep"
[ "$ep" = "3" ] && exit 2
exit 0
`

// testSession builds a session around a work directory holding a fake
// fetch script and metadata for "Frieren" (session abc, episodes 1-4).
// Episode 3 always fails.
func testSession(t *testing.T) *session {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "animepahe-dl.sh"), []byte(fakeScript), 0o755))

	show := filepath.Join(dir, "Frieren")
	require.NoError(t, os.MkdirAll(show, 0o755))
	src := `{"episodes":[{"episode":1,"session":"abc"},{"episode":2},{"episode":3},{"episode":4}]}`
	require.NoError(t, os.WriteFile(filepath.Join(show, metadata.SourceFile), []byte(src), 0o644))

	cfg := config.Default()
	cfg.Fetch.Shell = "/bin/sh"
	cfg.Fetch.WorkDir = dir

	s := &session{App: app.New(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))}
	t.Cleanup(func() { _ = s.Close() })
	return s
}
