package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/anicoll/traci-dashboard/internal/pkg/config"
	"github.com/anicoll/traci-dashboard/internal/pkg/model"
	"github.com/anicoll/traci-dashboard/internal/pkg/presenter"
)

// listingPage renders a listing with one reading per timestamp, using the
// cell positions of the source page.
func listingPage(stamps ...time.Time) string {
	var sb strings.Builder
	sb.WriteString("<html><body><table>")
	for i, ts := range stamps {
		cells := make([]string, 24)
		cells[2] = ts.Format("150405")
		cells[10] = ts.Format("020106")
		cells[20] = fmt.Sprintf("%.1f", 20+float64(i))
		cells[21] = "45.0"
		cells[22] = "98.1"
		sb.WriteString("<tr>")
		for _, c := range cells {
			fmt.Fprintf(&sb, "<td>%s</td>", c)
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</table></body></html>")
	return sb.String()
}

func testConfig(t *testing.T, sourceURL string) *config.Config {
	t.Helper()
	return &config.Config{
		Source: config.SourceConfig{
			URL:          sourceURL,
			Name:         "traci 700042",
			FetchTimeout: 2 * time.Second,
			FieldPolicy:  "skip_row",
			TimeZone:     "UTC",
		},
		History: config.HistoryConfig{
			File:           filepath.Join(t.TempDir(), "history.csv"),
			RetentionHours: 24,
			TailSize:       10,
		},
		Server: config.ServerConfig{
			ListenAddr: "127.0.0.1:0",
		},
	}
}

func useTestLogger(t *testing.T) {
	t.Helper()
	undo := zap.ReplaceGlobals(zaptest.NewLogger(t))
	t.Cleanup(undo)
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	_, err = newLogger("loud")
	assert.Error(t, err)
}

func TestRefreshTailExport(t *testing.T) {
	useTestLogger(t)
	now := time.Now().UTC().Truncate(time.Second)
	page := listingPage(now.Add(-2*time.Minute), now.Add(-time.Minute))
	src := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer src.Close()

	ctx := context.Background()
	cfg := testConfig(t, src.URL)
	a, err := newApp(ctx, cfg, false)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, refresh(ctx, a.history, &out))
	assert.Equal(t, "extracted 2, added 2, expired 0, stored 2\n", out.String())

	out.Reset()
	require.NoError(t, refresh(ctx, a.history, &out))
	assert.Equal(t, "extracted 2, added 0, expired 0, stored 2\n", out.String())

	out.Reset()
	require.NoError(t, tail(ctx, a.history, 1, &out))
	assert.Contains(t, out.String(), now.Add(-time.Minute).Format("2006-01-02T15:04:05"))
	assert.NotContains(t, out.String(), now.Add(-2*time.Minute).Format("2006-01-02T15:04:05"))

	path := filepath.Join(t.TempDir(), presenter.ExportFileName(cfg.Source.Name, now))
	require.NoError(t, export(ctx, a.history, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestRefreshFetchFailureLeavesNoFile(t *testing.T) {
	useTestLogger(t)
	src := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer src.Close()

	ctx := context.Background()
	cfg := testConfig(t, src.URL)
	a, err := newApp(ctx, cfg, false)
	require.NoError(t, err)

	var out bytes.Buffer
	assert.Error(t, refresh(ctx, a.history, &out))
	assert.Empty(t, out.String())
	_, err = os.Stat(cfg.History.File)
	assert.True(t, os.IsNotExist(err))
}

func TestTailEmpty(t *testing.T) {
	useTestLogger(t)
	ctx := context.Background()
	a, err := newApp(ctx, testConfig(t, "http://127.0.0.1:1"), false)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, tail(ctx, a.history, 10, &out))
	assert.Equal(t, presenter.EmptyMessage+"\n", out.String())
}

func TestTail_RejectsNonPositiveCount(t *testing.T) {
	useTestLogger(t)
	ctx := context.Background()
	a, err := newApp(ctx, testConfig(t, "http://127.0.0.1:1"), false)
	require.NoError(t, err)

	for _, n := range []int{0, -3} {
		var out bytes.Buffer
		err := tail(ctx, a.history, n, &out)
		assert.ErrorContains(t, err, "must be positive")
		assert.Empty(t, out.String())
	}
}

func TestNewApp_InvalidFieldPolicy(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Source.FieldPolicy = "ignore"
	_, err := newApp(context.Background(), cfg, false)
	assert.Error(t, err)
}

func TestServe_StopsOnCancel(t *testing.T) {
	useTestLogger(t)
	ctx, cancel := context.WithCancel(context.Background())
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Server.RefreshSchedule = "*/5 * * * *"
	a, err := newApp(ctx, cfg, false)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, cfg, a)
	}()
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

func TestRunCron_InvalidSchedule(t *testing.T) {
	err := runCron(context.Background(), time.UTC, "every tuesday", func() {})
	assert.ErrorContains(t, err, "every tuesday")
}

type fakeArchive struct {
	before []time.Time
}

func (f *fakeArchive) GetReadings(context.Context, time.Time, time.Time) (model.Records, error) {
	return nil, nil
}

func (f *fakeArchive) Cleanup(_ context.Context, before time.Time) error {
	f.before = append(f.before, before)
	return nil
}

func TestCronArchiveCleanup_RunsOnStart(t *testing.T) {
	useTestLogger(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	archive := &fakeArchive{}
	cfg := config.DatabaseConfig{RetentionDays: 30, CleanupSchedule: "0 3 * * *"}
	require.NoError(t, cronArchiveCleanup(ctx, cfg, time.UTC, archive))

	require.Len(t, archive.before, 1)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -30), archive.before[0], time.Minute)
}
