package boathouse

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/outings"
	"github.com/dmitrijs2005/boathouse/internal/common"
	"github.com/dmitrijs2005/boathouse/internal/config"
	"github.com/dmitrijs2005/boathouse/internal/logging"
	"github.com/dmitrijs2005/boathouse/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, metricsAddr string) *App {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = ":memory:"
	cfg.MetricsAddr = metricsAddr

	app, err := NewApp(context.Background(), cfg, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestNewApp_EndToEnd(t *testing.T) {
	app := newTestApp(t, "")
	ctx := context.Background()

	boat, err := app.Boats.AddBoat(ctx, &models.Boat{Name: "Emma", Seats: 4})
	require.NoError(t, err)
	m, err := app.Members.AddMember(ctx, &models.Member{FirstName: "Ann"})
	require.NoError(t, err)

	tod, err := timex.ParseTimeOfDay("08:15")
	require.NoError(t, err)
	o := &models.Outing{Day: timex.NewDate(2023, 6, 1), TimeOut: tod, Boat: boat, Distance: 14}
	o.Seats[0] = m
	_, err = app.Outings.AddOuting(ctx, o)
	require.NoError(t, err)

	stats, err := app.Statistics.MemberStatistics(ctx, outings.Query{From: timex.YearStart(2023), To: timex.YearEnd(2023)})
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 14, stats[0].Distance)
}

func TestNewApp_RootOnlyAdmins(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = ":memory:"
	cfg.RootOnlyAdmins = true

	ctx := context.Background()
	app, err := NewApp(ctx, cfg, logging.NewNopLogger())
	require.NoError(t, err)
	defer app.Close()

	_, err = app.Admins.AddCredential(ctx, "alice", "pw", false, []string{"outings"})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	a, err := app.Admins.GetCredential(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, a, "refused permission set must roll back the admin row")

	_, err = app.Admins.AddCredential(ctx, "root", "pw", true, nil)
	require.NoError(t, err)
}

func TestNewApp_BadDSN(t *testing.T) {
	cfg := &config.Config{DatabaseDSN: "file:/dev/null/nope/boathouse.db"}
	_, err := NewApp(context.Background(), cfg, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestRun_ServesMetricsUntilCancelled(t *testing.T) {
	app := newTestApp(t, "127.0.0.1:0")

	addrCh := make(chan net.Addr, 1)
	app.metricsReady = func(a net.Addr) { addrCh <- a }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	var addr net.Addr
	select {
	case addr = <-addrCh:
	case <-time.After(2 * time.Second):
		t.Fatal("metrics endpoint not ready")
	}

	_, err := app.Boats.AddBoat(context.Background(), &models.Boat{Name: "Hope", Seats: 1})
	require.NoError(t, err)
	_, err = app.Outings.GetOutingsByDay(context.Background(), timex.NewDate(2023, 1, 1))
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr.String())
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), `boathouse_operations_total{operation="get_outings_by_day",status="success"} 1`)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
