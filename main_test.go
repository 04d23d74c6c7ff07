package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/Nydauron/fms2tba/internal/config"
	"github.com/Nydauron/fms2tba/prompts"
	"github.com/Nydauron/fms2tba/tba"
	"github.com/Nydauron/fms2tba/writers"
)

const reportCSV = `Rank,Team,Ranking Score,End Game,Auto,Ownership,Vault,W-L-T,DQ,Played
1,254,100,50,30,20,10,9-1-0,0,10
2,1114,90,45,25,15,5,8-2-0,0,10
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeReport(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rankings.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func decodePayload(t *testing.T, data []byte) tba.RankingsUpdate {
	t.Helper()
	var payload tba.RankingsUpdate
	require.NoError(t, json.Unmarshal(data, &payload))
	return payload
}

func TestCliHandle_File(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := cliHandle(context.Background(), discardLogger(), options{
		inputLocation: writeReport(t, reportCSV),
		isCSV:         true,
		year:          2018,
		eventCode:     "2018casj",
		format:        writers.FormatJSON,
	}, &out)
	require.NoError(t, err)

	payload := decodePayload(t, out.Bytes())
	assert.Equal(t, "2018casj", payload.EventKey)
	assert.Equal(t, []string{"Ranking Score", "End Game", "Auto", "Ownership", "Vault", "Record (W-L-T)"}, payload.Breakdowns)
	require.Len(t, payload.Rankings, 2)
	assert.Equal(t, "frc254", payload.Rankings[0]["team_key"])
	assert.Equal(t, "9-1-0", payload.Rankings[0]["Record (W-L-T)"])
	assert.Equal(t, 10.0, payload.Rankings[0]["Vault"])
}

func TestCliHandle_URL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rankings" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=UTF-8")
		io.WriteString(w, `<table><tr><th>Rank</th><th>Team</th><th>RS</th></tr><tr><td>1</td><td>frc2056</td><td>3.5</td></tr></table>`)
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := cliHandle(context.Background(), discardLogger(), options{
		inputLocation: srv.URL + "/rankings",
		year:          2022,
		eventCode:     "2022onham",
		format:        writers.FormatJSON,
		httpTimeout:   5 * time.Second,
	}, &out)
	require.NoError(t, err)

	payload := decodePayload(t, out.Bytes())
	require.Len(t, payload.Rankings, 1)
	assert.Equal(t, "frc2056", payload.Rankings[0]["team_key"])
	assert.Equal(t, 3.5, payload.Rankings[0]["Ranking Score"])

	err = cliHandle(context.Background(), discardLogger(), options{
		inputLocation: srv.URL + "/missing",
		year:          2022,
		format:        writers.FormatJSON,
		httpTimeout:   5 * time.Second,
	}, io.Discard)
	var exitErr cli.ExitCoder
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, exitFetch, exitErr.ExitCode())
}

func TestCliHandle_Errors(t *testing.T) {
	t.Parallel()

	err := cliHandle(context.Background(), discardLogger(), options{
		inputLocation: filepath.Join(t.TempDir(), "nope.csv"),
		year:          2018,
		format:        writers.FormatJSON,
	}, io.Discard)
	assert.ErrorContains(t, err, "neither a valid URL or a path")

	err = cliHandle(context.Background(), discardLogger(), options{
		inputLocation: writeReport(t, "Rank,Team\nx,254\n"),
		isCSV:         true,
		year:          2018,
		format:        writers.FormatJSON,
	}, io.Discard)
	var exitErr cli.ExitCoder
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, exitParse, exitErr.ExitCode())

	err = cliHandle(context.Background(), discardLogger(), options{
		inputLocation: writeReport(t, reportCSV),
		isCSV:         true,
		year:          2021,
		format:        writers.FormatJSON,
	}, io.Discard)
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, exitConvert, exitErr.ExitCode())
}

func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cfg, err := config.LoadFrom(map[string]string{"FMS2TBA_LOG_LEVEL": "error"})
	require.NoError(t, err)

	var out bytes.Buffer
	app := newApp(cfg, prompts.New(strings.NewReader(stdin), io.Discard))
	app.Writer = &out
	app.ExitErrHandler = func(*cli.Context, error) {}
	err = app.Run(append([]string{"fms2tba"}, args...))
	return out.String(), err
}

func TestApp_WritesOutputFile(t *testing.T) {
	t.Parallel()

	outPath := filepath.Join(t.TempDir(), "out.yaml")
	_, err := runApp(t, "2019casj\n2018\n", "--csv", "-i", writeReport(t, reportCSV), "-o", outPath, "--format", "yaml")
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "team_key: frc1114")
	assert.Contains(t, string(data), "Record (W-L-T): 9-1-0")
	assert.Contains(t, string(data), "event_key: 2019casj")
}

func TestApp_PrefixesBareEventCode(t *testing.T) {
	t.Parallel()

	outPath := filepath.Join(t.TempDir(), "out.json")
	_, err := runApp(t, "", "--csv", "-i", writeReport(t, reportCSV), "-o", outPath, "-e", "CASJ", "-y", "2018")
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	payload := decodePayload(t, data)
	assert.Equal(t, "2018casj", payload.EventKey)
	assert.Len(t, payload.Rankings, 2)
}

type failingCloser struct{ err error }

func (c failingCloser) Close() error { return c.err }

func TestCloseOutput(t *testing.T) {
	t.Parallel()

	diskFull := errors.New("no space left on device")
	runFailed := errors.New("parse failed")

	assert.NoError(t, closeOutput(nil, nil))
	assert.Equal(t, runFailed, closeOutput(nil, runFailed))
	assert.NoError(t, closeOutput(failingCloser{}, nil))
	assert.Equal(t, runFailed, closeOutput(failingCloser{err: diskFull}, runFailed))

	err := closeOutput(failingCloser{err: diskFull}, nil)
	var exitErr cli.ExitCoder
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, exitEncode, exitErr.ExitCode())
	assert.ErrorContains(t, err, "no space left on device")
}

func TestApp_Validation(t *testing.T) {
	t.Parallel()

	report := writeReport(t, reportCSV)

	_, err := runApp(t, "", "--csv", "-i", report, "-e", "ca/sj", "-y", "2018")
	assert.ErrorContains(t, err, "invalid event code")

	_, err = runApp(t, "", "--csv", "-i", report, "-e", "2020casj", "-y", "2020")
	assert.ErrorContains(t, err, "no ranking schema registered for year 2020")

	_, err = runApp(t, "", "--csv", "-i", report, "-e", "2018casj", "-y", "2018", "--format", "xml")
	assert.ErrorIs(t, err, writers.ErrUnknownFormat)

	_, err = runApp(t, "", "--csv", "-i", report, "-y", "2018")
	assert.ErrorIs(t, err, io.EOF)
}

func TestApp_Seasons(t *testing.T) {
	t.Parallel()

	out, err := runApp(t, "", "--seasons")
	require.NoError(t, err)
	assert.Contains(t, out, "Sandstorm Bonus")
	assert.Contains(t, out, "2022")
}
