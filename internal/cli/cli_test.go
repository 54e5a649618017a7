package cli_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/kursadbilgin/bill-notifier/internal/auth"
	"github.com/kursadbilgin/bill-notifier/internal/cli"
	"github.com/kursadbilgin/bill-notifier/internal/courier"
	"github.com/kursadbilgin/bill-notifier/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCourierCommand(t *testing.T) {
	out, err := run(t, "courier", " jt12345 ")
	require.NoError(t, err)
	assert.Contains(t, out, courier.JAndT)
	assert.Contains(t, out, courier.TrackingURL(courier.JAndT))
}

func TestCourierCommand_JSON(t *testing.T) {
	out, err := run(t, "courier", "ZZ999", "--json")
	require.NoError(t, err)

	var result map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &result), "output should be valid JSON")
	assert.Equal(t, courier.Unknown, result["courier"])
	assert.Equal(t, courier.GenericTrackingURL, result["trackingUrl"])
}

func TestCourierCommand_RequiresArgument(t *testing.T) {
	_, err := run(t, "courier")
	assert.Error(t, err)
}

func TestSessionIssueCommand(t *testing.T) {
	out, err := run(t, "session", "issue", "--org", "3", "--user", "u-9", "--secret", "cli-secret", "--ttl", "1h")
	require.NoError(t, err)

	sessions, err := auth.NewSessionManager("cli-secret", time.Hour)
	require.NoError(t, err)

	claims, err := sessions.Validate(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.OrganisationID)
	assert.Equal(t, "u-9", claims.UserID)
}

func TestSessionIssueCommand_RequiresSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	_, err := run(t, "session", "issue", "--org", "3")
	assert.Error(t, err)
}

func TestTokenSetCommand(t *testing.T) {
	mr := miniredis.RunT(t)

	out, err := run(t, "token", "set", "--org", "5", "--token", " tok-abc ", "--ttl", "30m", "--redis-url", "redis://"+mr.Addr())
	require.NoError(t, err)
	assert.Contains(t, out, provider.TokenKey(5))

	stored, err := mr.Get(provider.TokenKey(5))
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", stored)
	assert.Equal(t, 30*time.Minute, mr.TTL(provider.TokenKey(5)))
}

func TestTokenSetCommand_Validation(t *testing.T) {
	mr := miniredis.RunT(t)
	redisURL := "redis://" + mr.Addr()

	testCases := []struct {
		name string
		args []string
	}{
		{name: "missing token flag", args: []string{"token", "set", "--org", "5", "--redis-url", redisURL}},
		{name: "zero organisation", args: []string{"token", "set", "--org", "0", "--token", "t", "--redis-url", redisURL}},
		{name: "negative ttl", args: []string{"token", "set", "--org", "5", "--token", "t", "--ttl", "-1s", "--redis-url", redisURL}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, tc.args...)
			assert.Error(t, err)
		})
	}

	assert.False(t, mr.Exists(provider.TokenKey(5)), "no token should be written")
}

func TestTokenSetCommand_RequiresRedisURL(t *testing.T) {
	t.Setenv("REDIS_URL", "")

	_, err := run(t, "token", "set", "--org", "5", "--token", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis url is required")
}

func TestMigrateCommand_RequiresDSN(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")

	_, err := run(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database dsn is required")
}

func TestQueueStatsCommand_RequiresURL(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")

	_, err := run(t, "queue", "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rabbitmq url is required")
}
