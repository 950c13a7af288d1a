package woav_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/woavlite/woav/pkg/woavsdk"
)

/*
 * Container setup and shared helpers for the session service end-to-end tests.
 */

const (
	testImageName = "woav-session-test:latest"

	testPassword = "correct horse battery"
)

// TestMain builds the image once for every test and removes it afterwards.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building session service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up session service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/woav/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image may already be gone
}

// setupSessionContainer starts the service with extra env overrides and
// returns its base URL.
func setupSessionContainer(t *testing.T, extraEnv map[string]string) (string, func()) {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"WOAV_ISSUER":     "https://identity.woav.test",
		"WOAV_PROJECT_ID": "woav-e2e",
		"WOAV_ALGORITHM":  "EdDSA",
		"WOAV_NUM_KEYS":   "1",
		"ENV":             "test",
		"LOG_LEVEL":       "info",
		"LOG_FORMAT":      "json",
		// E2E tests fire many requests from one address.
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// signedIn signs email up (or in, when it already exists) on a fresh client
// and exchanges the ID token for a session cookie.
func signedIn(t *testing.T, baseURL, email string) (*woavsdk.Client, *woavsdk.SignInResponse) {
	t.Helper()
	ctx := t.Context()

	c := woavsdk.NewClient(baseURL)
	res, err := c.SignUp(ctx, email, testPassword, "E2E User")
	if err != nil {
		require.ErrorIs(t, err, woavsdk.ErrEmailExists)
		res, err = c.SignInWithPassword(ctx, email, testPassword)
		require.NoError(t, err)
	}

	require.NoError(t, c.CreateSession(ctx, res.IDToken))
	require.NotEmpty(t, c.SessionCookie())
	return c, res
}

func assertHealthy(t *testing.T, health *woavsdk.HealthResponse, err error) {
	t.Helper()

	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
