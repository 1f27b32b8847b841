package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRelay(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MAIL_TRANSPORT", "log")
	t.Setenv("EMAIL_SERVER_USER", "me@gmail.com")
	t.Setenv("EMAIL_TO", "inbox@example.com")
	t.Setenv("MAIL_FROM", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("MQ_URL", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env", "local", "--config-dir", filepath.Join("..", "..", "config")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSendCommand(t *testing.T) {
	out, err := runRelay(t, "send",
		"--name", "Ada",
		"--email", "ada@example.com",
		"--subject", "Hello",
		"--message", "Line1\nLine2",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Email sent successfully!")
	assert.Contains(t, out, "transport=log")
}

func TestSendCommand_MissingField(t *testing.T) {
	_, err := runRelay(t, "send", "--name", "Ada", "--email", "ada@example.com", "--subject", "Hello")
	require.Error(t, err)
	assert.Equal(t, "All fields are required", err.Error())
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := newRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "send")
}
