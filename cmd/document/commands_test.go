package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/gogotex/docregistry/internal/document"
	"github.com/gogotex/docregistry/internal/document/service"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI against a shared in-memory service.
func execute(t *testing.T, svc service.Service, args ...string) (string, error) {
	t.Helper()
	open := func(context.Context) (service.Service, func(), error) {
		return svc, func() {}, nil
	}
	cmd := newRootCmd(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_Lifecycle(t *testing.T) {
	svc := service.NewMemoryService()

	out, err := execute(t, svc, "add", "Invoice", "--description", "Q1 report")
	require.NoError(t, err)
	var created document.Document
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Q1 report", created.Description)

	out, err = execute(t, svc, "find", "Inv")
	require.NoError(t, err)
	var found []document.Document
	require.NoError(t, json.Unmarshal([]byte(out), &found))
	require.Len(t, found, 1)

	out, err = execute(t, svc, "update", created.ID, "--name", "Invoice v2")
	require.NoError(t, err)
	require.Contains(t, out, "Invoice v2")

	out, err = execute(t, svc, "get", created.ID)
	require.NoError(t, err)
	require.Contains(t, out, "Invoice v2")

	_, err = execute(t, svc, "delete", created.ID)
	require.NoError(t, err)

	out, err = execute(t, svc, "list")
	require.NoError(t, err)
	require.JSONEq(t, "[]", out)
}

func TestCLI_Errors(t *testing.T) {
	svc := service.NewMemoryService()

	_, err := execute(t, svc, "find", " ")
	require.ErrorIs(t, err, document.ErrInvalidKeyword)

	_, err = execute(t, svc, "delete", "missing")
	require.ErrorIs(t, err, document.ErrNotFound)
	require.ErrorContains(t, err, "NotFound")

	_, err = execute(t, svc, "add", "x", "--description", "")
	require.ErrorIs(t, err, document.ErrInvalidPayload)

	_, err = execute(t, svc, "add")
	require.Error(t, err)
}
