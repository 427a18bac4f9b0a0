package server

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinjudd/teamcup/models"
	"github.com/justinjudd/teamcup/tournament"
)

func connectMCP(t *testing.T, s *Server) *mcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.NewMCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)
	return result
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content is %T", result.Content[0])
	return text.Text
}

func TestMCPGenerateSchedule(t *testing.T) {
	s, _ := newTestServer(t)
	session := connectMCP(t, s)

	result := callTool(t, session, "generate_schedule", map[string]any{"teams": []string{"A", "B", "C", "D"}})
	require.False(t, result.IsError, toolText(t, result))

	var schedule models.Schedule
	require.NoError(t, json.Unmarshal([]byte(toolText(t, result)), &schedule))
	assert.Equal(t, tournament.GenerateSchedule([]string{"A", "B", "C", "D"}), schedule)
}

func TestMCPStandings(t *testing.T) {
	s, _ := newTestServer(t)
	addTeams(t, s, "A", "B")
	score(t, s, "Singles", 0, "A", "B", 4, 11)
	session := connectMCP(t, s)

	result := callTool(t, session, "event_standings", map[string]any{})
	require.False(t, result.IsError, toolText(t, result))
	var tables []tournament.EventTable
	require.NoError(t, json.Unmarshal([]byte(toolText(t, result)), &tables))
	require.Len(t, tables, 2)
	assert.Equal(t, "B", tables[0].Rows[0].Team)

	result = callTool(t, session, "group_standings", map[string]any{"sort": "teamName", "order": "asc"})
	require.False(t, result.IsError, toolText(t, result))
	var report tournament.GroupReport
	require.NoError(t, json.Unmarshal([]byte(toolText(t, result)), &report))
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "A", report.Rows[0].Team)
	assert.Equal(t, 1, report.Rows[0].Losses)

	result = callTool(t, session, "group_standings", map[string]any{"sort": "height"})
	assert.True(t, result.IsError)
}

func TestMCPMatchKey(t *testing.T) {
	s, _ := newTestServer(t)
	session := connectMCP(t, s)

	result := callTool(t, session, "match_key", map[string]any{"event": "Singles", "round": 2, "team1": "A", "team2": "B"})
	require.False(t, result.IsError, toolText(t, result))
	assert.JSONEq(t, `{"key": "Singles-2-A-vs-B"}`, toolText(t, result))

	result = callTool(t, session, "match_key", map[string]any{"event": "Singles", "round": 0, "team1": "A", "team2": ""})
	assert.True(t, result.IsError)
}
