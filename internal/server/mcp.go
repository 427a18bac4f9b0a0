package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/justinjudd/teamcup/models"
	"github.com/justinjudd/teamcup/tournament"
)

// Version is reported to MCP clients
const Version = "0.1.0"

type ScheduleArgs struct {
	Teams []string `json:"teams" jsonschema:"Team names in registration order"`
}

type SortArgs struct {
	Sort  string `json:"sort,omitempty" jsonschema:"Column to sort by: played|wins|losses|categoriesWon|categoriesLost|points|teamName (default points)"`
	Order string `json:"order,omitempty" jsonschema:"asc or desc (default desc)"`
}

type MatchKeyArgs struct {
	Event string `json:"event" jsonschema:"Event name"`
	Round int    `json:"round" jsonschema:"Zero based round index"`
	Team1 string `json:"team1" jsonschema:"Team listed first in the schedule"`
	Team2 string `json:"team2" jsonschema:"Team listed second in the schedule"`
}

// NewMCPServer exposes the schedule and standings as MCP tools
func (s *Server) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "teamcup", Version: Version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_schedule",
		Description: "Round robin schedule for a list of teams; odd counts get a bye each round",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ScheduleArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(json.Marshal(tournament.GenerateSchedule(args.Teams)))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "event_standings",
		Description: "Standings of the current tournament for each event",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SortArgs) (*mcp.CallToolResult, any, error) {
		cfg, err := parseSort(args)
		if err != nil {
			return toolError(err), nil, nil
		}
		state, err := s.load()
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(json.Marshal(state.EventStandings(cfg)))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "group_standings",
		Description: "Overall team standings of the current tournament with every match's category breakdown",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SortArgs) (*mcp.CallToolResult, any, error) {
		cfg, err := parseSort(args)
		if err != nil {
			return toolError(err), nil, nil
		}
		state, err := s.load()
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(json.Marshal(state.GroupStandings(cfg)))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "match_key",
		Description: "Key a result for one event of a match is stored under",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args MatchKeyArgs) (*mcp.CallToolResult, any, error) {
		if args.Event == "" || args.Team1 == "" || args.Team2 == "" {
			return toolError(fmt.Errorf("event, team1 and team2 are required")), nil, nil
		}
		if args.Round < 0 {
			return toolError(fmt.Errorf("round can't be negative")), nil, nil
		}
		return toolJSON(json.Marshal(map[string]string{"key": models.MatchKey(args.Event, args.Round, args.Team1, args.Team2)}))
	})

	return server
}

func (s *Server) mcpHandler() http.Handler {
	server := s.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

func parseSort(args SortArgs) (tournament.SortConfig, error) {
	cfg := tournament.DefaultSort()
	if args.Sort != "" {
		key, ok := tournament.ParseSortKey(args.Sort)
		if !ok {
			return cfg, fmt.Errorf("unknown sort %q", args.Sort)
		}
		cfg.Key = key
	}
	switch order := tournament.SortOrder(args.Order); order {
	case "":
	case tournament.Ascending, tournament.Descending:
		cfg.Order = order
	default:
		return cfg, fmt.Errorf("unknown order %q", args.Order)
	}
	return cfg, nil
}

func toolJSON(res []byte, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
