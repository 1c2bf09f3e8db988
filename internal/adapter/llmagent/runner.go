// Package llmagent implements the agent-run port on an OpenAI-compatible
// chat-completions service. It drives a tool-calling loop over the gated
// capabilities (plan lookup, usage lookup, recommendation synthesis) and
// suspends the run whenever a tool batch lacks approval.
package llmagent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Strob0t/RoamGuide/internal/config"
	"github.com/Strob0t/RoamGuide/internal/domain/gate"
	"github.com/Strob0t/RoamGuide/internal/domain/roaming"
	"github.com/Strob0t/RoamGuide/internal/domain/session"
	"github.com/Strob0t/RoamGuide/internal/port/agentrun"
	"github.com/Strob0t/RoamGuide/internal/port/catalog"
	"github.com/Strob0t/RoamGuide/internal/port/usage"
)

// maxToolRounds bounds the completion↔tool loop inside a single run segment.
// A well-behaved run needs at most four rounds (three tools plus the final
// answer); anything beyond that is a runaway tool graph.
const maxToolRounds = 6

// agentNames maps each capability to the sub-agent presented to the user in
// approval prompts.
var agentNames = map[string]string{
	gate.CapFetchPlans: "plan-agent",
	gate.CapFetchUsage: "usage-agent",
	gate.CapRecommend:  "advisor-agent",
}

const systemPrompt = `You are a telecom roaming advisor. Help the user pick a
roaming plan for their trip. You have three tools; call fetch_plans first,
then fetch_usage, then recommend_plan; recommend_plan needs the results of
the other two. Answer in the user's language and keep replies short.`

// Runner implements agentrun.Runner over an OpenAI-compatible endpoint.
type Runner struct {
	client  completionClient
	model   string
	catalog catalog.PlanCatalog
	usage   usage.Source
}

// completionClient is the slice of the go-openai client the runner uses.
// Narrowed for testability.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewRunner creates a runner talking to the configured completion service.
func NewRunner(cfg config.LLM, cat catalog.PlanCatalog, usg usage.Source) *Runner {
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.URL
	return &Runner{
		client:  openai.NewClientWithConfig(oc),
		model:   cfg.Model,
		catalog: cat,
		usage:   usg,
	}
}

// Run executes a fresh turn.
func (r *Runner) Run(ctx context.Context, in agentrun.RunInput) (*agentrun.RunResult, error) {
	userContent := in.Message
	if in.Destination != "" {
		userContent = fmt.Sprintf("[destination: %s] %s", in.Destination, in.Message)
	}

	st := &runState{
		V:           stateVersion,
		SessionID:   in.SessionID,
		UserID:      in.UserID,
		AutoApprove: in.AutoApprove,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userContent},
		},
	}
	return r.drive(ctx, st)
}

// Resume restores a suspended run and continues it, executing the pending
// calls whose approval handles appear in approved.
func (r *Runner) Resume(ctx context.Context, token agentrun.ContinuationToken, approved []string) (*agentrun.RunResult, error) {
	st, err := decodeState(token)
	if err != nil {
		return nil, fmt.Errorf("resume: %w", err)
	}
	if len(st.Pending) == 0 {
		return nil, fmt.Errorf("resume: continuation has no pending calls")
	}

	approvedSet := make(map[string]bool, len(approved))
	for _, id := range approved {
		approvedSet[id] = true
	}
	for _, tc := range st.Pending {
		if !approvedSet[tc.ID] {
			// Not everything was approved; stay suspended on the same token.
			return suspendResult(st, token), nil
		}
	}

	pending := st.Pending
	st.Pending = nil
	if err := r.executeBatch(ctx, st, pending); err != nil {
		return nil, err
	}
	return r.drive(ctx, st)
}

// drive loops completion rounds until the run completes or suspends.
func (r *Runner) drive(ctx context.Context, st *runState) (*agentrun.RunResult, error) {
	for round := 0; round < maxToolRounds; round++ {
		resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    r.model,
			Messages: st.Messages,
			Tools:    toolDefinitions(),
		})
		if err != nil {
			return nil, fmt.Errorf("completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("completion: empty choices")
		}
		msg := resp.Choices[0].Message
		st.Messages = append(st.Messages, msg)

		if len(msg.ToolCalls) == 0 {
			return st.result(msg.Content), nil
		}

		if !st.AutoApprove {
			st.Pending = msg.ToolCalls
			token, err := encodeState(st)
			if err != nil {
				return nil, err
			}
			slog.Debug("run suspended awaiting approval",
				"session_id", st.SessionID,
				"pending", len(msg.ToolCalls),
			)
			return suspendResult(st, token), nil
		}

		if err := r.executeBatch(ctx, st, msg.ToolCalls); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("run exceeded %d tool rounds", maxToolRounds)
}

// executeBatch runs every tool call in order and appends the tool results.
func (r *Runner) executeBatch(ctx context.Context, st *runState, calls []openai.ToolCall) error {
	for _, tc := range calls {
		content, err := r.executeTool(ctx, st, tc)
		if err != nil {
			return fmt.Errorf("tool %s: %w", tc.Function.Name, err)
		}
		st.Messages = append(st.Messages, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			ToolCallID: tc.ID,
			Content:    content,
		})
	}
	return nil
}

// executeTool dispatches one capability call and records its artifact.
func (r *Runner) executeTool(ctx context.Context, st *runState, tc openai.ToolCall) (string, error) {
	switch tc.Function.Name {
	case gate.CapFetchPlans:
		var args struct {
			Destination string `json:"destination"`
		}
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return "", fmt.Errorf("arguments: %w", err)
		}
		plans, err := r.catalog.FetchPlans(ctx, args.Destination)
		if err != nil {
			return "", err
		}
		st.Plans = plans
		data, err := json.Marshal(plans)
		return string(data), err

	case gate.CapFetchUsage:
		// Identity comes from the caller context, never from model arguments.
		u, err := r.usage.FetchUsage(ctx, st.UserID)
		if err != nil {
			return "", err
		}
		st.Usage = u
		data, err := json.Marshal(u)
		return string(data), err

	case gate.CapRecommend:
		if st.Usage == nil || len(st.Plans) == 0 {
			return "", fmt.Errorf("recommend_plan called before fetch_plans/fetch_usage")
		}
		rec := Recommend(st.Usage, st.Plans)
		st.Recommendation = rec
		return rec, nil

	default:
		return "", fmt.Errorf("unknown capability %q", tc.Function.Name)
	}
}

// Recommend synthesizes a recommendation from a usage summary and plan list:
// the cheapest plan whose data allowance covers the user's average daily
// usage for the plan's duration, falling back to the largest allowance.
func Recommend(u *roaming.Usage, plans []roaming.Plan) string {
	var best *roaming.Plan
	var fallback *roaming.Plan

	for i := range plans {
		p := &plans[i]
		if fallback == nil || p.DataGB == 0 || (fallback.DataGB != 0 && p.DataGB > fallback.DataGB) {
			fallback = p
		}
		neededGB := u.AvgDailyDataMB * float64(p.Days) / 1024
		covers := p.DataGB == 0 || p.DataGB >= neededGB
		if !covers {
			continue
		}
		if best == nil || p.Price < best.Price {
			best = p
		}
	}

	pick := best
	if pick == nil {
		pick = fallback
	}
	if pick == nil {
		return "目前沒有適合的漫遊方案。"
	}
	return fmt.Sprintf("推薦「%s」：%d天 %s，%.0f %s。依您平均每日 %.0fMB 的用量，這個方案最划算。",
		pick.Name, pick.Days, dataLabel(pick.DataGB), pick.Price, pick.Currency, u.AvgDailyDataMB)
}

func dataLabel(gb float64) string {
	if gb == 0 {
		return "不限量"
	}
	return fmt.Sprintf("%.0fGB", gb)
}

// suspendResult projects the state's pending tool calls into the core's
// pending-call summaries.
func suspendResult(st *runState, token agentrun.ContinuationToken) *agentrun.RunResult {
	calls := make([]session.PendingCall, 0, len(st.Pending))
	for _, tc := range st.Pending {
		calls = append(calls, session.PendingCall{
			Name:           tc.Function.Name,
			AgentName:      agentNames[tc.Function.Name],
			Arguments:      json.RawMessage(tc.Function.Arguments),
			ApprovalHandle: tc.ID,
		})
	}
	return &agentrun.RunResult{
		PendingCalls: calls,
		Continuation: token,
	}
}

// toolDefinitions declares the three gated capabilities to the model.
func toolDefinitions() []openai.Tool {
	return []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        gate.CapFetchPlans,
				Description: "Look up roaming plans offered for a destination.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"destination": map[string]any{
							"type":        "string",
							"description": "Destination country or region name.",
						},
					},
					"required": []string{"destination"},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        gate.CapFetchUsage,
				Description: "Fetch the subscriber's recent usage summary.",
				Parameters: map[string]any{
					"type":       "object",
					"properties": map[string]any{},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        gate.CapRecommend,
				Description: "Synthesize a plan recommendation from fetched usage and plans.",
				Parameters: map[string]any{
					"type":       "object",
					"properties": map[string]any{},
				},
			},
		},
	}
}
