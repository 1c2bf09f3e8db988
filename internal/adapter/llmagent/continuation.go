package llmagent

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Strob0t/RoamGuide/internal/domain/roaming"
	"github.com/Strob0t/RoamGuide/internal/port/agentrun"
)

// stateVersion guards the continuation wire format. A token from a different
// version is rejected rather than misread.
const stateVersion = 1

// runState is the serialized execution context of a suspended run. Its
// structure is private to this adapter; the core only sees the encoded token.
type runState struct {
	V           int    `json:"v"`
	SessionID   string `json:"session_id"`
	UserID      string `json:"user_id"`
	AutoApprove bool   `json:"auto_approve"`

	Messages []openai.ChatCompletionMessage `json:"messages"`
	Pending  []openai.ToolCall              `json:"pending,omitempty"`

	Plans          []roaming.Plan `json:"plans,omitempty"`
	Usage          *roaming.Usage `json:"usage,omitempty"`
	Recommendation string         `json:"recommendation,omitempty"`
}

// result builds the terminal run result carrying the collected artifacts.
func (st *runState) result(output string) *agentrun.RunResult {
	return &agentrun.RunResult{
		Output:         output,
		Plans:          st.Plans,
		Usage:          st.Usage,
		Recommendation: st.Recommendation,
	}
}

// encodeState serializes the state into an opaque token.
func encodeState(st *runState) (agentrun.ContinuationToken, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("encode continuation: %w", err)
	}
	return agentrun.ContinuationToken(base64.StdEncoding.EncodeToString(data)), nil
}

// decodeState deserializes a token produced by encodeState.
func decodeState(token agentrun.ContinuationToken) (*runState, error) {
	data, err := base64.StdEncoding.DecodeString(string(token))
	if err != nil {
		return nil, fmt.Errorf("decode continuation: %w", err)
	}
	var st runState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode continuation: %w", err)
	}
	if st.V != stateVersion {
		return nil, fmt.Errorf("continuation version %d not supported", st.V)
	}
	return &st, nil
}
