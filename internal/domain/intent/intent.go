// Package intent provides the keyword heuristics that drive phase transitions.
//
// These are deliberately first-pass classifiers, not NLU: substring matching
// cannot tell "可以" from "不可以", and a destination mentioned in passing
// counts as a detection. Both limitations are accepted; the Classifier
// interface exists so a model-based classifier can replace this one without
// touching the state machine.
package intent

import "strings"

// Classifier extracts workflow signals from raw user text.
type Classifier interface {
	// DetectDestination returns the canonical destination name and true when
	// the text mentions a known destination.
	DetectDestination(text string) (string, bool)
	// IsApproval reports whether the text approves pending gated calls.
	IsApproval(text string) bool
	// IsConfirmation reports whether the text confirms the detected intent.
	IsConfirmation(text string) bool
}

// destination is one entry in the fixed, ordered destination list.
// Ties between multiple mentioned destinations are broken by list order,
// not by position in the text.
type destination struct {
	name    string
	aliases []string
}

var destinations = []destination{
	{name: "日本", aliases: []string{"日本", "japan", "東京", "tokyo", "大阪", "osaka"}},
	{name: "韓國", aliases: []string{"韓國", "韩国", "korea", "首爾", "seoul"}},
	{name: "美國", aliases: []string{"美國", "美国", "usa", "america", "united states", "紐約", "new york"}},
	{name: "泰國", aliases: []string{"泰國", "泰国", "thailand", "曼谷", "bangkok"}},
	{name: "新加坡", aliases: []string{"新加坡", "singapore"}},
	{name: "馬來西亞", aliases: []string{"馬來西亞", "马来西亚", "malaysia"}},
	{name: "越南", aliases: []string{"越南", "vietnam"}},
	{name: "香港", aliases: []string{"香港", "hong kong"}},
	{name: "歐洲", aliases: []string{"歐洲", "欧洲", "europe", "法國", "france", "德國", "germany", "英國", "uk"}},
	{name: "澳洲", aliases: []string{"澳洲", "australia", "雪梨", "sydney"}},
}

var approvalKeywords = []string{
	"可以", "好的", "好啊", "好喔", "確認", "同意", "沒問題", "没问题",
	"yes", "ok", "okay", "sure", "go ahead", "approve", "好",
}

var confirmationKeywords = []string{
	"是", "對", "对", "好", "確認", "确认", "正確", "沒錯",
	"yes", "ok", "okay", "correct", "right",
}

// Keyword is the substring-based Classifier implementation.
type Keyword struct{}

// NewKeyword returns the default keyword classifier.
func NewKeyword() *Keyword { return &Keyword{} }

// DetectDestination scans text against the fixed destination list and returns
// the first entry (by list order) with any alias present in the text.
func (Keyword) DetectDestination(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, d := range destinations {
		for _, alias := range d.aliases {
			if strings.Contains(lower, alias) {
				return d.name, true
			}
		}
	}
	return "", false
}

// IsApproval reports whether any approval keyword is a substring of text.
func (Keyword) IsApproval(text string) bool {
	return containsAny(text, approvalKeywords)
}

// IsConfirmation reports whether any confirmation keyword is a substring of text.
// Only meaningful in the confirmation phase; confirmation and approval are a
// single user signal so a second prompt is never needed.
func (Keyword) IsConfirmation(text string) bool {
	return containsAny(text, confirmationKeywords)
}

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
