// Package message buffers live orchestrator output for terminal rendering.
package message

import (
	"container/list"
	"sync"
	"time"

	"github.com/coincortex/coincortex/consts"
)

// Agent status values tracked during a run.
const (
	StatePending    = "pending"
	StateInProgress = "in_progress"
	StateCompleted  = "completed"
	StateError      = "error"
)

type Message struct {
	Timestamp string
	Agent     string
	Type      string
	Content   string
}

type ToolCall struct {
	Timestamp string
	Agent     string
	Name      string
	Args      string
}

// NodeOrder is the pipeline order used when rendering agent progress.
var NodeOrder = []string{
	consts.MarketAnalyst,
	consts.SocialMediaAnalyst,
	consts.NewsAnalyst,
	consts.FundamentalsAnalyst,
	consts.BullResearcher,
	consts.BearResearcher,
	consts.ResearchManager,
	consts.Trader,
	consts.RiskyAnalyst,
	consts.SafeAnalyst,
	consts.NeutralAnalyst,
	consts.RiskJudge,
}

var sectionOrder = []string{
	"market_report",
	"sentiment_report",
	"news_report",
	"fundamentals_report",
	"investment_plan",
	"trader_plan",
	"final_trade_decision",
}

// MessageBuffer accumulates stream events from a running analysis. It keeps
// a bounded window of recent messages and tool calls plus per-agent status
// and report sections. Safe for concurrent use.
type MessageBuffer struct {
	mu             sync.RWMutex
	messages       *list.List
	toolCalls      *list.List
	maxLength      int
	agentStatus    map[string]string
	currentAgent   string
	reportSections map[string]string
}

func NewMessageBuffer(maxLength int) *MessageBuffer {
	if maxLength <= 0 {
		maxLength = 100
	}
	agentStatus := make(map[string]string, len(NodeOrder))
	for _, node := range NodeOrder {
		agentStatus[node] = StatePending
	}
	return &MessageBuffer{
		messages:       list.New(),
		toolCalls:      list.New(),
		maxLength:      maxLength,
		agentStatus:    agentStatus,
		reportSections: make(map[string]string),
	}
}

func (m *MessageBuffer) AddMessage(agent, msgType, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages.PushBack(Message{
		Timestamp: time.Now().Format("15:04:05"),
		Agent:     agent,
		Type:      msgType,
		Content:   content,
	})
	for m.messages.Len() > m.maxLength {
		m.messages.Remove(m.messages.Front())
	}
}

func (m *MessageBuffer) AddToolCall(agent, name, args string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toolCalls.PushBack(ToolCall{
		Timestamp: time.Now().Format("15:04:05"),
		Agent:     agent,
		Name:      name,
		Args:      args,
	})
	for m.toolCalls.Len() > m.maxLength {
		m.toolCalls.Remove(m.toolCalls.Front())
	}
}

// UpdateAgentStatus marks agent with the given state. Marking an agent
// in-progress also completes the previously active one.
func (m *MessageBuffer) UpdateAgentStatus(agent, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, known := m.agentStatus[agent]; !known {
		return
	}
	if status == StateInProgress && m.currentAgent != "" && m.currentAgent != agent {
		if m.agentStatus[m.currentAgent] == StateInProgress {
			m.agentStatus[m.currentAgent] = StateCompleted
		}
	}
	m.agentStatus[agent] = status
	if status == StateInProgress {
		m.currentAgent = agent
	}
}

func (m *MessageBuffer) AgentStatus(agent string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.agentStatus[agent]
}

func (m *MessageBuffer) CurrentAgent() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentAgent
}

// CompleteAll marks every agent completed, used when a run finishes.
func (m *MessageBuffer) CompleteAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for node := range m.agentStatus {
		m.agentStatus[node] = StateCompleted
	}
	m.currentAgent = ""
}

func (m *MessageBuffer) UpdateReportSection(name, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reportSections[name] = content
}

// ReportSections returns the populated sections in pipeline order.
func (m *MessageBuffer) ReportSections() []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Message, 0, len(m.reportSections))
	for _, name := range sectionOrder {
		if content, ok := m.reportSections[name]; ok && content != "" {
			out = append(out, Message{Agent: name, Type: "report", Content: content})
		}
	}
	return out
}

// RecentMessages returns up to n of the newest messages, oldest first.
func (m *MessageBuffer) RecentMessages(n int) []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := m.messages.Len()
	if n <= 0 || n > total {
		n = total
	}
	out := make([]Message, 0, n)
	e := m.messages.Back()
	for i := 0; i < n && e != nil; i++ {
		out = append(out, e.Value.(Message))
		e = e.Prev()
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Counts reports how many messages and tool calls were recorded.
func (m *MessageBuffer) Counts() (messages, toolCalls int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.messages.Len(), m.toolCalls.Len()
}

// CompletedCount returns how many agents have finished.
func (m *MessageBuffer) CompletedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, status := range m.agentStatus {
		if status == StateCompleted {
			count++
		}
	}
	return count
}
