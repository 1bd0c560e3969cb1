package agent

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"menuforge/internal/config"
)

const chatSystemPrompt = "You are a helpful, friendly assistant. Be concise and helpful. " +
	"If you don't know something, say so. Keep responses brief unless asked for detail."

// Service wires the chat client, prompt store and trace sink into runnable
// conversation graphs.
type Service struct {
	cfg     config.Config
	chat    *ChatClient
	prompts *PromptClient
	traces  *TraceClient
}

func NewService(cfg config.Config) *Service {
	return &Service{
		cfg:     cfg,
		chat:    NewChatClient(cfg),
		prompts: NewPromptClient(cfg),
		traces:  NewTraceClient(cfg),
	}
}

func (s *Service) Flush() {
	s.traces.Flush()
}

func (s *Service) SeedPrompts(ctx context.Context) error {
	return s.prompts.SeedInterviewPrompts(ctx)
}

// RunChat runs an interactive single-assistant conversation: each line read
// from in becomes a user turn, the assistant reply is printed, and the full
// transcript stays in state across turns.
func (s *Service) RunChat(ctx context.Context, in io.Reader) error {
	sessionID := "chat-" + newSessionID()
	state := &State{SessionID: sessionID}
	graph := NewGraph("chatbot", s.chatbotNode())

	fmt.Printf("Chat session %s (model=%s). Type 'exit' to quit.\n", sessionID, s.cfg.ChatModel)
	defer s.traces.Flush()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Printf("\nYou: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		state.Messages = append(state.Messages, Message{Role: RoleUser, Content: line})
		if err := graph.Run(ctx, state); err != nil {
			return err
		}
		reply := state.Messages[len(state.Messages)-1]
		fmt.Printf("\nAssistant: %s\n", reply.Content)
	}
	return scanner.Err()
}

func (s *Service) chatbotNode() Node {
	return Node{
		Name: "chatbot",
		Run: func(ctx context.Context, state *State) error {
			messages := state.Messages
			if len(messages) == 0 || messages[0].Role != RoleSystem {
				messages = append([]Message{{Role: RoleSystem, Content: chatSystemPrompt}}, messages...)
			}
			reply, err := s.chat.Complete(ctx, s.cfg.ChatModel, s.cfg.ChatTemperature, messages)
			if err != nil {
				return err
			}
			reply.Role = RoleAssistant
			state.Messages = append(state.Messages, reply)
			s.traces.Record("generation", map[string]any{
				"sessionId": state.SessionID,
				"node":      "chatbot",
				"model":     s.cfg.ChatModel,
				"input":     len(messages),
				"output":    reply.Content,
			})
			return nil
		},
		Next: func(*State) string { return End },
	}
}

// RunInterview runs a two-bot conversation on the given topic: the
// initiator and responder alternate until each has spoken maxTurns times.
func (s *Service) RunInterview(ctx context.Context, presetName, topic string, maxTurns int) error {
	pair, err := LookupPreset(presetName)
	if err != nil {
		return err
	}
	if maxTurns < 1 {
		maxTurns = 1
	}

	sessionID := "interview-" + newSessionID()
	state := &State{
		Messages:  []Message{{Role: RoleUser, Content: "Interview topic: " + topic}},
		MaxTurns:  maxTurns,
		Preset:    pair,
		SessionID: sessionID,
	}

	fmt.Printf("Two-Bot Interview: %s vs %s\n", pair.Initiator.Name, pair.Responder.Name)
	fmt.Printf("Preset: %s | Max turns: %d | Session: %s\n", pair.Key, maxTurns, sessionID)
	fmt.Printf("Topic: %s\n", topic)
	fmt.Println(strings.Repeat("-", 60))

	graph := NewGraph("initiator",
		s.interviewNode("initiator", InitiatorPromptName),
		s.interviewNode("responder", ResponderPromptName),
	)
	defer s.traces.Flush()

	if err := graph.Run(ctx, state); err != nil {
		return err
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Interview complete. Total turns: %d per bot (%d messages)\n", maxTurns, maxTurns*2)
	return nil
}

func (s *Service) interviewNode(role, promptName string) Node {
	return Node{
		Name: role,
		Run: func(ctx context.Context, state *State) error {
			self := state.Preset.Initiator
			other := state.Preset.Responder
			if role == "responder" {
				self, other = other, self
			}

			prompt, err := s.prompts.GetPrompt(ctx, promptName)
			if err != nil {
				return err
			}
			compiled := prompt.Compile(personaVars(self, other))
			model, temperature := prompt.ModelConfig(s.cfg.ChatModel, 0.9)

			messages := append(compiled, alternatingHistory(state.Messages, self.Name)...)
			reply, err := s.chat.Complete(ctx, model, temperature, messages)
			if err != nil {
				return err
			}
			reply.Role = RoleAssistant
			reply.Name = self.Name
			state.Messages = append(state.Messages, reply)

			if role == "initiator" {
				state.InitiatorTurns++
			} else {
				state.ResponderTurns++
			}

			fmt.Printf("\n[%s]: %s\n", self.Name, reply.Content)
			s.traces.Record("generation", map[string]any{
				"sessionId": state.SessionID,
				"node":      role,
				"prompt":    promptName,
				"model":     model,
				"output":    reply.Content,
			})
			return nil
		},
		Next: func(state *State) string {
			if role == "initiator" {
				if state.ResponderTurns < state.MaxTurns {
					return "responder"
				}
				return End
			}
			if state.InitiatorTurns < state.MaxTurns {
				return "initiator"
			}
			return End
		},
	}
}

// alternatingHistory rewrites the transcript from one speaker's point of
// view: the other bot's assistant turns become user turns so the upstream
// API sees strict user/assistant alternation.
func alternatingHistory(messages []Message, selfName string) []Message {
	out := make([]Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleUser:
			out = append(out, msg)
		case RoleAssistant:
			if msg.Name == selfName {
				out = append(out, msg)
			} else {
				out = append(out, Message{Role: RoleUser, Content: msg.Content, Name: msg.Name})
			}
		}
	}
	return out
}

func newSessionID() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(buf)
}
