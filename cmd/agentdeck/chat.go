// ABOUTME: Interactive chat command: streams agent runs and records the transcript
// ABOUTME: Renders streamed content with a typewriter reveal and colored roles

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/agentdeck/agentdeck/internal/event"
	"github.com/agentdeck/agentdeck/internal/stream"
	"github.com/agentdeck/agentdeck/internal/transcript"
)

var (
	youLabel   = color.New(color.FgCyan, color.Bold).SprintFunc()
	agentLabel = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorText  = color.New(color.FgRed).SprintFunc()
	dimText    = color.New(color.Faint).SprintFunc()
)

// revealInterval is the render tick driving the typewriter reveal.
const revealInterval = 25 * time.Millisecond

func newChatCmd(a *app) *cobra.Command {
	var agentFlag, sessionFlag string

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with an agent; without a message, start an interactive session",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			agentID, err := a.resolveAgent(agentFlag)
			if err != nil {
				return err
			}
			return runChat(a, agentID, sessionFlag, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&agentFlag, "agent", "", "Agent id")
	cmd.Flags().StringVar(&sessionFlag, "session", "", "Resume a stored session by id")
	return cmd
}

func runChat(a *app, agentID, sessionID, oneShot string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Hydrate the session index so resume and history lookups work.
	a.sessions.ChatSessions(ctx, agentID)

	asm := transcript.New(a.sessions, transcript.TypewriterReveal{Runes: 3}, a.logger)

	if sessionID != "" {
		stored := a.sessions.SessionMessages(sessionID, agentID)
		if len(stored) == 0 {
			fmt.Println(dimText("no stored messages for this session, starting fresh"))
		}
		asm.Load(stored)
		printTranscript(stored)
	} else {
		sessionID = uuid.New().String()
	}

	if oneShot != "" {
		return sendTurn(ctx, a, asm, agentID, sessionID, oneShot)
	}

	fmt.Println(dimText("type a message, /quit to exit"))
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("%s ", youLabel("you>"))
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}

		if err := sendTurn(ctx, a, asm, agentID, sessionID, line); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Println(errorText("error: " + err.Error()))
		}
	}
}

// sendTurn posts one user message, folds the resulting event stream into
// the transcript, animates the reveal, and persists the updated session.
func sendTurn(ctx context.Context, a *app, asm *transcript.Assembler, agentID, sessionID, message string) error {
	events, err := a.client.Run(ctx, agentID, &stream.RunRequest{
		Message:   message,
		SessionID: sessionID,
		UserID:    a.identity.CurrentUserID(),
	})
	if err != nil {
		return err
	}

	// The user turn is part of the transcript even if the source never
	// echoes it back.
	asm.Apply(ctx, &event.Event{
		Kind:      event.KindUserMessage,
		AgentID:   agentID,
		SessionID: sessionID,
		Content:   message,
		CreatedAt: event.Now(),
	})

	fmt.Printf("%s ", agentLabel(agentID+">"))

	var rendered string
	ticker := time.NewTicker(revealInterval)
	defer ticker.Stop()

	render := func() {
		msgs := asm.Messages()
		if len(msgs) == 0 {
			return
		}
		last := msgs[len(msgs)-1]
		if last.Kind == event.KindUserMessage {
			return
		}
		if strings.HasPrefix(last.DisplayedContent, rendered) {
			fmt.Print(strings.TrimPrefix(last.DisplayedContent, rendered))
		}
		rendered = last.DisplayedContent
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			asm.Tick()
			render()
		case evt, ok := <-events:
			if !ok {
				// Drain the remaining reveal, then persist the session.
				for asm.Tick() {
					render()
					time.Sleep(revealInterval)
				}
				render()
				fmt.Println()
				a.sessions.UpdateSessionMessages(ctx, sessionID, agentID, asm.Messages())
				return nil
			}
			if evt.SessionID != "" {
				sessionID = evt.SessionID
			}
			asm.Apply(ctx, evt)
			if evt.Kind.IsError() {
				fmt.Println()
				fmt.Println(errorText(string(evt.Kind) + ": " + evt.Content))
			}
		}
	}
}

// printTranscript replays stored messages when resuming a session.
func printTranscript(messages []event.ChatMessage) {
	for _, msg := range messages {
		label := agentLabel("agent>")
		if msg.Kind == event.KindUserMessage {
			label = youLabel("you>")
		}
		body := msg.Content
		if msg.Kind.IsError() {
			body = errorText(body)
		}
		fmt.Printf("%s %s\n", label, body)
	}
}
