// ABOUTME: Session history subcommands: list, delete, and clear stored conversations
// ABOUTME: Reads through the session store so output always reflects the durable mirror

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSessionsCmd(a *app) *cobra.Command {
	var agentFlag string

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage stored conversation sessions",
	}
	cmd.PersistentFlags().StringVar(&agentFlag, "agent", "", "Agent id")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored sessions, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			agentID, err := a.resolveAgent(agentFlag)
			if err != nil {
				return err
			}

			feed := a.sessions.ChatSessions(context.Background(), agentID)
			sessions, _ := feed.Latest()
			if len(sessions) == 0 {
				fmt.Println(dimText("no stored sessions"))
				return nil
			}

			for _, sess := range sessions {
				fmt.Printf("%s  %s  %s\n",
					sess.SessionID,
					sess.Title,
					dimText(fmt.Sprintf("%d messages, %s", sess.MessageCount, relativeTime(sess.UpdatedAt))))
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete one stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agentID, err := a.resolveAgent(agentFlag)
			if err != nil {
				return err
			}

			ctx := context.Background()
			a.sessions.ChatSessions(ctx, agentID)
			a.sessions.DeleteSession(ctx, args[0], agentID)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all stored sessions for an agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			agentID, err := a.resolveAgent(agentFlag)
			if err != nil {
				return err
			}

			a.sessions.ClearSessions(context.Background(), agentID)
			return nil
		},
	}

	cmd.AddCommand(list, del, clearCmd)
	return cmd
}

// relativeTime formats a Unix-millisecond timestamp as a rough age.
func relativeTime(millis int64) string {
	age := time.Since(time.UnixMilli(millis))
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	}
}
