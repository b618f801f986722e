package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ormasoftchile/fnol/pkg/fnol"
	"github.com/ormasoftchile/fnol/pkg/machine"
)

var (
	chatSnapshot string
	chatTrace    string
	chatPolicy   string
	chatThread   string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a new claim intake conversation",
	Long: `Start an interactive claim intake conversation in the terminal.

The session is persisted to the snapshot file after every turn, so an
interrupted conversation can be picked up with 'fnol resume'.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	m, err := machine.New(machine.Config{})
	if err != nil {
		return fmt.Errorf("create machine: %w", err)
	}

	threadID := chatThread
	if threadID == "" {
		threadID = uuid.NewString()
	}
	s := m.CreateSession(threadID, "", chatPolicy)
	if err := fnol.SaveSnapshot(s, chatSnapshot); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	fmt.Println(renderTurn(s.AIResponse))
	return runChatLoop(m, s, chatSnapshot)
}

var resumeCmd = &cobra.Command{
	Use:   "resume [snapshot.json]",
	Short: "Resume a claim intake conversation from its snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runResume,
}

func runResume(cmd *cobra.Command, args []string) error {
	s, err := fnol.LoadSnapshot(args[0])
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if s.IsComplete {
		return fmt.Errorf("session %s is already complete", s.ThreadID)
	}
	m, err := machine.New(machine.Config{})
	if err != nil {
		return fmt.Errorf("create machine: %w", err)
	}

	fmt.Printf("Resuming %s (%s, %d%%)\n\n", s.ThreadID, s.CurrentState, s.ProgressPercent)
	if s.AIResponse != "" {
		fmt.Println(renderTurn(s.AIResponse))
	}
	return runChatLoop(m, s, args[0])
}

// runChatLoop reads user turns until the conversation completes or the
// user interrupts. The snapshot is rewritten and new audit events traced
// after every turn.
func runChatLoop(m *machine.Machine, s *fnol.State, snapshotPath string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "you> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	var tw *fnol.TraceWriter
	if chatTrace != "" {
		tw, err = fnol.NewTraceWriter(chatTrace)
		if err != nil {
			return err
		}
		defer tw.Close()
	}
	traced := len(s.StateHistory)

	for !s.IsComplete {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Printf("\nSession saved to %s — resume with 'fnol resume %s'\n", snapshotPath, snapshotPath)
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := m.ProcessMessage(s, line); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if s.AIResponse != "" {
			fmt.Println(renderTurn(s.AIResponse))
		}

		if err := fnol.SaveSnapshot(s, snapshotPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: save snapshot: %v\n", err)
		}
		if tw != nil {
			for ; traced < len(s.StateHistory); traced++ {
				if err := tw.Write(s.ThreadID, &s.StateHistory[traced]); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: write trace: %v\n", err)
					break
				}
			}
		}
	}

	if s.ClaimNumber != "" {
		fmt.Printf("\nClaim %s filed.\n", s.ClaimNumber)
	}
	return nil
}

// renderTurn converts an assistant turn to styled terminal output, falling
// back to the raw text when glamour is unavailable.
func renderTurn(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
