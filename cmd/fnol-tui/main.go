// Package main provides the fnol-tui binary — Bubble Tea chat interface.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/ormasoftchile/fnol/pkg/fnol"
	"github.com/ormasoftchile/fnol/pkg/machine"
	"github.com/ormasoftchile/fnol/pkg/tui"
)

func main() {
	snapshotPath := "fnol-session.json"
	policyID := ""
	resume := ""

	// Parse flags
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--snapshot" && i+1 < len(args):
			i++
			snapshotPath = args[i]
		case args[i] == "--policy" && i+1 < len(args):
			i++
			policyID = args[i]
		case args[i] == "--resume" && i+1 < len(args):
			i++
			resume = args[i]
		case args[i] == "--help" || args[i] == "-h":
			fmt.Println("Usage: fnol-tui [--snapshot path] [--policy id] [--resume snapshot.json]")
			return
		}
	}

	m, err := machine.New(machine.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var session *fnol.State
	if resume != "" {
		session, err = fnol.LoadSnapshot(resume)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		snapshotPath = resume
	} else {
		session = m.CreateSession(uuid.NewString(), "", policyID)
		if err := fnol.SaveSnapshot(session, snapshotPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	model := tui.NewModel(m, session, snapshotPath)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
