package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/michaelscutari/catifs/internal/db"
	"github.com/michaelscutari/catifs/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse <catalog>",
	Short: "Browse a catalog interactively",
	Long:  `Open an interactive TUI to browse the cataloged tree and its subtree totals.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	store, err := db.Open(ctx, args[0], db.OpenOptions{ReadOnly: true})
	if err != nil {
		return err
	}
	defer store.Close()

	model := tui.NewModel(ctx, store)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
