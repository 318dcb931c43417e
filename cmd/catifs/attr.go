package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/michaelscutari/catifs/internal/db"
)

var attrCmd = &cobra.Command{
	Use:   "attr <catalog> <path> [name [value]]",
	Short: "List, read or add attributes of a cataloged entry",
	Long: `With only a path, list the entry's attributes. With a name, print its
value. With a name and a value, add the attribute; existing attributes are
never overwritten.`,
	Args: cobra.RangeArgs(2, 4),
	RunE: runAttr,
}

func runAttr(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	catalogPath, path := args[0], args[1]

	store, err := db.Open(ctx, catalogPath, db.OpenOptions{
		ReadOnly: len(args) < 4,
		Lock:     cfg.Lock,
		NoCreate: true,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	switch len(args) {
	case 2:
		attrs, err := store.ListAttrs(ctx, path)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, a := range attrs {
			fmt.Fprintf(w, "%s\t%s\n", a.Name, a.Value)
		}
		return w.Flush()

	case 3:
		value, err := store.GetAttr(ctx, path, args[2])
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil

	default:
		return store.AddAttr(ctx, path, args[2], args[3])
	}
}
