package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List stored test sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStoreFromFlags(cmd)
			if err != nil {
				return err
			}

			ids, err := store.ListIDs()
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Println("No sessions found. Run a test first: personatest test")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SESSION ID\tMODEL\tDATE\tREVIEWED\tSTATUS")

			for _, id := range ids {
				sess, err := store.Load(id)
				if err != nil {
					return err
				}
				if sess == nil {
					continue
				}

				status := "complete"
				if !sess.Completed {
					status = "partial"
				}

				fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%s\n",
					sess.SessionID,
					sess.Model,
					sess.Timestamp.Format("2006-01-02 15:04"),
					sess.ReviewedCount(), len(sess.Results),
					status,
				)
			}

			return w.Flush()
		},
	}

	return cmd
}
