// Command so is a terminal front end for the Q&A community API.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree writing to out and errOut.
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}
	root := &cobra.Command{
		Use:          "so",
		Short:        "Browse and post to the Q&A community from the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "version", "help", "completion":
				return nil
			}
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) { a.close() },
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print raw JSON")
	root.PersistentFlags().StringVar(&a.apiURL, "api", "", "API base URL (overrides SO_API_URL)")

	root.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "so %s (%s)\n", version, buildDate)
			},
		},
		loginCmd(a), signupCmd(a), logoutCmd(a), whoamiCmd(a),
		questionsCmd(a), questionCmd(a), askCmd(a), answerCmd(a), voteCmd(a), acceptCmd(a), deleteCmd(a),
		tagsCmd(a), tagCmd(a), tagSuggestCmd(a),
		usersCmd(a), userCmd(a), meCmd(a), profileCmd(a),
	)
	return root
}
