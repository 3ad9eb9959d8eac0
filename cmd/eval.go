package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/quill/internal/log"
	"github.com/zjrosen/quill/internal/todotxt"
	"github.com/zjrosen/quill/internal/todotxt/query"
)

var evalTask string

var evalCmd = &cobra.Command{
	Use:   "eval EXPR",
	Short: "Evaluate a truth expression, or a query against one task",
	Long: `Evaluate EXPR and print true or false.

Without --task, EXPR is a truth expression over T and F with !, &, | and
parentheses. With --task, EXPR is a filter query; its predicates are
first substituted with T or F for the given task line.

Examples:
  quill eval 'T|F&F'
  quill eval --task '(A) call mom +family @phone' '+family & pri:A'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expr := args[0]
		if evalTask != "" {
			truth, err := query.Evaluator{Now: now}.ParseQuery(todotxt.Parse(evalTask), expr)
			if err != nil {
				return err
			}
			log.Debug(log.CatQuery, "Substituted query", "query", expr, "truth", truth)
			expr = truth
		}

		ok, err := query.ShuntingYard(expr)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), ok)
		return err
	},
}

func init() {
	evalCmd.Flags().StringVarP(&evalTask, "task", "t", "", "todo.txt line to evaluate EXPR as a query against")
	rootCmd.AddCommand(evalCmd)
}
