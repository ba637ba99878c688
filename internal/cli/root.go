package cli

import (
	"context"
	"io"
)

// Execute builds the command tree and runs it with args. Human-readable
// output goes to stdout; logs, spinners and cobra errors go to stderr.
//
// Example:
//
//	func main() {
//	    if err := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := New(stderr, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}
