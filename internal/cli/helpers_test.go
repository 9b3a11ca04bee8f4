package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"

	"github.com/roach88/warren/internal/testutil"
)

const likesSpec = `
package likes

program: {functor: "likes", args: ["alice", {var: "X"}, {var: "X"}]}

queries: {
	who: {functor: "likes", args: ["alice", {var: "A"}, "bob"]}
	self: {functor: "likes", args: [{var: "P"}, {var: "P"}, {var: "_"}]}
	count: {functor: "age", args: ["alice", 42]}
}
`

func writeSpec(t *testing.T) string {
	t.Helper()
	return testutil.WriteSpec(t, "likes", likesSpec)
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
