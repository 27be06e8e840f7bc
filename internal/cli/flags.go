package cli

import (
	"github.com/spf13/cobra"
)

// changed returns &v when the named flag was set on the command line.
func changed[T any](cmd *cobra.Command, name string, v T) *T {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

// changedSlice returns v, never nil, when the named flag was set, and nil
// otherwise. An explicitly empty flag clears the field it patches.
func changedSlice(cmd *cobra.Command, name string, v []string) []string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	if v == nil {
		return []string{}
	}
	return v
}
