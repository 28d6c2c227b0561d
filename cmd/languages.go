/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/valpere/mstranslate/internal/terminal"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages the service can translate between",
	RunE: func(cmd *cobra.Command, args []string) error {
		view := terminal.New(terminal.Options{
			Err:     cmd.ErrOrStderr(),
			Quiet:   true,
			NoColor: noColor,
		})

		a, err := newApp(view)
		if err != nil {
			return err
		}
		defer a.Close()

		a.ctrl.Init(context.Background())
		if a.ctrl.Err() != nil {
			return errReported
		}

		return printLanguages(cmd.OutOrStdout(), a.ctrl.Languages())
	},
}

func printLanguages(out io.Writer, codes []string) error {
	english := display.English.Tags()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tNATIVE")
	for _, code := range codes {
		name, native := "-", "-"
		if tag, err := language.Parse(code); err == nil {
			if n := english.Name(tag); n != "" {
				name = n
			}
			if n := display.Self.Name(tag); n != "" {
				native = n
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", code, name, native)
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
