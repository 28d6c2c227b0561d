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
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/mstranslate/internal/terminal"
	"github.com/valpere/mstranslate/internal/widget"
)

const sessionHelp = `Commands:
  :source <code>   set the source language
  :target <code>   set the target language
  :go              translate the current text
  :langs           list the available languages
  :state           show the current selection
  :quit            leave the session
Any other line replaces the text to translate.`

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Interactive translation session",
	Long: `Bootstrap the widget once and drive it from standard input.

` + sessionHelp,
	RunE: func(cmd *cobra.Command, args []string) error {
		view := terminal.New(terminal.Options{
			Out:     cmd.OutOrStdout(),
			Err:     cmd.ErrOrStderr(),
			NoColor: noColor,
		})

		a, err := newApp(view)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events := make(chan widget.Event)
		done := make(chan error, 1)
		go func() { done <- a.ctrl.Run(ctx, events) }()

		send := func(ev widget.Event) bool {
			ev.Done = make(chan struct{})
			select {
			case events <- ev:
			case <-ctx.Done():
				return false
			}
			<-ev.Done
			return true
		}

		if !send(widget.Event{Type: widget.EventInit}) {
			return ctx.Err()
		}
		if a.ctrl.Phase() != widget.Ready {
			close(events)
			<-done
			return errReported
		}
		view.Status("ready:", "%d languages, type :quit to leave", len(a.ctrl.Languages()))

		scanner := bufio.NewScanner(cmd.InOrStdin())
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		fmt.Fprint(cmd.ErrOrStderr(), "> ")
	loop:
		for scanner.Scan() {
			line := normalizeInput(scanner.Text())
			command, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
			arg = strings.TrimSpace(arg)

			ok := true
			switch {
			case command == ":quit" || command == ":q":
				break loop
			case (command == ":source" || command == ":target") && arg != "" && !a.ctrl.Supports(arg):
				view.Status("hint:", "%q is not offered by the service (try :langs)", arg)
			case command == ":source":
				ok = send(widget.Event{Type: widget.EventSourceLanguageChanged, Value: arg})
			case command == ":target":
				ok = send(widget.Event{Type: widget.EventTargetLanguageChanged, Value: arg})
			case command == ":go":
				if !a.ctrl.CanTranslate() {
					view.Status("hint:", "set text of at least %d characters, :source and :target first", cfg.MinTextLength)
					break
				}
				ok = send(widget.Event{Type: widget.EventTranslate})
			case command == ":langs":
				view.PrintLanguages(widget.TargetLanguageSelect, 12)
			case command == ":state":
				s := a.ctrl.State()
				view.Status("state:", "source=%q target=%q text=%q", s.SourceLanguage, s.TargetLanguage, snippet(s.Text, 40))
			case command == ":help":
				fmt.Fprintln(cmd.ErrOrStderr(), sessionHelp)
			case strings.HasPrefix(command, ":"):
				view.Status("unknown:", "%s (try :help)", command)
			default:
				ok = send(widget.Event{Type: widget.EventTextChanged, Value: line})
			}
			if !ok {
				break
			}
			fmt.Fprint(cmd.ErrOrStderr(), "> ")
		}

		close(events)
		if err := <-done; err != nil && ctx.Err() == nil {
			return err
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}
