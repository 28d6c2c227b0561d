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
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/mstranslate/internal/detector"
	"github.com/valpere/mstranslate/internal/terminal"
	"github.com/valpere/mstranslate/internal/widget"
)

var (
	inputFile  string
	outputFile string
	sourceLang string
	targetLang string
	quiet      bool
)

var translateCmd = &cobra.Command{
	Use:   "translate [text...]",
	Short: "Translate text once",
	Long: `Bootstrap the widget, translate the given text and print the result.

The text is taken from the arguments or, with --input, from a file.
A repeated (text, target) pair is answered from the local cache.

Use --source auto to detect the source language.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile != "" && inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		text := strings.Join(args, " ")
		if inputFile != "" {
			raw, err := os.ReadFile(inputFile)
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			text = string(raw)
		}
		text = normalizeInput(text)
		if text == "" {
			return fmt.Errorf("no text to translate")
		}

		var out io.Writer = cmd.OutOrStdout()
		if outputFile != "" {
			out = io.Discard
		}
		view := terminal.New(terminal.Options{
			Out:     out,
			Err:     cmd.ErrOrStderr(),
			Quiet:   quiet,
			NoColor: noColor,
		})

		a, err := newApp(view)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		a.ctrl.Init(ctx)
		if a.ctrl.Err() != nil {
			return errReported
		}

		src := sourceLang
		if src == detector.Auto {
			langs := a.ctrl.Languages()
			src = detector.New(langs...).SourceFor(text, cfg.DefaultLanguage, langs)
			view.Status("source:", "%s", src)
		}
		if src != "" {
			if err := a.ctrl.SetSourceLanguage(src); err != nil {
				return fmt.Errorf("source language: %w (see \"mstranslate languages\")", err)
			}
		}
		if err := a.ctrl.SetTargetLanguage(targetLang); err != nil {
			return fmt.Errorf("target language: %w (see \"mstranslate languages\")", err)
		}
		a.ctrl.SetText(text)

		if !a.ctrl.CanTranslate() {
			s := a.ctrl.State()
			return fmt.Errorf("cannot translate: need at least %d characters, a source and a target language (source=%q target=%q)",
				cfg.MinTextLength, s.SourceLanguage, s.TargetLanguage)
		}

		a.ctrl.Translate(ctx)
		if a.ctrl.Err() != nil {
			return errReported
		}

		if outputFile != "" {
			if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			if err := os.WriteFile(outputFile, []byte(view.Text(widget.TranslatedText)), 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			view.Status("written:", "%s", outputFile)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file to translate")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the translation to a file instead of stdout")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", "", "Source language code, or \"auto\" (default: default-language)")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "", "Target language code (required)")
	translateCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the loading indicator")

	translateCmd.MarkFlagRequired("target")
}
