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
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/valpere/mstranslate/internal/stubserver"
)

var (
	stubHost      string
	stubPort      int
	stubKey       string
	stubToken     string
	stubLanguages []string
)

var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Run a local stand-in for the translator endpoints",
	Long: `Serve the token, languages and translate endpoints locally, plus /metrics.

Point the widget at it with:
  --token-url     http://HOST:PORT/sts/v1.0/issueToken
  --languages-url "http://HOST:PORT/V2/Ajax.svc/GetLanguagesForTranslate?appId={{token}}&oncomplete={{callback}}"
  --translate-url "http://HOST:PORT/V2/Ajax.svc/Translate?appId={{token}}&text={{text}}&from={{from}}&to={{to}}&oncomplete={{callback}}"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := stubserver.New(stubserver.Options{
			Host:            stubHost,
			Port:            stubPort,
			SubscriptionKey: stubKey,
			Token:           stubToken,
			Languages:       stubLanguages,
		}, logger)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		base := fmt.Sprintf("http://%s:%d", stubHost, stubPort)
		endpoints := stubserver.Endpoints(base)
		logger.WithField("token_url", endpoints.TokenURL).Info("Use these endpoint settings to target the stub")

		return srv.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(stubCmd)

	stubCmd.Flags().StringVar(&stubHost, "host", "127.0.0.1", "Listen host")
	stubCmd.Flags().IntVar(&stubPort, "port", 8089, "Listen port")
	stubCmd.Flags().StringVar(&stubKey, "key", "", "Subscription key to require (empty accepts any)")
	stubCmd.Flags().StringVar(&stubToken, "token", "stub-token", "Token handed out by the token endpoint")
	stubCmd.Flags().StringSliceVar(&stubLanguages, "languages", nil, "Languages to offer (default fr,en,de,es,it,uk)")
}
