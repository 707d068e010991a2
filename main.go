// Package main, SentQuote backend'inin giriş noktasıdır.
//
// Komutlar (cobra):
//
//	sentquote serve              HTTP server (varsayılan)
//	sentquote migrate            embedded migration'ları uygula ve çık
//	sentquote followups [--all]  vadesi gelmiş takip mesajlarını listele
//
// Wire-up init_*.go dosyalarına bölünmüştür: repository → service →
// handler → route. Global değişken yok; logger hariç (zap.ReplaceGlobals).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version, build sırasında -ldflags ile set edilir.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := serveCmd()

	root := &cobra.Command{
		Use:           "sentquote",
		Short:         "SentQuote - send quotes, get paid",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Alt komut verilmezse server başlar.
		RunE: serve.RunE,
	}

	root.AddCommand(serve)
	root.AddCommand(migrateCmd())
	root.AddCommand(followupsCmd())

	return root
}
