package commands

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/pjlast/jsserver/internal/lsp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the language server over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.New(os.Stderr, "jsserver: ", log.LstdFlags)
		server := lsp.NewServer(logger, cfg)
		return server.Run(context.Background(), stdioReadWriteCloser{})
	},
}

// stdioReadWriteCloser adapts os.Stdin/os.Stdout to io.ReadWriteCloser for
// the server's transport.
type stdioReadWriteCloser struct{}

func (stdioReadWriteCloser) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioReadWriteCloser) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdioReadWriteCloser) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}
