package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	gosdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/traildex/docindex/embed"
	"github.com/traildex/docindex/httpapi"
	"github.com/traildex/docindex/internal/logging"
	docindexmcp "github.com/traildex/docindex/mcp"
	"github.com/traildex/docindex/store"
)

var (
	serveStorePath     string
	serveHTTPAddr      string
	serveEnableHTTP    bool
	serveEnableMCP     bool
	serveEmbedEndpoint string
	serveEmbedModel    string
	serveEmbedDim      int
	serveLogLevel      string
	serveLogJSON       bool
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an existing store over the debug HTTP API and/or MCP stdio",
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&serveStorePath, "store", "docindex.db", "SQLite store path")
	cmd.Flags().StringVar(&serveHTTPAddr, "http-addr", ":8085", "address for the debug HTTP server")
	cmd.Flags().BoolVar(&serveEnableHTTP, "http", true, "serve the debug HTTP API (/healthz, /search)")
	cmd.Flags().BoolVar(&serveEnableMCP, "mcp", false, "serve the MCP stdio server")
	cmd.Flags().StringVar(&serveEmbedEndpoint, "embed-endpoint", "", "embedding server base URL (must match the one used to scrape)")
	cmd.Flags().StringVar(&serveEmbedModel, "embed-model", "", "embedding model name")
	cmd.Flags().IntVar(&serveEmbedDim, "embed-dimension", 768, "embedding vector dimension; must match the store")
	cmd.Flags().StringVar(&serveLogLevel, "log-level", "info", "debug|info|warn|error")
	cmd.Flags().BoolVar(&serveLogJSON, "log-json", false, "emit logs as JSON")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	if !serveEnableHTTP && !serveEnableMCP {
		return fmt.Errorf("at least one of --http or --mcp must be enabled")
	}

	logger := logging.New(logging.Options{Level: serveLogLevel, JSON: serveLogJSON})

	embedder := embed.New(embed.Config{
		Endpoint:  serveEmbedEndpoint,
		Model:     serveEmbedModel,
		Dimension: serveEmbedDim,
		Logger:    logger,
	})

	st, err := store.Open(serveStorePath, embedder.Dimension())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 2)

	if serveEnableHTTP {
		srv := httpapi.NewServer(st, embedder, logger)
		httpSrv := &http.Server{Addr: serveHTTPAddr, Handler: srv.Router()}
		go func() {
			logger.Info("http server listening", "addr", serveHTTPAddr)
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- fmt.Errorf("http server: %w", err)
			}
		}()
		go func() {
			<-ctx.Done()
			httpSrv.Close()
		}()
	}

	if serveEnableMCP {
		mcpServer := gosdkmcp.NewServer(&gosdkmcp.Implementation{
			Name:    "docindex",
			Version: "1.0.0",
		}, nil)
		docindexmcp.RegisterTools(mcpServer, st, embedder)

		go func() {
			logger.Info("mcp stdio server starting")
			if err := mcpServer.Run(ctx, &gosdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				errCh <- fmt.Errorf("mcp server: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}
