package main

import (
	"github.com/spf13/cobra"

	"github.com/parishweb/parishadmin/internal/apiserver"
	"github.com/parishweb/parishadmin/internal/blobstore/local"
	"github.com/parishweb/parishadmin/internal/db"
	"github.com/parishweb/parishadmin/internal/sqlstore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the content-management REST API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, cleanup := setup("json")
		defer cleanup()

		database, err := db.Open(cfg.DBPath)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			return err
		}
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", "error", err)
			}
		}()

		blobs, err := local.NewLocalBlobStore(cfg.BlobPath)
		if err != nil {
			logger.Error("failed to initialize blob store", "error", err)
			return err
		}

		server := apiserver.NewServer(apiserver.Stores{
			Albums:        sqlstore.NewAlbumStore(database),
			Images:        sqlstore.NewImageStore(database),
			Announcements: sqlstore.NewAnnouncementStore(database),
			News:          sqlstore.NewNewsStore(database),
			Events:        sqlstore.NewEventStore(database),
		}, blobs, logger)

		if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
			logger.Error("server error", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
