package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/parishweb/parishadmin/internal/upload"
	"github.com/parishweb/parishadmin/internal/view"
)

var albumsCmd = &cobra.Command{
	Use:   "albums",
	Short: "Manage photo gallery albums",
}

var albumsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all albums",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, cleanup := setup("text")
		defer cleanup()

		c := newController(cmd, cfg, logger)
		if err := c.Refresh(cmd.Context()); err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tIMAGES\tDESCRIPTION")
		for _, s := range view.AlbumSummaries(c.Store()) {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.ID, s.Title, s.ImageCount, s.Description)
		}
		return tw.Flush()
	},
}

var albumsShowCmd = &cobra.Command{
	Use:   "show <album-id>",
	Short: "Show one album with its images",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, cleanup := setup("text")
		defer cleanup()

		c := newController(cmd, cfg, logger)
		if err := c.Refresh(cmd.Context()); err != nil {
			return err
		}
		if err := c.OpenAlbum(args[0]); err != nil {
			return err
		}

		album, err := view.ActiveAlbumDetail(c.Store(), c.Store().ActiveID())
		if err != nil {
			return err
		}

		fmt.Printf("%s: %s\n", album.ID, album.Title)
		if album.Description != "" {
			fmt.Println(album.Description)
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "IMAGE ID\tTITLE\tCAPTION\tTYPE")
		for _, img := range album.Images {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", img.ID, img.Title, img.Caption, img.Binary.MimeType)
		}
		return tw.Flush()
	},
}

var albumsCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new album",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, cleanup := setup("text")
		defer cleanup()

		description, _ := cmd.Flags().GetString("description")
		c := newController(cmd, cfg, logger)
		if err := c.Refresh(cmd.Context()); err != nil {
			return err
		}

		album, err := c.CreateAlbum(cmd.Context(), args[0], description)
		if err != nil {
			return err
		}
		fmt.Printf("created album %s\n", album.ID)
		return nil
	},
}

var albumsUpdateCmd = &cobra.Command{
	Use:   "update <album-id>",
	Short: "Update an album's title and description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, cleanup := setup("text")
		defer cleanup()

		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")

		c := newController(cmd, cfg, logger)
		if err := c.Refresh(cmd.Context()); err != nil {
			return err
		}

		if _, err := c.UpdateAlbum(cmd.Context(), args[0], title, description); err != nil {
			return err
		}
		fmt.Println("album updated")
		return nil
	},
}

var albumsDeleteCmd = &cobra.Command{
	Use:   "delete <album-id>",
	Short: "Delete an album and all of its images",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, cleanup := setup("text")
		defer cleanup()

		c := newController(cmd, cfg, logger)
		if err := c.Refresh(cmd.Context()); err != nil {
			return err
		}
		return c.DeleteAlbum(cmd.Context(), args[0])
	},
}

var albumsUploadCmd = &cobra.Command{
	Use:   "upload <album-id> <file>...",
	Short: "Upload images to an album",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, cleanup := setup("text")
		defer cleanup()

		title, _ := cmd.Flags().GetString("title")
		captionText, _ := cmd.Flags().GetString("caption")

		files := make([]upload.File, 0, len(args)-1)
		for _, path := range args[1:] {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			files = append(files, upload.File{Name: filepath.Base(path), Data: data})
		}

		c := newController(cmd, cfg, logger)
		if err := c.Refresh(cmd.Context()); err != nil {
			return err
		}

		album, err := c.UploadImages(cmd.Context(), args[0], files,
			upload.Metadata{Title: title, Caption: captionText})
		if err != nil {
			return err
		}
		fmt.Printf("album %s now has %d images\n", album.ID, len(album.Images))
		return nil
	},
}

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Manage images within an album",
}

var imagesDeleteCmd = &cobra.Command{
	Use:   "delete <album-id> <image-id>",
	Short: "Delete one image from an album",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, cleanup := setup("text")
		defer cleanup()

		c := newController(cmd, cfg, logger)
		if err := c.Refresh(cmd.Context()); err != nil {
			return err
		}
		return c.DeleteImage(cmd.Context(), args[0], args[1])
	},
}

var imagesCaptionCmd = &cobra.Command{
	Use:   "caption <album-id> <image-id> <caption>",
	Short: "Set an image's caption",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, cleanup := setup("text")
		defer cleanup()

		c := newController(cmd, cfg, logger)
		if err := c.Refresh(cmd.Context()); err != nil {
			return err
		}
		if _, err := c.UpdateImageCaption(cmd.Context(), args[0], args[1], args[2]); err != nil {
			return err
		}
		fmt.Println("caption updated")
		return nil
	},
}

func init() {
	albumsCreateCmd.Flags().StringP("description", "d", "", "Album description")
	albumsUpdateCmd.Flags().StringP("title", "t", "", "New album title")
	albumsUpdateCmd.Flags().StringP("description", "d", "", "New album description")
	albumsUploadCmd.Flags().StringP("title", "t", "", "Title applied to files without one")
	albumsUploadCmd.Flags().StringP("caption", "c", "", "Caption applied to files without one")

	albumsCmd.AddCommand(albumsListCmd, albumsShowCmd, albumsCreateCmd,
		albumsUpdateCmd, albumsDeleteCmd, albumsUploadCmd)
	imagesCmd.AddCommand(imagesDeleteCmd, imagesCaptionCmd)
	rootCmd.AddCommand(albumsCmd, imagesCmd)
}
