// submodule cmd contains command definitions
package main

import (
	"github.com/urfave/cli/v3"

	"github.com/anzhiyu-c/anheyu-cli/internal/models"
	"github.com/anzhiyu-c/anheyu-cli/internal/routes"
	"github.com/anzhiyu-c/anheyu-cli/internal/tasks"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

// galleryFlags are the public listing parameters shared by list, download and export.
func galleryFlags(extra ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{
		&cli.IntFlag{
			Name:  "page",
			Usage: "Page number",
			Value: 1,
		},
		&cli.IntFlag{
			Name:  "page-size",
			Usage: "Wallpapers per page",
			Value: 20,
		},
		&cli.StringFlag{
			Name:  "sort",
			Usage: "Sort order: display_order_asc, created_at_desc, created_at_asc or view_count_desc",
			Value: string(models.SortDisplayOrderAsc),
		},
		&cli.IntFlag{
			Name:  "category",
			Usage: "Category ID (omit for every category)",
		},
	}
	return append(flags, extra...)
}

// pageFlags are the admin listing parameters.
func pageFlags(extra ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{
		&cli.IntFlag{
			Name:  "page",
			Usage: "Page number",
			Value: 1,
		},
		&cli.IntFlag{
			Name:  "page-size",
			Usage: "Records per page",
			Value: 20,
		},
		&cli.StringFlag{
			Name:  "category",
			Usage: "Category ID filter",
		},
		&cli.StringFlag{
			Name:    "keyword",
			Aliases: []string{"k"},
			Usage:   "Keyword filter",
		},
		&cli.StringFlag{
			Name:  "start",
			Usage: "Start date filter",
		},
		&cli.StringFlag{
			Name:  "end",
			Usage: "End date filter",
		},
	}
	return append(flags, extra...)
}

func albumInputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "Album name"},
		&cli.StringFlag{Name: "description", Usage: "Album description"},
		&cli.StringFlag{Name: "cover", Usage: "Cover image URL"},
		&cli.StringFlag{Name: "category", Usage: "Category ID"},
	}
}

func categoryInputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "Category name"},
		&cli.StringFlag{Name: "description", Usage: "Category description"},
	}
}

func idArg() []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: "id"}}
}

// setupCommand handles initialization and configuration
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize database and configuration",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the SQLite database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write a configuration file from the template",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
		},
	}
}

// siteCommand handles the cached site configuration
func siteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "site",
		Usage: "Site configuration operations",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the site configuration (cached for 24h)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Bypass the cache and fetch from the server",
					},
					jsonFlag(),
				},
				Action: r.SiteShow,
			},
			{
				Name:   "clear-cache",
				Usage:  "Remove the cached site configuration",
				Action: r.SiteClearCache,
			},
			{
				Name:      "set",
				Usage:     "Override cached configuration values",
				ArgsUsage: "KEY=VALUE...",
				Action:    r.SiteSet,
			},
			{
				Name:  "test-email",
				Usage: "Ask the server to send a test email",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "to"},
				},
				Action: r.SiteTestEmail,
			},
		},
	}
}

// galleryCommand handles the public wallpaper listing
func galleryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "gallery",
		Aliases: []string{"g"},
		Usage:   "Public wallpaper gallery operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List wallpapers",
				Flags:  galleryFlags(jsonFlag()),
				Action: r.GalleryList,
			},
			{
				Name:   "categories",
				Usage:  "List gallery categories",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.GalleryCategories,
			},
			{
				Name:      "stat",
				Usage:     "Record a view or download for a wallpaper",
				Arguments: idArg(),
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "type",
						Usage: "Counter to update: view or download",
						Value: string(models.StatView),
					},
				},
				Action: r.GalleryStat,
			},
			{
				Name:  "download",
				Usage: "Download wallpapers to a directory",
				Flags: galleryFlags(
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"o"},
						Usage:   "Output directory (default wallpapers_{timestamp})",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Concurrent downloads",
						Value:   tasks.DefaultWorkers,
					},
					&cli.BoolFlag{
						Name:  "skip-existing",
						Usage: "Skip wallpapers already in the download history",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Follow every page from --page onwards",
					},
				),
				Action: r.GalleryDownload,
			},
			{
				Name:  "export",
				Usage: "Export a wallpaper listing as csv, md or txt",
				Flags: galleryFlags(
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, md or txt",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (file base for csv, directory for md, file for txt)",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Document title",
						Value: routes.AlbumHome.Meta.Title,
					},
					&cli.StringFlag{
						Name:  "cover",
						Usage: "Cover image downloaded into the markdown export",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Follow every page from --page onwards",
					},
				),
				Action: r.GalleryExport,
			},
		},
	}
}

// albumCommand handles admin album, photo and category management
func albumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "album",
		Aliases: []string{"a"},
		Usage:   "Album management (requires api.token)",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List albums",
				Flags:  pageFlags(jsonFlag()),
				Action: r.AlbumList,
			},
			{
				Name:      "get",
				Usage:     "Show an album",
				Arguments: idArg(),
				Action:    r.AlbumGet,
			},
			{
				Name:   "create",
				Usage:  "Create an album",
				Flags:  albumInputFlags(),
				Action: r.AlbumCreate,
			},
			{
				Name:      "update",
				Usage:     "Update an album",
				Arguments: idArg(),
				Flags:     albumInputFlags(),
				Action:    r.AlbumUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete an album",
				Arguments: idArg(),
				Action:    r.AlbumDelete,
			},
			{
				Name:      "batch-delete",
				Usage:     "Delete several albums",
				ArgsUsage: "ID...",
				Action:    r.AlbumBatchDelete,
			},
			{
				Name:      "photos",
				Usage:     "List an album's photos",
				Arguments: idArg(),
				Flags:     pageFlags(jsonFlag()),
				Action:    r.AlbumPhotos,
			},
			{
				Name:      "upload",
				Usage:     "Upload photos into an album",
				ArgsUsage: "ALBUM_ID FILE...",
				Action:    r.AlbumUpload,
			},
			{
				Name:      "delete-photo",
				Usage:     "Delete photos from an album",
				ArgsUsage: "ALBUM_ID PHOTO_ID...",
				Action:    r.AlbumDeletePhoto,
			},
			{
				Name:      "update-photo",
				Usage:     "Update a photo's title and description",
				ArgsUsage: "ALBUM_ID PHOTO_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "Photo title"},
					&cli.StringFlag{Name: "description", Usage: "Photo description"},
				},
				Action: r.AlbumUpdatePhoto,
			},
			{
				Name:  "export",
				Usage: "Download the album export archive",
				Flags: pageFlags(
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Archive path",
						Value:   "albums_export.zip",
					},
				),
				Action: r.AlbumExport,
			},
			{
				Name:  "import",
				Usage: "Upload an album export archive",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "file"},
				},
				Action: r.AlbumImport,
			},
			{
				Name:  "category",
				Usage: "Album category management",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List categories",
						Flags:  []cli.Flag{jsonFlag()},
						Action: r.CategoryList,
					},
					{
						Name:      "get",
						Usage:     "Show a category",
						Arguments: idArg(),
						Action:    r.CategoryGet,
					},
					{
						Name:   "create",
						Usage:  "Create a category",
						Flags:  categoryInputFlags(),
						Action: r.CategoryCreate,
					},
					{
						Name:      "update",
						Usage:     "Update a category",
						Arguments: idArg(),
						Flags:     categoryInputFlags(),
						Action:    r.CategoryUpdate,
					},
					{
						Name:      "delete",
						Usage:     "Delete a category",
						Arguments: idArg(),
						Action:    r.CategoryDelete,
					},
				},
			},
		},
	}
}

// downloadsCommand shows the local download history
func downloadsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "downloads",
		Usage: "Show the local download history",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of records (0 for all)",
				Value: 50,
			},
			jsonFlag(),
		},
		Action: r.Downloads,
	}
}

// openCommand opens site pages in the browser
func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "open",
		Usage: "Open a site page in the browser",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "route"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "print",
				Usage: "Print the URL without opening it",
			},
		},
		Action: r.Open,
		Commands: []*cli.Command{
			{
				Name:   "routes",
				Usage:  "List the known routes",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.Routes,
			},
		},
	}
}

// iconsCommand lists the icon registries
func iconsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "icons",
		Usage:     "List registered icons or resolve one by identifier",
		Arguments: idArg(),
		Action:    r.Icons,
	}
}

// tuiCommand launches the interactive browser
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse and download wallpapers interactively",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "page-size",
				Usage: "Wallpapers per page",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Log file used while the TUI owns the terminal",
				Value: "./tmp/anheyu-tui.log",
			},
		},
		Action: r.TUI,
	}
}
