/*
 * Lakegen (C) 2025-2026 Lakegen Authors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/minio/cli"
	"github.com/minio/mc/pkg/probe"
	"github.com/russfellows/lakegen/pkg"
	"github.com/russfellows/lakegen/pkg/datagen"
	"github.com/russfellows/lakegen/pkg/iceberg"
)

var icebergFlags = []cli.Flag{
	cli.StringFlag{
		Name:   "catalog-type",
		Value:  "rest",
		Usage:  "Catalog type: rest, unity or glue",
		EnvVar: appNameUC + "_CATALOG_TYPE",
	},
	cli.StringFlag{
		Name:   "catalog-uri",
		Usage:  "Catalog endpoint URI. Not used for glue",
		EnvVar: appNameUC + "_CATALOG_URI",
	},
	cli.StringFlag{
		Name:   "catalog-token",
		Usage:  "Bearer token for the catalog (Unity, token-protected REST)",
		EnvVar: appNameUC + "_CATALOG_TOKEN",
	},
	cli.StringFlag{
		Name:   "warehouse",
		Usage:  "Warehouse location or name passed to the catalog",
		EnvVar: appNameUC + "_WAREHOUSE",
	},
	cli.StringFlag{
		Name:   "namespace, database",
		Value:  appName,
		Usage:  "Namespace (database) the tables are created in",
		EnvVar: appNameUC + "_NAMESPACE",
	},
	cli.IntFlag{
		Name:  "commit-batch",
		Value: iceberg.DefaultCommitBatch,
		Usage: "Data files added per catalog commit",
	},
	cli.IntFlag{
		Name:  "commit-retries",
		Value: iceberg.DefaultCommitConfig().MaxRetries,
		Usage: "Retries per commit on catalog conflicts",
	},
	cli.Float64Flag{
		Name:  "min-success",
		Value: iceberg.DefaultMinSuccess,
		Usage: "Fraction of chunks that must upload before a table is registered",
	},
}

var icebergCmd = cli.Command{
	Name:   "iceberg",
	Usage:  "generate a dataset and register it as Iceberg tables",
	Action: mainIceberg,
	Before: setGlobalsFromContext,
	Flags:  combineFlags(globalFlags, ioFlags, genFlags, icebergFlags, profileFlags),
	CustomHelpTemplate: `NAME:
  {{.HelpName}} - {{.Usage}}

USAGE:
  {{.HelpName}} [FLAGS]

DESCRIPTION:
  Generates the benchmark tables like the generate command, then
  converts each table's schema, builds its partition spec and commits
  the uploaded parquet files to an Iceberg catalog. Commits are batched
  and retried with backoff on catalog conflicts.

  A table registers only if enough of its chunks uploaded (see
  --min-success); tables below the threshold are skipped with an error
  and the remaining tables still register.

EXAMPLES:
  1. Register a 10GB dataset against a local REST catalog:
     $ {{.HelpName}} --size-gb 10 --catalog-uri http://localhost:8181 --namespace bench

  2. Register against Databricks Unity:
     $ {{.HelpName}} --catalog-type unity --catalog-uri https://dbc-xxxx.cloud.databricks.com \
          --catalog-token $TOKEN --warehouse my_catalog

  3. Register against AWS Glue:
     $ {{.HelpName}} --catalog-type glue --region us-east-1
{{if .VisibleFlags}}
FLAGS:
  {{range .VisibleFlags}}{{.}}
  {{end}}{{end}}`,
}

// icebergSettings is the catalog configuration after merging the run
// config's iceberg section with command line flags.
type icebergSettings struct {
	catalogType string
	catalogURI  string
	token       string
	warehouse   string
	namespace   string
}

func resolveIcebergSettings(ctx *cli.Context, cfg *runConfig) icebergSettings {
	return icebergSettings{
		catalogType: stringSetting(ctx, "catalog-type", cfg.Iceberg.CatalogType),
		catalogURI:  stringSetting(ctx, "catalog-uri", cfg.Iceberg.CatalogURI),
		token:       stringSetting(ctx, "catalog-token", cfg.Iceberg.Token),
		warehouse:   stringSetting(ctx, "warehouse", cfg.Iceberg.Warehouse),
		namespace:   stringSetting(ctx, "namespace", cfg.Iceberg.Namespace),
	}
}

func mainIceberg(ctx *cli.Context) error {
	cctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Smaller chunks keep per-file Iceberg manifests manageable.
	s := resolveGenSettings(ctx, datagen.IcebergChunkRows)
	ice := resolveIcebergSettings(ctx, s.file)

	catType, err := iceberg.ParseCatalogType(ice.catalogType)
	fatalIf(probe.NewError(err), "Invalid catalog type.")
	if catType != iceberg.CatalogGlue && ice.catalogURI == "" {
		fatalIf(errInvalidArgument(), "--catalog-uri is required for %s catalogs.", catType)
	}

	// Connect before generating anything; a bad catalog config should
	// fail in seconds, not after an hour of uploads.
	scheme := "http"
	if ctx.Bool("tls") {
		scheme = "https"
	}
	cat, err := iceberg.NewCatalog(cctx, iceberg.CatalogConfig{
		Type:       catType,
		URI:        ice.catalogURI,
		Token:      ice.token,
		Warehouse:  ice.warehouse,
		AccessKey:  ctx.String("access-key"),
		SecretKey:  ctx.String("secret-key"),
		Region:     ctx.String("region"),
		S3Endpoint: scheme + "://" + ctx.String("host"),
	})
	fatalIf(probe.NewError(err), "Unable to connect to %s catalog.", catType)

	results, cfg := runGeneration(ctx, cctx, s)

	manifest := datagen.BuildManifest(pkg.Version, s.sizeGB, s.chunkRows, s.bucket, s.prefix, results)
	_, err = cfg.UploadManifest(cctx, manifest)
	fatalIf(probe.NewError(err), "Unable to upload manifest.")

	commit := iceberg.DefaultCommitConfig()
	commit.MaxRetries = ctx.Int("commit-retries")
	reg := &iceberg.RegisterConfig{
		Catalog:    cat,
		Namespace:  ice.namespace,
		Bucket:     s.bucket,
		Commit:     commit,
		BatchSize:  ctx.Int("commit-batch"),
		MinSuccess: ctx.Float64("min-success"),
	}
	if !globalQuiet && !globalJSON {
		reg.OnProgress = func(table string, committed, total int) {
			printInfo(fmt.Sprintf("%s: committed %d/%d files", table, committed, total))
		}
	}

	registered, err := reg.RegisterAll(cctx, results, func(table string, err error) {
		printError(fmt.Sprintf("register %s: %v", table, err))
	})
	fatalIf(probe.NewError(err), "Unable to register tables.")

	for _, rr := range registered {
		if !globalQuiet && !globalJSON {
			printInfo(fmt.Sprintf("%-10s %6d files in %d commits (%d retries) in %s",
				rr.Table, rr.Files, rr.Commits, rr.Retries, rr.Duration.Round(time.Second)))
		}
	}
	if len(registered) < len(results) {
		printError(fmt.Sprintf("%d of %d tables failed to register",
			len(results)-len(registered), len(results)))
	} else if !globalQuiet && !globalJSON {
		printInfo(fmt.Sprintf("Registered %d tables in namespace %s",
			len(registered), ice.namespace))
	}
	return nil
}
