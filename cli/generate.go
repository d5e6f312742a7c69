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

	"github.com/cheggaaa/pb"
	"github.com/dustin/go-humanize"
	"github.com/minio/cli"
	json "github.com/minio/mc/pkg/colorjson"
	"github.com/minio/mc/pkg/probe"
	"github.com/minio/pkg/v3/console"
	"github.com/russfellows/lakegen/pkg"
	"github.com/russfellows/lakegen/pkg/datagen"
	"github.com/russfellows/lakegen/pkg/tables"
	"golang.org/x/time/rate"
)

var generateCmd = cli.Command{
	Name:   "generate",
	Usage:  "generate a synthetic parquet dataset and upload it to S3",
	Action: mainGenerate,
	Before: setGlobalsFromContext,
	Flags:  combineFlags(globalFlags, ioFlags, genFlags, profileFlags),
	CustomHelpTemplate: `NAME:
  {{.HelpName}} - {{.Usage}}

USAGE:
  {{.HelpName}} [FLAGS]

DESCRIPTION:
  Generates the benchmark tables as snappy compressed parquet chunks
  and uploads them concurrently. Chunk sizes and table row counts are
  derived from the target size; a data_manifest.json describing the run is
  written next to the dataset.

  Failed chunk uploads are logged and counted but never retried; the
  run continues with the remaining chunks.

EXAMPLES:
  1. Generate a 10GB dataset on a local MinIO:
     $ {{.HelpName}} --host 127.0.0.1:9000 --access-key minio --secret-key minio123 --size-gb 10

  2. Generate only the lineitem table with 16 concurrent uploads:
     $ {{.HelpName}} --table lineitem --concurrent 16 --size-gb 100

  3. Drive a run from a YAML file, overriding the bucket:
     $ {{.HelpName}} --config run.yml --bucket scratch
{{if .VisibleFlags}}
FLAGS:
  {{range .VisibleFlags}}{{.}}
  {{end}}{{end}}`,
}

// genSettings is the run configuration after merging YAML file values
// with command line flags.
type genSettings struct {
	sizeGB     float64
	chunkRows  int
	table      string
	bucket     string
	prefix     string
	concurrent int
	rpsLimit   float64
	influxDB   string
	ratios     map[string]float64
	file       *runConfig
}

func resolveGenSettings(ctx *cli.Context, defaultChunkRows int) genSettings {
	cfg, err := loadRunConfig(ctx.String("config"))
	fatalIf(probe.NewError(err), "Unable to load run config.")

	s := genSettings{
		sizeGB:     float64Setting(ctx, "size-gb", cfg.SizeGB),
		chunkRows:  intSetting(ctx, "chunk-rows", cfg.ChunkRows),
		table:      stringSetting(ctx, "table", cfg.Table),
		bucket:     stringSetting(ctx, "bucket", cfg.Bucket),
		prefix:     stringSetting(ctx, "prefix", cfg.Prefix),
		concurrent: intSetting(ctx, "concurrent", cfg.Concurrent),
		rpsLimit:   float64Setting(ctx, "rps-limit", cfg.RPSLimit),
		influxDB:   stringSetting(ctx, "influxdb", cfg.InfluxDB),
		ratios:     cfg.Ratios,
		file:       cfg,
	}
	if s.chunkRows <= 0 {
		s.chunkRows = defaultChunkRows
	}
	if s.sizeGB <= 0 {
		fatalIf(errInvalidArgument(), "--size-gb must be positive.")
	}
	return s
}

// selectTables resolves the --table flag to the tables to generate.
func selectTables(name string) []tables.Table {
	if name == "" {
		return tables.All()
	}
	t, err := tables.Lookup(name)
	fatalIf(probe.NewError(err), "Unknown table. Choose one of %v.", tables.Names())
	return []tables.Table{t}
}

// runGeneration performs the shared generation phase of the generate
// and iceberg commands and returns the per-table results along with the
// pipeline config for follow-up uploads.
func runGeneration(ctx *cli.Context, cctx context.Context, s genSettings) ([]datagen.TableResult, *datagen.Config) {
	cl := newClient(ctx)
	err := checkBucket(cctx, cl, s.bucket)
	fatalIf(probe.NewError(err), "Unable to access bucket %s.", s.bucket)

	tbls, err := applyRatios(selectTables(s.table), s.ratios)
	fatalIf(probe.NewError(err), "Invalid ratio overrides.")

	plans, err := datagen.Plan(tbls, s.sizeGB, s.chunkRows)
	fatalIf(probe.NewError(err), "Unable to plan dataset.")

	var metrics *datagen.Metrics
	if s.influxDB != "" {
		metrics, err = datagen.NewMetrics(s.influxDB)
		fatalIf(probe.NewError(err), "Unable to connect to InfluxDB.")
		defer metrics.Close()
	}

	var limiter *rate.Limiter
	if s.rpsLimit > 0 {
		burst := int(s.rpsLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(s.rpsLimit), burst)
	}

	cfg := &datagen.Config{
		Client:      cl,
		Bucket:      s.bucket,
		Prefix:      s.prefix,
		Concurrency: s.concurrent,
		Limiter:     limiter,
		Metrics:     metrics,
		OnError: func(table string, chunkID int64, err error) {
			printError(fmt.Sprintf("%s chunk %d: %v", table, chunkID, err))
		},
	}

	if !globalQuiet && !globalJSON {
		printInfo(fmt.Sprintf("Generating %s rows across %d table(s), %s chunks...",
			humanize.Comma(datagen.TotalRows(plans)), len(plans),
			humanize.Comma(datagen.TotalChunks(plans))))
	}

	results := make([]datagen.TableResult, 0, len(plans))
	for _, plan := range plans {
		var bar *progressBar
		if !globalQuiet && !globalJSON {
			bar = newProgressBar(plan.Chunks, pb.U_NO).SetCaption(plan.Table.Name + ": ")
			cfg.OnProgress = func(_ string, done, _ int64) {
				bar.Set64(done)
			}
		} else {
			cfg.OnProgress = nil
		}

		res, err := cfg.GenerateTable(cctx, plan)
		if bar != nil {
			bar.Finish()
		}
		fatalIf(probe.NewError(err), "Generation of table %s aborted.", plan.Table.Name)

		if !globalQuiet && !globalJSON {
			printTableResult(*res)
		}
		results = append(results, *res)
	}
	return results, cfg
}

func printTableResult(res datagen.TableResult) {
	line := fmt.Sprintf("%-10s %12s rows  %6d chunks  %10s  %s",
		res.Table,
		humanize.Comma(res.Rows),
		res.Chunks,
		humanize.IBytes(uint64(res.Bytes)),
		res.Elapsed.Round(time.Second))
	if res.FailedChunks > 0 {
		line += fmt.Sprintf("  (%d chunks FAILED)", res.FailedChunks)
	}
	console.Println(line)
}

func mainGenerate(ctx *cli.Context) error {
	cctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	s := resolveGenSettings(ctx, datagen.DefaultChunkRows)
	results, cfg := runGeneration(ctx, cctx, s)

	manifest := datagen.BuildManifest(pkg.Version, s.sizeGB, s.chunkRows, s.bucket, s.prefix, results)
	key, err := cfg.UploadManifest(cctx, manifest)
	fatalIf(probe.NewError(err), "Unable to upload manifest.")

	if globalJSON {
		data, err := json.MarshalIndent(manifest, "", " ")
		fatalIf(probe.NewError(err), "Unable to marshal manifest.")
		console.Println(string(data))
		return nil
	}

	if !globalQuiet {
		printInfo(fmt.Sprintf("Wrote %s rows (%s) to s3://%s/%s",
			humanize.Comma(manifest.TotalRows),
			humanize.IBytes(uint64(manifest.TotalBytes)),
			s.bucket, key))
	}
	if manifest.FailedChunks > 0 {
		printError(fmt.Sprintf("%d of %d chunks failed to upload",
			manifest.FailedChunks, manifest.TotalChunks))
	}
	return nil
}
