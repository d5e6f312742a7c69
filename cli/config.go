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
	"fmt"
	"os"

	"github.com/minio/cli"
	"github.com/russfellows/lakegen/pkg/tables"
	"gopkg.in/yaml.v3"
)

// runConfig mirrors the generation flags for YAML run files. Flags set
// on the command line always win over file values.
type runConfig struct {
	SizeGB     float64 `yaml:"size_gb"`
	ChunkRows  int     `yaml:"chunk_rows"`
	Table      string  `yaml:"table"`
	Bucket     string  `yaml:"bucket"`
	Prefix     string  `yaml:"prefix"`
	Concurrent int     `yaml:"concurrent"`
	RPSLimit   float64 `yaml:"rps_limit"`
	InfluxDB   string  `yaml:"influxdb"`

	// Ratios overrides per-table size ratios by table name. Tables not
	// listed keep their defaults.
	Ratios map[string]float64 `yaml:"ratios"`

	Iceberg struct {
		CatalogType string `yaml:"catalog_type"`
		CatalogURI  string `yaml:"catalog_uri"`
		Token       string `yaml:"catalog_token"`
		Warehouse   string `yaml:"warehouse"`
		Namespace   string `yaml:"namespace"`
	} `yaml:"iceberg"`
}

func loadRunConfig(path string) (*runConfig, error) {
	var cfg runConfig
	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Flag-or-file resolution. The command line wins when the flag was set
// explicitly; otherwise a non-zero file value applies.

func stringSetting(ctx *cli.Context, name, fileVal string) string {
	if ctx.IsSet(name) || fileVal == "" {
		return ctx.String(name)
	}
	return fileVal
}

func intSetting(ctx *cli.Context, name string, fileVal int) int {
	if ctx.IsSet(name) || fileVal == 0 {
		return ctx.Int(name)
	}
	return fileVal
}

func float64Setting(ctx *cli.Context, name string, fileVal float64) float64 {
	if ctx.IsSet(name) || fileVal == 0 {
		return ctx.Float64(name)
	}
	return fileVal
}

// applyRatios returns a copy of tbls with size ratios replaced by the
// run config's overrides. Override names are validated against the full
// table catalog, so a run restricted to one table can still carry a
// complete ratios block.
func applyRatios(tbls []tables.Table, ratios map[string]float64) ([]tables.Table, error) {
	if len(ratios) == 0 {
		return tbls, nil
	}
	for name, r := range ratios {
		if _, err := tables.Lookup(name); err != nil {
			return nil, fmt.Errorf("ratio override: %w", err)
		}
		if r <= 0 {
			return nil, fmt.Errorf("ratio for table %s must be positive, got %v", name, r)
		}
	}
	out := make([]tables.Table, len(tbls))
	copy(out, tbls)
	for i := range out {
		if r, ok := ratios[out[i].Name]; ok {
			out[i].SizeRatio = r
		}
	}
	return out, nil
}
