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
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/minio/cli"
	"github.com/russfellows/lakegen/pkg/tables"
)

func TestLoadRunConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yml")
	content := `size_gb: 25
chunk_rows: 250000
bucket: bench
prefix: run1
concurrent: 16
rps_limit: 2.5
ratios:
  lineitem: 0.5
  events: 0.3
iceberg:
  catalog_type: unity
  catalog_uri: https://example.cloud.databricks.com
  namespace: bench_ns
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadRunConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SizeGB != 25 {
		t.Errorf("size_gb: got %v, want 25", cfg.SizeGB)
	}
	if cfg.ChunkRows != 250000 {
		t.Errorf("chunk_rows: got %d, want 250000", cfg.ChunkRows)
	}
	if cfg.Bucket != "bench" || cfg.Prefix != "run1" {
		t.Errorf("bucket/prefix: got %q/%q", cfg.Bucket, cfg.Prefix)
	}
	if cfg.Concurrent != 16 {
		t.Errorf("concurrent: got %d, want 16", cfg.Concurrent)
	}
	if cfg.RPSLimit != 2.5 {
		t.Errorf("rps_limit: got %v, want 2.5", cfg.RPSLimit)
	}
	if cfg.Iceberg.CatalogType != "unity" || cfg.Iceberg.Namespace != "bench_ns" {
		t.Errorf("iceberg section: got %+v", cfg.Iceberg)
	}
	if cfg.Ratios["lineitem"] != 0.5 || cfg.Ratios["events"] != 0.3 {
		t.Errorf("ratios: got %v", cfg.Ratios)
	}
}

func testFlagContext(t *testing.T, flags []cli.Flag, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range flags {
		f.Apply(set)
	}
	if err := set.Parse(args); err != nil {
		t.Fatal(err)
	}
	return cli.NewContext(cli.NewApp(), set, nil)
}

// A run config's iceberg section must reach the catalog settings when
// the corresponding flags are left at their defaults.
func TestResolveIcebergSettingsFromFile(t *testing.T) {
	cfg := &runConfig{}
	cfg.Iceberg.CatalogType = "unity"
	cfg.Iceberg.CatalogURI = "https://example.cloud.databricks.com"
	cfg.Iceberg.Token = "secret"
	cfg.Iceberg.Warehouse = "main"
	cfg.Iceberg.Namespace = "bench_ns"

	ctx := testFlagContext(t, icebergFlags)
	ice := resolveIcebergSettings(ctx, cfg)
	if ice.catalogType != "unity" {
		t.Errorf("catalogType = %q, want unity", ice.catalogType)
	}
	if ice.catalogURI != cfg.Iceberg.CatalogURI {
		t.Errorf("catalogURI = %q, want file value", ice.catalogURI)
	}
	if ice.token != "secret" || ice.warehouse != "main" {
		t.Errorf("token/warehouse = %q/%q, want file values", ice.token, ice.warehouse)
	}
	if ice.namespace != "bench_ns" {
		t.Errorf("namespace = %q, want bench_ns", ice.namespace)
	}
}

func TestResolveIcebergSettingsFlagWins(t *testing.T) {
	cfg := &runConfig{}
	cfg.Iceberg.CatalogURI = "http://file:8181"
	cfg.Iceberg.Namespace = "from_file"

	ctx := testFlagContext(t, icebergFlags,
		"--catalog-uri", "http://flag:8181", "--namespace", "from_flag")
	ice := resolveIcebergSettings(ctx, cfg)
	if ice.catalogURI != "http://flag:8181" {
		t.Errorf("catalogURI = %q, flag must override file", ice.catalogURI)
	}
	if ice.namespace != "from_flag" {
		t.Errorf("namespace = %q, flag must override file", ice.namespace)
	}
}

func TestResolveIcebergSettingsDefaults(t *testing.T) {
	ctx := testFlagContext(t, icebergFlags)
	ice := resolveIcebergSettings(ctx, &runConfig{})
	if ice.catalogType != "rest" {
		t.Errorf("catalogType = %q, want rest", ice.catalogType)
	}
	if ice.namespace != appName {
		t.Errorf("namespace = %q, want %q", ice.namespace, appName)
	}
}

func TestApplyRatios(t *testing.T) {
	all := tables.All()
	out, err := applyRatios(all, map[string]float64{"lineitem": 0.5, "events": 0.3})
	if err != nil {
		t.Fatal(err)
	}
	for _, tbl := range out {
		switch tbl.Name {
		case "lineitem":
			if tbl.SizeRatio != 0.5 {
				t.Errorf("lineitem ratio = %v, want 0.5", tbl.SizeRatio)
			}
		case "events":
			if tbl.SizeRatio != 0.3 {
				t.Errorf("events ratio = %v, want 0.3", tbl.SizeRatio)
			}
		case "orders":
			if tbl.SizeRatio != 0.08 {
				t.Errorf("orders ratio = %v, must keep default", tbl.SizeRatio)
			}
		}
	}
	// The catalog itself must not be mutated.
	for _, tbl := range all {
		if tbl.Name == "lineitem" && tbl.SizeRatio != 0.60 {
			t.Errorf("applyRatios mutated input: lineitem = %v", tbl.SizeRatio)
		}
	}
}

func TestApplyRatiosRejectsBadInput(t *testing.T) {
	if _, err := applyRatios(tables.All(), map[string]float64{"nope": 0.5}); err == nil {
		t.Error("unknown table name did not fail")
	}
	if _, err := applyRatios(tables.All(), map[string]float64{"orders": 0}); err == nil {
		t.Error("non-positive ratio did not fail")
	}
}

func TestLoadRunConfigEmptyPath(t *testing.T) {
	cfg, err := loadRunConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SizeGB != 0 || cfg.Bucket != "" {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestLoadRunConfigMissingFile(t *testing.T) {
	if _, err := loadRunConfig("/nonexistent/run.yml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadRunConfigBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yml")
	if err := os.WriteFile(path, []byte("size_gb: [not a number"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadRunConfig(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
