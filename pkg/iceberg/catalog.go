// Package iceberg registers generated datasets as Iceberg tables:
// catalog connections, Arrow schema conversion, partition specs and
// file commits.
package iceberg

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/apache/iceberg-go"
	"github.com/apache/iceberg-go/catalog"
	"github.com/apache/iceberg-go/catalog/glue"
	"github.com/apache/iceberg-go/catalog/rest"
	"github.com/apache/iceberg-go/table"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// CatalogType selects the catalog implementation.
type CatalogType string

const (
	// CatalogREST is a standard Iceberg REST catalog.
	CatalogREST CatalogType = "rest"
	// CatalogUnity is a Databricks Unity catalog, reached through its
	// Iceberg REST endpoint.
	CatalogUnity CatalogType = "unity"
	// CatalogGlue is AWS Glue.
	CatalogGlue CatalogType = "glue"
)

// unityRESTPath is Unity's Iceberg REST endpoint under the workspace URL.
const unityRESTPath = "/api/2.1/unity-catalog/iceberg-rest"

// ParseCatalogType validates a catalog type string.
func ParseCatalogType(s string) (CatalogType, error) {
	switch CatalogType(strings.ToLower(s)) {
	case CatalogREST:
		return CatalogREST, nil
	case CatalogUnity:
		return CatalogUnity, nil
	case CatalogGlue:
		return CatalogGlue, nil
	}
	return "", fmt.Errorf("unknown catalog type %q (want rest, unity or glue)", s)
}

// CatalogConfig holds the connection settings for an Iceberg catalog.
type CatalogConfig struct {
	Type       CatalogType
	URI        string
	Token      string // bearer token, Unity and token-protected REST
	Warehouse  string
	AccessKey  string
	SecretKey  string
	Region     string
	S3Endpoint string // S3 endpoint for file IO (e.g. http://localhost:9000)
}

// NewCatalog connects to the configured catalog.
func NewCatalog(ctx context.Context, cfg CatalogConfig) (catalog.Catalog, error) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	awsCfg := aws.Config{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		),
	}

	// S3 properties travel with the catalog so the table IO layer can
	// read and write data files.
	s3Props := iceberg.Properties{
		"s3.access-key-id":     cfg.AccessKey,
		"s3.secret-access-key": cfg.SecretKey,
		"s3.region":            cfg.Region,
	}
	if cfg.S3Endpoint != "" {
		s3Props["s3.endpoint"] = cfg.S3Endpoint
	}

	switch cfg.Type {
	case CatalogGlue:
		return glue.NewCatalog(glue.WithAwsConfig(awsCfg)), nil

	case CatalogUnity:
		u, err := url.Parse(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("invalid catalog URI: %w", err)
		}
		u.Path = strings.TrimSuffix(u.Path, "/") + unityRESTPath
		opts := []rest.Option{
			rest.WithWarehouseLocation(cfg.Warehouse),
			rest.WithAdditionalProps(s3Props),
		}
		if cfg.Token != "" {
			opts = append(opts, rest.WithOAuthToken(cfg.Token))
		}
		cat, err := rest.NewCatalog(ctx, "unity", u.String(), opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create unity catalog: %w", err)
		}
		return cat, nil

	case CatalogREST, "":
		u, err := url.Parse(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("invalid catalog URI: %w", err)
		}
		opts := []rest.Option{
			rest.WithWarehouseLocation(cfg.Warehouse),
			rest.WithAwsConfig(awsCfg),
			rest.WithSigV4RegionSvc(cfg.Region, "s3tables"),
			rest.WithAdditionalProps(s3Props),
		}
		if cfg.Token != "" {
			opts = append(opts, rest.WithOAuthToken(cfg.Token))
		}
		cat, err := rest.NewCatalog(ctx, "rest", u.String(), opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create catalog: %w", err)
		}
		return cat, nil
	}
	return nil, fmt.Errorf("unknown catalog type %q", cfg.Type)
}

// LoadOrCreateTable loads an existing table or creates it with the
// given schema and partition spec. Concurrent creators race through the
// catalog; the loser falls back to loading with backoff.
func LoadOrCreateTable(ctx context.Context, cat catalog.Catalog, namespace, tableName string, schema *iceberg.Schema, spec *iceberg.PartitionSpec) (*table.Table, error) {
	ident := catalog.ToIdentifier(fmt.Sprintf("%s.%s", namespace, tableName))

	tbl, err := cat.LoadTable(ctx, ident)
	if err == nil {
		return tbl, nil
	}

	errStr := err.Error()
	isNotFound := errors.Is(err, catalog.ErrNoSuchTable) ||
		strings.Contains(errStr, "NoSuchTable") ||
		strings.Contains(errStr, "not found") ||
		strings.Contains(errStr, "does not exist")

	if !isNotFound {
		return nil, fmt.Errorf("failed to load table %s.%s: %w", namespace, tableName, err)
	}

	createOpts := []catalog.CreateTableOpt{
		catalog.WithProperties(iceberg.Properties{
			"format-version": "2",
		}),
	}
	if spec != nil {
		createOpts = append(createOpts, catalog.WithPartitionSpec(spec))
	}

	tbl, err = cat.CreateTable(ctx, ident, schema, createOpts...)
	if err == nil {
		return tbl, nil
	}
	if !IsAlreadyExists(err) {
		return nil, fmt.Errorf("failed to create table %s.%s: %w", namespace, tableName, err)
	}

	// Lost the creation race; the winner's metadata may not be
	// readable yet.
	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(100*(1<<attempt)) * time.Millisecond)
		}
		tbl, lastErr = cat.LoadTable(ctx, ident)
		if lastErr == nil {
			return tbl, nil
		}
	}
	return nil, fmt.Errorf("table %s.%s exists but cannot be loaded: %w", namespace, tableName, lastErr)
}

// EnsureNamespace creates the namespace if it doesn't exist.
func EnsureNamespace(ctx context.Context, cat catalog.Catalog, namespace string) error {
	ident := catalog.ToIdentifier(namespace)
	_, err := cat.LoadNamespaceProperties(ctx, ident)
	if err == nil {
		return nil
	}

	err = cat.CreateNamespace(ctx, ident, nil)
	if err != nil && !IsAlreadyExists(err) {
		return err
	}
	return nil
}

// IsAlreadyExists reports whether an error indicates the namespace or
// table already exists. Catalogs are inconsistent about error shapes,
// so string matching backs up the sentinel checks.
func IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, catalog.ErrNamespaceAlreadyExists) ||
		errors.Is(err, catalog.ErrTableAlreadyExists) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "AlreadyExists") ||
		strings.Contains(errStr, "already exists") ||
		strings.Contains(errStr, "Conflict")
}
